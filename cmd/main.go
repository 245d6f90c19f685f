package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"ui-assessment-bot/config"
	telegram "ui-assessment-bot/internal/api"
	"ui-assessment-bot/internal/api/rest"
	"ui-assessment-bot/internal/container"
	"ui-assessment-bot/internal/infrastructure/pdf"
	"ui-assessment-bot/internal/infrastructure/scratch"
	"ui-assessment-bot/internal/infrastructure/storage"
	"ui-assessment-bot/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Создаём хранилище сессий и временных файлов
	sessionRepo := storage.NewMemorySessionRepository()
	scratchStore, err := scratch.NewStore(cfg.ScratchDir)
	if err != nil {
		log.Fatalf("Failed to create scratch store: %v", err)
	}

	detector, err := container.NewDetector(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create detector: %v", err)
	}

	annotator := vision.NewAnnotator(vision.LoadFace(cfg.FontPath, cfg.FontSize))
	renderer := pdf.NewRenderer("ui-assessment-bot")

	// Собираем сервисы приложения
	appContainer := container.New(sessionRepo, detector, annotator, scratchStore, renderer)
	defer appContainer.AssessmentService.Close()

	var wg sync.WaitGroup

	var srv *http.Server
	if cfg.HTTPAddr != "" {
		srv = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           rest.SetupRouter(appContainer),
			ReadHeaderTimeout: 10 * time.Second,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Printf("HTTP API listening on %s", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("HTTP server error: %v", err)
				stop()
			}
		}()
	}

	if cfg.TelegramToken != "" {
		// Создаём бота
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
		if err != nil {
			log.Fatalf("Failed to create bot: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Println("Bot is running...")
			if err := bot.Run(ctx); err != nil {
				log.Printf("Bot error: %v", err)
			}
		}()
	}

	<-ctx.Done()
	log.Println("Shutting down...")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP shutdown error: %v", err)
		}
	}

	wg.Wait()
	log.Println("Stopped")
}

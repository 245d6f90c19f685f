package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "ui-assessment-bot/internal/application"
	"ui-assessment-bot/internal/container"
)

// Bot представляет Telegram-бота. Одна сессия оценки на чат.
type Bot struct {
	api         *tgbotapi.BotAPI
	sessions    *app.SessionService
	assessments *app.AssessmentService
	httpc       *http.Client
	wg          sync.WaitGroup
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:         api,
		sessions:    c.SessionService,
		assessments: c.AssessmentService,
		httpc:       &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			switch {
			case update.CallbackQuery != nil:
				b.handleCallback(ctx, update.CallbackQuery)
			case update.Message != nil:
				b.handleMessage(ctx, update.Message)
			}
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Фото: берём максимальное разрешение
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		b.startUpload(ctx, chatID, fmt.Sprintf("telegram_photo_%d.jpg", msg.MessageID), photo.FileID)
		return
	}

	// Скриншот, отправленный файлом, приходит без сжатия
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		b.startUpload(ctx, chatID, msg.Document.FileName, msg.Document.FileID)
		return
	}

	if msg.Text != "" {
		b.handleText(ctx, chatID, msg.Text)
		return
	}

	b.sendMessage(chatID, msgSendScreenshot)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "form":
		b.sendForm(ctx, chatID)

	case "set":
		field, text, ok := parseSet(msg.CommandArguments())
		if !ok {
			b.sendMessage(chatID, msgSetUsage)
			return
		}
		if err := b.assessments.SetField(ctx, chatID, field, text); err != nil {
			b.sendMessage(chatID, errorText(err))
			return
		}
		b.sendMessage(chatID, fmt.Sprintf(msgFieldSaved, fieldLabel(field)))

	case "submit":
		b.submit(ctx, chatID)

	case "report":
		b.report(ctx, chatID)

	case "cancel":
		b.cancel(ctx, chatID)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleCallback обрабатывает нажатия кнопок формы
func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
	if q.Message == nil {
		return
	}
	chatID := q.Message.Chat.ID

	switch {
	case strings.HasPrefix(q.Data, callbackFieldPrefix):
		view, err := b.sessions.View(ctx, chatID)
		if err != nil {
			b.sendMessage(chatID, errorText(err))
			return
		}
		field, ok := parseFieldCallback(view, q.Data)
		if !ok {
			b.sendMessage(chatID, msgUnknownField)
			return
		}
		b.beginField(ctx, chatID, field)
	case q.Data == callbackSubmit:
		b.submit(ctx, chatID)
	case q.Data == callbackReport:
		b.report(ctx, chatID)
	}
}

// handleText заполняет поле, выбранное кнопкой формы
func (b *Bot) handleText(ctx context.Context, chatID int64, text string) {
	field, err := b.assessments.FillPending(ctx, chatID, text)
	if errors.Is(err, app.ErrNoPendingField) {
		b.sendMessage(chatID, msgSendScreenshot)
		return
	}
	if err != nil {
		b.sendMessage(chatID, errorText(err))
		return
	}

	b.sendMessage(chatID, fmt.Sprintf(msgFieldSaved, fieldLabel(field)))
	b.sendForm(ctx, chatID)
}

// startUpload обрабатывает скриншот в отдельной горутине, чтобы не задерживать другие чаты
func (b *Bot) startUpload(ctx context.Context, chatID int64, name, fileID string) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.handleUpload(ctx, chatID, name, fileID)
	}()
}

func (b *Bot) handleUpload(ctx context.Context, chatID int64, name, fileID string) {
	b.sendMessage(chatID, msgProcessing)

	data, err := b.downloadFile(ctx, fileID)
	if err != nil {
		log.Printf("Error downloading file: %v", err)
		b.sendMessage(chatID, msgDownloadError)
		return
	}

	out, err := b.assessments.OnUpload(ctx, chatID, name, data)
	if err != nil {
		log.Printf("Chat %d: upload of %q failed: %v", chatID, name, err)
		b.sendMessage(chatID, errorText(err))
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "annotated.jpg", Bytes: out.Annotated})
	photo.Caption = fmt.Sprintf("🧩 Найдено элементов: %d", len(out.Elements))
	if _, err := b.api.Send(photo); err != nil {
		log.Printf("Error sending photo: %v", err)
	}

	if len(out.Skipped) > 0 {
		b.sendMessage(chatID, fmt.Sprintf(msgPartial, len(out.Skipped)))
	}
	if len(out.Elements) == 0 {
		b.sendMessage(chatID, msgNoElements)
		return
	}

	b.sendForm(ctx, chatID)
}

func (b *Bot) beginField(ctx context.Context, chatID int64, field string) {
	current, err := b.assessments.BeginField(ctx, chatID, field)
	if err != nil {
		b.sendMessage(chatID, errorText(err))
		return
	}

	text := fmt.Sprintf(msgFieldPrompt, fieldLabel(field))
	if strings.TrimSpace(current) != "" {
		text += "\n" + fmt.Sprintf(msgFieldCurrent, current)
	}
	b.sendMessage(chatID, text)
}

func (b *Bot) submit(ctx context.Context, chatID int64) {
	snap, err := b.assessments.Submit(ctx, chatID)
	if err != nil {
		b.sendMessage(chatID, errorText(err))
		return
	}
	b.sendMessage(chatID, fmt.Sprintf(msgSubmitted, snap.Len()))
}

func (b *Bot) report(ctx context.Context, chatID int64) {
	dl, err := b.assessments.Download(ctx, chatID)
	if err != nil {
		log.Printf("Chat %d: report failed: %v", chatID, err)
		b.sendMessage(chatID, errorText(err))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: dl.FileName, Bytes: dl.Content})
	doc.Caption = msgReportReady
	if _, err := b.api.Send(doc); err != nil {
		log.Printf("Error sending document: %v", err)
		return
	}
	b.sendMessage(chatID, msgUploadAgain)
}

func (b *Bot) cancel(ctx context.Context, chatID int64) {
	view, err := b.sessions.View(ctx, chatID)
	if err != nil {
		b.sendMessage(chatID, errorText(err))
		return
	}

	if view.PendingField != "" {
		if _, err := b.sessions.Cancel(ctx, chatID); err != nil {
			b.sendMessage(chatID, errorText(err))
			return
		}
		b.sendMessage(chatID, msgInputCancelled)
		return
	}

	if err := b.assessments.Cancel(ctx, chatID); err != nil {
		b.sendMessage(chatID, errorText(err))
		return
	}
	b.sendMessage(chatID, msgSessionCancelled)
}

// sendForm отправляет список элементов с кнопками полей
func (b *Bot) sendForm(ctx context.Context, chatID int64) {
	view, err := b.sessions.View(ctx, chatID)
	if err != nil {
		b.sendMessage(chatID, errorText(err))
		return
	}
	if len(view.Elements) == 0 {
		b.sendMessage(chatID, msgNothingToAssess)
		return
	}

	msg := tgbotapi.NewMessage(chatID, formText(view))
	msg.ReplyMarkup = formKeyboard(view)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending form: %v", err)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

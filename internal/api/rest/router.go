// Package rest HTTP API той же сессии оценки, что и в боте, для браузера и скриптов.
package rest

import (
	"github.com/gin-gonic/gin"

	"ui-assessment-bot/internal/container"
)

// SetupRouter собирает gin-роутер
func SetupRouter(c *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = MaxUploadSize

	h := NewSessionHandler(c)
	r.GET("/healthz", h.Health)

	session := r.Group("/session")
	{
		session.GET("", h.GetSession)
		session.DELETE("", h.Reset)
		session.POST("/image", h.UploadImage)
		session.GET("/image", h.GetImage)
		session.PUT("/fields/:key", h.SetField)
		session.POST("/submit", h.Submit)
		session.GET("/report", h.Report)
	}

	return r
}

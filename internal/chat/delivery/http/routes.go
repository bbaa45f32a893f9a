package http

import (
	"github.com/labstack/echo/v4"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/chat"
)

func MapChatRoutes(webhookGroup *echo.Group, h chat.Handlers) {
	webhookGroup.POST("/whatsapp", h.InboundWebhook())
}

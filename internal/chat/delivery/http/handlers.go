package http

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/chat"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/config"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/logger"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/utils"
)

type chatHandlers struct {
	cfg    *config.Config
	chatUC chat.UseCase
	logger logger.Logger
}

func NewChatHandlers(cfg *config.Config, chatUC chat.UseCase, log logger.Logger) chat.Handlers {
	return &chatHandlers{cfg: cfg, chatUC: chatUC, logger: log}
}

// twimlResponse is the XML envelope the messaging provider expects as
// the synchronous webhook answer.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// InboundWebhook receives one provider-form message and answers with
// TwiML. Errors still produce a well-formed reply; the provider retries
// non-2xx responses and the user would see nothing.
func (h *chatHandlers) InboundWebhook() echo.HandlerFunc {
	return func(c echo.Context) error {
		from := c.FormValue("From")
		if from == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "From is required"})
		}

		msg := &chat.Inbound{
			From:      from,
			Body:      c.FormValue("Body"),
			MessageID: c.FormValue("MessageSid"),
		}
		reply, err := h.chatUC.HandleInbound(c.Request().Context(), msg)
		if err != nil {
			h.logger.Errorf("InboundWebhook: %v, RequestID: %s", err, utils.GetRequestID(c))
			reply = &chat.Reply{
				Tag:  chat.TagError,
				Body: "Something went wrong. Please try again in a moment.",
			}
		}
		return c.XML(http.StatusOK, twimlResponse{Message: reply.Body})
	}
}

package chat

import "github.com/labstack/echo/v4"

type Handlers interface {
	InboundWebhook() echo.HandlerFunc
}

// Package twilio sends WhatsApp messages through the Twilio REST API.
package twilio

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nikhilmalhotra7/ai-video-bot/internal/config"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/chat/gateway"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/logger"
	"github.com/pkg/errors"
)

const defaultBaseURL = "https://api.twilio.com"

type client struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewGateway returns the configured Twilio gateway, or the Unavailable
// variant when credentials are missing.
func NewGateway(cfg *config.Config, log logger.Logger) gateway.Gateway {
	if cfg.Gateway.AccountSID == "" || cfg.Gateway.AuthToken == "" {
		log.Warn("twilio credentials not set, chat delivery disabled")
		return gateway.NewUnavailable(log)
	}
	baseURL := cfg.Gateway.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &client{
		accountSID: cfg.Gateway.AccountSID,
		authToken:  cfg.Gateway.AuthToken,
		from:       cfg.Gateway.From,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     log,
	}
}

func (c *client) Send(ctx context.Context, to, body, mediaURL string) error {
	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", addressFor(to))
	form.Set("Body", body)
	if mediaURL != "" {
		form.Set("MediaUrl", mediaURL)
	}

	endpoint := c.baseURL + "/2010-04-01/Accounts/" + c.accountSID + "/Messages.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "twilio.Send.NewRequest")
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "twilio.Send.Do")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.Errorf("twilio.Send: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *client) Configured() bool { return true }

// addressFor rebuilds the channel address from a normalized identity.
func addressFor(to string) string {
	if strings.HasPrefix(to, "whatsapp:") {
		return to
	}
	if strings.HasPrefix(to, "+") {
		return "whatsapp:" + to
	}
	return "whatsapp:+" + to
}

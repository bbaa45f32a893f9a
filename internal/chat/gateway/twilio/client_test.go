package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nikhilmalhotra7/ai-video-bot/internal/config"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestSend_PostsForm(t *testing.T) {
	var got struct {
		path  string
		to    string
		body  string
		media string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got.path = r.URL.Path
		got.to = r.PostForm.Get("To")
		got.body = r.PostForm.Get("Body")
		got.media = r.PostForm.Get("MediaUrl")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Gateway.AccountSID = "AC123"
	cfg.Gateway.AuthToken = "secret"
	cfg.Gateway.From = "whatsapp:+14155238886"
	cfg.Gateway.BaseURL = srv.URL

	gw := NewGateway(cfg, logger.NewNopLogger())
	require.True(t, gw.Configured())

	err := gw.Send(context.Background(), "14155550100", "Here's your video", "https://example.com/v.mp4")
	require.NoError(t, err)
	require.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", got.path)
	require.Equal(t, "whatsapp:+14155550100", got.to)
	require.Equal(t, "Here's your video", got.body)
	require.Equal(t, "https://example.com/v.mp4", got.media)
}

func TestNewGateway_MissingCredentials(t *testing.T) {
	gw := NewGateway(&config.Config{}, logger.NewNopLogger())
	require.False(t, gw.Configured())
	require.NoError(t, gw.Send(context.Background(), "14155550100", "hello", ""))
}

package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/archive"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/chat/gateway"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/config"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/providers"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/kvstore"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/logger"
	"github.com/robfig/cron/v3"
)

const (
	maxHeaderBytes = 1 << 20
	ctxTimeout     = 5
)

type Server struct {
	echo      *echo.Echo
	cfg       *config.Config
	store     kvstore.Store
	primary   providers.Primary
	secondary providers.Secondary
	gateway   gateway.Gateway
	archive   archive.Archive
	logger    logger.Logger
}

func NewServer(
	cfg *config.Config,
	store kvstore.Store,
	primary providers.Primary,
	secondary providers.Secondary,
	gw gateway.Gateway,
	arch archive.Archive,
	log logger.Logger,
) *Server {
	return &Server{
		echo:      echo.New(),
		cfg:       cfg,
		store:     store,
		primary:   primary,
		secondary: secondary,
		gateway:   gw,
		archive:   arch,
		logger:    log,
	}
}

func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:           s.cfg.Server.Port,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
		MaxHeaderBytes: maxHeaderBytes,
	}

	if err := s.MapHandlers(s.echo); err != nil {
		return err
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", s.sweepVideos); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		s.logger.Infof("Server is listening on PORT: %s", s.cfg.Server.Port)
		if err := s.echo.StartServer(httpServer); err != nil {
			s.logger.Fatalf("Error starting Server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, shutdown := context.WithTimeout(context.Background(), ctxTimeout*time.Second)
	defer shutdown()

	s.logger.Info("Server Exited Properly")
	return s.echo.Server.Shutdown(ctx)
}

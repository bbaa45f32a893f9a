package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/archive"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/chat/gateway/twilio"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/config"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/providers/vidu"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/providers/zeroscope"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/server"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/db/redis"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/kvstore"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/logger"
)

func main() {
	log.Println("Starting api server")

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yml"
	}

	cfgFile, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("LoadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("ParseConfig: %v", err)
	}

	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	// The service stays up without Redis; state degrades to the
	// in-process store until the next restart.
	memory := kvstore.NewMemoryStore()
	var store kvstore.Store = memory
	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Warnf("Redis unavailable, falling back to in-memory store: %v", err)
	} else {
		appLogger.Info("Redis connected")
		store = kvstore.NewFallbackStore(kvstore.NewRedisStore(redisClient), memory, appLogger)
		defer redisClient.Close()
	}

	primary := vidu.NewClient(cfg)
	secondary := zeroscope.NewClient(cfg)
	gw := twilio.NewGateway(cfg, appLogger)

	arch, err := archive.NewS3Archive(cfg, appLogger)
	if err != nil {
		appLogger.Warnf("S3 archive unavailable: %v", err)
		arch = archive.NewUnavailable(appLogger)
	}
	if arch.Configured() {
		appLogger.Info("S3 archive enabled")
	}

	s := server.NewServer(cfg, store, primary, secondary, gw, arch, appLogger)
	if err := s.Run(); err != nil {
		appLogger.Fatalf("Server run: %v", err)
	}
}

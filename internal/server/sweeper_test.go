package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikhilmalhotra7/ai-video-bot/internal/config"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestSweepVideos(t *testing.T) {
	dir := t.TempDir()

	oldFile := filepath.Join(dir, "old.mp4")
	require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0o644))
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldFile, stale, stale))

	freshFile := filepath.Join(dir, "fresh.mp4")
	require.NoError(t, os.WriteFile(freshFile, []byte("fresh"), 0o644))

	cfg := &config.Config{}
	cfg.Video.Dir = dir
	cfg.Video.RetentionHours = 24

	s := &Server{cfg: cfg, logger: logger.NewNopLogger()}
	s.sweepVideos()

	_, err := os.Stat(oldFile)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(freshFile)
	require.NoError(t, err)
}

func TestSweepVideos_MissingDir(t *testing.T) {
	cfg := &config.Config{}
	cfg.Video.Dir = filepath.Join(t.TempDir(), "does-not-exist")

	s := &Server{cfg: cfg, logger: logger.NewNopLogger()}
	s.sweepVideos() // must not panic
}

package server

import (
	"os"
	"path/filepath"
	"time"
)

const defaultRetention = 24 * time.Hour

// sweepVideos deletes generated files older than the retention window.
// Job records keep their own TTL; a swept file simply makes the
// download endpoint report the video as unavailable.
func (s *Server) sweepVideos() {
	retention := defaultRetention
	if s.cfg.Video.RetentionHours > 0 {
		retention = time.Duration(s.cfg.Video.RetentionHours) * time.Hour
	}
	dir := s.cfg.Video.Dir
	if dir == "" {
		dir = "videos"
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warnf("video sweep: %v", err)
		}
		return
	}

	cutoff := time.Now().Add(-retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				s.logger.Warnf("video sweep: remove %s: %v", entry.Name(), err)
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		s.logger.Infof("video sweep removed %d expired files from %s", removed, dir)
	}
}

// Package media wraps the ffmpeg/ffprobe binaries for the optional
// post-processing stage. Everything here is best effort: when a binary
// is missing or fails, callers deliver the original file unmodified.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const compressTimeout = 5 * time.Minute

type Profile string

const (
	// ProfileChat targets narrow-bandwidth chat delivery: capped
	// resolution, strict maxrate.
	ProfileChat Profile = "chat"
	// ProfileMedium is a lighter general-purpose re-encode.
	ProfileMedium Profile = "medium"
)

type Info struct {
	Width    int
	Height   int
	Duration float64
}

// EncoderAvailable reports whether ffmpeg is on PATH.
func EncoderAvailable() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

func profileArgs(profile Profile) []string {
	switch profile {
	case ProfileMedium:
		return []string{
			"-c:v", "libx264",
			"-crf", "23",
			"-preset", "medium",
			"-vf", "scale=720:-2",
			"-c:a", "aac",
			"-b:a", "128k",
		}
	default:
		return []string{
			"-c:v", "libx264",
			"-crf", "28",
			"-preset", "medium",
			"-vf", "scale='min(720,iw)':'min(720,ih)':force_original_aspect_ratio=decrease",
			"-c:a", "aac",
			"-b:a", "128k",
			"-maxrate", "1M",
			"-bufsize", "2M",
		}
	}
}

// CompressArgs builds the full ffmpeg argument list for a compression run.
func CompressArgs(inputPath, outputPath string, profile Profile) []string {
	args := []string{"-i", inputPath, "-y", "-loglevel", "error"}
	args = append(args, profileArgs(profile)...)
	return append(args, outputPath)
}

// Compress re-encodes inputPath into outputPath and returns the path to
// deliver. On any failure it returns inputPath together with the error
// so the caller can ship the original.
func Compress(ctx context.Context, inputPath, outputPath string, profile Profile) (string, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return inputPath, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, compressTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, ffmpegPath, CompressArgs(inputPath, outputPath, profile)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return inputPath, fmt.Errorf("ffmpeg failed: %v: %s", err, strings.TrimSpace(string(out)))
	}
	if _, err := os.Stat(outputPath); err != nil {
		return inputPath, fmt.Errorf("ffmpeg produced no output: %w", err)
	}
	return outputPath, nil
}

// FileSizeMB returns the size of a file in megabytes.
func FileSizeMB(path string) (float64, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return float64(stat.Size()) / (1024 * 1024), nil
}

// Probe reads resolution and duration with ffprobe.
func Probe(ctx context.Context, inputPath string) (*Info, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-select_streams", "v:0",
		"-show_entries", "stream=width,height", "-of", "csv=p=0", inputPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffprobe error: %v output: %s", err, string(output))
	}

	trimmed := strings.TrimRight(strings.TrimSpace(string(output)), ",")
	parts := strings.Split(trimmed, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("unexpected ffprobe output: %s", trimmed)
	}
	width, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid width: %v", err)
	}
	height, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid height: %v", err)
	}

	cmd = exec.CommandContext(ctx, "ffprobe", "-v", "error", "-show_entries",
		"format=duration", "-of", "csv=p=0", inputPath)
	durationOutput, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffprobe duration error: %v", err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(durationOutput)), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid duration: %v", err)
	}

	return &Info{Width: width, Height: height, Duration: duration}, nil
}

// Package orchestrator runs the video-generation pipeline for admitted
// jobs: primary provider first, synchronous fallback second, placeholder
// last. A job always reaches a terminal status; only the orchestrator
// writes job records after creation.
package orchestrator

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikhilmalhotra7/ai-video-bot/internal/archive"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/chat/gateway"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/config"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/models"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/providers"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/videojobs"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/logger"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/media"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/metrics"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/utils"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

const (
	defaultMaxConcurrent     = 3
	defaultCompressThreshold = 15.0
	defaultVideoDir          = "videos"

	msgContacting  = "Contacting the video model..."
	msgGenerating  = "Your video is being generated..."
	msgFallingBack = "Primary model busy, trying a fallback model..."
	msgOptimizing  = "Optimizing your video..."
	msgCompleted   = "Video generated successfully!"
	msgPlaceholder = "Here is a demo video while generation is unavailable."
	msgFailed      = "Video generation failed. Please try again later."
)

type Orchestrator struct {
	cfg        *config.Config
	repo       videojobs.Repository
	primary    providers.Primary
	secondary  providers.Secondary
	gateway    gateway.Gateway
	archive    archive.Archive
	logger     logger.Logger
	sem        *semaphore.Weighted
	httpClient *http.Client
	sleep      func(ctx context.Context, d time.Duration) error
}

func New(
	cfg *config.Config,
	repo videojobs.Repository,
	primary providers.Primary,
	secondary providers.Secondary,
	gw gateway.Gateway,
	arch archive.Archive,
	log logger.Logger,
) *Orchestrator {
	maxConcurrent := cfg.Worker.MaxConcurrentJobs
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Orchestrator{
		cfg:        cfg,
		repo:       repo,
		primary:    primary,
		secondary:  secondary,
		gateway:    gw,
		archive:    arch,
		logger:     log,
		sem:        semaphore.NewWeighted(int64(maxConcurrent)),
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		sleep:      sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Launch runs the pipeline in the background, bounded by the concurrency
// cap. Extra jobs queue on the semaphore instead of being rejected.
func (o *Orchestrator) Launch(job *models.Job) {
	go func() {
		ctx := context.Background()
		if err := o.sem.Acquire(ctx, 1); err != nil {
			return
		}
		defer o.sem.Release(1)
		o.Run(ctx, job)
	}()
}

// Run executes the full fallback chain synchronously.
func (o *Orchestrator) Run(ctx context.Context, job *models.Job) {
	o.update(ctx, job.JobID, &models.JobUpdate{
		Progress: models.IntPtr(10),
		Message:  models.StringPtr(msgContacting),
	})

	taskID, err := o.submitPrimary(ctx, job)
	if err != nil {
		o.logger.Warnf("job %s: primary submit failed: %v", job.JobID, err)
		o.runSecondary(ctx, job)
		return
	}

	assetURL, err := o.pollPrimary(ctx, job.JobID, taskID)
	if err != nil {
		o.logger.Warnf("job %s: primary polling gave up: %v", job.JobID, err)
		o.runSecondary(ctx, job)
		return
	}

	localPath, err := o.fetchAsset(ctx, assetURL, job.JobID)
	if err != nil {
		o.logger.Warnf("job %s: asset retrieval failed: %v", job.JobID, err)
		o.runSecondary(ctx, job)
		return
	}

	o.complete(ctx, job, localPath, "primary", false)
}

func (o *Orchestrator) submitPrimary(ctx context.Context, job *models.Job) (string, error) {
	started := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("submit_primary").Observe(time.Since(started).Seconds())
	}()

	params := providers.GenerationParams{
		Model:             o.cfg.Vidu.Model,
		DurationSeconds:   o.cfg.Vidu.DurationSeconds,
		AspectRatio:       o.cfg.Vidu.AspectRatio,
		Resolution:        o.cfg.Vidu.Resolution,
		MovementAmplitude: o.cfg.Vidu.MovementAmplitude,
	}
	return o.primary.CreateTask(ctx, job.Prompt, params)
}

// pollPrimary polls until the task resolves or the attempt budget is
// exhausted. Individual poll errors count against the budget rather
// than aborting the stage.
func (o *Orchestrator) pollPrimary(ctx context.Context, jobID, taskID string) (string, error) {
	started := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("poll_primary").Observe(time.Since(started).Seconds())
	}()

	attempts := o.cfg.PollAttempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := o.primary.PollTask(ctx, taskID)
		if err != nil {
			o.logger.Debugf("job %s: poll %d/%d failed: %v", jobID, attempt, attempts, err)
		} else {
			switch result.State {
			case providers.TaskStateSuccess:
				if result.AssetURL == "" {
					return "", errors.New("task succeeded without an asset url")
				}
				return result.AssetURL, nil
			case providers.TaskStateFailed:
				return "", errors.Errorf("task %s reported failure", taskID)
			}
		}

		if attempt%6 == 0 {
			progress := 20 + attempt*50/attempts
			o.update(ctx, jobID, &models.JobUpdate{
				Progress: models.IntPtr(progress),
				Message:  models.StringPtr(msgGenerating),
			})
		}
		if attempt < attempts {
			if err := o.sleep(ctx, o.cfg.PollInterval()); err != nil {
				return "", err
			}
		}
	}
	return "", errors.Errorf("task %s unresolved after %d polls", taskID, attempts)
}

// runSecondary is the synchronous fallback stage.
func (o *Orchestrator) runSecondary(ctx context.Context, job *models.Job) {
	started := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("fallback_secondary").Observe(time.Since(started).Seconds())
	}()

	o.update(ctx, job.JobID, &models.JobUpdate{
		Progress: models.IntPtr(75),
		Message:  models.StringPtr(msgFallingBack),
	})

	ref, err := o.secondary.Infer(ctx, job.Prompt)
	if err != nil {
		o.logger.Warnf("job %s: fallback inference failed: %v", job.JobID, err)
		o.runPlaceholder(ctx, job)
		return
	}

	localPath, err := o.fetchAsset(ctx, ref, job.JobID)
	if err != nil {
		o.logger.Warnf("job %s: fallback asset retrieval failed: %v", job.JobID, err)
		o.runPlaceholder(ctx, job)
		return
	}

	o.complete(ctx, job, localPath, "fallback", false)
}

// runPlaceholder is the last stage: ship the demo clip if one is
// configured, otherwise fail the job with a user-presentable message.
func (o *Orchestrator) runPlaceholder(ctx context.Context, job *models.Job) {
	placeholder := o.cfg.Video.PlaceholderFile
	if placeholder != "" {
		if _, err := os.Stat(placeholder); err == nil {
			localPath := filepath.Join(o.videoDir(), job.JobID+".mp4")
			if err := copyFile(placeholder, localPath); err == nil {
				o.complete(ctx, job, localPath, "placeholder", true)
				return
			}
			o.logger.Errorf("job %s: placeholder copy failed", job.JobID)
		}
	}

	o.update(ctx, job.JobID, &models.JobUpdate{
		Status:  models.StatusPtr(models.JobStatusError),
		Message: models.StringPtr(msgFailed),
	})
	metrics.JobsFinished.WithLabelValues("error").Inc()
	o.notify(ctx, job, "Sorry, your video could not be generated. Please try again later.", "")
}

// complete post-processes the local asset and marks the job done.
func (o *Orchestrator) complete(ctx context.Context, job *models.Job, localPath, outcome string, placeholder bool) {
	started := time.Now()

	o.update(ctx, job.JobID, &models.JobUpdate{
		Progress: models.IntPtr(90),
		Message:  models.StringPtr(msgOptimizing),
	})
	localPath = o.maybeCompress(ctx, job.JobID, localPath)
	if info, err := media.Probe(ctx, localPath); err == nil {
		o.logger.Infof("job %s: delivering %dx%d, %.1fs", job.JobID, info.Width, info.Height, info.Duration)
	}

	message := msgCompleted
	if placeholder {
		message = msgPlaceholder
	}
	videoURL := o.downloadURL(job.JobID)
	o.update(ctx, job.JobID, &models.JobUpdate{
		Status:      models.StatusPtr(models.JobStatusCompleted),
		Progress:    models.IntPtr(100),
		Message:     models.StringPtr(message),
		VideoURL:    models.StringPtr(videoURL),
		VideoPath:   models.StringPtr(localPath),
		Placeholder: models.BoolPtr(placeholder),
	})
	metrics.StageDuration.WithLabelValues("postprocess").Observe(time.Since(started).Seconds())
	metrics.JobsFinished.WithLabelValues(outcome).Inc()

	if o.archive.Configured() {
		if err := o.archive.Upload(ctx, localPath, job.JobID+".mp4"); err != nil {
			o.logger.Warnf("job %s: archive upload failed: %v", job.JobID, err)
		}
	}

	o.notify(ctx, job, "Your video is ready! "+message, videoURL)
}

// maybeCompress re-encodes oversized files when ffmpeg is present and
// the host has CPU headroom. Any failure delivers the original file.
func (o *Orchestrator) maybeCompress(ctx context.Context, jobID, localPath string) string {
	threshold := o.cfg.Video.CompressThresholdMB
	if threshold <= 0 {
		threshold = defaultCompressThreshold
	}

	sizeMB, err := media.FileSizeMB(localPath)
	if err != nil || sizeMB <= threshold {
		return localPath
	}
	if !media.EncoderAvailable() {
		o.logger.Warnf("job %s: %.1fMB exceeds %.0fMB but no encoder available", jobID, sizeMB, threshold)
		return localPath
	}
	if ok, usage := utils.CheckCPUUsage(o.cfg.Worker.MaxCPUUsage); !ok {
		o.logger.Warnf("job %s: skipping compression, cpu at %.1f%%", jobID, usage)
		return localPath
	}

	compressed := strings.TrimSuffix(localPath, filepath.Ext(localPath)) + "_chat.mp4"
	final, err := media.Compress(ctx, localPath, compressed, media.ProfileChat)
	if err != nil {
		o.logger.Warnf("job %s: compression failed, delivering original: %v", jobID, err)
		return localPath
	}
	if final != localPath {
		if err := os.Remove(localPath); err != nil {
			o.logger.Warnf("job %s: could not remove uncompressed file: %v", jobID, err)
		}
	}
	return final
}

// fetchAsset materializes a provider asset reference, remote URL or
// local file path, into the video directory.
func (o *Orchestrator) fetchAsset(ctx context.Context, ref, jobID string) (string, error) {
	dir := o.videoDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "orchestrator.fetchAsset.MkdirAll")
	}
	localPath := filepath.Join(dir, jobID+".mp4")

	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		if ref == localPath {
			return localPath, nil
		}
		if err := copyFile(ref, localPath); err != nil {
			return "", errors.Wrap(err, "orchestrator.fetchAsset.copy")
		}
		return localPath, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return "", errors.Wrap(err, "orchestrator.fetchAsset.NewRequest")
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "orchestrator.fetchAsset.Do")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("orchestrator.fetchAsset: unexpected status %d", resp.StatusCode)
	}

	out, err := os.Create(localPath)
	if err != nil {
		return "", errors.Wrap(err, "orchestrator.fetchAsset.Create")
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(localPath)
		return "", errors.Wrap(err, "orchestrator.fetchAsset.Copy")
	}
	return localPath, nil
}

func (o *Orchestrator) update(ctx context.Context, jobID string, u *models.JobUpdate) {
	if _, err := o.repo.UpdateJob(ctx, jobID, u); err != nil {
		o.logger.Errorf("job %s: status update failed: %v", jobID, err)
	}
}

func (o *Orchestrator) notify(ctx context.Context, job *models.Job, body, mediaURL string) {
	if job.Identity == "" || !o.gateway.Configured() {
		return
	}
	if err := o.gateway.Send(ctx, job.Identity, body, mediaURL); err != nil {
		o.logger.Warnf("job %s: completion notice failed: %v", job.JobID, err)
	}
}

func (o *Orchestrator) videoDir() string {
	if o.cfg.Video.Dir != "" {
		return o.cfg.Video.Dir
	}
	return defaultVideoDir
}

func (o *Orchestrator) downloadURL(jobID string) string {
	base := strings.TrimSuffix(o.cfg.Server.PublicBaseURL, "/")
	return base + "/api/v1/jobs/" + jobID + "/download"
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

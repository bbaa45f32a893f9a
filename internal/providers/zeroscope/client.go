// Package zeroscope implements the secondary, synchronous inference
// fallback against a hosted zeroscope text-to-video space.
package zeroscope

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nikhilmalhotra7/ai-video-bot/internal/config"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/providers"
	"github.com/pkg/errors"
)

type Client struct {
	spaceURL   string
	token      string
	numFrames  int
	steps      int
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	timeout := 120 * time.Second
	if cfg.Fallback.RequestTimeoutSec > 0 {
		timeout = time.Duration(cfg.Fallback.RequestTimeoutSec) * time.Second
	}
	numFrames := cfg.Fallback.NumFrames
	if numFrames <= 0 {
		numFrames = 24
	}
	steps := cfg.Fallback.InferenceSteps
	if steps <= 0 {
		steps = 25
	}
	return &Client{
		spaceURL:   cfg.Fallback.SpaceURL,
		token:      cfg.Fallback.Token,
		numFrames:  numFrames,
		steps:      steps,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type inferRequest struct {
	Prompt            string `json:"prompt"`
	Seed              int    `json:"seed"`
	NumFrames         int    `json:"num_frames"`
	NumInferenceSteps int    `json:"num_inference_steps"`
}

type inferResponse struct {
	Video string `json:"video"`
}

func (c *Client) Infer(ctx context.Context, prompt string) (string, error) {
	if c.spaceURL == "" {
		return "", providers.ErrNotConfigured
	}

	body, err := json.Marshal(inferRequest{
		Prompt:            prompt,
		NumFrames:         c.numFrames,
		NumInferenceSteps: c.steps,
	})
	if err != nil {
		return "", errors.Wrap(err, "zeroscope.Infer.Marshal")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.spaceURL+"/run", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "zeroscope.Infer.NewRequest")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "zeroscope.Infer.Do")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("zeroscope.Infer: unexpected status %d", resp.StatusCode)
	}

	var result inferResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.Wrap(err, "zeroscope.Infer.Decode")
	}
	if result.Video == "" {
		return "", errors.New("zeroscope.Infer: response contained no video reference")
	}
	return result.Video, nil
}

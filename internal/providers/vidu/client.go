// Package vidu implements the primary text-to-video provider client.
package vidu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nikhilmalhotra7/ai-video-bot/internal/config"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/providers"
	"github.com/pkg/errors"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	timeout := 30 * time.Second
	if cfg.Vidu.RequestTimeoutSec > 0 {
		timeout = time.Duration(cfg.Vidu.RequestTimeoutSec) * time.Second
	}
	baseURL := cfg.Vidu.BaseURL
	if baseURL == "" {
		baseURL = "https://api.vidu.com"
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.Vidu.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type createRequest struct {
	Model             string `json:"model"`
	Prompt            string `json:"prompt"`
	Duration          int    `json:"duration"`
	AspectRatio       string `json:"aspect_ratio"`
	Resolution        string `json:"resolution"`
	MovementAmplitude string `json:"movement_amplitude"`
}

type createResponse struct {
	TaskID string `json:"task_id"`
}

type pollResponse struct {
	State     string `json:"state"`
	Creations []struct {
		URL string `json:"url"`
	} `json:"creations"`
}

type creditsResponse struct {
	Remains []struct {
		CreditRemain int `json:"credit_remain"`
	} `json:"remains"`
}

func (c *Client) CreateTask(ctx context.Context, prompt string, params providers.GenerationParams) (string, error) {
	if c.apiKey == "" {
		return "", providers.ErrNotConfigured
	}

	body, err := json.Marshal(createRequest{
		Model:             params.Model,
		Prompt:            prompt,
		Duration:          params.DurationSeconds,
		AspectRatio:       params.AspectRatio,
		Resolution:        params.Resolution,
		MovementAmplitude: params.MovementAmplitude,
	})
	if err != nil {
		return "", errors.Wrap(err, "vidu.CreateTask.Marshal")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ent/v2/text2video", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "vidu.CreateTask.NewRequest")
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "vidu.CreateTask.Do")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("vidu.CreateTask: unexpected status %d", resp.StatusCode)
	}

	var result createResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.Wrap(err, "vidu.CreateTask.Decode")
	}
	if result.TaskID == "" {
		return "", providers.ErrNoTaskID
	}
	return result.TaskID, nil
}

func (c *Client) PollTask(ctx context.Context, taskID string) (*providers.PollResult, error) {
	url := fmt.Sprintf("%s/ent/v2/tasks/%s/creations", c.baseURL, taskID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "vidu.PollTask.NewRequest")
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "vidu.PollTask.Do")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("vidu.PollTask: unexpected status %d", resp.StatusCode)
	}

	var result pollResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "vidu.PollTask.Decode")
	}

	poll := &providers.PollResult{State: result.State}
	if len(result.Creations) > 0 {
		poll.AssetURL = result.Creations[0].URL
	}
	return poll, nil
}

func (c *Client) Credits(ctx context.Context) (int, error) {
	if c.apiKey == "" {
		return 0, providers.ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ent/v2/credits", nil)
	if err != nil {
		return 0, errors.Wrap(err, "vidu.Credits.NewRequest")
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "vidu.Credits.Do")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("vidu.Credits: unexpected status %d", resp.StatusCode)
	}

	var result creditsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, errors.Wrap(err, "vidu.Credits.Decode")
	}

	total := 0
	for _, pkg := range result.Remains {
		total += pkg.CreditRemain
	}
	return total, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

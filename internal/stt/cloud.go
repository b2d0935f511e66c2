// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     stt
// Description: Remote transcription via an OpenAI-compatible audio API
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package stt

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/zhangyu1818/typefree/internal/config"
	"github.com/zhangyu1818/typefree/pkg/logging"
)

// CloudClient sends audio to a hosted transcription API.
type CloudClient struct {
	api      *openai.Client
	model    string
	language string
	timeout  time.Duration
	logger   *logging.Logger
}

// NewCloudClient creates the remote engine from the STT settings.
func NewCloudClient(cfg config.STTConfig, logger *logging.Logger) *CloudClient {
	if logger == nil {
		logger = logging.New("stt-cloud")
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey())
	if cfg.CloudBaseURL != "" {
		apiCfg.BaseURL = cfg.CloudBaseURL
	}

	return &CloudClient{
		api:      openai.NewClientWithConfig(apiCfg),
		model:    cfg.CloudModel,
		language: cfg.Language,
		timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:   logger,
	}
}

// TranscribeFile uploads the WAV file and returns the transcription.
func (c *CloudClient) TranscribeFile(ctx context.Context, path string) (Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.AudioRequest{
		Model:    c.model,
		FilePath: path,
	}
	if c.language != "" && c.language != "auto" {
		req.Language = c.language
	}

	started := time.Now()
	resp, err := c.api.CreateTranscription(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("cloud transcription failed: %w", err)
	}

	elapsed := time.Since(started)
	c.logger.Debug("cloud transcription complete", "model", c.model, "duration", elapsed)

	return Result{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: elapsed,
	}, nil
}

// Close releases resources.
func (c *CloudClient) Close() error {
	return nil
}

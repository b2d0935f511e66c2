// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     stt
// Description: Alternate offline engine via a local OpenAI-compatible server
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/zhangyu1818/typefree/internal/config"
	"github.com/zhangyu1818/typefree/pkg/logging"
)

// AltClient talks to a locally running transcription server exposing the
// OpenAI audio API shape (vLLM, LocalAI, parakeet servers and similar).
type AltClient struct {
	baseURL  string
	model    string
	language string
	client   *http.Client
	logger   *logging.Logger
}

// NewAltClient creates a client for the alternate local server.
func NewAltClient(cfg config.STTConfig, logger *logging.Logger) *AltClient {
	if logger == nil {
		logger = logging.New("stt-alt")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &AltClient{
		baseURL:  cfg.AltServerURL,
		model:    cfg.AltModel,
		language: cfg.Language,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Warm checks the server is reachable.
func (c *AltClient) Warm(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("transcription server unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

// TranscribeFile uploads a WAV file as a multipart form and parses the
// server's JSON response.
func (c *AltClient) TranscribeFile(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read audio file: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return Result{}, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return Result{}, fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.WriteField("model", c.model); err != nil {
		return Result{}, err
	}
	if c.language != "" && c.language != "auto" {
		if err := writer.WriteField("language", c.language); err != nil {
			return Result{}, err
		}
	}
	if err := writer.WriteField("temperature", "0"); err != nil {
		return Result{}, err
	}
	if err := writer.Close(); err != nil {
		return Result{}, err
	}

	started := time.Now()
	url := c.baseURL + "/v1/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Result{}, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return Result{}, fmt.Errorf("failed to decode response: %w", err)
	}

	lang := response.Language
	if lang == "" {
		lang = c.language
	}
	c.logger.Debug("alt transcription complete", "model", c.model, "duration", time.Since(started))

	return Result{
		Text:     response.Text,
		Language: lang,
		Duration: time.Since(started),
	}, nil
}

// Close releases resources.
func (c *AltClient) Close() error {
	return nil
}

// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     enhance
// Description: LLM text enhancement via an OpenAI-compatible API
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package enhance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/zhangyu1818/typefree/internal/config"
	"github.com/zhangyu1818/typefree/pkg/logging"
)

// ErrEmptyResponse indicates the model returned no usable text.
var ErrEmptyResponse = errors.New("enhancement returned empty text")

const systemPreamble = "You rewrite dictated text. Apply the instruction to the " +
	"user's transcript and return only the rewritten text, with no preamble."

// Result is the outcome of one enhancement call.
type Result struct {
	Text       string
	Duration   time.Duration
	PromptName string
}

// Enhancer rewrites transcripts with an LLM prompt.
type Enhancer interface {
	Enhance(ctx context.Context, text string, prompt config.PromptConfig) (Result, error)
}

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	logger  *logging.Logger
}

// NewClient builds a client from the enhancement settings.
func NewClient(cfg config.EnhancementConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.New("enhance")
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey())
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:  logger,
	}
}

// Enhance rewrites text according to the prompt's instruction. The call is
// a single attempt; the caller decides how to degrade on failure.
func (c *Client) Enhance(ctx context.Context, text string, prompt config.PromptConfig) (Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	started := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPreamble + "\n\nInstruction: " + prompt.Instruction},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("enhancement request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Result{}, ErrEmptyResponse
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return Result{}, ErrEmptyResponse
	}

	elapsed := time.Since(started)
	c.logger.Debug("enhancement complete", "model", c.model, "prompt", prompt.Name, "duration", elapsed)

	return Result{Text: out, Duration: elapsed, PromptName: prompt.Name}, nil
}

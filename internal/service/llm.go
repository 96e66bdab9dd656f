package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pageza/whatnext/backend/config"
)

// generationTemperature keeps completions close to the foods in the prompt
const generationTemperature = 0.4

// maxErrorBody bounds how much of a failed response is kept for logging
const maxErrorBody = 2048

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the chat completions API
type ChatRequest struct {
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerationClient sends single-turn prompts to an Azure OpenAI deployment.
// Calls are never retried.
type GenerationClient struct {
	cfg       config.GenerationConfig
	client    *http.Client
	configErr *ConfigError
}

// NewGenerationClient creates a client for cfg. Incomplete settings are not an error
// here; they are reported by ConfigErr and by every call to Generate.
func NewGenerationClient(cfg config.GenerationConfig, client *http.Client) *GenerationClient {
	if client == nil {
		client = &http.Client{}
	}
	c := &GenerationClient{cfg: cfg, client: client}
	if missing := cfg.Missing(); len(missing) > 0 {
		c.configErr = &ConfigError{Missing: missing}
	}
	return c
}

// ConfigErr returns the ConfigError every Generate call will fail with, or nil
func (c *GenerationClient) ConfigErr() error {
	if c.configErr == nil {
		return nil
	}
	return c.configErr
}

func (c *GenerationClient) completionsURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.cfg.Endpoint,
		url.PathEscape(c.cfg.Deployment),
		url.QueryEscape(c.cfg.APIVersion),
	)
}

// Generate sends prompt as one user message and returns the first choice's text unmodified
func (c *GenerationClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.configErr != nil {
		return "", c.configErr
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	reqBody := ChatRequest{
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: generationTemperature,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.completionsURL(), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &GenerationError{Kind: GenerationTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.cfg.APIKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", &GenerationError{Kind: GenerationTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Kind: GenerationTransport, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Int("bytes", len(body)).
		Msg("generation call finished")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return "", &GenerationError{Kind: GenerationStatus, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &GenerationError{Kind: GenerationMalformed, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if len(result.Choices) == 0 {
		return "", &GenerationError{Kind: GenerationMalformed, Err: errors.New("no choices in response")}
	}

	return result.Choices[0].Message.Content, nil
}

package describe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lithofield/geodescribe/internal/logger"
	"github.com/lithofield/geodescribe/internal/pxrf"
)

// Request is the context packaged for one description call: the raw form
// fields, an optional photo data URL, and the optional pXRF element
// summary.
type Request struct {
	Form        map[string]interface{}
	PhotoURL    string
	PXRFSummary map[string]pxrf.ElementSummary
}

// Result is the upstream's narrative plus the model that produced it.
type Result struct {
	Description string `json:"description"`
	Model       string `json:"model,omitempty"`
}

// UpstreamError is a non-success response from the model provider, relayed
// with the upstream status and body embedded.
type UpstreamError struct {
	StatusCode int
	Body       string
	Model      string
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("upstream %d from model %s: %s", e.StatusCode, e.Model, e.Body)
	if hint := e.Hint(); hint != "" {
		msg += " (" + hint + ")"
	}
	return msg
}

// Hint translates well-known provider statuses into an operator hint.
func (e *UpstreamError) Hint() string {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return "check OPENAI_API_KEY and its scopes"
	case http.StatusNotFound:
		return "model unavailable for this key"
	case http.StatusTooManyRequests:
		return "rate limited, retry later"
	}
	return ""
}

// Config carries the client settings; see config.Load for the env mapping.
type Config struct {
	APIKey      string
	BaseURL     string
	Models      []string // tried in order
	Temperature float64
	Timeout     time.Duration
}

// Client posts description requests to an OpenAI-compatible chat
// completions endpoint, trying each configured model in order until one
// succeeds. One configurable component instead of a handler fork per
// prompt/model combination.
type Client struct {
	log        *logger.Logger
	cfg        Config
	prompt     PromptTemplate
	httpClient *http.Client
}

// New builds a client. The API key is required; everything else has
// defaults.
func New(log *logger.Logger, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if len(cfg.Models) == 0 {
		cfg.Models = []string{"gpt-4o"}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Client{
		log:        log.With("service", "DescribeClient"),
		cfg:        cfg,
		prompt:     DefaultPrompt,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// SetPrompt swaps the prompt template.
func (c *Client) SetPrompt(p PromptTemplate) {
	c.prompt = p
}

// Describe runs the sequential model fallback. Each candidate gets one
// attempt; the last upstream error is returned if all fail. Cancellation
// of ctx aborts the in-flight request but nothing upstream.
func (c *Client) Describe(ctx context.Context, req Request) (*Result, error) {
	user := c.prompt.BuildUser(req)

	var lastErr error
	for _, model := range c.cfg.Models {
		text, err := c.complete(ctx, model, user, req.PhotoURL)
		if err == nil {
			return &Result{Description: text, Model: model}, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, lastErr
		}
		c.log.Warn("model attempt failed, falling back", "model", model, "error", err)
	}
	return nil, lastErr
}

func (c *Client) complete(ctx context.Context, model, user, photoURL string) (string, error) {
	content := []map[string]interface{}{
		{"type": "text", "text": user},
	}
	if photoURL != "" {
		content = append(content, map[string]interface{}{
			"type":      "image_url",
			"image_url": map[string]string{"url": photoURL},
		})
	}

	payload := map[string]interface{}{
		"model":       model,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]interface{}{
			{"role": "system", "content": c.prompt.System},
			{"role": "user", "content": content},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body)), Model: model}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decoding upstream response: %w", err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("upstream returned no completion text")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

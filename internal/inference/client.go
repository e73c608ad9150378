package inference

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"patient-triage-server/internal/config"
)

// Client turns an instruction template plus patient context into raw generated text.
// Every failure is returned as *Error.
type Client interface {
	Infer(ctx context.Context, id TemplateID, fields Fields) (string, error)
}

const defaultTimeout = 30 * time.Second

// ChatMessage is one role-tagged message of a chat completion request
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the chat completion request body
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse is the subset of the chat completion response we read
type ChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// APIError is the provider's error envelope
type APIError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// OpenAIClient calls an OpenAI-compatible chat completion endpoint. It never retries.
type OpenAIClient struct {
	httpClient *resty.Client
	apiKey     string
	model      string
	templates  TemplateSet
	logger     *zap.Logger
}

// NewOpenAIClient builds the client. An empty API key is allowed; Infer then fails with KindConfig.
func NewOpenAIClient(cfg config.InferenceConfig, templates TemplateSet, logger *zap.Logger) *OpenAIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if templates == nil {
		templates = DefaultTemplates()
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &OpenAIClient{
		httpClient: client,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		templates:  templates,
		logger:     logger,
	}
}

// Infer renders the template and sends one chat completion request.
func (c *OpenAIClient) Infer(ctx context.Context, id TemplateID, fields Fields) (string, error) {
	if c.apiKey == "" {
		return "", &Error{Kind: KindConfig, Template: id, Cause: ErrMissingCredential.Error(), Err: ErrMissingCredential}
	}

	system, user, err := c.templates.Render(id, fields)
	if err != nil {
		return "", &Error{Kind: KindConfig, Template: id, Cause: err.Error(), Err: err}
	}

	messages := make([]ChatMessage, 0, 2)
	if system != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: system})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: user})

	var result ChatResponse
	var apiErr APIError
	started := time.Now()
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(ChatRequest{Model: c.model, Messages: messages}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/chat/completions")

	if err != nil {
		// A response with a status line means the body could not be decoded.
		if resp != nil && resp.RawResponse != nil {
			c.logger.Error("Inference response malformed",
				zap.String("template", string(id)),
				zap.Int("status_code", resp.StatusCode()),
				zap.Error(err),
			)
			return "", &Error{Kind: KindProvider, Template: id, Status: resp.StatusCode(), Cause: "malformed response: " + err.Error(), Err: err}
		}
		cause := err.Error()
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			cause = "request timed out"
		}
		c.logger.Error("Inference request failed",
			zap.String("template", string(id)),
			zap.Error(err),
		)
		return "", &Error{Kind: KindTransport, Template: id, Cause: cause, Err: err}
	}

	if resp.IsError() {
		cause := apiErr.Error.Message
		if cause == "" {
			cause = http.StatusText(resp.StatusCode())
		}
		c.logger.Error("Inference provider returned error",
			zap.String("template", string(id)),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("msg", cause),
		)
		return "", &Error{Kind: KindProvider, Template: id, Status: resp.StatusCode(), Cause: cause}
	}

	if len(result.Choices) == 0 {
		return "", &Error{Kind: KindProvider, Template: id, Status: resp.StatusCode(), Cause: ErrEmptyCompletion.Error(), Err: ErrEmptyCompletion}
	}

	c.logger.Info("Inference completed",
		zap.String("template", string(id)),
		zap.String("model", result.Model),
		zap.Int("prompt_tokens", result.Usage.PromptTokens),
		zap.Int("completion_tokens", result.Usage.CompletionTokens),
		zap.Duration("latency", time.Since(started)),
	)

	return result.Choices[0].Message.Content, nil
}

// String identifies the client in logs.
func (c *OpenAIClient) String() string {
	return fmt.Sprintf("openai(%s)", c.model)
}

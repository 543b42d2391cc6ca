package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ChatCompleter sends one user prompt to a language model and returns the raw answer.
type ChatCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}

// ChatService talks to the Spark OpenAI-compatible chat completion endpoint.
type ChatService struct {
	client      *resty.Client
	endpoint    string
	appID       string
	domain      string
	maxTokens   int
	temperature float64
}

// ChatConfig holds connection parameters for ChatService.
type ChatConfig struct {
	BaseURL     string
	AppID       string
	APIKey      string
	APISecret   string
	Domain      string // model domain tag, e.g. generalv3.5
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// NewChatService creates a new chat completion client.
// Parameters:
//   - cfg: endpoint, credentials and model domain.
//
// Returns:
//   - *ChatService: initialized client.
func NewChatService(cfg *ChatConfig) *ChatService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+credential(cfg.APIKey, cfg.APISecret))
	client.SetHeader("Content-Type", "application/json")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client.SetTimeout(timeout)

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://spark-api-open.xf-yun.com/v1"
	}

	return &ChatService{
		client:      client,
		endpoint:    baseURL + "/chat/completions",
		appID:       cfg.AppID,
		domain:      cfg.Domain,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// credential builds the bearer token; Spark expects "key:secret".
func credential(key, secret string) string {
	if secret == "" {
		return key
	}
	return key + ":" + secret
}

func (s *ChatService) Model() string {
	return s.domain
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	User        string        `json:"user,omitempty"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	SID     string `json:"sid"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Complete sends prompt as a single user message. No retry is attempted.
func (s *ChatService) Complete(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model:       s.domain,
		User:        s.appID,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}

	var resp chatResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to call chat API: %w", err)
	}

	if httpResp.IsError() {
		return "", fmt.Errorf("chat API returned error: HTTP %d: %s", httpResp.StatusCode(), resp.errorMessage(httpResp.Body()))
	}
	if resp.Code != 0 || resp.Error != nil {
		return "", fmt.Errorf("chat API error (code %d, sid %s): %s", resp.Code, resp.SID, resp.errorMessage(httpResp.Body()))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in chat API response (sid %s)", resp.SID)
	}

	return resp.Choices[0].Message.Content, nil
}

func (r *chatResponse) errorMessage(body []byte) string {
	switch {
	case r.Error != nil && r.Error.Message != "":
		return r.Error.Message
	case r.Message != "":
		return r.Message
	default:
		return string(body)
	}
}

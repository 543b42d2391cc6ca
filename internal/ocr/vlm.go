package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/timmy/foodlens/internal/domain"
	"github.com/timmy/foodlens/internal/prompts"
)

// VLMRecognizer reads label text with a vision language model over an
// OpenAI-compatible chat completion API.
type VLMRecognizer struct {
	client   *resty.Client
	model    string
	endpoint string
}

// VLMConfig holds configuration for the VLM recognizer.
type VLMConfig struct {
	Model   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewVLMRecognizer creates a new VLM recognizer.
// Parameters:
//   - cfg: model, API key and base URL of the OpenAI-compatible endpoint.
//
// Returns:
//   - *VLMRecognizer: initialized recognizer.
func NewVLMRecognizer(cfg *VLMConfig) *VLMRecognizer {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client.SetTimeout(timeout)

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &VLMRecognizer{
		client:   client,
		model:    cfg.Model,
		endpoint: baseURL + "/chat/completions",
	}
}

func (r *VLMRecognizer) Name() string {
	return "vlm:" + r.model
}

// Chat completion wire types, limited to the fields this recognizer sends or reads.
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

// chatMessage content is a string for the system turn and []contentPart for the user turn.
type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Recognize sends the image to the model and turns each non-blank output line
// into a region, keeping the line's text as written. The model reports no
// confidence, so regions carry 0.
func (r *VLMRecognizer) Recognize(ctx context.Context, image []byte) ([]domain.RecognizedRegion, error) {
	format, err := DetectFormat(image)
	if err != nil {
		return nil, err
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType(format), base64.StdEncoding.EncodeToString(image))

	req := chatRequest{
		Model: r.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompts.VLMOCRSystemPrompt},
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: prompts.VLMOCRUserPrompt},
					{Type: "image_url", ImageURL: &imageURL{URL: dataURL, Detail: "high"}},
				},
			},
		},
		MaxTokens: 1024,
	}

	var resp chatResponse
	httpResp, err := r.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(r.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to call VLM OCR API: %w", err)
	}

	if httpResp.IsError() {
		errorMsg := string(httpResp.Body())
		if resp.Error != nil {
			errorMsg = resp.Error.Message
		}
		return nil, fmt.Errorf("VLM OCR API returned error: HTTP %d: %s", httpResp.StatusCode(), errorMsg)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("VLM OCR API error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from VLM OCR API (status: %d)", httpResp.StatusCode())
	}

	return splitLines(resp.Choices[0].Message.Content), nil
}

func splitLines(text string) []domain.RecognizedRegion {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	regions := make([]domain.RecognizedRegion, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		regions = append(regions, domain.NewRegion(line, 0))
	}
	return regions
}

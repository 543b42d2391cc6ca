// Package app builds the pipeline collaborators from configuration.
// Both the API server and the CLI start from here.
package app

import (
	"fmt"

	"github.com/timmy/foodlens/internal/config"
	"github.com/timmy/foodlens/internal/ingredient"
	"github.com/timmy/foodlens/internal/metrics"
	"github.com/timmy/foodlens/internal/ocr"
	"github.com/timmy/foodlens/internal/ocr/tesseract"
	"github.com/timmy/foodlens/internal/service"
)

// NewRecognizer returns the OCR engine selected by ocr.provider.
func NewRecognizer(cfg *config.Config) (ocr.Recognizer, error) {
	switch cfg.OCR.Provider {
	case config.OCRProviderTesseract:
		return tesseract.New(&tesseract.Config{
			Languages:      cfg.OCR.Languages,
			TessdataPrefix: cfg.OCR.TessdataPrefix,
		}), nil
	case config.OCRProviderVLM:
		return ocr.NewVLMRecognizer(&ocr.VLMConfig{
			Model:   cfg.OCR.VLM.Model,
			APIKey:  cfg.OCR.VLM.APIKey,
			BaseURL: cfg.OCR.VLM.BaseURL,
			Timeout: cfg.LLM.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown ocr provider %q", cfg.OCR.Provider)
	}
}

func NewChat(cfg *config.Config) *service.ChatService {
	return service.NewChatService(&service.ChatConfig{
		BaseURL:     cfg.LLM.BaseURL,
		AppID:       cfg.LLM.AppID,
		APIKey:      cfg.LLM.APIKey,
		APISecret:   cfg.LLM.APISecret,
		Domain:      cfg.LLM.Domain,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	})
}

// NewAnalysisService validates cfg and wires the full pipeline.
// m may be nil.
func NewAnalysisService(cfg *config.Config, m *metrics.Metrics) (*service.AnalysisService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	recognizer, err := NewRecognizer(cfg)
	if err != nil {
		return nil, err
	}

	return service.NewAnalysisService(&service.AnalysisConfig{
		Recognizer:       recognizer,
		Chat:             NewChat(cfg),
		Keywords:         ingredient.NewKeywordSet(cfg.Additives.Keywords),
		DefaultSelection: cfg.Additives.DefaultSelection,
		Metrics:          m,
	}), nil
}

// NewRecognitionService wires OCR and segmentation without a chat client.
// It only needs the ocr and additives sections; Analyze on the result fails
// with MODEL_CALL_FAILED.
func NewRecognitionService(cfg *config.Config, m *metrics.Metrics) (*service.AnalysisService, error) {
	if err := cfg.ValidateRecognition(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	recognizer, err := NewRecognizer(cfg)
	if err != nil {
		return nil, err
	}

	return service.NewAnalysisService(&service.AnalysisConfig{
		Recognizer:       recognizer,
		Keywords:         ingredient.NewKeywordSet(cfg.Additives.Keywords),
		DefaultSelection: cfg.Additives.DefaultSelection,
		Metrics:          m,
	}), nil
}

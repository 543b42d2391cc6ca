package service

import (
	"context"
	"errors"
	"time"

	"github.com/timmy/foodlens/internal/domain"
	"github.com/timmy/foodlens/internal/ingredient"
	"github.com/timmy/foodlens/internal/logger"
	"github.com/timmy/foodlens/internal/metrics"
	"github.com/timmy/foodlens/internal/ocr"
	"github.com/timmy/foodlens/internal/prompts"
	"github.com/timmy/foodlens/internal/textclean"
)

// AnalysisService runs the label pipeline: OCR, segmentation, the additive
// gate, prompt construction, the model call and answer cleanup.
// It holds no per-request state and is safe for concurrent use.
type AnalysisService struct {
	recognizer       ocr.Recognizer
	chat             ChatCompleter
	keywords         ingredient.KeywordSet
	defaultSelection int
	metrics          *metrics.Metrics
}

var errNoModel = errors.New("no chat model configured")

// AnalysisConfig wires the collaborators of AnalysisService.
type AnalysisConfig struct {
	Recognizer       ocr.Recognizer
	Chat             ChatCompleter // nil for recognition only
	Keywords         ingredient.KeywordSet
	DefaultSelection int
	Metrics          *metrics.Metrics // optional
}

// NewAnalysisService creates a new analysis service.
// Parameters:
//   - cfg: OCR engine, chat client, keyword set and default selection size.
//
// Returns:
//   - *AnalysisService: ready-to-use service.
func NewAnalysisService(cfg *AnalysisConfig) *AnalysisService {
	return &AnalysisService{
		recognizer:       cfg.Recognizer,
		chat:             cfg.Chat,
		keywords:         cfg.Keywords,
		defaultSelection: cfg.DefaultSelection,
		metrics:          cfg.Metrics,
	}
}

func (s *AnalysisService) Keywords() ingredient.KeywordSet {
	return s.keywords
}

// Engines names the OCR engine and the chat model in use. model is empty
// for a recognition-only service.
func (s *AnalysisService) Engines() (ocrName, model string) {
	if s.chat != nil {
		model = s.chat.Model()
	}
	return s.recognizer.Name(), model
}

// Recognize runs OCR on image and segments the result.
// OCR failures come back as RECOGNITION_FAILED.
func (s *AnalysisService) Recognize(ctx context.Context, image []byte) (*domain.Recognition, error) {
	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldStage:    "recognize",
		logger.FieldProvider: s.recognizer.Name(),
	})
	start := time.Now()

	regions, err := s.recognizer.Recognize(ctx, image)
	if err != nil {
		s.metrics.ObserveRecognition(s.recognizer.Name(), time.Since(start), 0, err)
		logger.With(logger.Fields{logger.FieldSize: len(image)}).Since(start).
			Error(ctx, "OCR failed: %v", err)
		return nil, recognitionError(err)
	}

	fullText, phrases := ingredient.Segment(regions)
	s.metrics.ObserveRecognition(s.recognizer.Name(), time.Since(start), len(phrases), nil)
	logger.With(logger.Fields{"regions": len(regions)}).WithCount(len(phrases)).Since(start).
		Info(ctx, "Label recognized")

	return &domain.Recognition{
		FullText:         fullText,
		Phrases:          phrases,
		DefaultSelection: s.DefaultSelection(phrases),
		Regions:          len(regions),
	}, nil
}

// DefaultSelection returns the first N phrases offered as the initial choice.
func (s *AnalysisService) DefaultSelection(phrases []string) []string {
	n := s.defaultSelection
	if n > len(phrases) {
		n = len(phrases)
	}
	out := make([]string, n)
	copy(out, phrases[:n])
	return out
}

// Gate checks a selection. It fails with EMPTY_SELECTION for an empty
// selection and with INVALID_ADDITIVE naming every phrase that matches no keyword.
// Only a fully accepted selection passes.
func (s *AnalysisService) Gate(ctx context.Context, selection []string) ([]string, error) {
	if len(selection) == 0 {
		s.metrics.ObserveAnalysis(metrics.OutcomeEmptySelection)
		return nil, emptySelectionError()
	}

	result := ingredient.Validate(selection, s.keywords)
	if !result.OK() {
		s.metrics.ObserveAnalysis(metrics.OutcomeInvalidAdditive)
		logger.With(logger.Fields{"rejected": result.Rejected}).
			Info(ctx, "Selection rejected by additive gate")
		return nil, invalidAdditiveError(result.Rejected)
	}
	return result.Accepted, nil
}

// Ask sends prompt to the model and cleans the answer. An answer that is
// empty after cleaning counts as a failed call.
func (s *AnalysisService) Ask(ctx context.Context, prompt string, accepted []string) (*domain.AnalysisResult, error) {
	if s.chat == nil {
		s.metrics.ObserveAnalysis(metrics.OutcomeModelFailed)
		return nil, modelCallError(errNoModel)
	}
	ctx = logger.SetStage(ctx, "analyze")
	start := time.Now()

	answer, err := s.chat.Complete(ctx, prompt)
	s.metrics.ObserveLLM(time.Since(start))
	if err != nil {
		s.metrics.ObserveAnalysis(metrics.OutcomeModelFailed)
		logger.With(logger.Fields{logger.FieldProvider: s.chat.Model()}).Since(start).
			Error(ctx, "Model call failed: %v", err)
		return nil, modelCallError(err)
	}

	cleaned := textclean.CleanResponse(answer)
	if cleaned == "" {
		s.metrics.ObserveAnalysis(metrics.OutcomeModelFailed)
		return nil, modelCallError(errors.New("empty answer"))
	}

	s.metrics.ObserveAnalysis(metrics.OutcomeOK)
	logger.With(logger.Fields{logger.FieldProvider: s.chat.Model()}).WithCount(len(accepted)).Since(start).
		Info(ctx, "Analysis completed")

	return &domain.AnalysisResult{
		CleanedText: cleaned,
		Phrases:     accepted,
		Model:       s.chat.Model(),
		Duration:    time.Since(start),
	}, nil
}

// Analyze runs Gate, prompt construction and Ask in one step.
func (s *AnalysisService) Analyze(ctx context.Context, selection []string) (*domain.AnalysisResult, error) {
	accepted, err := s.Gate(ctx, selection)
	if err != nil {
		return nil, err
	}
	return s.Ask(ctx, prompts.BuildAnalysisPrompt(accepted), accepted)
}

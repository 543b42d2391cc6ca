package service

import (
	"context"
	"sync"

	"github.com/timmy/foodlens/internal/domain"
	"github.com/timmy/foodlens/internal/ingredient"
	"github.com/timmy/foodlens/internal/prompts"
)

type fakeRecognizer struct {
	regions []domain.RecognizedRegion
	err     error
}

func (f *fakeRecognizer) Recognize(ctx context.Context, image []byte) ([]domain.RecognizedRegion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.regions, nil
}

func (f *fakeRecognizer) Name() string { return "fake" }

type fakeChat struct {
	mu      sync.Mutex
	answer  string
	err     error
	prompts []string
}

func (f *fakeChat) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeChat) Model() string { return "fake-model" }

func (f *fakeChat) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func appleJuiceLabel() []domain.RecognizedRegion {
	return []domain.RecognizedRegion{
		domain.NewRegion("品名: 苹果汁", 0.9),
		domain.NewRegion("配料：水,白砂糖,苹果浓缩汁,柠檬酸,食用香精", 0.9),
	}
}

func newTestService(rec *fakeRecognizer, chat *fakeChat) *AnalysisService {
	return NewAnalysisService(&AnalysisConfig{
		Recognizer:       rec,
		Chat:             chat,
		Keywords:         ingredient.NewKeywordSet(prompts.AdditiveKeywords),
		DefaultSelection: 3,
	})
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timmy/foodlens/internal/prompts"
)

func TestAnalysisService_Recognize(t *testing.T) {
	svc := newTestService(&fakeRecognizer{regions: appleJuiceLabel()}, &fakeChat{})

	rec, err := svc.Recognize(context.Background(), []byte("img"))
	require.NoError(t, err)

	assert.Equal(t, "苹果汁\n水,白砂糖,苹果浓缩汁,柠檬酸,食用香精", rec.FullText)
	assert.Equal(t, []string{"苹果汁", "水", "白砂糖", "苹果浓缩汁", "柠檬酸", "食用香精"}, rec.Phrases)
	assert.Equal(t, []string{"苹果汁", "水", "白砂糖"}, rec.DefaultSelection)
	assert.Equal(t, 2, rec.Regions)
}

func TestAnalysisService_RecognizeFailure(t *testing.T) {
	ocrErr := errors.New("engine crashed")
	svc := newTestService(&fakeRecognizer{err: ocrErr}, &fakeChat{})

	_, err := svc.Recognize(context.Background(), []byte("img"))
	assert.ErrorIs(t, err, ErrRecognitionFailure)
	assert.ErrorIs(t, err, ocrErr)
}

func TestAnalysisService_DefaultSelection(t *testing.T) {
	svc := newTestService(&fakeRecognizer{}, &fakeChat{})

	assert.Equal(t, []string{}, svc.DefaultSelection(nil))
	assert.Equal(t, []string{"a"}, svc.DefaultSelection([]string{"a"}))
	assert.Equal(t, []string{"a", "b", "c"}, svc.DefaultSelection([]string{"a", "b", "c", "d"}))
}

func TestAnalysisService_EmptySelectionMakesNoCall(t *testing.T) {
	chat := &fakeChat{answer: "ok"}
	svc := newTestService(&fakeRecognizer{}, chat)

	_, err := svc.Analyze(context.Background(), nil)
	require.ErrorIs(t, err, ErrEmptySelection)

	pe, ok := AsPipelineError(err)
	require.True(t, ok)
	assert.Equal(t, "请至少选择一个成分进行分析", pe.Message)
	assert.Zero(t, chat.calls())
}

func TestAnalysisService_InvalidAdditiveNamesRejected(t *testing.T) {
	chat := &fakeChat{answer: "ok"}
	svc := newTestService(&fakeRecognizer{}, chat)

	_, err := svc.Analyze(context.Background(), []string{"柠檬酸", "苹果汁"})
	require.ErrorIs(t, err, ErrInvalidAdditive)

	pe, ok := AsPipelineError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"苹果汁"}, pe.Rejected)
	assert.Equal(t, "以下所选内容不属于常见添加剂，请重新选择：苹果汁", pe.Message)
	assert.Zero(t, chat.calls())
}

func TestAnalysisService_Analyze(t *testing.T) {
	chat := &fakeChat{answer: "* 高风险：\n- 柠檬酸"}
	svc := newTestService(&fakeRecognizer{}, chat)

	result, err := svc.Analyze(context.Background(), []string{"柠檬酸", "食用香精"})
	require.NoError(t, err)

	assert.Equal(t, "高风险：\n柠檬酸", result.CleanedText)
	assert.Equal(t, []string{"柠檬酸", "食用香精"}, result.Phrases)
	assert.Equal(t, "fake-model", result.Model)
	require.Equal(t, 1, chat.calls())
	assert.Equal(t, prompts.BuildAnalysisPrompt([]string{"柠檬酸", "食用香精"}), chat.prompts[0])
}

func TestAnalysisService_ModelFailures(t *testing.T) {
	tests := []struct {
		name string
		chat *fakeChat
	}{
		{name: "call error", chat: &fakeChat{err: errors.New("timeout")}},
		{name: "blank answer", chat: &fakeChat{answer: "**\n--\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&fakeRecognizer{}, tt.chat)
			_, err := svc.Analyze(context.Background(), []string{"柠檬酸"})
			assert.ErrorIs(t, err, ErrModelCallFailure)
			assert.NotErrorIs(t, err, ErrInvalidAdditive)
		})
	}
}

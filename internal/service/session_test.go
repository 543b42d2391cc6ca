package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timmy/foodlens/internal/domain"
)

func TestSession_HappyPath(t *testing.T) {
	chat := &fakeChat{answer: "## 结论\n柠檬酸：低"}
	sess := NewSession("s1", newTestService(&fakeRecognizer{regions: appleJuiceLabel()}, chat))
	ctx := context.Background()

	assert.Equal(t, domain.SessionStateIdle, sess.State())

	rec, err := sess.Recognize(ctx, []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "s1", rec.SessionID)
	assert.Equal(t, domain.SessionStateRecognized, sess.State())

	require.NoError(t, sess.Select([]string{"柠檬酸"}))
	assert.Equal(t, domain.SessionStateSelected, sess.State())

	result, err := sess.Analyze(ctx)
	require.NoError(t, err)
	assert.Equal(t, "结论\n柠檬酸：低", result.CleanedText)
	assert.Equal(t, domain.SessionStateAnswered, sess.State())

	snap := sess.Snapshot()
	assert.Equal(t, []string{"柠檬酸"}, snap.Selection)
	assert.Equal(t, result, snap.Result)

	sess.Reset()
	assert.Equal(t, domain.SessionStateIdle, sess.State())
	assert.Empty(t, sess.Snapshot().Phrases)
}

func TestSession_NoPhrasesStaysIdle(t *testing.T) {
	chat := &fakeChat{}
	sess := NewSession("s1", newTestService(&fakeRecognizer{}, chat))

	rec, err := sess.Recognize(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "", rec.FullText)
	assert.Equal(t, []string{}, rec.Phrases)
	assert.Equal(t, domain.SessionStateIdle, sess.State())

	assert.ErrorIs(t, sess.SelectAll(), ErrNotRecognized)
	assert.Zero(t, chat.calls())
}

func TestSession_RecognitionFailureReturnsToIdle(t *testing.T) {
	rec := &fakeRecognizer{regions: appleJuiceLabel()}
	sess := NewSession("s1", newTestService(rec, &fakeChat{}))
	ctx := context.Background()

	_, err := sess.Recognize(ctx, []byte("img"))
	require.NoError(t, err)
	require.NoError(t, sess.SelectAll())

	rec.err = errors.New("blurry")
	_, err = sess.Recognize(ctx, []byte("img"))
	assert.ErrorIs(t, err, ErrRecognitionFailure)
	assert.Equal(t, domain.SessionStateIdle, sess.State())
	assert.Empty(t, sess.Snapshot().Selection)
}

func TestSession_GateFailuresStaySelected(t *testing.T) {
	chat := &fakeChat{answer: "ok"}
	sess := NewSession("s1", newTestService(&fakeRecognizer{regions: appleJuiceLabel()}, chat))
	ctx := context.Background()

	_, err := sess.Recognize(ctx, []byte("img"))
	require.NoError(t, err)

	require.NoError(t, sess.Select(nil))
	_, err = sess.Analyze(ctx)
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Equal(t, domain.SessionStateSelected, sess.State())

	require.NoError(t, sess.SelectAll())
	_, err = sess.Analyze(ctx)
	require.ErrorIs(t, err, ErrInvalidAdditive)
	pe, _ := AsPipelineError(err)
	assert.Equal(t, []string{"苹果汁", "水", "苹果浓缩汁"}, pe.Rejected)
	assert.Equal(t, domain.SessionStateSelected, sess.State())
	assert.Zero(t, chat.calls())
}

func TestSession_ModelFailureReturnsToSelected(t *testing.T) {
	chat := &fakeChat{err: errors.New("503")}
	sess := NewSession("s1", newTestService(&fakeRecognizer{regions: appleJuiceLabel()}, chat))
	ctx := context.Background()

	_, err := sess.Recognize(ctx, []byte("img"))
	require.NoError(t, err)
	require.NoError(t, sess.Select([]string{"白砂糖"}))

	_, err = sess.Analyze(ctx)
	assert.ErrorIs(t, err, ErrModelCallFailure)
	assert.Equal(t, domain.SessionStateSelected, sess.State())

	chat.err = nil
	chat.answer = "白砂糖：中"
	_, err = sess.Analyze(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStateAnswered, sess.State())
}

func TestSession_AnalyzeSelection(t *testing.T) {
	tests := []struct {
		name      string
		recognize bool
		phrases   []string
		all       bool
		want      []string
		wantErr   error
		wantState domain.SessionState
	}{
		{
			name:      "chosen phrases",
			recognize: true,
			phrases:   []string{"柠檬酸", "白砂糖"},
			want:      []string{"柠檬酸", "白砂糖"},
			wantState: domain.SessionStateAnswered,
		},
		{
			name:      "all ignores phrases",
			recognize: true,
			phrases:   []string{"柠檬酸"},
			all:       true,
			wantErr:   ErrInvalidAdditive,
			wantState: domain.SessionStateSelected,
		},
		{
			name:      "empty selection",
			recognize: true,
			wantErr:   ErrEmptySelection,
			wantState: domain.SessionStateSelected,
		},
		{
			name:      "before recognition",
			phrases:   []string{"柠檬酸"},
			wantErr:   ErrNotRecognized,
			wantState: domain.SessionStateIdle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			sess := NewSession("s1", newTestService(&fakeRecognizer{regions: appleJuiceLabel()}, &fakeChat{answer: "ok"}))
			if tt.recognize {
				_, err := sess.Recognize(ctx, []byte("img"))
				require.NoError(t, err)
			}

			result, err := sess.AnalyzeSelection(ctx, tt.phrases, tt.all)
			assert.Equal(t, tt.wantState, sess.State())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Phrases)
			assert.Equal(t, tt.want, sess.Snapshot().Selection)
		})
	}
}

func TestSession_AnalyzeSelectionConcurrent(t *testing.T) {
	sess := NewSession("s1", newTestService(&fakeRecognizer{regions: appleJuiceLabel()}, &fakeChat{answer: "ok"}))
	ctx := context.Background()
	_, err := sess.Recognize(ctx, []byte("img"))
	require.NoError(t, err)

	selections := [][]string{{"柠檬酸"}, {"白砂糖", "食用香精"}}
	var wg sync.WaitGroup
	for _, sel := range selections {
		wg.Add(1)
		go func(sel []string) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				result, err := sess.AnalyzeSelection(ctx, sel, false)
				if assert.NoError(t, err) {
					assert.Equal(t, sel, result.Phrases)
				}
			}
		}(sel)
	}
	wg.Wait()
	assert.Equal(t, domain.SessionStateAnswered, sess.State())
}

func TestSession_OutOfOrder(t *testing.T) {
	sess := NewSession("s1", newTestService(&fakeRecognizer{}, &fakeChat{}))

	assert.ErrorIs(t, sess.Select([]string{"糖"}), ErrNotRecognized)
	_, err := sess.Analyze(context.Background())
	assert.ErrorIs(t, err, ErrNothingSelected)
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore(newTestService(&fakeRecognizer{}, &fakeChat{}), time.Minute, nil)

	a := store.Create()
	b := store.Create()
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, store.Len())

	got, err := store.Get(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)

	assert.True(t, store.Delete(a.ID()))
	assert.False(t, store.Delete(a.ID()))
	_, err = store.Get(a.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, 0, store.Sweep(time.Now()))
	assert.Equal(t, 1, store.Sweep(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, store.Len())
}

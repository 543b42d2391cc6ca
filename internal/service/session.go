package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/timmy/foodlens/internal/domain"
	"github.com/timmy/foodlens/internal/logger"
	"github.com/timmy/foodlens/internal/metrics"
	"github.com/timmy/foodlens/internal/prompts"
)

// Session is one label interaction. Its actions are serialized by mu, so a
// session never runs two pipeline steps at once.
type Session struct {
	id  string
	svc *AnalysisService

	mu        sync.Mutex
	state     domain.SessionState
	fullText  string
	phrases   []string
	selection []string
	result    *domain.AnalysisResult

	lastActive atomic.Int64 // unix nanos, read by the store without taking mu
}

func NewSession(id string, svc *AnalysisService) *Session {
	s := &Session{id: id, svc: svc, state: domain.SessionStateIdle}
	s.touch()
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Recognize starts a new interaction from any state. Earlier phrases,
// selection and result are discarded. A label with no phrases leaves the
// session Idle.
func (s *Session) Recognize(ctx context.Context, image []byte) (*domain.Recognition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.touch()

	ctx = logger.SetSessionID(ctx, s.id)
	s.clear()

	rec, err := s.svc.Recognize(ctx, image)
	if err != nil {
		return nil, err
	}
	rec.SessionID = s.id

	s.fullText = rec.FullText
	s.phrases = rec.Phrases
	if len(rec.Phrases) > 0 {
		s.state = domain.SessionStateRecognized
	}
	return rec, nil
}

// Select replaces the current selection. The selection is not checked
// against the recognized phrases; the additive gate runs in Analyze.
func (s *Session) Select(phrases []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.touch()
	return s.selectLocked(phrases, false)
}

// SelectAll selects every recognized phrase in order.
func (s *Session) SelectAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.touch()
	return s.selectLocked(nil, true)
}

// Analyze gates the selection, builds the prompt and asks the model.
// Any failure puts the session back to Selected so the user can reselect.
func (s *Session) Analyze(ctx context.Context) (*domain.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.touch()
	return s.analyzeLocked(ctx)
}

// AnalyzeSelection selects phrases (or every phrase when all is set) and
// analyzes them under one lock, so a concurrent caller cannot swap the
// selection in between.
func (s *Session) AnalyzeSelection(ctx context.Context, phrases []string, all bool) (*domain.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.touch()

	if err := s.selectLocked(phrases, all); err != nil {
		return nil, err
	}
	return s.analyzeLocked(ctx)
}

func (s *Session) selectLocked(phrases []string, all bool) error {
	if s.state == domain.SessionStateIdle {
		return ErrNotRecognized
	}
	if all {
		phrases = s.phrases
	}
	s.selection = append([]string(nil), phrases...)
	s.result = nil
	s.state = domain.SessionStateSelected
	return nil
}

func (s *Session) analyzeLocked(ctx context.Context) (*domain.AnalysisResult, error) {
	if s.state != domain.SessionStateSelected {
		return nil, ErrNothingSelected
	}
	ctx = logger.SetSessionID(ctx, s.id)

	accepted, err := s.svc.Gate(ctx, s.selection)
	if err != nil {
		return nil, err
	}
	s.state = domain.SessionStateValidated

	prompt := prompts.BuildAnalysisPrompt(accepted)
	s.state = domain.SessionStatePromptReady

	result, err := s.svc.Ask(ctx, prompt, accepted)
	if err != nil {
		s.state = domain.SessionStateSelected
		return nil, err
	}

	s.result = result
	s.state = domain.SessionStateAnswered
	return result, nil
}

// Reset returns the session to Idle and drops everything it holds.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.touch()
	s.clear()
}

func (s *Session) clear() {
	s.state = domain.SessionStateIdle
	s.fullText = ""
	s.phrases = nil
	s.selection = nil
	s.result = nil
}

func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.SessionSnapshot{
		ID:        s.id,
		State:     s.state,
		FullText:  s.fullText,
		Phrases:   append([]string{}, s.phrases...),
		Selection: append([]string{}, s.selection...),
		Result:    s.result,
		UpdatedAt: s.LastActive(),
	}
}

// SessionStore keeps sessions in memory and expires them after ttl of inactivity.
type SessionStore struct {
	svc     *AnalysisService
	ttl     time.Duration
	metrics *metrics.Metrics

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty store. A non-positive ttl disables expiry.
func NewSessionStore(svc *AnalysisService, ttl time.Duration, m *metrics.Metrics) *SessionStore {
	return &SessionStore{
		svc:      svc,
		ttl:      ttl,
		metrics:  m,
		sessions: make(map[string]*Session),
	}
}

// Create registers a new Idle session under a fresh UUID.
func (st *SessionStore) Create() *Session {
	sess := NewSession(uuid.NewString(), st.svc)

	st.mu.Lock()
	st.sessions[sess.ID()] = sess
	n := len(st.sessions)
	st.mu.Unlock()

	st.metrics.SetActiveSessions(n)
	return sess
}

// Get returns the session with id, or ErrSessionNotFound if it is unknown or expired.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if st.expired(sess, time.Now()) {
		st.Delete(id)
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Delete drops the session and reports whether it existed.
func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()

	st.metrics.SetActiveSessions(n)
	return ok
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes expired sessions and returns how many were dropped.
func (st *SessionStore) Sweep(now time.Time) int {
	st.mu.Lock()
	dropped := 0
	for id, sess := range st.sessions {
		if st.expired(sess, now) {
			delete(st.sessions, id)
			dropped++
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	st.metrics.SetActiveSessions(n)
	return dropped
}

// Run sweeps every interval until ctx is done.
func (st *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if st.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := st.Sweep(now); n > 0 {
				logger.CtxDebug(ctx, "Expired %d sessions", n)
			}
		}
	}
}

func (st *SessionStore) expired(sess *Session, now time.Time) bool {
	return st.ttl > 0 && now.Sub(sess.LastActive()) > st.ttl
}

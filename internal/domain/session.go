package domain

// SessionState is the position of one label interaction in the analysis pipeline.
// A session moves Idle -> Recognized -> Selected -> Validated -> PromptReady -> Answered
// and back to Idle once the answer has been shown.
type SessionState string

const (
	SessionStateIdle        SessionState = "idle"
	SessionStateRecognized  SessionState = "recognized"
	SessionStateSelected    SessionState = "selected"
	SessionStateValidated   SessionState = "validated"
	SessionStatePromptReady SessionState = "prompt_ready"
	SessionStateAnswered    SessionState = "answered"
)

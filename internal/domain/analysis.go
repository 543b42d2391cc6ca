package domain

import "time"

// ValidationResult partitions a selection into phrases that look like additives
// and the ones that do not. Both slices keep the input order.
type ValidationResult struct {
	Accepted []string `json:"accepted"`
	Rejected []string `json:"rejected"`
}

// OK reports whether every phrase passed the keyword gate.
func (v ValidationResult) OK() bool {
	return len(v.Rejected) == 0
}

// Recognition is the outcome of running OCR and segmentation on one uploaded label.
type Recognition struct {
	SessionID        string   `json:"session_id"`
	FullText         string   `json:"full_text"`
	Phrases          []string `json:"phrases"`
	DefaultSelection []string `json:"default_selection"`
	Regions          int      `json:"regions"`
}

// AnalysisResult is the cleaned model answer for one analysis request.
// It is held only long enough to be displayed.
type AnalysisResult struct {
	CleanedText string        `json:"result"`
	Phrases     []string      `json:"phrases"`
	Model       string        `json:"model,omitempty"`
	Duration    time.Duration `json:"-"`
}

// SessionSnapshot is a read-only view of a session, used by the API.
type SessionSnapshot struct {
	ID        string          `json:"id"`
	State     SessionState    `json:"state"`
	FullText  string          `json:"full_text"`
	Phrases   []string        `json:"phrases"`
	Selection []string        `json:"selection"`
	Result    *AnalysisResult `json:"result,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

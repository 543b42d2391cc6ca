package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/foodlens/internal/prompts"
	"github.com/timmy/foodlens/internal/service"
)

// SessionHandler drives an existing label session.
type SessionHandler struct {
	sessions *service.SessionStore
}

func NewSessionHandler(sessions *service.SessionStore) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// AnalyzeRequest selects phrases for analysis. SelectAll wins over Phrases.
type AnalyzeRequest struct {
	Phrases   []string `json:"phrases"`
	SelectAll bool     `json:"select_all"`
}

// AnalyzeResponse is the cleaned answer plus display metadata.
type AnalyzeResponse struct {
	Result     string   `json:"result"`
	Phrases    []string `json:"phrases"`
	Model      string   `json:"model"`
	DurationMs int64    `json:"duration_ms"`
	Disclaimer string   `json:"disclaimer"`
}

// Get handles GET /api/v1/sessions/:id.
func (h *SessionHandler) Get(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// Analyze handles POST /api/v1/sessions/:id/analyze.
func (h *SessionHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := sess.AnalyzeSelection(c.Request.Context(), req.Phrases, req.SelectAll)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		Result:     result.CleanedText,
		Phrases:    result.Phrases,
		Model:      result.Model,
		DurationMs: result.Duration.Milliseconds(),
		Disclaimer: prompts.Disclaimer,
	})
}

// Delete handles DELETE /api/v1/sessions/:id.
func (h *SessionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	sess, err := h.sessions.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	sess.Reset()
	h.sessions.Delete(id)
	c.Status(http.StatusNoContent)
}

package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/timmy/foodlens/internal/ocr"
	"github.com/timmy/foodlens/internal/prompts"
	"github.com/timmy/foodlens/internal/service"
)

// LabelHandler handles label uploads and the keyword listing.
type LabelHandler struct {
	analysis        *service.AnalysisService
	sessions        *service.SessionStore
	acceptedFormats []string
	maxUploadBytes  int64
}

// NewLabelHandler creates a new label handler.
// Parameters:
//   - analysis: pipeline service.
//   - sessions: session store new uploads are registered in.
//   - acceptedFormats: image formats allowed for upload.
//   - maxUploadBytes: upload size cap; non-positive disables the cap.
//
// Returns:
//   - *LabelHandler: initialized handler.
func NewLabelHandler(analysis *service.AnalysisService, sessions *service.SessionStore, acceptedFormats []string, maxUploadBytes int64) *LabelHandler {
	return &LabelHandler{
		analysis:        analysis,
		sessions:        sessions,
		acceptedFormats: acceptedFormats,
		maxUploadBytes:  maxUploadBytes,
	}
}

// Upload handles POST /api/v1/labels.
// It recognizes the multipart "image" field and opens a session for it.
func (h *LabelHandler) Upload(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "Image too large", Code: "TOO_LARGE"})
			return
		}
		badRequest(c, "Form field 'image' is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "Cannot read uploaded image")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		badRequest(c, "Cannot read uploaded image")
		return
	}

	img, err := ocr.PrepareImage(data, h.acceptedFormats)
	if err != nil {
		c.JSON(http.StatusUnsupportedMediaType, errorResponse{
			Error: "Unsupported image, accepted formats: " + strings.Join(h.acceptedFormats, ", "),
			Code:  "UNSUPPORTED_FORMAT",
		})
		return
	}

	sess := h.sessions.Create()
	rec, err := sess.Recognize(c.Request.Context(), img.Data)
	if err != nil {
		h.sessions.Delete(sess.ID())
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// Keywords handles GET /api/v1/keywords.
func (h *LabelHandler) Keywords(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"keywords":         h.analysis.Keywords().Words(),
		"accepted_formats": h.acceptedFormats,
		"usage":            prompts.UsageHint,
		"disclaimer":       prompts.Disclaimer,
	})
}

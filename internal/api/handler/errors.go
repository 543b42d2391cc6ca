package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/foodlens/internal/service"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error    string   `json:"error"`
	Code     string   `json:"code,omitempty"`
	Rejected []string `json:"rejected,omitempty"`
	Detail   string   `json:"detail,omitempty"`
}

func statusFor(code service.ErrorCode) int {
	switch code {
	case service.CodeEmptySelection:
		return http.StatusBadRequest
	case service.CodeInvalidAdditive, service.CodeRecognitionFailed:
		return http.StatusUnprocessableEntity
	case service.CodeModelCallFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps service errors onto HTTP responses.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	if pe, ok := service.AsPipelineError(err); ok {
		resp := errorResponse{
			Error:    pe.Message,
			Code:     string(pe.Code),
			Rejected: pe.Rejected,
		}
		if pe.Cause != nil {
			resp.Detail = pe.Cause.Error()
		}
		c.JSON(statusFor(pe.Code), resp)
		return
	}

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "Session not found", Code: "SESSION_NOT_FOUND"})
	case errors.Is(err, service.ErrNotRecognized), errors.Is(err, service.ErrNothingSelected):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error(), Code: "INVALID_STATE"})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg, Code: "BAD_REQUEST"})
}

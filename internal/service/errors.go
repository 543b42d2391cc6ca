package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies the failures a user can see.
type ErrorCode string

const (
	CodeEmptySelection    ErrorCode = "EMPTY_SELECTION"
	CodeInvalidAdditive   ErrorCode = "INVALID_ADDITIVE"
	CodeRecognitionFailed ErrorCode = "RECOGNITION_FAILED"
	CodeModelCallFailed   ErrorCode = "MODEL_CALL_FAILED"
)

// User-facing messages.
const (
	MsgEmptySelection    = "请至少选择一个成分进行分析"
	MsgInvalidAdditive   = "以下所选内容不属于常见添加剂，请重新选择："
	MsgRecognitionFailed = "图片识别失败，请上传清晰的配料表图片"
	MsgModelCallFailed   = "分析服务暂时不可用，请稍后重试"
)

// PipelineError is returned by every session action that fails.
// errors.Is matches on Code, so callers compare against the sentinels below.
type PipelineError struct {
	Code     ErrorCode
	Message  string
	Rejected []string
	Cause    error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

func (e *PipelineError) Is(target error) bool {
	t, ok := target.(*PipelineError)
	return ok && t.Code == e.Code
}

var (
	ErrEmptySelection     = &PipelineError{Code: CodeEmptySelection, Message: MsgEmptySelection}
	ErrInvalidAdditive    = &PipelineError{Code: CodeInvalidAdditive, Message: MsgInvalidAdditive}
	ErrRecognitionFailure = &PipelineError{Code: CodeRecognitionFailed, Message: MsgRecognitionFailed}
	ErrModelCallFailure   = &PipelineError{Code: CodeModelCallFailed, Message: MsgModelCallFailed}
)

// Session lifecycle errors; these are programming or client sequencing mistakes.
var (
	ErrNotRecognized   = errors.New("no recognized label in session")
	ErrNothingSelected = errors.New("no selection made in session")
	ErrSessionNotFound = errors.New("session not found")
)

func emptySelectionError() error {
	return &PipelineError{Code: CodeEmptySelection, Message: MsgEmptySelection}
}

func invalidAdditiveError(rejected []string) error {
	return &PipelineError{
		Code:     CodeInvalidAdditive,
		Message:  MsgInvalidAdditive + strings.Join(rejected, ", "),
		Rejected: rejected,
	}
}

func recognitionError(cause error) error {
	return &PipelineError{Code: CodeRecognitionFailed, Message: MsgRecognitionFailed, Cause: cause}
}

func modelCallError(cause error) error {
	return &PipelineError{Code: CodeModelCallFailed, Message: MsgModelCallFailed, Cause: cause}
}

// AsPipelineError unwraps err to a *PipelineError, if it is one.
func AsPipelineError(err error) (*PipelineError, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

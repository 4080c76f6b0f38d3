package errorx

import (
	"context"
	"errors"
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"

	"habitual-api/internal/entity"
	"habitual-api/internal/store"
	"habitual-api/pkg/survey"
)

// CodeError is an error with an HTTP status, rendered as {"code","msg"}.
type CodeError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func New(code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg}
}

func (e *CodeError) Error() string {
	return e.Msg
}

func BadRequest(msg string) *CodeError { return New(http.StatusBadRequest, msg) }
func Forbidden(msg string) *CodeError { return New(http.StatusForbidden, msg) }
func NotFound(msg string) *CodeError { return New(http.StatusNotFound, msg) }
func Conflict(msg string) *CodeError { return New(http.StatusConflict, msg) }

// From maps domain errors onto a CodeError. Unknown errors become a 500 with
// a generic message.
func From(err error) *CodeError {
	var ce *CodeError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ce):
		return ce
	case errors.Is(err, store.ErrNotFound), errors.Is(err, entity.ErrUnknownCollection):
		return NotFound(err.Error())
	case errors.Is(err, store.ErrConflict):
		return Conflict(err.Error())
	case errors.Is(err, entity.ErrMissingField),
		errors.Is(err, survey.ErrDuplicateUser),
		errors.Is(err, survey.ErrNoAnswers),
		errors.Is(err, survey.ErrBadDimension),
		errors.Is(err, survey.ErrScoreRange):
		return BadRequest(err.Error())
	default:
		return New(http.StatusInternalServerError, "internal error")
	}
}

// Handler is registered with httpx.SetErrorHandlerCtx.
func Handler(ctx context.Context, err error) (int, any) {
	ce := From(err)
	if ce.Code >= http.StatusInternalServerError {
		logx.WithContext(ctx).Errorf("request failed: %v", err)
	}
	return ce.Code, ce
}

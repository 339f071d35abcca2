package web

// errors.go maps cleaning failures to HTTP responses.
//
// Every error is logged with the request id and answered with a JSON
// ErrorResponse. Client mistakes (unknown era, unreadable row, wrong file
// type) carry the underlying message; server faults get a generic one.

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/evalnorm/internal/evaluation"
	"github.com/JonMunkholm/evalnorm/internal/logging"
	"github.com/JonMunkholm/evalnorm/internal/source"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Row   *int   `json:"row,omitempty"`
	Field string `json:"field,omitempty"`
}

// classify returns the status and machine-readable code for err.
func classify(err error) (int, string) {
	var rowErr *evaluation.RowParseError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.Is(err, evaluation.ErrUnknownEra):
		return http.StatusNotFound, "unknown_era"
	case errors.As(err, &rowErr):
		return http.StatusUnprocessableEntity, "bad_row"
	case errors.Is(err, source.ErrUnsupportedFormat), errors.Is(err, source.ErrLegacyWorkbook):
		return http.StatusUnsupportedMediaType, "unsupported_format"
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, errBadUpload):
		return http.StatusBadRequest, "bad_upload"
	case errors.Is(err, ErrBusy):
		return http.StatusServiceUnavailable, "busy"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// respondError logs err and writes it as JSON.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", code,
		"error", err.Error(),
	)

	resp := ErrorResponse{Error: err.Error(), Code: code}
	if status == http.StatusInternalServerError {
		resp.Error = "internal error"
	}

	var rowErr *evaluation.RowParseError
	if errors.As(err, &rowErr) {
		row := rowErr.Row
		resp.Row = &row
		resp.Field = rowErr.Field
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}

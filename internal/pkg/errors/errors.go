// Package errors carries HTTP-facing errors and writes them as RFC 7807 problem details.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/lmco/eurekastreams/internal/pkg/logger"
)

// AppError is an error with the HTTP status and title it should be reported with.
type AppError struct {
	Status int
	Title  string
	Detail string
	// Extensions are extra members of the problem document, e.g. field violations.
	Extensions map[string]any
	Err        error
}

func New(status int, title, detail string) *AppError {
	return &AppError{Status: status, Title: title, Detail: detail}
}

// Wrap attaches status and title to err; the detail is err's message.
func Wrap(status int, title string, err error) *AppError {
	return &AppError{Status: status, Title: title, Detail: err.Error(), Err: err}
}

func (e *AppError) Error() string {
	if e.Detail == "" {
		return e.Title
	}
	return e.Title + ": " + e.Detail
}

func (e *AppError) Unwrap() error { return e.Err }

// With adds a member to the problem document.
func (e *AppError) With(key string, v any) *AppError {
	if e.Extensions == nil {
		e.Extensions = make(map[string]any)
	}
	e.Extensions[key] = v
	return e
}

// WriteError writes err as application/problem+json. Errors that are not an AppError
// are logged and reported as 500 without their message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		logger.From(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
		appErr = New(http.StatusInternalServerError, "Internal Server Error", "")
	}

	body := map[string]any{
		"type":   "about:blank",
		"title":  appErr.Title,
		"status": appErr.Status,
	}
	if appErr.Detail != "" {
		body["detail"] = appErr.Detail
	}
	for k, v := range appErr.Extensions {
		if _, reserved := body[k]; !reserved {
			body[k] = v
		}
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(appErr.Status)
	_ = json.NewEncoder(w).Encode(body)
}

package dto

import (
	"fmt"
	"strings"
)

type QueryRequest struct {
	Query       string `query:"query"`
	CurrentPage int    `query:"current_page" validate:"required,min=1"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// ValidationError marks a request the client got wrong. Fields lists the
// offending parameter names.
type ValidationError struct {
	Fields []string
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("invalid request: %v", e.Err)
	}
	return fmt.Sprintf("invalid request parameters [%s]: %v", strings.Join(e.Fields, ", "), e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

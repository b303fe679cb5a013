package app

import (
	"fmt"
	"net/http"
)

// DomainError is an error the HTTP layer can translate directly into a
// response: Status becomes the HTTP status, Code and Message the error
// body, and Details an optional machine-readable payload.
type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code + ": " + e.Message
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{Status: status, Code: code, Message: message, Details: details}
}

// validationError reports malformed or out-of-range input as a 422.
func validationError(format string, args ...any) *DomainError {
	return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf(format, args...), nil)
}

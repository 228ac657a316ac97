// Package faults defines the error taxonomy shared by the loan
// orchestrator and the collaborator clients.
package faults

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound signals that the primary path-level entity (the patron,
	// or the loan via the id-only probe) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput signals a malformed identifier, a missing request
	// body, a referenced id that does not resolve, or a loan that does
	// not belong to the addressed patron.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTooManyLoans signals that the patron is at the loan quota.
	ErrTooManyLoans = errors.New("too many loans")

	// ErrOutOfStock signals a copies decrement against zero availability.
	// It is fatal and never retried.
	ErrOutOfStock = errors.New("out of stock")
)

// UpstreamError carries a collaborator response that is neither
// not-found nor unprocessable. It is passed through opaquely rather
// than swallowed.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Message)
}

// HTTPStatus maps a fault to the status code reported at the service
// boundary.
func HTTPStatus(err error) int {
	var upstream *UpstreamError
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrTooManyLoans),
		errors.Is(err, ErrOutOfStock):
		return http.StatusUnprocessableEntity
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

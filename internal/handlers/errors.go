package handlers

import (
	"errors"
	"net/http"

	"github.com/sdko-org/vertical-padding/internal/padding"
)

// HTTPStatus maps a padding error to its response status. Only caller input
// problems are 4xx.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, padding.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/univia-erp/univia-erp/internal/shared"
)

// ErrValidation marks request bodies that failed validation.
var ErrValidation = errors.New("validation failed")

// RespondError maps domain errors to HTTP responses using RFC7807.
// Authentication failures deliberately share a generic detail so the
// response never reveals which check rejected the request.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "Invalid credentials")
	case errors.Is(err, shared.ErrInvalidTokenType):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "Invalid token type")
	case errors.Is(err, shared.ErrInvalidToken):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token")
	case errors.Is(err, shared.ErrNotAuthenticated):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "Not authenticated")
	case errors.Is(err, shared.ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", "Insufficient permissions")
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

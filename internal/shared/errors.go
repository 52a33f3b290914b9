package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers signature, structure and expiry failures alike.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrInvalidTokenType occurs when a token of the wrong type is presented.
	ErrInvalidTokenType = errors.New("invalid token type")
	// ErrNotAuthenticated occurs when the Authorization header is missing or malformed.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrForbidden indicates a valid principal without the required permissions.
	ErrForbidden = errors.New("insufficient permissions")
)

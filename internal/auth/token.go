package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/univia-erp/univia-erp/internal/shared"
)

// Token type discriminants embedded in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the signed token payload.
type Claims struct {
	UserID      int64    `json:"user_id"`
	RoleID      *int64   `json:"role_id"`
	CollegeID   *int64   `json:"college_id"`
	Permissions []string `json:"permissions"`
	TokenType   string   `json:"type"`
	jwt.RegisteredClaims
}

// Principal converts decoded claims into the request-scoped identity.
func (c *Claims) Principal() *shared.Principal {
	return &shared.Principal{
		UserID:      c.UserID,
		RoleID:      c.RoleID,
		CollegeID:   c.CollegeID,
		Permissions: c.Permissions,
	}
}

// TokenPayload carries the identity and authorization claims embedded at
// issuance time.
type TokenPayload struct {
	UserID      int64
	RoleID      *int64
	CollegeID   *int64
	Permissions []string
}

// Issuer signs and validates tokens. It is built once at startup from
// immutable configuration and safe for concurrent use.
type Issuer struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer constructs an Issuer. The secret is mandatory and its absence is
// a startup failure, never a per-request condition.
func NewIssuer(secret, algorithm string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("auth: signing secret is required")
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("auth: unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("auth: signing algorithm %q is not an HMAC method", algorithm)
	}
	return &Issuer{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// IssueAccess signs a short-lived access token.
func (i *Issuer) IssueAccess(payload TokenPayload) (string, error) {
	return i.issue(payload, TokenTypeAccess, i.accessTTL)
}

// IssueRefresh signs a long-lived refresh token.
func (i *Issuer) IssueRefresh(payload TokenPayload) (string, error) {
	return i.issue(payload, TokenTypeRefresh, i.refreshTTL)
}

func (i *Issuer) issue(payload TokenPayload, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:      payload.UserID,
		RoleID:      payload.RoleID,
		CollegeID:   payload.CollegeID,
		Permissions: payload.Permissions,
		TokenType:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies signature and expiry and returns the claims. All failure
// causes collapse into shared.ErrInvalidToken so the caller cannot tell
// which check rejected the token.
func (i *Issuer) Decode(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != i.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithValidMethods([]string{i.method.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, shared.ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, shared.ErrInvalidToken
	}
	return claims, nil
}

// VerifyAccess decodes a bearer token and requires the access discriminant.
func (i *Issuer) VerifyAccess(token string) (*shared.Principal, error) {
	claims, err := i.Decode(token)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, shared.ErrInvalidTokenType
	}
	return claims.Principal(), nil
}

package rbac

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/univia-erp/univia-erp/internal/platform/httpx"
	"github.com/univia-erp/univia-erp/internal/shared"
)

// TokenVerifier validates a bearer token and reconstructs the principal.
// Only access-type tokens pass verification.
type TokenVerifier interface {
	VerifyAccess(token string) (*shared.Principal, error)
}

// SuperAdminChecker answers the super-admin bypass question for a role.
type SuperAdminChecker interface {
	IsSuperAdmin(ctx context.Context, roleID int64) (bool, error)
}

// Middleware wires permission-gated authorization for HTTP handlers.
type Middleware struct {
	Verifier TokenVerifier
	Checker  SuperAdminChecker
	Logger   *slog.Logger
}

// Require gates a route behind the given permission codes. The caller must
// present a valid access token; a super-admin role allows unconditionally;
// otherwise every required code must be present in the token's permission
// claims. An empty requirement list passes any authenticated principal.
func (m Middleware) Require(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httpx.RespondError(w, shared.ErrNotAuthenticated)
				return
			}
			principal, err := m.Verifier.VerifyAccess(token)
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			ctx := shared.ContextWithPrincipal(r.Context(), principal)

			if principal.RoleID != nil {
				super, err := m.Checker.IsSuperAdmin(ctx, *principal.RoleID)
				if err != nil {
					if m.Logger != nil {
						m.Logger.Error("rbac super admin lookup", slog.Any("error", err))
					}
					httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
					return
				}
				if super {
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			if hasAllPermissions(principal.Permissions, perms) {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			httpx.RespondError(w, shared.ErrForbidden)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// hasAllPermissions reports whether every required code is granted. Codes
// match case-sensitively to stay wire-compatible with stored catalogs.
func hasAllPermissions(granted []string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(granted))
	for _, p := range granted {
		set[p] = struct{}{}
	}
	for _, code := range required {
		if _, ok := set[code]; !ok {
			return false
		}
	}
	return true
}

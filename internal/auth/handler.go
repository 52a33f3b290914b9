package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/univia-erp/univia-erp/internal/platform/httpx"
	"github.com/univia-erp/univia-erp/internal/shared"
)

// Events publishes authentication events for asynchronous processing.
// Publishing must never affect the request outcome.
type Events interface {
	LoginSucceeded(ctx context.Context, userID int64, collegeID *int64, email, ip, ua string)
	LoginFailed(ctx context.Context, email, ip, ua string)
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	issuer    *Issuer
	events    Events
	validator *validator.Validate
}

// NewHandler constructs a Handler instance. Events may be nil.
func NewHandler(logger *slog.Logger, service *Service, issuer *Issuer, events Events) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		issuer:    issuer,
		events:    events,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router. Login carries a
// tighter per-IP rate limit than the global stack.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(httprate.LimitByIP(10, time.Minute)).Post("/login", h.handleLogin)
	r.Post("/refresh", h.handleRefresh)
	r.Post("/logout", h.handleLogout)
	r.Get("/me", h.handleMe)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: email and password are required", httpx.ErrValidation))
		return
	}
	// Reject over-long passwords before they reach bcrypt; preprocessing
	// inside the hasher is the second line of defense.
	if len(req.Password) > MaxPasswordBytes {
		httpx.RespondError(w, fmt.Errorf("%w: password cannot exceed %d bytes", httpx.ErrValidation, MaxPasswordBytes))
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if h.events != nil {
			h.events.LoginFailed(r.Context(), req.Email, r.RemoteAddr, r.UserAgent())
		}
		h.respondError(w, r, "login", err)
		return
	}
	if h.events != nil {
		h.events.LoginSucceeded(r.Context(), result.User.UserID, result.User.CollegeID, req.Email, r.RemoteAddr, r.UserAgent())
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: refresh_token is required", httpx.ErrValidation))
		return
	}

	access, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.respondError(w, r, "refresh", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"access_token": access})
}

// handleLogout acknowledges a client-side logout. Tokens stay valid until
// they expire; server-side invalidation would need a token denylist.
func (h *Handler) handleLogout(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully. Remove tokens from client storage.",
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		httpx.RespondError(w, shared.ErrNotAuthenticated)
		return
	}
	principal, err := h.issuer.VerifyAccess(token)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	me, err := h.service.CurrentUser(r.Context(), principal)
	if err != nil {
		h.respondError(w, r, "me", err)
		return
	}
	httpx.JSON(w, http.StatusOK, me)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if h.logger != nil {
		h.logger.Warn("auth request rejected",
			slog.String("op", op),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

// bearerToken extracts the token from an "Authorization: Bearer <t>" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

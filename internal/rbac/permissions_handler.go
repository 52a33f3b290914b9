package rbac

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/univia-erp/univia-erp/internal/platform/httpx"
	"github.com/univia-erp/univia-erp/internal/shared"
)

// PermissionsHandler exposes the permission catalog.
type PermissionsHandler struct {
	logger  *slog.Logger
	service *Service
	rbac    Middleware
}

// NewPermissionsHandler builds PermissionsHandler instance.
func NewPermissionsHandler(logger *slog.Logger, service *Service, rbac Middleware) *PermissionsHandler {
	return &PermissionsHandler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers permission routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(shared.PermPermissionsView))
		r.Get("/", h.listPermissions)
	})
}

type permissionView struct {
	ID     int64  `json:"permission_id"`
	Code   string `json:"permission_code"`
	Module string `json:"module,omitempty"`
	Title  string `json:"title"`
}

type permissionListResponse struct {
	Permissions []permissionView  `json:"permissions"`
	Pagination  shared.Pagination `json:"pagination"`
}

var titleCaser = cases.Title(language.English)

func (h *PermissionsHandler) listPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.service.ListPermissions(r.Context())
	if err != nil {
		h.logger.Error("list permissions", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := shared.NewPagination(page, perPage, len(perms))

	start := (pagination.Page - 1) * pagination.PerPage
	if start > len(perms) {
		start = len(perms)
	}
	end := start + pagination.PerPage
	if end > len(perms) {
		end = len(perms)
	}

	views := make([]permissionView, 0, end-start)
	for _, p := range perms[start:end] {
		views = append(views, permissionView{
			ID:     p.ID,
			Code:   p.Code,
			Module: p.Module,
			Title:  titleCaser.String(strings.ReplaceAll(p.Code, ".", " ")),
		})
	}
	httpx.JSON(w, http.StatusOK, permissionListResponse{Permissions: views, Pagination: pagination})
}

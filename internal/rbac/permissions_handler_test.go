package rbac_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/univia-erp/univia-erp/internal/rbac"
	"github.com/univia-erp/univia-erp/internal/shared"
	_ "github.com/univia-erp/univia-erp/testing"
)

func permissionsRouter(store *rbac.Service) chi.Router {
	viewerRole := int64(3)
	mw := rbac.Middleware{
		Verifier: &stubVerifier{principals: map[string]*shared.Principal{
			"viewer": {UserID: 42, RoleID: &viewerRole, Permissions: []string{shared.PermPermissionsView}},
			"plain":  {UserID: 7, Permissions: []string{shared.PermUsersView}},
		}},
		Checker: &stubChecker{superRoles: map[int64]bool{}},
	}
	handler := rbac.NewPermissionsHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), store, mw)
	r := chi.NewRouter()
	r.Route("/permissions", handler.MountRoutes)
	return r
}

func TestListPermissionsEndpoint(t *testing.T) {
	store := fixtureStore()
	store.catalog = []rbac.Permission{
		{ID: 1, Code: "permissions.view", Module: "core", IsActive: true},
		{ID: 2, Code: "users.edit", Module: "core", IsActive: true},
		{ID: 3, Code: "users.view", Module: "core", IsActive: true},
	}
	r := permissionsRouter(rbac.NewService(store))

	req := httptest.NewRequest(http.MethodGet, "/permissions/", nil)
	req.Header.Set("Authorization", "Bearer viewer")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Permissions []struct {
			Code  string `json:"permission_code"`
			Title string `json:"title"`
		} `json:"permissions"`
		Pagination shared.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Permissions, 3)
	assert.Equal(t, "permissions.view", body.Permissions[0].Code)
	assert.Equal(t, "Permissions View", body.Permissions[0].Title)
	assert.Equal(t, "Users Edit", body.Permissions[1].Title)
	assert.Equal(t, 3, body.Pagination.Total)
}

func TestListPermissionsEndpointPaginates(t *testing.T) {
	store := fixtureStore()
	for i := int64(1); i <= 25; i++ {
		store.catalog = append(store.catalog, rbac.Permission{ID: i, Code: "dummy.code", IsActive: true})
	}
	r := permissionsRouter(rbac.NewService(store))

	req := httptest.NewRequest(http.MethodGet, "/permissions/?page=2&per_page=10", nil)
	req.Header.Set("Authorization", "Bearer viewer")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Permissions []json.RawMessage `json:"permissions"`
		Pagination  shared.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Permissions, 10)
	assert.Equal(t, 2, body.Pagination.Page)
	assert.Equal(t, 25, body.Pagination.Total)
}

func TestListPermissionsEndpointRequiresScope(t *testing.T) {
	r := permissionsRouter(rbac.NewService(fixtureStore()))

	req := httptest.NewRequest(http.MethodGet, "/permissions/", nil)
	req.Header.Set("Authorization", "Bearer plain")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/permissions/", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/univia-erp/univia-erp/internal/auth"
	"github.com/univia-erp/univia-erp/internal/rbac"
	"github.com/univia-erp/univia-erp/internal/shared"
	_ "github.com/univia-erp/univia-erp/testing"
)

type stubRepo struct {
	byEmail  map[string]*auth.Credential
	byID     map[int64]*auth.Credential
	colleges map[int64]string
}

func (s *stubRepo) FindActiveByEmail(_ context.Context, email string) (*auth.Credential, error) {
	if cred, ok := s.byEmail[email]; ok {
		return cred, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) FindActiveByID(_ context.Context, userID int64) (*auth.Credential, error) {
	if cred, ok := s.byID[userID]; ok {
		return cred, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) CollegeName(_ context.Context, collegeID int64) (string, error) {
	if name, ok := s.colleges[collegeID]; ok {
		return name, nil
	}
	return "", shared.ErrNotFound
}

type stubResolver struct {
	role        *rbac.Role
	permissions []string
	superAdmins map[int64]bool

	permissionCalls int
}

func (s *stubResolver) PrimaryRole(context.Context, int64) (*rbac.Role, error) {
	return s.role, nil
}

func (s *stubResolver) PermissionsForUser(context.Context, int64) ([]string, error) {
	s.permissionCalls++
	return s.permissions, nil
}

func (s *stubResolver) IsSuperAdmin(_ context.Context, roleID int64) (bool, error) {
	return s.superAdmins[roleID], nil
}

func fixtureService(t *testing.T) (*auth.Service, *stubResolver, *auth.Issuer) {
	t.Helper()
	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)

	cred := &auth.Credential{
		UserID:       42,
		CollegeID:    ptrInt64(7),
		Username:     "asha",
		Email:        "asha@example.edu",
		PasswordHash: hash,
		IsActive:     true,
	}
	repo := &stubRepo{
		byEmail:  map[string]*auth.Credential{cred.Email: cred},
		byID:     map[int64]*auth.Credential{cred.UserID: cred},
		colleges: map[int64]string{7: "Northside College"},
	}
	resolver := &stubResolver{
		role:        &rbac.Role{ID: 3, Name: "Registrar", IsActive: true},
		permissions: []string{"users.view", "courses.view"},
		superAdmins: map[int64]bool{},
	}
	issuer := testIssuer(t)
	return auth.NewService(repo, resolver, issuer, nil), resolver, issuer
}

func TestLoginIssuesBothTokens(t *testing.T) {
	svc, _, issuer := fixtureService(t)

	result, err := svc.Login(context.Background(), "asha@example.edu", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, "bearer", result.TokenType)
	assert.Equal(t, []string{"users.view", "courses.view"}, result.Permissions)
	assert.Equal(t, "asha", result.User.Name)
	require.NotNil(t, result.User.RoleName)
	assert.Equal(t, "Registrar", *result.User.RoleName)
	require.NotNil(t, result.User.CollegeName)
	assert.Equal(t, "Northside College", *result.User.CollegeName)

	access, err := issuer.Decode(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, auth.TokenTypeAccess, access.TokenType)
	assert.Equal(t, int64(42), access.UserID)
	require.NotNil(t, access.RoleID)
	assert.Equal(t, int64(3), *access.RoleID)
	assert.Equal(t, []string{"users.view", "courses.view"}, access.Permissions)

	refresh, err := issuer.Decode(result.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, auth.TokenTypeRefresh, refresh.TokenType)
}

// The role_id claim names the primary role only, while the permissions claim
// is the union across all of the user's active roles. A user whose grants
// exceed the primary role's own permissions keeps the wider set.
func TestLoginClaimsPrimaryRoleWithUnionPermissions(t *testing.T) {
	svc, resolver, issuer := fixtureService(t)
	resolver.role = &rbac.Role{ID: 3, Name: "Registrar", IsActive: true}
	resolver.permissions = []string{"users.view", "users.edit", "roles.view", "subjects.edit"}

	result, err := svc.Login(context.Background(), "asha@example.edu", "s3cret-pass")
	require.NoError(t, err)

	claims, err := issuer.Decode(result.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, claims.RoleID)
	assert.Equal(t, int64(3), *claims.RoleID)
	assert.Equal(t, []string{"users.view", "users.edit", "roles.view", "subjects.edit"}, claims.Permissions)
}

func TestLoginRoleLessUser(t *testing.T) {
	svc, resolver, issuer := fixtureService(t)
	resolver.role = nil
	resolver.permissions = []string{}

	result, err := svc.Login(context.Background(), "asha@example.edu", "s3cret-pass")
	require.NoError(t, err)

	assert.Nil(t, result.User.RoleID)
	assert.Nil(t, result.User.RoleName)
	assert.Empty(t, result.Permissions)

	claims, err := issuer.Decode(result.AccessToken)
	require.NoError(t, err)
	assert.Nil(t, claims.RoleID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := fixtureService(t)

	_, err := svc.Login(context.Background(), "asha@example.edu", "wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := fixtureService(t)

	_, err := svc.Login(context.Background(), "nobody@example.edu", "s3cret-pass")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRefreshReResolvesPermissions(t *testing.T) {
	svc, resolver, issuer := fixtureService(t)

	result, err := svc.Login(context.Background(), "asha@example.edu", "s3cret-pass")
	require.NoError(t, err)

	// Grants changed after login; refresh must pick up the live set.
	resolver.permissions = []string{"users.view"}

	access, err := svc.Refresh(context.Background(), result.RefreshToken)
	require.NoError(t, err)

	claims, err := issuer.Decode(access)
	require.NoError(t, err)
	assert.Equal(t, auth.TokenTypeAccess, claims.TokenType)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, []string{"users.view"}, claims.Permissions)
	assert.Equal(t, 2, resolver.permissionCalls, "login and refresh each hit the store")
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, issuer := fixtureService(t)

	access, err := issuer.IssueAccess(auth.TokenPayload{UserID: 42})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), access)
	assert.ErrorIs(t, err, shared.ErrInvalidTokenType)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	svc, _, _ := fixtureService(t)
	expired, err := auth.NewIssuer("unit-test-secret", "HS256", -time.Minute, -time.Minute)
	require.NoError(t, err)

	token, err := expired.IssueRefresh(auth.TokenPayload{UserID: 42})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestCurrentUserLiveRead(t *testing.T) {
	svc, resolver, _ := fixtureService(t)
	resolver.superAdmins[3] = false

	me, err := svc.CurrentUser(context.Background(), &shared.Principal{
		UserID:      42,
		RoleID:      ptrInt64(3),
		Permissions: []string{"users.view", "courses.view"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), me.UserID)
	assert.Equal(t, "asha", me.Username)
	require.NotNil(t, me.RoleName)
	assert.Equal(t, "Registrar", *me.RoleName)
	require.NotNil(t, me.CollegeName)
	assert.Equal(t, "Northside College", *me.CollegeName)
	assert.Equal(t, []string{"users.view", "courses.view"}, me.Permissions)
	assert.False(t, me.IsSuperAdmin)
}

func TestCurrentUserSuperAdminFlag(t *testing.T) {
	svc, resolver, _ := fixtureService(t)
	resolver.superAdmins[3] = true

	me, err := svc.CurrentUser(context.Background(), &shared.Principal{UserID: 42, RoleID: ptrInt64(3)})
	require.NoError(t, err)
	assert.True(t, me.IsSuperAdmin)
}

func TestCurrentUserVanishedAccount(t *testing.T) {
	svc, _, _ := fixtureService(t)

	_, err := svc.CurrentUser(context.Background(), &shared.Principal{UserID: 999})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCurrentUserBrokenCollegeLink(t *testing.T) {
	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)
	repo := &stubRepo{
		byID: map[int64]*auth.Credential{
			42: {UserID: 42, CollegeID: ptrInt64(99), Username: "asha", Email: "asha@example.edu", PasswordHash: hash, IsActive: true},
		},
		colleges: map[int64]string{},
	}
	svc := auth.NewService(repo, &stubResolver{superAdmins: map[int64]bool{}}, testIssuer(t), nil)

	me, err := svc.CurrentUser(context.Background(), &shared.Principal{UserID: 42})
	require.NoError(t, err)
	require.NotNil(t, me.CollegeID)
	assert.Equal(t, int64(99), *me.CollegeID)
	assert.Nil(t, me.CollegeName)
}

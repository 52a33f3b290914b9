package rbac

import (
	"context"
	"strings"
)

// SuperAdminRoleName is matched case-insensitively against role names to
// grant the permission-check bypass.
const SuperAdminRoleName = "super admin"

// Service resolves effective roles and permissions for principals.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// PrimaryRole returns the user's primary role: the active assignment with
// the numerically smallest role id, joined to an active role record. It
// returns nil when the user has no active assignment, and also when the
// assignment with the smallest id points at an inactive role; resolution
// never falls through to the next assignment.
func (s *Service) PrimaryRole(ctx context.Context, userID int64) (*Role, error) {
	roleID, ok, err := s.repo.FirstActiveRoleID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.repo.ActiveRole(ctx, roleID)
}

// PermissionsForUser unions the permission codes reachable from every role
// the user holds through an active assignment. The union spans all roles,
// not just the primary one, and deduplicates codes. A role-less user gets
// an empty set.
func (s *Service) PermissionsForUser(ctx context.Context, userID int64) ([]string, error) {
	roleIDs, err := s.repo.ActiveRoleIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(roleIDs) == 0 {
		return []string{}, nil
	}
	codes, err := s.repo.PermissionCodesForRoles(ctx, roleIDs)
	if err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

// IsSuperAdmin reports whether the role is the super-admin role: it must
// exist, be active, and carry the reserved name in any letter case.
func (s *Service) IsSuperAdmin(ctx context.Context, roleID int64) (bool, error) {
	role, err := s.repo.ActiveRole(ctx, roleID)
	if err != nil {
		return false, err
	}
	if role == nil {
		return false, nil
	}
	return strings.EqualFold(role.Name, SuperAdminRoleName), nil
}

// ListPermissions returns the active permission catalog.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.repo.ListPermissions(ctx)
}

package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines the keyed reads the resolver needs.
type Repository interface {
	FirstActiveRoleID(ctx context.Context, userID int64) (int64, bool, error)
	ActiveRole(ctx context.Context, roleID int64) (*Role, error)
	ActiveRoleIDs(ctx context.Context, userID int64) ([]int64, error)
	PermissionCodesForRoles(ctx context.Context, roleIDs []int64) ([]string, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FirstActiveRoleID returns the smallest role id among the user's active
// assignments, reporting false when the user has none.
func (r *PGRepository) FirstActiveRoleID(ctx context.Context, userID int64) (int64, bool, error) {
	var roleID int64
	err := r.pool.QueryRow(ctx, `SELECT role_id FROM tbl_user_roles WHERE user_id = $1 AND status = 1 ORDER BY role_id LIMIT 1`, userID).Scan(&roleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return roleID, true, nil
}

// ActiveRole fetches an active role by id, returning nil when the role is
// missing or inactive.
func (r *PGRepository) ActiveRole(ctx context.Context, roleID int64) (*Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `SELECT role_id, college_id, role_code, role_name, COALESCE(description, '') FROM tbl_roles WHERE role_id = $1 AND status = 1`, roleID).
		Scan(&role.ID, &role.CollegeID, &role.Code, &role.Name, &role.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	role.IsActive = true
	return &role, nil
}

// ActiveRoleIDs returns every role id the user holds through an active
// assignment.
func (r *PGRepository) ActiveRoleIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT role_id FROM tbl_user_roles WHERE user_id = $1 AND status = 1 ORDER BY role_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PermissionCodesForRoles returns the deduplicated permission codes
// reachable from the given roles through active grants to active
// permissions.
func (r *PGRepository) PermissionCodesForRoles(ctx context.Context, roleIDs []int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT p.permission_code
		FROM tbl_permissions p
		JOIN tbl_role_permissions rp ON rp.permission_id = p.permission_id
		WHERE rp.role_id = ANY($1) AND rp.status = 1 AND p.status = 1
		ORDER BY p.permission_code`, roleIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// ListPermissions returns all active permissions ordered by code.
func (r *PGRepository) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := r.pool.Query(ctx, `SELECT permission_id, permission_code, COALESCE(module, '') FROM tbl_permissions WHERE status = 1 ORDER BY permission_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Code, &p.Module); err != nil {
			return nil, err
		}
		p.IsActive = true
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

var _ Repository = (*PGRepository)(nil)

package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/univia-erp/univia-erp/internal/shared"
)

// Repository defines the collaborator reads the auth module needs. The
// backing tables are owned by the excluded administration modules.
type Repository interface {
	FindActiveByEmail(ctx context.Context, email string) (*Credential, error)
	FindActiveByID(ctx context.Context, userID int64) (*Credential, error)
	CollegeName(ctx context.Context, collegeID int64) (string, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindActiveByEmail fetches an active user by exact email match.
func (r *PGRepository) FindActiveByEmail(ctx context.Context, email string) (*Credential, error) {
	row := r.pool.QueryRow(ctx, `SELECT user_id, college_id, username, email, password_hash FROM tbl_users WHERE email = $1 AND status = 1`, email)
	return scanCredential(row)
}

// FindActiveByID fetches an active user by id.
func (r *PGRepository) FindActiveByID(ctx context.Context, userID int64) (*Credential, error) {
	row := r.pool.QueryRow(ctx, `SELECT user_id, college_id, username, email, password_hash FROM tbl_users WHERE user_id = $1 AND status = 1`, userID)
	return scanCredential(row)
}

// CollegeName fetches the display name of a college.
func (r *PGRepository) CollegeName(ctx context.Context, collegeID int64) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx, `SELECT college_name FROM tbl_colleges WHERE college_id = $1`, collegeID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return name, nil
}

func scanCredential(row pgx.Row) (*Credential, error) {
	cred := Credential{IsActive: true}
	if err := row.Scan(&cred.UserID, &cred.CollegeID, &cred.Username, &cred.Email, &cred.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cred, nil
}

var _ Repository = (*PGRepository)(nil)

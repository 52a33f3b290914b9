package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/univia-erp/univia-erp/internal/platform/cache"
	"github.com/univia-erp/univia-erp/internal/rbac"
	"github.com/univia-erp/univia-erp/internal/shared"
)

// Resolver answers role and permission questions for a user.
type Resolver interface {
	PrimaryRole(ctx context.Context, userID int64) (*rbac.Role, error)
	PermissionsForUser(ctx context.Context, userID int64) ([]string, error)
	IsSuperAdmin(ctx context.Context, roleID int64) (bool, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	resolver Resolver
	issuer   *Issuer
	colleges *cache.NameCache
}

// NewService constructs a new Service. The college name cache is optional.
func NewService(repo Repository, resolver Resolver, issuer *Issuer, colleges *cache.NameCache) *Service {
	return &Service{repo: repo, resolver: resolver, issuer: issuer, colleges: colleges}
}

// Login validates email/password credentials and issues both token types.
// Missing user and wrong password collapse into the same generic error.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	cred, err := s.repo.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(password, cred.PasswordHash) {
		return nil, shared.ErrInvalidCredentials
	}

	var (
		role        *rbac.Role
		permissions []string
		collegeName *string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.resolver.PrimaryRole(gctx, cred.UserID)
		role = r
		return err
	})
	g.Go(func() error {
		p, err := s.resolver.PermissionsForUser(gctx, cred.UserID)
		permissions = p
		return err
	})
	if cred.CollegeID != nil {
		g.Go(func() error {
			name, err := s.collegeName(gctx, *cred.CollegeID)
			collegeName = name
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	payload := TokenPayload{
		UserID:      cred.UserID,
		CollegeID:   cred.CollegeID,
		Permissions: permissions,
	}
	var roleName *string
	if role != nil {
		payload.RoleID = &role.ID
		roleName = &role.Name
	}

	access, err := s.issuer.IssueAccess(payload)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.IssueRefresh(payload)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		User: UserProfile{
			UserID:      cred.UserID,
			Name:        cred.Username,
			Email:       cred.Email,
			RoleID:      payload.RoleID,
			RoleName:    roleName,
			CollegeID:   cred.CollegeID,
			CollegeName: collegeName,
		},
		Permissions: permissions,
	}, nil
}

// Refresh validates a refresh token and issues a fresh access token. The
// permission claims are re-resolved from the store rather than trusted from
// the stale token; the refresh token itself is not rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.issuer.Decode(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TokenTypeRefresh {
		return "", shared.ErrInvalidTokenType
	}

	permissions := claims.Permissions
	if claims.UserID != 0 {
		fresh, err := s.resolver.PermissionsForUser(ctx, claims.UserID)
		if err != nil {
			return "", err
		}
		permissions = fresh
	}

	return s.issuer.IssueAccess(TokenPayload{
		UserID:      claims.UserID,
		RoleID:      claims.RoleID,
		CollegeID:   claims.CollegeID,
		Permissions: permissions,
	})
}

// CurrentUser re-reads the live user, role and college records for the
// authenticated principal. A vanished or deactivated account is reported as
// not found; a broken college link degrades to null display fields.
func (s *Service) CurrentUser(ctx context.Context, principal *shared.Principal) (*MeResult, error) {
	cred, err := s.repo.FindActiveByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("user: %w", shared.ErrNotFound)
		}
		return nil, err
	}

	role, err := s.resolver.PrimaryRole(ctx, cred.UserID)
	if err != nil {
		return nil, err
	}

	var collegeName *string
	if cred.CollegeID != nil {
		name, err := s.collegeName(ctx, *cred.CollegeID)
		if err != nil {
			return nil, err
		}
		collegeName = name
	}

	isSuperAdmin := false
	if principal.RoleID != nil {
		isSuperAdmin, err = s.resolver.IsSuperAdmin(ctx, *principal.RoleID)
		if err != nil {
			return nil, err
		}
	}

	result := &MeResult{
		UserID:       cred.UserID,
		Username:     cred.Username,
		Email:        cred.Email,
		CollegeID:    cred.CollegeID,
		CollegeName:  collegeName,
		Permissions:  principal.Permissions,
		IsSuperAdmin: isSuperAdmin,
	}
	if role != nil {
		result.RoleID = &role.ID
		result.RoleName = &role.Name
	}
	return result, nil
}

// collegeName resolves a college display name, using the read-through cache
// when configured. A missing college yields nil, not an error.
func (s *Service) collegeName(ctx context.Context, collegeID int64) (*string, error) {
	load := s.repo.CollegeName
	var (
		name string
		err  error
	)
	if s.colleges != nil {
		name, err = s.colleges.Get(ctx, collegeID, load)
	} else {
		name, err = load(ctx, collegeID)
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &name, nil
}

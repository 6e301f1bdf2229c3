// Package services contains the server-side business logic. This file
// implements AuthService: registration, credential checks with login
// lockout, and issuing/validating access tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/i2clabs/fileserver/internal/common"
	"github.com/i2clabs/fileserver/internal/server/auth"
	"github.com/i2clabs/fileserver/internal/server/config"
	"github.com/i2clabs/fileserver/internal/server/models"
	"github.com/i2clabs/fileserver/internal/server/repositories/repomanager"
)

// DefaultPrivilege is assigned to accounts registered without an explicit tier.
const DefaultPrivilege = "user"

// AuthService handles authentication-related operations:
//   - Register: create accounts
//   - Authenticate: verify credentials under the lockout policy
//   - IssueToken / ValidateToken: stateless JWT handling
//   - account administration (list, update, delete-or-disable)
type AuthService struct {
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	jwtSecret        []byte
	tokenValidity    time.Duration
	maxLoginAttempts int
	lockoutDuration  time.Duration

	// now is a seam for tests.
	now func() time.Time
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:               db,
		repomanager:      m,
		jwtSecret:        []byte(cfg.SecretKey),
		tokenValidity:    cfg.AccessTokenValidity,
		maxLoginAttempts: cfg.MaxLoginAttempts,
		lockoutDuration:  cfg.LockoutDuration,
		now:              time.Now,
	}
}

// Register creates a new account. Username and email uniqueness is enforced
// by the store; violations surface as common.ErrAlreadyExists.
func (s *AuthService) Register(ctx context.Context, username, email, password string, isAdmin bool, privilege string) (*models.User, error) {
	if privilege == "" {
		privilege = DefaultPrivilege
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: hash,
		IsAdmin:        isAdmin,
		Privilege:      privilege,
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Authenticate verifies a username/password pair under the lockout policy.
//
// Account state machine: Active -> (threshold consecutive failures) ->
// Locked -> (window elapses, checked lazily here) -> Active. While locked,
// authentication fails with ErrAccountLocked regardless of the password and
// the counter is not advanced. A successful authentication resets the
// counter to zero.
//
// Unknown usernames burn a dummy bcrypt comparison and return the same
// ErrInvalidCredentials as a wrong password, so responses do not reveal
// whether an account exists.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			auth.BurnPasswordCheck(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}

	now := s.now()
	if user.Locked(now) {
		return nil, common.ErrAccountLocked
	}
	if !user.IsActive {
		auth.BurnPasswordCheck(password)
		return nil, common.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.HashedPassword, password) {
		lockedUntil := now.Add(s.lockoutDuration)
		if _, _, err := repo.RegisterFailedAttempt(ctx, user.ID, s.maxLoginAttempts, lockedUntil); err != nil {
			if errors.Is(err, common.ErrAccountLocked) {
				return nil, common.ErrAccountLocked
			}
			return nil, common.ErrInternal
		}
		return nil, common.ErrInvalidCredentials
	}

	if user.FailedAttempts > 0 || user.LockedUntil != nil {
		if err := repo.ResetLockout(ctx, user.ID); err != nil {
			return nil, common.ErrInternal
		}
	}

	return user, nil
}

// Login authenticates and mints an access token in one call.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	return s.IssueToken(user)
}

// IssueToken signs an access token for the user. Validation is stateless:
// any holder of a structurally valid, unexpired, correctly signed token is
// the principal it names.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token, err := auth.GenerateToken(user, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", common.ErrInternal
	}
	return token, nil
}

// ValidateToken parses and verifies an access token string.
func (s *AuthService) ValidateToken(tokenString string) (*models.Principal, error) {
	return auth.PrincipalFromToken(tokenString, s.jwtSecret)
}

// GetUser fetches an account by id.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	return user, nil
}

// ListUsers returns all accounts ordered by username.
func (s *AuthService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, common.ErrInternal
	}
	return users, nil
}

// UpdateUser applies the non-nil fields of upd to the account.
type UserUpdate struct {
	Username  *string
	Email     *string
	IsAdmin   *bool
	Privilege *string
	IsActive  *bool
}

func (s *AuthService) UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}

	if upd.Username != nil {
		user.Username = *upd.Username
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.IsAdmin != nil {
		user.IsAdmin = *upd.IsAdmin
	}
	if upd.Privilege != nil {
		user.Privilege = *upd.Privilege
	}
	if upd.IsActive != nil {
		user.IsActive = *upd.IsActive
	}

	if err := repo.Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) || errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.ErrInternal
	}
	return user, nil
}

// DeleteUser removes an account. Accounts that still own folders or files
// are never hard-deleted; they are soft-disabled instead so foreign keys
// stay intact, and ErrUserHasContent tells the caller which happened.
func (s *AuthService) DeleteUser(ctx context.Context, id int64) error {
	repo := s.repomanager.Users(s.db)

	owned, err := repo.CountOwnedContent(ctx, id)
	if err != nil {
		return common.ErrInternal
	}

	if owned > 0 {
		user, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrNotFound
			}
			return common.ErrInternal
		}
		user.IsActive = false
		if err := repo.Update(ctx, user); err != nil {
			return common.ErrInternal
		}
		return common.ErrUserHasContent
	}

	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return common.ErrInternal
	}
	return nil
}

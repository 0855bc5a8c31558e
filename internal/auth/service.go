package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/storefrontlabs/martlet-backend/internal/profiles"
	"github.com/storefrontlabs/martlet-backend/internal/users"
	pkgauth "github.com/storefrontlabs/martlet-backend/pkg/auth"
	"github.com/storefrontlabs/martlet-backend/pkg/config"
	"github.com/storefrontlabs/martlet-backend/pkg/db"
	"github.com/storefrontlabs/martlet-backend/pkg/db/models"
	pkgerrors "github.com/storefrontlabs/martlet-backend/pkg/errors"
	"github.com/storefrontlabs/martlet-backend/pkg/metrics"
	"github.com/storefrontlabs/martlet-backend/pkg/security"
)

const usernameConstraint = "idx_users_username"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionManager interface {
	Start(ctx context.Context, accessID string) error
	Revoke(ctx context.Context, accessID string) error
	NewAccessID() string
}

// Service handles registration, login and logout.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*SessionDTO, error)
	Login(ctx context.Context, input LoginInput) (*SessionDTO, error)
	Logout(ctx context.Context, accessID string) error
}

type service struct {
	tx       txRunner
	users    users.UserRepository
	profiles profiles.ProfileRepository
	sessions sessionManager
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	recorder *metrics.StorefrontMetrics
	now      func() time.Time
}

// NewService builds the auth service.
func NewService(tx txRunner, userRepo users.UserRepository, profileRepo profiles.ProfileRepository, sessions sessionManager, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, recorder *metrics.StorefrontMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if profileRepo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{
		tx:       tx,
		users:    userRepo,
		profiles: profileRepo,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		recorder: recorder,
		now:      time.Now,
	}, nil
}

// Register creates the user with a zero-balance wallet profile and logs them
// straight in.
func (s *service) Register(ctx context.Context, input RegisterInput) (*SessionDTO, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.users.WithTx(tx)
		profileRepo := s.profiles.WithTx(tx)

		user := &models.User{
			Username:     username,
			FirstName:    strings.TrimSpace(input.FirstName),
			LastName:     strings.TrimSpace(input.LastName),
			Email:        strings.TrimSpace(input.Email),
			PasswordHash: hash,
		}
		user, err := userRepo.Create(ctx, user)
		if err != nil {
			if db.IsUniqueViolation(err, usernameConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}

		if _, err := profileRepo.Create(ctx, &models.Profile{UserID: user.ID}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
		}

		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	session, err := s.startSession(ctx, created)
	if err != nil {
		return nil, err
	}

	s.recorder.IncRegistration()
	return session, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*SessionDTO, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recorder.IncLogin("invalid_credentials")
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid username or password")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		s.recorder.IncLogin("invalid_credentials")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid username or password")
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record login time")
	}

	session, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.recorder.IncLogin("ok")
	return session, nil
}

// Logout revokes the server-side session marker. The token itself stays valid
// until expiry but fails the session check on every authenticated route.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if accessID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) startSession(ctx context.Context, user *models.User) (*SessionDTO, error) {
	accessID := s.sessions.NewAccessID()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	if err := s.sessions.Start(ctx, accessID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start session")
	}

	return &SessionDTO{
		AccessToken: token,
		User:        users.ToDTO(user),
	}, nil
}

package profiles

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/storefrontlabs/martlet-backend/internal/orders"
	"github.com/storefrontlabs/martlet-backend/internal/users"
	"github.com/storefrontlabs/martlet-backend/pkg/db"
	"github.com/storefrontlabs/martlet-backend/pkg/db/models"
	"github.com/storefrontlabs/martlet-backend/pkg/enums"
	pkgerrors "github.com/storefrontlabs/martlet-backend/pkg/errors"
	"github.com/storefrontlabs/martlet-backend/pkg/metrics"
	"github.com/storefrontlabs/martlet-backend/pkg/pagination"
)

const usernameConstraint = "idx_users_username"

var (
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	cardExpiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])[0-9]{2}$`)
	cardCVVRe    = regexp.MustCompile(`^\d{3}$`)
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes profile and wallet operations.
type Service interface {
	GetAccount(ctx context.Context, userID uuid.UUID) (*AccountDTO, error)
	UpdateAccount(ctx context.Context, userID uuid.UUID, input UpdateInput) (*AccountDTO, error)
	TopUp(ctx context.Context, userID uuid.UUID, input TopUpInput) (*ProfileDTO, error)
	WalletHistory(ctx context.Context, userID uuid.UUID, limit int) ([]WalletEntryDTO, error)
}

type service struct {
	tx       txRunner
	repo     ProfileRepository
	users    users.UserRepository
	orders   orders.OrderRepository
	recorder *metrics.StorefrontMetrics
}

// NewService builds the profile service.
func NewService(tx txRunner, repo ProfileRepository, userRepo users.UserRepository, orderRepo orders.OrderRepository, recorder *metrics.StorefrontMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{
		tx:       tx,
		repo:     repo,
		users:    userRepo,
		orders:   orderRepo,
		recorder: recorder,
	}, nil
}

func (s *service) GetAccount(ctx context.Context, userID uuid.UUID) (*AccountDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	records, nextCursor, err := s.orders.ListByUser(ctx, userID, pagination.Params{Limit: pagination.DefaultLimit})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	return &AccountDTO{
		User:    users.ToDTO(user),
		Profile: ToProfileDTO(profile),
		Orders:  orders.ToOrderListDTO(records, nextCursor),
	}, nil
}

func (s *service) UpdateAccount(ctx context.Context, userID uuid.UUID, input UpdateInput) (*AccountDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username required")
	}

	user.Username = username
	user.FirstName = strings.TrimSpace(input.FirstName)
	user.LastName = strings.TrimSpace(input.LastName)
	user.Email = strings.TrimSpace(input.Email)

	if _, err := s.users.Update(ctx, user); err != nil {
		if db.IsUniqueViolation(err, usernameConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}

	return s.GetAccount(ctx, userID)
}

func (s *service) TopUp(ctx context.Context, userID uuid.UUID, input TopUpInput) (*ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if err := validateTopUp(input); err != nil {
		return nil, err
	}

	var updated *models.Profile
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		profile, err := repo.FindByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
		}

		if err := repo.Credit(ctx, userID, input.Amount); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit balance")
		}

		if _, err := repo.CreateWalletEntry(ctx, &models.WalletEntry{
			ProfileID: profile.ID,
			Type:      enums.WalletEntryTopUp,
			Amount:    input.Amount,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record wallet entry")
		}

		updated, err = repo.FindByUserID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload profile")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorder.IncWalletTopUp()

	dto := ToProfileDTO(updated)
	return &dto, nil
}

func (s *service) WalletHistory(ctx context.Context, userID uuid.UUID, limit int) ([]WalletEntryDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	rows, err := s.repo.ListWalletEntries(ctx, profile.ID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wallet entries")
	}
	return ToWalletEntryDTOs(rows), nil
}

// validateTopUp checks every card field independently so the shopper sees
// all problems at once rather than one per submit.
func validateTopUp(input TopUpInput) error {
	var errs error
	if !cardNumberRe.MatchString(strings.TrimSpace(input.CardNumber)) {
		errs = multierr.Append(errs, fmt.Errorf("card_number: must be 16 digits"))
	}
	if !cardExpiryRe.MatchString(strings.TrimSpace(input.CardExpiry)) {
		errs = multierr.Append(errs, fmt.Errorf("card_expiry: must be MMYY"))
	}
	if !cardCVVRe.MatchString(strings.TrimSpace(input.CardCVV)) {
		errs = multierr.Append(errs, fmt.Errorf("card_cvv: must be 3 digits"))
	}
	if !input.Amount.IsPositive() {
		errs = multierr.Append(errs, fmt.Errorf("amount: must be positive"))
	}
	if errs == nil {
		return nil
	}

	details := map[string]string{}
	for _, fieldErr := range multierr.Errors(errs) {
		parts := strings.SplitN(fieldErr.Error(), ": ", 2)
		if len(parts) == 2 {
			details[parts[0]] = parts[1]
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "invalid card details").WithDetails(details)
}

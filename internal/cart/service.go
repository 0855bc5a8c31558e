package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefrontlabs/martlet-backend/internal/catalog"
	"github.com/storefrontlabs/martlet-backend/pkg/db"
	"github.com/storefrontlabs/martlet-backend/pkg/db/models"
	pkgerrors "github.com/storefrontlabs/martlet-backend/pkg/errors"
	"github.com/storefrontlabs/martlet-backend/pkg/metrics"
)

const unpaidRowConstraint = "idx_cart_rows_user_good_unpaid"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes cart mutations and the cart read path.
type Service interface {
	AddGood(ctx context.Context, userID, goodID uuid.UUID, quantity int) (*CartDTO, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
}

type service struct {
	tx       txRunner
	rows     RowRepository
	goods    catalog.GoodRepository
	recorder *metrics.StorefrontMetrics
}

// NewService builds the cart service.
func NewService(tx txRunner, rows RowRepository, goods catalog.GoodRepository, recorder *metrics.StorefrontMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if rows == nil {
		return nil, fmt.Errorf("row repository required")
	}
	if goods == nil {
		return nil, fmt.Errorf("good repository required")
	}
	return &service{
		tx:       tx,
		rows:     rows,
		goods:    goods,
		recorder: recorder,
	}, nil
}

// AddGood reserves stock and folds the quantity into the single unpaid row for
// the (user, good) pair. Quantities of zero or beyond the available stock are
// rejected before anything is written.
func (s *service) AddGood(ctx context.Context, userID, goodID uuid.UUID, quantity int) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if goodID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "good id required")
	}
	if quantity <= 0 {
		s.recorder.IncCartAdd("invalid_quantity")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid good num")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rows := s.rows.WithTx(tx)
		goods := s.goods.WithTx(tx)

		if _, err := goods.FindByID(ctx, goodID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "good not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load good")
		}

		ok, err := goods.ReserveStock(ctx, goodID, quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve stock")
		}
		if !ok {
			s.recorder.IncCartAdd("out_of_stock")
			return pkgerrors.New(pkgerrors.CodeValidation, "Invalid good num")
		}

		return s.upsertRow(ctx, rows, userID, goodID, quantity)
	})
	if err != nil {
		return nil, err
	}

	s.recorder.IncCartAdd("ok")
	return s.GetCart(ctx, userID)
}

// upsertRow accumulates onto the open row, falling back to insert. A concurrent
// insert can still slip between the lookup and the create; the partial unique
// index turns that race into a constraint error, which is retried as an update.
func (s *service) upsertRow(ctx context.Context, rows RowRepository, userID, goodID uuid.UUID, quantity int) error {
	existing, err := rows.FindUnpaid(ctx, userID, goodID)
	if err == nil {
		if err := rows.AddQuantity(ctx, existing.ID, quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart row")
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart row")
	}

	_, createErr := rows.Create(ctx, &models.CartRow{
		UserID:   userID,
		GoodID:   goodID,
		Quantity: quantity,
	})
	if createErr == nil {
		return nil
	}
	if !db.IsUniqueViolation(createErr, unpaidRowConstraint) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "create cart row")
	}

	raced, err := rows.FindUnpaid(ctx, userID, goodID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart row")
	}
	if err := rows.AddQuantity(ctx, raced.ID, quantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart row")
	}
	return nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	rows, err := s.rows.ListUnpaidByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart rows")
	}

	dto := ToCartDTO(rows)
	return &dto, nil
}

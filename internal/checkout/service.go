package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefrontlabs/martlet-backend/internal/cart"
	"github.com/storefrontlabs/martlet-backend/internal/orders"
	"github.com/storefrontlabs/martlet-backend/internal/profiles"
	"github.com/storefrontlabs/martlet-backend/pkg/db/models"
	"github.com/storefrontlabs/martlet-backend/pkg/enums"
	pkgerrors "github.com/storefrontlabs/martlet-backend/pkg/errors"
	"github.com/storefrontlabs/martlet-backend/pkg/metrics"
	"github.com/storefrontlabs/martlet-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service settles carts into orders and exposes order history.
type Service interface {
	Pay(ctx context.Context, userID uuid.UUID) (*orders.OrderDTO, error)
	ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*orders.OrderListDTO, error)
}

type service struct {
	tx       txRunner
	rows     cart.RowRepository
	orders   orders.OrderRepository
	profiles profiles.ProfileRepository
	recorder *metrics.StorefrontMetrics
}

// NewService builds the checkout service.
func NewService(tx txRunner, rows cart.RowRepository, orderRepo orders.OrderRepository, profileRepo profiles.ProfileRepository, recorder *metrics.StorefrontMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if rows == nil {
		return nil, fmt.Errorf("cart row repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if profileRepo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	return &service{
		tx:       tx,
		rows:     rows,
		orders:   orderRepo,
		profiles: profileRepo,
		recorder: recorder,
	}, nil
}

// Pay settles every unpaid row for the shopper in a single transaction. Stock
// was already reserved when rows entered the cart, so payment only has to move
// money, stamp the rows and refresh the loyalty tier.
func (s *service) Pay(ctx context.Context, userID uuid.UUID) (*orders.OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	var settled *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rowRepo := s.rows.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)
		profileRepo := s.profiles.WithTx(tx)

		unpaid, err := rowRepo.ListUnpaidByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart rows")
		}
		if len(unpaid) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}

		total := decimal.Zero
		rowIDs := make([]uuid.UUID, 0, len(unpaid))
		for _, row := range unpaid {
			if row.Good == nil {
				return pkgerrors.New(pkgerrors.CodeInternal, "cart row missing good")
			}
			total = total.Add(row.Good.Price.Mul(decimal.NewFromInt(int64(row.Quantity))))
			rowIDs = append(rowIDs, row.ID)
		}

		order := &models.Order{
			UserID: userID,
			Amount: total,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		if err := rowRepo.MarkPaid(ctx, rowIDs, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark rows paid")
		}

		debited, err := profileRepo.Debit(ctx, userID, total)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit balance")
		}
		if !debited {
			return pkgerrors.New(pkgerrors.CodeInsufficientFunds, "balance below order total")
		}

		profile, err := profileRepo.FindByUserID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
		}

		entry := &models.WalletEntry{
			ProfileID: profile.ID,
			Type:      enums.WalletEntryDebit,
			Amount:    total,
			OrderID:   &order.ID,
		}
		if _, err := profileRepo.CreateWalletEntry(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record wallet entry")
		}

		updated, err := profileRepo.RecordSpend(ctx, userID, total)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record spend")
		}

		if next := enums.StatusForSpend(updated.TotalSpent); next != updated.Status {
			if err := profileRepo.UpdateStatus(ctx, userID, next); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update status")
			}
		}

		order.Rows = unpaid
		settled = order
		return nil
	})
	if err != nil {
		s.recorder.IncCheckout("failed")
		return nil, err
	}

	s.recorder.IncCheckout("ok")
	s.recorder.ObserveOrderAmount(settled.Amount)

	dto := orders.ToOrderDTO(*settled)
	return &dto, nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*orders.OrderListDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	records, nextCursor, err := s.orders.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	dto := orders.ToOrderListDTO(records, nextCursor)
	return &dto, nil
}

package profiles

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefrontlabs/martlet-backend/internal/orders"
	"github.com/storefrontlabs/martlet-backend/internal/users"
	"github.com/storefrontlabs/martlet-backend/pkg/db/models"
	"github.com/storefrontlabs/martlet-backend/pkg/enums"
)

// ProfileDTO is the public wallet and tier view of an account.
type ProfileDTO struct {
	UserID     uuid.UUID           `json:"user_id"`
	Balance    decimal.Decimal     `json:"balance"`
	TotalSpent decimal.Decimal     `json:"total_spent"`
	Status     enums.ProfileStatus `json:"status"`
}

// AccountDTO bundles the identity, wallet and recent-order views for
// profile pages. Orders holds the newest page; the orders endpoint pages
// through the rest.
type AccountDTO struct {
	User    users.UserDTO       `json:"user"`
	Profile ProfileDTO          `json:"profile"`
	Orders  orders.OrderListDTO `json:"orders"`
}

// WalletEntryDTO is one ledger line in the wallet history.
type WalletEntryDTO struct {
	ID        uuid.UUID             `json:"id"`
	Type      enums.WalletEntryType `json:"type"`
	Amount    decimal.Decimal       `json:"amount"`
	OrderID   *uuid.UUID            `json:"order_id,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// TopUpInput carries the card form fields for a wallet top up.
type TopUpInput struct {
	CardNumber string          `json:"card_number"`
	CardExpiry string          `json:"card_expiry"`
	CardCVV    string          `json:"card_cvv"`
	Amount     decimal.Decimal `json:"amount"`
}

// UpdateInput carries the editable identity fields.
type UpdateInput struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// ToProfileDTO maps a profile model to its public shape.
func ToProfileDTO(profile *models.Profile) ProfileDTO {
	if profile == nil {
		return ProfileDTO{}
	}
	return ProfileDTO{
		UserID:     profile.UserID,
		Balance:    profile.Balance,
		TotalSpent: profile.TotalSpent,
		Status:     profile.Status,
	}
}

// ToWalletEntryDTOs maps ledger models to their public shape.
func ToWalletEntryDTOs(rows []models.WalletEntry) []WalletEntryDTO {
	out := make([]WalletEntryDTO, len(rows))
	for i, row := range rows {
		out[i] = WalletEntryDTO{
			ID:        row.ID,
			Type:      row.Type,
			Amount:    row.Amount,
			OrderID:   row.OrderID,
			CreatedAt: row.CreatedAt,
		}
	}
	return out
}

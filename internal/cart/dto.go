package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefrontlabs/martlet-backend/pkg/db/models"
)

// RowDTO is one line of the open cart.
type RowDTO struct {
	ID       uuid.UUID       `json:"id"`
	GoodID   uuid.UUID       `json:"good_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartDTO is the open cart with its running total.
type CartDTO struct {
	Rows  []RowDTO        `json:"rows"`
	Total decimal.Decimal `json:"total"`
}

// ToCartDTO maps unpaid rows to the public cart shape, summing line subtotals.
func ToCartDTO(rows []models.CartRow) CartDTO {
	dto := CartDTO{
		Rows:  make([]RowDTO, len(rows)),
		Total: decimal.Zero,
	}
	for i, row := range rows {
		line := RowDTO{
			ID:       row.ID,
			GoodID:   row.GoodID,
			Quantity: row.Quantity,
		}
		if row.Good != nil {
			line.Name = row.Good.Name
			line.Price = row.Good.Price
			line.Subtotal = row.Good.Price.Mul(decimal.NewFromInt(int64(row.Quantity)))
		}
		dto.Rows[i] = line
		dto.Total = dto.Total.Add(line.Subtotal)
	}
	return dto
}

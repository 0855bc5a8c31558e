package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefrontlabs/martlet-backend/pkg/db/models"
)

// OrderRowDTO is a single paid line item inside an order.
type OrderRowDTO struct {
	GoodID   uuid.UUID       `json:"good_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type OrderDTO struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Rows      []OrderRowDTO   `json:"rows"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderListDTO is one page of order history.
type OrderListDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func ToOrderDTO(order models.Order) OrderDTO {
	rows := make([]OrderRowDTO, 0, len(order.Rows))
	for _, row := range order.Rows {
		dto := OrderRowDTO{
			GoodID:   row.GoodID,
			Quantity: row.Quantity,
		}
		if row.Good != nil {
			dto.Name = row.Good.Name
			dto.Price = row.Good.Price
		}
		rows = append(rows, dto)
	}
	return OrderDTO{
		ID:        order.ID,
		Amount:    order.Amount,
		Rows:      rows,
		CreatedAt: order.CreatedAt,
	}
}

func ToOrderListDTO(records []models.Order, nextCursor string) OrderListDTO {
	out := make([]OrderDTO, 0, len(records))
	for _, record := range records {
		out = append(out, ToOrderDTO(record))
	}
	return OrderListDTO{Orders: out, NextCursor: nextCursor}
}

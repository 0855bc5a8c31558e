package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefrontlabs/martlet-backend/pkg/db/models"
)

// GoodDTO is the public storefront view of a catalog good.
type GoodDTO struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Amount   int             `json:"amount"`
	Shop     string          `json:"shop"`
	Category string          `json:"category"`
}

// StorefrontDTO is the landing page payload.
type StorefrontDTO struct {
	Goods        []GoodDTO       `json:"goods"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

// ToGoodDTO maps a good model to its public shape.
func ToGoodDTO(good *models.Good) GoodDTO {
	if good == nil {
		return GoodDTO{}
	}
	dto := GoodDTO{
		ID:     good.ID,
		Name:   good.Name,
		Price:  good.Price,
		Amount: good.Amount,
	}
	if good.Shop != nil {
		dto.Shop = good.Shop.Name
	}
	if good.Category != nil {
		dto.Category = good.Category.Name
	}
	return dto
}

// ToGoodDTOs maps a slice of good models.
func ToGoodDTOs(rows []models.Good) []GoodDTO {
	out := make([]GoodDTO, len(rows))
	for i := range rows {
		out[i] = ToGoodDTO(&rows[i])
	}
	return out
}

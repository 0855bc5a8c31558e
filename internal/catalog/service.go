package catalog

import (
	"context"
	"fmt"

	pkgerrors "github.com/storefrontlabs/martlet-backend/pkg/errors"
)

// Service exposes the public storefront read path.
type Service interface {
	Storefront(ctx context.Context) (*StorefrontDTO, error)
}

type service struct {
	repo GoodRepository
}

// NewService builds the catalog service.
func NewService(repo GoodRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("good repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Storefront(ctx context.Context) (*StorefrontDTO, error) {
	goods, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list goods")
	}

	avg, err := s.repo.AveragePrice(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "average price")
	}

	return &StorefrontDTO{
		Goods:        ToGoodDTOs(goods),
		AveragePrice: avg,
	}, nil
}

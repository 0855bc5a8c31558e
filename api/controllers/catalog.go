package controllers

import (
	"net/http"

	"github.com/storefrontlabs/martlet-backend/api/responses"
	"github.com/storefrontlabs/martlet-backend/internal/catalog"
	pkgerrors "github.com/storefrontlabs/martlet-backend/pkg/errors"
	"github.com/storefrontlabs/martlet-backend/pkg/logger"
)

// Storefront returns the landing page payload, available goods plus the
// catalog-wide average price.
func Storefront(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		page, err := svc.Storefront(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

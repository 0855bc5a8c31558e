package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/storefrontlabs/martlet-backend/api/responses"
	"github.com/storefrontlabs/martlet-backend/api/validators"
	"github.com/storefrontlabs/martlet-backend/internal/profiles"
	pkgerrors "github.com/storefrontlabs/martlet-backend/pkg/errors"
	"github.com/storefrontlabs/martlet-backend/pkg/logger"
)

func ownProfileID(r *http.Request) (uuid.UUID, error) {
	userID, err := authenticatedUserID(r)
	if err != nil {
		return uuid.Nil, err
	}
	pathID, err := validators.ParseUUIDParam(r, "id")
	if err != nil {
		return uuid.Nil, err
	}
	if pathID != userID {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot access another user's profile")
	}
	return userID, nil
}

// ProfileView returns the shopper's account details and wallet state.
func ProfileView(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		userID, err := ownProfileID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		account, err := svc.GetAccount(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, account)
	}
}

func ProfileUpdate(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		userID, err := ownProfileID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input profiles.UpdateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		account, err := svc.UpdateAccount(ctx, userID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, account)
	}
}

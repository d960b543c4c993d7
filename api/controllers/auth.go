package controllers

import (
	"net/http"

	"github.com/angelmondragon/roomreserve-backend/api/responses"
	"github.com/angelmondragon/roomreserve-backend/api/validators"
	"github.com/angelmondragon/roomreserve-backend/internal/auth"
	"github.com/angelmondragon/roomreserve-backend/internal/users"
	pkgerrors "github.com/angelmondragon/roomreserve-backend/pkg/errors"
	"github.com/angelmondragon/roomreserve-backend/pkg/logger"
)

var errAuthUnavailable = pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")

// AuthLogin exchanges email and password for an access/refresh token pair.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, errAuthUnavailable)
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Login(ctx, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AuthSignup registers a pending account. Tokens are only issued by login
// once an administrator approves it.
func AuthSignup(reg auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if reg == nil {
			responses.WriteError(ctx, logg, w, errAuthUnavailable)
			return
		}

		var body auth.SignupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		created, err := reg.Signup(ctx, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, struct {
			User *users.UserDTO `json:"user"`
		}{User: created})
	}
}

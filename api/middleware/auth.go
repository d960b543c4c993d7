package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/roomreserve-backend/api/responses"
	"github.com/angelmondragon/roomreserve-backend/api/validators"
	pkgAuth "github.com/angelmondragon/roomreserve-backend/pkg/auth"
	"github.com/angelmondragon/roomreserve-backend/pkg/auth/session"
	"github.com/angelmondragon/roomreserve-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/roomreserve-backend/pkg/errors"
	"github.com/angelmondragon/roomreserve-backend/pkg/logger"
)

// Auth admits requests carrying a valid bearer token whose session has not
// been revoked, and puts the caller's id and role on the context.
func Auth(cfg config.JWTConfig, sessions session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authenticate(r, cfg, sessions)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			userID, role := claims.UserID.String(), string(claims.Role)
			ctx := WithRole(WithUserID(r.Context(), userID), role)
			if logg != nil {
				ctx = logg.WithActorRole(logg.WithUserID(ctx, userID), role)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(r *http.Request, cfg config.JWTConfig, sessions session.AccessSessionChecker) (*pkgAuth.AccessTokenClaims, error) {
	raw, err := validators.BearerToken(r)
	if err != nil {
		return nil, err
	}
	claims, err := pkgAuth.ParseAccessToken(cfg, raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if err := requireLiveSession(r.Context(), sessions, claims.ID); err != nil {
		return nil, err
	}
	return claims, nil
}

func requireLiveSession(ctx context.Context, sessions session.AccessSessionChecker, jti string) error {
	if sessions == nil {
		return nil
	}
	live, err := sessions.HasSession(ctx, jti)
	switch {
	case err != nil:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
	case !live:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session revoked or expired")
	}
	return nil
}

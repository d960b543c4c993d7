package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/roomreserve-backend/pkg/errors"
)

// BearerToken extracts the token from the Authorization header. The "Bearer"
// prefix is optional.
func BearerToken(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	token := raw
	if scheme, rest, found := strings.Cut(raw, " "); strings.EqualFold(scheme, "bearer") {
		token = ""
		if found {
			token = strings.TrimSpace(rest)
		}
	}
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return token, nil
}

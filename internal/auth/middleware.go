package auth

import (
	"errors"
	"net/http"
	"strings"

	"log/slog"

	"github.com/pathlight-lms/pathlight/internal/authz"
	"github.com/pathlight-lms/pathlight/internal/shared"
)

const bearerScheme = "Bearer "

// Middleware is the authentication gate. It verifies the bearer credential,
// resolves it to a live identity and attaches it to the request context.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// Authenticate rejects requests without a verifiable bearer token. It never
// attaches a partial identity: downstream guards either see a fully
// resolved actor or the request has already been rejected.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			shared.RespondError(w, http.StatusUnauthorized, shared.ErrNoToken.Error(), nil)
			return
		}
		id, err := m.Service.ResolveIdentity(r.Context(), raw)
		if err != nil {
			if !errors.Is(err, shared.ErrTokenFailed) {
				if m.Logger != nil {
					m.Logger.Error("identity resolution failed", slog.Any("error", err))
				}
				shared.RespondError(w, http.StatusInternalServerError, "authentication failed", nil)
				return
			}
			shared.RespondError(w, http.StatusUnauthorized, shared.ErrTokenFailed.Error(), nil)
			return
		}
		ctx := authz.ContextWithIdentity(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerScheme) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerScheme))
	if token == "" {
		return "", false
	}
	return token, true
}

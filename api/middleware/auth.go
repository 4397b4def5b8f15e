package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/minhngdev/foodcourt-backend/api/responses"
	pkgauth "github.com/minhngdev/foodcourt-backend/pkg/auth"
	"github.com/minhngdev/foodcourt-backend/pkg/config"
	pkgerrors "github.com/minhngdev/foodcourt-backend/pkg/errors"
	"github.com/minhngdev/foodcourt-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.AccountID == 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing account id"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxAccountID, claims.AccountID)
			ctx = context.WithValue(ctx, ctxRole, claims.Role)
			if claims.StoreID != nil {
				ctx = context.WithValue(ctx, ctxStoreID, *claims.StoreID)
			}

			if logg != nil {
				fields := map[string]any{
					"account_id": claims.AccountID,
					"actor_role": string(claims.Role),
				}
				if claims.StoreID != nil {
					fields["store_id"] = *claims.StoreID
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

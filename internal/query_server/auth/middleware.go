package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/Avi18971911/CycleWallet/internal/query_server/handler"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type principalKey struct{}

func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

func PrincipalFromContext(ctx context.Context) (string, bool) {
	principal, ok := ctx.Value(principalKey{}).(string)
	return principal, ok
}

// Middleware admits requests carrying a delegation for the wallet named in the route.
func Middleware(verifier *Verifier, logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r.Header.Get("Authorization"))
			var claims *DelegationClaims
			if err == nil {
				claims, err = verifier.Verify(tokenString)
			}
			if err != nil {
				logger.Info("Rejected delegation", zap.String("path", r.URL.Path), zap.Error(err))
				handler.HttpError(w, "Unauthorized", http.StatusUnauthorized, logger)
				return
			}

			walletId := mux.Vars(r)["walletId"]
			if !claims.Allows(walletId) {
				logger.Info(
					"Delegation does not cover wallet",
					zap.String("principal", claims.Principal),
					zap.String("wallet_id", walletId),
				)
				handler.HttpError(w, "Forbidden", http.StatusForbidden, logger)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), claims.Principal)))
		})
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrNotBearer
	}
	return strings.TrimSpace(token), nil
}

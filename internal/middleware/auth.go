package middleware

import (
	"context"
	"net/http"
	"strings"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/auth"
	"branchdesk-backend/internal/logger"
	"branchdesk-backend/internal/models"
	"branchdesk-backend/pkg/utils"

	"go.uber.org/zap"
)

type contextKey string

const identityKey contextKey = "identity"

// UserLoader reloads the token's user so suspensions and permission edits apply immediately
type UserLoader interface {
	Get(ctx context.Context, id int) (*models.User, error)
}

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	users      UserLoader
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, users UserLoader, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		users:      users,
		logger:     logger,
	}
}

// WithIdentity stores the caller in ctx
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the caller resolved by Authenticate
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// Authenticate validates the bearer token, reloads the user and attaches an Identity
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context(), m.logger)

		parts := strings.Fields(r.Header.Get("Authorization"))
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(w, log, apperr.ErrUnauthenticated.Withf("authorization header must be: Bearer <token>"))
			return
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			utils.Error(w, log, apperr.ErrUnauthenticated)
			return
		}

		user, err := m.users.Get(r.Context(), claims.UserID)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				err = apperr.ErrUnauthenticated.Withf("user no longer exists")
			}
			utils.Error(w, log, err)
			return
		}
		if !user.IsActive {
			utils.Error(w, log, apperr.ErrAccountSuspended)
			return
		}

		markUser(r.Context(), user.ID)
		ctx := WithIdentity(r.Context(), auth.NewIdentity(user))
		ctx = logger.WithContext(ctx, log.With(zap.Int("user_id", user.ID)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAny lets the request through when the caller holds at least one of perms
func (m *AuthMiddleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				utils.Error(w, m.logger, apperr.ErrUnauthenticated)
				return
			}
			if !id.HasAny(perms...) {
				utils.Error(w, m.logger, apperr.ErrPermissionDenied.Withf("requires one of: %s", strings.Join(perms, ", ")))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package auth

import (
	"context"
	"errors"
	"strings"

	applog "github.com/gustavoisensee/MyFinances/internal/log"
	"github.com/gustavoisensee/MyFinances/internal/user"
)

// ProviderVerifier checks identity provider session tokens and returns the
// external user id.
type ProviderVerifier interface {
	Verify(token string) (string, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByClerkID(ctx context.Context, clerkID string) (*user.User, error)
}

// SyncHook is called for a valid provider token whose subject has no local user yet.
type SyncHook func(ctx context.Context, externalID string) error

// Resolver turns an Authorization header into a local user id. It never
// fails: 0 means unauthenticated.
type Resolver struct {
	provider ProviderVerifier
	legacy   *JWTManager
	users    UserLookup
	onSync   SyncHook
	logger   *applog.Logger
}

// NewResolver wires the verifiers. provider and onSync may be nil.
func NewResolver(provider ProviderVerifier, legacy *JWTManager, users UserLookup, onSync SyncHook, logger *applog.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		legacy:   legacy,
		users:    users,
		onSync:   onSync,
		logger:   logger.WithComponent(applog.ComponentAuth),
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		header = strings.TrimSpace(header[7:])
	}
	return header
}

func (r *Resolver) Resolve(ctx context.Context, header string) int64 {
	token := bearerToken(header)
	if token == "" {
		return 0
	}

	if r.provider != nil {
		if externalID, err := r.provider.Verify(token); err == nil {
			return r.resolveExternal(ctx, externalID)
		}
	}

	if r.legacy == nil {
		return 0
	}
	userID, err := r.legacy.ValidateAccessToken(token)
	if err != nil {
		r.logger.DebugContext(ctx, "token rejected", applog.FieldError, err)
		return 0
	}
	if _, err := r.users.GetByID(ctx, userID); err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			r.logger.WarnContext(ctx, "user lookup failed", applog.FieldUserID, userID, applog.FieldError, err)
		}
		return 0
	}
	return userID
}

func (r *Resolver) resolveExternal(ctx context.Context, externalID string) int64 {
	u, err := r.users.GetByClerkID(ctx, externalID)
	if err == nil {
		return u.ID
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		r.logger.WarnContext(ctx, "user lookup failed", applog.FieldExternalID, externalID, applog.FieldError, err)
		return 0
	}

	// the caller stays anonymous for this request even when the sync succeeds
	if r.onSync != nil {
		if err := r.onSync(ctx, externalID); err != nil {
			r.logger.WarnContext(ctx, "lazy user sync failed", applog.FieldOperation, applog.OpSync,
				applog.FieldExternalID, externalID, applog.FieldError, err)
		}
	}
	return 0
}

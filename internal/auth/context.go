package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/pasarkita/marketplace-api/internal/domain"
)

// Identity is the authenticated caller, threaded explicitly through request
// contexts instead of any global "current user".
type Identity struct {
	UserID uuid.UUID
	Role   domain.Role
}

type identityKey struct{}

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

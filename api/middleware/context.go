package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/replyhub/replyhub-backend/internal/access"
	"github.com/replyhub/replyhub-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID    contextKey = "user_id"
	ctxRole      contextKey = "role"
	ctxStoreCode contextKey = "store_code"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func StoreCodeFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxStoreCode).(string); ok {
		return v
	}
	return ""
}

// WithIdentity seeds the context with the authenticated principal.
func WithIdentity(ctx context.Context, identity access.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, identity.UserID.String())
	ctx = context.WithValue(ctx, ctxRole, string(identity.Role))
	if identity.StoreCode != nil {
		ctx = context.WithValue(ctx, ctxStoreCode, *identity.StoreCode)
	}
	return ctx
}

// IdentityFromContext reconstructs the principal attached by the auth gate.
func IdentityFromContext(ctx context.Context) (access.Identity, bool) {
	userID, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil {
		return access.Identity{}, false
	}
	identity := access.Identity{
		UserID: userID,
		Role:   enums.Role(RoleFromContext(ctx)),
	}
	if code := StoreCodeFromContext(ctx); code != "" {
		identity.StoreCode = &code
	}
	return identity, true
}

package middleware

import (
	"context"

	"github.com/minhngdev/foodcourt-backend/pkg/enums"
)

type contextKey string

const (
	ctxAccountID contextKey = "account_id"
	ctxRole      contextKey = "actor_role"
	ctxStoreID   contextKey = "store_id"
)

func AccountIDFromContext(ctx context.Context) uint {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxAccountID).(uint); ok {
		return v
	}
	return 0
}

func RoleFromContext(ctx context.Context) enums.Role {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.Role); ok {
		return v
	}
	return ""
}

func StoreIDFromContext(ctx context.Context) *uint {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxStoreID).(uint); ok {
		return &v
	}
	return nil
}

// WithAccount seeds the request context with the authenticated actor. Exposed
// for controller tests.
func WithAccount(ctx context.Context, accountID uint, role enums.Role, storeID *uint) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxAccountID, accountID)
	ctx = context.WithValue(ctx, ctxRole, role)
	if storeID != nil {
		ctx = context.WithValue(ctx, ctxStoreID, *storeID)
	}
	return ctx
}

package testutil

import (
	"context"

	"github.com/clubbill/clubbill/internal/types"
)

// SetupContext creates a context with test defaults
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	return ctx
}

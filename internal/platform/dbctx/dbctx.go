package dbctx

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/courseprogress-backend/internal/platform/ctxutil"
)

// Context bundles a request context with an optional GORM transaction.
// Repos fall back to their own handle when Tx is nil.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Background is a Context with no transaction.
func Background(ctx context.Context) Context {
	return Context{Ctx: ctxutil.Default(ctx)}
}

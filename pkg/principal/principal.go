// Package principal carries the acting user through a request context.
package principal

import (
	"context"
	"strconv"

	"VideoHub.com/pkg/constants"
	"VideoHub.com/pkg/errno"
)

type ctxKey struct{}

// WithUser returns a context carrying uid as the acting principal.
func WithUser(ctx context.Context, uid int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, uid)
}

// FromContext reports the acting principal, false for anonymous callers.
func FromContext(ctx context.Context) (int64, bool) {
	uid, ok := ctx.Value(ctxKey{}).(int64)
	return uid, ok && uid > 0
}

// Require fails with UnauthenticatedErr when no principal is present.
func Require(ctx context.Context) (int64, error) {
	uid, ok := FromContext(ctx)
	if !ok {
		return 0, errno.UnauthenticatedErr
	}
	return uid, nil
}

// CacheScope is the principal part of a view cache key.
func CacheScope(ctx context.Context) string {
	if uid, ok := FromContext(ctx); ok {
		return strconv.FormatInt(uid, 10)
	}
	return constants.AnonymousPrincipal
}

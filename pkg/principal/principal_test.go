package principal

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VideoHub.com/pkg/errno"
)

func TestFromContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), 42)
	uid, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(42), uid)

	// 非法 id 视为匿名
	_, ok = FromContext(WithUser(context.Background(), 0))
	assert.False(t, ok)
}

func TestRequire(t *testing.T) {
	_, err := Require(context.Background())
	assert.True(t, errors.Is(err, errno.UnauthenticatedErr))

	uid, err := Require(WithUser(context.Background(), 7))
	require.NoError(t, err)
	assert.Equal(t, int64(7), uid)
}

func TestCacheScope(t *testing.T) {
	assert.Equal(t, "anonymous", CacheScope(context.Background()))
	assert.Equal(t, "9", CacheScope(WithUser(context.Background(), 9)))
}

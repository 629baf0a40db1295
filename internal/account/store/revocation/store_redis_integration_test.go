//go:build integration

package revocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediconnect/internal/account/store/revocation"
	"mediconnect/pkg/testutil/containers"
)

func TestRedisList(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	list := revocation.NewRedisList(rc.Client)
	ctx := context.Background()

	t.Run("revoked token is reported revoked", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		require.NoError(t, list.Revoke(ctx, "jti-1", time.Hour))

		revoked, err := list.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("unknown token is not revoked", func(t *testing.T) {
		revoked, err := list.IsRevoked(ctx, "jti-unknown")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("entry expires with its TTL", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		require.NoError(t, list.Revoke(ctx, "jti-short", 500*time.Millisecond))

		revoked, err := list.IsRevoked(ctx, "jti-short")
		require.NoError(t, err)
		require.True(t, revoked)

		time.Sleep(time.Second)

		revoked, err = list.IsRevoked(ctx, "jti-short")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("empty token id is a no-op", func(t *testing.T) {
		require.NoError(t, list.Revoke(ctx, "", time.Hour))
		revoked, err := list.IsRevoked(ctx, "")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}

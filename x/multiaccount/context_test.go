package multiaccount

import (
	"context"
	"testing"

	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/x"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	var auth Authenticate
	ctx := context.Background()
	require.Empty(t, auth.GetConditions(ctx))

	outer, inner := quorumtest.NewAddress(), quorumtest.NewAddress()
	ctx = withAccount(ctx, outer)
	require.True(t, auth.HasAddress(ctx, AccountCondition(outer).Address()))

	caller, err := x.Caller(ctx, auth)
	require.NoError(t, err)
	require.Equal(t, AccountCondition(outer).Address(), caller)

	// A nested execution acts as the inner account only.
	ctx = withAccount(ctx, inner)
	require.True(t, auth.HasAddress(ctx, AccountCondition(inner).Address()))
	require.False(t, auth.HasAddress(ctx, AccountCondition(outer).Address()))
}

func TestAccountCannotActAsKeyHolder(t *testing.T) {
	var auth Authenticate
	victim := quorumtest.NewKey().Condition().Address()

	// An account registered under an identifier copied from a key address
	// must not be able to act as that key.
	ctx := withAccount(context.Background(), victim)
	require.False(t, auth.HasAddress(ctx, victim))

	caller, err := x.Caller(ctx, auth)
	require.NoError(t, err)
	require.NotEqual(t, victim, caller)
	require.Equal(t, AccountCondition(victim).Address(), caller)
}

package trendstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CountsAndRanks(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.IncrementQuery(ctx, "visa", "Visa?"))
	require.NoError(t, store.IncrementQuery(ctx, "visa", "visa"))
	require.NoError(t, store.IncrementQuery(ctx, "sim card", "SIM card"))

	top, err := store.TopQueries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, "Visa?", top[0].Query) // first seen display wins
	require.Equal(t, int64(2), top[0].Count)
	require.Equal(t, "SIM card", top[1].Query)
	require.Equal(t, int64(1), top[1].Count)
}

func TestMemoryStore_LimitTruncates(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.IncrementQuery(ctx, "a", "a"))
	require.NoError(t, store.IncrementQuery(ctx, "b", "b"))
	require.NoError(t, store.IncrementQuery(ctx, "c", "c"))

	top, err := store.TopQueries(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
}

func TestMemoryStore_EmptyCanonicalIsIgnored(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.IncrementQuery(ctx, "", "anything"))

	top, err := store.TopQueries(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, top)
}

package weathercache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/bonsai-care-bot/internal/domain/forecast"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	reading := forecast.Reading{Temperature: 30, DaytimeAvgHumidity: 55}

	_, ok, err := store.Get(ctx, "reading:22.6300:120.3000")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Save(ctx, "reading:22.6300:120.3000", reading, time.Minute))

	got, ok, err := store.Get(ctx, "reading:22.6300:120.3000")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, reading, got)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "k", forecast.Reading{Temperature: 30}, time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

package checkout

import (
	"context"
	"fmt"
	"hotelbooking/src/lib"
	"hotelbooking/src/models"
	"hotelbooking/src/store"
	"hotelbooking/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReconcileRepairsStaleBookings(t *testing.T) {
	mem := store.NewMemoryStore()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	stale := seedRoom(mem)
	fresh := seedRoom(mem)
	booked := mem.PutRoom(models.Room{Name: "Attic", Price: 50})

	mem.SetClock(func() time.Time { return now.Add(-10 * time.Minute) })
	require.NoError(t, mem.CreateBooking(context.Background(), testMetadata(stale.ID).Booking("cs_stale", "")))
	require.NoError(t, mem.CreateBooking(context.Background(), testMetadata(booked.ID).Booking("cs_booked", "")))
	mem.SetClock(func() time.Time { return now.Add(-10 * time.Second) })
	require.NoError(t, mem.CreateBooking(context.Background(), testMetadata(fresh.ID).Booking("cs_fresh", "")))

	r := NewReconciler(testConfig(), mem, lib.NewLocalLocker(), zap.NewNop())
	r.now = func() time.Time { return now }

	n, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	room, _ := mem.FetchRoom(context.Background(), stale.ID)
	assert.False(t, room.Available)
	room, _ = mem.FetchRoom(context.Background(), fresh.ID)
	assert.True(t, room.Available)

	n, err = r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestReconcileReportsPatchFailures(t *testing.T) {
	mem := store.NewMemoryStore()
	room := seedRoom(mem)
	mem.SetClock(func() time.Time { return time.Now().Add(-time.Hour) })
	require.NoError(t, mem.CreateBooking(context.Background(), testMetadata(room.ID).Booking("cs_1", "")))

	faulty := &faultyStore{
		MemoryStore: mem,
		patchErr:    fmt.Errorf("patch room: %w", types.ErrStoreUnavailable),
		patchFails:  1,
	}
	r := NewReconciler(testConfig(), faulty, lib.NewLocalLocker(), zap.NewNop())

	n, err := r.Reconcile(context.Background())
	assert.ErrorIs(t, err, types.ErrStoreUnavailable)
	assert.Equal(t, 0, n)

	n, err = r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

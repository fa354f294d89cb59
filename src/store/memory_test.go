package store

import (
	"context"
	"errors"
	"hotelbooking/src/models"
	"hotelbooking/src/types"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreBookingLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	room := s.PutRoom(models.Room{Name: "Garden Suite", Price: 180, Available: true})

	b := newBooking()
	b.RoomID = room.ID
	require.NoError(t, s.CreateBooking(ctx, b))
	assert.NotEqual(t, uuid.Nil, b.ID)

	dup := newBooking()
	dup.RoomID = room.ID
	assert.True(t, errors.Is(s.CreateBooking(ctx, dup), types.ErrDuplicateBooking))

	found, err := s.FindBookingBySession(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.ID)
	assert.Equal(t, 1, s.CountBookings(room.ID))

	require.NoError(t, s.PatchRoomAvailability(ctx, room.ID, false))
	got, err := s.FetchRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)

	list, err := s.ListBookingsForUser(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMemoryStoreReferences(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.FetchRoom(ctx, uuid.New())
	assert.True(t, errors.Is(err, types.ErrNotFound))
	assert.True(t, errors.Is(s.CreateBooking(ctx, newBooking()), types.ErrNotFound))
	assert.True(t, errors.Is(s.PatchRoomAvailability(ctx, uuid.New(), false), types.ErrNotFound))
}

func TestMemoryStoreUnreconciled(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	past := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return past })
	room := s.PutRoom(models.Room{Name: "Loft", Price: 90, Available: true})

	b := newBooking()
	b.RoomID = room.ID
	require.NoError(t, s.CreateBooking(ctx, b))

	stale, err := s.ListUnreconciledBookings(ctx, past.Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	fresh, err := s.ListUnreconciledBookings(ctx, past.Add(-time.Minute), 10)
	require.NoError(t, err)
	assert.Empty(t, fresh)

	require.NoError(t, s.PatchRoomAvailability(ctx, room.ID, false))
	stale, err = s.ListUnreconciledBookings(ctx, past.Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

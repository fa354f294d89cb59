// Package store holds the availability store: rooms, bookings and the users
// that own them.
package store

import (
	"context"
	"hotelbooking/src/models"
	"time"

	"github.com/google/uuid"
)

// AvailabilityStore is the persistence contract consumed by the checkout flow.
// Each method is an atomic unit; callers must not assume transactions across calls.
//
// Errors are classified with the sentinels in package types: ErrNotFound,
// ErrDuplicateBooking and ErrStoreUnavailable.
type AvailabilityStore interface {
	FetchRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error)
	FetchUser(ctx context.Context, userID string) (*models.User, error)
	FindBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
	FindBookingBySession(ctx context.Context, sessionID string) (*models.Booking, error)
	ListBookingsForUser(ctx context.Context, userID string, limit int) ([]models.Booking, error)
	// CreateBooking assigns the booking ID. A second booking for the same
	// checkout session fails with ErrDuplicateBooking; an unknown room with ErrNotFound.
	CreateBooking(ctx context.Context, booking *models.Booking) error
	PatchRoomAvailability(ctx context.Context, roomID uuid.UUID, available bool) error
	// ListUnreconciledBookings returns bookings created before the cutoff whose
	// room is still flagged available.
	ListUnreconciledBookings(ctx context.Context, createdBefore time.Time, limit int) ([]models.Booking, error)
}

package store

import (
	"context"
	"fmt"
	"hotelbooking/src/models"
	"hotelbooking/src/types"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps everything in process memory. It enforces the same
// uniqueness and reference rules as the postgres schema.
type MemoryStore struct {
	mu        sync.RWMutex
	rooms     map[uuid.UUID]models.Room
	users     map[string]models.User
	bookings  map[uuid.UUID]models.Booking
	bySession map[string]uuid.UUID
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:     map[uuid.UUID]models.Room{},
		users:     map[string]models.User{},
		bookings:  map[uuid.UUID]models.Booking{},
		bySession: map[string]uuid.UUID{},
		now:       time.Now,
	}
}

// PutRoom inserts or replaces a room, assigning an ID when missing.
func (s *MemoryStore) PutRoom(room models.Room) models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	s.rooms[room.ID] = room
	return room
}

func (s *MemoryStore) PutUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

// SetClock replaces the time source used for CreatedAt.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) FetchRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("fetch room %s: %w", roomID, types.ErrNotFound)
	}
	return &room, nil
}

func (s *MemoryStore) FetchUser(ctx context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("fetch user %s: %w", userID, types.ErrNotFound)
	}
	return &user, nil
}

func (s *MemoryStore) FindBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	booking, ok := s.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("find booking %s: %w", bookingID, types.ErrNotFound)
	}
	return &booking, nil
}

func (s *MemoryStore) FindBookingBySession(ctx context.Context, sessionID string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bySession[sessionID]
	if !ok {
		return nil, fmt.Errorf("find booking by session: %w", types.ErrNotFound)
	}
	booking := s.bookings[id]
	return &booking, nil
}

func (s *MemoryStore) ListBookingsForUser(ctx context.Context, userID string, limit int) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Booking{}
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bySession[booking.CheckoutSessionID]; ok {
		return fmt.Errorf("create booking: %w", types.ErrDuplicateBooking)
	}
	if _, ok := s.rooms[booking.RoomID]; !ok {
		return fmt.Errorf("create booking: room %s: %w", booking.RoomID, types.ErrNotFound)
	}
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	now := s.now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	stored := *booking
	stored.Room = nil
	s.bookings[booking.ID] = stored
	s.bySession[booking.CheckoutSessionID] = booking.ID
	return nil
}

func (s *MemoryStore) PatchRoomAvailability(ctx context.Context, roomID uuid.UUID, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return fmt.Errorf("patch room %s: %w", roomID, types.ErrNotFound)
	}
	room.Available = available
	room.UpdatedAt = s.now()
	s.rooms[roomID] = room
	return nil
}

func (s *MemoryStore) ListUnreconciledBookings(ctx context.Context, createdBefore time.Time, limit int) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Booking{}
	for _, b := range s.bookings {
		room, ok := s.rooms[b.RoomID]
		if ok && room.Available && b.CreatedAt.Before(createdBefore) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountBookings returns how many bookings reference the room.
func (s *MemoryStore) CountBookings(roomID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, b := range s.bookings {
		if b.RoomID == roomID {
			n++
		}
	}
	return n
}

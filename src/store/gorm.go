package store

import (
	"context"
	"errors"
	"fmt"
	"hotelbooking/src/models"
	"hotelbooking/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// classify maps driver errors onto the store taxonomy.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", op, types.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, types.ErrDuplicateBooking)
	default:
		return fmt.Errorf("%s: %w: %s", op, types.ErrStoreUnavailable, err.Error())
	}
}

func (s *GormStore) FetchRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := s.db.WithContext(ctx).
		Model(&models.Room{}).
		Where("id = ?", roomID).
		First(&room).
		Error
	if err != nil {
		return nil, classify("fetch room", err)
	}
	return &room, nil
}

func (s *GormStore) FetchUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		First(&user).
		Error
	if err != nil {
		return nil, classify("fetch user", err)
	}
	return &user, nil
}

func (s *GormStore) FindBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		First(&booking).
		Error
	if err != nil {
		return nil, classify("find booking", err)
	}
	return &booking, nil
}

func (s *GormStore) FindBookingBySession(ctx context.Context, sessionID string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("checkout_session_id = ?", sessionID).
		First(&booking).
		Error
	if err != nil {
		return nil, classify("find booking by session", err)
	}
	return &booking, nil
}

func (s *GormStore) ListBookingsForUser(ctx context.Context, userID string, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&bookings).
		Error
	if err != nil {
		return nil, classify("list bookings", err)
	}
	return bookings, nil
}

func (s *GormStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	err := s.db.WithContext(ctx).
		Omit("Room").
		Create(booking).
		Error
	return classify("create booking", err)
}

func (s *GormStore) PatchRoomAvailability(ctx context.Context, roomID uuid.UUID, available bool) error {
	res := s.db.WithContext(ctx).
		Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("available", available)
	if res.Error != nil {
		return classify("patch room", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("patch room %s: %w", roomID, types.ErrNotFound)
	}
	return nil
}

func (s *GormStore) ListUnreconciledBookings(ctx context.Context, createdBefore time.Time, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Joins("JOIN rooms ON rooms.id = bookings.room_id AND rooms.deleted_at IS NULL").
		Where("rooms.available = ?", true).
		Where("bookings.created_at < ?", createdBefore).
		Order("bookings.created_at ASC").
		Limit(limit).
		Find(&bookings).
		Error
	if err != nil {
		return nil, classify("list unreconciled bookings", err)
	}
	return bookings, nil
}

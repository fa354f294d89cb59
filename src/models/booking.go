package models

import (
	"hotelbooking/src/types"
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID                uuid.UUID           `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID            string              `gorm:"index;not null" json:"user_id"`
	RoomID            uuid.UUID           `gorm:"type:uuid;index;not null" json:"room_id"`
	CheckinDate       time.Time           `gorm:"type:date;not null" json:"checkin_date"`
	CheckoutDate      time.Time           `gorm:"type:date;not null" json:"checkout_date"`
	NumberOfNights    int                 `gorm:"not null" json:"number_of_nights"`
	Adults            int                 `gorm:"not null" json:"adults"`
	Children          int                 `gorm:"not null;default:0" json:"children"`
	TotalPrice        int64               `gorm:"not null" json:"total_price"`
	DiscountPercent   float64             `gorm:"not null;default:0" json:"discount"`
	Status            types.BookingStatus `gorm:"not null;default:'confirmed'" json:"status"`
	CheckoutSessionID string              `gorm:"uniqueIndex;not null" json:"-"`
	PaymentIntentID   *string             `json:"-"`

	Room *Room `gorm:"foreignKey:room_id;constraint:OnDelete:RESTRICT" json:"room,omitempty"`

	types.Timestamps
}

func (b *Booking) Response() types.APIResponseBooking {
	return types.APIResponseBooking{
		ID:              b.ID.String(),
		RoomID:          b.RoomID.String(),
		CheckinDate:     b.CheckinDate.Format(types.DATE_FORMAT),
		CheckoutDate:    b.CheckoutDate.Format(types.DATE_FORMAT),
		NumberOfDays:    b.NumberOfNights,
		Adults:          b.Adults,
		Children:        b.Children,
		TotalPrice:      b.TotalPrice,
		DiscountPercent: b.DiscountPercent,
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
	}
}

package models

import (
	"hotelbooking/src/types"

	"github.com/google/uuid"
)

type Room struct {
	ID              uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Price           float64   `gorm:"not null" json:"price"`
	DiscountPercent float64   `gorm:"not null;default:0" json:"discount"`
	Available       bool      `gorm:"not null;default:true" json:"available"`

	Bookings []Booking `gorm:"foreignKey:room_id" json:"-"`

	types.Timestamps
}

func (r *Room) Response() types.APIResponseRoom {
	return types.APIResponseRoom{
		ID:              r.ID.String(),
		Name:            r.Name,
		Price:           r.Price,
		DiscountPercent: r.DiscountPercent,
		Available:       r.Available,
	}
}

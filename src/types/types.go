package types

import (
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type SimpleRequestParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type BookingStatus string

const (
	BOOKING_CONFIRMED BookingStatus = "confirmed"
)

const DATE_FORMAT = "2006-01-02"

type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url,omitempty"`
}

type APIResponseBooking struct {
	ID              string    `json:"id"`
	RoomID          string    `json:"roomId"`
	CheckinDate     string    `json:"checkinDate"`
	CheckoutDate    string    `json:"checkoutDate"`
	NumberOfDays    int       `json:"numberOfDays"`
	Adults          int       `json:"adults"`
	Children        int       `json:"children"`
	TotalPrice      int64     `json:"totalPrice"`
	DiscountPercent float64   `json:"discount"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

type APIResponseRoom struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DiscountPercent float64 `json:"discount"`
	Available       bool    `json:"available"`
}

package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingRequest is the body of a checkout session request coming from the UI.
type BookingRequest struct {
	RoomID       string `json:"roomId" binding:"required,uuid"`
	CheckinDate  string `json:"checkinDate" binding:"required,isodate"`
	CheckoutDate string `json:"checkoutDate" binding:"required,isodate,gtdate=CheckinDate"`
	Adults       int    `json:"adults" binding:"required,min=1"`
	Children     int    `json:"children" binding:"min=0"`
	NumberOfDays int    `json:"numberOfDays" binding:"required,gt=0"`
}

// Stay is a BookingRequest that passed validation.
type Stay struct {
	RoomID   uuid.UUID
	Checkin  time.Time
	Checkout time.Time
	Nights   int
	Adults   int
	Children int
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DATE_FORMAT, strings.TrimSpace(s), time.UTC)
}

// NightsBetween returns the whole-day difference between two dates. It counts
// in seconds since the epoch; time.Duration saturates after ~292 years.
func NightsBetween(checkin, checkout time.Time) int {
	return int((checkout.Unix() - checkin.Unix()) / 86400)
}

// Validate checks every field and returns all failures at once.
func (r *BookingRequest) Validate() (*Stay, error) {
	verr := NewValidationError()
	stay := &Stay{Adults: r.Adults, Children: r.Children, Nights: r.NumberOfDays}

	if strings.TrimSpace(r.RoomID) == "" {
		verr.Add("roomId", "is required")
	} else if id, err := uuid.Parse(r.RoomID); err != nil {
		verr.Add("roomId", "must be a valid room id")
	} else {
		stay.RoomID = id
	}

	checkinOK, checkoutOK := false, false
	if r.CheckinDate == "" {
		verr.Add("checkinDate", "is required")
	} else if d, err := ParseDate(r.CheckinDate); err != nil {
		verr.Add("checkinDate", "must be a date in YYYY-MM-DD format")
	} else {
		stay.Checkin, checkinOK = d, true
	}
	if r.CheckoutDate == "" {
		verr.Add("checkoutDate", "is required")
	} else if d, err := ParseDate(r.CheckoutDate); err != nil {
		verr.Add("checkoutDate", "must be a date in YYYY-MM-DD format")
	} else {
		stay.Checkout, checkoutOK = d, true
	}

	if r.Adults < 1 {
		verr.Add("adults", "at least one adult is required")
	}
	if r.Children < 0 {
		verr.Add("children", "must not be negative")
	}
	if r.NumberOfDays <= 0 {
		verr.Add("numberOfDays", "must be greater than zero")
	}

	if checkinOK && checkoutOK {
		if !stay.Checkout.After(stay.Checkin) {
			verr.Add("checkoutDate", "must be after checkinDate")
		} else if n := NightsBetween(stay.Checkin, stay.Checkout); r.NumberOfDays > 0 && n != r.NumberOfDays {
			verr.Add("numberOfDays", "does not match the selected dates")
		}
	}

	if !verr.Empty() {
		return nil, verr
	}
	return stay, nil
}

package checkout

import (
	"fmt"
	"hotelbooking/src/models"
	"hotelbooking/src/types"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Keys used on the provider session. They must stay stable across releases:
// sessions opened by an older build are completed against a newer one.
const (
	keyRoom       = "hotelRoom"
	keyUser       = "user"
	keyCheckin    = "checkinDate"
	keyCheckout   = "checkoutDate"
	keyNights     = "numberOfDays"
	keyAdults     = "adults"
	keyChildren   = "children"
	keyDiscount   = "discount"
	keyTotalPrice = "totalPrice"
)

var metadataValidator = validator.New(validator.WithRequiredStructEnabled())

// PaymentSessionMetadata is the booking intent carried on a payment session.
// TotalPrice is in minor currency units and is the amount that was charged.
type PaymentSessionMetadata struct {
	RoomID     uuid.UUID
	UserID     string    `validate:"required"`
	Checkin    time.Time `validate:"required"`
	Checkout   time.Time `validate:"required,gtfield=Checkin"`
	Nights     int       `validate:"gt=0"`
	Adults     int       `validate:"min=1"`
	Children   int       `validate:"min=0"`
	Discount   float64   `validate:"min=0,max=100"`
	TotalPrice int64     `validate:"min=0"`
}

func NewMetadata(stay *types.Stay, userID string, discount float64, totalMinor int64) *PaymentSessionMetadata {
	return &PaymentSessionMetadata{
		RoomID:     stay.RoomID,
		UserID:     userID,
		Checkin:    stay.Checkin,
		Checkout:   stay.Checkout,
		Nights:     stay.Nights,
		Adults:     stay.Adults,
		Children:   stay.Children,
		Discount:   discount,
		TotalPrice: totalMinor,
	}
}

func (m *PaymentSessionMetadata) Encode() map[string]string {
	return map[string]string{
		keyRoom:       m.RoomID.String(),
		keyUser:       m.UserID,
		keyCheckin:    m.Checkin.Format(types.DATE_FORMAT),
		keyCheckout:   m.Checkout.Format(types.DATE_FORMAT),
		keyNights:     strconv.Itoa(m.Nights),
		keyAdults:     strconv.Itoa(m.Adults),
		keyChildren:   strconv.Itoa(m.Children),
		keyDiscount:   strconv.FormatFloat(m.Discount, 'f', -1, 64),
		keyTotalPrice: strconv.FormatInt(m.TotalPrice, 10),
	}
}

func corrupt(key, reason string) error {
	return fmt.Errorf("%w: %s %s", types.ErrCorruptMetadata, key, reason)
}

type metadataReader struct {
	raw map[string]string
	err error
}

func (r *metadataReader) str(key string) string {
	if r.err != nil {
		return ""
	}
	v, ok := r.raw[key]
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		r.err = corrupt(key, "is missing")
	}
	return v
}

func (r *metadataReader) integer(key string) int64 {
	s := r.str(key)
	if r.err != nil {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		r.err = corrupt(key, "is not an integer")
	}
	return n
}

func (r *metadataReader) float(key string) float64 {
	s := r.str(key)
	if r.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.err = corrupt(key, "is not a number")
	}
	return f
}

func (r *metadataReader) date(key string) time.Time {
	s := r.str(key)
	if r.err != nil {
		return time.Time{}
	}
	d, err := types.ParseDate(s)
	if err != nil {
		r.err = corrupt(key, "is not a date")
	}
	return d
}

// ParseMetadata rebuilds the booking intent from a session's metadata. It
// stops at the first missing or malformed key and never fills in defaults.
func ParseMetadata(raw map[string]string) (*PaymentSessionMetadata, error) {
	r := &metadataReader{raw: raw}
	m := &PaymentSessionMetadata{}

	room := r.str(keyRoom)
	if r.err == nil {
		id, err := uuid.Parse(room)
		if err != nil {
			r.err = corrupt(keyRoom, "is not a room id")
		}
		m.RoomID = id
	}
	m.UserID = r.str(keyUser)
	m.Checkin = r.date(keyCheckin)
	m.Checkout = r.date(keyCheckout)
	m.Nights = int(r.integer(keyNights))
	m.Adults = int(r.integer(keyAdults))
	m.Children = int(r.integer(keyChildren))
	m.Discount = r.float(keyDiscount)
	m.TotalPrice = r.integer(keyTotalPrice)
	if r.err != nil {
		return nil, r.err
	}

	if err := metadataValidator.Struct(m); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return nil, corrupt(verrs[0].Field(), "failed "+verrs[0].Tag())
		}
		return nil, fmt.Errorf("%w: %s", types.ErrCorruptMetadata, err)
	}
	if types.NightsBetween(m.Checkin, m.Checkout) != m.Nights {
		return nil, corrupt(keyNights, "does not match the dates")
	}
	return m, nil
}

// Booking builds the record to persist, copying every value from the metadata.
func (m *PaymentSessionMetadata) Booking(sessionID, paymentIntentID string) *models.Booking {
	b := &models.Booking{
		UserID:            m.UserID,
		RoomID:            m.RoomID,
		CheckinDate:       m.Checkin,
		CheckoutDate:      m.Checkout,
		NumberOfNights:    m.Nights,
		Adults:            m.Adults,
		Children:          m.Children,
		TotalPrice:        m.TotalPrice,
		DiscountPercent:   m.Discount,
		Status:            types.BOOKING_CONFIRMED,
		CheckoutSessionID: sessionID,
	}
	if paymentIntentID != "" {
		b.PaymentIntentID = &paymentIntentID
	}
	return b
}

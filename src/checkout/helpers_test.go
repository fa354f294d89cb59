package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"hotelbooking/src/config"
	"hotelbooking/src/lib"
	"hotelbooking/src/models"
	"hotelbooking/src/store"
	"hotelbooking/src/types"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testSecret = "whsec_test_secret"

func testConfig() *config.Config {
	return &config.Config{
		AppHost:             "http://localhost:3000",
		Currency:            "usd",
		StripeWebhookSecret: testSecret,
		StoreTimeout:        time.Second,
		ProviderTimeout:     time.Second,
		ReconcileInterval:   time.Minute,
		ReconcileGrace:      time.Minute,
	}
}

type fakeProvider struct {
	mu       sync.Mutex
	requests []*lib.CheckoutRequest
	err      error
}

func (f *fakeProvider) CreateCheckoutSession(ctx context.Context, req *lib.CheckoutRequest) (*lib.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	id := fmt.Sprintf("cs_test_%d", len(f.requests))
	return &lib.CheckoutSession{ID: id, URL: "https://checkout.stripe.com/c/pay/" + id}, nil
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// faultyStore fails selected operations of an in-memory store.
type faultyStore struct {
	*store.MemoryStore
	mu          sync.Mutex
	createErr   error
	patchErr    error
	patchFails  int
	createCalls int
}

func (s *faultyStore) CreateBooking(ctx context.Context, b *models.Booking) error {
	s.mu.Lock()
	s.createCalls++
	err := s.createErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.MemoryStore.CreateBooking(ctx, b)
}

func (s *faultyStore) PatchRoomAvailability(ctx context.Context, roomID uuid.UUID, available bool) error {
	s.mu.Lock()
	if s.patchFails > 0 {
		s.patchFails--
		err := s.patchErr
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.MemoryStore.PatchRoomAvailability(ctx, roomID, available)
}

type recordingNotifier struct {
	mu    sync.Mutex
	sent  []uuid.UUID
	users []string
}

func (n *recordingNotifier) BookingConfirmed(ctx context.Context, user *models.User, room *models.Room, booking *models.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, booking.ID)
	n.users = append(n.users, user.ID)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type busyLocker struct{}

func (busyLocker) Lock(ctx context.Context, key string) (func(), error) {
	return nil, fmt.Errorf("%w: %s", lib.ErrLockBusy, key)
}

func seedRoom(s *store.MemoryStore) models.Room {
	return s.PutRoom(models.Room{Name: "Sea View Suite", Price: 100, DiscountPercent: 10, Available: true})
}

func date(s string) time.Time {
	d, err := types.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testMetadata(roomID uuid.UUID) *PaymentSessionMetadata {
	return &PaymentSessionMetadata{
		RoomID:     roomID,
		UserID:     "user-1",
		Checkin:    date("2025-03-01"),
		Checkout:   date("2025-03-04"),
		Nights:     3,
		Adults:     2,
		Children:   1,
		Discount:   10,
		TotalPrice: 27000,
	}
}

func testEvent(roomID uuid.UUID, sessionID string) *VerifiedEvent {
	md := testMetadata(roomID)
	return &VerifiedEvent{
		EventID:         "evt_" + sessionID,
		Type:            "checkout.session.completed",
		SessionID:       sessionID,
		PaymentIntentID: "pi_" + sessionID,
		AmountTotal:     md.TotalPrice,
		RawMetadata:     md.Encode(),
		Metadata:        md,
	}
}

func eventPayload(t *testing.T, eventType, paymentStatus string, metadata map[string]string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":          "evt_test_1",
		"object":      "event",
		"type":        eventType,
		"api_version": "2025-04-30.basil",
		"created":     time.Now().Unix(),
		"data": map[string]any{
			"object": map[string]any{
				"id":             "cs_test_1",
				"object":         "checkout.session",
				"mode":           "payment",
				"payment_status": paymentStatus,
				"amount_total":   27000,
				"currency":       "usd",
				"payment_intent": "pi_test_1",
				"metadata":       metadata,
			},
		},
	})
	require.NoError(t, err)
	return body
}

func sign(payload []byte, secret string, at time.Time) string {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: at,
		Scheme:    "v1",
	})
	return signed.Header
}

package checkout

import (
	"hotelbooking/src/types"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestVerifier() *Verifier {
	return NewVerifier(testConfig(), zap.NewNop())
}

func TestVerifyCompletedSession(t *testing.T) {
	md := testMetadata(uuid.New())
	payload := eventPayload(t, "checkout.session.completed", "paid", md.Encode())

	ev, err := newTestVerifier().Verify(payload, sign(payload, testSecret, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "evt_test_1", ev.EventID)
	assert.Equal(t, "checkout.session.completed", ev.Type)
	assert.Equal(t, "cs_test_1", ev.SessionID)
	assert.Equal(t, "pi_test_1", ev.PaymentIntentID)
	assert.Equal(t, int64(27000), ev.AmountTotal)
	assert.Equal(t, md, ev.Metadata)
}

func TestVerifyAsyncPaymentSucceeded(t *testing.T) {
	payload := eventPayload(t, "checkout.session.async_payment_succeeded", "paid", testMetadata(uuid.New()).Encode())
	ev, err := newTestVerifier().Verify(payload, sign(payload, testSecret, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", ev.SessionID)
}

func TestVerifyRejectsBadSignatures(t *testing.T) {
	payload := eventPayload(t, "checkout.session.completed", "paid", testMetadata(uuid.New()).Encode())
	tampered := eventPayload(t, "checkout.session.completed", "paid", testMetadata(uuid.New()).Encode())

	tests := []struct {
		name   string
		body   []byte
		header string
		secret string
	}{
		{"missing header", payload, "", testSecret},
		{"missing secret", payload, sign(payload, testSecret, time.Now()), ""},
		{"wrong secret", payload, sign(payload, "whsec_other", time.Now()), testSecret},
		{"body changed after signing", tampered, sign(payload, testSecret, time.Now()), testSecret},
		{"garbage header", payload, "not-a-signature", testSecret},
		{"stale timestamp", payload, sign(payload, testSecret, time.Now().Add(-time.Hour)), testSecret},
		{"unparseable body", []byte("{not json"), "t=1,v1=deadbeef", testSecret},
	}
	v := newTestVerifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := v.VerifyWithSecret(tt.body, tt.header, tt.secret)
			assert.Nil(t, ev)
			assert.ErrorIs(t, err, types.ErrInvalidSignature)
		})
	}
}

func TestVerifyUsesConfiguredSecret(t *testing.T) {
	cfg := testConfig()
	cfg.StripeWebhookSecret = ""
	v := NewVerifier(cfg, zap.NewNop())
	payload := eventPayload(t, "checkout.session.completed", "paid", testMetadata(uuid.New()).Encode())

	_, err := v.Verify(payload, sign(payload, testSecret, time.Now()))
	assert.ErrorIs(t, err, types.ErrInvalidSignature)
}

func TestVerifyUnsupportedEvents(t *testing.T) {
	v := newTestVerifier()
	md := testMetadata(uuid.New()).Encode()

	other := eventPayload(t, "payment_intent.succeeded", "paid", md)
	_, err := v.Verify(other, sign(other, testSecret, time.Now()))
	assert.ErrorIs(t, err, types.ErrUnsupportedEvent)

	unpaid := eventPayload(t, "checkout.session.completed", "unpaid", md)
	_, err = v.Verify(unpaid, sign(unpaid, testSecret, time.Now()))
	assert.ErrorIs(t, err, types.ErrUnsupportedEvent)
}

func TestVerifyCorruptMetadata(t *testing.T) {
	md := testMetadata(uuid.New()).Encode()
	delete(md, "hotelRoom")
	payload := eventPayload(t, "checkout.session.completed", "paid", md)

	_, err := newTestVerifier().Verify(payload, sign(payload, testSecret, time.Now()))
	assert.ErrorIs(t, err, types.ErrCorruptMetadata)
}

func TestVerifySignedMalformedBody(t *testing.T) {
	payload := []byte(`{"id": "evt_1", "type": `)
	_, err := newTestVerifier().Verify(payload, sign(payload, testSecret, time.Now()))
	assert.ErrorIs(t, err, types.ErrCorruptMetadata)
}

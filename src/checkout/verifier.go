package checkout

import (
	"encoding/json"
	"fmt"
	"hotelbooking/src/config"
	"hotelbooking/src/types"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
)

// VerifiedEvent is a completed payment whose signature has been checked.
type VerifiedEvent struct {
	EventID         string
	Type            string
	SessionID       string
	PaymentIntentID string
	AmountTotal     int64
	RawMetadata     map[string]string
	Metadata        *PaymentSessionMetadata
}

type Verifier struct {
	secret    string
	tolerance time.Duration
	logger    *zap.Logger
}

func NewVerifier(cfg *config.Config, logger *zap.Logger) *Verifier {
	return &Verifier{
		secret:    cfg.StripeWebhookSecret,
		tolerance: webhook.DefaultTolerance,
		logger:    logger,
	}
}

func (v *Verifier) Verify(rawBody []byte, signatureHeader string) (*VerifiedEvent, error) {
	return v.VerifyWithSecret(rawBody, signatureHeader, v.secret)
}

// VerifyWithSecret checks the signature over the raw body before anything
// is parsed.
func (v *Verifier) VerifyWithSecret(rawBody []byte, signatureHeader, secret string) (*VerifiedEvent, error) {
	if signatureHeader == "" || secret == "" {
		return nil, types.ErrInvalidSignature
	}
	if err := webhook.ValidatePayloadWithTolerance(rawBody, signatureHeader, secret, v.tolerance); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidSignature, err)
	}

	var event stripe.Event
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, fmt.Errorf("%w: malformed event envelope", types.ErrCorruptMetadata)
	}
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedEvent, event.Type)
	}
	if event.Data == nil {
		return nil, fmt.Errorf("%w: event has no data", types.ErrCorruptMetadata)
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("%w: malformed checkout session", types.ErrCorruptMetadata)
	}
	if cs.ID == "" {
		return nil, fmt.Errorf("%w: checkout session has no id", types.ErrCorruptMetadata)
	}
	// Delayed payment methods complete the session before the money arrives;
	// those bookings are committed on checkout.session.async_payment_succeeded.
	if event.Type == stripe.EventTypeCheckoutSessionCompleted &&
		cs.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid &&
		cs.PaymentStatus != stripe.CheckoutSessionPaymentStatusNoPaymentRequired {
		v.logger.Info("checkout session completed without payment",
			zap.String("session", cs.ID),
			zap.String("payment_status", string(cs.PaymentStatus)),
		)
		return nil, fmt.Errorf("%w: payment status %s", types.ErrUnsupportedEvent, cs.PaymentStatus)
	}

	md, err := ParseMetadata(cs.Metadata)
	if err != nil {
		v.logger.Error("paid session carries unusable metadata",
			zap.String("event", event.ID),
			zap.String("session", cs.ID),
			zap.Error(err),
		)
		return nil, err
	}

	ev := &VerifiedEvent{
		EventID:     event.ID,
		Type:        string(event.Type),
		SessionID:   cs.ID,
		AmountTotal: cs.AmountTotal,
		RawMetadata: cs.Metadata,
		Metadata:    md,
	}
	if cs.PaymentIntent != nil {
		ev.PaymentIntentID = cs.PaymentIntent.ID
	}
	return ev, nil
}

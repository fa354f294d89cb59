package lib

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

// CheckoutRequest describes a hosted checkout for a single line item.
type CheckoutRequest struct {
	ProductName       string
	AmountMinor       int64
	Currency          string
	CustomerEmail     string
	ClientReferenceID string
	SuccessURL        string
	CancelURL         string
	Metadata          map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentProvider opens hosted payment sessions.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req *CheckoutRequest) (*CheckoutSession, error)
}

type StripeProvider struct {
	client *stripe.Client
	logger *zap.Logger
}

func NewStripeProvider(apiKey string, logger *zap.Logger) *StripeProvider {
	return &StripeProvider{client: stripe.NewClient(apiKey), logger: logger}
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req *CheckoutRequest) (*CheckoutSession, error) {
	if req.AmountMinor < 0 {
		return nil, errors.New("checkout amount must not be negative")
	}
	params := &stripe.CheckoutSessionCreateParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		UIMode:            stripe.String("hosted"),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.ClientReferenceID),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.AmountMinor),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ProductName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionCreatePaymentIntentDataParams{
			Metadata: req.Metadata,
		},
		Metadata: req.Metadata,
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	cs, err := p.client.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) {
			p.logger.Warn("stripe rejected checkout session",
				zap.String("type", string(serr.Type)),
				zap.String("code", string(serr.Code)),
				zap.Int("status", serr.HTTPStatusCode),
			)
		}
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	p.logger.Debug("checkout session created", zap.String("session", cs.ID))
	return &CheckoutSession{ID: cs.ID, URL: cs.URL}, nil
}

// Package checkout turns booking requests into paid bookings: it opens hosted
// payment sessions, verifies provider callbacks and commits the booking once
// the payment has gone through.
package checkout

import (
	"context"
	"fmt"
	"hotelbooking/src/config"
	"hotelbooking/src/lib"
	"hotelbooking/src/pricing"
	"hotelbooking/src/store"
	"hotelbooking/src/types"
	"strings"

	"go.uber.org/zap"
)

type SessionHandle struct {
	ID  string
	URL string
}

// Initiator opens payment sessions. It never writes to the store.
type Initiator struct {
	cfg      *config.Config
	store    store.AvailabilityStore
	provider lib.PaymentProvider
	logger   *zap.Logger
}

func NewInitiator(cfg *config.Config, s store.AvailabilityStore, provider lib.PaymentProvider, logger *zap.Logger) *Initiator {
	return &Initiator{cfg: cfg, store: s, provider: provider, logger: logger}
}

// CreateSession prices the stay and opens a payment session for it. email
// prefills the payment page when the identity provider supplied one.
func (i *Initiator) CreateSession(ctx context.Context, req *types.BookingRequest, userID, email string) (*SessionHandle, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, types.ErrUnauthenticated
	}
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", types.ErrInvalidRequest)
	}
	stay, err := req.Validate()
	if err != nil {
		return nil, err
	}

	sctx, cancel := context.WithTimeout(ctx, i.cfg.StoreTimeout)
	room, err := i.store.FetchRoom(sctx, stay.RoomID)
	cancel()
	if err != nil {
		return nil, err
	}
	if !room.Available {
		return nil, fmt.Errorf("room %s: %w", room.ID, types.ErrRoomUnavailable)
	}

	total := pricing.ToMinorUnits(pricing.ComputeTotal(room.Price, room.DiscountPercent, stay.Nights))
	md := NewMetadata(stay, userID, room.DiscountPercent, total)

	pctx, cancel := context.WithTimeout(ctx, i.cfg.ProviderTimeout)
	defer cancel()
	cs, err := i.provider.CreateCheckoutSession(pctx, &lib.CheckoutRequest{
		ProductName:       room.Name,
		AmountMinor:       total,
		Currency:          i.cfg.Currency,
		CustomerEmail:     strings.TrimSpace(email),
		ClientReferenceID: userID,
		SuccessURL:        i.cfg.SuccessURL(),
		CancelURL:         i.cfg.CancelURL(),
		Metadata:          md.Encode(),
	})
	if err != nil {
		i.logger.Warn("payment session not created",
			zap.String("room", room.ID.String()),
			zap.String("user", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %s", types.ErrUpstreamUnavailable, err)
	}

	i.logger.Info("payment session opened",
		zap.String("session", cs.ID),
		zap.String("room", room.ID.String()),
		zap.Int64("amount", total),
	)
	return &SessionHandle{ID: cs.ID, URL: cs.URL}, nil
}

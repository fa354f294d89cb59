package checkout

import (
	"context"
	"errors"
	"fmt"
	"hotelbooking/src/config"
	"hotelbooking/src/lib"
	"hotelbooking/src/lib/mailer"
	"hotelbooking/src/models"
	"hotelbooking/src/store"
	"hotelbooking/src/types"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommitResult struct {
	BookingID uuid.UUID
	// Duplicate is set when the session had already been committed.
	Duplicate bool
}

func sessionLockKey(sessionID string) string {
	return "checkout:session:" + sessionID
}

func roomLockKey(roomID uuid.UUID) string {
	return "room:" + roomID.String()
}

// Committer turns a verified payment into exactly one booking and marks the
// room as taken.
type Committer struct {
	cfg      *config.Config
	store    store.AvailabilityStore
	locker   lib.Locker
	notifier mailer.Notifier
	logger   *zap.Logger
	pending  sync.WaitGroup
}

func NewCommitter(cfg *config.Config, s store.AvailabilityStore, locker lib.Locker, notifier mailer.Notifier, logger *zap.Logger) *Committer {
	if notifier == nil {
		notifier = mailer.NopNotifier{}
	}
	return &Committer{cfg: cfg, store: s, locker: locker, notifier: notifier, logger: logger}
}

func (c *Committer) Commit(ctx context.Context, ev *VerifiedEvent) (*CommitResult, error) {
	if ev == nil || ev.SessionID == "" {
		return nil, fmt.Errorf("%w: event has no session", types.ErrCorruptMetadata)
	}
	md := ev.Metadata
	if md == nil {
		parsed, err := ParseMetadata(ev.RawMetadata)
		if err != nil {
			c.logger.Error("cannot commit session with corrupt metadata",
				zap.String("session", ev.SessionID),
				zap.Error(err),
			)
			return nil, err
		}
		md = parsed
	}
	log := c.logger.With(zap.String("session", ev.SessionID), zap.String("event", ev.EventID))

	lctx, cancel := context.WithTimeout(ctx, c.cfg.StoreTimeout)
	unlock, err := c.locker.Lock(lctx, sessionLockKey(ev.SessionID))
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrStoreUnavailable, err)
	}
	defer unlock()

	existing, err := c.findBySession(ctx, ev.SessionID)
	if err == nil {
		log.Info("duplicate delivery, booking already exists", zap.String("booking", existing.ID.String()))
		return c.repair(ctx, existing)
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	if ev.AmountTotal > 0 && ev.AmountTotal != md.TotalPrice {
		log.Warn("charged amount differs from session metadata",
			zap.Int64("charged", ev.AmountTotal),
			zap.Int64("metadata", md.TotalPrice),
		)
	}

	booking := md.Booking(ev.SessionID, ev.PaymentIntentID)
	sctx, cancel := context.WithTimeout(ctx, c.cfg.StoreTimeout)
	err = c.store.CreateBooking(sctx, booking)
	cancel()
	if err != nil {
		switch {
		case errors.Is(err, types.ErrDuplicateBooking):
			// Another worker committed the session after its lock lease ran out.
			existing, ferr := c.findBySession(ctx, ev.SessionID)
			if ferr != nil {
				return nil, ferr
			}
			return c.repair(ctx, existing)
		case errors.Is(err, types.ErrNotFound):
			log.Error("payment captured for a room that does not exist",
				zap.String("room", md.RoomID.String()),
				zap.String("user", md.UserID),
				zap.String("payment_intent", ev.PaymentIntentID),
			)
		}
		return nil, err
	}

	if err := markRoomUnavailable(ctx, c.locker, c.store, booking.RoomID, c.cfg.StoreTimeout); err != nil {
		log.Error("booking created but room is still available",
			zap.String("booking", booking.ID.String()),
			zap.String("room", booking.RoomID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	log.Info("booking committed",
		zap.String("booking", booking.ID.String()),
		zap.String("room", booking.RoomID.String()),
	)
	c.notify(*booking)
	return &CommitResult{BookingID: booking.ID}, nil
}

func (c *Committer) findBySession(ctx context.Context, sessionID string) (*models.Booking, error) {
	sctx, cancel := context.WithTimeout(ctx, c.cfg.StoreTimeout)
	defer cancel()
	return c.store.FindBookingBySession(sctx, sessionID)
}

// repair re-applies the room patch for an existing booking so a redelivery
// finishes a commit that stopped after the insert.
func (c *Committer) repair(ctx context.Context, booking *models.Booking) (*CommitResult, error) {
	if err := markRoomUnavailable(ctx, c.locker, c.store, booking.RoomID, c.cfg.StoreTimeout); err != nil {
		c.logger.Error("could not repair room availability",
			zap.String("booking", booking.ID.String()),
			zap.String("room", booking.RoomID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return &CommitResult{BookingID: booking.ID, Duplicate: true}, nil
}

func (c *Committer) notify(booking models.Booking) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.ProviderTimeout)
		defer cancel()
		user, err := c.store.FetchUser(ctx, booking.UserID)
		if err != nil {
			c.logger.Debug("no user record for confirmation email", zap.String("user", booking.UserID), zap.Error(err))
			return
		}
		room, err := c.store.FetchRoom(ctx, booking.RoomID)
		if err != nil {
			room = nil
		}
		if err := c.notifier.BookingConfirmed(ctx, user, room, &booking); err != nil {
			c.logger.Warn("confirmation email not sent", zap.String("booking", booking.ID.String()), zap.Error(err))
		}
	}()
}

// Wait blocks until queued confirmation emails are done.
func (c *Committer) Wait() {
	c.pending.Wait()
}

func markRoomUnavailable(ctx context.Context, locker lib.Locker, s store.AvailabilityStore, roomID uuid.UUID, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	unlock, err := locker.Lock(ctx, roomLockKey(roomID))
	if err != nil {
		return fmt.Errorf("%w: %s", types.ErrStoreUnavailable, err)
	}
	defer unlock()
	return s.PatchRoomAvailability(ctx, roomID, false)
}

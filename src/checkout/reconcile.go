package checkout

import (
	"context"
	"hotelbooking/src/config"
	"hotelbooking/src/lib"
	"hotelbooking/src/store"
	"time"

	"go.uber.org/zap"
)

const reconcileBatch = 100

// Reconciler finds bookings whose room was never marked unavailable and
// patches the room. It covers commits that stopped between the insert and the
// room patch and were never redelivered.
type Reconciler struct {
	cfg    *config.Config
	store  store.AvailabilityStore
	locker lib.Locker
	logger *zap.Logger
	now    func() time.Time
}

func NewReconciler(cfg *config.Config, s store.AvailabilityStore, locker lib.Locker, logger *zap.Logger) *Reconciler {
	return &Reconciler{cfg: cfg, store: s, locker: locker, logger: logger, now: time.Now}
}

func (r *Reconciler) Reconcile(ctx context.Context) (int, error) {
	cutoff := r.now().Add(-r.cfg.ReconcileGrace)
	sctx, cancel := context.WithTimeout(ctx, r.cfg.StoreTimeout)
	bookings, err := r.store.ListUnreconciledBookings(sctx, cutoff, reconcileBatch)
	cancel()
	if err != nil {
		return 0, err
	}

	repaired := 0
	var firstErr error
	for _, b := range bookings {
		if err := markRoomUnavailable(ctx, r.locker, r.store, b.RoomID, r.cfg.StoreTimeout); err != nil {
			r.logger.Error("reconcile: room patch failed",
				zap.String("booking", b.ID.String()),
				zap.String("room", b.RoomID.String()),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		r.logger.Warn("reconcile: room marked unavailable for existing booking",
			zap.String("booking", b.ID.String()),
			zap.String("room", b.RoomID.String()),
		)
		repaired++
	}
	return repaired, firstErr
}

// Run is the scheduled entry point.
func (r *Reconciler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.ReconcileInterval)
	defer cancel()
	n, err := r.Reconcile(ctx)
	if err != nil {
		r.logger.Error("reconcile run failed", zap.Int("repaired", n), zap.Error(err))
		return
	}
	if n > 0 {
		r.logger.Info("reconcile run finished", zap.Int("repaired", n))
	}
}

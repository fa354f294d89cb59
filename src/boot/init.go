package boot

import (
	"context"
	"fmt"
	"hotelbooking/src/checkout"
	"hotelbooking/src/config"
	"hotelbooking/src/db"
	"hotelbooking/src/lib"
	awslib "hotelbooking/src/lib/aws"
	"hotelbooking/src/lib/mailer"
	"hotelbooking/src/middlewares"
	"hotelbooking/src/models"
	"hotelbooking/src/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func InitDb(cfg *config.Config) (*gorm.DB, error) {
	gdb, err := db.GetDb(cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Booking{},
	); err != nil {
		return nil, fmt.Errorf("error migration: %w", err)
	}
	return gdb, nil
}

func InitStore(cfg *config.Config, logger *zap.Logger) (store.AvailabilityStore, error) {
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("using in-memory store, bookings will not survive a restart")
		return store.NewMemoryStore(), nil
	case "postgres":
		gdb, err := InitDb(cfg)
		if err != nil {
			return nil, err
		}
		return store.NewGormStore(gdb), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func InitLocker(ctx context.Context, cfg *config.Config, logger *zap.Logger) (lib.Locker, error) {
	switch cfg.Locker {
	case "local":
		return lib.NewLocalLocker(), nil
	case "redis":
		rdb, err := lib.GetRedisClient(cfg.RedisHost)
		if err != nil {
			return nil, err
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("[redis] ping failed: %w", err)
		}
		return lib.NewRedisLocker(rdb, cfg.LockTTL, logger), nil
	default:
		return nil, fmt.Errorf("unknown LOCKER %q", cfg.Locker)
	}
}

func InitNotifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) (mailer.Notifier, error) {
	switch cfg.Mailer {
	case "", "none":
		return mailer.NopNotifier{}, nil
	case "smtp":
		c, err := lib.GetSMTPClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
		if err != nil {
			return nil, err
		}
		return mailer.NewSMTPNotifier(c, cfg.MailFrom, cfg.Currency, logger), nil
	case "ses":
		c, err := awslib.GetSESClient(ctx)
		if err != nil {
			return nil, err
		}
		return mailer.NewSESNotifier(c, cfg.MailFrom, cfg.Currency, logger), nil
	default:
		return nil, fmt.Errorf("unknown MAILER %q", cfg.Mailer)
	}
}

// InitIdentity returns the middleware that authenticates guests.
func InitIdentity(ctx context.Context, cfg *config.Config, logger *zap.Logger) (gin.HandlerFunc, error) {
	switch cfg.IdentityProvider {
	case "jwt":
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required for the jwt identity provider")
		}
		return middlewares.AuthMiddleware([]byte(cfg.JWTSecret), logger), nil
	case "firebase":
		fauth, err := lib.GetFirebaseAuth(ctx, cfg.SecretsDir)
		if err != nil {
			return nil, err
		}
		return middlewares.VerifyIdToken(fauth, logger), nil
	default:
		return nil, fmt.Errorf("unknown IDENTITY_PROVIDER %q", cfg.IdentityProvider)
	}
}

// InitScheduler starts the reconciliation job.
func InitScheduler(cfg *config.Config, reconciler *checkout.Reconciler, logger *zap.Logger) error {
	if cfg.ReconcileInterval <= 0 {
		logger.Info("reconciliation disabled")
		return nil
	}
	id, err := lib.CreateIntervalJob("reconcile-room-availability", cfg.ReconcileInterval, reconciler.Run)
	if err != nil {
		return err
	}
	sched, err := lib.GetScheduler()
	if err != nil {
		return err
	}
	sched.Start()
	logger.Info("scheduler started", zap.String("job", id), zap.Duration("interval", cfg.ReconcileInterval))
	return nil
}

func StopScheduler(logger *zap.Logger) {
	sched, err := lib.GetScheduler()
	if err != nil {
		return
	}
	if err := sched.Shutdown(); err != nil {
		logger.Warn("scheduler shutdown", zap.Error(err))
	}
}

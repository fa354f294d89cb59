package main

import (
	"context"
	"errors"
	"hotelbooking/src/boot"
	"hotelbooking/src/checkout"
	"hotelbooking/src/config"
	"hotelbooking/src/lib"
	"hotelbooking/src/middlewares"
	"hotelbooking/src/store"
	"hotelbooking/src/types"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"regexp"
	"syscall"
	"time"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	apiPrefix string = "/api/v1"
)

type server struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     store.AvailabilityStore
	initiator *checkout.Initiator
	verifier  *checkout.Verifier
	committer *checkout.Committer
	auth      gin.HandlerFunc
}

func setupRouter(s *server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middlewares.RequestLogger(s.logger), middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})

	if s.cfg.IsLocal() {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = []string{"GET", "POST", "HEAD", "OPTIONS"}
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		appHost := regexp.QuoteMeta(s.cfg.AppHost)
		cc.AllowOriginFunc = func(origin string) bool {
			match, _ := regexp.MatchString("^"+appHost+"$", origin)
			return match
		}
		cc.AllowCredentials = true
		router.Use(cors.New(cc))
	}

	registerValidators()
	router = maintenanceModeMiddleware(router, s.cfg.MaintenanceMode)

	s.roomRoutes(router)
	s.checkoutRoutes(router)
	s.stripeWebhookRoute(router)
	s.bookingRoutes(router)
	return router
}

func maintenanceModeMiddleware(g *gin.Engine, enabled bool) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		if enabled {
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "server is under maintenance"})
			return
		}
		ctx.Next()
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

// respondError writes the public form of err. Internal details only go to the log.
func (s *server) respondError(ctx *gin.Context, err error) {
	status := types.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
	}
	body := gin.H{"error": types.PublicMessage(err)}
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	ctx.AbortWithStatusJSON(status, body)
}

func initLogger(cfg *config.Config) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.IsLocal() {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}

	cwd, _ := os.Getwd()
	rotating := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path.Join(cwd, cfg.LogDir, "server.log"),
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), rotating, level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), level),
	)
	return zap.New(core, zap.AddCaller())
}

func main() {
	if os.Getenv("API_ENV") == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			log.Printf("no .env file loaded: %s\n", err.Error())
		}
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.AWSSecretID != "" {
		client, err := config.NewSecretsClient(ctx)
		if err != nil {
			log.Fatal(err)
		}
		if err := config.LoadSecrets(ctx, cfg, client); err != nil {
			log.Fatal(err)
		}
	}

	logger := initLogger(cfg)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := boot.InitStore(cfg, logger)
	if err != nil {
		logger.Fatal("store init failed", zap.Error(err))
	}
	locker, err := boot.InitLocker(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("locker init failed", zap.Error(err))
	}
	notifier, err := boot.InitNotifier(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("mailer init failed", zap.Error(err))
	}
	auth, err := boot.InitIdentity(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("identity init failed", zap.Error(err))
	}
	if cfg.StripeSecretKey == "" || cfg.StripeWebhookSecret == "" {
		logger.Warn("stripe credentials are not configured")
	}

	provider := lib.NewStripeProvider(cfg.StripeSecretKey, logger.Named("stripe"))
	committer := checkout.NewCommitter(cfg, st, locker, notifier, logger.Named("committer"))
	reconciler := checkout.NewReconciler(cfg, st, locker, logger.Named("reconciler"))
	if err := boot.InitScheduler(cfg, reconciler, logger); err != nil {
		logger.Fatal("scheduler init failed", zap.Error(err))
	}

	s := &server{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		initiator: checkout.NewInitiator(cfg, st, provider, logger.Named("initiator")),
		verifier:  checkout.NewVerifier(cfg, logger.Named("verifier")),
		committer: committer,
		auth:      auth,
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(s),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.APIEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	boot.StopScheduler(logger)
	committer.Wait()
}

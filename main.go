package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"DoctorsPortal/authorization"
	"DoctorsPortal/cache"
	"DoctorsPortal/config"
	"DoctorsPortal/controllers"
	"DoctorsPortal/db"
	"DoctorsPortal/jobs"
	"DoctorsPortal/metrics"
	"DoctorsPortal/middleware"
	"DoctorsPortal/migrations"
	"DoctorsPortal/notify"
	"DoctorsPortal/payments"
	"DoctorsPortal/routes"
	"DoctorsPortal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

// Options is everything startServer needs to bring the process up and down.
type Options struct {
	Port             string
	Engine           *gin.Engine
	MigrationEnabled bool
	MigrationHandler func(ctx context.Context) error
	JobsEnabled      bool
	JobsHandler      func() (*cron.Cron, error)
	// Shutdown releases the store, cache and pending notifications.
	Shutdown func(ctx context.Context)
}

var (
	startServer = serve
	connectDB   = func(ctx context.Context, cfg *config.Config) (db.Store, func(context.Context) error, error) {
		store, err := db.Connect(ctx, cfg.MongoURI, cfg.DBName)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Disconnect, nil
	}
	isTest = false
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error in loading the ENV")
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	store, disconnect, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	redisCache, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.CatalogCacheTTL)
	if err != nil {
		log.Println("Catalog cache disabled:", err)
		redisCache = nil
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	a := build(cfg, store, redisCache, registry)

	startServer(Options{
		Port:             cfg.Port,
		Engine:           a.engine,
		MigrationEnabled: !isTest,
		MigrationHandler: a.migrate,
		JobsEnabled:      cfg.JobsEnabled && !isTest,
		JobsHandler:      a.schedule,
		Shutdown: func(ctx context.Context) {
			a.dispatcher.Wait()
			if err := redisCache.Close(); err != nil {
				log.Println("Error while closing the cache:", err)
			}
			if err := disconnect(ctx); err != nil {
				log.Println("Error while disconnecting the store:", err)
			}
		},
	})
	return nil
}

type app struct {
	cfg        *config.Config
	store      db.Store
	catalog    *services.CatalogService
	metrics    *metrics.Metrics
	dispatcher *notify.Dispatcher
	limiter    *middleware.RateLimiter
	engine     *gin.Engine
}

/*
* Wire every dependency once and hand the same store to every service
* A nil cache disables catalog caching
 */
func build(cfg *config.Config, store db.Store, redisCache *cache.Redis, reg *prometheus.Registry) *app {
	m := metrics.New(reg)

	var sender notify.EmailSender = notify.StubEmailSender{}
	if cfg.EmailSenderAPIKey != "" {
		sender = notify.NewSendGridSender(cfg.EmailSenderAPIKey, cfg.EmailSender, cfg.EmailSenderName)
	}
	dispatcher := notify.NewDispatcher(sender, notify.Clinic{Address: cfg.ClinicAddress, UnsubscribeURL: cfg.UnsubscribeURL}, m)

	var catalogCache services.Cache
	if redisCache != nil {
		catalogCache = redisCache
	}
	catalog := services.NewCatalogService(store, catalogCache)
	tokens := authorization.NewTokens(cfg.AccessTokenSecret, cfg.TokenTTL)
	users := services.NewUserService(store, tokens)
	limiter := middleware.NewRateLimiter(cfg.TokenRateRPS, cfg.TokenRateBurst)

	deps := &controllers.Deps{
		Catalog:      catalog,
		Availability: services.NewAvailabilityService(store, catalog),
		Bookings:     services.NewBookingService(store, dispatcher, m),
		Users:        users,
		Doctors:      services.NewDoctorService(store),
		Payments:     services.NewPaymentService(payments.NewStripeGateway(cfg.StripeSecretKey), cfg.PaymentCurrency),
		Auth:         authorization.JWTAuth(tokens),
		Admin:        authorization.RequireAdmin(users),
		TokenLimit:   middleware.RateLimit(limiter),
		DefaultDate:  cfg.DefaultAvailableDate,
	}

	engine := routes.New(deps, routes.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	return &app{
		cfg:        cfg,
		store:      store,
		catalog:    catalog,
		metrics:    m,
		dispatcher: dispatcher,
		limiter:    limiter,
		engine:     engine,
	}
}

func (a *app) migrate(ctx context.Context) error {
	seeded, err := migrations.Run(ctx, a.store, true)
	if err != nil {
		return err
	}
	if seeded > 0 {
		if err := a.catalog.Invalidate(ctx); err != nil {
			log.Println("Error while invalidating the catalog cache:", err)
		}
	}
	return nil
}

func (a *app) schedule() (*cron.Cron, error) {
	return jobs.Start(
		jobs.Job{
			Name:     "reconcile-payments",
			Schedule: a.cfg.ReconcileSchedule,
			Run: func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()
				_, _ = jobs.ReconcilePayments(ctx, a.store, a.metrics)
			},
		},
		jobs.Job{
			Name:     "sweep-rate-limits",
			Schedule: "@every 10m",
			Run: func() {
				a.limiter.Sweep(30 * time.Minute)
			},
		},
	)
}

/*
* Run migrations and jobs, then serve until SIGINT or SIGTERM
* In-flight requests get ten seconds to finish
 */
func serve(opts Options) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.MigrationEnabled && opts.MigrationHandler != nil {
		mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := opts.MigrationHandler(mctx)
		cancel()
		if err != nil {
			log.Fatal("Migration failed:", err)
		}
	}
	var scheduler *cron.Cron
	if opts.JobsEnabled && opts.JobsHandler != nil {
		var err error
		scheduler, err = opts.JobsHandler()
		if err != nil {
			log.Fatal("Unable to start jobs:", err)
		}
	}

	srv := &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           opts.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Println("Doctors portal listening on port", opts.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server stopped:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("Error during server shutdown:", err)
	}
	if opts.Shutdown != nil {
		opts.Shutdown(shutdownCtx)
	}
}

// Command server runs the shopstream HTTP API.
//
// With no configuration it serves everything from memory. Setting
// SHOPSTREAM_POSTGRES_URL, SHOPSTREAM_REDIS_URL, or SHOPSTREAM_KAFKA_BROKERS
// switches the corresponding stores and the event sink to real backends.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	accounthandler "shopstream/internal/account/handler"
	accountservice "shopstream/internal/account/service"
	accountstore "shopstream/internal/account/store"
	carthandler "shopstream/internal/cart/handler"
	cartservice "shopstream/internal/cart/service"
	cartstore "shopstream/internal/cart/store"
	cataloghandler "shopstream/internal/catalog/handler"
	"shopstream/internal/events"
	giftcardhandler "shopstream/internal/giftcard/handler"
	giftcardservice "shopstream/internal/giftcard/service"
	giftcardstore "shopstream/internal/giftcard/store"
	"shopstream/internal/platform/config"
	"shopstream/internal/platform/httpserver"
	"shopstream/internal/platform/logger"
	"shopstream/internal/platform/metrics"
	"shopstream/internal/platform/middleware"
	platformredis "shopstream/internal/platform/redis"
	"shopstream/internal/platform/schema"
	purchasehandler "shopstream/internal/purchase/handler"
	purchaseservice "shopstream/internal/purchase/service"
	purchasestore "shopstream/internal/purchase/store"
	sessionhandler "shopstream/internal/session/handler"
	sessionservice "shopstream/internal/session/service"
	sessionstore "shopstream/internal/session/store"
	stockservice "shopstream/internal/stock/service"
	stockstore "shopstream/internal/stock/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Backends.
	var db *sql.DB
	if cfg.PostgresURL != "" {
		var err error
		db, err = sql.Open("pgx", cfg.PostgresURL)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		if err := db.PingContext(ctx); err != nil {
			log.Error("failed to ping postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		for _, stmt := range schema.Statements {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				log.Error("failed to apply schema", "error", err)
				os.Exit(1)
			}
		}
	}

	redisClient, err := platformredis.New(cfg.Redis())
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Stores.
	var (
		accounts  accountstore.Store  = accountstore.NewInMemory()
		stocks    stockstore.Store    = stockstore.NewInMemory()
		purchases purchasestore.Store = purchasestore.NewInMemory()
		giftcards giftcardstore.Store = giftcardstore.NewInMemory()
		runner    purchaseservice.Runner
	)
	if db != nil {
		accounts = accountstore.NewPostgres(db)
		stocks = stockstore.NewPostgres(db)
		purchases = purchasestore.NewPostgres(db)
		giftcards = giftcardstore.NewPostgres(db)
		runner = purchaseservice.NewSQLRunner(db)
	} else {
		runner = purchaseservice.NewShardedRunner()
	}

	var (
		sessions sessionstore.Store = sessionstore.NewInMemory()
		carts    cartstore.Store    = cartstore.NewInMemory()
	)
	if redisClient != nil {
		sessions = sessionstore.NewRedis(redisClient.Client)
		carts = cartstore.NewRedis(redisClient.Client, cfg.CartTTL)
	}

	// Event sink.
	var publisher events.Publisher = events.NewLogPublisher(log)
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(ctx, cfg.KafkaBrokers, log)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		publisher = kafka
	}
	defer publisher.Close()

	// Services.
	accountSvc := accountservice.New(accounts, log, m)
	stockSvc := stockservice.NewLedger(stocks, log)
	sessionSvc := sessionservice.New(sessions, accountSvc,
		sessionservice.NewTokenSigner(cfg.JWTSigningKey), cfg.SessionTTL, log)
	cartSvc := cartservice.New(carts, log)
	var purchaseOpts []purchaseservice.Option
	if cfg.LegacyPartialCheckout {
		log.Warn("legacy partial-commit checkout enabled")
		purchaseOpts = append(purchaseOpts, purchaseservice.WithLegacyPartialCheckout())
	}
	purchaseSvc := purchaseservice.New(accounts, stockSvc, purchases, cartSvc,
		runner, publisher, m, log, purchaseOpts...)
	giftcardSvc := giftcardservice.New(giftcards, log, m)

	// Router.
	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Latency(m))

	r.Get("/healthz", healthHandler(db, redisClient))

	r.Group(func(public chi.Router) {
		accounthandler.New(accountSvc, log).RegisterPublic(public)
		sessionhandler.New(sessionSvc, log).RegisterPublic(public)
		cataloghandler.New(stockSvc, log).Register(public)
	})
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireSession(sessionSvc, log))
		accounthandler.New(accountSvc, log).RegisterProtected(protected)
		sessionhandler.New(sessionSvc, log).RegisterProtected(protected)
		carthandler.New(cartSvc, log).Register(protected)
		purchasehandler.New(purchaseSvc, log).Register(protected)
		giftcardhandler.New(giftcardSvc, log).Register(protected)
	})

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	apiServer := httpserver.New(cfg.Addr, r)
	metricsServer := httpserver.New(cfg.MetricsAddr, metricsMux)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("api server listening", "addr", cfg.Addr)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("metrics server listening", "addr", cfg.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := apiServer.Shutdown(shutdownCtx)
		return errors.Join(err, metricsServer.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func healthHandler(db *sql.DB, redisClient *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				http.Error(w, `{"status":"postgres unavailable"}`, http.StatusServiceUnavailable)
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(ctx); err != nil {
				http.Error(w, `{"status":"redis unavailable"}`, http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/crypto/bcrypt"

	bookstoreserver "github.com/Apurer/go-gin-bookstore/go"

	bookobs "github.com/Apurer/go-gin-bookstore/internal/domains/books/adapters/observability"
	bookapp "github.com/Apurer/go-gin-bookstore/internal/domains/books/application"
	customercrypto "github.com/Apurer/go-gin-bookstore/internal/domains/customers/adapters/crypto"
	customerobs "github.com/Apurer/go-gin-bookstore/internal/domains/customers/adapters/observability"
	customerapp "github.com/Apurer/go-gin-bookstore/internal/domains/customers/application"
	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/adapters/messaging/kafka"
	purchaseobs "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/adapters/observability"
	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/adapters/subscribers"
	purchaseworkflows "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/adapters/workflows"
	purchaseapp "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/application"
	purchasedomain "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/domain"
	purchaseports "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/ports"
	"github.com/Apurer/go-gin-bookstore/internal/platform/events"
	platformobservability "github.com/Apurer/go-gin-bookstore/internal/platform/observability"
	platformtemporal "github.com/Apurer/go-gin-bookstore/internal/platform/temporal"
	apierrors "github.com/Apurer/go-gin-bookstore/internal/shared/errors"
)

const serviceName = "bookstore-api"

// Run boots the bookstore HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, closeDB := openDatabase(ctx, cfg, logger)
	defer closeDB()
	repos := buildRepositories(db, cfg)

	dispatcher := events.NewDispatcher(
		events.WithWorkers(cfg.NotificationWorkers),
		events.WithBufferSize(cfg.NotificationBuffer),
		events.WithLogger(logger),
		events.WithTracer(instruments.Tracer("internal.platform.events")),
		events.WithMeter(instruments.Meter("internal.platform.events")),
	)

	books := bookobs.New(
		bookapp.NewService(repos.books, repos.customers),
		bookobs.WithLogger(logger),
		bookobs.WithTracer(instruments.Tracer("internal.books.application")),
		bookobs.WithMeter(instruments.Meter("internal.books.application")),
	)
	customers := customerobs.New(
		customerapp.NewService(repos.customers, books, customercrypto.NewBcryptHasher(bcrypt.DefaultCost),
			customerapp.WithSessionStore(repos.sessions)),
		customerobs.WithLogger(logger),
		customerobs.WithTracer(instruments.Tracer("internal.customers.application")),
		customerobs.WithMeter(instruments.Meter("internal.customers.application")),
	)
	purchases := purchaseobs.New(
		purchaseapp.NewService(repos.purchases, customers, books, dispatcher, purchaseapp.WithIdempotencyStore(repos.keys)),
		purchaseobs.WithLogger(logger),
		purchaseobs.WithTracer(instruments.Tracer("internal.purchases.application")),
		purchaseobs.WithMeter(instruments.Meter("internal.purchases.application")),
	)

	closeSubscribers := subscribe(dispatcher, cfg, repos, books, purchases, instruments)
	defer closeSubscribers()
	dispatcher.Start(context.WithoutCancel(ctx))

	if err := bootstrapAdmin(ctx, cfg, customers, repos.customers, logger); err != nil {
		logger.Error("failed to bootstrap admin account", slog.String("error", err.Error()))
	}

	bookstoreserver.SetResponder(apierrors.NewResponder(logger))
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router := bookstoreserver.NewRouterWithGinEngine(engine, bookstoreserver.ApiHandleFunctions{
		AuthAPI:       bookstoreserver.NewAuthAPI(customers),
		CustomerAPI:   bookstoreserver.NewCustomerAPI(customers),
		BookAPI:       bookstoreserver.NewBookAPI(books),
		PurchaseAPI:   bookstoreserver.NewPurchaseAPI(purchases),
		AdminAPI:      bookstoreserver.NewAdminAPI(dispatcher),
		Gate:          bookstoreserver.NewGate(customers),
		PublicLimiter: bookstoreserver.NewRateLimiter(cfg.RegistrationRatePerMinute, 5),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("bookstore API listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("bookstore API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", slog.String("error", err.Error()))
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logger.Warn("notification dispatcher did not drain", slog.String("error", err.Error()))
	}
	logger.Info("bookstore API stopped", slog.Any("notifications", dispatcher.Stats()))
	return nil
}

// subscribe registers the purchase reactions and returns a cleanup for the clients they hold.
func subscribe(
	dispatcher *events.Dispatcher,
	cfg Config,
	repos repositories,
	books purchaseports.StockUpdater,
	purchases subscribers.PurchaseUpdater,
	instruments *platformobservability.Instruments,
) func() {
	logger := instruments.Logger
	var closers []func()

	var stock events.Subscriber = subscribers.NewStockUpdate(books)
	switch {
	case cfg.TemporalDisabled:
		logger.Info("Temporal disabled, stock updates run in-process")
	case !repos.durable:
		logger.Info("Temporal stock updates need postgres, running in-process")
	default:
		temporalClient, err := platformtemporal.Dial(platformtemporal.Options{
			Address:   cfg.TemporalAddress,
			Namespace: cfg.TemporalNamespace,
		}, instruments, "temporal-client")
		if err != nil {
			logger.Warn("Temporal unavailable, stock updates run in-process", slog.String("error", err.Error()))
			break
		}
		closers = append(closers, temporalClient.Close)
		stock = purchaseworkflows.NewTemporalStockUpdate(temporalClient)
		logger.Info("Temporal stock updates enabled", slog.String("namespace", cfg.TemporalNamespace))
	}
	dispatcher.Subscribe(purchasedomain.PurchaseCompletedEvent, "stock-update", stock)
	dispatcher.Subscribe(purchasedomain.PurchaseCompletedEvent, "invoice", subscribers.NewInvoice(purchases))

	if len(cfg.KafkaBrokers) > 0 {
		forwarder := kafka.NewForwarder(kafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
		dispatcher.Subscribe(purchasedomain.PurchaseCompletedEvent, "kafka-forwarder", forwarder)
		closers = append(closers, func() {
			if err := forwarder.Close(); err != nil {
				logger.Warn("failed to close kafka writer", slog.String("error", err.Error()))
			}
		})
		logger.Info("kafka forwarding enabled", slog.String("topic", cfg.KafkaTopic))
	}

	return func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}

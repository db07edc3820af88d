package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	bookpostgres "github.com/Apurer/go-gin-bookstore/internal/domains/books/adapters/persistence/postgres"
	bookapp "github.com/Apurer/go-gin-bookstore/internal/domains/books/application"
	purchaseactivities "github.com/Apurer/go-gin-bookstore/internal/durable/temporal/activities/purchases"
	purchaseworkflows "github.com/Apurer/go-gin-bookstore/internal/durable/temporal/workflows/purchases"
	platformobservability "github.com/Apurer/go-gin-bookstore/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-bookstore/internal/platform/postgres"
	platformtemporal "github.com/Apurer/go-gin-bookstore/internal/platform/temporal"
)

func main() {
	ctx := context.Background()
	const serviceName = "bookstore-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	// Stock updates must land in the same database the API reads from.
	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	if db == nil {
		logger.Error("worker requires POSTGRES_DSN")
		os.Exit(1)
	}
	books := bookapp.NewService(bookpostgres.NewRepository(db), nil)
	activities := purchaseactivities.NewActivities(books)

	namespace := envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace)
	temporalClient, err := platformtemporal.Dial(platformtemporal.Options{
		Address:   envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: namespace,
	}, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, purchaseworkflows.StockUpdateTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(purchaseworkflows.StockUpdateWorkflow, workflow.RegisterOptions{Name: purchaseworkflows.StockUpdateWorkflowName})
	w.RegisterActivityWithOptions(activities.MarkBooksSold, activity.RegisterOptions{Name: purchaseactivities.MarkBooksSoldActivityName})

	logger.Info("worker listening", slog.String("taskQueue", purchaseworkflows.StockUpdateTaskQueue), slog.String("namespace", namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

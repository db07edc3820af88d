package api

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	bookmemory "github.com/Apurer/go-gin-bookstore/internal/domains/books/adapters/memory"
	bookpostgres "github.com/Apurer/go-gin-bookstore/internal/domains/books/adapters/persistence/postgres"
	bookports "github.com/Apurer/go-gin-bookstore/internal/domains/books/ports"
	customermemory "github.com/Apurer/go-gin-bookstore/internal/domains/customers/adapters/memory"
	customerpostgres "github.com/Apurer/go-gin-bookstore/internal/domains/customers/adapters/persistence/postgres"
	customerdomain "github.com/Apurer/go-gin-bookstore/internal/domains/customers/domain"
	customerports "github.com/Apurer/go-gin-bookstore/internal/domains/customers/ports"
	purchasememory "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/adapters/memory"
	purchasepostgres "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/adapters/persistence/postgres"
	purchaseports "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/ports"
	"github.com/Apurer/go-gin-bookstore/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-bookstore/internal/platform/postgres"
)

// repositories bundles the storage adapters of every bounded context.
type repositories struct {
	customers customerports.Repository
	sessions  customerports.SessionStore
	books     bookports.Repository
	purchases purchaseports.Repository
	keys      purchaseports.IdempotencyStore
	durable   bool
}

// openDatabase connects and migrates PostgreSQL, or returns nil when no DSN is configured
// or the server is unreachable.
func openDatabase(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("schema migration failed, falling back to memory", slog.String("error", err.Error()))
		_ = sqlDB.Close()
		return nil, func() {}
	}
	logger.Info("repositories configured with postgres")
	return db, func() { _ = sqlDB.Close() }
}

func buildRepositories(db *gorm.DB, cfg Config) repositories {
	if db == nil {
		return repositories{
			customers: customermemory.NewRepository(),
			sessions:  customermemory.NewSessionStore(cfg.SessionTTL),
			books:     bookmemory.NewRepository(),
			purchases: purchasememory.NewRepository(),
			keys:      purchasememory.NewIdempotencyStore(),
		}
	}
	return repositories{
		customers: customerpostgres.NewRepository(db),
		sessions:  customerpostgres.NewSessionStore(db, cfg.SessionTTL),
		books:     bookpostgres.NewRepository(db),
		purchases: purchasepostgres.NewRepository(db),
		keys:      purchasepostgres.NewIdempotencyStore(db),
		durable:   true,
	}
}

// bootstrapAdmin makes sure the configured admin account exists and holds the ADMIN role.
func bootstrapAdmin(ctx context.Context, cfg Config, customers customerports.Service, repo customerports.Repository, logger *slog.Logger) error {
	if cfg.AdminEmail == "" {
		return nil
	}
	admin, err := repo.FindByEmail(ctx, cfg.AdminEmail)
	switch {
	case errors.Is(err, customerports.ErrNotFound):
		created, err := customers.CreateCustomer(ctx, &customerdomain.Customer{
			Name:     "Administrator",
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
		})
		if err != nil {
			return err
		}
		admin = created
	case err != nil:
		return err
	}
	if admin.IsAdmin() {
		return nil
	}
	admin.Grant(customerdomain.RoleAdmin)
	if _, err := repo.Save(ctx, admin); err != nil {
		return err
	}
	logger.Info("admin account ready", slog.Int64("customer_id", admin.ID))
	return nil
}

package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	purchasedomain "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/domain"
	purchaseports "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/ports"
)

const tracerName = "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/adapters/observability/service"

// Service decorates the purchase service with tracing, logging, and metrics.
type Service struct {
	inner   purchaseports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	created metric.Int64Counter
	revenue metric.Int64Counter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m == nil {
			return
		}
		s.created, _ = m.Int64Counter("purchases.service.created", metric.WithDescription("Number of purchases recorded"))
		s.revenue, _ = m.Int64Counter("purchases.service.revenue_cents", metric.WithDescription("Sum of purchase prices in cents"))
	}
}

// New wraps the core purchase service.
func New(inner purchaseports.Service, opts ...Option) purchaseports.Service {
	s := &Service{inner: inner}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) Checkout(ctx context.Context, req purchaseports.PurchaseRequest) (*purchasedomain.Purchase, error) {
	ctx, span := s.tracer.Start(ctx, "PurchaseService.Checkout", trace.WithAttributes(
		attribute.Int64("customer.id", req.CustomerID),
		attribute.Int64Slice("book.ids", req.BookIDs),
	))
	defer span.End()
	result, err := s.inner.Checkout(ctx, req)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "checkout failed", slog.Int64("customerId", req.CustomerID))
	}
	return result, nil
}

func (s *Service) CheckoutOnce(ctx context.Context, key string, req purchaseports.PurchaseRequest) (*purchasedomain.Purchase, error) {
	ctx, span := s.tracer.Start(ctx, "PurchaseService.CheckoutOnce", trace.WithAttributes(
		attribute.Int64("customer.id", req.CustomerID),
		attribute.Bool("idempotency.keyed", key != ""),
	))
	defer span.End()
	result, err := s.inner.CheckoutOnce(ctx, key, req)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "keyed checkout failed", slog.Int64("customerId", req.CustomerID))
	}
	return result, nil
}

func (s *Service) CreatePurchase(ctx context.Context, purchase *purchasedomain.Purchase) (*purchasedomain.Purchase, error) {
	ctx, span := s.tracer.Start(ctx, "PurchaseService.CreatePurchase", trace.WithAttributes(attribute.Int64("customer.id", purchase.CustomerID)))
	defer span.End()
	result, err := s.inner.CreatePurchase(ctx, purchase)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to record purchase", slog.Int64("customerId", purchase.CustomerID))
	}
	span.SetAttributes(attribute.Int64("purchase.id", result.ID))
	if s.created != nil {
		s.created.Add(ctx, 1)
		s.revenue.Add(ctx, result.Price)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "purchase recorded",
		slog.Int64("purchaseId", result.ID),
		slog.Int64("customerId", result.CustomerID),
		slog.Int("books", len(result.BookIDs)),
	)
	return result, nil
}

func (s *Service) Update(ctx context.Context, purchase *purchasedomain.Purchase) (*purchasedomain.Purchase, error) {
	ctx, span := s.tracer.Start(ctx, "PurchaseService.Update", trace.WithAttributes(attribute.Int64("purchase.id", purchase.ID)))
	defer span.End()
	result, err := s.inner.Update(ctx, purchase)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update purchase", slog.Int64("purchaseId", purchase.ID))
	}
	return result, nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (*purchasedomain.Purchase, error) {
	ctx, span := s.tracer.Start(ctx, "PurchaseService.FindByID", trace.WithAttributes(attribute.Int64("purchase.id", id)))
	defer span.End()
	result, err := s.inner.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return result, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]*purchasedomain.Purchase, error) {
	ctx, span := s.tracer.Start(ctx, "PurchaseService.ListByCustomer", trace.WithAttributes(attribute.Int64("customer.id", customerID)))
	defer span.End()
	result, err := s.inner.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list purchases", slog.Int64("customerId", customerID))
	}
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

var _ purchaseports.Service = (*Service)(nil)

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

	customerdomain "github.com/Apurer/go-gin-bookstore/internal/domains/customers/domain"
	customerports "github.com/Apurer/go-gin-bookstore/internal/domains/customers/ports"
)

const tracerName = "github.com/Apurer/go-gin-bookstore/internal/domains/customers/adapters/observability/service"

// Service decorates the customer service with tracing, logging, and metrics.
type Service struct {
	inner   customerports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core customer service.
func New(inner customerports.Service, opts ...Option) customerports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) GetCustomers(ctx context.Context, name *string) ([]*customerdomain.Customer, error) {
	attrs := []attribute.KeyValue{attribute.Bool("customer.filtered", name != nil)}
	ctx, span := s.tracer.Start(ctx, "CustomerService.GetCustomers", trace.WithAttributes(attrs...))
	defer span.End()
	result, err := s.inner.GetCustomers(ctx, name)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list customers")
	}
	span.SetAttributes(attribute.Int("customer.count", len(result)))
	return result, nil
}

func (s *Service) CreateCustomer(ctx context.Context, customer *customerdomain.Customer) (*customerdomain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.CreateCustomer")
	defer span.End()
	result, err := s.inner.CreateCustomer(ctx, customer)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create customer")
	}
	span.SetAttributes(attribute.Int64("customer.id", result.ID))
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "customer created", slog.Int64("customerId", result.ID))
	return result, nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (*customerdomain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.FindByID", trace.WithAttributes(attribute.Int64("customer.id", id)))
	defer span.End()
	result, err := s.inner.FindByID(ctx, id)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	return result, nil
}

func (s *Service) PutCustomer(ctx context.Context, customer *customerdomain.Customer) (*customerdomain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.PutCustomer", trace.WithAttributes(attribute.Int64("customer.id", customer.ID)))
	defer span.End()
	result, err := s.inner.PutCustomer(ctx, customer)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update customer", slog.Int64("customerId", customer.ID))
	}
	s.metrics.recordUpdated(ctx)
	return result, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CustomerService.DeleteCustomer", trace.WithAttributes(attribute.Int64("customer.id", id)))
	defer span.End()
	if err := s.inner.DeleteCustomer(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete customer", slog.Int64("customerId", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "customer deactivated", slog.Int64("customerId", id))
	return nil
}

func (s *Service) EmailAvailable(ctx context.Context, email string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.EmailAvailable")
	defer span.End()
	available, err := s.inner.EmailAvailable(ctx, email)
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to check email availability")
	}
	return available, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*customerdomain.Customer, string, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.Authenticate")
	defer span.End()
	customer, token, err := s.inner.Authenticate(ctx, email, password)
	if err != nil {
		recordSpanError(span, err)
		s.metrics.recordLoginFailure(ctx)
		s.logInfo(ctx, "login rejected", slog.String("reason", err.Error()))
		return nil, "", err
	}
	s.metrics.recordLogin(ctx)
	s.logInfo(ctx, "customer logged in", slog.Int64("customerId", customer.ID))
	return customer, token, nil
}

func (s *Service) ResolveSession(ctx context.Context, token string) (*customerdomain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.ResolveSession")
	defer span.End()
	customer, err := s.inner.ResolveSession(ctx, token)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("customer.id", customer.ID))
	return customer, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "CustomerService.Logout")
	defer span.End()
	if err := s.inner.Logout(ctx, token); err != nil {
		return s.handleError(ctx, span, err, "failed to logout")
	}
	return nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	recordSpanError(span, err)
	s.logError(ctx, msg, err, attrs...)
	return err
}

func recordSpanError(span trace.Span, err error) {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

type serviceMetrics struct {
	created       metric.Int64Counter
	updated       metric.Int64Counter
	deleted       metric.Int64Counter
	logins        metric.Int64Counter
	loginFailures metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("customers.service.created", metric.WithDescription("Number of customers registered"))
	updated, _ := m.Int64Counter("customers.service.updated", metric.WithDescription("Number of customers updated"))
	deleted, _ := m.Int64Counter("customers.service.deleted", metric.WithDescription("Number of customers deactivated"))
	logins, _ := m.Int64Counter("customers.service.logins", metric.WithDescription("Number of successful logins"))
	failures, _ := m.Int64Counter("customers.service.login_failures", metric.WithDescription("Number of rejected logins"))
	return serviceMetrics{created: created, updated: updated, deleted: deleted, logins: logins, loginFailures: failures}
}

func (m serviceMetrics) recordCreated(ctx context.Context)      { add(ctx, m.created) }
func (m serviceMetrics) recordUpdated(ctx context.Context)      { add(ctx, m.updated) }
func (m serviceMetrics) recordDeleted(ctx context.Context)      { add(ctx, m.deleted) }
func (m serviceMetrics) recordLogin(ctx context.Context)        { add(ctx, m.logins) }
func (m serviceMetrics) recordLoginFailure(ctx context.Context) { add(ctx, m.loginFailures) }

func add(ctx context.Context, counter metric.Int64Counter) {
	if counter != nil {
		counter.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ customerports.Service = (*Service)(nil)

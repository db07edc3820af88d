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

	bookdomain "github.com/Apurer/go-gin-bookstore/internal/domains/books/domain"
	bookports "github.com/Apurer/go-gin-bookstore/internal/domains/books/ports"
	"github.com/Apurer/go-gin-bookstore/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/go-gin-bookstore/internal/domains/books/adapters/observability/service"

// Service decorates the book service with tracing, logging, and metrics.
type Service struct {
	inner   bookports.Service
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

// New wraps the core book service.
func New(inner bookports.Service, opts ...Option) bookports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
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
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) Create(ctx context.Context, book *bookdomain.Book) (*bookdomain.Book, error) {
	ctx, span := s.tracer.Start(ctx, "BookService.Create", trace.WithAttributes(attribute.Int64("customer.id", book.CustomerID)))
	defer span.End()
	result, err := s.inner.Create(ctx, book)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create book", slog.Int64("customerId", book.CustomerID))
	}
	s.metrics.add(ctx, s.metrics.created)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "book created", slog.Int64("bookId", result.ID), slog.Int64("customerId", result.CustomerID))
	return result, nil
}

func (s *Service) FindAll(ctx context.Context, page pagination.Pageable) (pagination.Page[*bookdomain.Book], error) {
	ctx, span := s.tracer.Start(ctx, "BookService.FindAll", trace.WithAttributes(attribute.Int("page.number", page.Page)))
	defer span.End()
	result, err := s.inner.FindAll(ctx, page)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list books")
	}
	return result, nil
}

func (s *Service) FindActives(ctx context.Context, page pagination.Pageable) (pagination.Page[*bookdomain.Book], error) {
	ctx, span := s.tracer.Start(ctx, "BookService.FindActives", trace.WithAttributes(attribute.Int("page.number", page.Page)))
	defer span.End()
	result, err := s.inner.FindActives(ctx, page)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list active books")
	}
	return result, nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (*bookdomain.Book, error) {
	ctx, span := s.tracer.Start(ctx, "BookService.FindByID", trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()
	result, err := s.inner.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return result, nil
}

func (s *Service) Update(ctx context.Context, id int64, changes bookports.BookChanges) (*bookdomain.Book, error) {
	ctx, span := s.tracer.Start(ctx, "BookService.Update", trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()
	result, err := s.inner.Update(ctx, id, changes)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update book", slog.Int64("bookId", id))
	}
	s.metrics.add(ctx, s.metrics.updated)
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "BookService.Delete", trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete book", slog.Int64("bookId", id))
	}
	s.metrics.add(ctx, s.metrics.deleted)
	return nil
}

func (s *Service) DeleteByCustomer(ctx context.Context, customerID int64) error {
	ctx, span := s.tracer.Start(ctx, "BookService.DeleteByCustomer", trace.WithAttributes(attribute.Int64("customer.id", customerID)))
	defer span.End()
	if err := s.inner.DeleteByCustomer(ctx, customerID); err != nil {
		return s.handleError(ctx, span, err, "failed to delete customer books", slog.Int64("customerId", customerID))
	}
	return nil
}

func (s *Service) FindAllByIDs(ctx context.Context, ids []int64) ([]*bookdomain.Book, error) {
	ctx, span := s.tracer.Start(ctx, "BookService.FindAllByIDs", trace.WithAttributes(attribute.Int64Slice("book.ids", ids)))
	defer span.End()
	result, err := s.inner.FindAllByIDs(ctx, ids)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load books")
	}
	return result, nil
}

func (s *Service) Purchase(ctx context.Context, books []*bookdomain.Book) error {
	ctx, span := s.tracer.Start(ctx, "BookService.Purchase", trace.WithAttributes(attribute.Int("book.count", len(books))))
	defer span.End()
	if err := s.inner.Purchase(ctx, books); err != nil {
		return s.handleError(ctx, span, err, "failed to mark books sold")
	}
	s.metrics.addN(ctx, s.metrics.sold, int64(len(books)))
	s.logger.LogAttrs(ctx, slog.LevelInfo, "books marked sold", slog.Int("count", len(books)))
	return nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

type serviceMetrics struct {
	created metric.Int64Counter
	updated metric.Int64Counter
	deleted metric.Int64Counter
	sold    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("books.service.created", metric.WithDescription("Number of books listed"))
	updated, _ := m.Int64Counter("books.service.updated", metric.WithDescription("Number of books updated"))
	deleted, _ := m.Int64Counter("books.service.deleted", metric.WithDescription("Number of books deleted"))
	sold, _ := m.Int64Counter("books.service.sold", metric.WithDescription("Number of books marked sold"))
	return serviceMetrics{created: created, updated: updated, deleted: deleted, sold: sold}
}

func (serviceMetrics) add(ctx context.Context, counter metric.Int64Counter) {
	if counter != nil {
		counter.Add(ctx, 1)
	}
}

func (serviceMetrics) addN(ctx context.Context, counter metric.Int64Counter, n int64) {
	if counter != nil && n > 0 {
		counter.Add(ctx, n)
	}
}

var _ bookports.Service = (*Service)(nil)

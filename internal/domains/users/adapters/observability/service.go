package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	userdomain "github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-demo-server/internal/domains/users/ports"
)

const tracerName = "github.com/Apurer/go-gin-demo-server/internal/domains/users/adapters/observability/service"

// Service decorates the user service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
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

// New wraps the core user service.
func New(inner userports.Service, opts ...Option) userports.Service {
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

func (s *Service) SaveOrUpdate(ctx context.Context, user *userdomain.User) (*userdomain.User, error) {
	var id int64
	if user != nil {
		id = user.ID
	}
	ctx, span := s.tracer.Start(ctx, "UserService.SaveOrUpdate", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()
	s.logInfo(ctx, "saving user", slog.Int64("user.id", id))
	result, err := s.inner.SaveOrUpdate(ctx, user)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to save user", slog.Int64("user.id", id))
	}
	s.metrics.recordSaved(ctx)
	s.logInfo(ctx, "user saved", slog.Int64("user.id", result.ID), slog.String("username", result.Username))
	return result, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Get", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()
	user, err := s.inner.Get(ctx, id)
	if errors.Is(err, userports.ErrNotFound) {
		span.SetAttributes(attribute.Bool("user.found", false))
		return nil, err
	}
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get user", slog.Int64("user.id", id))
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Delete", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete user", slog.Int64("user.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "user deleted", slog.Int64("user.id", id))
	return nil
}

func (s *Service) List(ctx context.Context) ([]*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.List")
	defer span.End()
	users, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list users")
	}
	span.SetAttributes(attribute.Int("user.count", len(users)))
	return users, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
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
	usersSaved   metric.Int64Counter
	usersDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	saved, _ := m.Int64Counter("users.service.saved", metric.WithDescription("Number of users saved or updated"))
	deleted, _ := m.Int64Counter("users.service.deleted", metric.WithDescription("Number of users deleted"))
	return serviceMetrics{usersSaved: saved, usersDeleted: deleted}
}

func (m serviceMetrics) recordSaved(ctx context.Context) {
	if m.usersSaved != nil {
		m.usersSaved.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.usersDeleted != nil {
		m.usersDeleted.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ userports.Service = (*Service)(nil)

package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Apurer/go-gin-demo-server/internal/domains/users/adapters/memory"
	"github.com/Apurer/go-gin-demo-server/internal/domains/users/application"
	userdomain "github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-demo-server/internal/domains/users/ports"
)

type harness struct {
	svc    userports.Service
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *bytes.Buffer
}

func newHarness() harness {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	logs := &bytes.Buffer{}
	svc := New(
		application.NewService(memory.NewRepository()),
		WithTracer(tp.Tracer("test")),
		WithMeter(mp.Meter("test")),
		WithLogger(slog.New(slog.NewTextHandler(logs, nil))),
	)
	return harness{svc: svc, spans: spans, reader: reader, logs: logs}
}

func (h harness) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestService_RecordsSpansAndMetrics(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.svc.SaveOrUpdate(ctx, &userdomain.User{ID: 1, Username: "alice"})
	require.NoError(t, err)
	_, err = h.svc.Get(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, h.svc.Delete(ctx, 1))

	var names []string
	for _, span := range h.spans.Ended() {
		names = append(names, span.Name())
	}
	assert.Equal(t, []string{"UserService.SaveOrUpdate", "UserService.Get", "UserService.Delete"}, names)
	assert.Equal(t, int64(1), h.counter(t, "users.service.saved"))
	assert.Equal(t, int64(1), h.counter(t, "users.service.deleted"))
	assert.Contains(t, h.logs.String(), "user saved")
}

func TestService_ErrorsMarkSpan(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.svc.SaveOrUpdate(ctx, &userdomain.User{ID: 1})
	require.ErrorIs(t, err, application.ErrInvalidInput)

	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, h.logs.String(), "failed to save user")
}

func TestService_NotFoundIsNotAnError(t *testing.T) {
	h := newHarness()

	_, err := h.svc.Get(context.Background(), 42)
	require.ErrorIs(t, err, userports.ErrNotFound)

	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	assert.NotEqual(t, codes.Error, ended[0].Status().Code)
	assert.Empty(t, h.logs.String())
}

package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/stencil/internal/adapters/telemetry"
	"go.trai.ch/stencil/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_OnEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	var captured []any
	mockLogger.EXPECT().Debug("span finished", gomock.Any()).Do(func(_ string, args ...any) {
		captured = args
	})

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(mockLogger)))
	_, span := tp.Tracer("test").Start(context.Background(), "index")
	span.SetStatus(codes.Error, "render failed")
	span.End()

	require.Contains(t, captured, "index")
	require.Contains(t, captured, "render failed")
}

func TestBridge_NilLogger(_ *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(nil)))
	_, span := tp.Tracer("test").Start(context.Background(), "index")
	span.End()
}

func TestInstall(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug("span finished", gomock.Any()).MinTimes(1)

	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	shutdown := telemetry.Install(telemetry.NewBridge(mockLogger))

	_, span := telemetry.NewOTelTracer("test").Start(context.Background(), "cycle")
	span.End()

	require.NoError(t, shutdown(context.Background()))
}

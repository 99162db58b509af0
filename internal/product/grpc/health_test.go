package grpc

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func Test_HealthReporter(t *testing.T) {
	testCases := []struct {
		name     string
		actions  func(r *HealthReporter)
		expected healthpb.HealthCheckResponse_ServingStatus
	}{
		{
			name:     "Starts not serving",
			actions:  func(*HealthReporter) {},
			expected: healthpb.HealthCheckResponse_NOT_SERVING,
		},
		{
			name:     "Serving after store is ready",
			actions:  func(r *HealthReporter) { r.MarkServing() },
			expected: healthpb.HealthCheckResponse_SERVING,
		},
		{
			name: "Not serving on shutdown",
			actions: func(r *HealthReporter) {
				r.MarkServing()
				r.MarkNotServing()
			},
			expected: healthpb.HealthCheckResponse_NOT_SERVING,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			r := NewHealthReporter(slog.New(slog.NewTextHandler(io.Discard, nil)))

			// when
			tc.actions(r)

			// then
			for _, service := range []string{"", ServiceName} {
				resp, err := r.Server().Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
				require.NoError(t, err)
				assert.Equal(t, tc.expected, resp.GetStatus(), "service %q", service)
			}
		})
	}
}

// Package grpc exposes the product service's readiness over the standard gRPC health protocol.
package grpc

import (
	"log/slog"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name clients pass to grpc.health.v1.Health/Check.
const ServiceName = "product.v1.ProductService"

// HealthReporter flips the serving status of the product service and of the server as a whole.
type HealthReporter struct {
	server *health.Server
	logger *slog.Logger
}

// NewHealthReporter creates a reporter whose services start as NOT_SERVING.
func NewHealthReporter(logger *slog.Logger) *HealthReporter {
	r := &HealthReporter{
		server: health.NewServer(),
		logger: logger.With("component", "grpc-health"),
	}
	r.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return r
}

// Server returns the health service to register on a grpc.Server.
func (r *HealthReporter) Server() *health.Server {
	return r.server
}

// MarkServing reports the store as ready.
func (r *HealthReporter) MarkServing() {
	r.set(healthpb.HealthCheckResponse_SERVING)
}

// MarkNotServing reports the service as going away. Watchers are notified before the server stops.
func (r *HealthReporter) MarkNotServing() {
	r.set(healthpb.HealthCheckResponse_NOT_SERVING)
}

func (r *HealthReporter) set(status healthpb.HealthCheckResponse_ServingStatus) {
	r.server.SetServingStatus("", status)
	r.server.SetServingStatus(ServiceName, status)
	r.logger.Info("Health status changed", slog.String("status", status.String()))
}

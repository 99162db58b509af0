// Package app contains the application setup for the ProductService.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/productsvc/internal/config"
	"github.com/abgdnv/productsvc/internal/platform/bootstrap"
	"github.com/abgdnv/productsvc/internal/platform/server"
	grpcHealth "github.com/abgdnv/productsvc/internal/product/grpc"
	"github.com/abgdnv/productsvc/internal/product/handler"
	"github.com/abgdnv/productsvc/internal/product/service"
	"github.com/abgdnv/productsvc/internal/product/store"
	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc"
)

type Dependencies struct {
	ProductService service.ProductService
	Health         *grpcHealth.HealthReporter
	Logger         *slog.Logger
}

func SetupDependencies(productStore store.ProductStore, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		ProductService: service.NewService(productStore),
		Health:         grpcHealth.NewHealthReporter(logger),
		Logger:         logger,
	}
}

// SetupStore opens the store selected by cfg.Store.Driver.
// The returned cleanup func closes the gorm handle and then the database pool, if any, and is never nil.
func SetupStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.ProductStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return nil, func() {}, err
		}
		db, closeDB, err := bootstrap.NewGormDB(dbPool, logger)
		if err != nil {
			dbPool.Close()
			return nil, func() {}, err
		}
		logger.Info("Successfully connected to the database!")
		cleanup := func() {
			closeDB()
			dbPool.Close()
		}
		return store.NewGormStore(db), cleanup, nil
	case config.StoreMemory:
		logger.Info("Using in-memory product store, data will not survive a restart")
		return store.NewInMemoryStore(), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// SetupHttpHandler initializes the HTTP server and routes for the ProductService application.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the ProductService application.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := handler.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the ProductService application.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}

// SetupGrpcServer initializes the gRPC server, which only carries the health service.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	return server.NewGRPCServer(reflectionEnabled, server.HealthRegistration(deps.Health.Server()))
}

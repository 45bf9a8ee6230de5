package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/cart-service/internal/api/handlers"
	"github.com/aaravmahajanofficial/cart-service/internal/api/middleware"
	"github.com/aaravmahajanofficial/cart-service/internal/config"
	"github.com/aaravmahajanofficial/cart-service/internal/health"
	"github.com/aaravmahajanofficial/cart-service/internal/metrics"
	repository "github.com/aaravmahajanofficial/cart-service/internal/repositories"
	service "github.com/aaravmahajanofficial/cart-service/internal/services"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Storage setup
	var store repository.CartRepository

	if cfg.Storage == config.StorageMemory {
		store = repository.NewMemoryStore()
		slog.Info("Using in-memory cart store")
	} else {
		repos, err := repository.New(cfg)
		if err != nil {
			slog.Error("Error accessing the database", slog.String("error", err.Error()))
			os.Exit(1)
		}

		defer func() {
			if err := repos.Close(); err != nil {
				slog.Error("Error closing database connection", slog.String("error", err.Error()))
			} else {
				slog.Info("Database connection closed")
			}
		}()

		store = repository.NewCartRepo(repos.DB)
	}

	// Schema init failures are logged but never block startup.
	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.InitSchema(initCtx); err != nil {
		slog.Error("Database initialization error", slog.String("error", err.Error()))
	} else {
		slog.Info("Database initialized successfully")
	}
	cancelInit()

	cartService := service.NewCartService(store)
	cartHandler := handlers.NewCartHandler(cartService)
	statusHandler := handlers.NewStatusHandler()
	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.JWTSecret))

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("Error creating health handler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("storage", cfg.Storage))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /{$}", statusHandler.Root())
	routerMux.HandleFunc("GET /status", statusHandler.Status())
	routerMux.HandleFunc("GET /cart/{user_id}", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /cart/{user_id}/add-item", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("DELETE /cart/{user_id}/item/{product_id}", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: handler,
	}

	slog.Info("Server is starting...", slog.String("address", cfg.HTTPServer.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("Server shut down gracefully. All connections closed.")
	}

}

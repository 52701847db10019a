package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chatori/chatori-backend/internal/adapters/cache"
	"github.com/chatori/chatori-backend/internal/adapters/database"
	"github.com/chatori/chatori-backend/internal/adapters/events"
	"github.com/chatori/chatori-backend/internal/adapters/providers/geolocation"
	"github.com/chatori/chatori-backend/internal/adapters/search"
	"github.com/chatori/chatori-backend/internal/api/handlers"
	"github.com/chatori/chatori-backend/internal/api/middleware"
	"github.com/chatori/chatori-backend/internal/api/routes"
	"github.com/chatori/chatori-backend/internal/application/services"
	"github.com/chatori/chatori-backend/internal/domain/providers"
	"github.com/chatori/chatori-backend/internal/domain/repositories"
	"github.com/chatori/chatori-backend/internal/infrastructure/clients/postgres"
	"github.com/chatori/chatori-backend/internal/infrastructure/clients/redis"
	"github.com/chatori/chatori-backend/internal/infrastructure/clients/typesense"
	"github.com/chatori/chatori-backend/internal/infrastructure/observability"
	"github.com/chatori/chatori-backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	// Initialize Redis client; the application can run without caching
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Initialize Typesense client; search degrades to DB-backed discovery
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
		typesenseClient = nil
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Initialize adapters

	baseStallAdapter := database.NewStallAdapter(pgClient)

	var stallRepo repositories.StallRepository
	if cacheProvider != nil {
		stallRepo = database.NewCachedStallAdapter(baseStallAdapter, cacheProvider)
		log.Println("Stall adapter wrapped with caching layer")
	} else {
		stallRepo = baseStallAdapter
		log.Println("Stall adapter running without cache (Redis unavailable)")
	}

	reviewAdapter := database.NewReviewAdapter(pgClient)
	userAdapter := database.NewUserAdapter(pgClient)
	dishAdapter := database.NewDishAdapter(pgClient)

	var searchRepo repositories.StallSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		}
		searchRepo = adapter
	}

	var geolocationProvider providers.GeolocationProvider
	switch cfg.Geolocation.Provider {
	case "google":
		if cfg.Geolocation.APIKey == "" {
			log.Println("Warning: GEOLOCATION_API_KEY is not set; using mock geolocation provider")
			geolocationProvider = geolocation.NewMockGeolocationProvider()
		} else {
			geolocationProvider = geolocation.NewGoogleGeolocationProvider(cfg.Geolocation.APIKey, cacheProvider)
		}
	default:
		geolocationProvider = geolocation.NewMockGeolocationProvider()
	}

	// Initialize services

	discoveryService := services.NewDiscoveryService()
	stallService := services.NewStallService(stallRepo, searchRepo, discoveryService, eventBus)
	reviewService := services.NewReviewService(reviewAdapter, userAdapter, stallService)
	userService := services.NewUserService(userAdapter, stallRepo)
	dishService := services.NewDishService(dishAdapter, stallRepo)

	// Start cache warming service for improved read performance
	if cacheProvider != nil {
		warmingService := services.NewCacheWarmingService(baseStallAdapter, cacheProvider)
		warmingService.StartPeriodicWarming(ctx, 5*time.Minute)
	}

	// Event-driven cache invalidation keeps cached stalls in step with
	// rating updates instead of waiting out the TTLs
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService := services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Printf("Warning: Failed to start cache invalidation service: %v", err)
		} else {
			defer cacheInvalidationService.Stop()
		}
	}

	// Initialize handlers

	stallHandler := handlers.NewStallHandler(stallService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	userHandler := handlers.NewUserHandler(userService)
	dishHandler := handlers.NewDishHandler(dishService)
	geolocationHandler := handlers.NewGeolocationHandler(geolocationProvider)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	// Set up router

	router := routes.NewRouter(
		stallHandler,
		reviewHandler,
		userHandler,
		dishHandler,
		geolocationHandler,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}

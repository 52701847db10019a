package routes

import (
	"net/http"

	"github.com/chatori/chatori-backend/internal/api/handlers"
	"github.com/chatori/chatori-backend/internal/api/middleware"
	"github.com/chatori/chatori-backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	stallHandler       *handlers.StallHandler
	reviewHandler      *handlers.ReviewHandler
	userHandler        *handlers.UserHandler
	dishHandler        *handlers.DishHandler
	geolocationHandler *handlers.GeolocationHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	stallHandler *handlers.StallHandler,
	reviewHandler *handlers.ReviewHandler,
	userHandler *handlers.UserHandler,
	dishHandler *handlers.DishHandler,
	geolocationHandler *handlers.GeolocationHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		stallHandler:       stallHandler,
		reviewHandler:      reviewHandler,
		userHandler:        userHandler,
		dishHandler:        dishHandler,
		geolocationHandler: geolocationHandler,
		cacheMiddleware:    cacheMiddleware,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Stall endpoints
	r.mux.HandleFunc("GET /api/stalls", r.stallHandler.ListStalls)
	r.mux.HandleFunc("POST /api/stalls", r.stallHandler.CreateStall)
	r.mux.HandleFunc("GET /api/stalls/discover", r.stallHandler.DiscoverStalls)
	r.mux.HandleFunc("GET /api/stalls/recommended", r.stallHandler.RecommendedStalls)
	r.mux.HandleFunc("GET /api/stalls/filters", r.stallHandler.GetFilterOptions)
	r.mux.HandleFunc("GET /api/stalls/{id}", r.stallHandler.GetStall)
	r.mux.HandleFunc("PATCH /api/stalls/{id}", r.stallHandler.UpdateStall)
	r.mux.HandleFunc("POST /api/stalls/{id}/images", r.stallHandler.AddStallImage)
	r.mux.HandleFunc("GET /api/stalls/{id}/reviews", r.reviewHandler.ListStallReviews)
	r.mux.HandleFunc("GET /api/stalls/{id}/dishes", r.dishHandler.ListStallDishes)

	// Review endpoints
	r.mux.HandleFunc("POST /api/reviews", r.reviewHandler.CreateReview)
	r.mux.HandleFunc("GET /api/reviews", r.reviewHandler.ListUserReviews)

	// User endpoints
	r.mux.HandleFunc("POST /api/users", r.userHandler.CreateUser)
	r.mux.HandleFunc("GET /api/users/{id}", r.userHandler.GetUser)
	r.mux.HandleFunc("PATCH /api/users/{id}", r.userHandler.UpdateUser)
	r.mux.HandleFunc("GET /api/users/{id}/favorites", r.userHandler.ListFavorites)
	r.mux.HandleFunc("PUT /api/users/{id}/favorites/{stallId}", r.userHandler.AddFavorite)
	r.mux.HandleFunc("DELETE /api/users/{id}/favorites/{stallId}", r.userHandler.RemoveFavorite)
	r.mux.HandleFunc("POST /api/users/{id}/favorites/{stallId}/toggle", r.userHandler.ToggleFavorite)

	// Dish endpoints
	r.mux.HandleFunc("POST /api/dishes", r.dishHandler.CreateDish)
	r.mux.HandleFunc("GET /api/dishes", r.dishHandler.LookupDish)
	r.mux.HandleFunc("GET /api/dishes/{id}", r.dishHandler.GetDish)
	r.mux.HandleFunc("PUT /api/dishes/{id}/tags/{tag}", r.dishHandler.AddDishTag)
	r.mux.HandleFunc("DELETE /api/dishes/{id}/tags/{tag}", r.dishHandler.RemoveDishTag)

	// Geolocation endpoints
	r.mux.HandleFunc("GET /api/geocode", r.geolocationHandler.Geocode)
	r.mux.HandleFunc("GET /api/reverse-geocode", r.geolocationHandler.ReverseGeocode)
	r.mux.HandleFunc("GET /api/distance", r.geolocationHandler.Distance)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}

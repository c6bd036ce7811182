package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hybridrec/feedback-service/internal/handler"
)

func Setup(h *handler.Handler) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Routes
	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/recommendations", h.GetRecommendations)
		r.Get("/movies", h.GetMovies)
		r.Get("/stats", h.GetModelStats)
		r.Post("/movies/{movieID}/feedback", h.MovieFeedback)
		r.Post("/recommendations/{recID}/feedback", h.RecommendationFeedback)
	})
	r.Get("/health", healthCheck)

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apperrors "github.com/vytor/studycards/internal/errors"
	"github.com/vytor/studycards/internal/logger"
	"github.com/vytor/studycards/internal/services"
	"github.com/vytor/studycards/internal/worker"
)

// Server wires the HTTP routes to the services.
type Server struct {
	cards *services.CardService
	stats *services.StatsService
	pool  *worker.Pool
	log   *logger.Logger
}

func NewServer(cards *services.CardService, stats *services.StatsService, pool *worker.Pool) *Server {
	return &Server{
		cards: cards,
		stats: stats,
		pool:  pool,
		log:   logger.Default().WithPrefix("api"),
	}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Route("/cards", func(r chi.Router) {
			r.Post("/", s.handleCreateCard)
			r.Get("/due", s.handleDueCards)
			r.Route("/{cardID}", func(r chi.Router) {
				r.Get("/", s.handleGetCard)
				r.Get("/preview", s.handlePreview)
				r.Get("/history", s.handleHistory)
				r.Post("/review", s.handleReview)
			})
		})
		r.Route("/learners/{learnerID}", func(r chi.Router) {
			r.Get("/stats", s.handleStats)
			r.Post("/reschedule", s.handleReschedule)
		})
	})

	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response: %v", err)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps an error to a JSON body. AppErrors carry their own status
// and code; anything else is a 500 with the detail kept out of the response.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError(err)
	}
	if appErr.Status >= 500 {
		logger.FromContext(r.Context()).Error("%s %s: %v", r.Method, r.URL.Path, err)
	}
	s.writeJSON(w, appErr.Status, errorResponse{Code: appErr.Code, Message: appErr.Message})
}

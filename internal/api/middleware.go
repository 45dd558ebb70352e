package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/vytor/studycards/internal/logger"
)

// requestLogger attaches a request-scoped logger to the context and logs
// each request with its status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqLog := s.log.WithField("request_id", middleware.GetReqID(r.Context()))
		ctx := logger.NewContext(r.Context(), reqLog)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		reqLog.Info("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

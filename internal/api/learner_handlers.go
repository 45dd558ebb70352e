package api

import (
	"net/http"

	"github.com/vytor/studycards/internal/worker"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	learnerID, err := urlID(r, "learnerID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	now, err := parseTimeParam(r, "now")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	stats, err := s.stats.LearnerStats(r.Context(), learnerID, now)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

// handleReschedule queues a background replay of the learner's cards under
// the current scheduler parameters. Returns 202 immediately; the work
// happens on the pool.
func (s *Server) handleReschedule(w http.ResponseWriter, r *http.Request) {
	learnerID, err := urlID(r, "learnerID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	job := &worker.RescheduleJob{Cards: s.cards, LearnerID: learnerID}
	if !s.pool.Submit(job) {
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Code:    "QUEUE_FULL",
			Message: "reschedule queue is full, try again later",
		})
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]any{"status": "queued", "learner_id": learnerID})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Ready means the database answers; a closed or locked database fails
	// the probe.
	if err := s.cards.Ping(r.Context()); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

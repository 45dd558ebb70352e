package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	apperrors "github.com/vytor/studycards/internal/errors"
	"github.com/vytor/studycards/internal/models"
	"github.com/vytor/studycards/internal/services"
)

func urlID(r *http.Request, param string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError("invalid " + param)
	}
	return id, nil
}

// parseTimeParam reads an optional RFC 3339 query parameter, defaulting to
// the current time.
func parseTimeParam(r *http.Request, param string) (time.Time, error) {
	v := r.URL.Query().Get(param)
	if v == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, apperrors.NewBadRequestError(param + " must be RFC 3339")
	}
	return t, nil
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var in services.CreateCardInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeError(w, r, apperrors.NewBadRequestError("invalid JSON body"))
		return
	}

	card, err := s.cards.CreateCard(r.Context(), in, time.Now().UTC())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, card)
}

type cardResponse struct {
	models.Card
	// Predicted recall probability right now; 0 for never-reviewed cards.
	Retrievability float64 `json:"retrievability"`
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "cardID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	card, err := s.cards.GetCard(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cardResponse{
		Card:           card,
		Retrievability: s.cards.Scheduler().Retrievability(card, time.Now().UTC()),
	})
}

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	learnerID, err := strconv.ParseInt(q.Get("learner_id"), 10, 64)
	if err != nil || learnerID <= 0 {
		s.writeError(w, r, apperrors.NewBadRequestError("learner_id is required"))
		return
	}
	asOf, err := parseTimeParam(r, "as_of")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit := 0
	if v := q.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			s.writeError(w, r, apperrors.NewBadRequestError("limit must be a non-negative integer"))
			return
		}
	}

	cards, err := s.cards.DueCards(r.Context(), models.CardFilter{
		LearnerID: learnerID,
		Domain:    q.Get("domain"),
		Task:      q.Get("task"),
		AsOf:      asOf,
		Limit:     limit,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"cards": cards, "count": len(cards)})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "cardID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	now, err := parseTimeParam(r, "now")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	outcomes, err := s.cards.Preview(r.Context(), id, now)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, outcomes)
}

type reviewRequest struct {
	Rating models.Rating `json:"rating"`
	// ReviewedAt allows clients to submit a review that happened earlier,
	// e.g. while offline. Empty means "now".
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "cardID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, apperrors.NewBadRequestError("invalid JSON body"))
		return
	}
	reviewedAt := time.Now().UTC()
	if req.ReviewedAt != nil {
		reviewedAt = req.ReviewedAt.UTC()
	}

	card, err := s.cards.Review(r.Context(), id, req.Rating, reviewedAt)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "cardID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	logs, err := s.cards.History(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if logs == nil {
		logs = []models.ReviewLog{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"logs": logs, "count": len(logs)})
}

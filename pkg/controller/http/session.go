package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/museum-lab/engagedesk/pkg/domain/model"
	"github.com/museum-lab/engagedesk/pkg/domain/types"
)

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.uc.StartSession(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusCreated, view)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.uc.GetSession(r.Context(), sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, view)
}

func (s *Server) handleSetSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position  int               `json:"position"`
		Criterion types.CriterionID `json:"criterion"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	view, err := s.uc.SetSlotCriterion(r.Context(), sessionID(r), req.Position, req.Criterion)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, view)
}

func (s *Server) handleSetSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Criterion types.CriterionID `json:"criterion"`
		Value     string            `json:"value"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	view, err := s.uc.SetSelection(r.Context(), sessionID(r), req.Criterion, req.Value)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, view)
}

func (s *Server) handleSelectEngagement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Item types.ItemID `json:"item"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	view, err := s.uc.SelectEngagement(r.Context(), sessionID(r), req.Item)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, view)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EngagementName string `json:"engagement_name"`
		RequesterName  string `json:"requester_name"`
		Email          string `json:"email"`
		Department     string `json:"department"`
		EventDate      string `json:"event_date"`
		EventHour      string `json:"event_hour"`
		EventMinute    string `json:"event_minute"`
		EventDuration  string `json:"event_duration"`
		Description    string `json:"description"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	form := &model.RequestForm{
		EngagementName: req.EngagementName,
		RequesterName:  req.RequesterName,
		Email:          req.Email,
		Department:     req.Department,
		EventDate:      req.EventDate,
		EventHour:      req.EventHour,
		EventMinute:    req.EventMinute,
		EventDuration:  req.EventDuration,
		Description:    req.Description,
	}

	created, err := s.uc.Submit(r.Context(), sessionID(r), form)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(r.Context(), w, http.StatusCreated, map[string]any{
		"success": true,
		"request": map[string]string{
			"id":   string(created.ID),
			"name": created.Name,
		},
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	view, err := s.uc.ResetSession(r.Context(), sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, view)
}

func sessionID(r *http.Request) types.SessionID {
	return types.SessionID(chi.URLParam(r, "sessionID"))
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return goerr.Wrap(model.ErrMissingField, "cannot decode request body", goerr.V("cause", err.Error()))
	}
	return nil
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
	"github.com/secmon-lab/mnemosyne/pkg/utils/errutil"
	"github.com/secmon-lab/mnemosyne/pkg/utils/safe"
)

// statusOf maps domain errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, types.ErrSessionNotFound),
		errors.Is(err, types.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidTask),
		errors.Is(err, types.ErrInvalidCategory),
		errors.Is(err, types.ErrInvalidOutcome):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func (s *Server) listSessionsHandler(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.uc.Session.List(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"sessions": summaries,
		"total":    len(summaries),
	})
}

func (s *Server) getSessionInteractionsHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := types.SessionID(chi.URLParam(r, "sessionID"))

	session, err := s.uc.Session.Get(r.Context(), sessionID)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"session_id":   session.ID,
		"file_name":    session.FileName,
		"numeric_id":   session.NumericID,
		"summary":      session.Summary,
		"interactions": session.Interactions,
	})
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.uc.Session.Stats(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}

	respondJSON(w, r, http.StatusOK, stats)
}

func (s *Server) listTasksHandler(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.uc.Task.List(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"tasks": tasks,
		"total": len(tasks),
	})
}

type createTaskRequest struct {
	Description  string                 `json:"description"`
	Category     string                 `json:"category"`
	Outcome      string                 `json:"outcome"`
	Interactions []model.InteractionRef `json:"interactions"`
}

func (s *Server) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to decode task request"), http.StatusBadRequest)
		return
	}

	task, err := s.uc.Task.Create(r.Context(), req.Description, req.Category, req.Outcome, req.Interactions)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}

	respondJSON(w, r, http.StatusCreated, task)
}

func (s *Server) getTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := types.TaskID(chi.URLParam(r, "taskID"))

	details, err := s.uc.Task.GetDetails(r.Context(), taskID)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}

	respondJSON(w, r, http.StatusOK, details)
}

func (s *Server) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := types.TaskID(chi.URLParam(r, "taskID"))

	if err := s.uc.Task.Delete(r.Context(), taskID); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	internalstrings "github.com/amonks/taskagent/internal/strings"
	"github.com/amonks/taskagent/task"
)

var errMessageRequired = errors.New("message is required")

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type tasksListRequest struct {
	Status task.Status `json:"status,omitempty"`
}

type tasksListResponse struct {
	Tasks []task.Task `json:"tasks"`
}

type tasksShowRequest struct {
	ID int64 `json:"id"`
}

type tasksShowResponse struct {
	Task task.Task `json:"task"`
}

type tasksStatsResponse struct {
	Statistics task.Statistics `json:"statistics"`
}

type emptyRequest struct{}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload chatRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if internalstrings.IsBlank(payload.Message) {
		s.writeError(w, r, http.StatusBadRequest, errMessageRequired)
		return
	}
	reply := s.converse(r, payload.Message)
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleTasksList(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload tasksListRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if payload.Status != "" {
		status, err := task.ParseStatus(string(payload.Status))
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}
		payload.Status = status
	}
	tasks := s.store.List(task.ListFilter{Status: payload.Status})
	if tasks == nil {
		tasks = []task.Task{}
	}
	writeJSON(w, http.StatusOK, tasksListResponse{Tasks: tasks})
}

func (s *Server) handleTasksShow(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload tasksShowRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	found, ok := s.store.Get(payload.ID)
	if !ok {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("task %d not found", payload.ID))
		return
	}
	writeJSON(w, http.StatusOK, tasksShowResponse{Task: found})
}

func (s *Server) handleTasksStats(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload emptyRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, tasksStatsResponse{Statistics: s.store.Statistics()})
}

func (s *Server) handleTasksEscalate(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload emptyRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	escalated := s.store.EscalateDue(s.now())
	if escalated == nil {
		escalated = []task.Task{}
	}
	writeJSON(w, http.StatusOK, tasksListResponse{Tasks: escalated})
}

func (s *Server) requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	s.writeError(w, r, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	return false
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logf("request %s %s failed (%d): %v", r.Method, r.URL.Path, status, err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/eventide-app/eventide/internal/assistant"
	"github.com/eventide-app/eventide/internal/log"
	"github.com/eventide-app/eventide/internal/schedule"
)

// Server provides the HTTP JSON API over the schedule store and the AI
// assistant.
type Server struct {
	store     *schedule.Store
	assistant *assistant.Assistant
	mux       *http.ServeMux
}

// New constructs a Server.
func New(store *schedule.Store, asst *assistant.Assistant) *Server {
	s := &Server{
		store:     store,
		assistant: asst,
		mux:       http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /schedule", s.handleGetSchedule)
	s.mux.HandleFunc("POST /create_schedule", s.handleCreateSchedule)
	s.mux.HandleFunc("PATCH /update_schedule/{id}", s.handleUpdateSchedule)
	s.mux.HandleFunc("DELETE /delete_schedule/{id}", s.handleDeleteSchedule)
	s.mux.HandleFunc("POST /optimize_schedule", s.handleOptimizeSchedule)
	s.mux.HandleFunc("POST /summarize_calendar", s.handleSummarizeCalendar)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" && !schedule.ValidDate(date) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid date; use YYYY-MM-DD"})
		return
	}

	items, err := s.store.List(date)
	if err != nil {
		log.Error("failed to list schedule", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to load schedule"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"schedule": items})
}

type eventInfoRequest struct {
	EventInfo map[string]any `json:"eventInfo"`
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req eventInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EventInfo == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Error: Missing required fields: title, startDate, endDate, start, end",
		})
		return
	}

	item, violations := schedule.ParseItem(req.EventInfo, schedule.ProfileCreate)
	if len(violations) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": violationMessage(violations)})
		return
	}

	created, err := s.store.Create(item)
	if err != nil {
		log.Error("failed to create schedule item", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	log.Info("schedule item created", "id", created.ID, "title", created.Title)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":   "Schedule created!",
		"id":        created.ID,
		"eventInfo": created,
	})
}

func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if _, err := s.store.Get(id); err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Schedule not found"})
			return
		}
		log.Error("failed to load schedule item", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to load schedule"})
		return
	}

	var req eventInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EventInfo == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Missing required fields: title, startDate, endDate, start, end, urgency",
		})
		return
	}

	item, violations := schedule.ParseItem(req.EventInfo, schedule.ProfileUpdate)
	if len(violations) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": violationMessage(violations)})
		return
	}

	if _, err := s.store.Update(id, item); err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Schedule not found"})
			return
		}
		log.Error("failed to update schedule item", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to update schedule"})
		return
	}

	log.Info("schedule item updated", "id", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Schedule updated"})
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.store.Delete(id); err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Schedule not found"})
			return
		}
		log.Error("failed to delete schedule item", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to delete schedule"})
		return
	}

	log.Info("schedule item deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Schedule deleted"})
}

type optimizeRequest struct {
	Schedule             []map[string]any `json:"schedule"`
	AllowedModifications []string         `json:"allowed_modifications"`
}

func (s *Server) handleOptimizeSchedule(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}
	if len(req.Schedule) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": assistant.SentinelEmpty})
		return
	}

	// The caller's schedule is as untrusted as the collaborator's reply:
	// ungranted fields are reverted to these values and persisted, so they
	// must be validated and sanitized before the reconciliation starts.
	var violations []*schedule.ValidationError
	items := make([]schedule.Item, 0, len(req.Schedule))
	for _, fields := range req.Schedule {
		it, vs := schedule.ParseItem(fields, schedule.ProfileOptimized)
		violations = append(violations, vs...)
		items = append(items, it)
	}
	if len(violations) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": violationMessage(violations)})
		return
	}

	result, err := s.assistant.Optimize(r.Context(), items, req.AllowedModifications)
	if err != nil {
		log.Error("failed to optimize schedule", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Failed to optimize schedule",
			"error":   err.Error(),
		})
		return
	}

	if result.Sentinel != "" {
		writeJSON(w, http.StatusOK, map[string]string{"message": result.Sentinel})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"schedule": result.Schedule})
}

type summarizeRequest struct {
	Schedule []schedule.Item `json:"schedule"`
}

func (s *Server) handleSummarizeCalendar(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	if len(req.Schedule) == 0 {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "No events to summarize",
			"summary": assistant.NoEventsSummary,
		})
		return
	}

	summary, err := s.assistant.Summarize(r.Context(), req.Schedule)
	if err != nil {
		log.Error("failed to summarize calendar", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to generate summary"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Schedule not found"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to encode response", err)
	}
}

func violationMessage(violations []*schedule.ValidationError) string {
	var missingFields []string
	var other []string
	for _, v := range violations {
		if v.Kind == schedule.KindMissingField {
			missingFields = append(missingFields, v.Field)
		} else {
			other = append(other, v.Error())
		}
	}
	if len(missingFields) > 0 {
		return "Missing required fields: " + strings.Join(missingFields, ", ")
	}
	return "Invalid eventInfo: " + strings.Join(other, "; ")
}

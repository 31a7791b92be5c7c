// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edash/edash/internal/adapters/repository"
	"github.com/edash/edash/internal/domain/activity"
	"github.com/edash/edash/internal/domain/assistant"
	"github.com/edash/edash/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Record operations.
	SaveStudent(ctx context.Context, in model.Student) (model.Student, error)
	DeleteStudent(ctx context.Context, id string) error
	Student(ctx context.Context, id string) (model.Student, error)
	Students(ctx context.Context) []model.Student

	// Ask interprets a free-text query against the current record set.
	Ask(ctx context.Context, text string) assistant.Response

	// Read operations expose aggregate and activity data.
	Stats(ctx context.Context) model.Statistics
	Activity(ctx context.Context, limit int) []activity.Entry
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	studentsHandler  *StudentsHandler
	assistantHandler *AssistantHandler
	activityHandler  *ActivityHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, maxPageSize int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		studentsHandler:  NewStudentsHandler(deps),
		assistantHandler: NewAssistantHandler(deps),
		activityHandler:  NewActivityHandler(deps, maxPageSize),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/assistant", MetricsMiddleware(s.assistantHandler.HandleAsk, "assistant"))
	mux.HandleFunc("/activity", MetricsMiddleware(s.activityHandler.HandleActivity, "activity"))
	mux.HandleFunc("/students", MetricsMiddleware(s.studentsHandler.HandleCollection, "students"))
	mux.HandleFunc("/students/", MetricsMiddleware(s.studentsHandler.HandleRecord, "students"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

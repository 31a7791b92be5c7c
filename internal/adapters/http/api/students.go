// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/edash/edash/internal/domain/model"
	"github.com/edash/edash/internal/domain/scoring"
)

// StudentsHandler handles student record requests.
type StudentsHandler struct {
	deps Dependencies
}

// NewStudentsHandler creates a new students handler.
func NewStudentsHandler(deps Dependencies) *StudentsHandler {
	return &StudentsHandler{deps: deps}
}

// studentRequest mirrors the JSON schema for student writes. Numeric fields
// are typed any so malformed imports (strings, "87%", null) coerce instead
// of failing the whole request.
type studentRequest struct {
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Email           string   `json:"email"`
	Department      string   `json:"department"`
	Gender          string   `json:"gender"`
	Year            any      `json:"year"`
	GPA             any      `json:"gpa"`
	Attendance      any      `json:"attendance"`
	AssignmentScore any      `json:"assignment_score"`
	Tags            []string `json:"tags"`
}

func (s studentRequest) validate() error {
	switch {
	case strings.TrimSpace(s.FirstName) == "":
		return errors.New("missing first_name")
	case strings.TrimSpace(s.LastName) == "":
		return errors.New("missing last_name")
	case strings.TrimSpace(s.Department) == "":
		return errors.New("missing department")
	}
	return nil
}

// toModel coerces the request into a domain record. Unparsable numeric
// values become zero rather than an error.
func (s studentRequest) toModel(id string) model.Student {
	return model.Student{
		ID:              id,
		FirstName:       strings.TrimSpace(s.FirstName),
		LastName:        strings.TrimSpace(s.LastName),
		Email:           strings.TrimSpace(s.Email),
		Department:      strings.TrimSpace(s.Department),
		Gender:          strings.TrimSpace(s.Gender),
		Year:            int(scoring.Metric(s.Year)),
		GPA:             scoring.Metric(s.GPA),
		Attendance:      scoring.Metric(s.Attendance),
		AssignmentScore: scoring.Metric(s.AssignmentScore),
		Tags:            s.Tags,
	}
}

// HandleCollection handles GET /students and POST /students requests.
func (h *StudentsHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	const op = "api.students"
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Students(r.Context()))
	case http.MethodPost:
		var req studentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		created, err := h.deps.SaveStudent(r.Context(), req.toModel(""))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		http.NotFound(w, r)
	}
}

// HandleRecord handles GET/PUT/DELETE /students/{id} requests.
func (h *StudentsHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	const op = "api.student"
	// Extract path parameter after /students/
	id := strings.TrimPrefix(r.URL.Path, "/students/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, err := h.deps.Student(r.Context(), id)
		if err != nil {
			h.writeLookupError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	case http.MethodPut:
		var req studentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		updated, err := h.deps.SaveStudent(r.Context(), req.toModel(id))
		if err != nil {
			h.writeLookupError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := h.deps.DeleteStudent(r.Context(), id); err != nil {
			h.writeLookupError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		http.NotFound(w, r)
	}
}

func (h *StudentsHandler) writeLookupError(w http.ResponseWriter, op string, err error) {
	if isNotFound(err) {
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
}

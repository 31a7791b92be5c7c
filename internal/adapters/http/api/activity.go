// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
)

// ActivityHandler handles activity feed requests.
type ActivityHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(deps Dependencies, maxLimit int) *ActivityHandler {
	return &ActivityHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleActivity handles GET /activity?limit=N requests.
func (h *ActivityHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	const op = "api.activity"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	entries := h.deps.Activity(r.Context(), limit)
	writeJSON(w, http.StatusOK, entries)
}

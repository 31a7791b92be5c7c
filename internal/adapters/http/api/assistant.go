// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// AssistantHandler handles free-text query requests.
type AssistantHandler struct {
	deps Dependencies
}

// NewAssistantHandler creates a new assistant handler.
func NewAssistantHandler(deps Dependencies) *AssistantHandler {
	return &AssistantHandler{deps: deps}
}

// askRequest mirrors the JSON schema for POST /assistant.
type askRequest struct {
	Text string `json:"text"`
}

func (a askRequest) validate() error {
	if strings.TrimSpace(a.Text) == "" {
		return errors.New("missing text")
	}
	return nil
}

// HandleAsk handles POST /assistant requests.
func (h *AssistantHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	const op = "api.ask"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Ask(r.Context(), req.Text))
}

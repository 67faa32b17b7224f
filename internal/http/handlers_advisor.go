package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"finflow/internal/advisor"
)

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.FreeText) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "freeText must not be empty"})
		return
	}

	reply, err := s.advisor.Ask(r.Context(), req.FreeText)
	if errors.Is(err, advisor.ErrSuperseded) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "superseded by a newer question"})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := askResponse{
		Intent:       string(reply.Intent),
		Analysis:     reply.Analysis,
		TextResponse: reply.TextResponse,
	}
	if len(reply.ActionableData) > 0 {
		resp.ActionableData = json.RawMessage(reply.ActionableData)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	turns := s.advisor.History()
	out := make([]chatTurnResponse, len(turns))
	for i, t := range turns {
		out[i] = chatTurnResponse{
			Role:      t.Role,
			Text:      t.Text,
			Timestamp: t.Timestamp.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

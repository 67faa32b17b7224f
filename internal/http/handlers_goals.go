package http

import (
	"net/http"

	"finflow/internal/core"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	progress := s.engine.Goals(r.Context())
	out := make([]goalResponse, len(progress))
	for i, p := range progress {
		out[i] = toGoalResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	goal, err := req.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}

	stored, err := s.ledger.AddGoal(r.Context(), goal)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, s.goalWithProgress(r, stored))
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	var req contributeRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	updated, err := s.ledger.Contribute(r.Context(), r.PathValue("id"), req.AmountPaise)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, s.goalWithProgress(r, updated))
}

func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	updated, err := s.ledger.Invite(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, s.goalWithProgress(r, updated))
}

// goalWithProgress returns the freshly derived progress view for one goal,
// falling back to the raw goal if derivation misses it.
func (s *Server) goalWithProgress(r *http.Request, goal core.Goal) goalResponse {
	for _, p := range s.engine.Goals(r.Context()) {
		if p.Goal.ID == goal.ID {
			return toGoalResponse(p)
		}
	}
	return toGoalResponse(core.GoalProgress{Goal: goal, PercentFunded: core.PercentFunded(goal)})
}

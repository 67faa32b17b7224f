package http

import (
	"net/http"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile := s.engine.Profile()
	if profile == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no calibration profile set"})
		return
	}
	writeJSON(w, http.StatusOK, toProfilePayload(*profile))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profilePayload
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := s.ledger.UpdateProfile(r.Context(), req.toDomain()); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

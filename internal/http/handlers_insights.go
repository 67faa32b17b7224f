package http

import (
	"net/http"
	"time"

	"finflow/internal/core"
)

// queryPeriod reads ?period=YYYY-MM, defaulting to the current month.
func queryPeriod(r *http.Request) (core.Period, error) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		return core.CurrentPeriod(time.Now()), nil
	}
	return core.ParsePeriod(raw)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ov, err := s.engine.Overview(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOverviewResponse(ov))
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	proj, err := s.engine.Projection(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectionResponse{
		Surplus30Paise: proj.Surplus30.Paise,
		Surplus60Paise: proj.Surplus60.Paise,
		Surplus90Paise: proj.Surplus90.Paise,
	})
}

func (s *Server) handleNetWorth(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := s.engine.NetWorth(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNetWorthResponse(view))
}

func (s *Server) handleDebts(w http.ResponseWriter, r *http.Request) {
	entries, err := s.engine.Debts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDebtResponses(entries))
}

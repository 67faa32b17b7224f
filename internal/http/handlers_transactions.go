package http

import (
	"net/http"

	"finflow/internal/core"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	tx, err := req.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}

	stored, err := s.ledger.AddTransaction(r.Context(), tx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(stored))
}

// handleListTransactions returns the ledger newest first, optionally
// filtered to one period via ?period=YYYY-MM.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs := s.ledger.Store().Snapshot().Transactions

	if raw := r.URL.Query().Get("period"); raw != "" {
		period, err := core.ParsePeriod(raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		txs = core.FilterPeriod(txs, period)
	}

	out := make([]transactionResponse, len(txs))
	for i, t := range txs {
		out[i] = toTransactionResponse(t)
	}
	writeJSON(w, http.StatusOK, out)
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"finflow/internal/collab"
	"finflow/internal/core"
	"finflow/internal/ledger"
	"finflow/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldPath, r.URL.Path, log.FieldError, err.Error())
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps domain errors onto HTTP statuses. Validation failures are
// the caller's fault; an unmapped contact is upstream data corruption.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrUnknownGoal):
		return http.StatusNotFound
	case errors.Is(err, collab.ErrContactNotFound):
		return http.StatusBadGateway
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidPeriod),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidAssetCategory),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrDescriptionTooLong),
		errors.Is(err, core.ErrCounterpartyRequired),
		errors.Is(err, core.ErrCounterpartyForbidden),
		errors.Is(err, core.ErrInvalidTarget),
		errors.Is(err, core.ErrEmptyName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

package advisor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Intent classifies what the reasoning service decided the user asked for.
type Intent string

const (
	IntentDecisionAnalysis Intent = "DECISION_ANALYSIS"
	IntentAddTransaction   Intent = "ADD_TRANSACTION"
	IntentChat             Intent = "CHAT"
)

var ErrMalformedReply = errors.New("malformed reasoning reply")

// Reply is the validated structured answer from the reasoning service.
//
// ActionableData is deliberately opaque: even when the intent is
// ADD_TRANSACTION the gateway never applies it. It is handed back to the
// caller as a proposal to confirm through the normal mutation path, which
// keeps every ledger write auditable through one door.
type Reply struct {
	Intent         Intent          `json:"intent"`
	Analysis       string          `json:"analysis,omitempty"`
	TextResponse   string          `json:"textResponse"`
	ActionableData json.RawMessage `json:"actionableData,omitempty"`
}

func (i Intent) valid() bool {
	switch i {
	case IntentDecisionAnalysis, IntentAddTransaction, IntentChat:
		return true
	}
	return false
}

// ParseReply decodes and validates a raw reasoning-service payload. The
// payload is untrusted: it must decode as the expected shape, carry a known
// intent, and include a non-empty textResponse. Anything else is a contract
// violation.
func ParseReply(raw []byte) (Reply, error) {
	var r Reply
	if err := json.Unmarshal(raw, &r); err != nil {
		return Reply{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if !r.Intent.valid() {
		return Reply{}, fmt.Errorf("%w: unknown intent %q", ErrMalformedReply, r.Intent)
	}
	if strings.TrimSpace(r.TextResponse) == "" {
		return Reply{}, fmt.Errorf("%w: missing textResponse", ErrMalformedReply)
	}
	return r, nil
}

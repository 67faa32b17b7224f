// Package advisor implements the Decision-Intent Gateway: it packages a
// free-text spending question plus a frozen financial snapshot into a
// bounded request to the external reasoning service and validates the
// structured reply.
//
// The gateway is read-only by design. It never mutates the ledger, goals,
// or profile; an ADD_TRANSACTION intent only returns proposal data for the
// caller to confirm through the normal mutation operations.
package advisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"finflow/internal/core"
	"finflow/internal/log"
)

// FallbackText is the fixed neutral reply used whenever the reasoning
// service times out, fails, or violates its contract. The advisory path is
// interactive and must stay usable under degraded connectivity.
const FallbackText = "I'm reflecting on your data. Let's look at this decision calmly. Could you rephrase that?"

// ErrSuperseded marks a reply that resolved after a newer question was
// asked. Latest wins: the stale result must be discarded, not applied.
var ErrSuperseded = errors.New("ask superseded by a newer question")

// SnapshotFunc captures the current financial view at ask time.
type SnapshotFunc func(ctx context.Context) (Snapshot, error)

// Gateway bridges questions to the reasoning service.
type Gateway struct {
	client   ReasoningClient
	snapshot SnapshotFunc
	timeout  time.Duration
	logger   *log.Logger

	seq atomic.Uint64

	mu      sync.Mutex
	history []core.ChatTurn
}

// NewGateway creates a gateway with the given reply deadline.
func NewGateway(client ReasoningClient, snapshot SnapshotFunc, timeout time.Duration, logger *log.Logger) *Gateway {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Gateway{
		client:   client,
		snapshot: snapshot,
		timeout:  timeout,
		logger:   logger.WithComponent(log.ComponentAdvisor),
	}
}

// Ask sends the question to the reasoning service and returns the validated
// reply.
//
// Failure handling follows the external-service taxonomy: transport errors,
// timeouts, and contract-violating replies all collapse into the fixed
// fallback CHAT reply — the only error Ask ever returns is ErrSuperseded,
// when a newer question was asked while this one was in flight.
func (g *Gateway) Ask(ctx context.Context, freeText string) (Reply, error) {
	mySeq := g.seq.Add(1)

	snap, err := g.snapshot(ctx)
	if err != nil {
		// Snapshot failure is internal, but the caller experience is the
		// same as any degraded ask: fall back rather than propagate.
		g.logger.ErrorContext(ctx, "Snapshot capture failed",
			log.FieldOperation, log.OpAsk, log.FieldError, err.Error())
		return g.finish(ctx, mySeq, freeText, fallbackReply(), nil)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.client.Generate(callCtx, Request{
		FreeText:      freeText,
		SystemContext: BuildSystemContext(snap),
	})
	if err != nil {
		g.logger.WarnContext(ctx, "Reasoning service failed, using fallback",
			log.FieldOperation, log.OpAsk,
			log.FieldAskSeq, mySeq,
			log.FieldError, err.Error())
		return g.finish(ctx, mySeq, freeText, fallbackReply(), nil)
	}

	reply, err := ParseReply(raw)
	if err != nil {
		g.logger.WarnContext(ctx, "Reasoning reply violated contract, using fallback",
			log.FieldOperation, log.OpAsk,
			log.FieldAskSeq, mySeq,
			log.FieldError, err.Error())
		return g.finish(ctx, mySeq, freeText, fallbackReply(), nil)
	}

	return g.finish(ctx, mySeq, freeText, reply, nil)
}

// finish applies latest-wins: a reply whose sequence is no longer current
// is discarded and never recorded in the session history.
func (g *Gateway) finish(ctx context.Context, mySeq uint64, freeText string, reply Reply, err error) (Reply, error) {
	if err != nil {
		return Reply{}, err
	}
	if g.seq.Load() != mySeq {
		g.logger.InfoContext(ctx, "Discarding superseded reply",
			log.FieldOperation, log.OpAsk, log.FieldAskSeq, mySeq)
		return Reply{}, ErrSuperseded
	}

	now := time.Now()
	g.mu.Lock()
	g.history = append(g.history,
		core.ChatTurn{Role: "user", Text: freeText, Timestamp: now},
		core.ChatTurn{Role: "assistant", Text: reply.TextResponse, Timestamp: now},
	)
	g.mu.Unlock()

	g.logger.InfoContext(ctx, "Ask completed",
		log.FieldOperation, log.OpAsk,
		log.FieldAskSeq, mySeq,
		log.FieldIntent, string(reply.Intent))
	return reply, nil
}

// History returns a copy of the session's chat turns. The history is
// transient: it lives only as long as the gateway.
func (g *Gateway) History() []core.ChatTurn {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]core.ChatTurn(nil), g.history...)
}

func fallbackReply() Reply {
	return Reply{Intent: IntentChat, TextResponse: FallbackText}
}

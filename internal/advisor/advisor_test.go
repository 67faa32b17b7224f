package advisor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finflow/internal/core"
	"finflow/internal/log"
)

type stubClient struct {
	mu      sync.Mutex
	raw     []byte
	err     error
	delay   time.Duration
	release chan struct{} // when set, Generate blocks until closed
	calls   int
}

func (c *stubClient) Generate(ctx context.Context, _ Request) ([]byte, error) {
	c.mu.Lock()
	c.calls++
	raw, err, delay, release := c.raw, c.err, c.delay, c.release
	c.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return raw, err
}

func testSnapshot(context.Context) (Snapshot, error) {
	return Snapshot{
		Balance:            core.Rupees(54300),
		ProjectedSurplus90: core.Rupees(158250),
		MonthlyFixed:       core.Rupees(53500),
		Goals: []core.GoalProgress{{
			Goal:          core.Goal{Name: "Japan Trip", TargetAmount: core.Rupees(300000)},
			PercentFunded: 28,
		}},
	}, nil
}

func newGateway(client ReasoningClient, timeout time.Duration) *Gateway {
	return NewGateway(client, testSnapshot, timeout, log.New(log.DefaultConfig()))
}

func TestAskReturnsValidatedReply(t *testing.T) {
	client := &stubClient{raw: []byte(`{
		"intent": "DECISION_ANALYSIS",
		"analysis": "## Impact\nManageable.",
		"textResponse": "You can afford it, with a small delay to Japan Trip.",
		"actionableData": {"amount": 45000}
	}`)}
	g := newGateway(client, time.Second)

	reply, err := g.Ask(context.Background(), "Should I buy this phone?")
	require.NoError(t, err)
	assert.Equal(t, IntentDecisionAnalysis, reply.Intent)
	assert.Contains(t, reply.TextResponse, "afford")
	assert.JSONEq(t, `{"amount": 45000}`, string(reply.ActionableData))

	turns := g.History()
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "assistant", turns[1].Role)
}

func TestAskFallsBackOnMissingTextResponse(t *testing.T) {
	client := &stubClient{raw: []byte(`{"intent": "CHAT", "analysis": "hmm"}`)}
	g := newGateway(client, time.Second)

	reply, err := g.Ask(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, IntentChat, reply.Intent)
	assert.Equal(t, FallbackText, reply.TextResponse)
}

func TestAskFallsBackOnMalformedJSON(t *testing.T) {
	client := &stubClient{raw: []byte(`I am not JSON`)}
	g := newGateway(client, time.Second)

	reply, err := g.Ask(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, IntentChat, reply.Intent)
	assert.Equal(t, FallbackText, reply.TextResponse)
}

func TestAskFallsBackOnTransportError(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}
	g := newGateway(client, time.Second)

	reply, err := g.Ask(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, FallbackText, reply.TextResponse)
}

func TestAskFallsBackOnTimeout(t *testing.T) {
	client := &stubClient{
		raw:   []byte(`{"intent":"CHAT","textResponse":"too late"}`),
		delay: 200 * time.Millisecond,
	}
	g := newGateway(client, 10*time.Millisecond)

	start := time.Now()
	reply, err := g.Ask(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, FallbackText, reply.TextResponse)
	assert.Less(t, time.Since(start), 150*time.Millisecond, "timeout must bound the call")
}

func TestAskLatestWins(t *testing.T) {
	release := make(chan struct{})
	client := &stubClient{
		raw:     []byte(`{"intent":"CHAT","textResponse":"first answer"}`),
		release: release,
	}
	g := newGateway(client, time.Second)

	firstDone := make(chan error, 1)
	go func() {
		_, err := g.Ask(context.Background(), "first question")
		firstDone <- err
	}()

	// Wait for the first ask to be in flight, then issue a newer one.
	require.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return client.calls == 1
	}, time.Second, time.Millisecond)

	client.mu.Lock()
	client.release = nil
	client.raw = []byte(`{"intent":"CHAT","textResponse":"second answer"}`)
	client.mu.Unlock()

	reply, err := g.Ask(context.Background(), "second question")
	require.NoError(t, err)
	assert.Equal(t, "second answer", reply.TextResponse)

	// Now let the stale call resolve: it must be discarded.
	close(release)
	assert.ErrorIs(t, <-firstDone, ErrSuperseded)

	turns := g.History()
	require.Len(t, turns, 2)
	assert.Equal(t, "second question", turns[0].Text)
}

func TestBuildSystemContext(t *testing.T) {
	snap, err := testSnapshot(context.Background())
	require.NoError(t, err)
	prompt := BuildSystemContext(snap)

	assert.Contains(t, prompt, "Financial Decision-Support Assistant")
	assert.Contains(t, prompt, "30, 60, and 90 days")
	assert.Contains(t, prompt, "₹54300.00")
	assert.Contains(t, prompt, "₹158250.00")
	assert.Contains(t, prompt, "Japan Trip (Target: ₹300000.00, 28% funded)")
	assert.Contains(t, prompt, "₹53500.00")
}

func TestParseReplyRejectsUnknownIntent(t *testing.T) {
	_, err := ParseReply([]byte(`{"intent":"PANIC","textResponse":"x"}`))
	assert.ErrorIs(t, err, ErrMalformedReply)
}

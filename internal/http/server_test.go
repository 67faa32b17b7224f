package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finflow/internal/advisor"
	"finflow/internal/collab/memory"
	"finflow/internal/engine"
	"finflow/internal/ledger"
	"finflow/internal/log"
	"finflow/internal/services"
)

type scriptedClient struct {
	raw []byte
	err error
}

func (c *scriptedClient) Generate(context.Context, advisor.Request) ([]byte, error) {
	return c.raw, c.err
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	logger := log.New(log.DefaultConfig())

	store := ledger.New()
	svc := services.NewLedgerService(store, nil, nil, logger)
	eng := engine.New(store, memory.NewHoldings(), memory.NewContacts(map[string]string{"f1": "Kabir"}), logger,
		engine.WithClock(func() time.Time { return time.Date(2025, 12, 15, 12, 0, 0, 0, time.UTC) }))

	client := &scriptedClient{raw: []byte(`{"intent":"CHAT","textResponse":"Happy to help."}`)}
	gateway := advisor.NewGateway(client, func(ctx context.Context) (advisor.Snapshot, error) {
		return advisor.Snapshot{}, nil
	}, time.Second, logger)

	srv := NewServer(":0", svc, eng, gateway, logger)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv, ts
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	resp := getJSON(t, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateAndListTransactions(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/transactions", `{
		"type": "income",
		"amountPaise": 12500000,
		"category": "Salary",
		"description": "December salary",
		"date": "2025-12-01"
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created transactionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(12500000), created.AmountPaise)

	var listed []transactionResponse
	getJSON(t, ts.URL+"/api/transactions?period=2025-12", &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	var empty []transactionResponse
	getJSON(t, ts.URL+"/api/transactions?period=2025-11", &empty)
	assert.Empty(t, empty)
}

func TestCreateTransactionValidation(t *testing.T) {
	_, ts := newTestServer(t)

	// p2p payment without a counterparty
	resp := postJSON(t, ts.URL+"/api/transactions", `{
		"type": "p2p_payment",
		"amountPaise": 50000,
		"category": "Friends",
		"description": "Dinner",
		"date": "2025-12-05"
	}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// zero amount
	resp = postJSON(t, ts.URL+"/api/transactions", `{
		"type": "expense",
		"amountPaise": 0,
		"category": "Food",
		"description": "Nothing",
		"date": "2025-12-05"
	}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// garbage date
	resp = postJSON(t, ts.URL+"/api/transactions", `{
		"type": "expense",
		"amountPaise": 100,
		"category": "Food",
		"description": "Snack",
		"date": "05-12-2025"
	}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// over-long description is the caller's fault, not a server error
	resp = postJSON(t, ts.URL+"/api/transactions", `{
		"type": "expense",
		"amountPaise": 100,
		"category": "Food",
		"description": "`+strings.Repeat("x", 201)+`",
		"date": "2025-12-05"
	}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateTransactionDecimalAmount(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/transactions", `{
		"type": "expense",
		"amount": "1500.50",
		"category": "Food",
		"description": "Dinner out",
		"date": "2025-12-05"
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created transactionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, int64(150050), created.AmountPaise)

	// signed decimal input is rejected, direction comes from the type
	resp = postJSON(t, ts.URL+"/api/transactions", `{
		"type": "expense",
		"amount": "-12",
		"category": "Food",
		"description": "Bad",
		"date": "2025-12-05"
	}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOverviewAndProjection(t *testing.T) {
	_, ts := newTestServer(t)

	for _, body := range []string{
		`{"type":"income","amountPaise":12500000,"category":"Salary","description":"Salary","date":"2025-12-01"}`,
		`{"type":"emi","amountPaise":2500000,"category":"Home Loan","description":"EMI","date":"2025-12-02"}`,
		`{"type":"expense","amountPaise":370000,"category":"Food","description":"Groceries","date":"2025-12-03"}`,
	} {
		resp := postJSON(t, ts.URL+"/api/transactions", body)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/profile", bytes.NewReader([]byte(`{
		"displayName": "Arjun",
		"partnerName": "Riya",
		"monthlyIncomePaise": 12500000,
		"monthlyFixedPaise": 5350000,
		"savingsTargetPaise": 3000000
	}`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	putResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	putResp.Body.Close()
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	var ov overviewResponse
	getJSON(t, ts.URL+"/api/overview?period=2025-12", &ov)
	assert.Equal(t, int64(12500000), ov.IncomePaise)
	assert.Equal(t, int64(2500000), ov.FixedPaise)
	assert.Equal(t, int64(370000), ov.VariablePaise)
	assert.Equal(t, int64(9630000), ov.BalancePaise)

	// monthly surplus = income - fixed - variable = 125000 - 53500 - 3700
	var proj projectionResponse
	getJSON(t, ts.URL+"/api/projection", &proj)
	assert.Equal(t, int64(6780000), proj.Surplus30Paise)
	assert.Equal(t, int64(13560000), proj.Surplus60Paise)
	assert.Equal(t, int64(20340000), proj.Surplus90Paise)
}

func TestGoalLifecycle(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/goals", `{
		"name": "Japan Trip",
		"targetPaise": 30000000,
		"deadline": "2026-10-01"
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var goal goalResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&goal))
	require.NotEmpty(t, goal.ID)
	assert.Equal(t, 0, goal.PercentFunded)

	resp = postJSON(t, ts.URL+"/api/goals/"+goal.ID+"/contribute", `{"amountPaise": 8400000}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&goal))
	assert.Equal(t, 28, goal.PercentFunded)
	assert.True(t, goal.OnTrack)

	resp = postJSON(t, ts.URL+"/api/goals/"+goal.ID+"/invite", `{"name": "Riya"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&goal))
	assert.Equal(t, []string{"Riya"}, goal.Contributors)

	resp = postJSON(t, ts.URL+"/api/goals/nope/contribute", `{"amountPaise": 100}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNetWorthEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/transactions",
		`{"type":"income","amountPaise":5430000,"category":"Salary","description":"Pay","date":"2025-12-01"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var view netWorthResponse
	getJSON(t, ts.URL+"/api/networth?period=2025-12", &view)
	require.Len(t, view.Assets, 5)
	assert.Equal(t, "Cash", view.Assets[0].Category)
	assert.Equal(t, int64(5430000), view.Assets[0].CurrentValuePaise)
	assert.Equal(t, float64(0), view.Assets[0].GrowthRatePercent)
	// 54300 + 120000 + 450000 + 800000 + 250000 rupees
	assert.Equal(t, int64(167430000), view.TotalPaise)
}

func TestDebtsEndpointResolvesNames(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/transactions",
		`{"type":"p2p_payment","amountPaise":150000,"category":"Friends","description":"Dinner","date":"2025-12-05","friendId":"f1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var debts []debtResponse
	getJSON(t, ts.URL+"/api/debts", &debts)
	require.Len(t, debts, 1)
	assert.Equal(t, "Kabir", debts[0].DisplayName)
	assert.Equal(t, int64(150000), debts[0].NetAmountPaise)

	// unknown counterparty surfaces a gateway error, not a default name
	resp = postJSON(t, ts.URL+"/api/transactions",
		`{"type":"p2p_payment","amountPaise":1000,"category":"Friends","description":"Chai","date":"2025-12-06","friendId":"ghost"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	raw, err := http.Get(ts.URL + "/api/debts")
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusBadGateway, raw.StatusCode)
}

func TestAdvisorAsk(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/advisor/ask", `{"freeText": "Can I afford a new phone?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reply askResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.Equal(t, "CHAT", reply.Intent)
	assert.Equal(t, "Happy to help.", reply.TextResponse)

	resp = postJSON(t, ts.URL+"/api/advisor/ask", `{"freeText": "  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var turns []chatTurnResponse
	getJSON(t, ts.URL+"/api/advisor/history", &turns)
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
}

func TestUnknownFieldRejected(t *testing.T) {
	_, ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/transactions", `{"type":"expense","amountPaise":100,"category":"Food","description":"x","date":"2025-12-01","bogus":true}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttnghia195/trade-signal-hook/internal/journal"
	"github.com/ttnghia195/trade-signal-hook/internal/models"
	"github.com/ttnghia195/trade-signal-hook/internal/modules/config"
	healthstate "github.com/ttnghia195/trade-signal-hook/internal/modules/health/service"
	"github.com/ttnghia195/trade-signal-hook/internal/trade"
	"github.com/ttnghia195/trade-signal-hook/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type stubExchange struct{}

func (stubExchange) Balance(context.Context) (models.AccountSnapshot, error) {
	return models.AccountSnapshot{TotalBalance: 1000, AvailableBalance: 800}, nil
}
func (stubExchange) OpenOrderCount(context.Context) (int, error) { return 2, nil }
func (stubExchange) SetLeverage(context.Context, string, int) error {
	return nil
}
func (stubExchange) PlaceMarket(context.Context, string, models.Side, float64) (models.OrderResult, error) {
	return models.OrderResult{OrderID: 1, Status: "NEW"}, nil
}
func (stubExchange) PlaceConditional(context.Context, string, models.Side, models.ConditionalKind, float64, float64) (models.OrderResult, error) {
	return models.OrderResult{OrderID: 2, Status: "NEW"}, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordingNotifier) Send(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordingNotifier) Sendf(format string, args ...any) { r.Send(fmt.Sprintf(format, args...)) }

func (r *recordingNotifier) contains(sub string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

func newTestServer(n *recordingNotifier) (*Server, *healthstate.State) {
	cfg := &config.Config{
		MaxOpenOrders:    6,
		Leverage:         5,
		CapitalCap:       100,
		TakeProfitOffset: 1.0,
		StopLossFactor:   0.01,
		QtyPrecision:     3,
		PricePrecision:   2,
	}
	svc := trade.NewService(context.Background(), cfg, stubExchange{}, n, journal.NewNoop())
	state := healthstate.NewState()
	return NewServer(svc, n, state), state
}

func TestAliveRoutes(t *testing.T) {
	srv, _ := newTestServer(&recordingNotifier{})

	for _, path := range []string{"/", "/heath-check"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "I'm alive!", rec.Body.String(), path)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no-such-route", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignalAccepted(t *testing.T) {
	n := &recordingNotifier{}
	srv, state := newTestServer(n)

	body := strings.NewReader(`{"pair":"ETH/USDT:USDT","rate":3000}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/trade/signal", body))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "accepted", rec.Body.String())
	assert.True(t, n.contains("🔔 New signal: ETH/USDT:USDT @ 3000"))
	assert.False(t, state.LastSignal().IsZero())
}

func TestSignalValidation(t *testing.T) {
	cases := []struct {
		name     string
		method   string
		body     string
		wantCode int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"broken json", http.MethodPost, `{"pair":`, http.StatusBadRequest},
		{"missing pair", http.MethodPost, `{"rate":3000}`, http.StatusBadRequest},
		{"zero rate", http.MethodPost, `{"pair":"ETH/USDT"}`, http.StatusBadRequest},
		{"negative rate", http.MethodPost, `{"pair":"ETH/USDT","rate":-1}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newTestServer(&recordingNotifier{})
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec,
				httptest.NewRequest(tc.method, "/trade/signal", strings.NewReader(tc.body)))
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

func TestBalanceRoute(t *testing.T) {
	n := &recordingNotifier{}
	srv, _ := newTestServer(n)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trade/balance", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.True(t, n.contains("💰 Total balance: 1000.00 USDT"))
}

func TestOpenOrdersRoute(t *testing.T) {
	n := &recordingNotifier{}
	srv, _ := newTestServer(n)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trade/open-orders", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, n.contains("📋 Open orders: 2 (limit 6)"))
}

package trade

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttnghia195/trade-signal-hook/internal/journal"
	"github.com/ttnghia195/trade-signal-hook/internal/models"
	"github.com/ttnghia195/trade-signal-hook/internal/modules/config"
)

type exchangeCall struct {
	name     string
	symbol   string
	side     models.Side
	kind     models.ConditionalKind
	trigger  float64
	qty      float64
	leverage int
}

// fakeExchange пишет все вызовы в журнал вызовов, ошибки шагов настраиваются.
type fakeExchange struct {
	mu sync.Mutex

	snap       models.AccountSnapshot
	openOrders int

	balanceErr     error
	countErr       error
	leverageErr    error
	marketErr      error
	conditionalErr map[models.ConditionalKind]error

	nextOrderID int64
	calls       []exchangeCall
}

func (f *fakeExchange) record(c exchangeCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeExchange) Balance(context.Context) (models.AccountSnapshot, error) {
	f.record(exchangeCall{name: "Balance"})
	if f.balanceErr != nil {
		return models.AccountSnapshot{}, f.balanceErr
	}
	return f.snap, nil
}

func (f *fakeExchange) OpenOrderCount(context.Context) (int, error) {
	f.record(exchangeCall{name: "OpenOrderCount"})
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.openOrders, nil
}

func (f *fakeExchange) SetLeverage(_ context.Context, symbol string, leverage int) error {
	f.record(exchangeCall{name: "SetLeverage", symbol: symbol, leverage: leverage})
	return f.leverageErr
}

func (f *fakeExchange) PlaceMarket(_ context.Context, symbol string, side models.Side, qty float64) (models.OrderResult, error) {
	f.record(exchangeCall{name: "PlaceMarket", symbol: symbol, side: side, qty: qty})
	if f.marketErr != nil {
		return models.OrderResult{}, f.marketErr
	}
	f.nextOrderID++
	return models.OrderResult{OrderID: f.nextOrderID, Status: "NEW"}, nil
}

func (f *fakeExchange) PlaceConditional(_ context.Context, symbol string, side models.Side, kind models.ConditionalKind, triggerPx, qty float64) (models.OrderResult, error) {
	f.record(exchangeCall{name: "PlaceConditional", symbol: symbol, side: side, kind: kind, trigger: triggerPx, qty: qty})
	if err := f.conditionalErr[kind]; err != nil {
		return models.OrderResult{}, err
	}
	f.nextOrderID++
	return models.OrderResult{OrderID: f.nextOrderID, Status: "NEW"}, nil
}

// названия мутирующих вызовов (ставят или меняют что-то на бирже)
func (f *fakeExchange) mutations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		switch c.name {
		case "SetLeverage", "PlaceMarket", "PlaceConditional":
			out = append(out, c.name)
		}
	}
	return out
}

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (f *fakeNotifier) Send(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
}

func (f *fakeNotifier) Sendf(format string, args ...any) { f.Send(fmt.Sprintf(format, args...)) }

func (f *fakeNotifier) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.msgs) == 0 {
		return ""
	}
	return f.msgs[len(f.msgs)-1]
}

func testConfig() *config.Config {
	return &config.Config{
		MaxOpenOrders:    6,
		Leverage:         5,
		CapitalCap:       100,
		TakeProfitOffset: 1.0,
		StopLossFactor:   0.01,
		QtyPrecision:     3,
		PricePrecision:   2,
	}
}

func newTestService(ex *fakeExchange, n *fakeNotifier) *Service {
	return NewService(context.Background(), testConfig(), ex, n, journal.NewNoop())
}

func TestPlaceBracketHappyPath(t *testing.T) {
	ex := &fakeExchange{
		snap:       models.AccountSnapshot{TotalBalance: 1000, AvailableBalance: 1000},
		openOrders: 2,
	}
	n := &fakeNotifier{}
	svc := newTestService(ex, n)

	err := svc.PlaceBracket(context.Background(), models.Signal{Pair: "ETH/USDT:USDT", Rate: 3000})
	require.NoError(t, err)

	require.Len(t, ex.calls, 6)
	assert.Equal(t, "OpenOrderCount", ex.calls[0].name)
	assert.Equal(t, "Balance", ex.calls[1].name)

	lev := ex.calls[2]
	assert.Equal(t, "SetLeverage", lev.name)
	assert.Equal(t, "ETHUSDT", lev.symbol)
	assert.Equal(t, 5, lev.leverage)

	entry := ex.calls[3]
	assert.Equal(t, "PlaceMarket", entry.name)
	assert.Equal(t, models.SideBuy, entry.side)
	assert.InDelta(t, 0.006, entry.qty, 1e-9)

	tp := ex.calls[4]
	assert.Equal(t, "PlaceConditional", tp.name)
	assert.Equal(t, models.ConditionalTakeProfit, tp.kind)
	assert.Equal(t, models.SideSell, tp.side)
	assert.InDelta(t, 3001.00, tp.trigger, 1e-9)
	assert.InDelta(t, 0.006, tp.qty, 1e-9)
}

func TestPlaceBracketPlacesStopAfterTakeProfit(t *testing.T) {
	ex := &fakeExchange{
		snap: models.AccountSnapshot{TotalBalance: 1000, AvailableBalance: 1000},
	}
	n := &fakeNotifier{}
	svc := newTestService(ex, n)

	err := svc.PlaceBracket(context.Background(), models.Signal{Pair: "ETH/USDT:USDT", Rate: 3000})
	require.NoError(t, err)

	require.Len(t, ex.calls, 6)
	sl := ex.calls[5]
	assert.Equal(t, "PlaceConditional", sl.name)
	assert.Equal(t, models.ConditionalStop, sl.kind)
	assert.Equal(t, models.SideSell, sl.side)
	// множитель стопа применяется к цене буквально: 3000 * 0.01
	assert.InDelta(t, 30.00, sl.trigger, 1e-9)

	msg := n.last()
	assert.Contains(t, msg, "✅ Buy 0.006 ETHUSDT @ 3000.00")
	assert.Contains(t, msg, "TP @ 3001.00, SL @ 30.00")
	assert.Contains(t, msg, "Placed orders: 1, 2, 3")
}

func TestPlaceBracketTooManyOpenOrders(t *testing.T) {
	ex := &fakeExchange{
		snap:       models.AccountSnapshot{TotalBalance: 1000, AvailableBalance: 1000},
		openOrders: 6,
	}
	n := &fakeNotifier{}
	svc := newTestService(ex, n)

	err := svc.PlaceBracket(context.Background(), models.Signal{Pair: "ETH/USDT:USDT", Rate: 3000})

	var berr *BracketError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, ReasonTooManyOpenOrders, berr.Reason)

	assert.Empty(t, ex.mutations())
	assert.Contains(t, n.last(), ReasonTooManyOpenOrders)
	assert.Contains(t, n.last(), "ETHUSDT")
}

func TestPlaceBracketBalanceUnavailable(t *testing.T) {
	ex := &fakeExchange{balanceErr: errors.New("api down")}
	n := &fakeNotifier{}
	svc := newTestService(ex, n)

	err := svc.PlaceBracket(context.Background(), models.Signal{Pair: "ETH/USDT", Rate: 3000})

	var berr *BracketError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, ReasonBalanceUnavailable, berr.Reason)
	assert.Empty(t, ex.mutations())
}

func TestPlaceBracketQuantityTooSmall(t *testing.T) {
	ex := &fakeExchange{
		snap: models.AccountSnapshot{TotalBalance: 500, AvailableBalance: 500},
	}
	n := &fakeNotifier{}
	svc := newTestService(ex, n)

	// 100/6 USDT на слот при цене 50000 округляется в нулевое количество
	err := svc.PlaceBracket(context.Background(), models.Signal{Pair: "BTC/USDT:USDT", Rate: 50000})

	var berr *BracketError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, ReasonQuantityTooSmall, berr.Reason)
	assert.Empty(t, ex.mutations())
}

func TestPlaceBracketLeverageFailure(t *testing.T) {
	ex := &fakeExchange{
		snap:        models.AccountSnapshot{TotalBalance: 1000, AvailableBalance: 1000},
		leverageErr: errors.New("leverage rejected"),
	}
	n := &fakeNotifier{}
	svc := newTestService(ex, n)

	err := svc.PlaceBracket(context.Background(), models.Signal{Pair: "ETH/USDT", Rate: 3000})

	var berr *BracketError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, ReasonLeverageSetFailed, berr.Reason)
	// до входа дело не дошло
	assert.Equal(t, []string{"SetLeverage"}, ex.mutations())
	assert.Contains(t, n.last(), ReasonLeverageSetFailed)
}

func TestPlaceBracketTakeProfitFailureLeavesNakedEntry(t *testing.T) {
	ex := &fakeExchange{
		snap: models.AccountSnapshot{TotalBalance: 1000, AvailableBalance: 1000},
		conditionalErr: map[models.ConditionalKind]error{
			models.ConditionalTakeProfit: errors.New("tp rejected"),
		},
	}
	n := &fakeNotifier{}
	svc := newTestService(ex, n)

	err := svc.PlaceBracket(context.Background(), models.Signal{Pair: "ETH/USDT", Rate: 3000})

	var berr *BracketError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, ReasonTakeProfitOrderFailed, berr.Reason)

	// вход остался на бирже, стоп уже не ставился
	assert.Equal(t, []string{"SetLeverage", "PlaceMarket", "PlaceConditional"}, ex.mutations())
	assert.Contains(t, n.last(), ReasonTakeProfitOrderFailed)
}

func TestPlaceBracketStopLossFailure(t *testing.T) {
	ex := &fakeExchange{
		snap: models.AccountSnapshot{TotalBalance: 1000, AvailableBalance: 1000},
		conditionalErr: map[models.ConditionalKind]error{
			models.ConditionalStop: errors.New("sl rejected"),
		},
	}
	n := &fakeNotifier{}
	svc := newTestService(ex, n)

	err := svc.PlaceBracket(context.Background(), models.Signal{Pair: "ETH/USDT", Rate: 3000})

	var berr *BracketError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, ReasonStopLossOrderFailed, berr.Reason)
	assert.Equal(t, []string{"SetLeverage", "PlaceMarket", "PlaceConditional", "PlaceConditional"}, ex.mutations())
}

func TestBracketErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &BracketError{Reason: ReasonEntryOrderFailed, Err: cause}

	assert.Equal(t, "EntryOrderFailed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ReasonQuantityTooSmall, (&BracketError{Reason: ReasonQuantityTooSmall}).Error())
}

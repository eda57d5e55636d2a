package service

import (
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	healthstate "github.com/ttnghia195/trade-signal-hook/internal/modules/health/service"
	"github.com/ttnghia195/trade-signal-hook/internal/notify"
	"github.com/ttnghia195/trade-signal-hook/internal/trade"
	"github.com/ttnghia195/trade-signal-hook/pkg/logger"
)

// Server — публичная HTTP-поверхность: приём сигналов и отчёты по запросу.
// Вся логика дальше — в trade.Service; здесь только парсинг и маршрутизация.
type Server struct {
	mux   *http.ServeMux
	trade *trade.Service
	n     notify.Notifier
	state *healthstate.State
}

type signalRequest struct {
	Pair string  `json:"pair"`
	Rate float64 `json:"rate"`
}

func NewServer(svc *trade.Service, n notify.Notifier, state *healthstate.State) *Server {
	s := &Server{
		mux:   http.NewServeMux(),
		trade: svc,
		n:     n,
		state: state,
	}

	s.mux.HandleFunc("/trade/signal", s.handleSignal)
	s.mux.HandleFunc("/trade/balance", s.handleBalance)
	s.mux.HandleFunc("/trade/open-orders", s.handleOpenOrders)
	// маршрут с опечаткой живёт у алертеров в настройках — не трогать
	s.mux.HandleFunc("/heath-check", s.handleAlive)
	s.mux.HandleFunc("/", s.handleAlive)

	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) handleAlive(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/heath-check" {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte("I'm alive!"))
}

// POST /trade/signal {"pair":"BTC/USDT:USDT","rate":50000}
// Отвечаем 202 сразу: алертер не должен ждать биржу.
func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<16))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	var req signalRequest
	if err := sonic.Unmarshal(body, &req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Pair == "" || req.Rate <= 0 {
		http.Error(w, "pair and rate are required", http.StatusBadRequest)
		return
	}

	logger.Info("signal accepted: %s @ %v", req.Pair, req.Rate)
	s.state.TouchSignal(time.Now())
	s.n.Sendf("🔔 New signal: %s @ %v", req.Pair, req.Rate)

	s.trade.HandleSignal(req.Pair, req.Rate)

	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte("accepted"))
}

// GET /trade/balance — свежий срез счёта уходит оператору в нотификацию.
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.n.Send(s.trade.AccountSummaryText(r.Context()))
	_, _ = w.Write([]byte("ok"))
}

// GET /trade/open-orders
func (s *Server) handleOpenOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.n.Send(s.trade.OpenOrderSummaryText(r.Context()))
	_, _ = w.Write([]byte("ok"))
}

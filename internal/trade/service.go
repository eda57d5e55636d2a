package trade

import (
	"context"

	"github.com/ttnghia195/trade-signal-hook/internal/journal"
	"github.com/ttnghia195/trade-signal-hook/internal/models"
	"github.com/ttnghia195/trade-signal-hook/internal/modules/config"
	"github.com/ttnghia195/trade-signal-hook/internal/notify"
	"github.com/ttnghia195/trade-signal-hook/pkg/logger"
)

// Exchange — то, что ядру нужно от биржи. Клиент инжектится снаружи,
// в тестах подменяется дублем.
type Exchange interface {
	Balance(ctx context.Context) (models.AccountSnapshot, error)
	OpenOrderCount(ctx context.Context) (int, error)
	SetLeverage(ctx context.Context, symbol string, leverage int) error
	PlaceMarket(ctx context.Context, symbol string, side models.Side, qty float64) (models.OrderResult, error)
	PlaceConditional(ctx context.Context, symbol string, side models.Side, kind models.ConditionalKind, triggerPx, qty float64) (models.OrderResult, error)
}

type Service struct {
	// базовый контекст процесса: прогон брекета переживает HTTP-запрос,
	// который его принёс
	ctx context.Context

	cfg *config.Config
	ex  Exchange
	n   notify.Notifier
	jr  journal.Journal
}

func NewService(
	ctx context.Context,
	cfg *config.Config,
	ex Exchange,
	n notify.Notifier,
	jr journal.Journal,
) *Service {
	return &Service{
		ctx: ctx,
		cfg: cfg,
		ex:  ex,
		n:   n,
		jr:  jr,
	}
}

// HandleSignal — fire-and-forget вход ядра: транспорт не ждёт результата.
// Каждый сигнал — независимый прогон; дедупликации по символу/цене нет,
// два одинаковых сигнала дадут два брекета.
func (s *Service) HandleSignal(pair string, rate float64) {
	sig := models.Signal{Pair: pair, Rate: rate}

	if err := s.jr.Signal(s.ctx, sig); err != nil {
		logger.Error("journal signal: %v", err)
	}

	go func() {
		// ошибка уже разослана и залогирована внутри
		_ = s.PlaceBracket(s.ctx, sig)
	}()
}

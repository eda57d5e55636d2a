package journal

import (
	"context"

	"github.com/ttnghia195/trade-signal-hook/internal/models"
)

// Journal — append-only аудит принятых сигналов и выставленных брекетов.
// Торговый путь только пишет сюда; обратно в решения ничего не читается.
type Journal interface {
	Signal(ctx context.Context, sig models.Signal) error
	Bracket(ctx context.Context, rec models.BracketRecord) error
}

// Noop — журнал выключен (нет DSN базы).
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (*Noop) Signal(context.Context, models.Signal) error         { return nil }
func (*Noop) Bracket(context.Context, models.BracketRecord) error { return nil }

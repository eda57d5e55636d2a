package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ttnghia195/trade-signal-hook/pkg/logger"
)

// Notifier — односторонний канал к оператору. Сбой доставки логируется
// и никогда не влияет на торговый результат.
type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// Reporter — read-only отчёты, которые дергают команды бота.
// Реализуется торговым сервисом, подключается после сборки графа
// (иначе цикл: сервис сам шлёт через Notifier).
type Reporter interface {
	AccountSummaryText(ctx context.Context) string
	OpenOrderSummaryText(ctx context.Context) string
}

// PriceSource — кэш mark price + REST-фоллбэк для команды /price.
type PriceSource interface {
	GetPrice(symbol string) float64
	MarkPrice(ctx context.Context, symbol string) (float64, error)
}

// Telegram — пассивный нотифайер + обработка команд /balance, /orders, /price.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64

	reporter Reporter
	prices   PriceSource
}

func NewTelegram(token string, chatID int64, prices PriceSource) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{
		bot:    b,
		chatID: chatID,
		prices: prices,
	}, nil
}

// AttachReporter вызывается из fx.Invoke после того, как торговый сервис собран.
func (t *Telegram) AttachReporter(r Reporter) { t.reporter = r }

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		logger.Error("telegram send failed: %v", err)
	}
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

func (t *Telegram) handleBalance(ctx context.Context) {
	if t.reporter == nil {
		t.Send("❗️ Reporter not attached")
		return
	}
	t.Send(t.reporter.AccountSummaryText(ctx))
}

func (t *Telegram) handleOrders(ctx context.Context) {
	if t.reporter == nil {
		t.Send("❗️ Reporter not attached")
		return
	}
	t.Send(t.reporter.OpenOrderSummaryText(ctx))
}

// /price SYMBOL — из WS-кэша, при промахе разовый REST.
func (t *Telegram) handlePrice(ctx context.Context, args string) {
	symbol := strings.ToUpper(strings.TrimSpace(args))
	if symbol == "" {
		t.Send("Usage: /price BTCUSDT")
		return
	}
	if t.prices == nil {
		t.Send("❗️ Price source not configured")
		return
	}
	if px := t.prices.GetPrice(symbol); px > 0 {
		t.Sendf("📈 %s mark price: %.4f", symbol, px)
		return
	}
	px, err := t.prices.MarkPrice(ctx, symbol)
	if err != nil {
		t.Sendf("❗️ Failed to get mark price for %s: %v", symbol, err)
		return
	}
	t.Sendf("📈 %s mark price: %.4f", symbol, px)
}

// Start: long-polling только по своему чату.
func (t *Telegram) Start(ctx context.Context) error {
	if t == nil || t.bot == nil {
		return nil
	}

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-updates:
				if upd.Message == nil || upd.Message.Chat == nil ||
					upd.Message.Chat.ID != t.chatID || !upd.Message.IsCommand() {
					continue
				}

				switch upd.Message.Command() {
				case "balance":
					go t.handleBalance(ctx)
				case "orders":
					go t.handleOrders(ctx)
				case "price":
					go t.handlePrice(ctx, upd.Message.CommandArguments())
				}
			}
		}
	}()
	return nil
}

func (t *Telegram) Stop() {}

// Stdout — заглушка без токена: всё в лог.
type Stdout struct{}

func NewStdout() *Stdout                           { return &Stdout{} }
func (s *Stdout) Send(msg string)                  { log.Println(msg) }
func (s *Stdout) Sendf(format string, args ...any) { log.Printf(format, args...) }

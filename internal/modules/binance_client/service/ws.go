package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/ttnghia195/trade-signal-hook/pkg/logger"
)

// StreamMarkPrice — поток mark price по символу (кадр раз в ~3 секунды).
// Обновляет кэш цен и переподключается сам. Binance шлёт ping со своей
// стороны, gorilla отвечает pong дефолтным хендлером — свой ping-цикл
// здесь не нужен.
func (c *Client) StreamMarkPrice(ctx context.Context, symbol string) <-chan float64 {
	ch := make(chan float64)
	go func() {
		defer close(ch)

		url := c.wsURL + "/ws/" + strings.ToLower(symbol) + "@markPrice"
		retry := 0
		for {
			conn, _, err := c.wsDialer.Dial(url, nil)
			if err != nil {
				retry++
				if retry > 8 {
					logger.Error("[WS] %s dial gave up: %v", symbol, err)
					return
				}
				time.Sleep(time.Duration(300*retry) * time.Millisecond)
				continue
			}
			retry = 0
			logger.Info("[WS] %s mark-price connected", symbol)

			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					logger.Error("[WS] %s read error: %v", symbol, err)
					_ = conn.Close()
					break
				}

				var frame struct {
					Event string `json:"e"`
					Price string `json:"p"`
				}
				if err := sonic.Unmarshal(msg, &frame); err != nil || frame.Event != "markPriceUpdate" {
					continue
				}
				px, err := strconv.ParseFloat(frame.Price, 64)
				if err != nil || px <= 0 {
					continue
				}

				c.SetPrice(symbol, px)
				select {
				case ch <- px:
				case <-ctx.Done():
					_ = conn.Close()
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			default:
				time.Sleep(time.Second)
			}
		}
	}()
	return ch
}

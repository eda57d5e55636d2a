package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"

	"github.com/ttnghia195/trade-signal-hook/internal/models"
)

// Balance читает фьючерсный баланс и выбирает USDT-актив.
// Никогда не кэшируется: баланс меняется с каждым филлом.
func (c *Client) Balance(ctx context.Context) (models.AccountSnapshot, error) {
	rb, err := c.signedRequest(ctx, http.MethodGet, "/fapi/v2/balance", nil)
	if err != nil {
		return models.AccountSnapshot{}, fmt.Errorf("Balance: %w", err)
	}

	var assets []struct {
		Asset            string `json:"asset"`
		Balance          string `json:"balance"`
		AvailableBalance string `json:"availableBalance"`
	}
	if err := sonic.Unmarshal(rb, &assets); err != nil {
		return models.AccountSnapshot{}, fmt.Errorf("Balance decode: %w; body=%s", err, string(rb))
	}

	for _, a := range assets {
		if a.Asset != "USDT" {
			continue
		}
		total, err := strconv.ParseFloat(a.Balance, 64)
		if err != nil {
			return models.AccountSnapshot{}, fmt.Errorf("Balance parse total: %w (%q)", err, a.Balance)
		}
		avail, err := strconv.ParseFloat(a.AvailableBalance, 64)
		if err != nil {
			return models.AccountSnapshot{}, fmt.Errorf("Balance parse available: %w (%q)", err, a.AvailableBalance)
		}
		return models.AccountSnapshot{
			TotalBalance:     total,
			AvailableBalance: avail,
		}, nil
	}

	return models.AccountSnapshot{}, fmt.Errorf("USDT balance not found")
}

package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bytedance/sonic"

	"github.com/ttnghia195/trade-signal-hook/internal/helper"
	"github.com/ttnghia195/trade-signal-hook/internal/models"
)

// PlaceMarket — рыночный вход. Количество форматируется до торговой
// точности инструмента, иначе биржа отобьёт с LOT_SIZE.
func (c *Client) PlaceMarket(
	ctx context.Context,
	symbol string,
	side models.Side,
	qty float64,
) (models.OrderResult, error) {
	if qty <= 0 {
		return models.OrderResult{}, fmt.Errorf("PlaceMarket: qty <= 0")
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", string(side))
	params.Set("type", "MARKET")
	params.Set("quantity", helper.FormatQty(qty, c.qtyPrec))

	rb, err := c.signedRequest(ctx, http.MethodPost, "/fapi/v1/order", params)
	if err != nil {
		return models.OrderResult{}, fmt.Errorf("PlaceMarket: %w", err)
	}

	var r struct {
		OrderID int64  `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := sonic.Unmarshal(rb, &r); err != nil {
		return models.OrderResult{}, fmt.Errorf("PlaceMarket decode: %w; body=%s", err, string(rb))
	}
	if r.OrderID == 0 {
		return models.OrderResult{}, fmt.Errorf("PlaceMarket: empty orderId; body=%s", string(rb))
	}

	return models.OrderResult{OrderID: r.OrderID, Status: r.Status}, nil
}

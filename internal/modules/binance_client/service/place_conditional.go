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

// PlaceConditional ставит условную ногу брекета: TAKE_PROFIT_MARKET или
// STOP_MARKET по триггерной цене. priceProtect=TRUE — как в исходном боте,
// защита от исполнения по раздвинутому last при тонком стакане.
func (c *Client) PlaceConditional(
	ctx context.Context,
	symbol string,
	side models.Side,
	kind models.ConditionalKind,
	triggerPx float64,
	qty float64,
) (models.OrderResult, error) {
	if qty <= 0 {
		return models.OrderResult{}, fmt.Errorf("PlaceConditional: qty <= 0")
	}
	if triggerPx <= 0 {
		return models.OrderResult{}, fmt.Errorf("PlaceConditional: triggerPx <= 0")
	}

	var ordType string
	switch kind {
	case models.ConditionalTakeProfit:
		ordType = "TAKE_PROFIT_MARKET"
	case models.ConditionalStop:
		ordType = "STOP_MARKET"
	default:
		return models.OrderResult{}, fmt.Errorf("PlaceConditional: unsupported kind=%q", kind)
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", string(side))
	params.Set("type", ordType)
	params.Set("stopPrice", helper.FormatPrice(triggerPx, c.pricePrec))
	params.Set("quantity", helper.FormatQty(qty, c.qtyPrec))
	params.Set("priceProtect", "TRUE")

	rb, err := c.signedRequest(ctx, http.MethodPost, "/fapi/v1/order", params)
	if err != nil {
		return models.OrderResult{}, fmt.Errorf("PlaceConditional %s: %w", ordType, err)
	}

	var r struct {
		OrderID int64  `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := sonic.Unmarshal(rb, &r); err != nil {
		return models.OrderResult{}, fmt.Errorf("PlaceConditional decode: %w; body=%s", err, string(rb))
	}
	if r.OrderID == 0 {
		return models.OrderResult{}, fmt.Errorf("PlaceConditional: empty orderId; body=%s", string(rb))
	}

	return models.OrderResult{OrderID: r.OrderID, Status: r.Status}, nil
}

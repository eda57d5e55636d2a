package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bytedance/sonic"
)

// MarkPrice — разовый REST-запрос mark price (фоллбэк, когда кэш WS пуст).
func (c *Client) MarkPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	rb, err := c.publicRequest(ctx, "/fapi/v1/premiumIndex", params)
	if err != nil {
		return 0, fmt.Errorf("MarkPrice: %w", err)
	}

	var r struct {
		Symbol    string `json:"symbol"`
		MarkPrice string `json:"markPrice"`
	}
	if err := sonic.Unmarshal(rb, &r); err != nil {
		return 0, fmt.Errorf("MarkPrice decode: %w; body=%s", err, string(rb))
	}

	px, err := strconv.ParseFloat(r.MarkPrice, 64)
	if err != nil || px <= 0 {
		return 0, fmt.Errorf("MarkPrice parse: %v (%q)", err, r.MarkPrice)
	}

	c.SetPrice(symbol, px)
	return px, nil
}

package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bytedance/sonic"
)

// SetLeverage выставляет плечо по символу. Без подтверждённого плеча
// вход не размещается — маржа была бы посчитана не тем множителем.
func (c *Client) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	if leverage <= 0 {
		return fmt.Errorf("SetLeverage: leverage <= 0")
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("leverage", strconv.Itoa(leverage))

	rb, err := c.signedRequest(ctx, http.MethodPost, "/fapi/v1/leverage", params)
	if err != nil {
		return fmt.Errorf("SetLeverage: %w", err)
	}

	var r struct {
		Leverage int    `json:"leverage"`
		Symbol   string `json:"symbol"`
	}
	if err := sonic.Unmarshal(rb, &r); err != nil {
		return fmt.Errorf("SetLeverage decode: %w; body=%s", err, string(rb))
	}
	if r.Leverage != leverage {
		return fmt.Errorf("SetLeverage: requested %dx, exchange confirmed %dx", leverage, r.Leverage)
	}
	return nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
)

// OpenOrderCount — число висящих ордеров по всему счёту.
// Читается свежим перед каждым новым брекетом.
func (c *Client) OpenOrderCount(ctx context.Context) (int, error) {
	rb, err := c.signedRequest(ctx, http.MethodGet, "/fapi/v1/openOrders", nil)
	if err != nil {
		return 0, fmt.Errorf("OpenOrderCount: %w", err)
	}

	var orders []json.RawMessage
	if err := sonic.Unmarshal(rb, &orders); err != nil {
		return 0, fmt.Errorf("OpenOrderCount decode: %w; body=%s", err, string(rb))
	}
	return len(orders), nil
}

package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

// Client — REST/WS клиент Binance USDT-M futures. По умолчанию смотрит
// на тестнет (см. конфиг), боевой base_url включается явно.
type Client struct {
	http     *http.Client
	wsDialer *websocket.Dialer

	baseURL string
	wsURL   string

	apiKey    string
	apiSecret string

	qtyPrec   int
	pricePrec int

	mu     sync.RWMutex
	prices map[string]float64
}

func NewClient(baseURL, wsURL string, qtyPrec, pricePrec int) *Client {
	return &Client{
		http:      &http.Client{Timeout: 10 * time.Second},
		wsDialer:  &websocket.Dialer{},
		baseURL:   baseURL,
		wsURL:     wsURL,
		qtyPrec:   qtyPrec,
		pricePrec: pricePrec,
		prices:    make(map[string]float64),
	}
}

func (c *Client) SetCreds(key, secret string) { c.apiKey, c.apiSecret = key, secret }

func (c *Client) SetPrice(symbol string, price float64) {
	c.mu.Lock()
	c.prices[symbol] = price
	c.mu.Unlock()
}

func (c *Client) GetPrice(symbol string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prices[symbol]
}

// sign — HMAC-SHA256 от query string, hex (подпись USDT-M API).
func (c *Client) sign(queryString string) string {
	h := hmac.New(sha256.New, []byte(c.apiSecret))
	h.Write([]byte(queryString))
	return hex.EncodeToString(h.Sum(nil))
}

// signedRequest выполняет подписанный запрос. Binance принимает параметры
// и для POST в query string, поэтому тело всегда пустое.
func (c *Client) signedRequest(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	if c.apiKey == "" || c.apiSecret == "" {
		return nil, errors.New("api creds empty")
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("recvWindow", "5000")
	params.Set("timestamp", fmt.Sprintf("%d", time.Now().UTC().UnixMilli()))

	query := params.Encode()
	full := c.baseURL + path + "?" + query + "&signature=" + c.sign(query)

	req, err := http.NewRequestWithContext(ctx, method, full, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	rb, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		// биржа отдаёт {code,msg} и на 4xx, и на 5xx
		var apiErr struct {
			Code int    `json:"code"`
			Msg  string `json:"msg"`
		}
		if err := sonic.Unmarshal(rb, &apiErr); err == nil && apiErr.Code != 0 {
			return nil, fmt.Errorf("binance error: code=%d msg=%s", apiErr.Code, apiErr.Msg)
		}
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(rb))
	}
	return rb, nil
}

// publicRequest — запрос без подписи (публичные маркет-данные).
func (c *Client) publicRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	full := c.baseURL + path
	if len(params) > 0 {
		full += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	rb, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(rb))
	}
	return rb, nil
}

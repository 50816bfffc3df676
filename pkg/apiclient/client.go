// Package apiclient talks to the storefront API the way the web checkout
// does: create an order, then submit its manual payment.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrRejected = errors.New("api rejected request")

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type Billing struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type OrderItem struct {
	ProductID      string `json:"productId"`
	DenominationID string `json:"denominationId"`
	Quantity       int    `json:"quantity"`
	GameUID        string `json:"gameUid,omitempty"`
	Server         string `json:"server,omitempty"`
	PlayerID       string `json:"playerId,omitempty"`
}

type OrderInput struct {
	Items         []OrderItem `json:"items"`
	BillingInfo   Billing     `json:"billingInfo"`
	PaymentMethod string      `json:"paymentMethod"`
}

type Order struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	UserID        string          `json:"userId"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"paymentStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type ManualPayment struct {
	OrderID       string          `json:"orderId"`
	PaymentMethod string          `json:"paymentMethod"`
	SenderNumber  string          `json:"senderNumber"`
	SenderName    string          `json:"senderName,omitempty"`
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// CreateOrder places an order for the token's user, or a guest order when
// token is empty.
func (c *Client) CreateOrder(ctx context.Context, token string, in OrderInput) (*Order, error) {
	path := "/api/orders"
	if token == "" {
		path = "/api/orders/guest"
	}

	var data struct {
		Order *Order `json:"order"`
	}
	if err := c.post(ctx, path, token, in, &data); err != nil {
		return nil, err
	}
	if data.Order == nil || data.Order.ID == "" {
		return nil, fmt.Errorf("%w: response has no order", ErrRejected)
	}
	return data.Order, nil
}

func (c *Client) SubmitManualPayment(ctx context.Context, token string, p ManualPayment) error {
	return c.post(ctx, "/api/payments/manual", token, p, nil)
}

func (c *Client) post(ctx context.Context, path, token string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w (status %d)", err, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		return fmt.Errorf("%w: %s %d: %s", ErrRejected, path, resp.StatusCode, env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

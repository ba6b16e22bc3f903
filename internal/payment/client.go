// Package payment integrates the hosted-checkout provider: an HTTP client
// for creating sessions and a verifier for the signed webhook callbacks.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trailbound/trailbound-go/internal/config"
	"github.com/trailbound/trailbound-go/internal/domain/service"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

const requestTimeout = 15 * time.Second

// Client talks to the checkout provider's session endpoint.
type Client struct {
	http     *http.Client
	endpoint string
	secret   string
	currency string
}

var _ service.PaymentGateway = (*Client)(nil)

// NewClient creates a payment client from configuration.
func NewClient(cfg *config.PaymentConfig) *Client {
	return &Client{
		http:     &http.Client{Timeout: requestTimeout},
		endpoint: cfg.Endpoint,
		secret:   cfg.SecretKey,
		currency: cfg.Currency,
	}
}

// sessionResponse is the provider's session document.
type sessionResponse struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	AmountTotal int64  `json:"amount_total"`
	Currency    string `json:"currency"`
}

// CreateCheckoutSession opens a hosted checkout session. Amounts go over
// the wire in the currency's minor unit.
func (c *Client) CreateCheckoutSession(ctx context.Context, params service.CheckoutParams) (*service.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("customer_email", params.CustomerEmail)
	form.Set("client_reference_id", params.ClientReference)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", c.currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(toMinorUnit(params.Amount), 10))
	form.Set("line_items[0][price_data][product_data][name]", params.TourName+" Tour")
	form.Set("line_items[0][price_data][product_data][description]", params.TourSummary)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checkout request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.ErrInternalError.
			WithMessage("Could not start the payment session. Please try again.").
			WithError(fmt.Errorf("provider status %d: %s", resp.StatusCode, body))
	}

	var session sessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &service.CheckoutSession{
		ID:       session.ID,
		URL:      session.URL,
		Amount:   fromMinorUnit(session.AmountTotal),
		Currency: session.Currency,
	}, nil
}

func toMinorUnit(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

func fromMinorUnit(amount int64) float64 {
	return float64(amount) / 100
}

// Package payment creates and verifies hosted payment links with Razorpay.
package payment

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/httpclient"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/retry"
)

// DefaultBaseURL is the Razorpay API root.
const DefaultBaseURL = "https://api.razorpay.com/v1"

// statusPaid is the payment link status once the customer has paid.
const statusPaid = "paid"

// Config holds the Razorpay credentials.
type Config struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Timeout   time.Duration
}

// Gateway implements domain.PaymentGateway on Razorpay payment links.
type Gateway struct {
	// create is never retried so a link is not issued twice.
	create *httpclient.Client
	query  *httpclient.Client
	logger *logger.Logger
}

type linkRequest struct {
	Amount         int64        `json:"amount"`
	Currency       string       `json:"currency"`
	Description    string       `json:"description"`
	Customer       linkCustomer `json:"customer"`
	Notify         linkNotify   `json:"notify"`
	ReminderEnable bool         `json:"reminder_enable"`
}

type linkCustomer struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

type linkNotify struct {
	SMS   bool `json:"sms"`
	Email bool `json:"email"`
}

type linkResponse struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Status   string `json:"status"`
}

// NewGateway creates a gateway. httpClient may be nil.
func NewGateway(cfg Config, httpClient *http.Client, log *logger.Logger) (*Gateway, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, errors.New("razorpay key id and secret are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	auth := base64.StdEncoding.EncodeToString([]byte(cfg.KeyID + ":" + cfg.KeySecret))
	base := httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Headers: map[string]string{"Authorization": "Basic " + auth},
	}

	createCfg := base
	createCfg.Retry = retry.ProviderConfig.WithMaxAttempts(1)
	queryCfg := base
	queryCfg.Retry = retry.ProviderConfig

	return &Gateway{
		create: httpclient.New(createCfg, httpClient),
		query:  httpclient.New(queryCfg, httpClient),
		logger: logger.OrNop(log).WithContext("component", "razorpay"),
	}, nil
}

// CreatePaymentLink issues a payment link for amount, given in major units.
func (g *Gateway) CreatePaymentLink(ctx context.Context, amount float64, currency, description string, customer domain.Customer) (domain.PaymentLink, error) {
	if amount <= 0 {
		return domain.PaymentLink{}, domain.NewPaymentServiceError("create link", fmt.Errorf("amount must be positive, got %.2f", amount))
	}
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	req := linkRequest{
		Amount:      ToMinorUnits(amount),
		Currency:    strings.ToUpper(currency),
		Description: description,
		Customer: linkCustomer{
			Name:    customer.Name,
			Email:   customer.Email,
			Contact: customer.Phone,
		},
		Notify:         linkNotify{SMS: customer.Phone != "", Email: customer.Email != ""},
		ReminderEnable: true,
	}

	var resp linkResponse
	if err := g.create.PostJSON(ctx, "/payment_links", req, &resp); err != nil {
		return domain.PaymentLink{}, domain.NewPaymentServiceError("create link", err)
	}
	if resp.ID == "" || resp.ShortURL == "" {
		return domain.PaymentLink{}, domain.NewPaymentServiceError("create link", errors.New("response missing link id or url"))
	}

	g.logger.Info().Str("payment_id", resp.ID).Int64("amount_minor", req.Amount).Msg("payment link created")
	return domain.PaymentLink{ID: resp.ID, URL: resp.ShortURL}, nil
}

// Verify reports whether the payment link has been paid.
func (g *Gateway) Verify(ctx context.Context, paymentID string) (bool, error) {
	if paymentID == "" {
		return false, domain.NewPaymentServiceError("verify", errors.New("payment id is required"))
	}

	var resp linkResponse
	if err := g.query.GetJSON(ctx, "/payment_links/"+url.PathEscape(paymentID), nil, &resp); err != nil {
		return false, domain.NewPaymentServiceError("verify", err)
	}

	g.logger.Debug().Str("payment_id", paymentID).Str("status", resp.Status).Msg("payment link checked")
	return resp.Status == statusPaid, nil
}

// ToMinorUnits converts an amount to paise, rounding to the nearest unit.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

var _ domain.PaymentGateway = (*Gateway)(nil)

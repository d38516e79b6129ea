package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
)

// PaymentGateway is an in-memory domain.PaymentGateway. Links are numbered
// in creation order and stay unpaid until MarkPaid is called.
type PaymentGateway struct {
	mu        sync.Mutex
	links     []domain.PaymentLink
	amounts   map[string]float64
	paid      map[string]bool
	createErr error
	verifyErr error
}

// NewPaymentGateway creates a gateway with no links.
func NewPaymentGateway() *PaymentGateway {
	return &PaymentGateway{
		amounts: make(map[string]float64),
		paid:    make(map[string]bool),
	}
}

// WithCreateError makes CreatePaymentLink fail with err.
func (g *PaymentGateway) WithCreateError(err error) *PaymentGateway {
	g.createErr = err
	return g
}

// WithVerifyError makes Verify fail with err.
func (g *PaymentGateway) WithVerifyError(err error) *PaymentGateway {
	g.verifyErr = err
	return g
}

// CreatePaymentLink implements domain.PaymentGateway.
func (g *PaymentGateway) CreatePaymentLink(ctx context.Context, amount float64, currency, description string, customer domain.Customer) (domain.PaymentLink, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return domain.PaymentLink{}, g.createErr
	}
	id := fmt.Sprintf("plink_%d", len(g.links)+1)
	link := domain.PaymentLink{ID: id, URL: "https://rzp.io/i/" + id}
	g.links = append(g.links, link)
	g.amounts[id] = amount
	return link, nil
}

// Verify implements domain.PaymentGateway.
func (g *PaymentGateway) Verify(ctx context.Context, paymentID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.verifyErr != nil {
		return false, g.verifyErr
	}
	return g.paid[paymentID], nil
}

// MarkPaid settles the link with the given id.
func (g *PaymentGateway) MarkPaid(id string) {
	g.mu.Lock()
	g.paid[id] = true
	g.mu.Unlock()
}

// Links returns every link created so far.
func (g *PaymentGateway) Links() []domain.PaymentLink {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]domain.PaymentLink(nil), g.links...)
}

// Amount returns the amount the link was created for.
func (g *PaymentGateway) Amount(id string) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.amounts[id]
}

// AlertSink records delivered alerts and publishes each one on Alerts.
type AlertSink struct {
	mu     sync.Mutex
	alerts []domain.PriceAlert
	ch     chan domain.PriceAlert
}

// NewAlertSink creates a sink whose channel buffers up to 16 alerts.
func NewAlertSink() *AlertSink {
	return &AlertSink{ch: make(chan domain.PriceAlert, 16)}
}

// Notify implements domain.AlertSink.
func (s *AlertSink) Notify(ctx context.Context, alert domain.PriceAlert) error {
	s.mu.Lock()
	s.alerts = append(s.alerts, alert)
	s.mu.Unlock()
	select {
	case s.ch <- alert:
	default:
	}
	return nil
}

// Alerts is signalled once per delivered alert.
func (s *AlertSink) Alerts() <-chan domain.PriceAlert {
	return s.ch
}

// Delivered returns every alert received so far.
func (s *AlertSink) Delivered() []domain.PriceAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.PriceAlert(nil), s.alerts...)
}

var (
	_ domain.PaymentGateway = (*PaymentGateway)(nil)
	_ domain.AlertSink      = (*AlertSink)(nil)
)

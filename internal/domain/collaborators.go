package domain

import "context"

//go:generate mockgen -source=collaborators.go -destination=mock_collaborators.go -package=domain

// BookingStore persists booking intents. The core calls it at state
// transitions but owns neither schema nor transactions.
type BookingStore interface {
	SaveBookingIntent(ctx context.Context, userID string, intent BookingIntent) (string, error)
	UpdateStatus(ctx context.Context, id string, status PaymentStatus, details map[string]interface{}) error
	AttachPayment(ctx context.Context, id, paymentID, paymentURL string) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	GetBookingsForUser(ctx context.Context, userID string) ([]Booking, error)
}

// PaymentLink is a hosted payment page created by the gateway.
type PaymentLink struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentGateway creates payment links and verifies them. Both calls are
// remote and fail with a PaymentServiceError.
type PaymentGateway interface {
	CreatePaymentLink(ctx context.Context, amount float64, currency, description string, customer Customer) (PaymentLink, error)
	Verify(ctx context.Context, paymentID string) (bool, error)
}

// AlertSink delivers price alerts.
type AlertSink interface {
	Notify(ctx context.Context, alert PriceAlert) error
}

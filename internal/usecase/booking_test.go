package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
)

type bookingFixture struct {
	provider *domain.MockProvider
	store    *domain.MockBookingStore
	payments *domain.MockPaymentGateway
	service  *BookingService
}

func newBookingFixture(t *testing.T, kind domain.Kind) *bookingFixture {
	ctrl := gomock.NewController(t)
	f := &bookingFixture{
		provider: domain.NewMockProvider(ctrl),
		store:    domain.NewMockBookingStore(ctrl),
		payments: domain.NewMockPaymentGateway(ctrl),
	}
	f.provider.EXPECT().Name().Return("makemytrip").AnyTimes()
	f.provider.EXPECT().Kind().Return(kind).AnyTimes()
	f.service = NewBookingService(registryOf(f.provider), f.store, f.payments, "", nil)
	return f
}

var customer = domain.Customer{Name: "Asha", Email: "asha@example.com"}

// ===== Initiate Tests =====

func TestBookingService_Initiate_ProviderHostedPayment(t *testing.T) {
	f := newBookingFixture(t, domain.KindHotel)
	details := domain.SelectionDetails{UserID: "u-1", Units: []string{"R1"}, Customer: customer, Guests: 2}

	f.provider.EXPECT().InitiateSelection(gomock.Any(), "H-9", details).
		Return(domain.SelectionResult{ProviderReference: "MMT-1", PaymentURL: "https://pay.mmt/1", TotalAmount: 4200}, nil)
	f.store.EXPECT().SaveBookingIntent(gomock.Any(), "u-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, intent domain.BookingIntent) (string, error) {
			assert.Equal(t, domain.BookingHotel, intent.BookingType)
			assert.Equal(t, "makemytrip", intent.Provider)
			assert.Equal(t, "MMT-1", intent.ProviderReference)
			assert.Equal(t, domain.PaymentPending, intent.PaymentStatus)
			assert.Equal(t, 4200.0, intent.TotalAmount)
			assert.Equal(t, 2, intent.RawDetails["guests"])
			return "b-1", nil
		})
	f.store.EXPECT().AttachPayment(gomock.Any(), "b-1", "", "https://pay.mmt/1").Return(nil)

	res, err := f.service.Initiate(context.Background(), InitiateRequest{Provider: "makemytrip", ExternalID: "H-9", Details: details})

	require.NoError(t, err)
	assert.Equal(t, InitiateResult{BookingID: "b-1", ProviderReference: "MMT-1", PaymentURL: "https://pay.mmt/1", Amount: 4200}, res)
}

func TestBookingService_Initiate_GatewayLink(t *testing.T) {
	f := newBookingFixture(t, domain.KindTransport)
	details := domain.SelectionDetails{UserID: "u-1", Customer: customer, Amount: 1299}

	f.provider.EXPECT().InitiateSelection(gomock.Any(), "INV-1", details).
		Return(domain.SelectionResult{ProviderReference: "RB-1"}, nil)
	f.store.EXPECT().SaveBookingIntent(gomock.Any(), "u-1", gomock.Any()).Return("b-2", nil)
	f.payments.EXPECT().CreatePaymentLink(gomock.Any(), 1299.0, "INR", "Booking ID: b-2", customer).
		Return(domain.PaymentLink{ID: "plink_1", URL: "https://rzp.io/i/abc"}, nil)
	f.store.EXPECT().AttachPayment(gomock.Any(), "b-2", "plink_1", "https://rzp.io/i/abc").Return(nil)

	res, err := f.service.Initiate(context.Background(), InitiateRequest{Provider: "makemytrip", ExternalID: "INV-1", Details: details})

	require.NoError(t, err)
	assert.Equal(t, "https://rzp.io/i/abc", res.PaymentURL)
	assert.Equal(t, 1299.0, res.Amount)
}

func TestBookingService_Initiate_PaymentServiceError(t *testing.T) {
	f := newBookingFixture(t, domain.KindTransport)
	details := domain.SelectionDetails{UserID: "u-1", Amount: 500}

	f.provider.EXPECT().InitiateSelection(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.SelectionResult{ProviderReference: "RB-2"}, nil)
	f.store.EXPECT().SaveBookingIntent(gomock.Any(), gomock.Any(), gomock.Any()).Return("b-3", nil)
	f.payments.EXPECT().CreatePaymentLink(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.PaymentLink{}, errors.New("dial tcp: timeout"))
	f.store.EXPECT().UpdateStatus(gomock.Any(), "b-3", domain.PaymentFailed, gomock.Any()).Return(nil)

	_, err := f.service.Initiate(context.Background(), InitiateRequest{Provider: "makemytrip", ExternalID: "INV-2", Details: details})

	require.Error(t, err)
	assert.True(t, domain.IsPaymentServiceError(err))
	var perr *domain.PaymentServiceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "create link", perr.Op)
}

func TestBookingService_Initiate_Validation(t *testing.T) {
	f := newBookingFixture(t, domain.KindHotel)

	tests := []struct {
		name    string
		req     InitiateRequest
		wantErr error
	}{
		{"missing user", InitiateRequest{Provider: "makemytrip", ExternalID: "H"}, domain.ErrInvalidRequest},
		{"missing listing", InitiateRequest{Provider: "makemytrip", Details: domain.SelectionDetails{UserID: "u"}}, domain.ErrInvalidRequest},
		{"missing provider", InitiateRequest{ExternalID: "H", Details: domain.SelectionDetails{UserID: "u"}}, domain.ErrInvalidRequest},
		{"unknown provider", InitiateRequest{Provider: "nope", ExternalID: "H", Details: domain.SelectionDetails{UserID: "u"}}, domain.ErrProviderNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Initiate(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBookingService_Initiate_NoAmountForGateway(t *testing.T) {
	f := newBookingFixture(t, domain.KindTransport)
	f.provider.EXPECT().InitiateSelection(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.SelectionResult{ProviderReference: "RB-3"}, nil)

	_, err := f.service.Initiate(context.Background(), InitiateRequest{
		Provider: "makemytrip", ExternalID: "INV-3", Details: domain.SelectionDetails{UserID: "u-1"},
	})

	assert.True(t, domain.IsInvalidRequest(err))
}

func TestBookingService_Initiate_ProviderError(t *testing.T) {
	f := newBookingFixture(t, domain.KindHotel)
	perr := domain.NewProviderError("makemytrip", errors.New("sold out"))
	f.provider.EXPECT().InitiateSelection(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.SelectionResult{}, perr)

	_, err := f.service.Initiate(context.Background(), InitiateRequest{
		Provider: "makemytrip", ExternalID: "H", Details: domain.SelectionDetails{UserID: "u-1"},
	})

	assert.ErrorIs(t, err, perr)
}

// ===== Status Tests =====

func storedBooking(userID, paymentID string, status domain.PaymentStatus) domain.Booking {
	return domain.Booking{
		ID:        "b-1",
		UserID:    userID,
		PaymentID: paymentID,
		Intent: domain.BookingIntent{
			Provider:          "makemytrip",
			ProviderReference: "MMT-1",
			PaymentStatus:     status,
		},
	}
}

func TestBookingService_Status_CrossUser(t *testing.T) {
	f := newBookingFixture(t, domain.KindHotel)
	f.store.EXPECT().GetBooking(gomock.Any(), "b-1").Return(storedBooking("owner", "", domain.PaymentPending), nil)

	_, err := f.service.Status(context.Background(), "intruder", "b-1")

	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)
}

func TestBookingService_Status_NotFound(t *testing.T) {
	f := newBookingFixture(t, domain.KindHotel)
	f.store.EXPECT().GetBooking(gomock.Any(), "missing").Return(domain.Booking{}, domain.ErrBookingNotFound)

	_, err := f.service.Status(context.Background(), "u-1", "missing")

	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestBookingService_Status_VerifiesGatewayPayment(t *testing.T) {
	tests := []struct {
		name string
		paid bool
		want domain.PaymentStatus
	}{
		{"paid", true, domain.PaymentPaid},
		{"not yet", false, domain.PaymentPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t, domain.KindHotel)
			f.store.EXPECT().GetBooking(gomock.Any(), "b-1").Return(storedBooking("u-1", "plink_1", domain.PaymentPending), nil)
			f.payments.EXPECT().Verify(gomock.Any(), "plink_1").Return(tt.paid, nil)
			if tt.paid {
				f.store.EXPECT().UpdateStatus(gomock.Any(), "b-1", domain.PaymentPaid, gomock.Any()).Return(nil)
			}

			st, err := f.service.Status(context.Background(), "u-1", "b-1")

			require.NoError(t, err)
			assert.Equal(t, tt.want, st.PaymentStatus)
			assert.Equal(t, tt.want, st.Booking.Intent.PaymentStatus)
		})
	}
}

func TestBookingService_Status_VerifyFailure(t *testing.T) {
	f := newBookingFixture(t, domain.KindHotel)
	f.store.EXPECT().GetBooking(gomock.Any(), "b-1").Return(storedBooking("u-1", "plink_1", domain.PaymentPending), nil)
	f.payments.EXPECT().Verify(gomock.Any(), "plink_1").Return(false, errors.New("502 bad gateway"))

	_, err := f.service.Status(context.Background(), "u-1", "b-1")

	assert.True(t, domain.IsPaymentServiceError(err))
}

func TestBookingService_Status_SettledIsNotReverified(t *testing.T) {
	f := newBookingFixture(t, domain.KindHotel)
	f.store.EXPECT().GetBooking(gomock.Any(), "b-1").Return(storedBooking("u-1", "plink_1", domain.PaymentPaid), nil)

	st, err := f.service.Status(context.Background(), "u-1", "b-1")

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, st.PaymentStatus)
}

type checkingProvider struct {
	*domain.MockProvider
	*domain.MockStatusChecker
}

func TestBookingService_Status_ProviderHosted(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := checkingProvider{domain.NewMockProvider(ctrl), domain.NewMockStatusChecker(ctrl)}
	p.MockProvider.EXPECT().Name().Return("makemytrip").AnyTimes()
	p.MockStatusChecker.EXPECT().CheckStatus(gomock.Any(), "MMT-1").Return(domain.PaymentPaid, nil)
	store := domain.NewMockBookingStore(ctrl)
	store.EXPECT().GetBooking(gomock.Any(), "b-1").Return(storedBooking("u-1", "", domain.PaymentPending), nil)
	store.EXPECT().UpdateStatus(gomock.Any(), "b-1", domain.PaymentPaid, gomock.Any()).Return(nil)

	svc := NewBookingService(registryOf(p), store, nil, "", nil)

	st, err := svc.Status(context.Background(), "u-1", "b-1")

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, st.ProviderStatus)
	assert.Equal(t, domain.PaymentPaid, st.PaymentStatus)
}

// ===== List / Layout Tests =====

func TestBookingService_List(t *testing.T) {
	f := newBookingFixture(t, domain.KindHotel)
	f.store.EXPECT().GetBookingsForUser(gomock.Any(), "u-1").Return(nil, nil)

	bookings, err := f.service.List(context.Background(), "u-1")

	require.NoError(t, err)
	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)

	_, err = f.service.List(context.Background(), "")
	assert.True(t, domain.IsInvalidRequest(err))
}

func TestBookingService_Layout(t *testing.T) {
	f := newBookingFixture(t, domain.KindTransport)
	want := domain.Layout{ExternalID: "INV-1", Units: []domain.LayoutUnit{{ID: "L1", Available: true}}}
	f.provider.EXPECT().FetchLayout(gomock.Any(), "INV-1").Return(want, nil)

	got, err := f.service.Layout(context.Background(), "makemytrip", "INV-1")

	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = f.service.Layout(context.Background(), "makemytrip", "")
	assert.True(t, domain.IsInvalidRequest(err))
}

package bookingcom

import (
	"net/url"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
)

// ProviderName is the unique identifier for the Booking.com provider.
const ProviderName = "bookingcom"

// reviewScale is the top of Booking.com's review score range.
const reviewScale = 10.0

const hotelPageURL = "https://www.booking.com/hotel/detail.html"

func normalize(hotels []hotel) []domain.ListingItem {
	result := make([]domain.ListingItem, 0, len(hotels))
	for _, h := range hotels {
		if h.HotelID == "" || h.HotelName == "" {
			continue
		}
		result = append(result, normalizeHotel(h))
	}
	return result
}

func normalizeHotel(h hotel) domain.ListingItem {
	item := domain.ListingItem{
		SourceProvider: ProviderName,
		ExternalID:     string(h.HotelID),
		DisplayName:    h.HotelName,
		Kind:           domain.KindHotel,
		Category:       h.AccommodationType,
		Location: domain.Location{
			Address: h.Address,
			Lat:     h.Latitude.Ptr(),
			Lon:     h.Longitude.Ptr(),
		},
		Amenities:     h.Facilities,
		RawBookingURL: bookingURL(string(h.HotelID)),
	}
	if h.MinTotalPrice.Valid {
		item.Price = domain.NewMoney(h.MinTotalPrice.Value, h.Currency)
	}
	if h.ReviewScore.Valid {
		item.Rating = domain.NormalizeRating(h.ReviewScore.Value, reviewScale)
	}
	if h.CancellationPolicy != "" {
		item.CancellationPolicy = domain.StringPtr(h.CancellationPolicy)
	}
	return item
}

func normalizeLayout(hotelID string, blocks []block) domain.Layout {
	layout := domain.Layout{ExternalID: hotelID, Units: make([]domain.LayoutUnit, 0, len(blocks))}
	for _, b := range blocks {
		layout.Units = append(layout.Units, domain.LayoutUnit{
			ID:        string(b.BlockID),
			Label:     b.Name,
			Available: b.RoomsLeft > 0,
			Price:     b.MinPrice.Ptr(),
		})
	}
	return layout
}

func bookingURL(hotelID string) string {
	return hotelPageURL + "?hotel_id=" + url.QueryEscape(hotelID)
}

package makemytrip

import (
	"net/url"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
)

// ProviderName is the unique identifier for the MakeMyTrip provider.
const ProviderName = "makemytrip"

// MakeMyTrip already rates on five stars.
const ratingScale = 5.0

func normalize(hotels []hotel) []domain.ListingItem {
	result := make([]domain.ListingItem, 0, len(hotels))
	for _, h := range hotels {
		if h.ID == "" || h.Name == "" {
			continue
		}

		item := domain.ListingItem{
			SourceProvider: ProviderName,
			ExternalID:     string(h.ID),
			DisplayName:    h.Name,
			Kind:           domain.KindHotel,
			Category:       h.RoomType,
			Location: domain.Location{
				Address: h.Address,
				Lat:     h.Latitude.Ptr(),
				Lon:     h.Longitude.Ptr(),
			},
			Amenities:     h.Amenities,
			RawBookingURL: "https://www.makemytrip.com/hotels/hotel-details/?hotelId=" + url.QueryEscape(string(h.ID)),
		}
		if h.Price != nil && h.Price.Amount.Valid {
			item.Price = domain.NewMoney(h.Price.Amount.Value, h.Price.Currency)
		}
		if h.Rating.Valid {
			item.Rating = domain.NormalizeRating(h.Rating.Value, ratingScale)
		}
		if h.CancellationPolicy != "" {
			item.CancellationPolicy = domain.StringPtr(h.CancellationPolicy)
		}
		result = append(result, item)
	}
	return result
}

func normalizeRooms(hotelID string, rooms []room) domain.Layout {
	layout := domain.Layout{ExternalID: hotelID, Units: make([]domain.LayoutUnit, 0, len(rooms))}
	for _, r := range rooms {
		layout.Units = append(layout.Units, domain.LayoutUnit{
			ID:        string(r.RoomID),
			Label:     r.RoomName,
			Available: r.Available,
			Price:     r.Price.Ptr(),
		})
	}
	return layout
}

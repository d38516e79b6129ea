package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRating(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		scaleMax float64
		want     *float64
	}{
		{"ten point scale halves", 8, 10, Float64Ptr(4.0)},
		{"five point scale unchanged", 4.3, 5, Float64Ptr(4.3)},
		{"hundred point scale", 90, 100, Float64Ptr(4.5)},
		{"above scale clamps", 11, 10, Float64Ptr(5.0)},
		{"negative clamps to zero", -1, 10, Float64Ptr(0)},
		{"zero scale yields nil", 4, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeRating(tt.value, tt.scaleMax)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestListingItem_PriceAmount(t *testing.T) {
	amount, ok := ListingItem{Price: NewMoney(1200, "")}.PriceAmount()
	assert.True(t, ok)
	assert.Equal(t, 1200.0, amount)

	_, ok = ListingItem{}.PriceAmount()
	assert.False(t, ok)
}

func TestNewMoney_DefaultsCurrency(t *testing.T) {
	assert.Equal(t, "INR", NewMoney(1, "").Currency)
	assert.Equal(t, "USD", NewMoney(1, "USD").Currency)
}

func TestListingItem_Key(t *testing.T) {
	dep := time.Date(2024, 6, 15, 21, 0, 0, 0, time.UTC)
	depIST := dep.In(time.FixedZone("IST", 5*3600+1800))

	tests := []struct {
		name     string
		a, b     ListingItem
		wantSame bool
	}{
		{
			name:     "same hotel name and coordinates",
			a:        ListingItem{Kind: KindHotel, DisplayName: "Hotel Ganga", Location: Location{Lat: Float64Ptr(30.08691), Lon: Float64Ptr(78.26762)}},
			b:        ListingItem{Kind: KindHotel, DisplayName: "  hotel   GANGA ", Location: Location{Lat: Float64Ptr(30.086912), Lon: Float64Ptr(78.267618)}},
			wantSame: true,
		},
		{
			name:     "same hotel name, distant coordinates",
			a:        ListingItem{Kind: KindHotel, DisplayName: "Hotel Ganga", Location: Location{Lat: Float64Ptr(30.0869), Lon: Float64Ptr(78.2676)}},
			b:        ListingItem{Kind: KindHotel, DisplayName: "Hotel Ganga", Location: Location{Lat: Float64Ptr(25.3176), Lon: Float64Ptr(82.9739)}},
			wantSame: false,
		},
		{
			name:     "hotels without coordinates collapse on name",
			a:        ListingItem{Kind: KindHotel, DisplayName: "Zostel"},
			b:        ListingItem{Kind: KindHotel, DisplayName: "zostel"},
			wantSame: true,
		},
		{
			name: "same departure in different zones",
			a: ListingItem{Kind: KindTransport, Transport: &TransportDetails{
				Operator: "Zingbus", Origin: "Delhi", Destination: "Manali", DepartureTime: &dep}},
			b: ListingItem{Kind: KindTransport, Transport: &TransportDetails{
				Operator: "zingbus", Origin: "delhi", Destination: "manali", DepartureTime: &depIST}},
			wantSame: true,
		},
		{
			name: "different operators",
			a: ListingItem{Kind: KindTransport, Transport: &TransportDetails{
				Operator: "Zingbus", Origin: "Delhi", Destination: "Manali", DepartureTime: &dep}},
			b: ListingItem{Kind: KindTransport, Transport: &TransportDetails{
				Operator: "HRTC", Origin: "Delhi", Destination: "Manali", DepartureTime: &dep}},
			wantSame: false,
		},
		{
			name:     "hotel never collides with transport",
			a:        ListingItem{Kind: KindHotel, DisplayName: "Volvo"},
			b:        ListingItem{Kind: KindTransport, Transport: &TransportDetails{Operator: "Volvo"}},
			wantSame: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantSame, tt.a.Key() == tt.b.Key())
		})
	}
}

func TestStructuredQuery_Helpers(t *testing.T) {
	d1 := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 6, 18, 0, 0, 0, 0, time.UTC)

	q := StructuredQuery{Dates: []time.Time{d1, d2}, TransportType: TransportBus, Location: "Delhi", Preferences: []string{PrefAC}}

	depart, ok := q.DepartDate()
	assert.True(t, ok)
	assert.Equal(t, d1, depart)

	ret, ok := q.ReturnDate()
	assert.True(t, ok)
	assert.Equal(t, d2, ret)

	assert.Equal(t, KindTransport, q.Kind())
	assert.Equal(t, "Delhi", q.SearchFrom())
	assert.True(t, q.HasPreference(PrefAC))
	assert.False(t, q.HasPreference(PrefSleeper))

	empty := StructuredQuery{TransportType: TransportNone, Location: "Goa", Origin: "Pune"}
	_, ok = empty.DepartDate()
	assert.False(t, ok)
	_, ok = empty.ReturnDate()
	assert.False(t, ok)
	assert.Equal(t, KindHotel, empty.Kind())
	assert.Equal(t, "Pune", empty.SearchFrom())
}

func TestStructuredQuery_RatingFloor(t *testing.T) {
	tests := []struct {
		name   string
		prefs  []string
		want   float64
		wantOK bool
	}{
		{"integer floor", []string{PrefAC, "Rating 4"}, 4, true},
		{"fractional floor", []string{"Rating 3.5"}, 3.5, true},
		{"garbage is skipped", []string{"Rating high", "Rating 2"}, 2, true},
		{"no rating preference", []string{PrefSleeper}, 0, false},
		{"prefix only", []string{"Ratings"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := StructuredQuery{Preferences: tt.prefs}.RatingFloor()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLayout_Available(t *testing.T) {
	layout := Layout{Units: []LayoutUnit{
		{ID: "L1", Available: true},
		{ID: "L2"},
		{ID: "U1", Available: true},
	}}

	avail := layout.Available()
	assert.Len(t, avail, 2)
	assert.Equal(t, "U1", avail[1].ID)
}

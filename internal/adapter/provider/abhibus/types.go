package abhibus

// Selectors for the AbhiBus search results page.
const (
	selRow        = "div.service-card"
	selOperator   = ".travels-name"
	selBusType    = ".bus-type"
	selDeparture  = ".dep-time"
	selArrival    = ".arr-time"
	selDuration   = ".duration"
	selFare       = ".fare"
	selSeats      = ".seats-left"
	selRating     = ".rating"
	attrServiceID = "data-service-id"
	attrURL       = "data-url"
)

// serviceRow is the raw text scraped from one result card. Every field is
// optional; missing cells stay empty.
type serviceRow struct {
	ServiceID string
	Operator  string
	BusType   string
	Departure string
	Arrival   string
	Duration  string
	Fare      string
	Seats     string
	Rating    string
	URL       string
}

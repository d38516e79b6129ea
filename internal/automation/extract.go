package automation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
)

// Row is the raw text of one scraped result. Missing cells are empty.
type Row struct {
	ID     string
	URL    string
	Fields map[string]string
}

// Field returns the trimmed text of a cell, or "" when it was not found.
func (r Row) Field(name string) string {
	return r.Fields[name]
}

var amountPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseAmount reads the first number in text, ignoring currency marks and
// thousands separators.
func ParseAmount(text string) (float64, bool) {
	m := amountPattern.FindString(strings.ReplaceAll(text, ",", ""))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ExtractRows scrapes at most limit result rows. A cell that cannot be
// found leaves its field empty; the row is kept.
func ExtractRows(html string, sel ResultSelectors, limit int) ([]Row, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, limit)
	doc.Find(sel.Row).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if limit > 0 && len(rows) >= limit {
			return false
		}
		row := Row{Fields: make(map[string]string, len(sel.Fields))}
		if sel.IDAttr != "" {
			row.ID, _ = s.Attr(sel.IDAttr)
		}
		if sel.URLAttr != "" {
			row.URL, _ = s.Attr(sel.URLAttr)
		}
		for name, cell := range sel.Fields {
			if text := strings.TrimSpace(s.Find(cell).First().Text()); text != "" {
				row.Fields[name] = text
			}
		}
		rows = append(rows, row)
		return true
	})
	return rows, nil
}

// ExtractLayout reads the seats or rooms of a listing page.
func ExtractLayout(html string, sel LayoutSelectors, externalID string) (domain.Layout, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return domain.Layout{}, err
	}

	layout := domain.Layout{ExternalID: externalID, Units: []domain.LayoutUnit{}}
	doc.Find(sel.Unit).Each(func(i int, s *goquery.Selection) {
		unit := domain.LayoutUnit{}
		if sel.IDAttr != "" {
			unit.ID, _ = s.Attr(sel.IDAttr)
		}
		if sel.Label != "" {
			unit.Label = strings.TrimSpace(s.Find(sel.Label).First().Text())
		}
		if unit.Label == "" {
			unit.Label = strings.TrimSpace(s.Text())
		}
		if unit.ID == "" {
			unit.ID = unit.Label
		}
		if sel.AvailableClass != "" {
			unit.Available = s.HasClass(sel.AvailableClass)
		}
		if sel.Price != "" {
			if v, ok := ParseAmount(s.Find(sel.Price).First().Text()); ok {
				unit.Price = domain.Float64Ptr(v)
			}
		}
		layout.Units = append(layout.Units, unit)
	})
	return layout, nil
}

// ExtractConfirmation reads booking id, PNR and amount from a
// confirmation page. Missing cells stay empty.
func ExtractConfirmation(html string, fields map[string]string) (domain.Confirmation, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return domain.Confirmation{}, err
	}

	text := func(key string) string {
		sel, ok := fields[key]
		if !ok || sel == "" {
			return ""
		}
		return strings.TrimSpace(doc.Find(sel).First().Text())
	}

	c := domain.Confirmation{
		BookingID: text("booking_id"),
		PNR:       text("pnr"),
	}
	if v, ok := ParseAmount(text("amount")); ok {
		c.TotalAmount = v
	}
	return c, nil
}

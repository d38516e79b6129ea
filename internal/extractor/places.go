package extractor

import (
	"regexp"
	"sort"
	"strings"
)

// PlaceMention is one geopolitical entity found in a prompt.
type PlaceMention struct {
	Name  string
	Start int
	End   int
}

// PlaceRecognizer finds place names in free text, in text order.
type PlaceRecognizer interface {
	Places(text string) []PlaceMention
}

// defaultPlaces lists the cities, hill stations and states the booking
// sites serve. Multi-word names come first so "New Delhi" wins over "Delhi".
var defaultPlaces = []string{
	"New Delhi", "Navi Mumbai", "Port Blair", "Mount Abu", "Tamil Nadu",
	"Himachal Pradesh", "Uttar Pradesh", "Madhya Pradesh", "Andhra Pradesh",
	"Arunachal Pradesh", "West Bengal", "Jammu and Kashmir",
	"Delhi", "Mumbai", "Bangalore", "Bengaluru", "Chennai", "Kolkata", "Hyderabad",
	"Pune", "Ahmedabad", "Jaipur", "Lucknow", "Kanpur", "Nagpur", "Indore",
	"Bhopal", "Patna", "Vadodara", "Surat", "Agra", "Varanasi", "Amritsar",
	"Chandigarh", "Dehradun", "Haridwar", "Rishikesh", "Shimla", "Manali",
	"Dharamshala", "Mcleodganj", "Kasol", "Leh", "Srinagar", "Jammu", "Mussoorie",
	"Nainital", "Udaipur", "Jodhpur", "Jaisalmer", "Ajmer", "Pushkar", "Goa",
	"Panaji", "Mangalore", "Mysore", "Mysuru", "Coorg", "Ooty", "Kodaikanal",
	"Munnar", "Kochi", "Cochin", "Thiruvananthapuram", "Trivandrum", "Madurai",
	"Coimbatore", "Pondicherry", "Puducherry", "Tirupati", "Visakhapatnam",
	"Vijayawada", "Bhubaneswar", "Puri", "Guwahati", "Shillong", "Gangtok",
	"Darjeeling", "Siliguri", "Ranchi", "Raipur", "Gwalior", "Nashik", "Aurangabad",
	"Kerala", "Rajasthan", "Gujarat", "Maharashtra", "Karnataka", "Punjab",
	"Haryana", "Uttarakhand", "Bihar", "Odisha", "Assam", "Sikkim", "Ladakh",
}

// capitalized words after a locative preposition are accepted as places
// even when the gazetteer does not know them.
var prepositionPlace = regexp.MustCompile(`\b(?:in|at|to|from|near)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)

var notPlaces = map[string]bool{
	"january": true, "february": true, "march": true, "april": true, "may": true, "june": true,
	"july": true, "august": true, "september": true, "october": true, "november": true, "december": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true, "friday": true,
	"saturday": true, "sunday": true, "rs": true, "inr": true, "book": true, "find": true,
	"hotel": true, "hotels": true, "bus": true, "train": true, "the": true, "a": true,
}

// Gazetteer recognizes places from a fixed name list plus capitalized words
// following in/at/to/from/near.
type Gazetteer struct {
	patterns []placePattern
}

type placePattern struct {
	name string
	re   *regexp.Regexp
}

// NewGazetteer builds a recognizer over names. With no names the built-in
// list of Indian destinations is used.
func NewGazetteer(names ...string) *Gazetteer {
	if len(names) == 0 {
		names = defaultPlaces
	}
	g := &Gazetteer{patterns: make([]placePattern, 0, len(names))}
	for _, n := range names {
		words := strings.Fields(n)
		for i := range words {
			words[i] = regexp.QuoteMeta(words[i])
		}
		g.patterns = append(g.patterns, placePattern{
			name: n,
			re:   regexp.MustCompile(`(?i)\b` + strings.Join(words, `\s+`) + `\b`),
		})
	}
	return g
}

// Places returns non-overlapping place mentions sorted by position.
func (g *Gazetteer) Places(text string) []PlaceMention {
	var found []PlaceMention
	for _, p := range g.patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			found = append(found, PlaceMention{Name: p.name, Start: loc[0], End: loc[1]})
		}
	}
	for _, m := range prepositionPlace.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[2]:m[3]]
		if notPlaces[strings.ToLower(strings.Fields(name)[0])] {
			continue
		}
		found = append(found, PlaceMention{Name: name, Start: m[2], End: m[3]})
	}

	// Earlier first; at the same start the longer span wins.
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Start != found[j].Start {
			return found[i].Start < found[j].Start
		}
		return found[i].End > found[j].End
	})

	out := found[:0]
	lastEnd := -1
	for _, f := range found {
		if f.Start < lastEnd {
			continue
		}
		out = append(out, f)
		lastEnd = f.End
	}
	return out
}

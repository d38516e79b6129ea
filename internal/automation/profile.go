package automation

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
)

//go:embed profiles.yaml
var defaultProfiles []byte

// Step is one scripted UI action. Value may reference placeholders such as
// {origin}, {destination}, {location}, {date}, {checkin}, {checkout},
// {name}, {email} and {phone}.
type Step struct {
	Action   string `yaml:"action"` // input or click
	Selector string `yaml:"selector"`
	Value    string `yaml:"value,omitempty"`
}

// ResultSelectors locate result rows and the cells inside each row.
type ResultSelectors struct {
	Row     string            `yaml:"row"`
	IDAttr  string            `yaml:"id_attr"`
	URLAttr string            `yaml:"url_attr"`
	Fields  map[string]string `yaml:"fields"`
}

// LayoutSelectors locate seats or rooms on a listing page.
type LayoutSelectors struct {
	Ready          string `yaml:"ready"`
	Unit           string `yaml:"unit"`
	IDAttr         string `yaml:"id_attr"`
	Label          string `yaml:"label"`
	Price          string `yaml:"price"`
	AvailableClass string `yaml:"available_class"`
}

// SelectionSelectors drive the selection form on a listing page.
type SelectionSelectors struct {
	Ready string `yaml:"ready"`
	// FirstAvailable is clicked when no unit was requested.
	FirstAvailable string `yaml:"first_available"`
	// UnitByID is a selector template containing {unit}.
	UnitByID string `yaml:"unit_by_id"`
	Steps    []Step `yaml:"steps"`
	Submit   string `yaml:"submit"`
}

// PaymentSelectors detect payment completion and read the confirmation.
type PaymentSelectors struct {
	Ready        string            `yaml:"ready"`
	Success      string            `yaml:"success"`
	Confirmation map[string]string `yaml:"confirmation"`
}

// SiteProfile is the URL and selector contract for one booking site.
type SiteProfile struct {
	Name        string             `yaml:"name"`
	Kind        domain.Kind        `yaml:"kind"`
	HomeURL     string             `yaml:"home_url"`
	RatingScale float64            `yaml:"rating_scale"`
	SearchSteps []Step             `yaml:"search_steps"`
	Results     ResultSelectors    `yaml:"results"`
	Layout      LayoutSelectors    `yaml:"layout"`
	Selection   SelectionSelectors `yaml:"selection"`
	Payment     PaymentSelectors   `yaml:"payment"`
}

type profileFile struct {
	Profiles []SiteProfile `yaml:"profiles"`
}

// LoadProfiles reads site profiles from path, or the built-in set when
// path is empty.
func LoadProfiles(path string) (map[string]SiteProfile, error) {
	data := defaultProfiles
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read site profiles: %w", err)
		}
		data = b
	}
	return ParseProfiles(data)
}

// ParseProfiles decodes and validates a YAML profile document.
func ParseProfiles(data []byte) (map[string]SiteProfile, error) {
	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse site profiles: %w", err)
	}

	profiles := make(map[string]SiteProfile, len(file.Profiles))
	for _, p := range file.Profiles {
		if err := p.validate(); err != nil {
			return nil, err
		}
		profiles[p.Name] = p
	}
	return profiles, nil
}

func (p SiteProfile) validate() error {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.HomeURL == "" {
		missing = append(missing, "home_url")
	}
	if p.Results.Row == "" {
		missing = append(missing, "results.row")
	}
	if p.Payment.Success == "" {
		missing = append(missing, "payment.success")
	}
	if len(missing) > 0 {
		return fmt.Errorf("site profile %q: missing %s", p.Name, strings.Join(missing, ", "))
	}
	if p.Kind != domain.KindHotel && p.Kind != domain.KindTransport {
		return fmt.Errorf("site profile %q: unknown kind %q", p.Name, p.Kind)
	}
	for _, s := range append(append([]Step{}, p.SearchSteps...), p.Selection.Steps...) {
		if s.Action != "input" && s.Action != "click" {
			return fmt.Errorf("site profile %q: unknown step action %q", p.Name, s.Action)
		}
	}
	return nil
}

// expand substitutes placeholders in a step value.
func expand(value string, vars map[string]string) string {
	if !strings.Contains(value, "{") {
		return value
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(value)
}

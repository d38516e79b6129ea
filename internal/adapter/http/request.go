// Package http provides the HTTP handler layer for the travel booking API.
// It handles request parsing, validation, response formatting, and error mapping.
package http

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// maxPromptLength bounds free-text prompts.
const maxPromptLength = 500

// dateLayout is the wire format of check-in and check-out dates.
const dateLayout = "2006-01-02"

// SearchRequest is the body of a smart search.
type SearchRequest struct {
	// Prompt is the free-text travel request
	// (e.g. "AC sleeper bus from Bangalore to Chennai tomorrow under 1500")
	Prompt string `json:"prompt" example:"hotels in Goa from 12 March to 15 March under 5000"`
}

// FareCompareRequest is the body of a fare comparison.
type FareCompareRequest struct {
	// Prompt must name a route, e.g. "bus from Pune to Mumbai on 5 May"
	Prompt string `json:"prompt" example:"bus from Pune to Mumbai on 5 May"`
}

// CustomerDTO identifies who pays for a booking.
type CustomerDTO struct {
	Name  string `json:"name" example:"Asha Rao"`
	Email string `json:"email" example:"asha@example.com"`
	Phone string `json:"phone,omitempty" example:"+919800000000"`
}

// InitiateBookingRequest is the body of a booking initiation.
type InitiateBookingRequest struct {
	// Provider is the adapter name the listing came from
	Provider string `json:"provider" example:"redbus"`

	// ExternalID is the listing's provider-side id
	ExternalID string `json:"external_id" example:"RB-8812"`

	// Units are seat numbers or room ids picked from the layout
	Units []string `json:"units,omitempty" example:"L4,L5"`

	Customer CustomerDTO `json:"customer"`

	// Passenger carries provider-specific traveller fields (age, gender, ...)
	Passenger map[string]string `json:"passenger,omitempty"`

	// CheckIn and CheckOut are YYYY-MM-DD; hotels only
	CheckIn  string `json:"check_in,omitempty" example:"2026-03-12"`
	CheckOut string `json:"check_out,omitempty" example:"2026-03-15"`

	Guests int `json:"guests,omitempty" example:"2"`
	Rooms  int `json:"rooms,omitempty" example:"1"`

	// Amount is the expected total when the provider does not quote one
	Amount float64 `json:"amount,omitempty" example:"4500"`
}

// StartMonitorRequest is the body of a price monitor start.
type StartMonitorRequest struct {
	// SubjectID names the monitor; it defaults to the caller's identity
	SubjectID string `json:"subject_id,omitempty" example:"goa-trip"`

	Prompt string `json:"prompt" example:"bus from Bangalore to Goa on 20 December"`

	// Threshold is the price below which an alert is raised
	Threshold float64 `json:"threshold" example:"1200"`
}

// ValidationError represents a field-level validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	return v.Errors[0].Message
}

// Add adds a validation error.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ToMap converts validation errors to a map for API response.
func (v *ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v.Errors))
	for _, e := range v.Errors {
		result[e.Field] = e.Message
	}
	return result
}

// orNil returns errs as an error, or nil when it is empty.
func (v *ValidationErrors) orNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}

// Validate validates the search request.
func (r *SearchRequest) Validate() error {
	errs := &ValidationErrors{}
	r.Prompt = validatePrompt(errs, r.Prompt)
	return errs.orNil()
}

// Validate validates the fare comparison request.
func (r *FareCompareRequest) Validate() error {
	errs := &ValidationErrors{}
	r.Prompt = validatePrompt(errs, r.Prompt)
	return errs.orNil()
}

// Validate validates the monitor request.
func (r *StartMonitorRequest) Validate() error {
	errs := &ValidationErrors{}
	r.Prompt = validatePrompt(errs, r.Prompt)
	r.SubjectID = strings.TrimSpace(r.SubjectID)
	if strings.ContainsAny(r.SubjectID, "/ ") {
		errs.Add("subject_id", "subject_id must not contain spaces or slashes")
	}
	if r.Threshold <= 0 {
		errs.Add("threshold", "threshold must be a positive number")
	}
	return errs.orNil()
}

func validatePrompt(errs *ValidationErrors, prompt string) string {
	prompt = strings.TrimSpace(prompt)
	switch {
	case prompt == "":
		errs.Add("prompt", "prompt is required")
	case len(prompt) > maxPromptLength:
		errs.Add("prompt", fmt.Sprintf("prompt cannot exceed %d characters", maxPromptLength))
	}
	return prompt
}

// Validate validates the booking request and normalizes its text fields.
func (r *InitiateBookingRequest) Validate() error {
	errs := &ValidationErrors{}

	r.Provider = strings.ToLower(strings.TrimSpace(r.Provider))
	if r.Provider == "" {
		errs.Add("provider", "provider is required")
	}

	r.ExternalID = strings.TrimSpace(r.ExternalID)
	if r.ExternalID == "" {
		errs.Add("external_id", "external_id is required")
	}

	for i, u := range r.Units {
		r.Units[i] = strings.TrimSpace(u)
		if r.Units[i] == "" {
			errs.Add(fmt.Sprintf("units[%d]", i), "unit id cannot be empty")
		}
	}

	r.validateCustomer(errs)
	r.validateStay(errs)

	if r.Amount < 0 {
		errs.Add("amount", "amount must be a positive number")
	}

	return errs.orNil()
}

func (r *InitiateBookingRequest) validateCustomer(errs *ValidationErrors) {
	r.Customer.Name = strings.TrimSpace(r.Customer.Name)
	if r.Customer.Name == "" {
		errs.Add("customer.name", "customer name is required")
	}

	r.Customer.Email = strings.TrimSpace(r.Customer.Email)
	if r.Customer.Email == "" {
		errs.Add("customer.email", "customer email is required")
	} else if _, err := mail.ParseAddress(r.Customer.Email); err != nil {
		errs.Add("customer.email", "customer email is not a valid address")
	}

	r.Customer.Phone = strings.TrimSpace(r.Customer.Phone)
}

func (r *InitiateBookingRequest) validateStay(errs *ValidationErrors) {
	checkIn, inOK := parseOptionalDate(errs, "check_in", r.CheckIn)
	checkOut, outOK := parseOptionalDate(errs, "check_out", r.CheckOut)
	if inOK && outOK && checkIn != nil && checkOut != nil && !checkOut.After(*checkIn) {
		errs.Add("check_out", "check_out must be after check_in")
	}

	if r.Guests < 0 {
		errs.Add("guests", "guests must be a non-negative number")
	}
	if r.Rooms < 0 {
		errs.Add("rooms", "rooms must be a non-negative number")
	}
}

// parseOptionalDate parses a YYYY-MM-DD value. An empty value is valid and
// yields nil.
func parseOptionalDate(errs *ValidationErrors, field, value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		errs.Add(field, field+" must be a valid date in YYYY-MM-DD format")
		return nil, false
	}
	return &t, true
}

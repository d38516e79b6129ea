package http

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidatePrompt tests prompt validation shared by search, fares and monitors.
func TestValidatePrompt(t *testing.T) {
	tests := []struct {
		name      string
		prompt    string
		wantError string
		want      string
	}{
		{name: "valid", prompt: "hotels in Goa", want: "hotels in Goa"},
		{name: "trimmed", prompt: "  bus to Pune \n", want: "bus to Pune"},
		{name: "empty", prompt: "", wantError: "prompt is required"},
		{name: "whitespace only", prompt: " \t ", wantError: "prompt is required"},
		{name: "at limit", prompt: strings.Repeat("a", maxPromptLength), want: strings.Repeat("a", maxPromptLength)},
		{name: "too long", prompt: strings.Repeat("a", maxPromptLength+1), wantError: "prompt cannot exceed 500 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := SearchRequest{Prompt: tt.prompt}
			err := req.Validate()

			if tt.wantError != "" {
				require.Error(t, err)
				var errs *ValidationErrors
				require.ErrorAs(t, err, &errs)
				assert.Equal(t, tt.wantError, errs.ToMap()["prompt"])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Prompt)
		})
	}
}

func TestFareCompareRequest_Validate(t *testing.T) {
	assert.NoError(t, (&FareCompareRequest{Prompt: "bus from Pune to Mumbai"}).Validate())
	assert.Error(t, (&FareCompareRequest{}).Validate())
}

// TestInitiateBookingRequest_Validate tests booking body validation.
func TestInitiateBookingRequest_Validate(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(r *InitiateBookingRequest)
		wantFields []string
	}{
		{name: "valid", modify: func(r *InitiateBookingRequest) {}},
		{name: "valid stay", modify: func(r *InitiateBookingRequest) {
			r.CheckIn, r.CheckOut, r.Guests, r.Rooms = "2026-03-12", "2026-03-15", 2, 1
		}},
		{name: "missing provider", modify: func(r *InitiateBookingRequest) { r.Provider = " " }, wantFields: []string{"provider"}},
		{name: "missing external id", modify: func(r *InitiateBookingRequest) { r.ExternalID = "" }, wantFields: []string{"external_id"}},
		{name: "blank unit", modify: func(r *InitiateBookingRequest) { r.Units = []string{"L1", " "} }, wantFields: []string{"units[1]"}},
		{name: "missing customer", modify: func(r *InitiateBookingRequest) { r.Customer = CustomerDTO{} }, wantFields: []string{"customer.name", "customer.email"}},
		{name: "bad email", modify: func(r *InitiateBookingRequest) { r.Customer.Email = "asha@" }, wantFields: []string{"customer.email"}},
		{name: "bad check-in", modify: func(r *InitiateBookingRequest) { r.CheckIn = "12-03-2026" }, wantFields: []string{"check_in"}},
		{name: "impossible date", modify: func(r *InitiateBookingRequest) { r.CheckOut = "2026-02-30" }, wantFields: []string{"check_out"}},
		{name: "check-out before check-in", modify: func(r *InitiateBookingRequest) {
			r.CheckIn, r.CheckOut = "2026-03-15", "2026-03-12"
		}, wantFields: []string{"check_out"}},
		{name: "same day stay", modify: func(r *InitiateBookingRequest) {
			r.CheckIn, r.CheckOut = "2026-03-15", "2026-03-15"
		}, wantFields: []string{"check_out"}},
		{name: "negative counts", modify: func(r *InitiateBookingRequest) { r.Guests, r.Rooms = -1, -2 }, wantFields: []string{"guests", "rooms"}},
		{name: "negative amount", modify: func(r *InitiateBookingRequest) { r.Amount = -5 }, wantFields: []string{"amount"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBookingBody()
			tt.modify(&req)

			err := req.Validate()

			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			var errs *ValidationErrors
			require.ErrorAs(t, err, &errs)
			fields := errs.ToMap()
			assert.Len(t, fields, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestInitiateBookingRequest_Normalizes(t *testing.T) {
	req := InitiateBookingRequest{
		Provider:   "  MakeMyTrip ",
		ExternalID: " H-77 ",
		Units:      []string{" R1 "},
		Customer:   CustomerDTO{Name: " Asha ", Email: " asha@example.com ", Phone: " 98 "},
	}

	require.NoError(t, req.Validate())

	assert.Equal(t, "makemytrip", req.Provider)
	assert.Equal(t, "H-77", req.ExternalID)
	assert.Equal(t, []string{"R1"}, req.Units)
	assert.Equal(t, CustomerDTO{Name: "Asha", Email: "asha@example.com", Phone: "98"}, req.Customer)
}

func TestStartMonitorRequest_Validate(t *testing.T) {
	tests := []struct {
		name       string
		req        StartMonitorRequest
		wantFields []string
	}{
		{name: "valid default subject", req: StartMonitorRequest{Prompt: "bus to Goa", Threshold: 1000}},
		{name: "valid named subject", req: StartMonitorRequest{SubjectID: "goa-trip", Prompt: "bus to Goa", Threshold: 1000}},
		{name: "zero threshold", req: StartMonitorRequest{Prompt: "bus to Goa"}, wantFields: []string{"threshold"}},
		{name: "negative threshold", req: StartMonitorRequest{Prompt: "bus to Goa", Threshold: -1}, wantFields: []string{"threshold"}},
		{name: "slash in subject", req: StartMonitorRequest{SubjectID: "a/b", Prompt: "x", Threshold: 1}, wantFields: []string{"subject_id"}},
		{name: "space in subject", req: StartMonitorRequest{SubjectID: "a b", Prompt: "x", Threshold: 1}, wantFields: []string{"subject_id"}},
		{name: "everything missing", req: StartMonitorRequest{}, wantFields: []string{"prompt", "threshold"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			var errs *ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Len(t, errs.ToMap(), len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, errs.ToMap(), f)
			}
		})
	}
}

func TestValidationErrors(t *testing.T) {
	errs := &ValidationErrors{}
	assert.False(t, errs.HasErrors())
	assert.Equal(t, "validation failed", errs.Error())
	assert.NoError(t, errs.orNil())

	errs.Add("prompt", "prompt is required")
	errs.Add("threshold", "threshold must be a positive number")

	assert.True(t, errs.HasErrors())
	assert.Equal(t, "prompt is required", errs.Error())
	assert.Equal(t, map[string]string{
		"prompt":    "prompt is required",
		"threshold": "threshold must be a positive number",
	}, errs.ToMap())
}

func TestMonitorSubjectScoping(t *testing.T) {
	assert.Equal(t, "u-1", monitorSubject("u-1", ""))
	assert.Equal(t, "u-1/goa", monitorSubject("u-1", "goa"))

	assert.True(t, ownsSubject("u-1", "u-1"))
	assert.True(t, ownsSubject("u-1/goa", "u-1"))
	assert.False(t, ownsSubject("u-10/goa", "u-1"))
	assert.False(t, ownsSubject("u-2", "u-1"))

	assert.Equal(t, "goa", displaySubject("u-1/goa", "u-1"))
	assert.Equal(t, "u-1", displaySubject("u-1", "u-1"))
}

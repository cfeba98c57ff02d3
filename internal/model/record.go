package model

import (
	"strings"
	"time"
)

// RecordSource identifies which external feed a record came from
type RecordSource string

const (
	SourceFDA            RecordSource = "FDA 510(k)"
	SourceClinicalTrials RecordSource = "ClinicalTrials.gov"
)

// Record is the normalized view of a competitive-intelligence record.
// FDA 510(k) clearances and ClinicalTrials.gov studies map onto the same
// shape so the Madison scorer can treat them uniformly.
type Record struct {
	Source  RecordSource `json:"source"`
	ID      string       `json:"id"`      // K-number (FDA) or NCT ID (ClinicalTrials.gov)
	Company string       `json:"company"` // Applicant or lead sponsor

	// FDA 510(k) fields
	DeviceName      string `json:"device_name,omitempty"`
	ProductCode     string `json:"product_code,omitempty"`
	DecisionDate    string `json:"decision_date,omitempty"` // YYYY-MM-DD or "N/A"
	RegulatoryClass string `json:"regulatory_class,omitempty"`

	// ClinicalTrials.gov fields
	TrialTitle     string `json:"trial_title,omitempty"`
	Phase          string `json:"phase,omitempty"`
	StartDate      string `json:"start_date,omitempty"` // YYYY-MM-DD or YYYY-MM
	CompletionDate string `json:"completion_date,omitempty"`

	Status string `json:"status"`
}

// Product returns the device name for FDA records, falling back to the
// trial title for clinical records.
func (r Record) Product() string {
	if r.DeviceName != "" {
		return r.DeviceName
	}
	return r.TrialTitle
}

// ActivityDate returns the date that marks the record's regulatory or
// clinical activity: decision date for clearances, start date for trials.
func (r Record) ActivityDate() string {
	if r.DecisionDate != "" && r.DecisionDate != "N/A" {
		return r.DecisionDate
	}
	return r.StartDate
}

// SearchText returns the lowercased text the keyword factors match against.
func (r Record) SearchText() string {
	return strings.ToLower(strings.TrimSpace(r.DeviceName + " " + r.TrialTitle + " " + r.ProductCode))
}

// ParseActivityDate parses the activity date. ClinicalTrials.gov emits
// month-precision dates ("2024-05") for many studies, so both layouts are
// accepted. Returns the zero time when the date is missing or malformed.
func (r Record) ParseActivityDate() time.Time {
	raw := r.ActivityDate()
	if raw == "" || raw == "N/A" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

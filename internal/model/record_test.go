package model

import (
	"testing"
	"time"
)

func TestRecord_Product(t *testing.T) {
	fda := Record{DeviceName: "Intraocular Lens", TrialTitle: "ignored"}
	if got := fda.Product(); got != "Intraocular Lens" {
		t.Errorf("expected device name, got %q", got)
	}

	trial := Record{TrialTitle: "Myopia Control Study"}
	if got := trial.Product(); got != "Myopia Control Study" {
		t.Errorf("expected trial title fallback, got %q", got)
	}
}

func TestRecord_ActivityDate(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   string
	}{
		{"decision date wins", Record{DecisionDate: "2026-03-15", StartDate: "2026-01-01"}, "2026-03-15"},
		{"na decision falls back", Record{DecisionDate: "N/A", StartDate: "2026-01-01"}, "2026-01-01"},
		{"start date only", Record{StartDate: "2026-02"}, "2026-02"},
		{"nothing", Record{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.ActivityDate(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRecord_SearchText(t *testing.T) {
	r := Record{DeviceName: "Intraocular Lens", TrialTitle: "Phase 3 Study", ProductCode: "HQL"}
	want := "intraocular lens phase 3 study hql"
	if got := r.SearchText(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRecord_ParseActivityDate(t *testing.T) {
	tests := []struct {
		name string
		date string
		want time.Time
	}{
		{"full date", "2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"month precision", "2026-03", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"na", "N/A", time.Time{}},
		{"empty", "", time.Time{}},
		{"garbage", "next spring", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Record{DecisionDate: tt.date}.ParseActivityDate()
			if !got.Equal(tt.want) {
				t.Errorf("ParseActivityDate(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestAssessment_Contributions(t *testing.T) {
	a := Assessment{
		Factors: []Factor{
			{Name: FactorRecentActivity, Points: 35},
			{Name: FactorFDAClearance, Points: 20},
		},
	}

	m := a.Contributions()
	if len(m) != 2 {
		t.Fatalf("expected 2 contributions, got %d", len(m))
	}
	if m[FactorRecentActivity] != 35 || m[FactorFDAClearance] != 20 {
		t.Errorf("unexpected contributions: %v", m)
	}
}

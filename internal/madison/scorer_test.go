package madison

import (
	"strings"
	"testing"
	"time"

	"github.com/shinde-pras/helix-insights-app/internal/model"
)

func newTestScorer(now time.Time) *Scorer {
	s := NewScorer(model.DefaultConfig().Scoring)
	s.now = func() time.Time { return now }
	return s
}

func TestScorer_Assess_CriticalFDARecord(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	scorer := newTestScorer(now)

	record := model.Record{
		Source:       model.SourceFDA,
		ID:           "K251234",
		Company:      "Alcon Laboratories, Inc.",
		DeviceName:   "Intraocular Lens Injector",
		ProductCode:  "HQL",
		DecisionDate: "2026-03-15",
		Status:       "Approved",
	}

	a := scorer.Assess(record)

	// recent(35) + category(30) + advanced(25) + fda(20) + competitor(25) = 135
	if a.ThreatScore != 135 {
		t.Errorf("expected score 135, got %d", a.ThreatScore)
	}
	if a.ThreatLevel != model.ThreatCritical {
		t.Errorf("expected CRITICAL, got %s", a.ThreatLevel)
	}
	if a.Confidence != 95 {
		t.Errorf("expected confidence capped at 95, got %d", a.Confidence)
	}
	if len(a.Factors) != 5 {
		t.Errorf("expected 5 factors, got %d", len(a.Factors))
	}

	// Score must equal the sum of factor points
	sum := 0
	for _, f := range a.Factors {
		sum += f.Points
	}
	if sum != a.ThreatScore {
		t.Errorf("factor points sum %d != threat score %d", sum, a.ThreatScore)
	}

	if a.AgentVersion != model.AgentVersion {
		t.Errorf("expected agent version %s, got %s", model.AgentVersion, a.AgentVersion)
	}
}

func TestScorer_Assess_ClinicalAdvancedPhase(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	scorer := newTestScorer(now)

	record := model.Record{
		Source:     model.SourceClinicalTrials,
		ID:         "NCT06123456",
		Company:    "Small Biotech LLC",
		TrialTitle: "A Phase 3 Study of a Novel Treatment",
		Phase:      "PHASE3",
		StartDate:  "2025-11-01",
	}

	a := scorer.Assess(record)

	// recent(35) + clinical(15) + phase(30) = 80
	if a.ThreatScore != 80 {
		t.Errorf("expected score 80, got %d", a.ThreatScore)
	}
	if a.ThreatLevel != model.ThreatCritical {
		t.Errorf("expected CRITICAL, got %s", a.ThreatLevel)
	}

	contributions := a.Contributions()
	if contributions[model.FactorAdvancedPhase] != 30 {
		t.Errorf("expected advanced phase contribution 30, got %d", contributions[model.FactorAdvancedPhase])
	}
}

func TestScorer_Assess_PhaseFromTitleOnly(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	scorer := newTestScorer(now)

	record := model.Record{
		Source:     model.SourceClinicalTrials,
		ID:         "NCT06123457",
		Company:    "Generic Sponsor",
		TrialTitle: "Phase II Evaluation of Something",
		Phase:      "Unknown",
		StartDate:  "N/A",
	}

	a := scorer.Assess(record)

	if _, ok := a.Contributions()[model.FactorAdvancedPhase]; !ok {
		t.Error("expected advanced phase factor from title match")
	}
	// No recency from a missing date
	if _, ok := a.Contributions()[model.FactorRecentActivity]; ok {
		t.Error("expected no recency factor for N/A date")
	}
}

func TestScorer_Assess_RecencyWindows(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		date       string
		wantPoints int
	}{
		{"within two years", "2025-01-15", 35},
		{"within five years", "2022-06-01", 20},
		{"older than five years", "2015-01-01", 0},
		{"month precision recent", "2025-08", 35},
		{"future date", "2027-01-01", 0},
		{"malformed", "last tuesday", 0},
		{"missing", "N/A", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := newTestScorer(now)
			record := model.Record{
				Source:       model.SourceFDA,
				Company:      "Nobody Corp",
				DeviceName:   "Widget", // No category/advanced match
				DecisionDate: tt.date,
			}

			a := scorer.Assess(record)
			got := a.Contributions()[model.FactorRecentActivity]
			if got != tt.wantPoints {
				t.Errorf("date %q: expected recency points %d, got %d", tt.date, tt.wantPoints, got)
			}
		})
	}
}

func TestScorer_Assess_LevelBuckets(t *testing.T) {
	tests := []struct {
		score     int
		conf      int
		wantLevel model.ThreatLevel
		wantConf  int
	}{
		{70, 80, model.ThreatCritical, 95},
		{70, 40, model.ThreatCritical, 65},
		{50, 80, model.ThreatHigh, 90},
		{30, 20, model.ThreatMedium, 30},
		{10, 10, model.ThreatLow, 70},
		{10, 80, model.ThreatLow, 80},
		{0, 0, model.ThreatLow, 60},
	}

	for _, tt := range tests {
		level, conf := resolveLevel(tt.score, tt.conf)
		if level != tt.wantLevel {
			t.Errorf("score %d: expected level %s, got %s", tt.score, tt.wantLevel, level)
		}
		if conf != tt.wantConf {
			t.Errorf("score %d conf %d: expected confidence %d, got %d", tt.score, tt.conf, tt.wantConf, conf)
		}
	}
}

func TestScorer_Assess_NoSignals(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	scorer := newTestScorer(now)

	// A record matching nothing at all: unknown source, no terms, old date
	record := model.Record{
		Source:       "Internal Watchlist",
		Company:      "Quiet Co",
		DeviceName:   "Widget",
		DecisionDate: "2010-01-01",
	}

	a := scorer.Assess(record)

	if a.ThreatScore != 0 {
		t.Errorf("expected score 0, got %d", a.ThreatScore)
	}
	if a.ThreatLevel != model.ThreatLow {
		t.Errorf("expected LOW, got %s", a.ThreatLevel)
	}
	if a.Confidence != 60 {
		t.Errorf("expected baseline confidence 60, got %d", a.Confidence)
	}
	if len(a.Factors) != 0 {
		t.Errorf("expected no factors, got %d", len(a.Factors))
	}
	// Even a zero-score record gets the quarterly review action
	if len(a.Actions) != 1 || a.Actions[0].Priority != "LOW" {
		t.Errorf("expected single LOW action, got %+v", a.Actions)
	}
}

func TestScorer_AssessAll(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	scorer := newTestScorer(now)

	records := []model.Record{
		{Source: model.SourceFDA, ID: "K1", Company: "A", DeviceName: "Widget", DecisionDate: "2026-01-01"},
		{Source: model.SourceClinicalTrials, ID: "NCT1", Company: "B", TrialTitle: "Study", StartDate: "N/A"},
	}

	scored := scorer.AssessAll(records)

	if len(scored) != 2 {
		t.Fatalf("expected 2 scored records, got %d", len(scored))
	}
	for i, sr := range scored {
		if sr.Record.ID != records[i].ID {
			t.Errorf("record %d: ID mismatch", i)
		}
		if sr.Assessment.AgentVersion == "" {
			t.Errorf("record %d: missing agent version", i)
		}
	}
}

func TestActionItems_PerLevel(t *testing.T) {
	tests := []struct {
		level         model.ThreatLevel
		wantCount     int
		wantFirstPrio string
	}{
		{model.ThreatCritical, 4, "URGENT"},
		{model.ThreatHigh, 3, "HIGH"},
		{model.ThreatMedium, 2, "MEDIUM"},
		{model.ThreatLow, 1, "LOW"},
	}

	for _, tt := range tests {
		actions := actionItems(tt.level, "Alcon", "Contact Lens")
		if len(actions) != tt.wantCount {
			t.Errorf("%s: expected %d actions, got %d", tt.level, tt.wantCount, len(actions))
		}
		if actions[0].Priority != tt.wantFirstPrio {
			t.Errorf("%s: expected first priority %s, got %s", tt.level, tt.wantFirstPrio, actions[0].Priority)
		}
	}
}

func TestActionItems_Fallbacks(t *testing.T) {
	actions := actionItems(model.ThreatCritical, "", "")

	if !strings.Contains(actions[0].Action, "Competitor") {
		t.Errorf("expected company fallback in action, got %q", actions[0].Action)
	}
	if !strings.Contains(actions[0].Action, "device") {
		t.Errorf("expected product fallback in action, got %q", actions[0].Action)
	}
}

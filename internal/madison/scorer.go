// Package madison implements the Madison multi-factor threat scoring
// heuristic. Scoring is deterministic and transparent: every point in the
// composite score appears as a named factor on the assessment.
package madison

import (
	"fmt"
	"strings"
	"time"

	"github.com/shinde-pras/helix-insights-app/internal/model"
)

// Factor weights, fixed so reports stay comparable across runs.
const (
	recentPoints      = 35
	recentConf        = 25
	activePoints      = 20
	activeConf        = 15
	categoryPoints    = 30
	categoryConf      = 20
	advancedPoints    = 25
	advancedConf      = 15
	fdaPoints         = 20
	fdaConf           = 15
	clinicalPoints    = 15
	clinicalConf      = 10
	phasePoints       = 30
	phaseConf         = 20
	competitorPoints  = 25
	competitorConf    = 20

	confidenceCeiling = 95
)

// Scorer assesses records against the Madison heuristic. Term lists come
// from configuration; the defaults are the ophthalmology baseline.
type Scorer struct {
	cfg model.ScoringConfig
	now func() time.Time // Injectable for tests
}

// NewScorer creates a scorer from the given scoring configuration
func NewScorer(cfg model.ScoringConfig) *Scorer {
	if cfg.RecentWindowDays <= 0 {
		cfg.RecentWindowDays = 730
	}
	if cfg.ActivityWindowDays <= 0 {
		cfg.ActivityWindowDays = 1825
	}

	return &Scorer{
		cfg: cfg,
		now: time.Now,
	}
}

// Assess runs every factor against the record and derives the threat level,
// confidence and recommended actions.
func (s *Scorer) Assess(record model.Record) model.Assessment {
	var (
		factors      []model.Factor
		implications []string
	)

	add := func(f model.Factor) {
		factors = append(factors, f)
		implications = append(implications, f.Description)
	}

	// Factor 1: recent regulatory or clinical activity
	if f, ok := s.recencyFactor(record); ok {
		add(f)
	}

	searchText := record.SearchText()

	// Factor 2: high-value product category
	if matchAny(searchText, s.cfg.CategoryTerms) {
		add(model.Factor{
			Name:        model.FactorCategoryMatch,
			Points:      categoryPoints,
			Confidence:  categoryConf,
			Description: "High-value ophthalmology product category",
		})
	}

	// Factor 3: advanced or surgical device
	if matchAny(searchText, s.cfg.AdvancedTerms) {
		add(model.Factor{
			Name:        model.FactorAdvancedDevice,
			Points:      advancedPoints,
			Confidence:  advancedConf,
			Description: "Advanced surgical or premium device",
		})
	}

	// Factor 4: FDA clearance means the competitor already has market access
	if strings.Contains(string(record.Source), "FDA") {
		add(model.Factor{
			Name:        model.FactorFDAClearance,
			Points:      fdaPoints,
			Confidence:  fdaConf,
			Description: "FDA 510(k) clearance provides market access",
		})
	}

	// Factor 5: active clinical development, weighted up for late phases
	if strings.Contains(string(record.Source), "Clinical") {
		add(model.Factor{
			Name:        model.FactorClinicalProgram,
			Points:      clinicalPoints,
			Confidence:  clinicalConf,
			Description: "Active clinical development",
		})

		if isAdvancedPhase(record) {
			add(model.Factor{
				Name:        model.FactorAdvancedPhase,
				Points:      phasePoints,
				Confidence:  phaseConf,
				Description: "Advanced clinical phase",
			})
		}
	}

	// Factor 6: established competitor
	if matchAny(strings.ToLower(record.Company), s.cfg.Competitors) {
		add(model.Factor{
			Name:        model.FactorKnownCompetitor,
			Points:      competitorPoints,
			Confidence:  competitorConf,
			Description: "Established ophthalmology competitor",
		})
	}

	score := 0
	confidence := 0
	for _, f := range factors {
		score += f.Points
		confidence += f.Confidence
	}

	level, confidence := resolveLevel(score, confidence)

	return model.Assessment{
		ThreatScore:  score,
		ThreatLevel:  level,
		Confidence:   confidence,
		Factors:      factors,
		Implications: implications,
		Actions:      actionItems(level, record.Company, record.Product()),
		AssessedAt:   s.now().UTC(),
		AgentVersion: model.AgentVersion,
	}
}

// AssessAll scores every record in place
func (s *Scorer) AssessAll(records []model.Record) []model.ScoredRecord {
	scored := make([]model.ScoredRecord, len(records))
	for i, r := range records {
		scored[i] = model.ScoredRecord{
			Record:     r,
			Assessment: s.Assess(r),
		}
	}
	return scored
}

// recencyFactor scores the activity date against the two windows. Missing,
// malformed and future dates contribute nothing.
func (s *Scorer) recencyFactor(record model.Record) (model.Factor, bool) {
	activity := record.ParseActivityDate()
	if activity.IsZero() {
		return model.Factor{}, false
	}

	days := int(s.now().Sub(activity).Hours() / 24)
	if days < 0 {
		return model.Factor{}, false
	}

	switch {
	case days <= s.cfg.RecentWindowDays:
		return model.Factor{
			Name:        model.FactorRecentActivity,
			Points:      recentPoints,
			Confidence:  recentConf,
			Description: "Recent approval/trial within last 2 years",
		}, true
	case days <= s.cfg.ActivityWindowDays:
		return model.Factor{
			Name:        model.FactorRecentActivity,
			Points:      activePoints,
			Confidence:  activeConf,
			Description: "Activity within last 5 years",
		}, true
	}

	return model.Factor{}, false
}

// resolveLevel buckets the score and applies the per-level confidence boost
func resolveLevel(score, confidence int) (model.ThreatLevel, int) {
	switch {
	case score >= 70:
		return model.ThreatCritical, capConf(confidence+25, confidenceCeiling)
	case score >= 50:
		return model.ThreatHigh, capConf(confidence+15, 90)
	case score >= 30:
		return model.ThreatMedium, capConf(confidence+10, 85)
	case score >= 10:
		return model.ThreatLow, maxInt(confidence, 70)
	default:
		return model.ThreatLow, 60
	}
}

// isAdvancedPhase detects phase 2/3 programs from the structured phase
// field or the trial title. CT.gov v2 reports phases as PHASE2/PHASE3;
// titles often spell them out.
func isAdvancedPhase(record model.Record) bool {
	phase := strings.ToLower(record.Phase)
	if strings.Contains(phase, "phase2") || strings.Contains(phase, "phase3") {
		return true
	}

	title := strings.ToLower(record.TrialTitle)
	for _, p := range []string{"phase 3", "phase iii", "phase 2", "phase ii"} {
		if strings.Contains(title, p) {
			return true
		}
	}
	return false
}

func matchAny(text string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func capConf(v, ceiling int) int {
	if v > ceiling {
		return ceiling
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Describe renders a one-line digest of an assessment for verbose output
func Describe(a model.Assessment) string {
	return fmt.Sprintf("%s (score %d, confidence %d%%)", a.ThreatLevel, a.ThreatScore, a.Confidence)
}

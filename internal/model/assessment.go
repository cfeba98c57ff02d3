package model

import "time"

// AgentVersion tags every assessment with the scoring heuristic revision.
const AgentVersion = "Madison_Intelligence_v1.3"

// ThreatLevel buckets the composite threat score
type ThreatLevel string

const (
	ThreatCritical ThreatLevel = "CRITICAL"
	ThreatHigh     ThreatLevel = "HIGH"
	ThreatMedium   ThreatLevel = "MEDIUM"
	ThreatLow      ThreatLevel = "LOW"
)

// FactorName classifies the scoring factors
type FactorName string

const (
	FactorRecentActivity  FactorName = "recent_activity"
	FactorCategoryMatch   FactorName = "category_match"
	FactorAdvancedDevice  FactorName = "advanced_device"
	FactorFDAClearance    FactorName = "fda_clearance"
	FactorClinicalProgram FactorName = "clinical_program"
	FactorAdvancedPhase   FactorName = "advanced_phase"
	FactorKnownCompetitor FactorName = "known_competitor"
)

// Factor is one weighted contribution to the threat score. Every point in
// the composite score is attributable to exactly one factor, keeping the
// heuristic fully explainable.
type Factor struct {
	Name        FactorName `json:"name"`
	Points      int        `json:"points"`     // Contribution to the threat score
	Confidence  int        `json:"confidence"` // Contribution to the confidence percentage
	Description string     `json:"description"`
}

// ActionItem is a recommended follow-up generated from the threat level
type ActionItem struct {
	Priority string `json:"priority"` // URGENT, HIGH, MEDIUM, LOW
	Action   string `json:"action"`
	Timeline string `json:"timeline"`
	Owner    string `json:"owner"`
}

// Assessment is the Madison threat analysis for a single record
type Assessment struct {
	ThreatScore  int          `json:"threat_score"`
	ThreatLevel  ThreatLevel  `json:"threat_level"`
	Confidence   int          `json:"confidence"` // 0-95 percent
	Factors      []Factor     `json:"factors"`
	Implications []string     `json:"strategic_implications"`
	Actions      []ActionItem `json:"action_items"`
	AssessedAt   time.Time    `json:"assessed_at"`
	AgentVersion string       `json:"agent_version"`
}

// Contributions returns the factor-name to weighted-points mapping
func (a Assessment) Contributions() map[FactorName]int {
	m := make(map[FactorName]int, len(a.Factors))
	for _, f := range a.Factors {
		m[f.Name] = f.Points
	}
	return m
}

// ScoredRecord pairs a normalized record with its Madison assessment
type ScoredRecord struct {
	Record     Record     `json:"record"`
	Assessment Assessment `json:"madison_intelligence"`
}

package model

import "time"

// Report is the complete output of one competitive analysis run
type Report struct {
	ReportID    string    `json:"report_id"`
	SearchTerm  string    `json:"search_term,omitempty"`
	DaysBack    int       `json:"days_back"`
	GeneratedAt time.Time `json:"generated_at"`

	FetchMeta map[string]FetchMeta `json:"fetch_meta,omitempty"` // Keyed by source name

	Records []ScoredRecord `json:"detailed_records"`
	Summary Summary        `json:"summary"`

	Brief *Brief `json:"brief,omitempty"` // Optional LLM executive brief, never affects scores
}

// FetchMeta captures what happened when a source feed was pulled
type FetchMeta struct {
	StatusCode int    `json:"status_code,omitempty"`
	Records    int    `json:"records"`
	Pages      int    `json:"pages,omitempty"`
	Duration   string `json:"duration,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ThreatHighlight is a top critical or high threat surfaced in the summary
type ThreatHighlight struct {
	Company      string `json:"company"`
	Product      string `json:"product"`
	ThreatScore  int    `json:"threat_score"`
	Confidence   int    `json:"confidence"`
	UrgentAction string `json:"urgent_action,omitempty"`
}

// Summary is the executive roll-up across all assessed records
type Summary struct {
	ThreatOverview    map[ThreatLevel]int `json:"threat_overview"`
	AverageConfidence int                 `json:"average_confidence"`
	TotalRecords      int                 `json:"total_records"`
	CriticalThreats   []ThreatHighlight   `json:"critical_threats"`
	HighThreats       []ThreatHighlight   `json:"high_threats"`
	Narrative         string              `json:"executive_summary"`
}

// Brief contains the optional LLM-generated executive brief.
// It is produced after scoring and can never change an assessment.
type Brief struct {
	Enabled       bool     `json:"enabled"`
	Provider      string   `json:"provider,omitempty"`
	Model         string   `json:"model,omitempty"`
	StrictRecords bool     `json:"strict_records"` // Whether record-ID allowlisting was enforced
	BriefMD       string   `json:"brief_md,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

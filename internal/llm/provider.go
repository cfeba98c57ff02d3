// Package llm generates the optional executive brief. The brief is plain
// narrative for leadership; it runs after scoring and can never change an
// assessment. Strict-records mode confines the model to the record IDs that
// were actually analyzed.
package llm

import (
	"context"
	"fmt"

	"github.com/shinde-pras/helix-insights-app/internal/model"
)

// Provider is an LLM backend capable of writing an executive brief
type Provider interface {
	// Name returns the provider name
	Name() string

	// Brief generates an executive brief with strict-records enforcement
	Brief(ctx context.Context, req BriefRequest) (*BriefResponse, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// BriefRequest is the input for brief generation
type BriefRequest struct {
	// Report is the completed analysis to narrate
	Report model.Report

	// RecordIDs is the STRICT allowlist of identifiers (K-numbers, NCT IDs)
	// the model may reference. Any other ID in the output fails the brief.
	RecordIDs []string

	// Prompt overrides the default prompt when non-empty
	Prompt string

	// Model is the provider-specific model name
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// BriefResponse is the provider's output
type BriefResponse struct {
	// Brief is the generated narrative
	Brief string

	// CitedIDs are the record IDs the model actually referenced
	CitedIDs []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// StrictRecords enforces the record-ID allowlist (should stay true)
	StrictRecords bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults with the brief disabled
func DefaultConfig() Config {
	return Config{
		Provider:      "",
		Model:         "",
		Timeout:       30,
		StrictRecords: true,
		MaxTokens:     1000,
	}
}

// BuildPrompt constructs the default brief prompt with strict-records mode
func BuildPrompt(report model.Report, recordIDs []string) string {
	s := report.Summary

	prompt := fmt.Sprintf(`You are writing an executive brief for a competitive intelligence report covering FDA 510(k) clearances and ClinicalTrials.gov studies.

CRITICAL RULES:
1. You may ONLY reference records from this allowed ID list:
%s

2. DO NOT invent companies, devices, trials, or identifiers beyond this list.
3. Threat scores and levels come from a deterministic heuristic. Report them; never second-guess or recompute them.
4. If the data is thin, say so explicitly.

Analysis Summary:
- Search term: %s
- Records analyzed: %d
- Critical: %d, High: %d, Medium: %d, Low: %d
- Average confidence: %d%%

Top threats:
`, joinIDs(recordIDs), orBroad(report.SearchTerm), s.TotalRecords,
		s.ThreatOverview[model.ThreatCritical], s.ThreatOverview[model.ThreatHigh],
		s.ThreatOverview[model.ThreatMedium], s.ThreatOverview[model.ThreatLow],
		s.AverageConfidence)

	for i, t := range append(append([]model.ThreatHighlight{}, s.CriticalThreats...), s.HighThreats...) {
		if i >= 5 {
			break
		}
		prompt += fmt.Sprintf("- %s: %s (score %d)\n", t.Company, t.Product, t.ThreatScore)
	}

	prompt += "\nWrite a 4-5 sentence brief for executive leadership: who moved, why it matters, and what to watch next quarter."

	return prompt
}

// Helper functions

func joinIDs(ids []string) string {
	if len(ids) == 0 {
		return "(No record IDs available)"
	}
	result := ""
	for i, id := range ids {
		if i >= 40 { // Cap the allowlist to avoid token bloat
			result += fmt.Sprintf("\n... and %d more IDs", len(ids)-40)
			break
		}
		result += "\n- " + id
	}
	return result
}

func orBroad(term string) string {
	if term == "" {
		return "(broad scan)"
	}
	return term
}

package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shinde-pras/helix-insights-app/internal/model"
)

// Renderer writes reports as JSON and Markdown and prints the stdout digest
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderMarkdown writes the executive dashboard as Markdown
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var sb strings.Builder

	sb.WriteString("# Helix Insights — Competitive Intelligence Report\n\n")
	if report.SearchTerm != "" {
		sb.WriteString(fmt.Sprintf("**Search term:** %s  \n", report.SearchTerm))
	}
	sb.WriteString(fmt.Sprintf("**Time range:** last %d days  \n", report.DaysBack))
	sb.WriteString(fmt.Sprintf("**Generated:** %s  \n", report.GeneratedAt.Format("2006-01-02 15:04 UTC")))
	sb.WriteString(fmt.Sprintf("**Report ID:** %s\n\n", report.ReportID))

	s := report.Summary

	sb.WriteString("## Executive Dashboard\n\n")
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	sb.WriteString(fmt.Sprintf("| Total records | %d |\n", s.TotalRecords))
	sb.WriteString(fmt.Sprintf("| Critical threats | %d |\n", s.ThreatOverview[model.ThreatCritical]))
	sb.WriteString(fmt.Sprintf("| High threats | %d |\n", s.ThreatOverview[model.ThreatHigh]))
	sb.WriteString(fmt.Sprintf("| Medium threats | %d |\n", s.ThreatOverview[model.ThreatMedium]))
	sb.WriteString(fmt.Sprintf("| Low threats | %d |\n", s.ThreatOverview[model.ThreatLow]))
	sb.WriteString(fmt.Sprintf("| Average confidence | %d%% |\n\n", s.AverageConfidence))

	sb.WriteString("## Executive Summary\n\n")
	sb.WriteString(s.Narrative + "\n\n")

	if len(s.CriticalThreats) > 0 {
		sb.WriteString("## Critical Threats — Immediate Action Required\n\n")
		for _, t := range s.CriticalThreats {
			sb.WriteString(fmt.Sprintf("- **%s** — %s  \n", t.Company, t.Product))
			sb.WriteString(fmt.Sprintf("  Threat score %d, confidence %d%%. Action: %s\n", t.ThreatScore, t.Confidence, t.UrgentAction))
		}
		sb.WriteString("\n")
	}

	if len(s.HighThreats) > 0 {
		sb.WriteString("## High Priority Threats\n\n")
		for _, t := range s.HighThreats {
			sb.WriteString(fmt.Sprintf("- **%s** — %s (score %d, confidence %d%%)\n", t.Company, t.Product, t.ThreatScore, t.Confidence))
		}
		sb.WriteString("\n")
	}

	if len(report.Records) > 0 {
		sb.WriteString("## Detailed Analysis Results\n\n")
		sb.WriteString("| Company | Product/Trial | Source | Level | Score | Confidence | Date |\n")
		sb.WriteString("|---|---|---|---|---|---|---|\n")
		for _, sr := range report.Records {
			rec := sr.Record
			a := sr.Assessment
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %d | %d%% | %s |\n",
				escapeCell(rec.Company),
				escapeCell(truncate(rec.Product(), 50)),
				rec.Source,
				a.ThreatLevel,
				a.ThreatScore,
				a.Confidence,
				rec.ActivityDate(),
			))
		}
		sb.WriteString("\n")
	}

	if report.Brief != nil && report.Brief.Enabled {
		sb.WriteString("## Executive Brief (LLM)\n\n")
		sb.WriteString(fmt.Sprintf("_Generated by %s/%s. Narrative only; scores above are heuristic and unaffected._\n\n", report.Brief.Provider, report.Brief.Model))
		sb.WriteString(report.Brief.BriefMD + "\n\n")
	}

	if r.includeFooter {
		sb.WriteString("---\n\n")
		sb.WriteString("Helix Insights • Data sources: FDA 510(k) & ClinicalTrials.gov • ")
		sb.WriteString(fmt.Sprintf("Scoring: %s\n", model.AgentVersion))
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderSummary prints the run digest to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	s := report.Summary

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Helix Insights — Analysis Complete")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Printf("  Records:     %d\n", s.TotalRecords)
	fmt.Printf("  Critical:    %d\n", s.ThreatOverview[model.ThreatCritical])
	fmt.Printf("  High:        %d\n", s.ThreatOverview[model.ThreatHigh])
	fmt.Printf("  Medium:      %d\n", s.ThreatOverview[model.ThreatMedium])
	fmt.Printf("  Low:         %d\n", s.ThreatOverview[model.ThreatLow])
	fmt.Printf("  Confidence:  %d%% average\n", s.AverageConfidence)
	fmt.Println()

	for _, t := range s.CriticalThreats {
		fmt.Printf("  🔴 %s — %s (score %d)\n", t.Company, truncate(t.Product, 60), t.ThreatScore)
	}
	for _, t := range s.HighThreats {
		fmt.Printf("  🟡 %s — %s (score %d)\n", t.Company, truncate(t.Product, 60), t.ThreatScore)
	}
	if len(s.CriticalThreats)+len(s.HighThreats) > 0 {
		fmt.Println()
	}
}

// escapeCell keeps record text from breaking the Markdown table
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

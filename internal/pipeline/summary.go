package pipeline

import (
	"fmt"
	"sort"

	"github.com/shinde-pras/helix-insights-app/internal/model"
)

const maxHighlights = 5

// BuildSummary rolls the assessed records up into the executive summary:
// level counts, average confidence, and the top critical and high threats.
func BuildSummary(scored []model.ScoredRecord) model.Summary {
	overview := map[model.ThreatLevel]int{
		model.ThreatCritical: 0,
		model.ThreatHigh:     0,
		model.ThreatMedium:   0,
		model.ThreatLow:      0,
	}

	var (
		critical  []model.ThreatHighlight
		high      []model.ThreatHighlight
		totalConf int
	)

	for _, sr := range scored {
		a := sr.Assessment
		overview[a.ThreatLevel]++
		totalConf += a.Confidence

		switch a.ThreatLevel {
		case model.ThreatCritical:
			critical = append(critical, model.ThreatHighlight{
				Company:      sr.Record.Company,
				Product:      truncate(sr.Record.Product(), 100),
				ThreatScore:  a.ThreatScore,
				Confidence:   a.Confidence,
				UrgentAction: urgentAction(a),
			})
		case model.ThreatHigh:
			high = append(high, model.ThreatHighlight{
				Company:     sr.Record.Company,
				Product:     truncate(sr.Record.Product(), 100),
				ThreatScore: a.ThreatScore,
				Confidence:  a.Confidence,
			})
		}
	}

	sortHighlights(critical)
	sortHighlights(high)

	avgConf := 0
	if len(scored) > 0 {
		avgConf = int(float64(totalConf)/float64(len(scored)) + 0.5)
	}

	return model.Summary{
		ThreatOverview:    overview,
		AverageConfidence: avgConf,
		TotalRecords:      len(scored),
		CriticalThreats:   top(critical, maxHighlights),
		HighThreats:       top(high, maxHighlights),
		Narrative:         narrative(len(scored), overview, avgConf),
	}
}

// narrative writes the executive summary sentence
func narrative(total int, overview map[model.ThreatLevel]int, avgConf int) string {
	if total == 0 {
		return "Helix Insights found no competitive records for the specified criteria. Broaden the search term or extend the time range."
	}

	return fmt.Sprintf(
		"Helix Insights analyzed %d competitive records from FDA device approvals and clinical trial databases. "+
			"Analysis identified %d CRITICAL threats requiring immediate executive action, "+
			"%d HIGH priority items for strategic competitive review, "+
			"%d MEDIUM priority items for ongoing monitoring, and "+
			"%d LOW priority items for quarterly review. "+
			"Average threat assessment confidence level: %d%%.",
		total,
		overview[model.ThreatCritical],
		overview[model.ThreatHigh],
		overview[model.ThreatMedium],
		overview[model.ThreatLow],
		avgConf,
	)
}

func urgentAction(a model.Assessment) string {
	if len(a.Actions) > 0 {
		return a.Actions[0].Action
	}
	return "Review immediately"
}

func sortHighlights(hs []model.ThreatHighlight) {
	sort.SliceStable(hs, func(i, j int) bool {
		return hs[i].ThreatScore > hs[j].ThreatScore
	})
}

func top(hs []model.ThreatHighlight, n int) []model.ThreatHighlight {
	if len(hs) > n {
		return hs[:n]
	}
	return hs
}

// truncate cuts on rune boundaries so multibyte sponsor and title text
// stays valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

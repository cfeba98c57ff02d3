package madison

import (
	"fmt"

	"github.com/shinde-pras/helix-insights-app/internal/model"
)

// actionItems derives the recommended follow-ups for a threat level. Every
// record gets at least the quarterly-review item; higher levels prepend
// escalations.
func actionItems(level model.ThreatLevel, company, product string) []model.ActionItem {
	if company == "" {
		company = "Competitor"
	}
	if product == "" {
		product = "device"
	}

	var actions []model.ActionItem

	if level == model.ThreatCritical {
		actions = append(actions, model.ActionItem{
			Priority: "URGENT",
			Action:   fmt.Sprintf("IMMEDIATE: Executive briefing on %s's %s", company, product),
			Timeline: "Within 48 hours",
			Owner:    "Executive Leadership",
		})
	}

	if level == model.ThreatCritical || level == model.ThreatHigh {
		actions = append(actions, model.ActionItem{
			Priority: "HIGH",
			Action:   fmt.Sprintf("Competitive deep-dive: %s strategy and positioning", company),
			Timeline: "Within 2 weeks",
			Owner:    "Competitive Intelligence",
		})
	}

	if level != model.ThreatLow {
		actions = append(actions, model.ActionItem{
			Priority: "MEDIUM",
			Action:   fmt.Sprintf("Monitor %s market activities", company),
			Timeline: "Next 90 days",
			Owner:    "Market Intelligence",
		})
	}

	actions = append(actions, model.ActionItem{
		Priority: "LOW",
		Action:   "Include in quarterly competitive review",
		Timeline: "Quarterly",
		Owner:    "Strategic Planning",
	})

	return actions
}

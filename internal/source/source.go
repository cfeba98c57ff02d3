// Package source implements the external feed clients. Each client fetches
// raw records from its API and normalizes them onto the shared model.Record
// schema so the scorer never sees source-specific shapes.
package source

import (
	"context"

	"github.com/shinde-pras/helix-insights-app/internal/model"
)

// Query describes one competitive analysis request
type Query struct {
	Term       string // Optional search term (device name or condition)
	DaysBack   int    // Activity window, counted back from now
	MaxRecords int    // Per-source fetch cap
}

// Source fetches and normalizes records from one external feed
type Source interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]model.Record, model.FetchMeta, error)
}

// dedupe drops records whose ID was already seen. Pagination against a feed
// that reorders under us can hand back the same record twice.
func dedupe(records []model.Record) []model.Record {
	seen := make(map[string]bool, len(records))
	out := records[:0]
	for _, r := range records {
		if r.ID != "" && seen[r.ID] {
			continue
		}
		if r.ID != "" {
			seen[r.ID] = true
		}
		out = append(out, r)
	}
	return out
}

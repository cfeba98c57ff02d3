package llm

import (
	"context"
	"fmt"

	"github.com/shinde-pras/helix-insights-app/internal/model"
)

// Briefer wraps a provider and turns completed reports into executive
// briefs. Provider failures never fail an analysis run; they surface as
// warnings on a disabled Brief.
type Briefer struct {
	provider Provider
	config   Config
}

// NewBriefer creates a briefer. An empty provider name yields a disabled
// briefer, not an error.
func NewBriefer(config Config) (*Briefer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	return &Briefer{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether a provider is configured
func (b *Briefer) IsEnabled() bool {
	return b.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled
func (b *Briefer) ProviderName() string {
	if b.provider == nil {
		return ""
	}
	return b.provider.Name()
}

// GenerateBrief produces the executive brief for a report. Returns nil when
// the briefer is disabled.
func (b *Briefer) GenerateBrief(ctx context.Context, report model.Report) (*model.Brief, error) {
	if b.provider == nil {
		return nil, nil
	}

	if !b.provider.IsAvailable(ctx) {
		return &model.Brief{
			Enabled:       false,
			Provider:      b.provider.Name(),
			StrictRecords: b.config.StrictRecords,
			Warnings:      []string{fmt.Sprintf("Provider %s is not available; brief skipped", b.provider.Name())},
		}, nil
	}

	recordIDs := make([]string, 0, len(report.Records))
	for _, sr := range report.Records {
		if sr.Record.ID != "" {
			recordIDs = append(recordIDs, sr.Record.ID)
		}
	}

	resp, err := b.provider.Brief(ctx, BriefRequest{
		Report:    report,
		RecordIDs: recordIDs,
		Model:     b.config.Model,
		MaxTokens: b.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate brief: %w", err)
	}

	warnings := []string{
		fmt.Sprintf("Tokens used: %d", resp.TokensUsed),
		fmt.Sprintf("Verified %d record citations against the analyzed set", len(resp.CitedIDs)),
	}

	return &model.Brief{
		Enabled:       true,
		Provider:      b.provider.Name(),
		Model:         resp.Model,
		StrictRecords: b.config.StrictRecords,
		BriefMD:       resp.Brief,
		Warnings:      warnings,
	}, nil
}

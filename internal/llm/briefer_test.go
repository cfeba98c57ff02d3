package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shinde-pras/helix-insights-app/internal/model"
)

// MockProvider implements Provider for testing
type MockProvider struct {
	name       string
	available  bool
	briefText  string
	briefErr   error
	gotRequest *BriefRequest
}

func (m *MockProvider) Name() string { return m.name }

func (m *MockProvider) IsAvailable(ctx context.Context) bool { return m.available }

func (m *MockProvider) Brief(ctx context.Context, req BriefRequest) (*BriefResponse, error) {
	m.gotRequest = &req
	if m.briefErr != nil {
		return nil, m.briefErr
	}
	return &BriefResponse{
		Brief:      m.briefText,
		CitedIDs:   extractRecordIDs(m.briefText),
		Model:      "mock-model",
		TokensUsed: 123,
	}, nil
}

func testReport() model.Report {
	return model.Report{
		ReportID:   "rep-1",
		SearchTerm: "contact lens",
		Records: []model.ScoredRecord{
			{Record: model.Record{ID: "K251234", Company: "Alcon"}},
			{Record: model.Record{ID: "NCT06111111", Company: "CooperVision"}},
			{Record: model.Record{Company: "No ID Co"}},
		},
		Summary: model.Summary{
			TotalRecords: 3,
			ThreatOverview: map[model.ThreatLevel]int{
				model.ThreatCritical: 1,
			},
			CriticalThreats: []model.ThreatHighlight{
				{Company: "Alcon", Product: "IOL", ThreatScore: 135},
			},
		},
	}
}

func TestBriefer_Disabled(t *testing.T) {
	b, err := NewBriefer(DefaultConfig())
	if err != nil {
		t.Fatalf("NewBriefer failed: %v", err)
	}

	if b.IsEnabled() {
		t.Error("expected disabled briefer for empty provider")
	}
	if b.ProviderName() != "" {
		t.Errorf("expected empty provider name, got %q", b.ProviderName())
	}

	brief, err := b.GenerateBrief(context.Background(), testReport())
	if err != nil {
		t.Errorf("disabled briefer must not error: %v", err)
	}
	if brief != nil {
		t.Errorf("expected nil brief, got %+v", brief)
	}
}

func TestBriefer_ProviderUnavailable(t *testing.T) {
	b := &Briefer{
		provider: &MockProvider{name: "mock", available: false},
		config:   DefaultConfig(),
	}

	brief, err := b.GenerateBrief(context.Background(), testReport())
	if err != nil {
		t.Fatalf("unavailable provider must degrade, not error: %v", err)
	}
	if brief == nil || brief.Enabled {
		t.Fatalf("expected disabled brief, got %+v", brief)
	}
	if len(brief.Warnings) != 1 || !strings.Contains(brief.Warnings[0], "not available") {
		t.Errorf("expected availability warning, got %v", brief.Warnings)
	}
}

func TestBriefer_GenerateBrief(t *testing.T) {
	mock := &MockProvider{
		name:      "mock",
		available: true,
		briefText: "Alcon's K251234 clearance raises the competitive stakes.",
	}
	b := &Briefer{provider: mock, config: DefaultConfig()}

	brief, err := b.GenerateBrief(context.Background(), testReport())
	if err != nil {
		t.Fatalf("GenerateBrief failed: %v", err)
	}

	if !brief.Enabled || brief.Provider != "mock" || brief.Model != "mock-model" {
		t.Errorf("unexpected brief: %+v", brief)
	}
	if !strings.Contains(brief.BriefMD, "K251234") {
		t.Errorf("unexpected brief body: %q", brief.BriefMD)
	}
	if len(brief.Warnings) != 2 {
		t.Errorf("expected token and citation notes, got %v", brief.Warnings)
	}

	// Only records with IDs make the allowlist
	if mock.gotRequest == nil {
		t.Fatal("provider never called")
	}
	want := []string{"K251234", "NCT06111111"}
	if len(mock.gotRequest.RecordIDs) != len(want) {
		t.Fatalf("expected allowlist %v, got %v", want, mock.gotRequest.RecordIDs)
	}
	for i, id := range want {
		if mock.gotRequest.RecordIDs[i] != id {
			t.Errorf("allowlist[%d]: expected %s, got %s", i, id, mock.gotRequest.RecordIDs[i])
		}
	}
}

func TestBriefer_ProviderError(t *testing.T) {
	b := &Briefer{
		provider: &MockProvider{name: "mock", available: true, briefErr: errors.New("model overloaded")},
		config:   DefaultConfig(),
	}

	_, err := b.GenerateBrief(context.Background(), testReport())
	if err == nil {
		t.Fatal("expected provider error to propagate")
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExtractRecordIDs(t *testing.T) {
	text := "Alcon (K251234) and the NCT06111111 study stand out. K251234 appears twice; K12 is not an ID."

	ids := extractRecordIDs(text)

	want := []string{"K251234", "NCT06111111"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("expected %s at %d, got %s", want[i], i, ids[i])
		}
	}
}

func TestExtractRecordIDs_None(t *testing.T) {
	if ids := extractRecordIDs("No identifiers here."); len(ids) != 0 {
		t.Errorf("expected no IDs, got %v", ids)
	}
}

func TestVerifyCitedIDs(t *testing.T) {
	allowed := []string{"K251234", "NCT06111111"}

	if err := verifyCitedIDs([]string{"K251234"}, allowed); err != nil {
		t.Errorf("allowed citation rejected: %v", err)
	}
	if err := verifyCitedIDs(nil, allowed); err != nil {
		t.Errorf("empty citations rejected: %v", err)
	}

	err := verifyCitedIDs([]string{"K999999"}, allowed)
	if err == nil {
		t.Fatal("expected fabricated record error")
	}
	if !strings.Contains(err.Error(), "FABRICATED RECORD") || !strings.Contains(err.Error(), "K999999") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(testReport(), []string{"K251234", "NCT06111111"})

	for _, want := range []string{
		"- K251234",
		"- NCT06111111",
		"DO NOT invent",
		"Search term: contact lens",
		"Alcon: IOL (score 135)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_BroadScan(t *testing.T) {
	report := testReport()
	report.SearchTerm = ""

	prompt := BuildPrompt(report, nil)

	if !strings.Contains(prompt, "(broad scan)") {
		t.Error("expected broad scan marker")
	}
	if !strings.Contains(prompt, "(No record IDs available)") {
		t.Error("expected empty allowlist marker")
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantNil bool
		wantErr bool
	}{
		{"disabled", Config{Provider: ""}, true, false},
		{"openai without key", Config{Provider: "openai"}, false, true},
		{"anthropic without key", Config{Provider: "anthropic"}, false, true},
		{"ollama", Config{Provider: "ollama"}, false, false},
		{"unknown", Config{Provider: "narrator9000"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil && p != nil {
				t.Errorf("expected nil provider, got %v", p)
			}
			if !tt.wantNil && p == nil {
				t.Error("expected a provider")
			}
		})
	}
}

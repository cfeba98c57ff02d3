package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shinde-pras/helix-insights-app/internal/model"
	"github.com/shinde-pras/helix-insights-app/internal/pipeline"
	"github.com/shinde-pras/helix-insights-app/internal/source"
	"github.com/spf13/cobra"
)

var (
	outJSON     string
	outMD       string
	daysBack    int
	maxRecords  int
	area        string
	timeout     time.Duration
	userAgent   string
	noCache     bool
	noFooter    bool
	insecureTLS bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// therapeuticAreas mirrors the dashboard's focus selector; the area name
// doubles as the search term.
var therapeuticAreas = []string{"ophthalmology", "cardiology", "orthopedics", "neurology", "oncology"}

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [term]",
	Short: "Run a competitive analysis across FDA and ClinicalTrials.gov",
	Long: `Analyze fetches FDA 510(k) clearances and ClinicalTrials.gov
interventional studies for the given search term (or a broad scan when no
term is given), scores every record with the Madison heuristic, and writes
an executive report.

Example:
  helix analyze
  helix analyze "contact lens" --days 730
  helix analyze --area ophthalmology --json report.json --md report.md
  helix analyze myopia --llm --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// Query flags
	analyzeCmd.Flags().IntVar(&daysBack, "days", 365, "activity window in days")
	analyzeCmd.Flags().IntVar(&maxRecords, "max-records", 100, "per-source record cap (use 200 for a deep analysis)")
	analyzeCmd.Flags().StringVar(&area, "area", "", "therapeutic focus ("+strings.Join(therapeuticAreas, ", ")+")")

	// HTTP flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&userAgent, "ua", "HelixInsights/1.0 (+https://helix-insights.vercel.app)", "HTTP User-Agent")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	analyzeCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM executive brief")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	term := ""
	if len(args) == 1 {
		term = args[0]
	}
	if term == "" && area != "" {
		term = strings.ToLower(area)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Search term: %q (blank = broad scan)\n", term)
		fmt.Fprintf(os.Stderr, "Window: last %d days, up to %d records per source\n", daysBack, maxRecords)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg)

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Fetching competitive intelligence data...\n")
	}

	report, err := p.Run(ctx, source.Query{
		Term:       term,
		DaysBack:   daysBack,
		MaxRecords: maxRecords,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if report.Summary.TotalRecords == 0 {
		fmt.Fprintln(os.Stderr, "No data found for the specified criteria. Try broadening your search.")
	}

	if verbose {
		for name, meta := range report.FetchMeta {
			if meta.Error != "" {
				fmt.Fprintf(os.Stderr, "✗ %s: %s\n", name, meta.Error)
				continue
			}
			fmt.Fprintf(os.Stderr, "✓ %s: %d records in %s\n", name, meta.Records, meta.Duration)
		}
		if report.Brief != nil && report.Brief.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated executive brief using %s/%s\n", report.Brief.Provider, report.Brief.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildConfig assembles the runtime config from defaults and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.Cache.Enabled = !noCache
	cfg.Sources.DaysBack = daysBack
	cfg.Sources.MaxRecords = maxRecords
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.StrictRecords = true // Always enforce

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	if apiKey := os.Getenv("OPENFDA_API_KEY"); apiKey != "" {
		cfg.Sources.FDA.APIKey = apiKey
	}

	return cfg, nil
}

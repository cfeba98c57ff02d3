package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shinde-pras/helix-insights-app/internal/model"
)

// Analyzer runs a full competitive analysis for a single search term
type Analyzer interface {
	Analyze(ctx context.Context, term string) (*model.Report, error)
}

// TermJob analyzes one watchlist term
type TermJob struct {
	Term     string
	Analyzer Analyzer
}

// Execute runs the analysis job
func (j *TermJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.Analyze(ctx, j.Term)
	if err != nil {
		return &TermResult{Term: j.Term, Error: err}
	}
	return &TermResult{Term: j.Term, Report: report}
}

// TermResult is the outcome of analyzing one term
type TermResult struct {
	Term   string
	Report *model.Report
	Error  error
}

// GetError returns the error from the analysis
func (r *TermResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple watchlist terms concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessTerms analyzes the given terms in parallel. Cancelling ctx
// stops both queued and in-flight analyses.
func (b *BatchProcessor) ProcessTerms(ctx context.Context, terms []string) []*TermResult {
	if len(terms) == 0 {
		return []*TermResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, term := range terms {
		pool.Submit(&TermJob{Term: term, Analyzer: b.analyzer})
	}

	results := pool.Wait()

	termResults := make([]*TermResult, len(results))
	for i, result := range results {
		termResults[i] = result.(*TermResult)
	}

	return termResults
}

// ProcessFile reads a watchlist file and analyzes every term in it
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*TermResult, error) {
	terms, err := ReadWatchlist(filePath)
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}

	return b.ProcessTerms(ctx, terms), nil
}

// ReadWatchlist reads search terms from a file, one per line.
// Blank lines and #-comments are skipped; duplicates are dropped.
func ReadWatchlist(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var terms []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key := strings.ToLower(line)
		if !seen[key] {
			seen[key] = true
			terms = append(terms, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return terms, nil
}

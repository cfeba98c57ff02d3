package llm

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface for OpenAI models
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	// Lightweight API call; also surfaces bad API keys early
	_, err := p.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// Brief generates an executive brief using the Chat Completions API
func (p *OpenAIProvider) Brief(ctx context.Context, req BriefRequest) (*BriefResponse, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Report, req.RecordIDs)
	}

	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a competitive intelligence analyst writing executive briefs with strict adherence to the analyzed record set.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3, // Lower temperature for focused, factual output
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	brief := strings.TrimSpace(resp.Choices[0].Message.Content)

	citedIDs := extractRecordIDs(brief)

	if p.config.StrictRecords {
		if err := verifyCitedIDs(citedIDs, req.RecordIDs); err != nil {
			return nil, err
		}
	}

	return &BriefResponse{
		Brief:      brief,
		CitedIDs:   citedIDs,
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// recordIDPattern matches 510(k) K-numbers and ClinicalTrials.gov NCT IDs
var recordIDPattern = regexp.MustCompile(`\b(?:K\d{6}|NCT\d{8})\b`)

// extractRecordIDs finds every record identifier mentioned in a brief
func extractRecordIDs(text string) []string {
	matches := recordIDPattern.FindAllString(text, -1)

	seen := make(map[string]bool)
	var unique []string
	for _, id := range matches {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	return unique
}

// verifyCitedIDs rejects briefs that mention identifiers outside the
// analyzed record set.
func verifyCitedIDs(cited, allowed []string) error {
	allowedSet := make(map[string]bool, len(allowed))
	for _, id := range allowed {
		allowedSet[id] = true
	}

	for _, id := range cited {
		if !allowedSet[id] {
			return fmt.Errorf("FABRICATED RECORD: brief referenced unknown ID: %s", id)
		}
	}

	return nil
}

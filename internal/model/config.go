package model

import "time"

// Config is the complete runtime configuration.
// Hierarchy: CLI flags > HELIX_* env vars > ~/.helix/config.yaml > defaults.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Sources     SourcesConfig     `yaml:"sources" mapstructure:"sources"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Scoring     ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls the shared fetch client
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" mapstructure:"no_proxy"`
	CheckRobots  bool          `yaml:"check_robots" mapstructure:"check_robots"`
}

// SourcesConfig holds the external feed endpoints and fetch depth
type SourcesConfig struct {
	FDA            FDAConfig   `yaml:"fda" mapstructure:"fda"`
	ClinicalTrials CTGovConfig `yaml:"clinical_trials" mapstructure:"clinical_trials"`
	DaysBack       int         `yaml:"days_back" mapstructure:"days_back"`
	MaxRecords     int         `yaml:"max_records" mapstructure:"max_records"` // Per source
}

// FDAConfig configures the openFDA 510(k) client
type FDAConfig struct {
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"` // Optional, raises openFDA quota
	PageSize int    `yaml:"page_size" mapstructure:"page_size"`
}

// CTGovConfig configures the ClinicalTrials.gov v2 client
type CTGovConfig struct {
	BaseURL  string   `yaml:"base_url" mapstructure:"base_url"`
	PageSize int      `yaml:"page_size" mapstructure:"page_size"`
	Statuses []string `yaml:"statuses" mapstructure:"statuses"`
}

// CacheConfig controls the layered response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig bounds parallel work
type ConcurrencyConfig struct {
	FetchWorkers int `yaml:"fetch_workers" mapstructure:"fetch_workers"` // Concurrent source fetches
	BatchWorkers int `yaml:"batch_workers" mapstructure:"batch_workers"` // Concurrent watchlist terms
}

// RateLimitConfig throttles outbound requests per API host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ScoringConfig holds the tunable Madison term lists. Weights are fixed in
// the scorer so every report stays comparable across runs.
type ScoringConfig struct {
	RecentWindowDays   int      `yaml:"recent_window_days" mapstructure:"recent_window_days"`
	ActivityWindowDays int      `yaml:"activity_window_days" mapstructure:"activity_window_days"`
	CategoryTerms      []string `yaml:"category_terms" mapstructure:"category_terms"`
	AdvancedTerms      []string `yaml:"advanced_terms" mapstructure:"advanced_terms"`
	Competitors        []string `yaml:"competitors" mapstructure:"competitors"`
}

// LLMConfig configures the optional executive brief generation
type LLMConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, "" = disabled
	Model         string `yaml:"model" mapstructure:"model"`
	APIKey        string `yaml:"-" mapstructure:"-"` // Env only, never persisted
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	Timeout       int    `yaml:"timeout" mapstructure:"timeout"` // Seconds
	MaxTokens     int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	StrictRecords bool   `yaml:"strict_records" mapstructure:"strict_records"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults. The scoring term lists are the
// Madison v1.3 ophthalmology baseline.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "HelixInsights/1.0 (+https://helix-insights.vercel.app)",
			MaxBodyBytes: 4_000_000,
			CheckRobots:  true,
		},
		Sources: SourcesConfig{
			FDA: FDAConfig{
				BaseURL:  "https://api.fda.gov",
				PageSize: 100,
			},
			ClinicalTrials: CTGovConfig{
				BaseURL:  "https://clinicaltrials.gov",
				PageSize: 100,
				Statuses: []string{"RECRUITING", "ACTIVE_NOT_RECRUITING", "COMPLETED"},
			},
			DaysBack:   365,
			MaxRecords: 100,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 6 * time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			FetchWorkers: 2,
			BatchWorkers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Scoring: ScoringConfig{
			RecentWindowDays:   730,
			ActivityWindowDays: 1825,
			CategoryTerms: []string{
				"contact lens", "intraocular", "iol", "lens",
				"ophthalmic", "vision", "eye", "retina", "cornea",
				"cataract", "glaucoma", "myopia", "surgical",
				"vitreous", "retinal", "ocular", "subretinal", "aspirator",
			},
			AdvancedTerms: []string{
				"surgical", "implant", "laser", "aspirator", "injector", "advanced",
			},
			Competitors: []string{
				"alcon", "bausch", "coopervision", "zeiss", "johnson",
				"novartis", "essilor", "hoya", "menicon", "paragon",
				"optical", "vision", "staar", "amo",
			},
		},
		LLM: LLMConfig{
			Timeout:       30,
			MaxTokens:     1000,
			StrictRecords: true,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}

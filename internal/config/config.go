package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nguyentantai21042004/segment-flow/internal/segment"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Inference   InferenceConfig   `yaml:"inference"`
	Retry       RetryConfig       `yaml:"retry"`
	Classifier  ClassifierConfig  `yaml:"classifier"`
	Filter      FilterConfig      `yaml:"filter"`
	Grouper     GrouperConfig     `yaml:"grouper"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Paths       PathsConfig       `yaml:"paths"`
	Store       StoreConfig       `yaml:"store"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type InferenceConfig struct {
	// Provider is one of "ollama", "openai", "gemini".
	Provider     string        `yaml:"provider"`
	BaseURL      string        `yaml:"base_url"`
	Model        string        `yaml:"model"`
	SummaryModel string        `yaml:"summary_model"`
	APIKey       string        `yaml:"api_key"`
	APIKeys      []string      `yaml:"api_keys"`
	Timeout      time.Duration `yaml:"timeout"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
	Multiplier     float64       `yaml:"multiplier"`
	Jitter         float64       `yaml:"jitter"`
}

type ClassifierConfig struct {
	BatchSize      int     `yaml:"batch_size"`
	MaxPromptChars int     `yaml:"max_prompt_chars"`
	MaxConcurrent  int     `yaml:"max_concurrent"`
	ShortTextWords int     `yaml:"short_text_words"`
	Temperature    float32 `yaml:"temperature"`
}

type FilterConfig struct {
	ExcludeLabels       []string `yaml:"exclude_labels"`
	MinWords            int      `yaml:"min_words"`
	SimilarityThreshold float64  `yaml:"similarity_threshold"`

	Exclude segment.LabelSet `yaml:"-"`
}

type GrouperConfig struct {
	MaxIdleGap       time.Duration `yaml:"max_idle_gap"`
	MaxGroupSize     int           `yaml:"max_group_size"`
	MaxGroupDuration time.Duration `yaml:"max_group_duration"`
	BoundaryLabels   []string      `yaml:"boundary_labels"`
	// AllowDroppedWithin lets a group span segments removed by the filter.
	AllowDroppedWithin bool `yaml:"allow_dropped_within"`

	Boundary segment.LabelSet `yaml:"-"`
}

type SummarizerConfig struct {
	MaxConcurrent     int           `yaml:"max_concurrent"`
	FallbackWords     int           `yaml:"fallback_words"`
	MaxWords          int           `yaml:"max_words"`
	SkipSingleSegment *bool         `yaml:"skip_single_segment"`
	Timeout           time.Duration `yaml:"timeout"`
	Temperature       float32       `yaml:"temperature"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
}

type StoreConfig struct {
	// Path of the SQLite database; empty disables the run store.
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Default returns a validated config with every default applied.
func Default() *Config {
	cfg := defaults()
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// defaults holds the settings for which zero is a meaningful value, so they
// are applied before decoding and an explicit 0 in the file survives.
func defaults() *Config {
	return &Config{
		Retry:      RetryConfig{Jitter: 0.2},
		Classifier: ClassifierConfig{Temperature: 0.1},
		Grouper:    GrouperConfig{MaxIdleGap: 5 * time.Second},
		Summarizer: SummarizerConfig{Temperature: 0.3},
	}
}

// SkipSingle reports whether single-segment groups reuse their text as summary.
func (c SummarizerConfig) SkipSingle() bool {
	return c.SkipSingleSegment == nil || *c.SkipSingleSegment
}

func (c *Config) Validate() error {
	if err := c.validateInference(); err != nil {
		return err
	}

	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("retry.max_attempts must be positive")
	}
	if c.Retry.InitialBackoff == 0 {
		c.Retry.InitialBackoff = 500 * time.Millisecond
	}
	if c.Retry.MaxBackoff == 0 {
		c.Retry.MaxBackoff = 8 * time.Second
	}
	if c.Retry.Multiplier == 0 {
		c.Retry.Multiplier = 2
	}
	if c.Retry.Jitter < 0 || c.Retry.Jitter >= 1 {
		return fmt.Errorf("retry.jitter must be in [0, 1)")
	}
	if c.Classifier.Temperature < 0 || c.Summarizer.Temperature < 0 {
		return fmt.Errorf("temperature must not be negative")
	}

	if c.Classifier.BatchSize == 0 {
		c.Classifier.BatchSize = 8
	}
	if c.Classifier.MaxPromptChars == 0 {
		c.Classifier.MaxPromptChars = 4000
	}
	if c.Classifier.MaxConcurrent == 0 {
		c.Classifier.MaxConcurrent = 4
	}
	if c.Classifier.ShortTextWords == 0 {
		c.Classifier.ShortTextWords = 3
	}
	if c.Classifier.BatchSize < 0 || c.Classifier.MaxConcurrent < 0 {
		return fmt.Errorf("classifier.batch_size and classifier.max_concurrent must be positive")
	}

	if err := c.validateFilter(); err != nil {
		return err
	}
	if err := c.validateGrouper(); err != nil {
		return err
	}

	if c.Summarizer.MaxConcurrent == 0 {
		c.Summarizer.MaxConcurrent = 2
	}
	if c.Summarizer.FallbackWords == 0 {
		c.Summarizer.FallbackWords = 40
	}
	if c.Summarizer.MaxWords == 0 {
		c.Summarizer.MaxWords = 300
	}
	if c.Summarizer.Timeout == 0 {
		c.Summarizer.Timeout = 300 * time.Second
	}

	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "output"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}

func (c *Config) validateInference() error {
	in := &c.Inference
	in.Provider = strings.ToLower(strings.TrimSpace(in.Provider))
	if in.Provider == "" {
		in.Provider = "ollama"
	}

	switch in.Provider {
	case "ollama":
		if in.BaseURL == "" {
			in.BaseURL = "http://localhost:11434"
		}
		if in.Model == "" {
			in.Model = "phi3.5:3.8b"
		}
	case "openai":
		if in.APIKey == "" {
			in.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if in.Model == "" {
			in.Model = "gpt-4o-mini"
		}
	case "gemini":
		if len(in.APIKeys) == 0 {
			for _, k := range strings.Split(os.Getenv("GEMINI_API_KEYS"), ",") {
				if k = strings.TrimSpace(k); k != "" {
					in.APIKeys = append(in.APIKeys, k)
				}
			}
		}
		if len(in.APIKeys) == 0 {
			return fmt.Errorf("inference.api_keys is required for provider gemini")
		}
		if in.Model == "" {
			in.Model = "gemini-2.5-flash"
		}
	default:
		return fmt.Errorf("inference.provider %q is not supported", in.Provider)
	}

	if in.SummaryModel == "" {
		in.SummaryModel = in.Model
	}
	if in.Timeout == 0 {
		in.Timeout = 30 * time.Second
	}
	return nil
}

func (c *Config) validateFilter() error {
	f := &c.Filter
	if f.ExcludeLabels == nil {
		f.ExcludeLabels = []string{"greeting", "farewell", "filler", "noise", "off_topic"}
	}
	set, err := segment.ParseLabelSet(f.ExcludeLabels)
	if err != nil {
		return fmt.Errorf("filter.exclude_labels: %w", err)
	}
	f.Exclude = set

	if f.MinWords == 0 {
		f.MinWords = 3
	}
	if f.SimilarityThreshold == 0 {
		f.SimilarityThreshold = 0.9
	}
	if f.SimilarityThreshold < 0 || f.SimilarityThreshold > 1 {
		return fmt.Errorf("filter.similarity_threshold must be in [0, 1]")
	}
	return nil
}

func (c *Config) validateGrouper() error {
	g := &c.Grouper
	if g.MaxGroupSize == 0 {
		g.MaxGroupSize = 15
	}
	if g.MaxGroupSize < 0 || g.MaxIdleGap < 0 || g.MaxGroupDuration < 0 {
		return fmt.Errorf("grouper limits must not be negative")
	}
	if g.BoundaryLabels == nil {
		g.BoundaryLabels = []string{"transition", "introduction"}
	}
	set, err := segment.ParseLabelSet(g.BoundaryLabels)
	if err != nil {
		return fmt.Errorf("grouper.boundary_labels: %w", err)
	}
	g.Boundary = set
	return nil
}

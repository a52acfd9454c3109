// Package llm wraps the language model used to tailor résumés and analyse keywords.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for cheap clean-up tasks such as trimming scraped job pages
	TierLite ModelTier = "lite"
	// TierStandard is for keyword analysis
	TierStandard ModelTier = "standard"
	// TierAdvanced is for rewriting the résumé
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider, the only one implemented.
const ProviderGemini Provider = "gemini"

// Task names a kind of request the application makes.
type Task string

const (
	TaskTailor   Task = "tailor"
	TaskAnalyze  Task = "analyze"
	TaskCleanJob Task = "clean_job"
)

// Settings are the generation parameters for a task.
type Settings struct {
	Tier        ModelTier
	Temperature float32
	MaxTokens   int32
}

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	Tasks    map[Task]Settings
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Tasks: map[Task]Settings{
			TaskTailor:   {Tier: TierAdvanced, Temperature: 0.4, MaxTokens: 2500},
			TaskAnalyze:  {Tier: TierStandard, Temperature: 0.3, MaxTokens: 1500},
			TaskCleanJob: {Tier: TierLite, Temperature: 0.1, MaxTokens: 4000},
		},
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// Settings returns the generation settings for task, falling back to the
// standard tier at a low temperature.
func (c *Config) Settings(task Task) Settings {
	if s, ok := c.Tasks[task]; ok {
		return s
	}
	return Settings{Tier: TierStandard, Temperature: 0.2}
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := c.clone()
	next.Models[tier] = model
	return next
}

// WithAllModels returns a new Config that uses model for every tier.
func (c *Config) WithAllModels(model string) *Config {
	next := c.clone()
	for _, tier := range []ModelTier{TierLite, TierStandard, TierAdvanced} {
		next.Models[tier] = model
	}
	return next
}

func (c *Config) clone() *Config {
	next := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string, len(c.Models)),
		Tasks:    make(map[Task]Settings, len(c.Tasks)),
	}
	for k, v := range c.Models {
		next.Models[k] = v
	}
	for k, v := range c.Tasks {
		next.Tasks[k] = v
	}
	return next
}

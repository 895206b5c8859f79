// Package llm wraps the language-model provider used to reword explanations.
package llm

import (
	"fmt"
	"strings"
	"time"
)

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short rewording tasks
	TierLite ModelTier = "lite"
	// TierStandard is the default for explanation rewrites
	TierStandard ModelTier = "standard"
	// TierAdvanced is for longer, multi-stage rewrites
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// Config holds the model configuration for the client.
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
	Timeout     time.Duration
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
		Temperature: 0.2,
		Timeout:     20 * time.Second,
	}
}

// ParseTier converts a config string into a ModelTier. Empty means standard.
func ParseTier(s string) (ModelTier, error) {
	switch t := ModelTier(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TierStandard, nil
	case TierLite, TierStandard, TierAdvanced:
		return t, nil
	default:
		return "", fmt.Errorf("unknown model tier %q", s)
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

// WithModel returns a copy of the Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}

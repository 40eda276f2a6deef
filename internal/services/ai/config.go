// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// Timeout bounds a single completion call. Calls are never retried.
	Timeout time.Duration

	// Model Parameters
	Temperature float32
	TopP        float32
	MaxTokens   int
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("AI_API_KEY is required")
	}
	if c.Model == "" {
		return fmt.Errorf("AI_MODEL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max tokens cannot be negative")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://api.openai.com/v1",
		Model:       "gpt-4o-mini",
		Timeout:     10 * time.Second,
		Temperature: 0.7,
		TopP:        1,
		MaxTokens:   400,
	}
}

package config

import (
	"fmt"
	"strings"

	"github.com/japaniel/wikianki/pkg/frequency"
)

// Validate checks the loaded configuration. Load calls it automatically;
// callers that override fields afterwards should call it again.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input.Language) == "" {
		return fmt.Errorf("input.language must be set")
	}
	if c.Input.Limit < 0 {
		return fmt.Errorf("input.limit must be >= 0 (got %d)", c.Input.Limit)
	}

	switch c.Frequency.Policy {
	case frequency.PolicyLookup, frequency.PolicyResort:
	default:
		return fmt.Errorf("frequency.policy must be %q or %q (got %q)", frequency.PolicyLookup, frequency.PolicyResort, c.Frequency.Policy)
	}
	if c.Frequency.MaxRank < 0 {
		return fmt.Errorf("frequency.max_rank must be >= 0 (got %d)", c.Frequency.MaxRank)
	}
	if c.Frequency.MaxCards < 0 {
		return fmt.Errorf("frequency.max_cards must be >= 0 (got %d)", c.Frequency.MaxCards)
	}

	if c.Output.MinDefinitionLength < 0 {
		return fmt.Errorf("output.min_definition_length must be >= 0 (got %d)", c.Output.MinDefinitionLength)
	}
	if c.Deck.NewPerDay < 0 || c.Deck.ReviewsPerDay < 0 {
		return fmt.Errorf("deck limits must be >= 0")
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}
	return nil
}

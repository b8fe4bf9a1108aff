package block

import (
	"strconv"
	"strings"
	"time"
)

// Modifiers is the typed view of a block's modifier list, parsed once at
// registration. Unknown keys are preserved in Rest in their original order.
type Modifiers struct {
	// Depends lists dependency block names from `depends` and `requires`
	// modifiers, in modifier order. Comma-separated values are split.
	Depends []string

	// Fallback names the block whose result substitutes on failure.
	Fallback string

	// CacheResult enables result caching when truthy.
	CacheResult bool

	// Timeout is the cache TTL from a `timeout` modifier in seconds.
	// Zero means unset. This is never an execution bound.
	Timeout time.Duration

	// TestMode forces the deterministic runner bypass for this block.
	TestMode bool

	// TestResponse is returned by the bypass instead of the canned string.
	TestResponse string

	// Formatting hints, also copied onto synthesized error-response blocks.
	Format   string
	Display  string
	MaxLines int
	Trim     bool

	// Question/LLM configuration.
	Provider     string
	Model        string
	Temperature  float64
	MaxTokens    int
	APIKey       string
	SystemPrompt string
	ContextKey   string

	// Rest holds modifiers the engine has no typed field for, in order.
	Rest []Modifier
}

// ParseModifiers builds the typed record from a raw ordered modifier list.
// Scalar keys take the last occurrence; dependency keys accumulate.
func ParseModifiers(raw []Modifier) Modifiers {
	var m Modifiers
	for _, mod := range raw {
		switch strings.ToLower(mod.Key) {
		case "depends", "requires":
			for _, dep := range strings.Split(mod.Value, ",") {
				if dep = strings.TrimSpace(dep); dep != "" {
					m.Depends = append(m.Depends, dep)
				}
			}
		case "fallback":
			m.Fallback = strings.TrimSpace(mod.Value)
		case "cache_result":
			m.CacheResult = Truthy(mod.Value)
		case "timeout":
			if secs, err := strconv.ParseFloat(strings.TrimSpace(mod.Value), 64); err == nil && secs > 0 {
				m.Timeout = time.Duration(secs * float64(time.Second))
			}
		case "test_mode":
			m.TestMode = Truthy(mod.Value)
		case "test_response":
			m.TestResponse = mod.Value
		case "format":
			m.Format = strings.ToLower(strings.TrimSpace(mod.Value))
		case "display":
			m.Display = mod.Value
		case "max_lines":
			if n, err := strconv.Atoi(strings.TrimSpace(mod.Value)); err == nil && n > 0 {
				m.MaxLines = n
			}
		case "trim":
			m.Trim = Truthy(mod.Value)
		case "provider":
			m.Provider = strings.TrimSpace(mod.Value)
		case "model":
			m.Model = strings.TrimSpace(mod.Value)
		case "temperature":
			if f, err := strconv.ParseFloat(strings.TrimSpace(mod.Value), 64); err == nil {
				m.Temperature = f
			}
		case "max_tokens":
			if n, err := strconv.Atoi(strings.TrimSpace(mod.Value)); err == nil && n > 0 {
				m.MaxTokens = n
			}
		case "api_key":
			m.APIKey = mod.Value
		case "system_prompt":
			m.SystemPrompt = mod.Value
		case "context":
			m.ContextKey = strings.TrimSpace(mod.Value)
		default:
			m.Rest = append(m.Rest, mod)
		}
	}
	return m
}

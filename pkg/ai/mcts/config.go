package mcts

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config holds the engine parameters.
type Config struct {
	Exploration  float64 `json:"exploration"`
	Iterations   int     `json:"iterations"`     // 0 = no iteration cap
	TimeBudgetMs int     `json:"time_budget_ms"` // 0 = no deadline
	Seed         uint64  `json:"seed"`           // 0 = random seed
	MaxNodes     int     `json:"max_nodes"`      // arena size that triggers compaction after a reroot
}

func DefaultConfig() Config {
	return Config{
		Exploration:  2.0,
		TimeBudgetMs: 1000,
		MaxNodes:     1 << 20,
	}
}

// Budget converts the configured limits.
func (c Config) Budget() Budget {
	return Budget{
		Iterations: c.Iterations,
		Duration:   time.Duration(c.TimeBudgetMs) * time.Millisecond,
	}
}

// LoadConfig reads a JSON config on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read mcts config: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to unmarshal mcts config: %w", err)
	}
	if err := c.Budget().Validate(); err != nil {
		return c, fmt.Errorf("invalid mcts config: %w", err)
	}
	return c, nil
}

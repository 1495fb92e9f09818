// Package agents builds game.AI implementations by name for the binaries.
package agents

import (
	"fmt"

	"github.com/montplusa/connect4-mcts/pkg/ai/heuristic"
	"github.com/montplusa/connect4-mcts/pkg/ai/mcts"
	"github.com/montplusa/connect4-mcts/pkg/ai/random"
	"github.com/montplusa/connect4-mcts/pkg/ai/trivial"
	"github.com/montplusa/connect4-mcts/pkg/ai/valuenet"
	"github.com/montplusa/connect4-mcts/pkg/game"
)

// Names lists the agents New understands.
var Names = []string{"heuristic", "mcts", "random", "trivial", "valuenet"}

// Options carries the per-agent settings.
type Options struct {
	MCTS    mcts.Config
	Weights string // exported valuenet network; empty means fresh weights
	Seed    uint64
}

// New returns a fresh agent. Agents keep state between moves, so every game
// needs its own.
func New(name string, opts Options) (game.AI, error) {
	switch name {
	case "heuristic":
		return heuristic.New(), nil
	case "mcts":
		cfg := opts.MCTS
		if opts.Seed != 0 {
			cfg.Seed = opts.Seed
		}
		ai, err := mcts.New(cfg)
		if err != nil {
			return nil, err
		}
		return ai, nil
	case "random":
		return random.New(opts.Seed), nil
	case "trivial":
		return trivial.New(), nil
	case "valuenet":
		cfg := valuenet.DefaultNetworkConfig()
		if opts.Weights != "" {
			var err error
			if cfg, err = valuenet.LoadNetworkConfig(opts.Weights); err != nil {
				return nil, err
			}
		}
		net, err := valuenet.New(cfg)
		if err != nil {
			return nil, err
		}
		net.SetSeed(opts.Seed)
		return net, nil
	}
	return nil, fmt.Errorf("unknown agent %q (want one of %v)", name, Names)
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/montplusa/connect4-mcts/pkg/ai/agents"
	"github.com/montplusa/connect4-mcts/pkg/ai/mcts"
	"github.com/montplusa/connect4-mcts/pkg/ai/valuenet"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Parse command line flags
	episodes := flag.Int("episodes", 1000, "Number of training episodes")
	batchSize := flag.Int("batch", 256, "Training batch size")
	name := flag.String("name", "sample", "Name of output weights")
	outputDir := flag.String("output", "networks", "Directory for the weights file")
	initial := flag.String("init", "", "Start from exported weights instead of random ones")
	initialTemp := flag.Float64("temp-init", 1.0, "Initial exploration temperature")
	finalTemp := flag.Float64("temp-final", 0.1, "Final exploration temperature")
	reportInterval := flag.Int("report", 10, "Report progress every N episodes")
	learningRate := flag.Float64("lr", 0.01, "Learning rate for neural network training")
	opponent := flag.String("opponent", "mcts", fmt.Sprintf("Opponent agent %v", agents.Names))
	iterations := flag.Int("mcts-iterations", 200, "Iterations per move for an MCTS opponent")
	seed := flag.Uint64("seed", 0, "Seed for sampling and the opponent (0 means random)")
	debug := flag.Bool("debug", false, "Debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	networkConfig := valuenet.DefaultNetworkConfig()
	if *initial != "" {
		var err error
		if networkConfig, err = valuenet.LoadNetworkConfig(*initial); err != nil {
			log.Fatal().Err(err).Msg("failed to load initial network")
		}
	}

	mctsConfig := mcts.DefaultConfig()
	mctsConfig.Iterations = *iterations
	mctsConfig.TimeBudgetMs = 0
	op, err := agents.New(*opponent, agents.Options{MCTS: mctsConfig, Seed: *seed})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create opponent")
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("failed to create output directory")
	}

	net, err := valuenet.Train(valuenet.TrainingConfig{
		Episodes:             *episodes,
		BatchSize:            *batchSize,
		ReportInterval:       *reportInterval,
		Name:                 *name,
		OutputDir:            *outputDir,
		InitialTemperature:   *initialTemp,
		FinalTemperature:     *finalTemp,
		LearningRate:         *learningRate,
		InitialNetworkConfig: networkConfig,
		Opponent:             op,
		Seed:                 *seed,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}

	fmt.Println("Training complete! New weights:", net.Name())
}

package valuenet

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/montplusa/connect4-mcts/pkg/game"
	"github.com/patrikeh/go-deep/training"
	"github.com/rs/zerolog/log"
)

// TrainingConfig specifies parameters for self-play training
type TrainingConfig struct {
	Episodes             int           // Number of games
	BatchSize            int           // Batch size for neural network updates
	ReportInterval       int           // How often to report progress
	Name                 string        // Name of the output weights file
	OutputDir            string        // Where weights are written; empty disables saving
	InitialTemperature   float64       // Starting exploration temperature
	FinalTemperature     float64       // Final exploration temperature
	LearningRate         float64       // Learning rate for the neural network
	InitialNetworkConfig NetworkConfig // Initial network configuration
	Opponent             game.AI       // Opponent agent
	Seed                 uint64        // Sampling seed; 0 picks a random one
}

// TrainingStats tracks metrics during training
type TrainingStats struct {
	Wins       int
	Losses     int
	Draws      int
	TotalTurns int
	StartTime  time.Time
}

func (s TrainingStats) games() int { return s.Wins + s.Losses + s.Draws }

func (s TrainingStats) winRate() float64 {
	if s.games() == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.games()) * 100
}

// Train plays config.Episodes games against config.Opponent, alternating
// sides, and fits the network to the final outcome of every position it saw.
func Train(config TrainingConfig) (*ValueNet, error) {
	if config.ReportInterval <= 0 {
		return nil, fmt.Errorf("report interval must be greater than 0")
	}
	if config.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be greater than 0")
	}
	if config.Opponent == nil {
		return nil, fmt.Errorf("an opponent is required")
	}

	net, err := New(config.InitialNetworkConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	if config.Name != "" {
		net.config.Name = config.Name
	}
	if config.LearningRate > 0 {
		net.SetLearningRate(config.LearningRate)
	}
	net.SetSeed(config.Seed)

	log.Info().
		Str("opponent", config.Opponent.Name()).
		Int("episodes", config.Episodes).
		Int("batch", config.BatchSize).
		Float64("temp-init", config.InitialTemperature).
		Float64("temp-final", config.FinalTemperature).
		Msg("training-start")

	var examples training.Examples
	stats := TrainingStats{StartTime: time.Now()}
	lastReportTime := stats.StartTime

	for episode := 0; episode < config.Episodes; episode++ {
		// linear decay
		progress := 0.0
		if config.Episodes > 1 {
			progress = float64(episode) / float64(config.Episodes-1)
		}
		net.SetTemperature(config.InitialTemperature + (config.FinalTemperature-config.InitialTemperature)*progress)

		// 先手と後手を交互に
		side := episode % 2
		runner := game.NewGameRunner(net, config.Opponent)
		if side == 1 {
			runner = game.NewGameRunner(config.Opponent, net)
		}
		result, err := runner.Run()
		if err != nil {
			return nil, fmt.Errorf("episode %d: %w", episode, err)
		}

		switch result.Winner {
		case side:
			stats.Wins++
		case -1:
			stats.Draws++
		default:
			stats.Losses++
		}
		stats.TotalTurns += len(result.Moves)
		examples = append(examples, episodeExamples(result)...)

		if len(examples) >= config.BatchSize {
			trainStart := time.Now()
			examples.Shuffle()
			trainer := training.NewTrainer(training.NewSGD(net.config.LearningRate, 0.5, 0.0, false), 1)
			iterations := len(examples)/config.BatchSize + 1
			trainer.Train(net.network, examples, nil, iterations)
			log.Debug().
				Int("examples", len(examples)).
				Str("took", formatDuration(time.Since(trainStart))).
				Msg("batch-trained")
			examples = nil
		}

		if (episode+1)%config.ReportInterval == 0 || episode == config.Episodes-1 {
			now := time.Now()
			gamesPerSecond := float64(config.ReportInterval) / now.Sub(lastReportTime).Seconds()
			remaining := config.Episodes - (episode + 1)
			eta := time.Duration(float64(remaining)/gamesPerSecond) * time.Second

			log.Info().
				Int("episode", episode+1).
				Float64("win-rate", stats.winRate()).
				Int("wins", stats.Wins).
				Int("losses", stats.Losses).
				Int("draws", stats.Draws).
				Float64("avg-turns", float64(stats.TotalTurns)/float64(episode+1)).
				Str("elapsed", formatDuration(now.Sub(stats.StartTime))).
				Str("eta", formatDuration(eta)).
				Msg("training-progress")
			lastReportTime = now

			if err := net.save(config.OutputDir); err != nil {
				return nil, err
			}
		}
	}

	log.Info().
		Str("total", formatDuration(time.Since(stats.StartTime))).
		Float64("win-rate", stats.winRate()).
		Msg("training-done")
	net.SetTemperature(0)
	net.config = net.snapshot()
	return net, nil
}

// episodeExamples labels every position with the final outcome for the
// player who just moved into it: 2 win, 1 draw, 0 loss.
func episodeExamples(result game.BattleResult) training.Examples {
	examples := make(training.Examples, 0, len(result.Moves))
	for _, move := range result.Moves {
		label := 1.0
		switch result.Winner {
		case move.Player:
			label = 2
		case 1 - move.Player:
			label = 0
		}
		examples = append(examples, training.Example{
			Input:    stateToFeatures(move.State),
			Response: []float64{label},
		})
	}
	return examples
}

func (v *ValueNet) save(dir string) error {
	if dir == "" {
		return nil
	}
	path := filepath.Join(dir, v.config.Name+".json")
	log.Info().Str("path", path).Msg("saving-network")
	return v.snapshot().Export(path)
}

// formatDuration returns a human-readable string for a duration
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

package valuenet

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"os"

	"github.com/montplusa/connect4-mcts/pkg/game"
	"github.com/patrikeh/go-deep"
	"lukechampine.com/frand"
)

const cells = game.Width * game.Height

// NetworkConfig defines the neural network architecture
type NetworkConfig struct {
	Name         string        `json:"name"`
	InputSize    int           `json:"input_size"`
	HiddenLayers []int         `json:"hidden_layers"`
	LearningRate float64       `json:"learning_rate"`
	Weights      [][][]float64 `json:"weights,omitempty"`
}

func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		Name:         "default",
		InputSize:    2*cells + 1, // both stone planes + ply
		HiddenLayers: []int{64, 32},
		LearningRate: 0.01,
		Weights:      nil,
	}
}

// ValueNet implements the game.AI interface with neural network evaluation
type ValueNet struct {
	network     *deep.Neural
	config      NetworkConfig
	temperature float64 // For exploration during training
	rng         *rand.Rand
}

// New creates a new ValueNet with optional pre-trained weights
func New(config NetworkConfig) (*ValueNet, error) {
	if config.InputSize != 2*cells+1 {
		return nil, fmt.Errorf("input size %d does not match the %d board features", config.InputSize, 2*cells+1)
	}

	network := deep.NewNeural(&deep.Config{
		Inputs:     config.InputSize,
		Layout:     append(append([]int{}, config.HiddenLayers...), 1), // Output: single evaluation score
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeRegression,
		Weight:     deep.NewNormal(0.1, 0.0),
		Bias:       true,
	})

	// Apply loaded weights if any
	if config.Weights != nil {
		network.ApplyWeights(config.Weights)
	}

	return &ValueNet{
		network: network,
		config:  config,
		rng:     rand.New(rand.NewPCG(frand.Uint64n(1<<63), frand.Uint64n(1<<63))),
	}, nil
}

func (v *ValueNet) Name() string {
	return fmt.Sprintf("valuenet (%s)", v.config.Name)
}

// SetTemperature sets the exploration temperature for training.
// Zero means greedy play.
func (v *ValueNet) SetTemperature(temp float64) {
	v.temperature = temp
}

// SetSeed reseeds the sampling source used when the temperature is positive.
// Zero keeps the current source.
func (v *ValueNet) SetSeed(seed uint64) {
	if seed != 0 {
		v.rng = rand.New(rand.NewPCG(seed, ^seed))
	}
}

// SetLearningRate sets the learning rate for the neural network
func (v *ValueNet) SetLearningRate(lr float64) {
	v.config.LearningRate = lr
}

// Evaluate returns the expected outcome in [0,2] for the player who just
// moved into state.
func (v *ValueNet) Evaluate(state game.State) float64 {
	switch state.Status() {
	case game.Lost:
		return 2
	case game.Won:
		return 0
	case game.Draw:
		return 1
	}
	prediction := v.network.Predict(stateToFeatures(state))
	return math.Max(0, math.Min(2, prediction[0]))
}

// SelectMove implements the game.AI interface
func (v *ValueNet) SelectMove(state game.State) (game.State, float64) {
	moves := game.Moves(state)
	for _, m := range moves {
		if m.Status() == game.Lost {
			// 即勝ち
			return m, 2
		}
	}

	values := make([]float64, len(moves))
	best := 0
	for i, m := range moves {
		values[i] = v.Evaluate(m)
		if values[i] > values[best] {
			best = i
		}
	}
	if v.temperature <= 0 {
		return moves[best], values[best]
	}

	// softmax sampling over the evaluations
	weights := make([]float64, len(moves))
	total := 0.0
	for i, val := range values {
		weights[i] = math.Exp((val - values[best]) / v.temperature)
		total += weights[i]
	}
	r := v.rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return moves[i], values[i]
		}
	}
	return moves[best], values[best]
}

// Observe implements the game.AI interface
func (v *ValueNet) Observe(game.State) {}

// stateToFeatures encodes the position from the point of view of the player
// who just moved: +1 for own stones, -1 for the opponent's, one plane each.
func stateToFeatures(state game.State) []float64 {
	features := make([]float64, 2*cells+1)
	idx := 0
	for y := 0; y < game.Height; y++ {
		for x := 0; x < game.Width; x++ {
			if state.JustMoved.Has(x, y) {
				features[idx] = 1
			}
			if state.ToMove.Has(x, y) {
				features[cells+idx] = -1
			}
			idx++
		}
	}
	features[2*cells] = normalizeFeature(float64(state.Ply()), 0, cells)
	return features
}

// Feature normalization: 特徴量を[-1, 1]の範囲に正規化
func normalizeFeature(value, min, max float64) float64 {
	if max == min {
		return 0.0
	}
	normalized := 2.0*(value-min)/(max-min) - 1.0
	if normalized < -1.0 {
		return -1.0
	}
	if normalized > 1.0 {
		return 1.0
	}
	return normalized
}

// LoadNetworkConfig reads a network exported by Export.
func LoadNetworkConfig(path string) (NetworkConfig, error) {
	var config NetworkConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read network: %w", err)
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to unmarshal network: %w", err)
	}
	return config, nil
}

// Export writes the config, including weights, as JSON.
func (c NetworkConfig) Export(path string) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal network: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write network: %w", err)
	}
	return nil
}

// Config returns the network configuration with the current weights.
func (v *ValueNet) Config() NetworkConfig {
	return v.snapshot()
}

// snapshot copies the current weights into the config.
func (v *ValueNet) snapshot() NetworkConfig {
	c := v.config
	c.Weights = v.network.Dump().Weights
	return c
}

package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/montplusa/connect4-mcts/pkg/ai/mcts"
	"github.com/montplusa/connect4-mcts/pkg/game"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var errQuit = errors.New("input closed")

// session は人間とエンジンの一局
type session struct {
	in         *bufio.Scanner
	out        io.Writer
	engine     game.AI
	humanFirst bool
}

func parseCell(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("want \"x y\", got %q", line)
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad x: %w", err)
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad y: %w", err)
	}
	return x, y, nil
}

// readMove は合法な入力が来るまで聞き直す
func (s *session) readMove(state game.State) (game.State, error) {
	for {
		fmt.Fprint(s.out, "your move (x y): ")
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return state, err
			}
			return state, errQuit
		}
		x, y, err := parseCell(s.in.Text())
		if err != nil {
			fmt.Fprintln(s.out, err)
			continue
		}
		next, err := state.PlayCell(x, y)
		if err != nil {
			fmt.Fprintln(s.out, err)
			continue
		}
		return next, nil
	}
}

// run は終局まで対局し、最終局面を返す
func (s *session) run() (game.State, error) {
	state := game.State{}
	humanTurn := s.humanFirst
	for state.Status() == game.Playing {
		if humanTurn {
			next, err := s.readMove(state)
			if err != nil {
				return state, err
			}
			state = next
			s.engine.Observe(state)
		} else {
			next, score := s.engine.SelectMove(state)
			state = next
			fmt.Fprintf(s.out, "%.4f\n", score)
		}
		fmt.Fprint(s.out, state.String())
		humanTurn = !humanTurn
	}

	switch state.Status() {
	case game.Lost:
		if humanTurn {
			// 直前に指したのはエンジン
			fmt.Fprintln(s.out, "engine wins")
		} else {
			fmt.Fprintln(s.out, "you win")
		}
	case game.Won:
		// 手番側が既に揃えている局面には通常到達しない
		fmt.Fprintln(s.out, "game over")
	case game.Draw:
		fmt.Fprintln(s.out, "draw")
	}
	fmt.Fprintln(s.out, "finished")
	return state, nil
}

func logLevel(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func main() {
	first := flag.String("first", "human", "who moves first: human or engine")
	timeMs := flag.Int("time-ms", 1000, "engine time budget per move in milliseconds")
	iterations := flag.Int("iterations", 0, "engine iteration budget per move (0 means time only)")
	seed := flag.Uint64("seed", 0, "playout seed (0 means random)")
	configPath := flag.String("config", "", "MCTS config file (JSON); overrides the budget flags")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(logLevel(*debug))

	if *first != "human" && *first != "engine" {
		log.Fatal().Str("first", *first).Msg("-first must be human or engine")
	}

	cfg := mcts.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = mcts.LoadConfig(*configPath); err != nil {
			log.Fatal().Err(err).Msg("config")
		}
	} else {
		cfg.TimeBudgetMs = *timeMs
		cfg.Iterations = *iterations
		cfg.Seed = *seed
	}
	engine, err := mcts.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("engine")
	}

	s := &session{
		in:         bufio.NewScanner(os.Stdin),
		out:        os.Stdout,
		engine:     engine,
		humanFirst: *first == "human",
	}
	fmt.Fprint(s.out, game.State{}.String())
	if _, err := s.run(); err != nil && !errors.Is(err, errQuit) {
		log.Fatal().Err(err).Msg("session")
	}
}

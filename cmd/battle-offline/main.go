package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"sync"

	"github.com/montplusa/connect4-mcts/pkg/ai/agents"
	"github.com/montplusa/connect4-mcts/pkg/ai/mcts"
	"github.com/montplusa/connect4-mcts/pkg/game"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// 出力ファイル名は prefix_NNNNN.json (5 桁の連番)
const sequenceName = `^%s_(\d{5})\.json$`

// nextSequence は dir にある prefix の結果ファイルの最大連番 + 1 を返す
func nextSequence(dir, prefix string) (int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 1, nil
	}
	if err != nil {
		return 1, err
	}

	re := regexp.MustCompile(fmt.Sprintf(sequenceName, regexp.QuoteMeta(prefix)))
	last := 0
	for _, e := range entries {
		m := re.FindStringSubmatch(e.Name())
		if e.IsDir() || m == nil {
			continue
		}
		// \d{5} は必ず数値になる
		n, _ := strconv.Atoi(m[1])
		last = max(last, n)
	}
	return last + 1, nil
}

type battleConfig struct {
	agents    [2]string
	opts      agents.Options
	outputDir string
	prefix    string
	noOutput  bool
}

// playOne は一局を実行し、必要なら結果を書き出す
func playOne(cfg battleConfig, gameIndex, seqNum int) (int, error) {
	var players [2]game.AI
	for i, name := range cfg.agents {
		opts := cfg.opts
		if opts.Seed != 0 {
			// 対局ごと・手番ごとに別の乱数列
			opts.Seed += uint64(2*gameIndex + i)
		}
		a, err := agents.New(name, opts)
		if err != nil {
			return 0, err
		}
		players[i] = a
	}

	result, err := game.NewGameRunner(players[0], players[1]).Run()
	if err != nil {
		return 0, fmt.Errorf("game %d: %w", gameIndex, err)
	}

	if !cfg.noOutput {
		jsonData, err := json.Marshal(result)
		if err != nil {
			return 0, fmt.Errorf("game %d: failed to marshal result: %w", gameIndex, err)
		}
		// ファイル名の生成（5桁のゼロ詰め連番）
		filename := filepath.Join(cfg.outputDir, fmt.Sprintf("%s_%05d.json", cfg.prefix, seqNum))
		if err := os.WriteFile(filename, jsonData, 0o644); err != nil {
			return 0, fmt.Errorf("game %d: %w", gameIndex, err)
		}
	}

	log.Info().
		Int("game", gameIndex).
		Int("winner", result.Winner).
		Int("moves", len(result.Moves)).
		Msg("game-finished")
	return result.Winner, nil
}

func main() {
	outputDir := flag.String("output", "output", "出力ディレクトリ名")
	outputPrefix := flag.String("output-prefix", "", "出力ファイル名のプレフィックス")
	noOutput := flag.Bool("no-output", false, "出力しない")
	games := flag.Int("games", 1, "実行する試合数")
	numWorkers := flag.Int("workers", runtime.NumCPU(), "ワーカー数")
	p0 := flag.String("p0", "mcts", "先手のエージェント")
	p1 := flag.String("p1", "mcts", "後手のエージェント")
	configPath := flag.String("config", "", "MCTS の設定ファイル (JSON)")
	iterations := flag.Int("iterations", 2000, "MCTS の一手あたりの反復回数 (0 なら時間制限のみ)")
	timeMs := flag.Int("time-ms", 0, "MCTS の一手あたりの時間制限 (ms)")
	weights := flag.String("weights", "", "valuenet の重みファイル")
	seed := flag.Uint64("seed", 0, "乱数シード (0 ならランダム)")
	debug := flag.Bool("debug", false, "デバッグログを出力する")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if !*noOutput && *outputPrefix == "" {
		fmt.Fprintln(os.Stderr, "エラー: --output-prefix は必須です")
		flag.Usage()
		os.Exit(1)
	}

	mctsConfig := mcts.DefaultConfig()
	if *configPath != "" {
		var err error
		if mctsConfig, err = mcts.LoadConfig(*configPath); err != nil {
			log.Fatal().Err(err).Msg("config")
		}
	} else {
		mctsConfig.Iterations = *iterations
		mctsConfig.TimeBudgetMs = *timeMs
	}

	cfg := battleConfig{
		agents:    [2]string{*p0, *p1},
		opts:      agents.Options{MCTS: mctsConfig, Weights: *weights, Seed: *seed},
		outputDir: *outputDir,
		prefix:    *outputPrefix,
		noOutput:  *noOutput,
	}

	startSeq := 1
	if !*noOutput {
		if err := os.MkdirAll(*outputDir, 0o755); err != nil {
			log.Fatal().Err(err).Msg("出力ディレクトリの作成に失敗しました")
		}
		// 既存ファイルの最大連番を取得
		var err error
		if startSeq, err = nextSequence(*outputDir, *outputPrefix); err != nil {
			log.Warn().Err(err).Msg("既存ファイルの確認中にエラーが発生しました")
		}
	}

	log.Info().
		Int("games", *games).
		Int("workers", *numWorkers).
		Int("start-seq", startSeq).
		Str("p0", *p0).
		Str("p1", *p1).
		Msg("battle-start")

	var mu sync.Mutex
	wins := [2]int{}
	draws := 0

	g := errgroup.Group{}
	g.SetLimit(*numWorkers)
	for i := 0; i < *games; i++ {
		i := i
		g.Go(func() error {
			winner, err := playOne(cfg, i, startSeq+i)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if winner == -1 {
				draws++
			} else {
				wins[winner]++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("battle")
	}

	fmt.Println("すべての対戦が完了しました")
	fmt.Printf("勝利数: P0 (%s): %d, P1 (%s): %d, 引き分け: %d\n", *p0, wins[0], *p1, wins[1], draws)
}

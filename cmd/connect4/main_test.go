package main

import (
	"bufio"
	"os"
	"strings"
	"testing"

	"github.com/montplusa/connect4-mcts/pkg/ai/trivial"
	"github.com/montplusa/connect4-mcts/pkg/game"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestParseCell(t *testing.T) {
	x, y, err := parseCell(" 3  4 ")
	require.NoError(t, err)
	require.Equal(t, 3, x)
	require.Equal(t, 4, y)

	for _, line := range []string{"", "3", "3 4 5", "a 1", "1 b"} {
		_, _, err := parseCell(line)
		require.Error(t, err, line)
	}
}

func TestSessionEngineWins(t *testing.T) {
	// エンジンは 3 列目を積み上げ、人間は重力なしで最上段に置く
	input := strings.Join([]string{"x", "3 0", "0 5", "1 5", "2 5"}, "\n")
	var out strings.Builder
	s := &session{
		in:     bufio.NewScanner(strings.NewReader(input)),
		out:    &out,
		engine: trivial.New(),
	}

	final, err := s.run()
	require.NoError(t, err)
	require.Equal(t, game.Lost, final.Status())

	text := out.String()
	require.Contains(t, text, `want "x y", got "x"`)
	require.Contains(t, text, game.ErrOccupied.Error())
	require.Contains(t, text, "2.0000")
	require.Contains(t, text, "OOO____\n_______\n___X___\n")
	require.Contains(t, text, "engine wins")
	require.True(t, strings.HasSuffix(text, "finished\n"))
}

func TestSessionInputClosed(t *testing.T) {
	var out strings.Builder
	s := &session{
		in:         bufio.NewScanner(strings.NewReader("0 0\n")),
		out:        &out,
		engine:     trivial.New(),
		humanFirst: true,
	}
	_, err := s.run()
	require.ErrorIs(t, err, errQuit)
}

func TestLogLevel(t *testing.T) {
	require.Equal(t, zerolog.InfoLevel, logLevel(false))
	require.Equal(t, zerolog.DebugLevel, logLevel(true))
}

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/montplusa/connect4-mcts/pkg/game"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.MCTS.Seed = 1
	cfg.MaxIterations = 5000
	srv := httptest.NewServer(New(cfg, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, body any) (*http.Response, []byte) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestSearchFindsWin(t *testing.T) {
	srv := newTestServer(t)
	s := game.State{
		ToMove:    game.Bit(0, 0) | game.Bit(1, 0) | game.Bit(2, 0),
		JustMoved: game.Bit(0, 1) | game.Bit(1, 1) | game.Bit(6, 0),
	}
	resp, body := post(t, srv, "/v1/search", SearchRequest{ToMove: s.ToMove, JustMoved: s.JustMoved, Iterations: 500})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var got SearchResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.Equal(t, 3, got.Column)
	require.Equal(t, 0, got.Row)
	require.Equal(t, 500, got.Iterations)
	require.Equal(t, 2.0, got.Score)
	require.Equal(t, s.Play(game.Bit(3, 0)), game.State{ToMove: got.ToMove, JustMoved: got.JustMoved})
}

func TestSearchErrors(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := post(t, srv, "/v1/search", "not an object")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	overlap := game.Bit(0, 0)
	resp, _ = post(t, srv, "/v1/search", SearchRequest{ToMove: overlap, JustMoved: overlap, Iterations: 10})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	lost := game.Bit(0, 0) | game.Bit(1, 0) | game.Bit(2, 0) | game.Bit(3, 0)
	resp, _ = post(t, srv, "/v1/search", SearchRequest{ToMove: game.Bit(0, 1) | game.Bit(1, 1) | game.Bit(2, 1), JustMoved: lost, Iterations: 10})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = post(t, srv, "/v1/search", SearchRequest{})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = post(t, srv, "/v1/search", SearchRequest{Iterations: -3})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = post(t, srv, "/v1/search", SearchRequest{Iterations: 5001})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPlay(t *testing.T) {
	srv := newTestServer(t)

	// 重力なしで置ける
	resp, body := post(t, srv, "/v1/play", PlayRequest{X: 3, Y: 4})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var got PlayResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.Equal(t, game.Bit(3, 4), got.JustMoved)
	require.Zero(t, got.ToMove)
	require.Equal(t, "playing", got.Status)

	resp, _ = post(t, srv, "/v1/play", PlayRequest{ToMove: got.ToMove, JustMoved: got.JustMoved, X: 3, Y: 4})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, srv, "/v1/play", PlayRequest{X: 7, Y: 0})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// Package server exposes the search engine over a small JSON API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/montplusa/connect4-mcts/pkg/ai/mcts"
	"github.com/montplusa/connect4-mcts/pkg/game"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// Config bounds what a single request may ask for.
type Config struct {
	MCTS           mcts.Config
	MaxIterations  int
	MaxTimeMs      int
	RequestTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		MCTS:           mcts.DefaultConfig(),
		MaxIterations:  1_000_000,
		MaxTimeMs:      10_000,
		RequestTimeout: 15 * time.Second,
	}
}

type SearchRequest struct {
	ToMove     game.Bitboard `json:"to_move"`
	JustMoved  game.Bitboard `json:"just_moved"`
	Iterations int           `json:"iterations"`
	TimeMs     int           `json:"time_ms"`
}

type SearchResponse struct {
	ToMove     game.Bitboard `json:"to_move"`
	JustMoved  game.Bitboard `json:"just_moved"`
	Column     int           `json:"column"`
	Row        int           `json:"row"`
	Score      float64       `json:"score"`
	Iterations int           `json:"iterations"`
}

type PlayRequest struct {
	ToMove    game.Bitboard `json:"to_move"`
	JustMoved game.Bitboard `json:"just_moved"`
	X         int           `json:"x"`
	Y         int           `json:"y"`
}

type PlayResponse struct {
	ToMove    game.Bitboard `json:"to_move"`
	JustMoved game.Bitboard `json:"just_moved"`
	Status    string        `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var errTooLarge = errors.New("budget exceeds the server limit")

// New builds the router. Every search runs on its own engine.
func New(cfg Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request-id", middleware.GetReqID(r.Context())).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/search", cfg.search)
		r.Post("/play", cfg.play)
	})
	return r
}

func (cfg Config) budget(req SearchRequest) (mcts.Budget, error) {
	b := mcts.Budget{
		Iterations: req.Iterations,
		Duration:   time.Duration(req.TimeMs) * time.Millisecond,
	}
	if err := b.Validate(); err != nil {
		return b, err
	}
	if cfg.MaxIterations > 0 && req.Iterations > cfg.MaxIterations {
		return b, fmt.Errorf("%w: %d iterations (max %d)", errTooLarge, req.Iterations, cfg.MaxIterations)
	}
	if cfg.MaxTimeMs > 0 && req.TimeMs > cfg.MaxTimeMs {
		return b, fmt.Errorf("%w: %d ms (max %d)", errTooLarge, req.TimeMs, cfg.MaxTimeMs)
	}
	return b, nil
}

func (cfg Config) search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{"invalid payload"})
		return
	}
	state := game.State{ToMove: req.ToMove, JustMoved: req.JustMoved}
	if !state.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResponse{"invalid position"})
		return
	}
	if st := state.Status(); st != game.Playing {
		writeJSON(w, http.StatusConflict, errorResponse{"game is over: " + st.String()})
		return
	}
	budget, err := cfg.budget(req)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{err.Error()})
		return
	}

	engine := mcts.NewEngineFromConfig(state, cfg.MCTS)
	res, err := engine.Search(budget)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{err.Error()})
		return
	}
	x, y, _ := game.MoveCell(state, res.State)

	hlog.FromRequest(r).Debug().
		Int("column", x).
		Float64("score", res.Score).
		Int("iterations", res.Iterations).
		Dur("elapsed", res.Elapsed).
		Msg("searched")

	writeJSON(w, http.StatusOK, SearchResponse{
		ToMove:     res.State.ToMove,
		JustMoved:  res.State.JustMoved,
		Column:     x,
		Row:        y,
		Score:      res.Score,
		Iterations: res.Iterations,
	})
}

func (cfg Config) play(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{"invalid payload"})
		return
	}
	state := game.State{ToMove: req.ToMove, JustMoved: req.JustMoved}
	if !state.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResponse{"invalid position"})
		return
	}
	if st := state.Status(); st != game.Playing {
		writeJSON(w, http.StatusConflict, errorResponse{"game is over: " + st.String()})
		return
	}
	next, err := state.PlayCell(req.X, req.Y)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, PlayResponse{
		ToMove:    next.ToMove,
		JustMoved: next.JustMoved,
		Status:    next.Status().String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

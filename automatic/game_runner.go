// Package automatic plays computer-vs-computer Reversi games, for
// comparing search settings against each other and collecting
// statistics.
package automatic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/reversi/alphabeta"
	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/config"
	"github.com/domino14/reversi/game"
	"github.com/domino14/reversi/move"
)

const TurnLogHeader = "gameID,turn,player,play,score,flipped,black,white\n"

// GameRecord is the outcome of one finished game.
type GameRecord struct {
	ID          string
	Fingerprint uint64
	Transcript  string
	Result      game.Result
	Turns       int
	BlackDepth  int
	WhiteDepth  int
	Nodes       uint64
}

// GameRunner is the master struct here for the automatic game logic.
// A runner plays one game at a time and is not safe for concurrent use.
type GameRunner struct {
	game   *game.Game
	solver *alphabeta.Solver
	config *config.Config

	logchan chan string
	rng     *frand.RNG

	boardSize        int
	depths           [2]int
	randomPlies      int
	simulateCaptures bool
	timeout          time.Duration
	nodes            uint64
}

// NewGameRunner creates a runner with both sides searching at the
// configured depth.
func NewGameRunner(logchan chan string, cfg *config.Config) *GameRunner {
	d := cfg.GetInt(config.ConfigSearchDepth)
	return &GameRunner{
		solver:           &alphabeta.Solver{},
		config:           cfg,
		logchan:          logchan,
		rng:              frand.New(),
		boardSize:        cfg.GetInt(config.ConfigBoardSize),
		depths:           [2]int{d, d},
		randomPlies:      cfg.GetInt(config.ConfigAutoplayRandomPlies),
		simulateCaptures: cfg.GetBool(config.ConfigSearchSimulateCaptures),
		timeout:          cfg.GetDuration(config.ConfigSearchTimeout),
	}
}

// SetDepths sets the search depth for each side.
func (r *GameRunner) SetDepths(black, white int) {
	r.depths = [2]int{black, white}
}

func (r *GameRunner) depthFor(c board.Color) int {
	if c == board.White {
		return r.depths[1]
	}
	return r.depths[0]
}

// SetSeed makes the random opening plies reproducible.
func (r *GameRunner) SetSeed(seed [32]byte) {
	r.rng = frand.NewCustom(seed[:], 1024, 12)
}

func (r *GameRunner) Game() *game.Game {
	return r.game
}

// StartGame sets up a new game and plays the random opening plies.
func (r *GameRunner) StartGame() error {
	g, err := game.NewGame(r.boardSize)
	if err != nil {
		return err
	}
	r.game = g
	r.nodes = 0
	for i := 0; i < r.randomPlies && r.game.Playing() == game.StatePlaying; i++ {
		moves := r.game.LegalMoves()
		m := moves[r.rng.Intn(len(moves))]
		if err := r.game.PlayMove(m); err != nil {
			return err
		}
		r.logTurn(m)
	}
	return nil
}

func (r *GameRunner) genBestMove(ctx context.Context) (*move.Move, error) {
	onturn := r.game.PlayerOnTurn()
	if r.game.MustPass() {
		return move.NewPassMove(onturn), nil
	}
	r.solver.Init(r.game.Board())
	r.solver.SetSimulateCaptures(r.simulateCaptures)
	sctx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	m, err := r.solver.Solve(sctx, r.depthFor(onturn))
	r.nodes += r.solver.Stats().Nodes
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		// out of time for this move only; take the shallowest answer.
		log.Debug().Int("depth", r.depthFor(onturn)).Msg("search-timeout-fallback")
		m, err = r.solver.BestMove(1)
		r.nodes += r.solver.Stats().Nodes
	}
	return m, err
}

// PlayBestTurn searches for the player on turn and plays the result.
func (r *GameRunner) PlayBestTurn(ctx context.Context) (*move.Move, error) {
	m, err := r.genBestMove(ctx)
	if err != nil {
		return nil, err
	}
	if err = r.game.PlayMove(m); err != nil {
		return nil, err
	}
	r.logTurn(m)
	return m, nil
}

func (r *GameRunner) logTurn(m *move.Move) {
	if r.logchan == nil {
		return
	}
	sc := r.game.Board().CountStones()
	r.logchan <- fmt.Sprintf("%v,%v,%v,%v,%v,%v,%v,%v\n",
		r.game.Uid(),
		r.game.Turn(),
		m.Player(),
		m.ShortDescription(),
		m.Score(),
		m.Flipped(),
		sc.Black,
		sc.White)
}

// PlayFull plays a new game to the end.
func (r *GameRunner) PlayFull(ctx context.Context) (*GameRecord, error) {
	if err := r.StartGame(); err != nil {
		return nil, err
	}
	for r.game.Playing() == game.StatePlaying {
		if _, err := r.PlayBestTurn(ctx); err != nil {
			return nil, err
		}
	}
	transcript := r.game.Transcript()
	rec := &GameRecord{
		ID:          r.game.Uid(),
		Fingerprint: xxhash.Sum64String(transcript),
		Transcript:  transcript,
		Result:      r.game.Result(),
		Turns:       r.game.Turn(),
		BlackDepth:  r.depths[0],
		WhiteDepth:  r.depths[1],
		Nodes:       r.nodes,
	}
	log.Debug().Str("gid", rec.ID).Str("result", rec.Result.String()).
		Int("turns", rec.Turns).Msg("game-finished")
	return rec, nil
}

// Package alphabeta picks moves with a depth-limited minimax search and
// alpha-beta pruning over the board's static heuristic.
//
// The search works on the board it was given, writing stones for its
// hypothetical lines and taking them back before it returns. By default
// it only writes the placed stone and does not apply captures, and every
// leaf is scored from the point of view of the player on turn when the
// search began. SetSimulateCaptures changes the first of these.
package alphabeta

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
)

var ErrInvalidDepth = errors.New("search depth must be at least 1")

// Stats are counters for the last search.
type Stats struct {
	Nodes   uint64
	Cutoffs uint64
	Elapsed time.Duration
}

type Solver struct {
	board *board.Board

	pruningDisabled  bool
	simulateCaptures bool

	nodes     uint64
	cutoffs   uint64
	elapsed   time.Duration
	rootMoves []*move.Move

	requestedPlies int
	logStream      io.Writer
}

// Init points the solver at a board. The solver searches that board in
// place.
func (s *Solver) Init(b *board.Board) {
	s.board = b
	s.rootMoves = nil
}

func (s *Solver) Board() *board.Board {
	return s.board
}

// SetPruningDisabled turns the search into a plain full-width minimax.
// The results are the same, it just visits more nodes.
func (s *Solver) SetPruningDisabled(d bool) {
	s.pruningDisabled = d
}

// SetSimulateCaptures makes hypothetical placements flip captured stones
// like a real move would. It is off by default, and turning it on changes
// which moves get picked.
func (s *Solver) SetSimulateCaptures(c bool) {
	s.simulateCaptures = c
}

func (s *Solver) SetLogStream(l io.Writer) {
	s.logStream = l
}

func (s *Solver) Stats() Stats {
	return Stats{Nodes: s.nodes, Cutoffs: s.cutoffs, Elapsed: s.elapsed}
}

// RootMoves returns every legal move from the last Solve with its score,
// best first. Moves with equal scores keep their board order.
func (s *Solver) RootMoves() []*move.Move {
	sorted := make([]*move.Move, len(s.rootMoves))
	copy(sorted, s.rootMoves)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score() > sorted[j].Score()
	})
	return sorted
}

// place writes a hypothetical stone and returns the function that takes
// it back.
func (s *Solver) place(sq board.Square, c board.Color) func() {
	if s.simulateCaptures {
		flipped := s.board.PlaceStoneAs(c, sq.Row, sq.Col)
		return func() {
			s.board.UnplaceStone(c, sq.Row, sq.Col, flipped)
		}
	}
	prev := s.board.Get(sq.Row, sq.Col)
	s.board.Set(sq.Row, sq.Col, c)
	return func() {
		s.board.Set(sq.Row, sq.Col, prev)
	}
}

// MinimaxAlphaBeta evaluates the board to the given depth. When maximizing
// the player on turn places stones, otherwise the opponent does; legal
// squares are always those of the player on turn. A depth of zero just
// returns the heuristic.
func (s *Solver) MinimaxAlphaBeta(depth int, alpha, beta float64, maximizing bool) float64 {
	s.nodes, s.cutoffs = 0, 0
	s.requestedPlies = max(depth, 0)
	tstart := time.Now()
	// Background is never cancelled, so there is no error to handle.
	v, _ := s.minimax(context.Background(), depth, alpha, beta, maximizing)
	s.elapsed = time.Since(tstart)
	return v
}

// logPlay writes one line of the log stream, indented by how far below
// the root the play is.
func (s *Solver) logPlay(depth int, sq board.Square, value float64) {
	indent := strings.Repeat("  ", max(s.requestedPlies-depth, 0))
	fmt.Fprintf(s.logStream, "  %v- play: %v\n  %v  value: %v\n",
		indent, move.ToCoords(sq.Row, sq.Col), indent, value)
}

func (s *Solver) minimax(ctx context.Context, depth int, α, β float64, maximizing bool) (float64, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	s.nodes++
	if depth <= 0 || s.board.IsGameOver() {
		return float64(s.board.Heuristic()), nil
	}
	onturn := s.board.PlayerOnTurn()
	children := s.board.ValidMoves(onturn)

	if maximizing {
		bestValue := math.Inf(-1)
		for _, sq := range children {
			undo := s.place(sq, onturn)
			value, err := s.minimax(ctx, depth-1, α, β, false)
			undo()
			if err != nil {
				return 0, err
			}
			if s.logStream != nil {
				s.logPlay(depth, sq, value)
			}
			bestValue = math.Max(bestValue, value)
			α = math.Max(α, value)
			if β <= α && !s.pruningDisabled {
				s.cutoffs++
				break
			}
		}
		return bestValue, nil
	}

	opp := onturn.Opponent()
	bestValue := math.Inf(1)
	for _, sq := range children {
		undo := s.place(sq, opp)
		value, err := s.minimax(ctx, depth-1, α, β, true)
		undo()
		if err != nil {
			return 0, err
		}
		if s.logStream != nil {
			s.logPlay(depth, sq, value)
		}
		bestValue = math.Min(bestValue, value)
		β = math.Min(β, value)
		if β <= α && !s.pruningDisabled {
			s.cutoffs++
			break
		}
	}
	return bestValue, nil
}

// BestMove searches every legal move of the player on turn to the given
// depth and returns the one with the highest score; the first one wins a
// tie. If there are no legal moves it returns a pass.
func (s *Solver) BestMove(depth int) (*move.Move, error) {
	return s.Solve(context.Background(), depth)
}

// Solve is BestMove with cancellation. If ctx is done mid-search, every
// hypothetical stone is taken back and ctx's error is returned.
func (s *Solver) Solve(ctx context.Context, depth int) (*move.Move, error) {
	if depth < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}
	tstart := time.Now()
	s.nodes, s.cutoffs = 0, 0
	s.requestedPlies = depth
	onturn := s.board.PlayerOnTurn()
	log.Debug().Int("plies", depth).Str("onturn", onturn.String()).
		Bool("simulate-captures", s.simulateCaptures).Msg("alphabeta-solve-config")

	s.rootMoves = lo.Map(s.board.ValidMoves(onturn), func(sq board.Square, _ int) *move.Move {
		return move.NewPlayMove(onturn, sq.Row, sq.Col)
	})
	if len(s.rootMoves) == 0 {
		log.Debug().Str("onturn", onturn.String()).Msg("no-legal-moves")
		s.elapsed = time.Since(tstart)
		return move.NewPassMove(onturn), nil
	}
	if s.logStream != nil {
		fmt.Fprintf(s.logStream, "- plies: %d\n  plays:\n", depth)
	}

	var best *move.Move
	bestValue := math.Inf(-1)
	for _, m := range s.rootMoves {
		undo := s.place(m.Square(), onturn)
		value, err := s.minimax(ctx, depth-1, math.Inf(-1), math.Inf(1), false)
		undo()
		if err != nil {
			s.elapsed = time.Since(tstart)
			log.Info().Err(err).Uint64("nodes", s.nodes).Msg("solve-interrupted")
			return nil, err
		}
		m.SetScore(value)
		if s.logStream != nil {
			fmt.Fprintf(s.logStream, "  - play: %v\n    value: %v\n", m.ShortDescription(), value)
		}
		// Strictly greater, so the first of equal moves stays. The nil
		// check keeps a move even if every line scores -Inf.
		if best == nil || value > bestValue {
			best = m
			bestValue = value
		}
	}
	s.elapsed = time.Since(tstart)
	log.Debug().
		Str("best", best.ShortDescription()).
		Float64("value", bestValue).
		Uint64("nodes", s.nodes).
		Uint64("cutoffs", s.cutoffs).
		Float64("time-elapsed-sec", s.elapsed.Seconds()).
		Msg("solve-returning")
	return best, nil
}

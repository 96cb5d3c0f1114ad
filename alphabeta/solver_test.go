package alphabeta

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/position"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

// playout plays n plies of deterministic but varied moves from the opening
// position of the given size, passing when needed.
func playout(dim, n int) *board.Board {
	b := board.MustNewBoard(dim)
	for i := 0; i < n; i++ {
		moves := b.ValidMoves(b.PlayerOnTurn())
		if len(moves) == 0 {
			if !b.HasValidMove(b.PlayerOnTurn().Opponent()) {
				break
			}
			b.SwitchPlayer()
			continue
		}
		sq := moves[(i*7)%len(moves)]
		if _, err := b.PlaceStone(sq.Row, sq.Col); err != nil {
			panic(err)
		}
		b.SwitchPlayer()
	}
	if !b.HasValidMove(b.PlayerOnTurn()) {
		b.SwitchPlayer()
	}
	return b
}

func testPositions() []*board.Board {
	return []*board.Board{
		board.MustNewBoard(8),
		playout(8, 6),
		playout(8, 15),
		playout(8, 30),
		playout(8, 52),
		playout(6, 12),
	}
}

// naiveMinimax is a direct full-width minimax with the same placement
// rules as the solver, used as a reference.
func naiveMinimax(b *board.Board, depth int, maximizing bool) float64 {
	if depth == 0 || b.IsGameOver() {
		return float64(b.Heuristic())
	}
	onturn := b.PlayerOnTurn()
	c := onturn
	best := math.Inf(-1)
	if !maximizing {
		c = onturn.Opponent()
		best = math.Inf(1)
	}
	for _, sq := range b.ValidMoves(onturn) {
		prev := b.Get(sq.Row, sq.Col)
		b.Set(sq.Row, sq.Col, c)
		v := naiveMinimax(b, depth-1, !maximizing)
		b.Set(sq.Row, sq.Col, prev)
		if maximizing {
			best = math.Max(best, v)
		} else {
			best = math.Min(best, v)
		}
	}
	return best
}

func TestDepthZeroIsHeuristic(t *testing.T) {
	is := is.New(t)
	for _, b := range testPositions() {
		s := &Solver{}
		s.Init(b)
		is.Equal(s.MinimaxAlphaBeta(0, math.Inf(-1), math.Inf(1), true), float64(b.Heuristic()))
		is.Equal(s.MinimaxAlphaBeta(0, math.Inf(-1), math.Inf(1), false), float64(b.Heuristic()))
		// a single node, no recursion.
		is.Equal(s.Stats().Nodes, uint64(1))
	}
}

func TestMinimaxAfterShallowerSolve(t *testing.T) {
	is := is.New(t)
	b := board.MustNewBoard(8)
	s := &Solver{}
	s.Init(b)
	_, err := s.BestMove(1)
	is.NoErr(err)

	var buf bytes.Buffer
	s.SetLogStream(&buf)
	v := s.MinimaxAlphaBeta(3, math.Inf(-1), math.Inf(1), true)
	is.Equal(v, naiveMinimax(b.Copy(), 3, true))
	is.True(strings.Contains(buf.String(), "- play: "))

	// counters start over with each call.
	nodes := s.Stats().Nodes
	is.True(nodes > 1)
	s.MinimaxAlphaBeta(3, math.Inf(-1), math.Inf(1), true)
	is.Equal(s.Stats().Nodes, nodes)
}

func TestMatchesNaiveMinimax(t *testing.T) {
	is := is.New(t)
	for _, b := range testPositions() {
		for depth := 1; depth <= 3; depth++ {
			for _, maximizing := range []bool{true, false} {
				s := &Solver{}
				s.Init(b)
				expected := naiveMinimax(b.Copy(), depth, maximizing)
				is.Equal(s.MinimaxAlphaBeta(depth, math.Inf(-1), math.Inf(1), maximizing), expected)
			}
		}
	}
}

func TestPruningDoesNotChangeResults(t *testing.T) {
	is := is.New(t)
	for _, b := range testPositions() {
		for depth := 1; depth <= 4; depth++ {
			pruned := &Solver{}
			pruned.Init(b.Copy())
			full := &Solver{}
			full.Init(b.Copy())
			full.SetPruningDisabled(true)

			m1, err := pruned.BestMove(depth)
			is.NoErr(err)
			m2, err := full.BestMove(depth)
			is.NoErr(err)
			is.True(m1.Equals(m2))
			is.Equal(m1.Score(), m2.Score())
			is.True(pruned.Stats().Nodes <= full.Stats().Nodes)
			is.Equal(full.Stats().Cutoffs, uint64(0))

			v1 := pruned.MinimaxAlphaBeta(depth, math.Inf(-1), math.Inf(1), true)
			v2 := full.MinimaxAlphaBeta(depth, math.Inf(-1), math.Inf(1), true)
			is.Equal(v1, v2)
		}
	}
}

func TestSearchLeavesBoardUnchanged(t *testing.T) {
	is := is.New(t)
	for _, simulate := range []bool{false, true} {
		for _, b := range testPositions() {
			orig := b.Copy()
			s := &Solver{}
			s.Init(b)
			s.SetSimulateCaptures(simulate)
			_, err := s.BestMove(4)
			is.NoErr(err)
			is.True(b.Equals(orig))
			s.MinimaxAlphaBeta(3, math.Inf(-1), math.Inf(1), false)
			is.True(b.Equals(orig))
		}
	}
}

func TestDepthOneBestMove(t *testing.T) {
	is := is.New(t)
	for _, b := range testPositions() {
		if !b.HasValidMove(b.PlayerOnTurn()) {
			continue
		}
		s := &Solver{}
		s.Init(b)
		m, err := s.BestMove(1)
		is.NoErr(err)

		var expected board.Square
		bestScore := math.Inf(-1)
		found := false
		onturn := b.PlayerOnTurn()
		for _, sq := range b.ValidMoves(onturn) {
			c := b.Copy()
			c.Set(sq.Row, sq.Col, onturn)
			sc := float64(c.Heuristic())
			if !found || sc > bestScore {
				expected, bestScore, found = sq, sc, true
			}
		}
		is.True(found)
		is.Equal(m.Square(), expected)
		is.Equal(m.Score(), bestScore)
	}
}

func TestDepthOneWithCaptures(t *testing.T) {
	is := is.New(t)
	for _, b := range testPositions() {
		if !b.HasValidMove(b.PlayerOnTurn()) {
			continue
		}
		s := &Solver{}
		s.Init(b)
		s.SetSimulateCaptures(true)
		m, err := s.BestMove(1)
		is.NoErr(err)

		c := b.Copy()
		_, err = c.PlaceStone(m.Row(), m.Col())
		is.NoErr(err)
		is.Equal(m.Score(), float64(c.Heuristic()))
		for _, rm := range s.RootMoves() {
			is.True(rm.Score() <= m.Score())
		}
	}
}

func TestNoLegalMovesIsPass(t *testing.T) {
	is := is.New(t)
	p := position.MustParse("b6w/8/8/8/8/8/8/w6b b")
	orig := p.Board.Copy()
	s := &Solver{}
	s.Init(p.Board)
	m, err := s.BestMove(7)
	is.NoErr(err)
	is.True(m.IsPass())
	is.Equal(m.Player(), board.Black)
	is.Equal(len(s.RootMoves()), 0)
	is.True(p.Board.Equals(orig))
}

func TestInvalidDepth(t *testing.T) {
	is := is.New(t)
	s := &Solver{}
	s.Init(board.MustNewBoard(8))
	for _, d := range []int{0, -1} {
		_, err := s.BestMove(d)
		is.True(errors.Is(err, ErrInvalidDepth))
	}
}

func TestRootMovesSorted(t *testing.T) {
	is := is.New(t)
	b := playout(8, 15)
	s := &Solver{}
	s.Init(b)
	m, err := s.BestMove(3)
	is.NoErr(err)
	roots := s.RootMoves()
	is.Equal(len(roots), len(b.ValidMoves(b.PlayerOnTurn())))
	is.True(roots[0] == m)
	for i := 1; i < len(roots); i++ {
		is.True(roots[i-1].Score() >= roots[i].Score())
	}
}

func TestCancelledSolve(t *testing.T) {
	is := is.New(t)
	b := playout(8, 10)
	orig := b.Copy()
	s := &Solver{}
	s.Init(b)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Solve(ctx, 5)
	is.True(errors.Is(err, context.Canceled))
	is.True(b.Equals(orig))

	ctx, cancel = context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	_, err = s.Solve(ctx, 9)
	if err != nil {
		is.True(errors.Is(err, context.DeadlineExceeded))
	}
	is.True(b.Equals(orig))
}

func TestLogStream(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	s := &Solver{}
	s.Init(board.MustNewBoard(8))
	s.SetLogStream(&buf)
	_, err := s.BestMove(2)
	is.NoErr(err)
	out := buf.String()
	is.True(strings.HasPrefix(out, "- plies: 2\n"))
	for _, c := range []string{"d3", "c4", "f5", "e6"} {
		is.True(strings.Contains(out, "- play: "+c))
	}
}

func BenchmarkBestMoveDepth5(b *testing.B) {
	pos := playout(8, 20)
	s := &Solver{}
	s.Init(pos)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.BestMove(5)
	}
}

package game

import (
	"fmt"

	"github.com/domino14/reversi/board"
)

// Result is the final score. The winner is awarded the empty squares;
// a draw has Winner Empty and no squares awarded.
type Result struct {
	Black  int
	White  int
	Winner board.Color
}

// Spread is the winner's margin, or 0 for a draw.
func (r Result) Spread() int {
	if r.Black > r.White {
		return r.Black - r.White
	}
	return r.White - r.Black
}

func (r Result) String() string {
	if r.Winner == board.Empty {
		return fmt.Sprintf("draw %d-%d", r.Black, r.White)
	}
	return fmt.Sprintf("%v wins %d-%d", r.Winner, r.Black, r.White)
}

// ResultOf scores the board as it stands.
func ResultOf(b *board.Board) Result {
	sc := b.CountStones()
	r := Result{Black: sc.Black, White: sc.White}
	switch {
	case sc.Black > sc.White:
		r.Winner = board.Black
		r.Black += sc.Empty
	case sc.White > sc.Black:
		r.Winner = board.White
		r.White += sc.Empty
	}
	return r
}

// Result scores the game. It is only final once Playing returns
// StateGameOver.
func (g *Game) Result() Result {
	return ResultOf(g.board)
}

// Winner is the winning color, or Empty for a draw or an unfinished game.
func (g *Game) Winner() board.Color {
	if g.playing != StateGameOver {
		return board.Empty
	}
	return g.Result().Winner
}

package board

import (
	"errors"
	"fmt"
)

const (
	DefaultDim = 8
	// MinDim and MaxDim bound the board size. 26 columns is the limit of
	// the letter coordinates.
	MinDim = 4
	MaxDim = 26
)

var (
	ErrInvalidSize = errors.New("board size must be even and between 4 and 26")
	ErrOutOfBounds = errors.New("square is off the board")
	ErrIllegalMove = errors.New("not a legal move")
)

// A Square is a (row, col) coordinate on the board. Row 0 is the top row.
type Square struct {
	Row int
	Col int
}

func (s Square) String() string {
	return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
}

// StoneCount holds the number of squares of each color.
type StoneCount struct {
	Black int
	White int
	Empty int
}

// Of returns the count for the given color.
func (sc StoneCount) Of(c Color) int {
	switch c {
	case Black:
		return sc.Black
	case White:
		return sc.White
	}
	return sc.Empty
}

// A Board is the grid plus the "player on turn" field. The field is only
// ever changed by SetPlayerOnTurn and SwitchPlayer; placing stones and
// searching leave it alone.
type Board struct {
	dim     int
	squares []Color
	onturn  Color
}

// NewBoard creates a board of the given dimension with the standard
// opening position and Black to move.
func NewBoard(dim int) (*Board, error) {
	if dim < MinDim || dim > MaxDim || dim%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, dim)
	}
	b := &Board{
		dim:     dim,
		squares: make([]Color, dim*dim),
		onturn:  Black,
	}
	mid := dim / 2
	b.Set(mid-1, mid-1, White)
	b.Set(mid-1, mid, Black)
	b.Set(mid, mid-1, Black)
	b.Set(mid, mid, White)
	return b, nil
}

// MustNewBoard is NewBoard for callers that know the size is valid.
func MustNewBoard(dim int) *Board {
	b, err := NewBoard(dim)
	if err != nil {
		panic(err)
	}
	return b
}

// NewEmptyBoard creates a board with no stones on it, Black to move.
// Position parsers fill it in square by square.
func NewEmptyBoard(dim int) (*Board, error) {
	if dim < MinDim || dim > MaxDim || dim%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, dim)
	}
	return &Board{dim: dim, squares: make([]Color, dim*dim), onturn: Black}, nil
}

// Dim is the dimension of the board. The board is always square.
func (b *Board) Dim() int {
	return b.dim
}

func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.dim && col >= 0 && col < b.dim
}

// Validate returns ErrOutOfBounds if the square is not on the board.
func (b *Board) Validate(row, col int) error {
	if !b.InBounds(row, col) {
		return fmt.Errorf("%w: %d,%d (board is %dx%d)", ErrOutOfBounds, row, col, b.dim, b.dim)
	}
	return nil
}

func (b *Board) Get(row, col int) Color {
	return b.squares[row*b.dim+col]
}

// Set writes a color directly, with no captures. The search uses it for
// its temporary placements; everybody else should use PlaceStone.
func (b *Board) Set(row, col int, c Color) {
	b.squares[row*b.dim+col] = c
}

func (b *Board) PlayerOnTurn() Color {
	return b.onturn
}

func (b *Board) SetPlayerOnTurn(c Color) {
	b.onturn = c
}

func (b *Board) SwitchPlayer() {
	b.onturn = b.onturn.Opponent()
}

// CountStones counts the squares of each color.
func (b *Board) CountStones() StoneCount {
	sc := StoneCount{}
	for _, c := range b.squares {
		switch c {
		case Black:
			sc.Black++
		case White:
			sc.White++
		default:
			sc.Empty++
		}
	}
	return sc
}

// IsGameOver is true if either side has been wiped out or the board is
// full. A position where neither side can move but empties remain is not
// caught here; drivers check HasValidMove for both players.
func (b *Board) IsGameOver() bool {
	sc := b.CountStones()
	return sc.Black == 0 || sc.White == 0 || sc.Black+sc.White == b.dim*b.dim
}

func (b *Board) Copy() *Board {
	squares := make([]Color, len(b.squares))
	copy(squares, b.squares)
	return &Board{dim: b.dim, squares: squares, onturn: b.onturn}
}

// CopyFrom overwrites this board with the contents of other. Both boards
// must have the same dimension.
func (b *Board) CopyFrom(other *Board) {
	copy(b.squares, other.squares)
	b.onturn = other.onturn
}

// Equals compares squares and the player on turn.
func (b *Board) Equals(other *Board) bool {
	if b.dim != other.dim || b.onturn != other.onturn {
		return false
	}
	for i := range b.squares {
		if b.squares[i] != other.squares[i] {
			return false
		}
	}
	return true
}

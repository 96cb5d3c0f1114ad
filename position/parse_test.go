package position

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/reversi/board"
)

const openingPosition = "8/8/8/3wb3/3bw3/8/8/8 b"

func TestRowToColors(t *testing.T) {
	is := is.New(t)
	E, B, W := board.Empty, board.Black, board.White
	testcases := []struct {
		row    string
		parsed []board.Color
	}{
		{"8", []board.Color{E, E, E, E, E, E, E, E}},
		{"3wb3", []board.Color{E, E, E, W, B, E, E, E}},
		{"b7", []board.Color{B, E, E, E, E, E, E, E}},
		{"1w1B2..", []board.Color{E, W, E, B, E, E, E, E}},
		{"10bw", []board.Color{E, E, E, E, E, E, E, E, E, E, B, W}},
	}
	for _, tc := range testcases {
		parsed, err := rowToColors(tc.row, board.MaxDim)
		is.NoErr(err)
		is.Equal(parsed, tc.parsed)
	}
	_, err := rowToColors("3x4", 8)
	is.True(errors.Is(err, ErrBadRow))
	_, err = rowToColors("9", 8)
	is.True(errors.Is(err, ErrBadRow))
	_, err = rowToColors("7bw", 8)
	is.True(errors.Is(err, ErrBadRow))
}

func TestParseOpening(t *testing.T) {
	is := is.New(t)
	p, err := Parse(openingPosition)
	is.NoErr(err)
	is.True(p.Board.Equals(board.MustNewBoard(8)))
	is.Equal(len(p.Opcodes), 0)
	is.Equal(p.Depth(7), 7)
	is.Equal(ToPosition(p.Board), openingPosition)
}

func TestParseOpcodes(t *testing.T) {
	is := is.New(t)
	p, err := Parse("4/1wb1/1bw1/4 w gid abc123; depth 3;")
	is.NoErr(err)
	is.Equal(p.Dim(), 4)
	is.Equal(p.PlayerOnTurn(), board.White)
	is.Equal(p.GameID(), "abc123")
	is.Equal(p.Depth(7), 3)

	_, err = Parse("4/1wb1/1bw1/4 w depth three")
	is.True(err != nil)
}

func TestParseErrors(t *testing.T) {
	is := is.New(t)
	_, err := Parse("8/8/8/3wb3/3bw3/8/8/8")
	is.True(errors.Is(err, ErrMissingFields))
	_, err = Parse("8/8/8/3wb3/3bw3/8/8/8 x")
	is.True(errors.Is(err, ErrBadOnturn))
	_, err = Parse("8/8/8/3wb4/3bw3/8/8/8 b")
	is.True(errors.Is(err, ErrBadRow))
	_, err = Parse("7/7/7/7/7/7/7 b")
	is.True(errors.Is(err, board.ErrInvalidSize))
	// long runs are rejected before they are expanded.
	_, err = Parse("8/8/8/3wb3/3bw3/8/8/200000000 b")
	is.True(errors.Is(err, ErrBadRow))
	_, err = Parse("8/8/8/3wb3/3bw3/8/8/4bbbbb b")
	is.True(errors.Is(err, ErrBadRow))
}

func TestRoundTrip(t *testing.T) {
	is := is.New(t)
	b := board.MustNewBoard(8)
	for _, sq := range []board.Square{{Row: 2, Col: 3}, {Row: 2, Col: 2}, {Row: 3, Col: 2}} {
		_, err := b.PlaceStone(sq.Row, sq.Col)
		is.NoErr(err)
		b.SwitchPlayer()
	}
	str := ToPosition(b)
	p, err := Parse(str)
	is.NoErr(err)
	is.True(p.Board.Equals(b))
	is.Equal(ToPosition(p.Board), str)
}

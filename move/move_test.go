package move

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/reversi/board"
)

type coordTestStruct struct {
	row    int
	col    int
	output string
}

var coordTests = []coordTestStruct{
	{0, 0, "a1"},
	{2, 3, "d3"},
	{7, 7, "h8"},
	{4, 5, "f5"},
	{9, 11, "l10"},
}

func TestToCoords(t *testing.T) {
	for _, tc := range coordTests {
		calc := ToCoords(tc.row, tc.col)
		if calc != tc.output {
			t.Errorf("For row=%v col=%v got %v, expected %v",
				tc.row, tc.col, calc, tc.output)
		}
	}
}

func TestFromCoords(t *testing.T) {
	is := is.New(t)
	for _, tc := range coordTests {
		row, col, err := FromCoords(tc.output, 12)
		is.NoErr(err)
		is.Equal(row, tc.row)
		is.Equal(col, tc.col)
	}
	row, col, err := FromCoords(" D3 ", 8)
	is.NoErr(err)
	is.Equal(row, 2)
	is.Equal(col, 3)
}

func TestFromCoordsErrors(t *testing.T) {
	is := is.New(t)
	for _, c := range []string{"", "3d", "d", "dd3", "d-1"} {
		_, _, err := FromCoords(c, 8)
		is.True(errors.Is(err, ErrBadNotation))
	}
	for _, c := range []string{"i1", "a9", "a0"} {
		_, _, err := FromCoords(c, 8)
		is.True(errors.Is(err, board.ErrOutOfBounds))
	}
}

func TestFromNotation(t *testing.T) {
	is := is.New(t)
	m, err := FromNotation("PASS", board.White, 8)
	is.NoErr(err)
	is.True(m.IsPass())
	is.Equal(m.Player(), board.White)
	is.Equal(m.ShortDescription(), "pass")

	m, err = FromNotation("f5", board.Black, 8)
	is.NoErr(err)
	is.Equal(m.Action(), MoveTypePlay)
	is.Equal(m.Square(), board.Square{Row: 4, Col: 5})
	is.Equal(m.ShortDescription(), "f5")
	is.True(m.Equals(NewPlayMove(board.Black, 4, 5)))
	is.True(!m.Equals(NewPlayMove(board.White, 4, 5)))
	is.True(NewPassMove(board.Black).Equals(NewPassMove(board.Black)))
}

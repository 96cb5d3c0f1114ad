package board

import (
	"errors"
	"os"
	"sort"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

// fromRows builds a board from rows of b/w/. characters.
func fromRows(t *testing.T, onturn Color, rows ...string) *Board {
	t.Helper()
	b, err := NewEmptyBoard(len(rows))
	if err != nil {
		t.Fatal(err)
	}
	for r, row := range rows {
		if len(row) != len(rows) {
			t.Fatalf("row %d has length %d", r, len(row))
		}
		for c, rn := range row {
			color, ok := ColorFromRune(rn)
			if !ok {
				t.Fatalf("bad square %q", rn)
			}
			b.Set(r, c, color)
		}
	}
	b.SetPlayerOnTurn(onturn)
	return b
}

func TestNewBoard(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(DefaultDim)
	is.NoErr(err)
	is.Equal(b.Dim(), 8)
	is.Equal(b.PlayerOnTurn(), Black)
	is.Equal(b.Get(3, 3), White)
	is.Equal(b.Get(3, 4), Black)
	is.Equal(b.Get(4, 3), Black)
	is.Equal(b.Get(4, 4), White)
	is.Equal(b.CountStones(), StoneCount{Black: 2, White: 2, Empty: 60})
	is.True(!b.IsGameOver())
}

func TestNewBoardInvalidSize(t *testing.T) {
	is := is.New(t)
	for _, dim := range []int{0, 2, 5, 9, 28} {
		_, err := NewBoard(dim)
		is.True(errors.Is(err, ErrInvalidSize))
	}
	b, err := NewBoard(4)
	is.NoErr(err)
	is.Equal(b.CountStones(), StoneCount{Black: 2, White: 2, Empty: 12})
}

func TestOpeningMove(t *testing.T) {
	is := is.New(t)
	b := MustNewBoard(8)
	is.True(b.IsValidMove(2, 3))
	is.Equal(b.Flips(2, 3, 1, 0), []Square{{3, 3}})

	flipped, err := b.PlaceStone(2, 3)
	is.NoErr(err)
	is.Equal(flipped, []Square{{3, 3}})
	is.Equal(b.Get(2, 3), Black)
	is.Equal(b.Get(3, 3), Black)
	is.Equal(b.CountStones(), StoneCount{Black: 4, White: 1, Empty: 59})
	// placing a stone does not switch sides.
	is.Equal(b.PlayerOnTurn(), Black)
}

func TestOpeningValidMoves(t *testing.T) {
	is := is.New(t)
	b := MustNewBoard(8)
	is.Equal(b.ValidMoves(Black), []Square{{2, 3}, {3, 2}, {4, 5}, {5, 4}})
	is.Equal(b.ValidMoves(White), []Square{{2, 4}, {3, 5}, {4, 2}, {5, 3}})
}

func TestFlips(t *testing.T) {
	is := is.New(t)
	b := fromRows(t, Black,
		"........",
		".wwb....",
		"........",
		"...w....",
		"........",
		"w.......",
		"........",
		"........",
	)
	// closed run of two
	is.Equal(b.Flips(1, 0, 0, 1), []Square{{1, 1}, {1, 2}})
	// first neighbor is our own color: empty run
	is.Equal(len(b.Flips(1, 4, 0, -1)), 0)
	// run that falls off the edge
	is.Equal(len(b.Flips(5, 1, 0, -1)), 0)
	// run that hits an empty square
	is.Equal(len(b.Flips(2, 3, 1, 0)), 0)
	// straight off the board
	is.Equal(len(b.Flips(0, 0, -1, 0)), 0)
	// white's view of the same line
	is.Equal(b.FlipsFor(White, 1, 4, 0, -1), []Square{{1, 3}})
	is.Equal(b.PlayerOnTurn(), Black)
}

func TestIsValidMoveIffRun(t *testing.T) {
	is := is.New(t)
	for _, b := range samplePositions(t) {
		for _, player := range []Color{Black, White} {
			b.SetPlayerOnTurn(player)
			for row := 0; row < b.Dim(); row++ {
				for col := 0; col < b.Dim(); col++ {
					anyRun := false
					for _, d := range Directions {
						if len(b.Flips(row, col, d.Row, d.Col)) > 0 {
							anyRun = true
						}
					}
					if b.Get(row, col) != Empty {
						is.True(!b.IsValidMove(row, col))
						continue
					}
					is.Equal(b.IsValidMove(row, col), anyRun)
				}
			}
		}
	}
}

func TestPlaceStoneFlipsExactlyTheRuns(t *testing.T) {
	is := is.New(t)
	for _, pos := range samplePositions(t) {
		for _, sq := range pos.ValidMoves(pos.PlayerOnTurn()) {
			b := pos.Copy()
			expected := map[Square]bool{}
			for _, d := range Directions {
				for _, f := range b.Flips(sq.Row, sq.Col, d.Row, d.Col) {
					expected[f] = true
				}
			}
			before := b.Copy()
			flipped, err := b.PlaceStone(sq.Row, sq.Col)
			is.NoErr(err)
			is.Equal(len(flipped), len(expected))
			for row := 0; row < b.Dim(); row++ {
				for col := 0; col < b.Dim(); col++ {
					s := Square{row, col}
					switch {
					case s == sq:
						is.Equal(b.Get(row, col), pos.PlayerOnTurn())
					case expected[s]:
						is.Equal(before.Get(row, col), pos.PlayerOnTurn().Opponent())
						is.Equal(b.Get(row, col), pos.PlayerOnTurn())
					default:
						is.Equal(b.Get(row, col), before.Get(row, col))
					}
				}
			}
		}
	}
}

func TestPlaceStoneContractViolations(t *testing.T) {
	is := is.New(t)
	b := MustNewBoard(8)
	orig := b.Copy()

	_, err := b.PlaceStone(3, 3) // occupied
	is.True(errors.Is(err, ErrIllegalMove))
	_, err = b.PlaceStone(0, 0) // empty but captures nothing
	is.True(errors.Is(err, ErrIllegalMove))
	_, err = b.PlaceStone(-1, 4)
	is.True(errors.Is(err, ErrOutOfBounds))
	_, err = b.PlaceStone(2, 8)
	is.True(errors.Is(err, ErrOutOfBounds))
	is.True(!b.IsValidMove(8, 8))

	is.True(b.Equals(orig))
}

func TestPlaceAndUnplace(t *testing.T) {
	is := is.New(t)
	for _, pos := range samplePositions(t) {
		for _, player := range []Color{Black, White} {
			for _, sq := range pos.ValidMoves(player) {
				b := pos.Copy()
				flipped := b.PlaceStoneAs(player, sq.Row, sq.Col)
				is.True(len(flipped) > 0)
				b.UnplaceStone(player, sq.Row, sq.Col, flipped)
				is.True(b.Equals(pos))
			}
		}
	}
}

func TestStoneCountInvariant(t *testing.T) {
	is := is.New(t)
	b := MustNewBoard(8)
	passes := 0
	for passes < 2 {
		is.Equal(b.CountStones().Black+b.CountStones().White+b.CountStones().Empty, 64)
		moves := b.ValidMoves(b.PlayerOnTurn())
		if len(moves) == 0 {
			passes++
			b.SwitchPlayer()
			continue
		}
		passes = 0
		// always take the last legal square to get some variety.
		sq := moves[len(moves)-1]
		_, err := b.PlaceStone(sq.Row, sq.Col)
		is.NoErr(err)
		b.SwitchPlayer()
	}
	sc := b.CountStones()
	is.Equal(sc.Black+sc.White+sc.Empty, 64)
}

func TestIsGameOver(t *testing.T) {
	is := is.New(t)
	full := fromRows(t, Black,
		"bbbbwwww",
		"bbbbwwww",
		"bbbbwwww",
		"bbbbwwww",
		"wwwwbbbb",
		"wwwwbbbb",
		"wwwwbbbb",
		"wwwwbbbb",
	)
	is.True(full.IsGameOver())
	is.Equal(full.CountStones().Empty, 0)

	wipedOut := fromRows(t, White,
		"........",
		"........",
		"...bb...",
		"...bb...",
		"........",
		"........",
		"........",
		"........",
	)
	is.True(wipedOut.IsGameOver())
	is.True(!wipedOut.HasValidMove(White))

	is.True(!MustNewBoard(8).IsGameOver())
}

func TestHasValidMoveLeavesPlayerOnTurn(t *testing.T) {
	is := is.New(t)
	for _, b := range samplePositions(t) {
		for _, onturn := range []Color{Black, White} {
			b.SetPlayerOnTurn(onturn)
			for _, player := range []Color{Black, White} {
				has := b.HasValidMove(player)
				is.Equal(has, len(b.ValidMoves(player)) > 0)
				is.Equal(b.PlayerOnTurn(), onturn)
			}
		}
	}
}

func TestNoMovesForEither(t *testing.T) {
	is := is.New(t)
	// a blocked position: stones remain for both and empties exist, but
	// nobody can capture anything.
	b := fromRows(t, Black,
		"b......w",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"w......b",
	)
	is.True(!b.HasValidMove(Black))
	is.True(!b.HasValidMove(White))
	is.True(!b.IsGameOver())
}

// samplePositions returns a handful of positions reached by deterministic
// play from the opening.
func samplePositions(t *testing.T) []*Board {
	t.Helper()
	var positions []*Board
	b := MustNewBoard(8)
	positions = append(positions, b.Copy())
	for i := 0; i < 30; i++ {
		moves := b.ValidMoves(b.PlayerOnTurn())
		if len(moves) == 0 {
			b.SwitchPlayer()
			continue
		}
		sort.Slice(moves, func(a, c int) bool {
			// prefer squares far from the top-left to spread stones out.
			return moves[a].Row*3+moves[a].Col > moves[c].Row*3+moves[c].Col
		})
		sq := moves[i%len(moves)]
		if _, err := b.PlaceStone(sq.Row, sq.Col); err != nil {
			t.Fatal(err)
		}
		b.SwitchPlayer()
		if i%5 == 4 {
			positions = append(positions, b.Copy())
		}
	}
	return positions
}

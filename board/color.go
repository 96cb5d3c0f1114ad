package board

// Color is the state of a single square: empty, or holding a stone of
// one of the two players.
type Color uint8

const (
	Empty Color = iota
	Black
	White
)

// Opponent returns the other player's color. Empty has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "empty"
}

// DisplayRune is the single-character representation used in board
// displays and position strings.
func (c Color) DisplayRune() rune {
	switch c {
	case Black:
		return 'b'
	case White:
		return 'w'
	}
	return '.'
}

// ColorFromRune is the inverse of DisplayRune. It accepts upper or lower
// case stone letters.
func ColorFromRune(r rune) (Color, bool) {
	switch r {
	case 'b', 'B':
		return Black, true
	case 'w', 'W':
		return White, true
	case '.':
		return Empty, true
	}
	return Empty, false
}

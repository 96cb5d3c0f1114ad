package move

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/domino14/reversi/board"
)

// MoveType is a type of move; a stone placement or a pass.
type MoveType uint8

const (
	MoveTypePlay MoveType = iota
	MoveTypePass
)

const PassNotation = "pass"

var ErrBadNotation = errors.New("could not parse move notation")

var reCoords = regexp.MustCompile(`^(?P<col>[a-z])(?P<row>[0-9]+)$`)

// Move is a move by one player. A play has a square; a pass doesn't.
// The score is whatever the search valued the move at, if it came from
// a search.
type Move struct {
	action  MoveType
	player  board.Color
	row     int
	col     int
	score   float64
	flipped int
}

// NewPlayMove creates a stone placement at (row, col).
func NewPlayMove(player board.Color, row, col int) *Move {
	return &Move{action: MoveTypePlay, player: player, row: row, col: col}
}

// NewPassMove creates a pass. It is also the "no move" result of a
// search on a position with no legal squares.
func NewPassMove(player board.Color) *Move {
	return &Move{action: MoveTypePass, player: player}
}

func (m *Move) Action() MoveType    { return m.action }
func (m *Move) Player() board.Color { return m.player }
func (m *Move) Row() int            { return m.row }
func (m *Move) Col() int            { return m.col }
func (m *Move) Score() float64      { return m.score }
func (m *Move) SetScore(s float64)  { m.score = s }

// Flipped is the number of stones the move captured, once it has been
// played.
func (m *Move) Flipped() int     { return m.flipped }
func (m *Move) SetFlipped(n int) { m.flipped = n }

func (m *Move) IsPass() bool {
	return m.action == MoveTypePass
}

func (m *Move) Square() board.Square {
	return board.Square{Row: m.row, Col: m.col}
}

// ShortDescription is the move in notation: "d3", or "pass".
func (m *Move) ShortDescription() string {
	if m.action == MoveTypePass {
		return PassNotation
	}
	return ToCoords(m.row, m.col)
}

// String provides a string just for debugging purposes.
func (m *Move) String() string {
	switch m.action {
	case MoveTypePlay:
		return fmt.Sprintf("<action: play player: %v coords: %v score: %v flipped: %d>",
			m.player, m.ShortDescription(), m.score, m.flipped)
	case MoveTypePass:
		return fmt.Sprintf("<action: pass player: %v>", m.player)
	}
	return "<Unhandled move>"
}

// Equals compares action, player and square.
func (m *Move) Equals(other *Move) bool {
	if m.action != other.action || m.player != other.player {
		return false
	}
	return m.action == MoveTypePass || (m.row == other.row && m.col == other.col)
}

// ToCoords converts a row and column to a coordinate like d3: the column
// letter followed by the 1-based row.
func ToCoords(row, col int) string {
	return string(rune('a'+col)) + strconv.Itoa(row+1)
}

// FromCoords does the inverse operation of ToCoords, checking the result
// against the board dimension.
func FromCoords(c string, dim int) (int, int, error) {
	matches := reCoords.FindStringSubmatch(strings.ToLower(strings.TrimSpace(c)))
	if len(matches) != 3 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadNotation, c)
	}
	row, err := strconv.Atoi(matches[2])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadNotation, c)
	}
	row--
	col := int(matches[1][0] - 'a')
	if row < 0 || row >= dim || col >= dim {
		return 0, 0, fmt.Errorf("%w: %q is off a %dx%d board", board.ErrOutOfBounds, c, dim, dim)
	}
	return row, col, nil
}

// FromNotation parses "d3"-style coordinates or "pass" into a move for
// the given player.
func FromNotation(s string, player board.Color, dim int) (*Move, error) {
	if strings.EqualFold(strings.TrimSpace(s), PassNotation) {
		return NewPassMove(player), nil
	}
	row, col, err := FromCoords(s, dim)
	if err != nil {
		return nil, err
	}
	return NewPlayMove(player, row, col), nil
}

// Package position reads and writes a compact text notation for a
// Reversi position: the rows of the board from top to bottom separated by
// slashes, with digits standing for runs of empty squares, followed by
// the side to move and optional opcodes. The opening position is
//
//	8/8/8/3wb3/3bw3/8/8/8 b
//
// Opcodes follow the side to move and are separated by semicolons, for
// example "8/8/8/3wb3/3bw3/8/8/8 b gid abc123; depth 5;".
package position

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/reversi/board"
)

var (
	ErrMissingFields = errors.New("must have at least 2 space-separated fields")
	ErrBadRow        = errors.New("badly formatted row")
	ErrBadOnturn     = errors.New("side to move must be b or w")
)

type ParsedPosition struct {
	*board.Board
	Opcodes map[string]string
}

// GameID returns the gid opcode, if any.
func (p *ParsedPosition) GameID() string {
	return p.Opcodes["gid"]
}

// Depth returns the depth opcode, or def if there isn't one.
func (p *ParsedPosition) Depth(def int) int {
	d, ok := p.Opcodes["depth"]
	if !ok {
		return def
	}
	// already validated in Parse.
	n, _ := strconv.Atoi(d)
	return n
}

// Parse returns a board set up from the given position string.
func Parse(posstr string) (*ParsedPosition, error) {
	fields := strings.SplitN(strings.TrimSpace(posstr), " ", 3)
	if len(fields) < 2 {
		return nil, ErrMissingFields
	}
	rows := strings.Split(fields[0], "/")
	dim := len(rows)
	b, err := board.NewEmptyBoard(dim)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		colors, err := rowToColors(row, dim)
		if err != nil {
			return nil, err
		}
		if len(colors) != dim {
			return nil, fmt.Errorf("%w: row %d has %d squares, expected %d",
				ErrBadRow, i+1, len(colors), dim)
		}
		for j, c := range colors {
			b.Set(i, j, c)
		}
	}

	switch strings.ToLower(fields[1]) {
	case "b":
		b.SetPlayerOnTurn(board.Black)
	case "w":
		b.SetPlayerOnTurn(board.White)
	default:
		return nil, fmt.Errorf("%w: got %q", ErrBadOnturn, fields[1])
	}

	var ops []string
	if len(fields) == 3 {
		ops = strings.Split(fields[2], ";")
	}
	opcodes := map[string]string{}
	for _, op := range ops {
		op := strings.TrimSpace(op)
		if len(op) == 0 {
			continue
		}
		opWithParams := strings.SplitN(op, " ", 2)
		if len(opWithParams) != 2 {
			return nil, fmt.Errorf("wrong number of arguments for %s operation", opWithParams[0])
		}
		switch opWithParams[0] {
		case "depth":
			if _, err := strconv.Atoi(opWithParams[1]); err != nil {
				return nil, fmt.Errorf("depth operation: %w", err)
			}
		case "gid":
		default:
			log.Debug().Str("opcode", opWithParams[0]).Msg("unknown-position-opcode")
		}
		opcodes[opWithParams[0]] = strings.TrimSpace(opWithParams[1])
	}

	return &ParsedPosition{Board: b, Opcodes: opcodes}, nil
}

// MustParse is Parse for positions known to be valid, such as test
// fixtures.
func MustParse(posstr string) *ParsedPosition {
	p, err := Parse(posstr)
	if err != nil {
		panic(err)
	}
	return p
}

// rowToColors expands one row. A row may not run past dim squares.
func rowToColors(row string, dim int) ([]board.Color, error) {
	colors := []board.Color{}
	lastN := ""
	flushN := func() error {
		if lastN == "" {
			return nil
		}
		n, err := strconv.Atoi(lastN)
		if err != nil {
			return err
		}
		if len(colors)+n > dim {
			return fmt.Errorf("%w: %q has more than %d squares", ErrBadRow, row, dim)
		}
		for idx := 0; idx < n; idx++ {
			colors = append(colors, board.Empty)
		}
		lastN = ""
		return nil
	}
	for _, rn := range row {
		if rn >= '0' && rn <= '9' {
			lastN += string(rn)
			continue
		}
		if err := flushN(); err != nil {
			return nil, err
		}
		c, ok := board.ColorFromRune(rn)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected %q in %q", ErrBadRow, rn, row)
		}
		if len(colors) == dim {
			return nil, fmt.Errorf("%w: %q has more than %d squares", ErrBadRow, row, dim)
		}
		colors = append(colors, c)
	}
	if err := flushN(); err != nil {
		return nil, err
	}
	return colors, nil
}

// ToPosition writes the board in position notation, without opcodes.
func ToPosition(b *board.Board) string {
	var sb strings.Builder
	dim := b.Dim()
	for row := 0; row < dim; row++ {
		empties := 0
		for col := 0; col < dim; col++ {
			c := b.Get(row, col)
			if c == board.Empty {
				empties++
				continue
			}
			if empties > 0 {
				sb.WriteString(strconv.Itoa(empties))
				empties = 0
			}
			sb.WriteRune(c.DisplayRune())
		}
		if empties > 0 {
			sb.WriteString(strconv.Itoa(empties))
		}
		if row != dim-1 {
			sb.WriteString("/")
		}
	}
	sb.WriteString(" ")
	sb.WriteRune(b.PlayerOnTurn().DisplayRune())
	return sb.String()
}

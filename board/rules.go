package board

import "fmt"

// Directions are the eight unit steps a capture can run along.
var Directions = [8]Square{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Flips scans from (row, col) in the direction (dRow, dCol) and returns
// the opponent stones the player on turn would capture along that line.
func (b *Board) Flips(row, col, dRow, dCol int) []Square {
	return b.FlipsFor(b.onturn, row, col, dRow, dCol)
}

// FlipsFor is Flips for an explicit player. The run is only returned if
// it is closed off by one of the player's own stones; hitting an empty
// square or the edge of the board captures nothing. If the first
// neighbor is already the player's color, the (empty) run is returned.
func (b *Board) FlipsFor(player Color, row, col, dRow, dCol int) []Square {
	var run []Square
	for {
		row, col = row+dRow, col+dCol
		if !b.InBounds(row, col) {
			return nil
		}
		c := b.Get(row, col)
		if c == Empty {
			return nil
		}
		if c == player {
			return run
		}
		run = append(run, Square{row, col})
	}
}

// captures reports whether the run in one direction is non-empty without
// allocating it.
func (b *Board) captures(player Color, row, col, dRow, dCol int) bool {
	n := 0
	for {
		row, col = row+dRow, col+dCol
		if !b.InBounds(row, col) {
			return false
		}
		c := b.Get(row, col)
		if c == Empty {
			return false
		}
		if c == player {
			return n > 0
		}
		n++
	}
}

// IsValidMove reports whether the player on turn may place a stone at
// (row, col). Occupied and off-board squares are never valid.
func (b *Board) IsValidMove(row, col int) bool {
	return b.IsValidMoveFor(b.onturn, row, col)
}

// IsValidMoveFor is IsValidMove for an explicit player.
func (b *Board) IsValidMoveFor(player Color, row, col int) bool {
	if !b.InBounds(row, col) || b.Get(row, col) != Empty {
		return false
	}
	for _, d := range Directions {
		if b.captures(player, row, col, d.Row, d.Col) {
			return true
		}
	}
	return false
}

// HasValidMove reports whether the player has any legal move at all. It
// never touches the player-on-turn field.
func (b *Board) HasValidMove(player Color) bool {
	for row := 0; row < b.dim; row++ {
		for col := 0; col < b.dim; col++ {
			if b.IsValidMoveFor(player, row, col) {
				return true
			}
		}
	}
	return false
}

// ValidMoves lists the player's legal squares in row-major order.
func (b *Board) ValidMoves(player Color) []Square {
	var moves []Square
	for row := 0; row < b.dim; row++ {
		for col := 0; col < b.dim; col++ {
			if b.IsValidMoveFor(player, row, col) {
				moves = append(moves, Square{row, col})
			}
		}
	}
	return moves
}

// PlaceStone plays a stone for the player on turn and flips every
// captured run. It returns the flipped squares, direction by direction.
// The player on turn is not switched; that is the caller's job.
// Off-board or illegal squares return an error and leave the board as it
// was.
func (b *Board) PlaceStone(row, col int) ([]Square, error) {
	if err := b.Validate(row, col); err != nil {
		return nil, err
	}
	if !b.IsValidMove(row, col) {
		return nil, fmt.Errorf("%w: %v at %d,%d", ErrIllegalMove, b.onturn, row, col)
	}
	return b.PlaceStoneAs(b.onturn, row, col), nil
}

// PlaceStoneAs places a stone of the given color and applies its
// captures, without checking legality. UnplaceStone undoes it.
func (b *Board) PlaceStoneAs(player Color, row, col int) []Square {
	b.Set(row, col, player)
	var flipped []Square
	for _, d := range Directions {
		run := b.FlipsFor(player, row, col, d.Row, d.Col)
		for _, sq := range run {
			b.Set(sq.Row, sq.Col, player)
		}
		flipped = append(flipped, run...)
	}
	return flipped
}

// UnplaceStone reverts PlaceStoneAs: the flipped stones go back to the
// opponent and (row, col) goes back to empty.
func (b *Board) UnplaceStone(player Color, row, col int, flipped []Square) {
	opp := player.Opponent()
	for _, sq := range flipped {
		b.Set(sq.Row, sq.Col, opp)
	}
	b.Set(row, col, Empty)
}

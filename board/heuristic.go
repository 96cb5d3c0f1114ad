package board

// Positional weights for the static evaluation.
const (
	CornerWeight          = 80
	XSquareWeight         = -80
	AnchoredEdgeWeight    = 15
	ExposedEdgeWeight     = -60
	DefaultSquareWeight   = 1
	EndgameEmptyThreshold = 10
)

// Heuristic scores the position from the point of view of the player on
// turn, whoever that happens to be at the moment of the call.
func (b *Board) Heuristic() int {
	return b.HeuristicFor(b.onturn)
}

// HeuristicFor scores the position from the point of view of player.
// Every stone is weighted by its square class, added if it is the
// player's and subtracted otherwise. Close to the end the raw disc
// difference is added on top.
func (b *Board) HeuristicFor(player Color) int {
	score := 0
	sc := b.CountStones()
	for row := 0; row < b.dim; row++ {
		for col := 0; col < b.dim; col++ {
			c := b.Get(row, col)
			if c == Empty {
				continue
			}
			w := b.squareWeight(row, col, c)
			if c == player {
				score += w
			} else {
				score -= w
			}
		}
	}
	if sc.Empty <= EndgameEmptyThreshold {
		mine := sc.Of(player)
		theirs := b.dim*b.dim - sc.Empty - mine
		score += mine - theirs
	}
	return score
}

func (b *Board) squareWeight(row, col int, c Color) int {
	last := b.dim - 1
	switch {
	case b.isCorner(row, col):
		return CornerWeight
	case (row == 1 || row == last-1) && (col == 1 || col == last-1):
		return XSquareWeight
	}
	corners, ok := b.alignedCorners(row, col)
	if !ok {
		return DefaultSquareWeight
	}
	for _, sq := range corners {
		if b.Get(sq.Row, sq.Col) == c {
			return AnchoredEdgeWeight
		}
	}
	for _, sq := range corners {
		if b.Get(sq.Row, sq.Col) == Empty {
			return ExposedEdgeWeight
		}
	}
	return DefaultSquareWeight
}

func (b *Board) isCorner(row, col int) bool {
	last := b.dim - 1
	return (row == 0 || row == last) && (col == 0 || col == last)
}

// alignedCorners returns the two corners at the ends of the edge line a
// non-corner edge square sits on. ok is false for interior squares.
func (b *Board) alignedCorners(row, col int) ([2]Square, bool) {
	last := b.dim - 1
	switch {
	case col == 0:
		return [2]Square{{0, 0}, {last, 0}}, true
	case col == last:
		return [2]Square{{0, last}, {last, last}}, true
	case row == 0:
		return [2]Square{{0, 0}, {0, last}}, true
	case row == last:
		return [2]Square{{last, 0}, {last, last}}, true
	}
	return [2]Square{}, false
}

package game

import (
	"fmt"
	"strings"
)

func addText(lines []string, row int, hpad int, text string) {
	if row >= len(lines) {
		return
	}
	lines[row] = lines[row] + strings.Repeat(" ", hpad) + text
}

// ToDisplayText draws the board with the game state to its right.
func (g *Game) ToDisplayText() string {
	bt := g.board.ToDisplayText()
	bts := strings.Split(bt, "\n")
	// pad the board rows so the side text lines up.
	width := 0
	for _, l := range bts {
		width = max(width, len(l))
	}
	for i, l := range bts {
		bts[i] = l + strings.Repeat(" ", width-len(l))
	}
	hpadding := 3
	addText(bts, 1, hpadding, fmt.Sprintf("Turn %d", g.Turn()))
	if lm := g.LastMove(); lm != nil {
		addText(bts, 2, hpadding, fmt.Sprintf("Last: %v %v", lm.Player(), lm.ShortDescription()))
	}
	if g.playing == StateGameOver {
		addText(bts, 4, hpadding, "Game is over.")
		addText(bts, 5, hpadding, g.Result().String())
	} else if g.MustPass() {
		addText(bts, 4, hpadding, fmt.Sprintf("%v has no moves and must pass.", g.PlayerOnTurn()))
	}
	for i := range bts {
		bts[i] = strings.TrimRight(bts[i], " ")
	}
	return strings.Join(bts, "\n")
}

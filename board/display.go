package board

import (
	"fmt"
	"strings"
)

// ToDisplayText renders the board with column letters and 1-based row
// numbers, the same coordinates move notation uses.
func (b *Board) ToDisplayText() string {
	var str strings.Builder
	str.WriteString("   ")
	for i := 0; i < b.dim; i++ {
		str.WriteString(fmt.Sprintf("%c ", 'a'+i))
	}
	str.WriteString("\n")
	str.WriteString("   " + strings.Repeat("-", b.dim*2) + "\n")
	for row := 0; row < b.dim; row++ {
		str.WriteString(fmt.Sprintf("%2d|", row+1))
		for col := 0; col < b.dim; col++ {
			str.WriteRune(b.Get(row, col).DisplayRune())
			str.WriteString(" ")
		}
		str.WriteString("|\n")
	}
	str.WriteString("   " + strings.Repeat("-", b.dim*2) + "\n")
	sc := b.CountStones()
	str.WriteString(fmt.Sprintf("   %v to move. black %d, white %d, empty %d\n",
		b.onturn, sc.Black, sc.White, sc.Empty))
	return "\n" + str.String()
}

package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/samber/lo"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/stats"
)

type colorTurns struct {
	plays   int
	passes  int
	flipped stats.Statistic
}

// AnalyzeLogFile reads a turn log written by StartCompVComp and returns a
// report of the moves each color made.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	r := csv.NewReader(file)

	// Record looks like:
	// gameID,turn,player,play,score,flipped,black,white

	perColor := map[string]*colorTurns{
		board.Black.String(): {},
		board.White.String(): {},
	}
	gameIDs := []string{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if record[0] == "gameID" {
			continue
		}
		ct, ok := perColor[record[2]]
		if !ok {
			return "", fmt.Errorf("unexpected player %q on line %v", record[2], record)
		}
		gameIDs = append(gameIDs, record[0])
		if record[3] == "pass" {
			ct.passes++
			continue
		}
		flipped, err := strconv.Atoi(record[5])
		if err != nil {
			return "", err
		}
		ct.plays++
		ct.flipped.Push(float64(flipped))
	}

	report := fmt.Sprintf("Games played: %d\n", len(lo.Uniq(gameIDs)))
	for _, c := range []board.Color{board.Black, board.White} {
		ct := perColor[c.String()]
		report += fmt.Sprintf("%v: %d plays, %d passes, flips per play %.3f (stdev %.3f)\n",
			c, ct.plays, ct.passes, ct.flipped.Mean(), ct.flipped.Stdev())
	}
	return report, nil
}

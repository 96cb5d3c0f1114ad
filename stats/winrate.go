package stats

import "math"

// Record counts wins, losses and draws from one side's point of view.
type Record struct {
	Wins   int
	Losses int
	Draws  int
}

func (r *Record) Games() int {
	return r.Wins + r.Losses + r.Draws
}

// WinRate counts a draw as half a win.
func (r *Record) WinRate() float64 {
	g := r.Games()
	if g == 0 {
		return 0
	}
	return (float64(r.Wins) + float64(r.Draws)/2) / float64(g)
}

// ConfidenceInterval returns the Wilson score interval for the win rate at
// the given confidence, in percent (e.g. 95).
func (r *Record) ConfidenceInterval(confidence float64) (float64, float64) {
	n := float64(r.Games())
	if n == 0 {
		return 0, 1
	}
	z := ZVal(confidence)
	p := r.WinRate()
	denom := 1 + z*z/n
	center := (p + z*z/(2*n)) / denom
	half := z * math.Sqrt(p*(1-p)/n+z*z/(4*n*n)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}

package automatic

// Data collection for automatic games.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"os"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/config"
	"github.com/domino14/reversi/stats"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// Options for a batch of games. Zero values fall back to the config.
type Options struct {
	NumGames   int
	Threads    int
	LogFile    string
	BlackDepth int
	WhiteDepth int
	Seeds      [][32]byte
}

// Summary is the aggregate of a batch of games, from Black's side.
type Summary struct {
	Games          int        `yaml:"games"`
	BlackWins      int        `yaml:"black_wins"`
	WhiteWins      int        `yaml:"white_wins"`
	Draws          int        `yaml:"draws"`
	DistinctGames  int        `yaml:"distinct_games"`
	BlackDepth     int        `yaml:"black_depth"`
	WhiteDepth     int        `yaml:"white_depth"`
	BlackWinRate   float64    `yaml:"black_win_rate"`
	BlackWinRateCI [2]float64 `yaml:"black_win_rate_ci95"`
	MeanMargin     float64    `yaml:"mean_black_margin"`
	MarginStdev    float64    `yaml:"black_margin_stdev"`
	MeanTurns      float64    `yaml:"mean_turns"`
	TotalNodes     uint64     `yaml:"total_nodes"`

	margins []float64
}

type summarizer struct {
	record       stats.Record
	margin       stats.Statistic
	turns        stats.Statistic
	fingerprints []uint64
	margins      []float64
	nodes        uint64
}

func (s *summarizer) add(rec *GameRecord) {
	switch rec.Result.Winner {
	case board.Black:
		s.record.Wins++
	case board.White:
		s.record.Losses++
	default:
		s.record.Draws++
	}
	m := float64(rec.Result.Black - rec.Result.White)
	s.margin.Push(m)
	s.margins = append(s.margins, m)
	s.turns.Push(float64(rec.Turns))
	s.fingerprints = append(s.fingerprints, rec.Fingerprint)
	s.nodes += rec.Nodes
}

func (s *summarizer) summary(blackDepth, whiteDepth int) *Summary {
	lo95, hi95 := s.record.ConfidenceInterval(95)
	return &Summary{
		Games:          s.record.Games(),
		BlackWins:      s.record.Wins,
		WhiteWins:      s.record.Losses,
		Draws:          s.record.Draws,
		DistinctGames:  len(lo.Uniq(s.fingerprints)),
		BlackDepth:     blackDepth,
		WhiteDepth:     whiteDepth,
		BlackWinRate:   s.record.WinRate(),
		BlackWinRateCI: [2]float64{lo95, hi95},
		MeanMargin:     s.margin.Mean(),
		MarginStdev:    s.margin.Stdev(),
		MeanTurns:      s.turns.Mean(),
		TotalNodes:     s.nodes,
		margins:        s.margins,
	}
}

// String is a short human-readable report.
func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d (%d distinct)\n", s.Games, s.DistinctGames)
	fmt.Fprintf(&sb, "Depths: black %d, white %d\n", s.BlackDepth, s.WhiteDepth)
	fmt.Fprintf(&sb, "Black wins: %d  White wins: %d  Draws: %d\n", s.BlackWins, s.WhiteWins, s.Draws)
	fmt.Fprintf(&sb, "Black win rate: %.3f (95%% CI %.3f - %.3f)\n",
		s.BlackWinRate, s.BlackWinRateCI[0], s.BlackWinRateCI[1])
	fmt.Fprintf(&sb, "Black margin: mean %.2f, stdev %.2f\n", s.MeanMargin, s.MarginStdev)
	fmt.Fprintf(&sb, "Mean game length: %.1f moves\n", s.MeanTurns)
	return sb.String()
}

// Histogram draws the distribution of Black's final margin.
func (s *Summary) Histogram() (string, error) {
	if len(s.margins) == 0 {
		return "", nil
	}
	h := histogram.Hist(10, s.margins)
	var sb strings.Builder
	if err := histogram.Fprint(&sb, h, histogram.Linear(40)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteYAML writes the summary to a file.
func (s *Summary) WriteYAML(path string) error {
	out, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}

// StartCompVComp plays a batch of games across several threads and
// returns the summary once they are all done or ctx is cancelled. A
// cancelled batch still returns the summary of the games that finished.
func StartCompVComp(ctx context.Context, cfg *config.Config, opts Options) (*Summary, error) {
	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	numGames := lo.Ternary(opts.NumGames > 0, opts.NumGames, cfg.GetInt(config.ConfigAutoplayGames))
	threads := lo.Ternary(opts.Threads > 0, opts.Threads, cfg.GetInt(config.ConfigAutoplayThreads))
	threads = max(1, min(threads, numGames))
	blackDepth := lo.Ternary(opts.BlackDepth > 0, opts.BlackDepth, cfg.GetInt(config.ConfigSearchDepth))
	whiteDepth := lo.Ternary(opts.WhiteDepth > 0, opts.WhiteDepth, cfg.GetInt(config.ConfigSearchDepth))

	var store *ResultStore
	if dbpath := cfg.GetString(config.ConfigAutoplayDB); dbpath != "" {
		var err error
		store, err = OpenResultStore(dbpath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
	}

	var logChan chan string
	var logfile *os.File
	if opts.LogFile != "" {
		var err error
		logfile, err = os.Create(opts.LogFile)
		if err != nil {
			return nil, err
		}
		logChan = make(chan string, 100)
	}

	log.Info().Int("games", numGames).Int("threads", threads).
		Int("black-depth", blackDepth).Int("white-depth", whiteDepth).Msg("starting-autoplay")
	CVCCounter.Set(0)

	jobs := make(chan int, 100)
	results := make(chan *GameRecord, 100)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < numGames; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				log.Info().Msg("got-stop-signal")
				return nil
			}
			if (i+1)%1000 == 0 {
				log.Info().Int("queued", i+1).Msg("queued-jobs")
			}
		}
		return nil
	})

	for t := 0; t < threads; t++ {
		g.Go(func() error {
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			r := NewGameRunner(logChan, cfg)
			r.SetDepths(blackDepth, whiteDepth)
			for i := range jobs {
				if i < len(opts.Seeds) {
					r.SetSeed(opts.Seeds[i])
				}
				rec, err := r.PlayFull(gctx)
				if err != nil {
					if gctx.Err() != nil {
						// stopped, or another thread failed.
						return nil
					}
					return err
				}
				CVCCounter.Add(1)
				results <- rec
			}
			return nil
		})
	}

	writer := errgroup.Group{}
	if logfile != nil {
		writer.Go(func() error {
			defer logfile.Close()
			if _, err := logfile.WriteString(TurnLogHeader); err != nil {
				return err
			}
			for msg := range logChan {
				if _, err := logfile.WriteString(msg); err != nil {
					// keep draining so the players don't block.
					for range logChan {
					}
					return err
				}
			}
			log.Info().Msg("exiting-turn-logger")
			return nil
		})
	}

	sum := &summarizer{}
	writer.Go(func() error {
		var storeErr error
		for rec := range results {
			sum.add(rec)
			if store != nil && storeErr == nil {
				storeErr = store.Save(context.Background(), rec)
			}
		}
		return storeErr
	})

	err := g.Wait()
	if logChan != nil {
		close(logChan)
	}
	close(results)
	werr := writer.Wait()
	log.Info().Int64("games", CVCCounter.Value()).Msg("all-games-finished")
	if err != nil {
		return nil, err
	}
	if werr != nil {
		return nil, werr
	}
	summary := sum.summary(blackDepth, whiteDepth)
	if path := cfg.GetString(config.ConfigAutoplaySummary); path != "" {
		if err := summary.WriteYAML(path); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

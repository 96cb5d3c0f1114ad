package automatic

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/stats"
)

const createGamesTable = `CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	fingerprint TEXT NOT NULL,
	black INTEGER NOT NULL,
	white INTEGER NOT NULL,
	winner TEXT NOT NULL,
	turns INTEGER NOT NULL,
	black_depth INTEGER NOT NULL,
	white_depth INTEGER NOT NULL,
	nodes INTEGER NOT NULL,
	transcript TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// ResultStore keeps finished self-play games in a sqlite file, so results
// accumulate across runs.
type ResultStore struct {
	db *sql.DB
}

func OpenResultStore(path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer at a time.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(createGamesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating games table: %w", err)
	}
	log.Debug().Str("path", path).Msg("opened-result-store")
	return &ResultStore{db: db}, nil
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}

func (s *ResultStore) Save(ctx context.Context, rec *GameRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, fingerprint, black, white, winner, turns,
			black_depth, white_depth, nodes, transcript)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, fmt.Sprintf("%016x", rec.Fingerprint), rec.Result.Black, rec.Result.White,
		rec.Result.Winner.String(), rec.Turns, rec.BlackDepth, rec.WhiteDepth,
		int64(rec.Nodes), rec.Transcript)
	return err
}

func (s *ResultStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n)
	return n, err
}

// Tally returns Black's record over every stored game played at the given
// depths.
func (s *ResultStore) Tally(ctx context.Context, blackDepth, whiteDepth int) (stats.Record, error) {
	var rec stats.Record
	rows, err := s.db.QueryContext(ctx,
		`SELECT winner, COUNT(*) FROM games
		WHERE black_depth = ? AND white_depth = ? GROUP BY winner`,
		blackDepth, whiteDepth)
	if err != nil {
		return rec, err
	}
	defer rows.Close()
	for rows.Next() {
		var winner string
		var n int
		if err := rows.Scan(&winner, &n); err != nil {
			return rec, err
		}
		switch winner {
		case board.Black.String():
			rec.Wins += n
		case board.White.String():
			rec.Losses += n
		default:
			rec.Draws += n
		}
	}
	return rec, rows.Err()
}

// Transcripts returns the transcripts of the stored games with the given
// fingerprint.
func (s *ResultStore) Transcripts(ctx context.Context, fingerprint uint64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT transcript FROM games WHERE fingerprint = ?`,
		fmt.Sprintf("%016x", fingerprint))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ts []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return ts, rows.Err()
}

// Package game runs the flow of a Reversi game around the board engine:
// whose turn it is, when a player has to pass, when the game ends, and
// who won. It doesn't care how moves are chosen; AI players and humans
// both play through PlayMove.
package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
)

type PlayState uint8

const (
	StatePlaying PlayState = iota
	StateGameOver
)

func (p PlayState) String() string {
	if p == StateGameOver {
		return "game-over"
	}
	return "playing"
}

var (
	ErrGameOver       = errors.New("cannot play a move on a game that is over")
	ErrPassNotAllowed = errors.New("cannot pass while a legal move exists")
	ErrWrongPlayer    = errors.New("move is not by the player on turn")
)

// Game is the board plus everything needed to play it out. Only PlayMove
// changes the player on turn.
type Game struct {
	board   *board.Board
	playing PlayState
	history []*move.Move
	uid     string
}

func newUid() string {
	return strconv.FormatUint(frand.Uint64n(1<<63), 36)
}

// NewGame starts a game from the opening position on a board of the
// given size.
func NewGame(dim int) (*Game, error) {
	b, err := board.NewBoard(dim)
	if err != nil {
		return nil, err
	}
	return NewFromBoard(b), nil
}

// NewFromBoard starts a game from an arbitrary position. The game takes
// ownership of the board.
func NewFromBoard(b *board.Board) *Game {
	g := &Game{board: b, uid: newUid()}
	g.checkEnd()
	return g
}

// FromTranscript replays a space-separated list of moves from the
// opening position.
func FromTranscript(dim int, transcript string) (*Game, error) {
	g, err := NewGame(dim)
	if err != nil {
		return nil, err
	}
	for i, tok := range strings.Fields(transcript) {
		m, err := move.FromNotation(tok, g.PlayerOnTurn(), dim)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		if err = g.PlayMove(m); err != nil {
			return nil, fmt.Errorf("move %d (%s): %w", i+1, tok, err)
		}
	}
	return g, nil
}

// ValidateMove returns an error if m can't be played right now.
func (g *Game) ValidateMove(m *move.Move) error {
	if g.playing == StateGameOver {
		return ErrGameOver
	}
	onturn := g.board.PlayerOnTurn()
	if m.Player() != onturn {
		return fmt.Errorf("%w: %v is on turn", ErrWrongPlayer, onturn)
	}
	switch m.Action() {
	case move.MoveTypePass:
		if g.board.HasValidMove(onturn) {
			return ErrPassNotAllowed
		}
	case move.MoveTypePlay:
		if err := g.board.Validate(m.Row(), m.Col()); err != nil {
			return err
		}
		if !g.board.IsValidMove(m.Row(), m.Col()) {
			return fmt.Errorf("%w: %v", board.ErrIllegalMove, m.ShortDescription())
		}
	default:
		return fmt.Errorf("move type %v is not playable", m.Action())
	}
	return nil
}

// PlayMove plays m for the player on turn, then hands the turn to the
// other player. The game ends when neither side has a legal move.
func (g *Game) PlayMove(m *move.Move) error {
	if err := g.ValidateMove(m); err != nil {
		return err
	}
	if m.Action() == move.MoveTypePlay {
		flipped, err := g.board.PlaceStone(m.Row(), m.Col())
		if err != nil {
			return err
		}
		m.SetFlipped(len(flipped))
	}
	g.history = append(g.history, m)
	g.board.SwitchPlayer()
	g.checkEnd()
	return nil
}

func (g *Game) checkEnd() {
	if g.playing == StateGameOver {
		return
	}
	onturn := g.board.PlayerOnTurn()
	if g.board.IsGameOver() ||
		(!g.board.HasValidMove(onturn) && !g.board.HasValidMove(onturn.Opponent())) {
		g.playing = StateGameOver
		sc := g.board.CountStones()
		log.Debug().Int("black", sc.Black).Int("white", sc.White).
			Int("turns", len(g.history)).Msg("game-over")
	}
}

// MustPass is true if the player on turn has no legal move but the game
// isn't over.
func (g *Game) MustPass() bool {
	return g.playing == StatePlaying && !g.board.HasValidMove(g.board.PlayerOnTurn())
}

// LegalMoves lists every move the player on turn may make: the legal
// plays in row-major order, or a single pass.
func (g *Game) LegalMoves() []*move.Move {
	if g.playing == StateGameOver {
		return nil
	}
	onturn := g.board.PlayerOnTurn()
	sqs := g.board.ValidMoves(onturn)
	if len(sqs) == 0 {
		return []*move.Move{move.NewPassMove(onturn)}
	}
	moves := make([]*move.Move, len(sqs))
	for i, sq := range sqs {
		moves[i] = move.NewPlayMove(onturn, sq.Row, sq.Col)
	}
	return moves
}

// Transcript is the moves played so far in notation, separated by spaces.
func (g *Game) Transcript() string {
	parts := make([]string, len(g.history))
	for i, m := range g.history {
		parts[i] = m.ShortDescription()
	}
	return strings.Join(parts, " ")
}

// Copy returns a deep copy, for trying out lines without touching the
// real game.
func (g *Game) Copy() *Game {
	h := make([]*move.Move, len(g.history))
	copy(h, g.history)
	return &Game{
		board:   g.board.Copy(),
		playing: g.playing,
		history: h,
		uid:     g.uid,
	}
}

func (g *Game) Board() *board.Board {
	return g.board
}

func (g *Game) Playing() PlayState {
	return g.playing
}

func (g *Game) PlayerOnTurn() board.Color {
	return g.board.PlayerOnTurn()
}

// Turn is the number of moves (passes included) played so far.
func (g *Game) Turn() int {
	return len(g.history)
}

func (g *Game) History() []*move.Move {
	return g.history
}

// LastMove is the last move played, or nil.
func (g *Game) LastMove() *move.Move {
	if len(g.history) == 0 {
		return nil
	}
	return g.history[len(g.history)-1]
}

func (g *Game) Uid() string {
	return g.uid
}

func (g *Game) SetUid(uid string) {
	g.uid = uid
}

// Package bot serves best-move requests over NATS. A request carries a
// position string and an optional depth; the reply carries the move in
// notation.
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/reversi/alphabeta"
	"github.com/domino14/reversi/config"
	"github.com/domino14/reversi/move"
	"github.com/domino14/reversi/position"
)

type Request struct {
	Position string `json:"position"`
	Depth    int    `json:"depth,omitempty"`
	GameID   string `json:"gid,omitempty"`
}

// Response is the reply to a Request. Score is left out for a pass or
// when every line loses outright.
type Response struct {
	Move   string   `json:"move,omitempty"`
	Score  *float64 `json:"score,omitempty"`
	Nodes  uint64   `json:"nodes,omitempty"`
	GameID string   `json:"gid,omitempty"`
	Error  string   `json:"error,omitempty"`
}

type Bot struct {
	config *config.Config

	// one search at a time; the solver is not safe for concurrent use.
	mu     sync.Mutex
	solver *alphabeta.Solver
}

func NewBot(cfg *config.Config) *Bot {
	return &Bot{config: cfg, solver: &alphabeta.Solver{}}
}

func errorResponse(message string, err error) *Response {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &Response{Error: msg}
}

// Deserialize parses a request into a position and the depth to search it
// at. The request's depth wins over the position's depth opcode, which
// wins over the configured default. Depths past bot-max-depth are cut
// down to it.
func (bot *Bot) Deserialize(data []byte) (*position.ParsedPosition, int, error) {
	req := Request{}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, 0, err
	}
	pos, err := position.Parse(req.Position)
	if err != nil {
		return nil, 0, err
	}
	if req.GameID != "" {
		pos.Opcodes["gid"] = req.GameID
	}
	depth := req.Depth
	if depth == 0 {
		depth = pos.Depth(bot.config.GetInt(config.ConfigSearchDepth))
	}
	if maxDepth := bot.config.GetInt(config.ConfigBotMaxDepth); maxDepth > 0 && depth > maxDepth {
		log.Warn().Int("requested", depth).Int("max", maxDepth).Msg("clamping-search-depth")
		depth = maxDepth
	}
	return pos, depth, nil
}

// BestMove searches the position to the given depth, within the
// configured timeout if there is one.
func (bot *Bot) BestMove(ctx context.Context, pos *position.ParsedPosition, depth int) (*move.Move, alphabeta.Stats, error) {
	bot.mu.Lock()
	defer bot.mu.Unlock()
	if t := bot.config.GetDuration(config.ConfigSearchTimeout); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	bot.solver.Init(pos.Board)
	bot.solver.SetSimulateCaptures(bot.config.GetBool(config.ConfigSearchSimulateCaptures))
	m, err := bot.solver.Solve(ctx, depth)
	return m, bot.solver.Stats(), err
}

func (bot *Bot) handle(ctx context.Context, data []byte) *Response {
	pos, depth, err := bot.Deserialize(data)
	if err != nil {
		return errorResponse("could not parse request", err)
	}
	m, st, err := bot.BestMove(ctx, pos, depth)
	if err != nil {
		return errorResponse("search failed", err)
	}
	log.Info().Str("gid", pos.GameID()).Str("move", m.ShortDescription()).
		Int("depth", depth).Uint64("nodes", st.Nodes).Msg("generated-move")
	resp := &Response{Move: m.ShortDescription(), Nodes: st.Nodes, GameID: pos.GameID()}
	if !m.IsPass() && !math.IsInf(m.Score(), 0) {
		score := m.Score()
		resp.Score = &score
	}
	return resp
}

// Handle answers one serialized request with one serialized response.
func (bot *Bot) Handle(ctx context.Context, data []byte) []byte {
	out, err := json.Marshal(bot.handle(ctx, data))
	if err != nil {
		// Should never happen, ideally, but we need to do something sensible here.
		out, _ = json.Marshal(errorResponse("could not encode response", err))
	}
	return out
}

// Main listens on the channel until ctx is done.
func Main(ctx context.Context, channel string, bot *Bot) error {
	nc, err := nats.Connect(bot.config.GetString(config.ConfigNatsURL))
	if err != nil {
		return err
	}
	defer nc.Close()
	sub, err := nc.Subscribe(channel, func(m *nats.Msg) {
		log.Info().Int("bytes", len(m.Data)).Msg("recv")
		if err := m.Respond(bot.Handle(ctx, m.Data)); err != nil {
			log.Err(err).Msg("respond-error")
		}
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Str("channel", channel).Msg("listening")
	<-ctx.Done()
	return nil
}

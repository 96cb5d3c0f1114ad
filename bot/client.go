package bot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
	"github.com/domino14/reversi/position"
)

const DefaultRequestTimeout = 30 * time.Second

// Client asks a bot on the other end of a NATS subject for moves.
type Client struct {
	nc      *nats.Conn
	channel string
	timeout time.Duration
}

func NewClient(nc *nats.Conn, channel string) *Client {
	return &Client{nc: nc, channel: channel, timeout: DefaultRequestTimeout}
}

// Connect dials the NATS server, retrying a few times in case it is still
// starting up.
func Connect(ctx context.Context, url, channel string) (*Client, error) {
	nc, err := retry.DoWithData(
		func() (*nats.Conn, error) {
			return nats.Connect(url)
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.OnRetry(func(n uint, err error) {
			log.Err(err).Uint("n", n).Msg("nats-connect-retry")
		}),
	)
	if err != nil {
		return nil, err
	}
	return NewClient(nc, channel), nil
}

func (c *Client) SetTimeout(t time.Duration) {
	c.timeout = t
}

func (c *Client) Close() {
	c.nc.Close()
}

func MakeRequest(b *board.Board, depth int) ([]byte, error) {
	return json.Marshal(Request{Position: position.ToPosition(b), Depth: depth})
}

// ParseResponse turns a bot reply into a move for the player on turn.
func ParseResponse(data []byte, b *board.Board) (*move.Move, error) {
	resp := Response{}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.New("bot returned: " + resp.Error)
	}
	m, err := move.FromNotation(resp.Move, b.PlayerOnTurn(), b.Dim())
	if err != nil {
		return nil, err
	}
	if resp.Score != nil {
		m.SetScore(*resp.Score)
	}
	return m, nil
}

// RequestMove sends a position to the bot and gets a move back. Requests
// that time out or find no bot listening are retried.
func (c *Client) RequestMove(ctx context.Context, b *board.Board, depth int) (*move.Move, error) {
	data, err := MakeRequest(b, depth)
	if err != nil {
		return nil, err
	}
	res, err := retry.DoWithData(
		func() (*nats.Msg, error) {
			rctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			return c.nc.RequestWithContext(rctx, c.channel, data)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, nats.ErrTimeout) || errors.Is(err, nats.ErrNoResponders) ||
				errors.Is(err, context.DeadlineExceeded)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Err(c.nc.LastError()).Msg("nats-last-error")
		}
		return nil, err
	}
	log.Debug().Str("res", string(res.Data)).Msg("bot-response")
	return ParseResponse(res.Data, b)
}

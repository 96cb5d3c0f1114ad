package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/reversi/bot"
	"github.com/domino14/reversi/config"
)

var cfg *config.Config
var nc *nats.Conn

const HardTimeLimit = 180 * time.Second

func HandleRequest(ctx context.Context, evt bot.LambdaEvent) (string, error) {
	logger := log.With().
		Str("gameID", evt.GameID).
		Logger()

	ctx, cancel := context.WithTimeout(ctx, HardTimeLimit)
	defer cancel()

	data, err := json.Marshal(evt.Request())
	if err != nil {
		return "", err
	}
	b := bot.NewBot(cfg)
	pos, depth, err := b.Deserialize(data)
	if err != nil {
		return "", err
	}
	m, st, err := b.BestMove(ctx, pos, depth)
	if err != nil {
		return "", err
	}
	logger.Info().Str("move", m.ShortDescription()).Int("depth", depth).
		Uint64("nodes", st.Nodes).Dur("elapsed", st.Elapsed).Msg("move-found")

	if evt.ReplyChannel != "" {
		if nc == nil {
			return "", fmt.Errorf("no NATS connection to reply on %v", evt.ReplyChannel)
		}
		resp, err := json.Marshal(bot.Response{Move: m.ShortDescription(), Nodes: st.Nodes, GameID: evt.GameID})
		if err != nil {
			return "", err
		}
		logger.Info().Msg("move-success-sending-via-nats")
		err = retry.Do(
			func() error {
				// We're just waiting for an acknowledgement. The actual
				// data doesn't matter.
				_, err := nc.Request(evt.ReplyChannel, resp, 3*time.Second)
				return err
			},
			retry.Context(ctx),
			retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
				logger.Err(err).Uint("n", n).
					Msg("did-not-receive-ack-try-again")
				return retry.BackOffDelay(n, err, config)
			}),
		)
		if err != nil {
			logger.Err(err).Msg("bot-move-failed")
		}
	}
	logger.Info().Msg("exiting-fn")
	return m.ShortDescription(), nil
}

func main() {
	cfg = &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("config-load-error")
	}
	log.Info().Interface("config", cfg.Settings()).Msg("loaded-config")
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var err error
	nc, err = nats.Connect(cfg.GetString(config.ConfigNatsURL))
	if err != nil {
		log.Fatal().AnErr("natsConnectErr", err).Msg(":(")
	}

	lambda.Start(HandleRequest)
}

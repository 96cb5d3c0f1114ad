// Package config holds the settings shared by the binaries, backed by
// viper. Settings come from flags, then REVERSI_* environment variables,
// then an optional config.yaml, then the defaults below.
package config

import (
	"errors"
	"runtime"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug                  = "debug"
	ConfigBoardSize              = "board-size"
	ConfigSearchDepth            = "search-depth"
	ConfigSearchSimulateCaptures = "search-simulate-captures"
	ConfigSearchTimeout          = "search-timeout"
	ConfigNatsURL                = "nats-url"
	ConfigBotChannel             = "bot-channel"
	ConfigBotMaxDepth            = "bot-max-depth"
	ConfigAutoplayGames          = "autoplay-games"
	ConfigAutoplayThreads        = "autoplay-threads"
	ConfigAutoplayRandomPlies    = "autoplay-random-plies"
	ConfigAutoplayDB             = "autoplay-db"
	ConfigAutoplaySummary        = "autoplay-summary"
)

const (
	DefaultSearchDepth = 7
	DefaultBotChannel  = "reversi.bot"
	DefaultBotMaxDepth = 10
)

type Config struct {
	*viper.Viper
	args []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigBoardSize, 8)
	v.SetDefault(ConfigSearchDepth, DefaultSearchDepth)
	v.SetDefault(ConfigSearchSimulateCaptures, false)
	v.SetDefault(ConfigSearchTimeout, time.Duration(0))
	v.SetDefault(ConfigNatsURL, nats.DefaultURL)
	v.SetDefault(ConfigBotChannel, DefaultBotChannel)
	v.SetDefault(ConfigBotMaxDepth, DefaultBotMaxDepth)
	v.SetDefault(ConfigAutoplayGames, 100)
	v.SetDefault(ConfigAutoplayThreads, runtime.NumCPU())
	v.SetDefault(ConfigAutoplayRandomPlies, 4)
	v.SetDefault(ConfigAutoplayDB, "")
	v.SetDefault(ConfigAutoplaySummary, "")
}

// DefaultConfig returns a config with only the defaults set. Tests use it.
func DefaultConfig() Config {
	c := Config{Viper: viper.New()}
	setDefaults(c.Viper)
	return c
}

// Load reads the flags in args plus the environment and config file. Any
// args that aren't flags are left for the caller in Args.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := pflag.NewFlagSet("reversi", pflag.ContinueOnError)
	// stop at the first command so its own options are left alone.
	fs.SetInterspersed(false)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigBoardSize, 8, "board size; even, 4 to 26")
	fs.Int(ConfigSearchDepth, DefaultSearchDepth, "search depth in plies")
	fs.Bool(ConfigSearchSimulateCaptures, false, "flip captured stones during search")
	fs.Duration(ConfigSearchTimeout, 0, "give up a search after this long; 0 for no limit")
	fs.String(ConfigNatsURL, nats.DefaultURL, "the NATS server URL")
	fs.String(ConfigBotChannel, DefaultBotChannel, "the NATS subject the bot listens on")
	fs.Int(ConfigBotMaxDepth, DefaultBotMaxDepth, "deepest search a bot request may ask for")
	fs.Int(ConfigAutoplayGames, 100, "number of games to autoplay")
	fs.Int(ConfigAutoplayThreads, runtime.NumCPU(), "number of autoplay threads")
	fs.Int(ConfigAutoplayRandomPlies, 4, "random plies at the start of each autoplay game")
	fs.String(ConfigAutoplayDB, "", "sqlite file to store autoplay results in")
	fs.String(ConfigAutoplaySummary, "", "yaml file to write the autoplay summary to")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.args = fs.Args()

	c.SetEnvPrefix("reversi")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	c.SetConfigName("config")
	c.SetConfigType("yaml")
	c.AddConfigPath("$HOME/.reversi")
	c.AddConfigPath(".")
	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		log.Debug().Msg("no-config-file")
	}
	return nil
}

// Args returns the arguments left over after the flags.
func (c *Config) Args() []string {
	return c.args
}

// Settings is every setting, for logging at startup.
func (c *Config) Settings() map[string]any {
	return c.AllSettings()
}

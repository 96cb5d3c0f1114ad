// Package shell executes text commands against a game: setting up
// positions, playing moves, asking the search for moves, and running
// self-play batches. It is the layer a front end or a script talks to.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/domino14/reversi/alphabeta"
	"github.com/domino14/reversi/config"
	"github.com/domino14/reversi/game"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game loaded; start one with new or load")
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (r *Response) Message() string {
	if r == nil {
		return ""
	}
	return r.message
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

// extractFields splits a command line into the command, its positional
// arguments, and its -options. Every option takes exactly one value.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && len(fields[i]) > 1 {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := fields[i][1:]
			options[key] = append(options[key], fields[i+1])
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

type ShellController struct {
	config *config.Config
	out    io.Writer

	game    *game.Game
	solver  *alphabeta.Solver
	printer *message.Printer
}

func NewShellController(cfg *config.Config, out io.Writer) *ShellController {
	return &ShellController{
		config:  cfg,
		out:     out,
		solver:  &alphabeta.Solver{},
		printer: message.NewPrinter(language.English),
	}
}

// Game returns the game being played, or nil.
func (sc *ShellController) Game() *game.Game {
	return sc.game
}

func (sc *ShellController) showMessage(msg string) {
	io.WriteString(sc.out, msg)
	io.WriteString(sc.out, "\n")
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func (sc *ShellController) handle(ctx context.Context, line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "new":
		return sc.newGame(cmd)
	case "load":
		return sc.load(cmd)
	case "show":
		return sc.show(cmd)
	case "moves":
		return sc.moves(cmd)
	case "play":
		return sc.play(cmd)
	case "pass":
		return sc.pass(cmd)
	case "best":
		return sc.best(ctx, cmd)
	case "aiplay":
		return sc.aiplay(ctx, cmd)
	case "eval":
		return sc.eval(cmd)
	case "position":
		return sc.position(cmd)
	case "transcript":
		return sc.transcript(cmd)
	case "result":
		return sc.result(cmd)
	case "autoplay":
		return sc.autoplay(ctx, cmd)
	case "analyze":
		return sc.analyze(cmd)
	case "script":
		return sc.script(ctx, cmd)
	case "help":
		return sc.help(cmd)
	default:
		return nil, fmt.Errorf("command %v not found", cmd.cmd)
	}
}

// Execute runs one command line and writes its output.
func (sc *ShellController) Execute(ctx context.Context, line string) error {
	resp, err := sc.handle(ctx, line)
	if err != nil {
		log.Err(err).Str("line", line).Msg("command-error")
		sc.showError(err)
		return err
	}
	if m := resp.Message(); m != "" {
		sc.showMessage(m)
	}
	return nil
}

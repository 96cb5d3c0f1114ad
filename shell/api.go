package shell

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/reversi/automatic"
	"github.com/domino14/reversi/config"
	"github.com/domino14/reversi/game"
	"github.com/domino14/reversi/move"
	"github.com/domino14/reversi/position"
)

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	size := sc.config.GetInt(config.ConfigBoardSize)
	if len(cmd.args) > 0 {
		var err error
		size, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	g, err := game.NewGame(size)
	if err != nil {
		return nil, err
	}
	sc.game = g
	return msg(g.ToDisplayText()), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if t := cmd.options.String("transcript"); t != "" {
		size, err := cmd.options.IntDefault("size", sc.config.GetInt(config.ConfigBoardSize))
		if err != nil {
			return nil, err
		}
		g, err := game.FromTranscript(size, t)
		if err != nil {
			return nil, err
		}
		sc.game = g
		return msg(g.ToDisplayText()), nil
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("need a position or -transcript for load")
	}
	pos, err := position.Parse(strings.Join(cmd.args, " "))
	if err != nil {
		return nil, err
	}
	sc.game = game.NewFromBoard(pos.Board)
	if gid := pos.GameID(); gid != "" {
		sc.game.SetUid(gid)
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	moves := sc.game.LegalMoves()
	if len(moves) == 0 {
		return msg("No moves; the game is over."), nil
	}
	return msg(strings.Join(lo.Map(moves, func(m *move.Move, _ int) string {
		return m.ShortDescription()
	}), " ")), nil
}

func (sc *ShellController) commit(m *move.Move) (*Response, error) {
	if err := sc.game.PlayMove(m); err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("play <coords>")
	}
	m, err := move.FromNotation(cmd.args[0], sc.game.PlayerOnTurn(), sc.game.Board().Dim())
	if err != nil {
		return nil, err
	}
	return sc.commit(m)
}

func (sc *ShellController) pass(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return sc.commit(move.NewPassMove(sc.game.PlayerOnTurn()))
}

func (sc *ShellController) search(ctx context.Context, cmd *shellcmd) (*move.Move, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if sc.game.Playing() == game.StateGameOver {
		return nil, game.ErrGameOver
	}
	depth := sc.config.GetInt(config.ConfigSearchDepth)
	if len(cmd.args) > 0 {
		var err error
		depth, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	if t := sc.config.GetDuration(config.ConfigSearchTimeout); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	sc.solver.Init(sc.game.Board())
	sc.solver.SetSimulateCaptures(
		sc.config.GetBool(config.ConfigSearchSimulateCaptures) || cmd.options.Bool("captures"))
	return sc.solver.Solve(ctx, depth)
}

func (sc *ShellController) searchStats() string {
	st := sc.solver.Stats()
	return sc.printer.Sprintf("Searched %d nodes (%d cutoffs) in %.3fs",
		st.Nodes, st.Cutoffs, st.Elapsed.Seconds())
}

func (sc *ShellController) best(ctx context.Context, cmd *shellcmd) (*Response, error) {
	m, err := sc.search(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if m.IsPass() {
		return msg(fmt.Sprintf("%v has no moves and must pass.", m.Player())), nil
	}
	n, err := cmd.options.IntDefault("n", 10)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString("     Move  Score\n")
	for i, rm := range lo.Subset(sc.solver.RootMoves(), 0, uint(n)) {
		fmt.Fprintf(&sb, "%3d: %-6s%.2f\n", i+1, rm.ShortDescription(), rm.Score())
	}
	sb.WriteString(sc.searchStats())
	return msg(sb.String()), nil
}

func (sc *ShellController) aiplay(ctx context.Context, cmd *shellcmd) (*Response, error) {
	m, err := sc.search(ctx, cmd)
	if err != nil {
		return nil, err
	}
	r, err := sc.commit(m)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("%v plays %v. %v\n%v",
		m.Player(), m.ShortDescription(), sc.searchStats(), r.message)), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	b := sc.game.Board()
	onturn := b.PlayerOnTurn()
	return msg(fmt.Sprintf("Heuristic for %v (on turn): %d\nHeuristic for %v: %d",
		onturn, b.HeuristicFor(onturn), onturn.Opponent(), b.HeuristicFor(onturn.Opponent()))), nil
}

func (sc *ShellController) position(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(position.ToPosition(sc.game.Board())), nil
}

func (sc *ShellController) transcript(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(sc.game.Transcript()), nil
}

func (sc *ShellController) result(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if sc.game.Playing() != game.StateGameOver {
		return msg("The game is not over. Score so far: " + sc.game.Result().String()), nil
	}
	return msg(sc.game.Result().String()), nil
}

func (sc *ShellController) autoplay(ctx context.Context, cmd *shellcmd) (*Response, error) {
	opts := automatic.Options{LogFile: cmd.options.String("file")}
	var err error
	for key, dst := range map[string]*int{
		"games":   &opts.NumGames,
		"threads": &opts.Threads,
		"black":   &opts.BlackDepth,
		"white":   &opts.WhiteDepth,
	} {
		if *dst, err = cmd.options.IntDefault(key, 0); err != nil {
			return nil, fmt.Errorf("-%s: %w", key, err)
		}
	}
	if path := cmd.options.String("seeds"); path != "" {
		if opts.Seeds, err = automatic.LoadSeeds(path); err != nil {
			return nil, err
		}
	}
	if path := cmd.options.String("saveseeds"); path != "" {
		n := opts.NumGames
		if n == 0 {
			n = sc.config.GetInt(config.ConfigAutoplayGames)
		}
		opts.Seeds = automatic.GenerateSeeds(n)
		if err := automatic.SaveSeeds(opts.Seeds, path); err != nil {
			return nil, err
		}
	}
	summary, err := automatic.StartCompVComp(ctx, sc.config, opts)
	if err != nil {
		return nil, err
	}
	hist, err := summary.Histogram()
	if err != nil {
		return nil, err
	}
	out := summary.String()
	if hist != "" {
		out += "Black margin distribution:\n" + hist
	}
	return msg(out), nil
}

func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("analyze <turn log file>")
	}
	report, err := automatic.AnalyzeLogFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	return msg(report), nil
}

var helpTopics = map[string]string{
	"new":        "new [size] - start a game from the opening position",
	"load":       "load <position> | load -transcript \"d3 c5 ...\" [-size n] - set up a game",
	"show":       "show - draw the board",
	"moves":      "moves - list the legal moves",
	"play":       "play <coords> - play a move, e.g. play d3",
	"pass":       "pass - pass; only allowed with no legal move",
	"best":       "best [depth] [-n count] [-captures true] - search and list the best moves",
	"aiplay":     "aiplay [depth] [-captures true] - search and play the best move",
	"eval":       "eval - show the static heuristic for both sides",
	"position":   "position - print the position string",
	"transcript": "transcript - print the moves played so far",
	"result":     "result - show the score, with empties going to the winner",
	"autoplay":   "autoplay [-games n] [-threads n] [-black depth] [-white depth] [-file log.csv] [-seeds file | -saveseeds file] - computer vs computer",
	"analyze":    "analyze <turn log file> - summarize an autoplay turn log",
	"script":     "script <file.lua> - run a Lua script",
	"help":       "help [command] - this text",
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 {
		h, ok := helpTopics[cmd.args[0]]
		if !ok {
			return nil, fmt.Errorf("there is no help text for the topic %v", cmd.args[0])
		}
		return msg(h), nil
	}
	keys := lo.Keys(helpTopics)
	sort.Strings(keys)
	return msg(strings.Join(lo.Map(keys, func(k string, _ int) string {
		return helpTopics[k]
	}), "\n")), nil
}

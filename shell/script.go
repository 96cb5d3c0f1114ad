package shell

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/game"
	"github.com/domino14/reversi/position"
)

type scriptState struct {
	Position   string `json:"position"`
	Transcript string `json:"transcript"`
	OnTurn     string `json:"onturn"`
	Playing    bool   `json:"playing"`
	Black      int    `json:"black"`
	White      int    `json:"white"`
	Winner     string `json:"winner,omitempty"`
}

type luaShell struct {
	sc  *ShellController
	ctx context.Context
}

func getShell(L *lua.LState) *luaShell {
	shell := L.GetGlobal("reversi_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	ls, ok := ud.Value.(*luaShell)
	if !ok {
		panic("shellcontroller not right type")
	}
	return ls
}

// Exec runs any shell command. It returns the command's output, or nil
// and the error message.
func Exec(L *lua.LState) int {
	line := L.CheckString(1)
	ls := getShell(L)
	r, err := ls.sc.handle(ls.ctx, line)
	if err != nil {
		log.Err(err).Str("line", line).Msg("error-executing-script-command")
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LString(r.Message()))
	// return number of results pushed to stack.
	return 1
}

// Best searches the current position and returns the move and its score
// without playing it.
func Best(L *lua.LState) int {
	ls := getShell(L)
	args := []string{}
	if L.GetTop() >= 1 {
		args = append(args, L.CheckNumber(1).String())
	}
	m, err := ls.sc.search(ls.ctx, &shellcmd{cmd: "best", args: args, options: CmdOptions{}})
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LString(m.ShortDescription()))
	L.Push(lua.LNumber(m.Score()))
	return 2
}

// State returns a table describing the current game.
func State(L *lua.LState) int {
	ls := getShell(L)
	g := ls.sc.game
	if g == nil {
		L.Push(lua.LNil)
		return 1
	}
	res := g.Result()
	st := scriptState{
		Position:   position.ToPosition(g.Board()),
		Transcript: g.Transcript(),
		OnTurn:     g.PlayerOnTurn().String(),
		Playing:    g.Playing() == game.StatePlaying,
		Black:      res.Black,
		White:      res.White,
	}
	if w := g.Winner(); w != board.Empty {
		st.Winner = w.String()
	}
	data, err := json.Marshal(st)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	v, err := luajson.Decode(L, data)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(v)
	return 1
}

func (sc *ShellController) script(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)
	luajson.Preload(L)

	lsc := L.NewUserData()
	lsc.Value = &luaShell{sc: sc, ctx: ctx}

	L.SetGlobal("reversi_shell", lsc)
	L.SetGlobal("reversi_exec", L.NewFunction(Exec))
	L.SetGlobal("reversi_best", L.NewFunction(Best))
	L.SetGlobal("reversi_state", L.NewFunction(State))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("script-error")
		return nil, err
	}
	return nil, nil
}

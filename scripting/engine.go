// Package scripting runs combat rules written in Lua.
package scripting

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"

	"github.com/automoto/splatarena/config"
	"github.com/automoto/splatarena/weapons"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

//go:embed scripts/crit.lua
var defaultCritScript string

var ErrMissingFunction = errors.New("lua function not defined")

const critFunc = "roll_crit"

// Engine wraps a single gopher-lua VM. Single-goroutine access only (game loop).
type Engine struct {
	vm     *lua.LState
	rng    *rand.Rand
	chance float64
	log    *zap.Logger

	calls  int
	faults int
}

// NewEngine loads the crit rules from cfg.CritScript, or the embedded rules
// when the path is empty.
func NewEngine(cfg config.ScriptingConfig, rng *rand.Rand, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, rng: rng, chance: cfg.CritChance, log: log}
	vm.SetGlobal("roll", vm.NewFunction(e.luaRoll))

	var err error
	if cfg.CritScript != "" {
		err = vm.DoFile(cfg.CritScript)
	} else {
		err = vm.DoString(defaultCritScript)
	}
	if err != nil {
		vm.Close()
		return nil, fmt.Errorf("load crit script: %w", err)
	}
	if vm.GetGlobal(critFunc) == lua.LNil {
		vm.Close()
		return nil, fmt.Errorf("%w: %s", ErrMissingFunction, critFunc)
	}
	log.Debug("loaded lua script", zap.String("file", cfg.CritScript))
	return e, nil
}

func (e *Engine) luaRoll(L *lua.LState) int {
	L.Push(lua.LNumber(e.rng.Float64()))
	return 1
}

// RollCrit calls the Lua roll_crit function. Script errors count as no crit.
func (e *Engine) RollCrit(ctx weapons.CritContext) bool {
	e.calls++
	fn := e.vm.GetGlobal(critFunc)

	t := e.vm.NewTable()
	t.RawSetString("weapon", lua.LString(ctx.Weapon))
	t.RawSetString("kind", lua.LString(ctx.Kind.String()))
	t.RawSetString("distance", lua.LNumber(ctx.Distance))
	t.RawSetString("range", lua.LNumber(ctx.Range))
	t.RawSetString("damage", lua.LNumber(ctx.Damage))
	t.RawSetString("chance", lua.LNumber(e.chance))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.faults++
		e.log.Error("lua roll_crit error", zap.Error(err))
		return false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return lua.LVAsBool(result)
}

// Stats returns how often the rules ran and how often they failed.
func (e *Engine) Stats() (calls, faults int) { return e.calls, e.faults }

func (e *Engine) Close() {
	e.vm.Close()
}

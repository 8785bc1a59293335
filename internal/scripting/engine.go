// Package scripting hosts the Lua wave director. The split follows the
// rest of the engine's division of labor: Go owns mechanics (spawning,
// timers, entity state), Lua owns composition decisions (which enemies the
// next wave contains and where they enter).
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only (game
// loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all wave scripts from the given
// directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(filepath.Join(scriptsDir, "waves")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load wave scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// WaveContext holds pre-packed data for one wave decision.
type WaveContext struct {
	Wave        int
	FieldWidth  float64
	FieldHeight float64
	PlayerY     float64
}

// SpawnRequest is one enemy the script asked for.
type SpawnRequest struct {
	Type string
	X, Y float64
}

// NextWave calls the Lua next_wave function and returns the requested
// spawns. A missing function or a bad return yields nil; the caller falls
// back to its builtin wave table.
func (e *Engine) NextWave(ctx WaveContext) []SpawnRequest {
	fn := e.vm.GetGlobal("next_wave")
	if fn == lua.LNil {
		e.log.Error("lua function next_wave not found")
		return nil
	}

	t := e.vm.NewTable()
	t.RawSetString("wave", lua.LNumber(ctx.Wave))
	t.RawSetString("field_width", lua.LNumber(ctx.FieldWidth))
	t.RawSetString("field_height", lua.LNumber(ctx.FieldHeight))
	t.RawSetString("player_y", lua.LNumber(ctx.PlayerY))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua next_wave failed", zap.Error(err))
		return nil
	}

	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	list, ok := ret.(*lua.LTable)
	if !ok {
		e.log.Error("lua next_wave returned non-table", zap.String("got", ret.Type().String()))
		return nil
	}

	var spawns []SpawnRequest
	list.ForEach(func(_, v lua.LValue) {
		entry, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		spawns = append(spawns, SpawnRequest{
			Type: lua.LVAsString(entry.RawGetString("type")),
			X:    float64(lua.LVAsNumber(entry.RawGetString("x"))),
			Y:    float64(lua.LVAsNumber(entry.RawGetString("y"))),
		})
	})
	return spawns
}

// Close shuts the VM down.
func (e *Engine) Close() {
	e.vm.Close()
}

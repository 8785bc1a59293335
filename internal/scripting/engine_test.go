package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	waves := filepath.Join(dir, "waves")
	if err := os.MkdirAll(waves, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(waves, "test.lua"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestNextWaveParsesSpawns(t *testing.T) {
	dir := writeScript(t, `
function next_wave(ctx)
    return {
        { type = "drone", x = ctx.field_width, y = 100 },
        { type = "turret", x = ctx.field_width + 60, y = ctx.player_y },
    }
end
`)
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	spawns := e.NextWave(WaveContext{Wave: 3, FieldWidth: 800, FieldHeight: 600, PlayerY: 300})
	if len(spawns) != 2 {
		t.Fatalf("got %d spawns, want 2", len(spawns))
	}
	if spawns[0].Type != "drone" || spawns[0].X != 800 || spawns[0].Y != 100 {
		t.Fatalf("spawns[0] = %+v", spawns[0])
	}
	if spawns[1].Type != "turret" || spawns[1].X != 860 || spawns[1].Y != 300 {
		t.Fatalf("spawns[1] = %+v", spawns[1])
	}
}

func TestNextWaveSeesWaveNumber(t *testing.T) {
	dir := writeScript(t, `
function next_wave(ctx)
    if ctx.wave % 2 == 0 then
        return { { type = "boss", x = 700, y = 200 } }
    end
    return { { type = "scout", x = 700, y = 200 } }
end
`)
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	if got := e.NextWave(WaveContext{Wave: 2})[0].Type; got != "boss" {
		t.Fatalf("even wave type = %q, want boss", got)
	}
	if got := e.NextWave(WaveContext{Wave: 3})[0].Type; got != "scout" {
		t.Fatalf("odd wave type = %q, want scout", got)
	}
}

func TestMissingFunctionYieldsNil(t *testing.T) {
	dir := writeScript(t, `-- no next_wave defined`)
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	if spawns := e.NextWave(WaveContext{Wave: 1}); spawns != nil {
		t.Fatalf("spawns = %+v, want nil for missing next_wave", spawns)
	}
}

func TestScriptErrorYieldsNil(t *testing.T) {
	dir := writeScript(t, `
function next_wave(ctx)
    error("wave refused")
end
`)
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	if spawns := e.NextWave(WaveContext{Wave: 1}); spawns != nil {
		t.Fatalf("spawns = %+v, want nil when the script errors", spawns)
	}
}

func TestMissingScriptsDirIsFine(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "nope"), zap.NewNop())
	if err != nil {
		t.Fatalf("missing scripts dir should not error: %v", err)
	}
	defer e.Close()

	if spawns := e.NextWave(WaveContext{Wave: 1}); spawns != nil {
		t.Fatalf("spawns = %+v, want nil with no scripts loaded", spawns)
	}
}

func TestBadReturnYieldsNil(t *testing.T) {
	dir := writeScript(t, `
function next_wave(ctx)
    return "not a table"
end
`)
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	if spawns := e.NextWave(WaveContext{Wave: 1}); spawns != nil {
		t.Fatalf("spawns = %+v, want nil for non-table return", spawns)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/scrollfall/server/internal/config"
	corevent "github.com/scrollfall/server/internal/core/event"
	coresys "github.com/scrollfall/server/internal/core/system"
	"github.com/scrollfall/server/internal/data"
	"github.com/scrollfall/server/internal/effect"
	"github.com/scrollfall/server/internal/event"
	"github.com/scrollfall/server/internal/journal"
	gonet "github.com/scrollfall/server/internal/net"
	"github.com/scrollfall/server/internal/scripting"
	"github.com/scrollfall/server/internal/system"
	"github.com/scrollfall/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m           scrollfall  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      headless arcade simulation           \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s\n\n", name)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ──────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/scrollfall.toml"
	if p := os.Getenv("SCROLLFALL_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.Defaults()
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. Load archetype tables
	printSection("data")
	tables, err := data.LoadTables(
		filepath.Join(cfg.Sim.DataDir, "enemy_list.yaml"),
		filepath.Join(cfg.Sim.DataDir, "bullet_list.yaml"),
	)
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}
	printStat("enemy archetypes", tables.EnemyCount())
	printStat("bullet archetypes", tables.BulletCount())

	// 4. Lua wave director
	luaEngine, err := scripting.NewEngine(cfg.Sim.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("lua scripts loaded")
	fmt.Println()

	// 5. World state, event bus, effect scheduler
	seed := cfg.Server.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	bounds := world.Bounds{Width: cfg.Field.Width, Height: cfg.Field.Height}

	jnl := journal.New()
	state := world.NewState(tables, jnl, log)
	bus := corevent.NewBus(log)
	scheduler := effect.NewScheduler(bus, log)
	effect.RegisterReactions(scheduler, state, bus, log)

	state.SetPlayer(world.Player{
		Present: true,
		X:       bounds.Width * 0.1,
		Y:       bounds.Height/2 - 16,
		Width:   40,
		Height:  32,
		HP:      100,
		MaxHP:   100,
	})

	// 6. Observer feed
	printSection("observer feed")
	var hub *gonet.Hub
	if cfg.Feed.Enabled {
		hub = gonet.NewHub(log)
		mux := http.NewServeMux()
		mux.Handle("/feed", hub)
		srv := &http.Server{Addr: cfg.Feed.BindAddress, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("feed server stopped", zap.Error(err))
			}
		}()
		defer srv.Close()
		printOK(fmt.Sprintf("listening on ws://%s/feed", cfg.Feed.BindAddress))
	} else {
		printOK("disabled")
	}
	fmt.Println()

	// 7. Register systems in phase order
	runner := coresys.NewRunner()
	runner.Register(system.NewMovementSystem(state, bus, bounds, rng, log))
	runner.Register(system.NewBulletSystem(state, bus, bounds, log))
	runner.Register(system.NewAISystem(state, bus, bounds, rng, log))
	runner.Register(system.NewCollisionSystem(state, bus, log))
	if cfg.Sim.Waves {
		runner.Register(system.NewSpawnSystem(state, bus, luaEngine, bounds, rng, log))
	}
	runner.Register(gonet.NewFeedSystem(state, hub, cfg.Feed.SnapshotEvery, log))
	runner.Register(system.NewCleanupSystem(state, log))

	// Log hooks for the events UI/audio collaborators would subscribe to.
	corevent.Subscribe(bus, func(ev event.WaveStarted) {
		log.Info("wave started", zap.Int("wave", ev.Number), zap.Int("enemies", ev.Enemies))
	})
	corevent.Subscribe(bus, func(ev event.EnemyDied) {
		log.Debug("enemy down", zap.Stringer("id", ev.ID), zap.String("type", ev.Type))
	})
	corevent.Subscribe(bus, func(ev event.BossPhaseChanged) {
		log.Info("boss phase transition", zap.Stringer("id", ev.ID), zap.Int("phase", ev.Phase))
	})
	corevent.Subscribe(bus, func(event.PlayerDied) {
		log.Info("player down, respawning")
		state.SetPlayer(world.Player{
			Present: true,
			X:       bounds.Width * 0.1,
			Y:       bounds.Height/2 - 16,
			Width:   40,
			Height:  32,
			HP:      100,
			MaxHP:   100,
		})
	})

	scheduler.Start()
	defer scheduler.Stop()

	// 8. Game loop
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(cfg.Sim.TickRate)
	defer ticker.Stop()

	printReady(fmt.Sprintf("simulation running (tick: %s, seed: %d)", cfg.Sim.TickRate, seed))
	fmt.Println()

	elapsed := 0.0
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil
		case <-ticker.C:
			// The player stands in for input capture: a slow vertical
			// patrol so AI tracking has something to chase.
			elapsed += float64(cfg.Sim.TickRate) / float64(time.Millisecond)
			if p := state.PlayerSnapshot(); p != nil {
				y := bounds.Height/2 + math.Sin(elapsed/2000*2*math.Pi)*bounds.Height/4
				state.SetPlayerPosition(p.X, y-p.Height/2)
			}
			runner.Tick(cfg.Sim.TickRate)
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

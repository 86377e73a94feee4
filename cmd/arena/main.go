package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/splatarena/components"
	"github.com/automoto/splatarena/config"
	"github.com/automoto/splatarena/game"
	"github.com/automoto/splatarena/hud"
	"github.com/automoto/splatarena/level"
	"github.com/automoto/splatarena/logging"
	"github.com/automoto/splatarena/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "arena:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Config file (.yaml or .toml); empty uses the embedded defaults")
	seed := flag.Int64("seed", 1, "Random seed for spawns, spread and the autopilot")
	ticks := flag.Uint64("ticks", 0, "Stop after this many ticks (0 = run until interrupted)")
	realtime := flag.Bool("realtime", false, "Tick on the wall clock instead of as fast as possible")
	telemetryDir := flag.String("telemetry", "", "Write frame statistics CSVs to this directory")
	logLevel := flag.String("log-level", "", "Override the configured log level")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *telemetryDir != "" {
		cfg.Telemetry.Dir = *telemetryDir
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	out, err := telemetry.NewOutputManager(cfg.Telemetry.Dir)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return err
	}

	rec := &hud.Recorder{}
	g, err := game.New(game.Options{
		Config: cfg,
		Log:    log,
		Seed:   *seed,
		Input:  game.NewAutopilot(*seed),
		HUD:    rec,
	})
	if err != nil {
		return err
	}
	defer g.Close()

	g.OnDeath(func(n components.DeathNotice) {
		err := out.WriteKill(telemetry.KillRecord{
			Tick:     n.Tick,
			Time:     n.Time,
			EventID:  uuid.NewString(),
			Killer:   n.KillerName,
			Victim:   n.VictimName,
			Weapon:   n.Weapon,
			Critical: n.Critical,
		})
		if err != nil {
			log.Warn("kill record dropped", zap.Error(err))
		}
	})

	var stats telemetry.Collector
	every := max(cfg.Telemetry.EveryTicks, 1)
	loop := &game.Loop{
		Game:     g,
		MaxTicks: *ticks,
		OnTick: func(s telemetry.FrameSample) {
			stats.Record(s)
			if stats.Ticks() < every {
				return
			}
			if err := out.WriteWindow(stats.Flush()); err != nil {
				log.Warn("telemetry window dropped", zap.Error(err))
			}
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("arena starting",
		zap.String("session", g.SessionID().String()),
		zap.Int64("seed", *seed),
		zap.Bool("realtime", *realtime),
		zap.String("telemetry", out.Dir()))

	if *realtime || *ticks == 0 {
		err = loop.Run(ctx)
	} else {
		err = loop.RunFixed(ctx, int(*ticks), 1/float64(cfg.Loop.TickRate))
	}
	if stats.Ticks() > 0 {
		if werr := out.WriteWindow(stats.Flush()); werr != nil {
			log.Warn("telemetry window dropped", zap.Error(werr))
		}
	}

	m := g.Match()
	fields := []zap.Field{
		zap.Uint64("tick", g.Tick()),
		zap.Float64("time", g.Now()),
		zap.Int("score_a", m.Score(level.TeamA)),
		zap.Int("score_b", m.Score(level.TeamB)),
	}
	if snap, ok := rec.Last(); ok {
		fields = append(fields, zap.Int("hud_health", snap.Health), zap.String("hud_ammo", snap.AmmoText()))
	}
	log.Info("arena stopped", fields...)
	return err
}

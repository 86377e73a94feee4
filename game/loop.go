package game

import (
	"context"
	"time"

	"github.com/automoto/splatarena/telemetry"
	"go.uber.org/zap"
)

// Loop drives a Game from a ticker on the calling goroutine. The game itself
// is not safe for concurrent use, so nothing else may touch it while Run is
// active.
type Loop struct {
	Game *Game
	Rate int // ticks per second; 0 uses the configured tick rate

	// MaxTicks stops the loop once the game reaches this tick; 0 never stops.
	MaxTicks uint64

	// OnTick receives the stats of every tick.
	OnTick func(telemetry.FrameSample)
}

// Run ticks until ctx is cancelled or MaxTicks is reached. The frame delta is
// the measured wall time between ticks.
func (l *Loop) Run(ctx context.Context) error {
	rate := l.Rate
	if rate <= 0 {
		rate = l.Game.cfg.Loop.TickRate
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	l.Game.log.Info("loop started", zap.Int("rate", rate))
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			l.Game.log.Info("loop stopped", zap.Uint64("tick", l.Game.Tick()))
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if l.step(dt) {
				return nil
			}
		}
	}
}

// RunFixed runs n ticks of dt back to back, as fast as possible, stopping
// early when ctx is cancelled.
func (l *Loop) RunFixed(ctx context.Context, n int, dt float64) error {
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			return nil
		}
		if l.step(dt) {
			return nil
		}
	}
	return nil
}

func (l *Loop) step(dt float64) (done bool) {
	start := time.Now()
	l.Game.Update(dt)
	if l.OnTick != nil {
		l.OnTick(l.Game.Sample(time.Since(start)))
	}
	return l.MaxTicks > 0 && l.Game.Tick() >= l.MaxTicks
}

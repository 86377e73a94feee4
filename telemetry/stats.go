// Package telemetry aggregates per-tick simulation statistics into windows
// and writes them as CSV for offline inspection.
package telemetry

import (
	"time"
)

// FrameSample is what one tick reports.
type FrameSample struct {
	Tick          uint64
	Time          float64
	Elapsed       time.Duration
	PhysicsSteps  int
	Bodies        int
	Bursts        int
	Decals        int
	EvictedBursts int
	EvictedDecals int
	Deferred      int
	PlayersAlive  int
	TargetsAlive  int
	Kills         int
	ScoreA        int
	ScoreB        int
}

// WindowStats summarises a window of ticks. Counters are end-of-window
// values; durations are per tick.
type WindowStats struct {
	WindowEnd     uint64  `csv:"window_end"`
	SimTime       float64 `csv:"sim_time"`
	Ticks         int     `csv:"ticks"`
	PhysicsSteps  int     `csv:"physics_steps"`
	MeanTickMs    float64 `csv:"mean_tick_ms"`
	MaxTickMs     float64 `csv:"max_tick_ms"`
	Bodies        int     `csv:"bodies"`
	Bursts        int     `csv:"bursts"`
	Decals        int     `csv:"decals"`
	EvictedBursts int     `csv:"evicted_bursts"`
	EvictedDecals int     `csv:"evicted_decals"`
	Deferred      int     `csv:"deferred"`
	PlayersAlive  int     `csv:"players_alive"`
	TargetsAlive  int     `csv:"targets_alive"`
	Kills         int     `csv:"kills"`
	ScoreA        int     `csv:"score_a"`
	ScoreB        int     `csv:"score_b"`
}

// Collector accumulates samples until Flush.
type Collector struct {
	ticks int
	steps int
	total time.Duration
	peak  time.Duration
	last  FrameSample
}

func (c *Collector) Record(s FrameSample) {
	c.ticks++
	c.steps += s.PhysicsSteps
	c.total += s.Elapsed
	c.peak = max(c.peak, s.Elapsed)
	c.last = s
}

// Ticks is the number of samples since the last flush.
func (c *Collector) Ticks() int { return c.ticks }

// Flush returns the window and resets the collector.
func (c *Collector) Flush() WindowStats {
	w := WindowStats{
		WindowEnd:     c.last.Tick,
		SimTime:       c.last.Time,
		Ticks:         c.ticks,
		PhysicsSteps:  c.steps,
		MaxTickMs:     ms(c.peak),
		Bodies:        c.last.Bodies,
		Bursts:        c.last.Bursts,
		Decals:        c.last.Decals,
		EvictedBursts: c.last.EvictedBursts,
		EvictedDecals: c.last.EvictedDecals,
		Deferred:      c.last.Deferred,
		PlayersAlive:  c.last.PlayersAlive,
		TargetsAlive:  c.last.TargetsAlive,
		Kills:         c.last.Kills,
		ScoreA:        c.last.ScoreA,
		ScoreB:        c.last.ScoreB,
	}
	if c.ticks > 0 {
		w.MeanTickMs = ms(c.total) / float64(c.ticks)
	}
	*c = Collector{}
	return w
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

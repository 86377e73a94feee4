package game

import (
	"math/rand"

	"github.com/automoto/splatarena/components"
	cfg "github.com/automoto/splatarena/config"
)

// Autopilot is a deterministic input source for headless runs. Each player
// follows short random plans: walk or strafe, turn, fire in bursts and
// sometimes jump, reload or switch weapons.
type Autopilot struct {
	rng   *rand.Rand
	plans map[int]*plan
}

type plan struct {
	start, until uint64
	intent       components.Intent
	fire         bool
	jump         bool
	cycle        bool
	reload       bool
}

func NewAutopilot(seed int64) *Autopilot {
	return &Autopilot{
		rng:   rand.New(rand.NewSource(seed)),
		plans: make(map[int]*plan),
	}
}

func (a *Autopilot) Intent(player int, tick uint64) components.Intent {
	p := a.plans[player]
	if p == nil || tick >= p.until {
		p = a.next(tick)
		a.plans[player] = p
	}

	in := p.intent
	first := tick == p.start
	// Pulse the trigger so semi-automatic weapons fire too.
	in.Actions[cfg.ActionFire] = p.fire && tick%8 < 4
	in.Actions[cfg.ActionJump] = p.jump && first
	in.Actions[cfg.ActionNextWeapon] = p.cycle && first
	in.Actions[cfg.ActionReload] = p.reload && first
	return in
}

func (a *Autopilot) next(tick uint64) *plan {
	r := a.rng
	p := &plan{
		start:  tick,
		until:  tick + 30 + uint64(r.Intn(90)),
		fire:   r.Float64() < 0.6,
		jump:   r.Float64() < 0.2,
		cycle:  r.Float64() < 0.15,
		reload: r.Float64() < 0.1,
	}
	moves := []cfg.ActionID{cfg.ActionForward, cfg.ActionBack, cfg.ActionLeft, cfg.ActionRight}
	p.intent.Actions[moves[r.Intn(len(moves))]] = true
	if r.Float64() < 0.5 {
		p.intent.Actions[cfg.ActionForward] = true
	}
	p.intent.Actions[cfg.ActionSprint] = r.Float64() < 0.3
	p.intent.LookDX = (r.Float64()*2 - 1) * 20
	p.intent.LookDY = (r.Float64()*2 - 1) * 2
	return p
}

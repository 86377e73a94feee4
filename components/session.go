package components

import (
	"math/rand"

	"github.com/automoto/splatarena/assets"
	cfg "github.com/automoto/splatarena/config"
	"github.com/automoto/splatarena/weapons"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
	"go.uber.org/zap"
)

// SessionData carries the per-game collaborators systems share. Singleton.
type SessionData struct {
	ID     uuid.UUID
	Config *cfg.Config
	Log    *zap.Logger
	RNG    *rand.Rand
	Crits  weapons.CritRoller // nil disables criticals
	Assets *assets.Library

	DeathListeners []DeathListener
}

var Session = donburi.NewComponentType[SessionData]()

package components

import (
	"github.com/automoto/splatarena/level"
	"github.com/automoto/splatarena/physics"
	"github.com/yohamta/donburi"
)

type LevelData struct {
	Layout *level.Layout
	Bodies []*physics.Body
}

var Level = donburi.NewComponentType[LevelData]()

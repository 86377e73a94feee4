package components

import "github.com/yohamta/donburi"

type HealthData struct {
	Current int
	Max     int
}

// Alive reports whether the entity still has health left.
func (h *HealthData) Alive() bool { return h.Current > 0 }

var Health = donburi.NewComponentType[HealthData]()

package components

import (
	"github.com/automoto/splatarena/assets"
	"github.com/automoto/splatarena/deferred"
	"github.com/yohamta/donburi"
)

// CameraData is the first-person view attached to a player. Pitch only
// rotates the camera, never the body.
type CameraData struct {
	Pitch     float64
	EyeHeight float64

	// Mount holds the equipped weapon's view model.
	Mount       assets.AttachPoint
	MuzzleFlash *assets.Visual
	FlashHide   deferred.ID
}

var Camera = donburi.NewComponentType[CameraData]()

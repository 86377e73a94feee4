package tags

import "github.com/yohamta/donburi"

var (
	Player  = donburi.NewTag().SetName("Player")
	Target  = donburi.NewTag().SetName("Target")
	Effect  = donburi.NewTag().SetName("Effect")
	Session = donburi.NewTag().SetName("Session")
)

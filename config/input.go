package config

// ActionID represents a logical game action
type ActionID int

const (
	ActionNone ActionID = iota
	ActionForward
	ActionBack
	ActionLeft
	ActionRight
	ActionSprint
	ActionJump
	ActionFire
	ActionReload
	ActionNextWeapon
	ActionPrevWeapon
	ActionCount // Must be last - used for array sizing
)

var actionNames = [ActionCount]string{
	ActionNone:       "none",
	ActionForward:    "forward",
	ActionBack:       "back",
	ActionLeft:       "left",
	ActionRight:      "right",
	ActionSprint:     "sprint",
	ActionJump:       "jump",
	ActionFire:       "fire",
	ActionReload:     "reload",
	ActionNextWeapon: "next_weapon",
	ActionPrevWeapon: "prev_weapon",
}

func (a ActionID) String() string {
	if a < 0 || a >= ActionCount {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction resolves an action by its config name.
func ParseAction(name string) (ActionID, bool) {
	for i, n := range actionNames {
		if n == name {
			return ActionID(i), true
		}
	}
	return ActionNone, false
}

package components

import (
	"github.com/automoto/splatarena/level"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
)

// KillEvent is one kill feed line. Lines are removed by a deferred action
// once their display lifetime ends.
type KillEvent struct {
	ID     uuid.UUID
	Text   string
	Killer string
	Victim string
	Weapon string
	At     float64
}

// MatchData stores team scores and the kill feed.
// This is a singleton component - only one match exists at a time.
type MatchData struct {
	Scores  [3]int // indexed by level.Team
	Kills   int
	Feed    []KillEvent
	FeedMax int

	// Lead is the leading team as of the last UpdateMatch.
	Lead level.Team
}

var Match = donburi.NewComponentType[MatchData]()

// AddKill credits a kill to team. Kills by TeamNone only count towards the total.
func (m *MatchData) AddKill(team level.Team) {
	m.Kills++
	if team == level.TeamA || team == level.TeamB {
		m.Scores[team]++
	}
}

func (m *MatchData) Score(team level.Team) int {
	if team < 0 || int(team) >= len(m.Scores) {
		return 0
	}
	return m.Scores[team]
}

// Leader returns the team with the higher score, TeamNone on a tie.
func (m *MatchData) Leader() level.Team {
	a, b := m.Scores[level.TeamA], m.Scores[level.TeamB]
	switch {
	case a > b:
		return level.TeamA
	case b > a:
		return level.TeamB
	}
	return level.TeamNone
}

// Push appends a kill feed line, dropping the oldest beyond FeedMax.
// It returns the dropped lines.
func (m *MatchData) Push(ev KillEvent) []KillEvent {
	m.Feed = append(m.Feed, ev)
	if m.FeedMax <= 0 || len(m.Feed) <= m.FeedMax {
		return nil
	}
	n := len(m.Feed) - m.FeedMax
	dropped := append([]KillEvent(nil), m.Feed[:n]...)
	m.Feed = append(m.Feed[:0], m.Feed[n:]...)
	return dropped
}

// Remove deletes the line with id. Removing an unknown id is a no-op.
func (m *MatchData) Remove(id uuid.UUID) bool {
	for i, ev := range m.Feed {
		if ev.ID == id {
			m.Feed = append(m.Feed[:i], m.Feed[i+1:]...)
			return true
		}
	}
	return false
}

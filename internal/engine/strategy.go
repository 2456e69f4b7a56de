package engine

import (
	"encoding/json"
	"fmt"

	bt "breakthrough/internal/breakthrough"
)

// Strategy is the closed set of attacker modes. Exactly one is chosen per
// Attacker turn.
type Strategy uint8

const (
	InstantCapture Strategy = iota
	LastStand
	WallOfDeath
	TotalSurround
	CoordinatedNet
	ForceTrap
	CutEscape
	TerritoryControl

	numStrategies
)

var strategyNames = [numStrategies]string{
	InstantCapture:   "INSTANT_CAPTURE",
	LastStand:        "LAST_STAND",
	WallOfDeath:      "WALL_OF_DEATH",
	TotalSurround:    "TOTAL_SURROUND",
	CoordinatedNet:   "COORDINATED_NET",
	ForceTrap:        "FORCE_TRAP",
	CutEscape:        "CUT_ESCAPE",
	TerritoryControl: "TERRITORY_CONTROL",
}

func (s Strategy) String() string {
	if s < numStrategies {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

func (s Strategy) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Strategy) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, ok := ParseStrategy(name)
	if !ok {
		return fmt.Errorf("unknown strategy %q", name)
	}
	*s = v
	return nil
}

func ParseStrategy(name string) (Strategy, bool) {
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), true
		}
	}
	return 0, false
}

// Strategies lists every strategy in selection priority order.
func Strategies() []Strategy {
	out := make([]Strategy, numStrategies)
	for i := range out {
		out[i] = Strategy(i)
	}
	return out
}

// Thresholds of the selection chain, in ranks from the Defender's goal.
const (
	lastStandDistance      = 1
	wallOfDeathDistance    = 2
	coordinatedNetDistance = 3

	surroundReach    = 2 // manhattan reach for a neighbour square to count as held
	surroundRequired = 3 // of the four diagonal neighbours
	trapMinRank      = 3
	escapeBlockReach = 1
	maxEscapeRoutes  = 2
)

// SelectStrategy walks the priority chain; the first rule that matches wins.
// It depends only on its argument.
func SelectStrategy(a Analysis) Strategy {
	if len(a.CaptureOpportunities) > 0 {
		return InstantCapture
	}
	def := a.DefenderPosition
	dist := def.Rank - bt.GoalRank

	switch {
	case dist == lastStandDistance:
		return LastStand
	case dist <= wallOfDeathDistance:
		return WallOfDeath
	case canSurround(def, a.Attackers):
		return TotalSurround
	case dist <= coordinatedNetDistance:
		return CoordinatedNet
	case canForceIntoTrap(def):
		return ForceTrap
	case countEscapeRoutes(def, a.Attackers) <= maxEscapeRoutes:
		return CutEscape
	}
	return TerritoryControl
}

// canSurround: at least three of the Defender's diagonal neighbours are within
// reach of some Attacker. Off-board neighbours are counted like any other.
func canSurround(def bt.Position, attackers []bt.Position) bool {
	held := 0
	for _, sq := range bt.DiagonalSteps(def) {
		for _, p := range attackers {
			if bt.Manhattan(sq, p) <= surroundReach {
				held++
				break
			}
		}
	}
	return held >= surroundRequired
}

// canForceIntoTrap: Defender hugging an edge and still far from its goal.
func canForceIntoTrap(def bt.Position) bool {
	return (def.File <= 2 || def.File >= 5) && def.Rank >= trapMinRank
}

// countEscapeRoutes counts the two-step squares toward the goal that no
// Attacker stands on or next to.
func countEscapeRoutes(def bt.Position, attackers []bt.Position) int {
	routes := 0
	for _, df := range [3]int{-2, 0, +2} {
		esc := def.Add(df, -2)
		if esc.File < 0 || esc.File >= bt.Files || esc.Rank < 0 {
			continue
		}
		blocked := false
		for _, p := range attackers {
			if bt.Manhattan(esc, p) <= escapeBlockReach {
				blocked = true
				break
			}
		}
		if !blocked {
			routes++
		}
	}
	return routes
}

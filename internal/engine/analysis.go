package engine

import (
	"math"
	"sort"

	bt "breakthrough/internal/breakthrough"
)

// BlockingPosition is a square from which an Attacker could cover one of the
// Defender's next destinations.
type BlockingPosition struct {
	Position     bt.Position `json:"position"`
	BlocksSquare bt.Position `json:"blocks_square"`
	Priority     float64     `json:"priority"`
}

// Analysis is the per-turn battlefield picture. It is rebuilt from scratch for
// every Attacker decision and never kept.
type Analysis struct {
	DefenderPosition     bt.Position        `json:"defender_position"`
	DefenderThreats      []bt.Position      `json:"defender_threats"`
	FormationGaps        []bt.Position      `json:"formation_gaps"`
	FormationCenter      bt.Position        `json:"formation_center"`
	CaptureOpportunities []int              `json:"capture_opportunities"` // attacker slice indices
	BlockingPositions    []BlockingPosition `json:"blocking_positions"`
	Attackers            []bt.Position      `json:"attackers"`
	Strategy             Strategy           `json:"strategy"`
}

var defaultFormationCenter = bt.Pos(4, 4)

// Analyze derives the tactical features of b and the strategy they select.
func Analyze(b *bt.Board) Analysis {
	a := Analysis{
		DefenderPosition: b.Defender.Pos,
		DefenderThreats:  b.DefenderMoves(),
		Attackers:        b.AttackerPositions(),
	}
	a.FormationGaps = formationGaps(a.Attackers)
	a.FormationCenter = formationCenter(a.Attackers)
	for i := range b.Attackers {
		if _, ok := captureStep(b, i); ok {
			a.CaptureOpportunities = append(a.CaptureOpportunities, i)
		}
	}
	a.BlockingPositions = blockingPositions(a.DefenderPosition, a.DefenderThreats)
	a.Strategy = SelectStrategy(a)
	return a
}

// captureStep reports the forward diagonal of attacker i that lands on the Defender.
func captureStep(b *bt.Board, i int) (bt.Position, bool) {
	if b.Captured || i < 0 || i >= len(b.Attackers) {
		return bt.Position{}, false
	}
	for _, to := range bt.ForwardSteps(b.Attackers[i].Pos) {
		if to == b.Defender.Pos && bt.IsDarkSquare(to) {
			return to, true
		}
	}
	return bt.Position{}, false
}

// formationGaps lists, per occupied rank, the empty files strictly between the
// leftmost and rightmost Attacker on that rank.
func formationGaps(attackers []bt.Position) []bt.Position {
	var gaps []bt.Position
	for r := 0; r < bt.Ranks; r++ {
		minF, maxF := bt.Files, -1
		occupied := make(map[int]bool)
		for _, p := range attackers {
			if p.Rank != r {
				continue
			}
			occupied[p.File] = true
			if p.File < minF {
				minF = p.File
			}
			if p.File > maxF {
				maxF = p.File
			}
		}
		for f := minF + 1; f < maxF; f++ {
			if !occupied[f] {
				gaps = append(gaps, bt.Pos(f, r))
			}
		}
	}
	return gaps
}

func formationCenter(attackers []bt.Position) bt.Position {
	if len(attackers) == 0 {
		return defaultFormationCenter
	}
	sumF, sumR := 0, 0
	for _, p := range attackers {
		sumF += p.File
		sumR += p.Rank
	}
	n := float64(len(attackers))
	return bt.Pos(int(math.Round(float64(sumF)/n)), int(math.Round(float64(sumR)/n)))
}

// blockingPositions collects, for each Defender destination, the three
// in-bounds squares one rank below it, highest priority first.
func blockingPositions(def bt.Position, threats []bt.Position) []BlockingPosition {
	var out []BlockingPosition
	for _, t := range threats {
		for _, df := range [3]int{-1, +1, 0} {
			p := t.Add(df, +1)
			if !bt.OnBoard(p) {
				continue
			}
			out = append(out, BlockingPosition{
				Position:     p,
				BlocksSquare: t,
				Priority:     blockingPriority(p, def),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

func blockingPriority(p, def bt.Position) float64 {
	prio := float64(10 - bt.Manhattan(p, def))
	if p.Rank > def.Rank {
		prio += 5
	}
	prio += 4 - math.Abs(float64(p.File)-3.5)
	return prio
}

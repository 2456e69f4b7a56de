package engine

import (
	bt "breakthrough/internal/breakthrough"
)

// Score functions rate one forward candidate `to` for the Attacker at index i.
// They read only the board; ties keep the earlier (left) candidate.

// Same-rank neighbours make a wall.
const (
	wallSameRankBonus = 5
	wallNearFileBonus = 3
	wallNearFiles     = 2
)

func scoreWall(b *bt.Board, i int, to bt.Position) int {
	score := 0
	for j, o := range b.Attackers {
		if o.Pos.Rank != to.Rank {
			continue
		}
		if j != i {
			score += wallSameRankBonus
		}
		if bt.Abs(o.Pos.File-to.File) <= wallNearFiles {
			score += wallNearFileBonus
		}
	}
	return score
}

const (
	surroundBase          = 5
	surroundIdealDistance = 2
	surroundIdealBonus    = 3
	surroundAheadBonus    = 2
)

// surroundEffectiveness favours squares close to the Defender, exactly two
// steps away, and between the Defender and its goal.
func surroundEffectiveness(to, def bt.Position) int {
	d := bt.Manhattan(to, def)
	score := surroundBase - d
	if d == surroundIdealDistance {
		score += surroundIdealBonus
	}
	if to.Rank < def.Rank {
		score += surroundAheadBonus
	}
	return score
}

func scoreSurround(b *bt.Board, _ int, to bt.Position) int {
	return surroundEffectiveness(to, b.Defender.Pos)
}

const netInPathBonus = 3

func scoreNet(b *bt.Board, _ int, to bt.Position) int {
	def := b.Defender.Pos
	score := surroundEffectiveness(to, def)
	if bt.Abs(to.File-def.File) <= 1 {
		score += netInPathBonus
	}
	return score
}

const (
	trapBase       = 8
	trapLevelBonus = 5
)

func scoreTrap(b *bt.Board, _ int, to bt.Position) int {
	def := b.Defender.Pos
	score := trapBase - bt.Manhattan(to, def)
	if to.Rank >= def.Rank {
		score += trapLevelBonus
	}
	return score
}

const (
	cutSideBonus    = 4
	cutForwardBonus = 2
	cutLeftMaxFile  = 3
	cutRightMinFile = 4
)

// scoreCut rewards stepping to the side of the Defender's nearer board edge.
func scoreCut(b *bt.Board, _ int, to bt.Position) int {
	def := b.Defender.Pos
	score := 0
	if to.File < def.File && def.File <= cutLeftMaxFile {
		score += cutSideBonus
	}
	if to.File > def.File && def.File >= cutRightMinFile {
		score += cutSideBonus
	}
	return score + cutForwardBonus
}

const (
	territoryAdvanceBonus   = 3
	territoryFormationBonus = 2
	territoryFormationReach = 3
	territoryCenterBonus    = 2
	centerFileMin           = 2
	centerFileMax           = 5
)

func scoreTerritory(b *bt.Board, i int, to bt.Position) int {
	score := territoryAdvanceBonus
	for j, o := range b.Attackers {
		if j == i {
			continue
		}
		if bt.Manhattan(to, o.Pos) <= territoryFormationReach {
			score += territoryFormationBonus
		}
	}
	if to.File >= centerFileMin && to.File <= centerFileMax {
		score += territoryCenterBonus
	}
	return score
}

package breakthrough

// Diagonal steps as (dfile, drank). Attackers only ever use the forward pair.
var (
	forwardDirs  = [2][2]int{{-1, +1}, {+1, +1}}
	diagonalDirs = [4][2]int{{-1, -1}, {+1, -1}, {-1, +1}, {+1, +1}}
)

// ForwardSteps lists an Attacker's two forward-diagonal squares, left first.
// Squares may be off board; callers filter with CanMove or OnBoard.
func ForwardSteps(p Position) [2]Position {
	return [2]Position{
		p.Add(forwardDirs[0][0], forwardDirs[0][1]),
		p.Add(forwardDirs[1][0], forwardDirs[1][1]),
	}
}

// DiagonalSteps lists the four diagonal neighbours: the two toward rank 0 first.
func DiagonalSteps(p Position) [4]Position {
	var out [4]Position
	for i, d := range diagonalDirs {
		out[i] = p.Add(d[0], d[1])
	}
	return out
}

func Manhattan(a, b Position) int {
	return Abs(a.File-b.File) + Abs(a.Rank-b.Rank)
}

func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

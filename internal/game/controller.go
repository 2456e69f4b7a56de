package game

import (
	"log"
	"time"

	bt "breakthrough/internal/breakthrough"
	"breakthrough/internal/engine"
)

// Controller runs one game: the Defender's moves come in through
// SubmitDefenderMove, the host calls AdvanceAttacker once per Attacker turn
// on its own schedule. Turn order is enforced by the phase, not by locks; a
// Controller must be driven from one goroutine at a time.
type Controller struct {
	eng    *engine.Engine
	emit   func(Event)
	logger *log.Logger

	board     *bt.Board
	phase     Phase
	outcome   Outcome
	cursor    int
	history   []Ply
	startedAt time.Time
}

// NewController starts a game from the standard layout. emit may be nil.
func NewController(eng *engine.Engine, emit func(Event)) *Controller {
	return NewControllerFrom(bt.NewInitialBoard(), bt.Defender, eng, emit)
}

// NewControllerFrom starts a game from b with turn to move. A board that is
// already decided starts in GameOver. Restart always goes back to the standard
// layout, not to b.
func NewControllerFrom(b *bt.Board, turn bt.Side, eng *engine.Engine, emit func(Event)) *Controller {
	if eng == nil {
		eng = engine.NewEngine()
	}
	if emit == nil {
		emit = func(Event) {}
	}
	c := &Controller{eng: eng, emit: emit}
	phase := DefenderTurn
	if turn == bt.Attacker {
		phase = AttackerTurn
	}
	c.reset(b.Clone(), phase)
	return c
}

// SetLogger enables per-move tracing. nil turns it off.
func (c *Controller) SetLogger(l *log.Logger) {
	c.logger = l
}

func (c *Controller) tracef(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

func (c *Controller) reset(b *bt.Board, phase Phase) {
	c.board = b
	c.phase = phase
	c.outcome = Outcome{}
	c.cursor = 0
	c.history = nil
	c.startedAt = time.Now()
	if o, over := terminal(c.board, c.board.DefenderMoves()); over {
		c.phase = GameOver
		c.outcome = o
	}
}

// SubmitDefenderMove moves the Defender to `to`. It reports false, changing
// nothing, for an illegal destination or when it is not the Defender's turn.
func (c *Controller) SubmitDefenderMove(to bt.Position) bool {
	if c.phase != DefenderTurn {
		return false
	}
	from := c.board.Defender.Pos
	res, ok := c.board.ApplyMove(bt.Move{From: from, To: to})
	if !ok {
		return false
	}
	c.board = res.Board

	ply := c.record(Ply{Side: bt.Defender, PieceID: res.Moved.ID, From: from, To: to}, res.Captured)
	c.emit(pieceMoved(ply, res.Moved, from, to))
	if res.Captured != nil {
		c.emit(pieceCaptured(ply, *res.Captured))
		c.tracef("defender %v -> %v takes attacker %d", from, to, res.Captured.ID)
	} else {
		c.tracef("defender %v -> %v", from, to)
	}
	c.settle(ply, AttackerTurn)
	return true
}

// AdvanceAttacker plays one Attacker turn. ok is false when it is not the
// Attacker's turn. A turn in which no Attacker can move is forfeited and the
// Decision reports Moved=false.
func (c *Controller) AdvanceAttacker() (d engine.Decision, ok bool) {
	if c.phase != AttackerTurn {
		return engine.Decision{}, false
	}
	d = c.eng.Decide(c.board, c.cursor)
	c.cursor = d.Next

	ply := len(c.history)
	if d.Moved {
		res, legal := c.board.ApplyMove(d.Move)
		if !legal {
			// Executors only produce CanMove squares; treat anything else as a forfeit.
			c.tracef("attacker %d: engine produced illegal move %v -> %v", d.Index, d.Move.From, d.Move.To)
			d.Moved = false
		} else {
			c.board = res.Board
			strategy := d.Strategy
			ply = c.record(Ply{
				Side:     bt.Attacker,
				PieceID:  res.Moved.ID,
				From:     d.Move.From,
				To:       d.Move.To,
				Strategy: &strategy,
			}, res.Captured)
			c.emit(pieceMoved(ply, res.Moved, d.Move.From, d.Move.To))
			if res.Captured != nil {
				c.emit(pieceCaptured(ply, *res.Captured))
			}
			c.tracef("attacker %d moved %v -> %v (%s)", d.Index, d.Move.From, d.Move.To, d.Strategy)
		}
	}
	if !d.Moved {
		c.tracef("attackers pass after %d attempts (%s)", d.Attempts, d.Strategy)
	}
	c.settle(ply, DefenderTurn)
	return d, true
}

// Restart sets up the standard layout with the Defender to move. It is
// allowed in every phase.
func (c *Controller) Restart() {
	c.reset(bt.NewInitialBoard(), DefenderTurn)
	c.tracef("game restarted")
	c.emit(Event{Type: EventGameRestarted})
	c.emit(turnChanged(0, bt.Defender))
}

// settle runs the terminal check after a mutation and passes the turn.
func (c *Controller) settle(ply int, next Phase) {
	if o, over := terminal(c.board, c.board.DefenderMoves()); over {
		c.phase = GameOver
		c.outcome = o
		c.tracef("game over: %s (%s) after %d plies", o.Result, o.Reason, len(c.history))
		c.emit(gameEnded(ply, o))
		return
	}
	c.phase = next
	c.emit(turnChanged(ply, next.Turn()))
}

func (c *Controller) record(p Ply, captured *bt.Piece) int {
	p.Number = len(c.history) + 1
	if captured != nil {
		ref := captured.Ref()
		p.Captured = &ref
	}
	c.history = append(c.history, p)
	return p.Number
}

// Snapshot returns a copy of the board.
func (c *Controller) Snapshot() *bt.Board {
	return c.board.Clone()
}

func (c *Controller) Phase() Phase { return c.phase }

// Outcome is meaningful once Phase is GameOver.
func (c *Controller) Outcome() (Outcome, bool) {
	return c.outcome, c.phase == GameOver
}

// DefenderMoves lists the squares the Defender may move to now. It is empty
// unless it is the Defender's turn.
func (c *Controller) DefenderMoves() []bt.Position {
	if c.phase != DefenderTurn {
		return []bt.Position{}
	}
	return c.board.DefenderMoves()
}

func (c *Controller) History() []Ply {
	out := make([]Ply, len(c.history))
	copy(out, c.history)
	return out
}

func (c *Controller) StartedAt() time.Time { return c.startedAt }

func (c *Controller) State() State {
	s := State{
		Board:         c.Snapshot(),
		Phase:         c.phase,
		Turn:          c.phase.Turn(),
		DefenderMoves: c.DefenderMoves(),
		Plies:         c.History(),
		Cursor:        c.cursor,
		StartedAt:     c.startedAt,
	}
	if o, over := c.Outcome(); over {
		s.Outcome = &o
	}
	return s
}

package game

import (
	bt "breakthrough/internal/breakthrough"
)

type EventType string

const (
	EventPieceMoved    EventType = "piece_moved"
	EventPieceCaptured EventType = "piece_captured"
	EventTurnChanged   EventType = "turn_changed"
	EventGameEnded     EventType = "game_ended"
	EventGameRestarted EventType = "game_restarted"
)

// Event is pushed to the presentation layer after every state change. Only
// the fields relevant to Type are set.
type Event struct {
	Type    EventType    `json:"type"`
	Ply     int          `json:"ply"`
	Piece   *bt.PieceRef `json:"piece,omitempty"`
	From    *bt.Position `json:"from,omitempty"`
	To      *bt.Position `json:"to,omitempty"`
	Side    *bt.Side     `json:"side,omitempty"`
	Outcome *Outcome     `json:"outcome,omitempty"`
}

func pieceMoved(ply int, pc bt.Piece, from, to bt.Position) Event {
	ref := pc.Ref()
	return Event{Type: EventPieceMoved, Ply: ply, Piece: &ref, From: &from, To: &to}
}

func pieceCaptured(ply int, pc bt.Piece) Event {
	ref := pc.Ref()
	at := pc.Pos
	return Event{Type: EventPieceCaptured, Ply: ply, Piece: &ref, To: &at}
}

func turnChanged(ply int, side bt.Side) Event {
	return Event{Type: EventTurnChanged, Ply: ply, Side: &side}
}

func gameEnded(ply int, o Outcome) Event {
	return Event{Type: EventGameEnded, Ply: ply, Outcome: &o}
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"breakthrough/internal/game"
)

var ErrNotFound = errors.New("game record not found")

// Record is one finished game.
type Record struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    time.Time  `json:"ended_at"`
	Result     string     `json:"result"`
	Reason     string     `json:"reason"`
	Plies      int        `json:"plies"`
	FinalBoard string     `json:"final_board"`
	Moves      []game.Ply `json:"moves"`
}

// NewRecord builds the record of a finished game from its state.
func NewRecord(id string, st game.State, endedAt time.Time) Record {
	r := Record{
		ID:         id,
		StartedAt:  st.StartedAt,
		EndedAt:    endedAt,
		Plies:      len(st.Plies),
		FinalBoard: st.Board.Encode(),
		Moves:      st.Plies,
	}
	if st.Outcome != nil {
		r.Result = string(st.Outcome.Result)
		r.Reason = string(st.Outcome.Reason)
	}
	return r
}

// Store keeps game records in a SQLite file.
type Store struct {
	db *sql.DB
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	started_at INTEGER,
	ended_at INTEGER,
	result TEXT,
	termination TEXT,
	plies INTEGER,
	final_board TEXT,
	moves TEXT
);
`

// Open creates the database file and its directory if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer at a time keeps SQLite from reporting busy under concurrent saves.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts rec, replacing an earlier record with the same id.
func (s *Store) Save(ctx context.Context, rec Record) error {
	moves, err := json.Marshal(rec.Moves)
	if err != nil {
		return fmt.Errorf("encode moves: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO games (id, started_at, ended_at, result, termination, plies, final_board, moves)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StartedAt.UnixMilli(),
		rec.EndedAt.UnixMilli(),
		rec.Result,
		rec.Reason,
		rec.Plies,
		rec.FinalBoard,
		string(moves),
	)
	if err != nil {
		return fmt.Errorf("save game %s: %w", rec.ID, err)
	}
	return nil
}

const selectColumns = `SELECT id, started_at, ended_at, result, termination, plies, final_board, moves FROM games`

// List returns the newest records first. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY ended_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		rec              Record
		started, ended   int64
		result, reason   sql.NullString
		board, movesJSON sql.NullString
	)
	err := sc.Scan(&rec.ID, &started, &ended, &result, &reason, &rec.Plies, &board, &movesJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan game: %w", err)
	}
	rec.StartedAt = time.UnixMilli(started)
	rec.EndedAt = time.UnixMilli(ended)
	rec.Result = result.String
	rec.Reason = reason.String
	rec.FinalBoard = board.String
	if movesJSON.Valid && movesJSON.String != "" {
		if err := json.Unmarshal([]byte(movesJSON.String), &rec.Moves); err != nil {
			return Record{}, fmt.Errorf("decode moves of %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}

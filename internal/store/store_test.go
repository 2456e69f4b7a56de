package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	bt "breakthrough/internal/breakthrough"
	"breakthrough/internal/game"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "games.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func finishedState(t *testing.T) game.State {
	t.Helper()
	c := game.NewControllerFrom(bt.MustDecode("8/2D5/8/8/8/8/8/6a1"), bt.Defender, nil, nil)
	if !c.SubmitDefenderMove(bt.Pos(1, 0)) {
		t.Fatalf("winning move rejected")
	}
	return c.State()
}

func TestSaveAndGet(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	st := finishedState(t)
	ended := st.StartedAt.Add(90 * time.Second)

	rec := NewRecord("g1", st, ended)
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Result != "win" || got.Reason != "reached_goal" || got.Plies != 1 {
		t.Fatalf("record = %+v", got)
	}
	if got.FinalBoard != st.Board.Encode() {
		t.Fatalf("final board = %q, want %q", got.FinalBoard, st.Board.Encode())
	}
	if !got.EndedAt.Equal(ended.Truncate(time.Millisecond)) {
		t.Fatalf("ended at %v, want %v", got.EndedAt, ended)
	}
	if len(got.Moves) != 1 || got.Moves[0].To != bt.Pos(1, 0) || got.Moves[0].Side != bt.Defender {
		t.Fatalf("moves = %+v", got.Moves)
	}
}

func TestGetMissing(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	st := finishedState(t)
	base := time.Now()
	for i, id := range []string{"a", "b", "c"} {
		if err := s.Save(ctx, NewRecord(id, st, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Fatalf("order = %v", ids(all))
	}
	two, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(two) != 2 || two[0].ID != "c" {
		t.Fatalf("limited = %v", ids(two))
	}
}

func TestSaveReplaces(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	rec := NewRecord("g", finishedState(t), time.Now())
	if err := s.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	rec.Reason = "captured"
	if err := s.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Reason != "captured" {
		t.Fatalf("records = %+v", all)
	}
}

func ids(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

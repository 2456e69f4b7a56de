package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	bt "breakthrough/internal/breakthrough"
	"breakthrough/internal/engine"
	"breakthrough/internal/game"
	"breakthrough/internal/server/session"
	"breakthrough/internal/store"
)

func newTestHandler(autoAdvance bool, records RecordLister) *Handler {
	m := session.NewManager(nil, session.Options{
		Logger:      log.New(io.Discard, "", 0),
		AutoAdvance: autoAdvance,
	})
	return NewHandler(m, records, 400)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rr.Code, rr.Body.String())
	}
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return v
}

func newGame(t *testing.T, h http.Handler) StateResponse {
	t.Helper()
	return decode[StateResponse](t, do(t, h, http.MethodPost, "/api/new_game", ""))
}

func TestNewGame(t *testing.T) {
	h := newTestHandler(true, nil)
	st := newGame(t, h)
	if st.GameID == "" || st.Board != "1a1a1a1a/8/8/8/8/8/8/4D3" {
		t.Fatalf("new game = %+v", st)
	}
	if st.Turn != bt.Defender || st.Phase != game.DefenderTurn || st.Status != "ongoing" {
		t.Fatalf("turn = %s, phase = %s, status = %s", st.Turn, st.Phase, st.Status)
	}
	if len(st.DefenderMoves) != 2 || st.AttackerDelayMS != 400 {
		t.Fatalf("moves = %v, delay = %d", st.DefenderMoves, st.AttackerDelayMS)
	}
	if st.Pieces == nil || len(st.Pieces.Attackers) != 4 {
		t.Fatalf("pieces = %+v", st.Pieces)
	}
}

func TestPlayAutoAdvances(t *testing.T) {
	h := newTestHandler(true, nil)
	id := newGame(t, h).GameID

	body := `{"game_id":"` + id + `","to":{"file":3,"rank":6}}`
	resp := decode[MoveResponse](t, do(t, h, http.MethodPost, "/api/play", body))
	if !resp.Accepted || resp.Turn != bt.Defender || resp.Plies != 2 {
		t.Fatalf("play = %+v", resp)
	}
	if resp.Decision == nil || resp.Decision.Strategy != engine.TerritoryControl {
		t.Fatalf("decision = %+v", resp.Decision)
	}
	want := bt.Move{From: bt.Pos(1, 0), To: bt.Pos(2, 1)}
	if resp.Decision.Move == nil || *resp.Decision.Move != want {
		t.Fatalf("attacker move = %+v, want %+v", resp.Decision.Move, want)
	}
	if len(resp.Events) != 4 || resp.Events[0].Type != game.EventPieceMoved {
		t.Fatalf("events = %+v", resp.Events)
	}
	if resp.Board != "3a1a1a/2a5/8/8/8/8/3D4/8" {
		t.Fatalf("board = %q", resp.Board)
	}
}

func TestPlayThenAdvance(t *testing.T) {
	h := newTestHandler(false, nil)
	id := newGame(t, h).GameID

	resp := decode[MoveResponse](t, do(t, h, http.MethodPost, "/api/play", `{"game_id":"`+id+`","to":{"file":5,"rank":6}}`))
	if !resp.Accepted || resp.Turn != bt.Attacker || resp.Decision != nil {
		t.Fatalf("play = %+v", resp)
	}
	again := decode[MoveResponse](t, do(t, h, http.MethodPost, "/api/play", `{"game_id":"`+id+`","to":{"file":4,"rank":5}}`))
	if again.Accepted {
		t.Fatalf("move accepted on the attacker turn")
	}
	adv := decode[MoveResponse](t, do(t, h, http.MethodPost, "/api/advance", `{"game_id":"`+id+`"}`))
	if !adv.Accepted || adv.Turn != bt.Defender || adv.Decision == nil || !adv.Decision.Moved {
		t.Fatalf("advance = %+v", adv)
	}

	rs := decode[MoveResponse](t, do(t, h, http.MethodPost, "/api/restart", `{"game_id":"`+id+`"}`))
	if !rs.Accepted || rs.Board != "1a1a1a1a/8/8/8/8/8/8/4D3" || rs.Plies != 0 {
		t.Fatalf("restart = %+v", rs)
	}
	st := decode[StateResponse](t, do(t, h, http.MethodPost, "/api/state", `{"game_id":"`+id+`"}`))
	if st.Board != rs.Board || st.Turn != bt.Defender {
		t.Fatalf("state = %+v", st)
	}
}

func TestIllegalPlayIsNotAnError(t *testing.T) {
	h := newTestHandler(true, nil)
	id := newGame(t, h).GameID
	resp := decode[MoveResponse](t, do(t, h, http.MethodPost, "/api/play", `{"game_id":"`+id+`","to":{"file":4,"rank":5}}`))
	if resp.Accepted || len(resp.Events) != 0 || resp.Board != "1a1a1a1a/8/8/8/8/8/8/4D3" {
		t.Fatalf("illegal play = %+v", resp)
	}
}

func TestRequestErrors(t *testing.T) {
	h := newTestHandler(true, nil)
	tests := []struct {
		name, method, path, body string
		code                     int
	}{
		{"unknown game", http.MethodPost, "/api/play", `{"game_id":"nope","to":{"file":3,"rank":6}}`, http.StatusNotFound},
		{"bad json", http.MethodPost, "/api/advance", `{`, http.StatusBadRequest},
		{"wrong method", http.MethodGet, "/api/play", ``, http.StatusMethodNotAllowed},
		{"unknown path", http.MethodPost, "/api/nothing", ``, http.StatusNotFound},
		{"bad notation", http.MethodPost, "/api/analysis", `{"board":"8/8"}`, http.StatusBadRequest},
		{"storage off", http.MethodGet, "/api/games", ``, http.StatusServiceUnavailable},
		{"events for unknown game", http.MethodGet, "/api/events?game_id=nope", ``, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := do(t, h, tt.method, tt.path, tt.body); rr.Code != tt.code {
				t.Fatalf("status = %d, want %d (%q)", rr.Code, tt.code, rr.Body.String())
			}
		})
	}
}

func TestAnalysis(t *testing.T) {
	h := newTestHandler(true, nil)
	resp := decode[AnalysisResponse](t, do(t, h, http.MethodPost, "/api/analysis", `{"board":"3a4/4D3/8/8/8/8/8/8"}`))
	if resp.Analysis.Strategy != engine.InstantCapture {
		t.Fatalf("strategy = %s", resp.Analysis.Strategy)
	}
	if resp.Move == nil || resp.Move.To != bt.Pos(4, 1) {
		t.Fatalf("move = %+v", resp.Move)
	}
	if len(resp.Analysis.CaptureOpportunities) != 1 {
		t.Fatalf("captures = %v", resp.Analysis.CaptureOpportunities)
	}
}

type fakeRecords struct {
	limit int
	recs  []store.Record
}

func (f *fakeRecords) List(_ context.Context, limit int) ([]store.Record, error) {
	f.limit = limit
	return f.recs, nil
}

func TestListGames(t *testing.T) {
	recs := &fakeRecords{recs: []store.Record{{ID: "a", Result: "win"}}}
	h := newTestHandler(true, recs)

	got := decode[[]store.Record](t, do(t, h, http.MethodGet, "/api/games?limit=5", ""))
	if len(got) != 1 || got[0].ID != "a" || recs.limit != 5 {
		t.Fatalf("games = %+v, limit = %d", got, recs.limit)
	}
	decode[[]store.Record](t, do(t, h, http.MethodGet, "/api/games?limit=100000", ""))
	if recs.limit != maxListLimit {
		t.Fatalf("limit = %d, want %d", recs.limit, maxListLimit)
	}
	decode[[]store.Record](t, do(t, h, http.MethodGet, "/api/games", ""))
	if recs.limit != defaultListLimit {
		t.Fatalf("limit = %d, want %d", recs.limit, defaultListLimit)
	}
	if rr := do(t, h, http.MethodGet, "/api/games?limit=x", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad limit status = %d", rr.Code)
	}
}

func TestEventStream(t *testing.T) {
	h := newTestHandler(false, nil)
	srv := httptest.NewServer(NewMux(h, t.TempDir()))
	defer srv.Close()

	id := newGame(t, h).GameID
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events?game_id=" + id
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	resp, err := http.Post(srv.URL+"/api/play", "application/json",
		strings.NewReader(`{"game_id":"`+id+`","to":{"file":3,"rank":6}}`))
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for _, want := range []game.EventType{game.EventPieceMoved, game.EventTurnChanged} {
		var e game.Event
		if err := conn.ReadJSON(&e); err != nil {
			t.Fatalf("read event: %v", err)
		}
		if e.Type != want {
			t.Fatalf("event = %s, want %s", e.Type, want)
		}
	}
}

func TestRootRedirectsByUserAgent(t *testing.T) {
	mux := NewMux(newTestHandler(true, nil), t.TempDir())
	tests := []struct {
		ua, query, want string
	}{
		{"Mozilla/5.0 (X11; Linux x86_64)", "", "/web/"},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)", "", "/web_mobile/"},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)", "?view=desktop", "/web/"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
		req.Header.Set("User-Agent", tt.ua)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		if rr.Code != http.StatusFound || rr.Header().Get("Location") != tt.want {
			t.Fatalf("%q%s -> %d %q, want %q", tt.ua, tt.query, rr.Code, rr.Header().Get("Location"), tt.want)
		}
	}
}

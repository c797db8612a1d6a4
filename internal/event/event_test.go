package event

import (
	"reflect"
	"testing"
)

func TestDecodeGameUpdate(t *testing.T) {
	raw := []byte(`{"fen":"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"last_move":"e2e4","white_time":60000,"black_time":59000,"move_number":3,
		"result":null,"white_engine_idx":0,"black_engine_idx":1,"game_id":2}`)
	ev, err := Decode(TopicGameUpdate, raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	gu, ok := ev.(GameUpdate)
	if !ok {
		t.Fatalf("wrong type %T", ev)
	}
	if gu.GameID != 2 || gu.LastMove == nil || *gu.LastMove != "e2e4" {
		t.Fatalf("unexpected fields: %+v", gu)
	}
	if gu.Result != nil {
		t.Fatalf("null result must decode to nil")
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := []struct {
		name    string
		topic   string
		payload string
	}{
		{"truncated json", TopicGameUpdate, `{"fen":"x"`},
		{"missing fen", TopicGameUpdate, `{"game_id":1}`},
		{"negative game id", TopicGameUpdate, `{"fen":"x","game_id":-2}`},
		{"empty payload", TopicEngineStats, ``},
		{"negative engine idx", TopicEngineStats, `{"game_id":1,"engine_idx":-1}`},
		{"toast without message", TopicToast, `{"engine_name":"Alpha"}`},
		{"unknown topic", "mystery", `{}`},
		{"wrong field type", TopicScheduleUpdate, `{"id":"one"}`},
	}
	for _, c := range cases {
		if _, err := Decode(c.topic, []byte(c.payload)); err == nil {
			t.Fatalf("%s: expected decode error", c.name)
		}
	}
}

func TestDecodeEngineStatsOptionals(t *testing.T) {
	ev, err := Decode(TopicEngineStats, []byte(`{"depth":30,"score_cp":null,"score_mate":5,
		"nodes":123,"nps":456,"pv":"e2e4","engine_idx":1,"game_id":0}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	es := ev.(EngineStats)
	if es.ScoreCP != nil || es.ScoreMate == nil || *es.ScoreMate != 5 {
		t.Fatalf("optional scores wrong: %+v", es)
	}
	if es.TBHits != nil || es.HashFull != nil {
		t.Fatalf("absent optionals must stay nil")
	}
}

func TestDecodeTournamentStats(t *testing.T) {
	ev, err := Decode(TopicTournamentStats, []byte(`{"standings":{"entries":[
		{"rank":1,"engine_name":"Alpha","games_played":10,"points":7.5,"score_percent":75,
		 "wins":7,"losses":2,"draws":1,"crashes":0,"sb":30.25,"elo":190.4,"elo_diff":12.1,
		 "engine_id":"alpha-1"}]}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ts := ev.(TournamentStats)
	if len(ts.Standings.Entries) != 1 {
		t.Fatalf("entries missing")
	}
	e := ts.Standings.Entries[0]
	if e.EngineID == nil || *e.EngineID != "alpha-1" || e.EloDiff == nil {
		t.Fatalf("optional fields dropped: %+v", e)
	}
}

func TestIsMoveToken(t *testing.T) {
	valid := []string{"e2e4", "a7a8q", "h1h8", "b1c3"}
	invalid := []string{"", "0000", "e2e", "i2i4", "e2e9", "a7a8k", "E2E4", "e2e4x"}
	for _, s := range valid {
		if !IsMoveToken(s) {
			t.Fatalf("%q should be a move token", s)
		}
	}
	for _, s := range invalid {
		if IsMoveToken(s) {
			t.Fatalf("%q should not be a move token", s)
		}
	}
}

func TestSplitPVStopsAtInvalid(t *testing.T) {
	got := SplitPV("e2e4 e7e5 g1f3 junk d2d4")
	want := []string{"e2e4", "e7e5", "g1f3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if SplitPV("") != nil {
		t.Fatalf("empty pv must yield nil")
	}
	if got := SplitPV("0000 e2e4"); got != nil {
		t.Fatalf("null move must stop parsing, got %v", got)
	}
}

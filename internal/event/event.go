// Package event is the ingestion boundary between the raw push feed and
// the live state core. Payloads arrive loosely typed; Decode turns them
// into a closed set of event variants and rejects anything malformed so
// nothing downstream has to defend against bad input.
package event

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Topics pushed by the match backend.
const (
	TopicGameUpdate      = "game-update"
	TopicEngineStats     = "engine-stats"
	TopicTournamentStats = "tournament-stats"
	TopicScheduleUpdate  = "schedule-update"
	TopicToast           = "toast"
)

// Topics lists every inbound topic, in subscription order.
var Topics = []string{
	TopicGameUpdate,
	TopicEngineStats,
	TopicTournamentStats,
	TopicScheduleUpdate,
	TopicToast,
}

// NullMove is the conventional "no move" token and is skipped, never parsed.
const NullMove = "0000"

var moveTokenRE = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][qrbn]?$`)

// IsMoveToken reports whether s is a well-formed coordinate move token.
// The null move "0000" is not a move token.
func IsMoveToken(s string) bool {
	return moveTokenRE.MatchString(s)
}

// SplitPV returns the valid coordinate-move prefix of a space-separated
// principal variation. Parsing stops at the first invalid token; prior
// valid tokens are kept.
func SplitPV(pv string) []string {
	var out []string
	for _, tok := range strings.Fields(pv) {
		if tok == NullMove || !IsMoveToken(tok) {
			break
		}
		out = append(out, tok)
	}
	return out
}

// Event is one decoded inbound event. The implementing set is closed.
type Event interface {
	Topic() string
}

// GameUpdate carries the authoritative per-game position snapshot.
type GameUpdate struct {
	FEN            string  `json:"fen"`
	LastMove       *string `json:"last_move"`
	WhiteTimeMs    int64   `json:"white_time"`
	BlackTimeMs    int64   `json:"black_time"`
	MoveNumber     int     `json:"move_number"`
	Result         *string `json:"result"`
	WhiteEngineIdx int     `json:"white_engine_idx"`
	BlackEngineIdx int     `json:"black_engine_idx"`
	GameID         int     `json:"game_id"`
}

func (GameUpdate) Topic() string { return TopicGameUpdate }

// EngineStats is one engine analysis sample.
type EngineStats struct {
	Depth     int     `json:"depth"`
	ScoreCP   *int    `json:"score_cp"`
	ScoreMate *int    `json:"score_mate"`
	Nodes     uint64  `json:"nodes"`
	NPS       uint64  `json:"nps"`
	PV        string  `json:"pv"`
	EngineIdx int     `json:"engine_idx"`
	GameID    int     `json:"game_id"`
	TBHits    *uint64 `json:"tb_hits"`
	HashFull  *int    `json:"hash_full"`
}

func (EngineStats) Topic() string { return TopicEngineStats }

// StandingsEntry is one row of the tournament crosstable snapshot.
type StandingsEntry struct {
	Rank         int      `json:"rank"`
	EngineName   string   `json:"engine_name"`
	EngineID     *string  `json:"engine_id"`
	GamesPlayed  int      `json:"games_played"`
	Points       float64  `json:"points"`
	ScorePercent float64  `json:"score_percent"`
	Wins         int      `json:"wins"`
	Losses       int      `json:"losses"`
	Draws        int      `json:"draws"`
	Crashes      int      `json:"crashes"`
	SB           float64  `json:"sb"`
	Elo          float64  `json:"elo"`
	EloDiff      *float64 `json:"elo_diff"`
}

// TournamentStats is a wholesale standings snapshot.
type TournamentStats struct {
	Standings struct {
		Entries []StandingsEntry `json:"entries"`
	} `json:"standings"`
}

func (TournamentStats) Topic() string { return TopicTournamentStats }

// ScheduleUpdate upserts one scheduled game.
type ScheduleUpdate struct {
	ID        int     `json:"id"`
	WhiteName string  `json:"white_name"`
	BlackName string  `json:"black_name"`
	State     string  `json:"state"`
	Result    *string `json:"result"`
}

func (ScheduleUpdate) Topic() string { return TopicScheduleUpdate }

// Toast is a backend-reported failure or notice, surfaced verbatim.
type Toast struct {
	Message      string  `json:"message"`
	EngineName   string  `json:"engine_name"`
	EngineID     *string `json:"engine_id"`
	GameID       *int    `json:"game_id"`
	FailureCount int     `json:"failure_count"`
	Disabled     bool    `json:"disabled"`
}

func (Toast) Topic() string { return TopicToast }

// Decode validates a raw payload against its topic and returns the typed
// event. Unknown topics and malformed payloads are errors; the caller
// drops them without mutating any state.
func Decode(topic string, payload []byte) (Event, error) {
	switch topic {
	case TopicGameUpdate:
		var ev GameUpdate
		if err := strictUnmarshal(payload, &ev); err != nil {
			return nil, err
		}
		if strings.TrimSpace(ev.FEN) == "" {
			return nil, fmt.Errorf("game-update: missing fen")
		}
		if ev.GameID < 0 {
			return nil, fmt.Errorf("game-update: negative game_id %d", ev.GameID)
		}
		if ev.WhiteEngineIdx < 0 || ev.BlackEngineIdx < 0 {
			return nil, fmt.Errorf("game-update: negative engine index")
		}
		return ev, nil
	case TopicEngineStats:
		var ev EngineStats
		if err := strictUnmarshal(payload, &ev); err != nil {
			return nil, err
		}
		if ev.GameID < 0 || ev.EngineIdx < 0 {
			return nil, fmt.Errorf("engine-stats: negative identifier")
		}
		return ev, nil
	case TopicTournamentStats:
		var ev TournamentStats
		if err := strictUnmarshal(payload, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case TopicScheduleUpdate:
		var ev ScheduleUpdate
		if err := strictUnmarshal(payload, &ev); err != nil {
			return nil, err
		}
		if ev.ID < 0 {
			return nil, fmt.Errorf("schedule-update: negative id %d", ev.ID)
		}
		return ev, nil
	case TopicToast:
		var ev Toast
		if err := strictUnmarshal(payload, &ev); err != nil {
			return nil, err
		}
		if strings.TrimSpace(ev.Message) == "" {
			return nil, fmt.Errorf("toast: missing message")
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("unknown topic %q", topic)
	}
}

func strictUnmarshal(payload []byte, out any) error {
	if len(payload) == 0 {
		return fmt.Errorf("empty payload")
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

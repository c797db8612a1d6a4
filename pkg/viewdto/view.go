// Package viewdto holds the view models the rendering layer consumes.
// Everything here is a plain value snapshot: the renderer can project it
// without further business logic, and mutating a DTO never touches live
// state.
package viewdto

// AnalysisView is the latest engine analysis sample for one side.
type AnalysisView struct {
	Depth     int      `json:"depth"`
	ScoreCP   *int     `json:"score_cp,omitempty"`
	ScoreMate *int     `json:"score_mate,omitempty"`
	Nodes     uint64   `json:"nodes"`
	NPS       uint64   `json:"nps"`
	PV        []string `json:"pv"`
	TBHits    *uint64  `json:"tb_hits,omitempty"`
	HashFull  *int     `json:"hash_full,omitempty"`
}

// SideView is the per-side panel: identity plus clock plus analysis.
type SideView struct {
	EngineIdx    int           `json:"engine_idx"`
	Name         string        `json:"name"`
	LogoPath     string        `json:"logo_path,omitempty"`
	CountryCode  string        `json:"country_code,omitempty"`
	ClockMs      int64         `json:"clock_ms"`
	ClockRunning bool          `json:"clock_running"`
	Analysis     *AnalysisView `json:"analysis,omitempty"`
}

// GameView is the full projection of the observed game.
type GameView struct {
	GameID       int       `json:"game_id"`
	FEN          string    `json:"fen"`
	Moves        []string  `json:"moves"`
	LastMoveFrom string    `json:"last_move_from,omitempty"`
	LastMoveTo   string    `json:"last_move_to,omitempty"`
	MoveNumber   int       `json:"move_number"`
	Result       string    `json:"result,omitempty"`
	Desynced     bool      `json:"desynced"`
	White        SideView  `json:"white"`
	Black        SideView  `json:"black"`
	EvalHistory  []float64 `json:"eval_history"`
}

// ScheduleRow is one scheduled game in first-seen order.
type ScheduleRow struct {
	ID        int    `json:"id"`
	WhiteName string `json:"white_name"`
	BlackName string `json:"black_name"`
	State     string `json:"state"`
	Result    string `json:"result,omitempty"`
}

// StandingsRow is one crosstable row of the latest snapshot.
type StandingsRow struct {
	Rank         int      `json:"rank"`
	EngineName   string   `json:"engine_name"`
	EngineID     string   `json:"engine_id,omitempty"`
	GamesPlayed  int      `json:"games_played"`
	Points       float64  `json:"points"`
	ScorePercent float64  `json:"score_percent"`
	Wins         int      `json:"wins"`
	Losses       int      `json:"losses"`
	Draws        int      `json:"draws"`
	Crashes      int      `json:"crashes"`
	SB           float64  `json:"sb"`
	Elo          float64  `json:"elo"`
	EloDiff      *float64 `json:"elo_diff,omitempty"`
}

// ErrorRow is one surfaced backend failure, newest first.
type ErrorRow struct {
	ID           string  `json:"id"`
	Message      string  `json:"message"`
	EngineName   string  `json:"engine_name,omitempty"`
	EngineID     *string `json:"engine_id,omitempty"`
	GameID       *int    `json:"game_id,omitempty"`
	FailureCount int     `json:"failure_count,omitempty"`
	Disabled     bool    `json:"disabled"`
	ReceivedAt   int64   `json:"received_at"`
}

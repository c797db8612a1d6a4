package livestate

import "time"

// Side identifies a chess color for display purposes.
type Side string

const (
	SideWhite Side = "white"
	SideBlack Side = "black"
	SideNone  Side = ""
)

// maxEvalHistory bounds the normalized evaluation samples kept per game.
const maxEvalHistory = 100

// maxErrorEntries bounds the error sink (newest kept).
const maxErrorEntries = 200

// AnalysisSample is the latest accepted engine-stats line for one side.
type AnalysisSample struct {
	Depth     int
	ScoreCP   *int
	ScoreMate *int
	Nodes     uint64
	NPS       uint64
	PV        []string
	TBHits    *uint64
	HashFull  *int
}

// GameState is the per-game record, owned exclusively by the Store. The
// FEN is always the backend's authoritative value; replayFEN is the
// local cursor the replayer advances move by move, and the two diverge
// only while desynced.
type GameState struct {
	GameID int

	FEN            string
	MoveHistorySAN []string
	LastMoveFrom   string
	LastMoveTo     string
	MoveNumber     int
	Result         string
	Desynced       bool

	WhiteEngineIdx int
	BlackEngineIdx int
	WhiteClockMs   int64
	BlackClockMs   int64

	WhiteAnalysis *AnalysisSample
	BlackAnalysis *AnalysisSample

	EvalHistory []float64

	lastAppliedMoveToken string
	replayFEN            string
}

// ScheduleEntry is one scheduled game, merged upsert-by-id.
type ScheduleEntry struct {
	ID        int
	WhiteName string
	BlackName string
	State     string
	Result    string
}

// ErrorEntry is one surfaced backend failure.
type ErrorEntry struct {
	ID           string
	Message      string
	EngineName   string
	EngineID     *string
	GameID       *int
	FailureCount int
	Disabled     bool
	ReceivedAt   time.Time
}

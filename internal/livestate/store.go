package livestate

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/arena-sync/internal/event"
	"github.com/park285/arena-sync/internal/obslog"
	"github.com/park285/arena-sync/internal/roster"
)

// Store is the single owner and sole mutator of per-game data, the
// schedule, the standings snapshot and the error sink. All Apply*
// methods run on the core's event loop; readers get copies under a read
// lock and never observe a partially applied update.
type Store struct {
	mu sync.RWMutex

	games     map[int]*GameState
	schedule  []ScheduleEntry
	standings []event.StandingsEntry
	errors    []ErrorEntry

	roster *roster.Roster
}

func NewStore(r *roster.Roster) *Store {
	return &Store{
		games:  make(map[int]*GameState),
		roster: r,
	}
}

// ApplyGameUpdate folds one authoritative position snapshot into the
// game table, creating the GameState on first sight of the id.
func (s *Store) ApplyGameUpdate(ev event.GameUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[ev.GameID]
	created := !ok
	if created {
		g = &GameState{GameID: ev.GameID, replayFEN: ev.FEN}
		s.games[ev.GameID] = g
	}

	// The event FEN is ground truth and is assigned unconditionally,
	// independent of move-replay success.
	g.FEN = ev.FEN
	g.WhiteClockMs = ev.WhiteTimeMs
	g.BlackClockMs = ev.BlackTimeMs
	g.MoveNumber = ev.MoveNumber
	g.WhiteEngineIdx = ev.WhiteEngineIdx
	g.BlackEngineIdx = ev.BlackEngineIdx
	if ev.Result != nil {
		g.Result = *ev.Result
	} else {
		g.Result = ""
	}

	if ev.LastMove == nil {
		return
	}
	token := *ev.LastMove
	if token == "" || token == event.NullMove {
		return
	}

	// Highlighting only needs the coordinate pair, so it works even
	// when replay fails.
	if from, to := moveSquares(token); from != "" {
		g.LastMoveFrom, g.LastMoveTo = from, to
	}

	if created {
		// First sight of this id: the event FEN already contains the
		// move, so history starts empty here (start-of-history).
		g.lastAppliedMoveToken = token
		return
	}
	if token == g.lastAppliedMoveToken {
		// Redelivered update; the move is already in the history.
		return
	}

	res, err := replayMove(g.replayFEN, token)
	if err != nil {
		// Recoverable desync: resync the cursor to the authoritative
		// position, keep the history as-is, surface nothing.
		g.replayFEN = ev.FEN
		g.Desynced = true
		obslog.L().Debug("replay_desync",
			zap.Int("game_id", ev.GameID),
			zap.String("token", token),
			zap.Int("history_len", len(g.MoveHistorySAN)),
		)
		return
	}
	g.MoveHistorySAN = append(g.MoveHistorySAN, res.SAN)
	g.lastAppliedMoveToken = token
	g.replayFEN = res.NewFEN
	g.Desynced = false
}

// ApplyEngineStats routes an admitted analysis sample to the white or
// black panel of its game, and appends to the eval history when the
// sample belongs to the observed game's side to move. Samples for games
// the store has never seen are dropped: creation happens only on update
// events.
func (s *Store) ApplyEngineStats(ev event.EngineStats, observedID int, hasObserved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[ev.GameID]
	if !ok {
		obslog.L().Debug("stats_unknown_game", zap.Int("game_id", ev.GameID))
		return
	}

	sample := &AnalysisSample{
		Depth:     ev.Depth,
		ScoreCP:   ev.ScoreCP,
		ScoreMate: ev.ScoreMate,
		Nodes:     ev.Nodes,
		NPS:       ev.NPS,
		PV:        event.SplitPV(ev.PV),
		TBHits:    ev.TBHits,
		HashFull:  ev.HashFull,
	}

	switch ev.EngineIdx {
	case g.WhiteEngineIdx:
		g.WhiteAnalysis = sample
	case g.BlackEngineIdx:
		g.BlackAnalysis = sample
	default:
		obslog.L().Debug("stats_unknown_engine",
			zap.Int("game_id", ev.GameID),
			zap.Int("engine_idx", ev.EngineIdx),
		)
		return
	}

	if !hasObserved || ev.GameID != observedID {
		return
	}
	mover := sideToMove(g.FEN)
	moverIdx := g.WhiteEngineIdx
	if mover == SideBlack {
		moverIdx = g.BlackEngineIdx
	}
	if mover == SideNone || ev.EngineIdx != moverIdx {
		return
	}

	g.EvalHistory = append(g.EvalHistory, normalizeScore(ev.ScoreCP, ev.ScoreMate))
	if n := len(g.EvalHistory); n > maxEvalHistory {
		g.EvalHistory = g.EvalHistory[n-maxEvalHistory:]
	}
}

// normalizeScore maps a sample to a plot value: mate scores saturate at
// sign×99 (engines report "mate 0" at checkmate itself, which plots as
// 0), centipawns scale to pawns, absent scores plot as 0.
func normalizeScore(cp, mate *int) float64 {
	if mate != nil {
		switch {
		case *mate < 0:
			return -99
		case *mate > 0:
			return 99
		default:
			return 0
		}
	}
	if cp != nil {
		return float64(*cp) / 100
	}
	return 0
}

// ApplySchedule upserts one entry by id. An existing id is replaced in
// place so the sequence keeps first-seen order; a new id appends.
func (s *Store) ApplySchedule(ev event.ScheduleUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := ScheduleEntry{
		ID:        ev.ID,
		WhiteName: ev.WhiteName,
		BlackName: ev.BlackName,
		State:     ev.State,
	}
	if ev.Result != nil {
		entry.Result = *ev.Result
	}
	for i := range s.schedule {
		if s.schedule[i].ID == ev.ID {
			s.schedule[i] = entry
			return
		}
	}
	s.schedule = append(s.schedule, entry)
}

// ApplyStandings replaces the crosstable wholesale; snapshots carry no
// per-field merge semantics.
func (s *Store) ApplyStandings(ev event.TournamentStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.standings = append([]event.StandingsEntry(nil), ev.Standings.Entries...)
}

// ApplyToast prepends a surfaced failure, newest first, evicting the
// oldest past the cap.
func (s *Store) ApplyToast(ev event.Toast, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := ErrorEntry{
		ID:           uuid.NewString(),
		Message:      ev.Message,
		EngineName:   ev.EngineName,
		EngineID:     ev.EngineID,
		GameID:       ev.GameID,
		FailureCount: ev.FailureCount,
		Disabled:     ev.Disabled,
		ReceivedAt:   now,
	}
	s.errors = append([]ErrorEntry{entry}, s.errors...)
	if len(s.errors) > maxErrorEntries {
		s.errors = s.errors[:maxErrorEntries]
	}
}

// Reset clears everything owned by the store except the error sink,
// which outlives a run until dismissed.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = make(map[int]*GameState)
	s.schedule = nil
	s.standings = nil
}

// ClearErrors empties the error sink.
func (s *Store) ClearErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = nil
}

// Game returns a value copy of the GameState for id.
func (s *Store) Game(id int) (GameState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return GameState{}, false
	}
	return copyGame(g), true
}

// GameIDs returns the known game identifiers in unspecified order.
func (s *Store) GameIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	return ids
}

func (s *Store) Schedule() []ScheduleEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ScheduleEntry(nil), s.schedule...)
}

func (s *Store) Standings() []event.StandingsEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]event.StandingsEntry(nil), s.standings...)
}

func (s *Store) Errors() []ErrorEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ErrorEntry(nil), s.errors...)
}

func (s *Store) Roster() *roster.Roster { return s.roster }

func copyGame(g *GameState) GameState {
	out := *g
	out.MoveHistorySAN = append([]string(nil), g.MoveHistorySAN...)
	out.EvalHistory = append([]float64(nil), g.EvalHistory...)
	if g.WhiteAnalysis != nil {
		w := *g.WhiteAnalysis
		w.PV = append([]string(nil), g.WhiteAnalysis.PV...)
		out.WhiteAnalysis = &w
	}
	if g.BlackAnalysis != nil {
		b := *g.BlackAnalysis
		b.PV = append([]string(nil), g.BlackAnalysis.PV...)
		out.BlackAnalysis = &b
	}
	return out
}

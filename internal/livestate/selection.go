package livestate

import (
	"sync"

	"github.com/park285/arena-sync/pkg/viewdto"
)

// Projector tracks which game is currently observed and republishes its
// state as the external view model. It is a pure reader of the store:
// switching games only changes which table entry is read.
type Projector struct {
	store *Store

	mu         sync.RWMutex
	observedID int
	observed   bool
	autoDone   bool
}

func NewProjector(store *Store) *Projector {
	return &Projector{store: store}
}

// OnUpdate notes that gameID produced an update. The first id ever seen
// becomes the observed game automatically; arrival of other games'
// events never steals an existing selection.
func (p *Projector) OnUpdate(gameID int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.autoDone || p.observed {
		return
	}
	p.observedID = gameID
	p.observed = true
	p.autoDone = true
}

// Select switches observation explicitly. Selecting an id the store has
// not seen yet is allowed; projection stays empty until its first update.
func (p *Projector) Select(gameID int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observedID = gameID
	p.observed = true
	p.autoDone = true
}

// Observed returns the observed game id, if any.
func (p *Projector) Observed() (int, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.observedID, p.observed
}

// Reset clears the selection so the next run's first game auto-selects
// again.
func (p *Projector) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observed = false
	p.autoDone = false
	p.observedID = 0
}

// Project derives the externally consumed view model for the observed
// game, resolving names and logos through the roster. Returns nil while
// no game is observed or the observed game has no state yet.
func (p *Projector) Project(matchRunning, paused bool) *viewdto.GameView {
	id, ok := p.Observed()
	if !ok {
		return nil
	}
	g, ok := p.store.Game(id)
	if !ok {
		return nil
	}

	r := p.store.Roster()
	active := ActiveSide(matchRunning, paused, g.Result, g.FEN)

	view := &viewdto.GameView{
		GameID:       g.GameID,
		FEN:          g.FEN,
		Moves:        g.MoveHistorySAN,
		LastMoveFrom: g.LastMoveFrom,
		LastMoveTo:   g.LastMoveTo,
		MoveNumber:   g.MoveNumber,
		Result:       g.Result,
		Desynced:     g.Desynced,
		EvalHistory:  g.EvalHistory,
		White: viewdto.SideView{
			EngineIdx:    g.WhiteEngineIdx,
			Name:         r.Name(g.WhiteEngineIdx),
			LogoPath:     r.Logo(g.WhiteEngineIdx),
			CountryCode:  r.Country(g.WhiteEngineIdx),
			ClockMs:      g.WhiteClockMs,
			ClockRunning: active == SideWhite,
			Analysis:     analysisView(g.WhiteAnalysis),
		},
		Black: viewdto.SideView{
			EngineIdx:    g.BlackEngineIdx,
			Name:         r.Name(g.BlackEngineIdx),
			LogoPath:     r.Logo(g.BlackEngineIdx),
			CountryCode:  r.Country(g.BlackEngineIdx),
			ClockMs:      g.BlackClockMs,
			ClockRunning: active == SideBlack,
			Analysis:     analysisView(g.BlackAnalysis),
		},
	}
	return view
}

func analysisView(a *AnalysisSample) *viewdto.AnalysisView {
	if a == nil {
		return nil
	}
	return &viewdto.AnalysisView{
		Depth:     a.Depth,
		ScoreCP:   a.ScoreCP,
		ScoreMate: a.ScoreMate,
		Nodes:     a.Nodes,
		NPS:       a.NPS,
		PV:        a.PV,
		TBHits:    a.TBHits,
		HashFull:  a.HashFull,
	}
}

package livestate

import (
	"github.com/park285/arena-sync/pkg/viewdto"
)

// Panel projections for the schedule, standings and error views. Like
// Project, these are pure reads returning value snapshots.

func (p *Projector) ScheduleView() []viewdto.ScheduleRow {
	entries := p.store.Schedule()
	rows := make([]viewdto.ScheduleRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, viewdto.ScheduleRow{
			ID:        e.ID,
			WhiteName: e.WhiteName,
			BlackName: e.BlackName,
			State:     e.State,
			Result:    e.Result,
		})
	}
	return rows
}

func (p *Projector) StandingsView() []viewdto.StandingsRow {
	entries := p.store.Standings()
	rows := make([]viewdto.StandingsRow, 0, len(entries))
	for _, e := range entries {
		row := viewdto.StandingsRow{
			Rank:         e.Rank,
			EngineName:   e.EngineName,
			GamesPlayed:  e.GamesPlayed,
			Points:       e.Points,
			ScorePercent: e.ScorePercent,
			Wins:         e.Wins,
			Losses:       e.Losses,
			Draws:        e.Draws,
			Crashes:      e.Crashes,
			SB:           e.SB,
			Elo:          e.Elo,
			EloDiff:      e.EloDiff,
		}
		if e.EngineID != nil {
			row.EngineID = *e.EngineID
		}
		rows = append(rows, row)
	}
	return rows
}

func (p *Projector) ErrorsView() []viewdto.ErrorRow {
	entries := p.store.Errors()
	rows := make([]viewdto.ErrorRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, viewdto.ErrorRow{
			ID:           e.ID,
			Message:      e.Message,
			EngineName:   e.EngineName,
			EngineID:     e.EngineID,
			GameID:       e.GameID,
			FailureCount: e.FailureCount,
			Disabled:     e.Disabled,
			ReceivedAt:   e.ReceivedAt.UnixMilli(),
		})
	}
	return rows
}

// Convenience pass-throughs on Core for the host UI.

func (c *Core) ScheduleView() []viewdto.ScheduleRow   { return c.proj.ScheduleView() }
func (c *Core) StandingsView() []viewdto.StandingsRow { return c.proj.StandingsView() }
func (c *Core) ErrorsView() []viewdto.ErrorRow        { return c.proj.ErrorsView() }

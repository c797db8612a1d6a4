// Package roster holds the externally-owned engine list referenced by
// index in backend events. Lookups never fail: an index outside the
// configured range resolves to a placeholder label so a stale or
// reordered event cannot block an update.
package roster

import (
	"fmt"
	"strings"

	"github.com/park285/arena-sync/internal/matchcfg"
)

// Entry is one configured engine, in backend index order.
type Entry struct {
	ID          string
	Name        string
	CountryCode string
	LogoPath    string
}

type Roster struct {
	entries []Entry
}

func New(entries []Entry) *Roster {
	return &Roster{entries: entries}
}

// FromMatchConfig builds the roster from the tournament configuration
// file, preserving file order (which is backend index order).
func FromMatchConfig(cfg *matchcfg.Config) *Roster {
	if cfg == nil {
		return &Roster{}
	}
	entries := make([]Entry, 0, len(cfg.Engines))
	for _, e := range cfg.Engines {
		entries = append(entries, Entry{
			ID:          e.ID,
			Name:        e.Name,
			CountryCode: e.CountryCode,
			LogoPath:    e.LogoPath,
		})
	}
	return &Roster{entries: entries}
}

func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Name returns the engine name at idx, or a placeholder for unknown
// indices.
func (r *Roster) Name(idx int) string {
	if e, ok := r.at(idx); ok && strings.TrimSpace(e.Name) != "" {
		return e.Name
	}
	return fmt.Sprintf("Engine %d", idx)
}

// Logo returns the configured logo path, empty when absent or unknown.
func (r *Roster) Logo(idx int) string {
	if e, ok := r.at(idx); ok {
		return e.LogoPath
	}
	return ""
}

// Country returns the configured country code, empty when absent.
func (r *Roster) Country(idx int) string {
	if e, ok := r.at(idx); ok {
		return e.CountryCode
	}
	return ""
}

func (r *Roster) at(idx int) (Entry, bool) {
	if r == nil || idx < 0 || idx >= len(r.entries) {
		return Entry{}, false
	}
	return r.entries[idx], true
}

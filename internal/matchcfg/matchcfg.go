// Package matchcfg models the tournament configuration file handed to
// the match backend on start. The synchronizer itself never interprets
// these fields beyond the engine roster; they travel opaque through the
// control client.
package matchcfg

import (
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeMatch      Mode = "match"
	ModeRoundRobin Mode = "round_robin"
	ModeGauntlet   Mode = "gauntlet"
)

// Engine describes one roster entry. Index order in the file is the
// index order the backend reports in events.
type Engine struct {
	ID               string     `yaml:"id,omitempty" json:"id,omitempty"`
	Name             string     `yaml:"name" json:"name"`
	Path             string     `yaml:"path" json:"path"`
	Args             []string   `yaml:"args,omitempty" json:"args,omitempty"`
	WorkingDirectory string     `yaml:"working_directory,omitempty" json:"working_directory,omitempty"`
	Protocol         string     `yaml:"protocol,omitempty" json:"protocol,omitempty"`
	Options          [][]string `yaml:"options,omitempty" json:"options,omitempty"`
	CountryCode      string     `yaml:"country_code,omitempty" json:"country_code,omitempty"`
	LogoPath         string     `yaml:"logo_path,omitempty" json:"logo_path,omitempty"`
}

type TimeControl struct {
	BaseMs int64 `yaml:"base_ms" json:"base_ms"`
	IncMs  int64 `yaml:"inc_ms" json:"inc_ms"`
}

type Opening struct {
	File     string `yaml:"file,omitempty" json:"file,omitempty"`
	FEN      string `yaml:"fen,omitempty" json:"fen,omitempty"`
	Depth    int    `yaml:"depth,omitempty" json:"depth,omitempty"`
	Order    string `yaml:"order,omitempty" json:"order,omitempty"`
	BookPath string `yaml:"book_path,omitempty" json:"book_path,omitempty"`
}

type Adjudication struct {
	ResignScore     *int `yaml:"resign_score,omitempty" json:"resign_score,omitempty"`
	ResignMoveCount *int `yaml:"resign_move_count,omitempty" json:"resign_move_count,omitempty"`
	DrawScore       *int `yaml:"draw_score,omitempty" json:"draw_score,omitempty"`
	DrawMoveNumber  *int `yaml:"draw_move_number,omitempty" json:"draw_move_number,omitempty"`
	DrawMoveCount   *int `yaml:"draw_move_count,omitempty" json:"draw_move_count,omitempty"`
	TBAdjudication  bool `yaml:"tb_adjudication" json:"result_adjudication"`
}

// SPRT parameters for the backend's sequential stopping rule. Optional;
// nil means fixed game count.
type SPRT struct {
	Elo0  float64 `yaml:"elo0" json:"elo0"`
	Elo1  float64 `yaml:"elo1" json:"elo1"`
	Alpha float64 `yaml:"alpha" json:"alpha"`
	Beta  float64 `yaml:"beta" json:"beta"`
}

type Config struct {
	Mode              Mode         `yaml:"mode" json:"mode"`
	Engines           []Engine     `yaml:"engines" json:"engines"`
	TimeControl       TimeControl  `yaml:"time_control" json:"time_control"`
	GamesCount        int          `yaml:"games_count" json:"games_count"`
	SwapSides         bool         `yaml:"swap_sides" json:"swap_sides"`
	Opening           Opening      `yaml:"opening" json:"opening"`
	Variant           string       `yaml:"variant,omitempty" json:"variant"`
	Concurrency       int          `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
	PGNPath           string       `yaml:"pgn_path,omitempty" json:"pgn_path,omitempty"`
	EventName         string       `yaml:"event_name,omitempty" json:"event_name,omitempty"`
	DisabledEngineIDs []string     `yaml:"disabled_engine_ids,omitempty" json:"disabled_engine_ids"`
	Adjudication      Adjudication `yaml:"adjudication" json:"adjudication"`
	SPRT              *SPRT        `yaml:"sprt,omitempty" json:"sprt,omitempty"`
}

// LoadFile reads and validates a tournament configuration.
func LoadFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read match config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse match config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Mode {
	case ModeMatch, ModeRoundRobin, ModeGauntlet:
	case "":
		c.Mode = ModeMatch
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if len(c.Engines) < 2 {
		return fmt.Errorf("at least two engines required, got %d", len(c.Engines))
	}
	for i, e := range c.Engines {
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("engine %d: name required", i)
		}
		if strings.TrimSpace(e.Path) == "" {
			return fmt.Errorf("engine %d (%s): path required", i, e.Name)
		}
	}
	if c.TimeControl.BaseMs <= 0 {
		return fmt.Errorf("time_control.base_ms must be positive")
	}
	if c.GamesCount <= 0 {
		return fmt.Errorf("games_count must be positive")
	}
	if c.Variant == "" {
		c.Variant = "standard"
	}
	return nil
}

// EngineNames returns roster names in index order, for the roster table.
func (c *Config) EngineNames() []string {
	names := make([]string, len(c.Engines))
	for i, e := range c.Engines {
		names[i] = e.Name
	}
	return names
}

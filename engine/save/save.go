// Package save serializes game state to JSON and keeps named save slots in
// a sqlite database.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/dungeoncore/engine/state"
	"github.com/nathoo/dungeoncore/types"
)

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     string                       `json:"version"`
	Game        string                       `json:"game"`
	Turn        int                          `json:"turn"`
	Player      types.Player                 `json:"player"`
	Flags       map[string]bool              `json:"flags"`
	EntityState map[string]types.EntityState `json:"entity_state"`
	CommandLog  []string                     `json:"command_log"`
}

// Save serializes game state to JSON bytes.
func Save(s *types.State, defs *state.Defs) ([]byte, error) {
	data := SaveData{
		Version:     defs.Game.Version,
		Game:        defs.Game.Title,
		Turn:        s.TurnCount,
		Player:      s.Player,
		Flags:       s.Flags,
		EntityState: s.Entities,
		CommandLog:  s.CommandLog,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	if sd.Flags == nil {
		sd.Flags = map[string]bool{}
	}
	if sd.EntityState == nil {
		sd.EntityState = map[string]types.EntityState{}
	}
	if sd.Player.Inventory == nil {
		sd.Player.Inventory = []string{}
	}
	if sd.CommandLog == nil {
		sd.CommandLog = []string{}
	}
	return &sd, nil
}

// CheckGame reports whether a save was written by the given game.
func (sd *SaveData) CheckGame(defs *state.Defs) error {
	if sd.Game != defs.Game.Title {
		return fmt.Errorf("save belongs to %q, not %q", sd.Game, defs.Game.Title)
	}
	return nil
}

// ApplySave applies loaded save data onto a state.
func ApplySave(s *types.State, sd *SaveData) {
	s.Player = sd.Player
	s.Flags = sd.Flags
	s.Entities = sd.EntityState
	s.TurnCount = sd.Turn
	s.CommandLog = sd.CommandLog
}

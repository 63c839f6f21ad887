// Package state manages the mutable game state and property lookups
// with override layering (runtime state overrides base definitions).
package state

import (
	"sort"

	"github.com/nathoo/dungeoncore/engine/match"
	"github.com/nathoo/dungeoncore/types"
)

// Nowhere is the location of entities that are carried or destroyed.
// It is non-empty so it overrides the base location.
const Nowhere = " "

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game     types.GameDef
	Rooms    map[string]types.RoomDef
	Entities map[string]types.EntityDef
}

// NewState creates a fresh game state from definitions.
func NewState(defs *Defs) *types.State {
	return &types.State{
		Player: types.Player{
			Location:  defs.Game.Start,
			Inventory: []string{},
		},
		Entities:   map[string]types.EntityState{},
		Flags:      map[string]bool{},
		CommandLog: []string{},
	}
}

// GetFlag returns the value of a flag. Unset flags return false.
func GetFlag(s *types.State, name string) bool {
	return s.Flags[name]
}

// HasItem returns true if the player has the given item in inventory.
func HasItem(s *types.State, itemID string) bool {
	for _, id := range s.Player.Inventory {
		if id == itemID {
			return true
		}
	}
	return false
}

// GetEntityProp returns a property value for an entity, checking
// runtime state overrides first, then falling back to the base definition.
func GetEntityProp(s *types.State, defs *Defs, entityID string, prop string) (any, bool) {
	if es, ok := s.Entities[entityID]; ok {
		if v, ok := es.Props[prop]; ok {
			return v, true
		}
	}
	if def, ok := defs.Entities[entityID]; ok {
		if v, ok := def.Props[prop]; ok {
			return v, true
		}
	}
	return nil, false
}

// GetEntityString is GetEntityProp for string-valued props.
func GetEntityString(s *types.State, defs *Defs, entityID, prop string) (string, bool) {
	v, ok := GetEntityProp(s, defs, entityID, prop)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// GetEntityInt is GetEntityProp for numeric props. Lua numbers may arrive
// as int or float64.
func GetEntityInt(s *types.State, defs *Defs, entityID, prop string) int {
	v, _ := GetEntityProp(s, defs, entityID, prop)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// EntityName returns the name an entity is selected by. The "name" prop
// falls back to the entity ID; "plural" overrides the derived plural.
func EntityName(s *types.State, defs *Defs, entityID string) match.Name {
	singular, ok := GetEntityString(s, defs, entityID, "name")
	if !ok || singular == "" {
		singular = entityID
	}
	if plural, ok := GetEntityString(s, defs, entityID, "plural"); ok && plural != "" {
		return match.NewNameWithPlural(singular, plural)
	}
	return match.NewName(singular)
}

// EntityLocation returns the effective location of an entity, checking
// the runtime state override first, then the base definition.
func EntityLocation(s *types.State, defs *Defs, entityID string) string {
	if es, ok := s.Entities[entityID]; ok && es.Location != "" {
		return es.Location
	}
	if def, ok := defs.Entities[entityID]; ok {
		if loc, ok := def.Props["location"].(string); ok {
			return loc
		}
	}
	return ""
}

// EntitiesInRoom returns the IDs of all entities whose effective location
// matches the given room ID, sorted so match order is deterministic.
func EntitiesInRoom(s *types.State, defs *Defs, roomID string) []string {
	var result []string
	for id := range defs.Entities {
		if EntityLocation(s, defs, id) == roomID {
			result = append(result, id)
		}
	}
	sort.Strings(result)
	return result
}

// CarriedWeight sums the "weight" prop over the player's inventory.
func CarriedWeight(s *types.State, defs *Defs) int {
	total := 0
	for _, id := range s.Player.Inventory {
		total += GetEntityInt(s, defs, id, "weight")
	}
	return total
}

// RoomExits returns a copy of a room's exits, or nil for unknown rooms.
func RoomExits(defs *Defs, roomID string) map[string]string {
	room, ok := defs.Rooms[roomID]
	if !ok {
		return nil
	}
	exits := make(map[string]string, len(room.Exits))
	for dir, target := range room.Exits {
		exits[dir] = target
	}
	return exits
}

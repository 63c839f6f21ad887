// Package effects implements centralized state mutation via the Apply function.
// Every effect type is one atomic operation. No logic in effects.
package effects

import (
	"strings"

	"github.com/nathoo/dungeoncore/engine/state"
	"github.com/nathoo/dungeoncore/types"
)

// Context carries the resolved intent needed for template interpolation.
type Context struct {
	Verb     string
	ObjectID string
	TargetID string
}

// applied is what a single effect contributes to the turn.
type applied struct {
	events []types.Event
	output []string
	stop   bool
}

type handler func(s *types.State, defs *state.Defs, p params) applied

var handlers = map[string]handler{
	"say":         say,
	"give_item":   giveItem,
	"remove_item": removeItem,
	"move_entity": moveEntity,
	"move_player": movePlayer,
	"set_flag":    setFlag,
	"stop":        func(*types.State, *state.Defs, params) applied { return applied{stop: true} },
}

// Known reports whether effType has a handler.
func Known(effType string) bool {
	_, ok := handlers[effType]
	return ok
}

// Apply applies a list of effects to the game state, mutating it.
// Returns events emitted and output text collected. Unknown effect types
// are ignored.
func Apply(s *types.State, defs *state.Defs, effects []types.Effect, ctx Context) ([]types.Event, []string) {
	var events []types.Event
	var output []string

	for _, eff := range effects {
		h, ok := handlers[eff.Type]
		if !ok {
			continue
		}
		res := h(s, defs, params{raw: eff.Params, ctx: ctx})
		events = append(events, res.events...)
		output = append(output, res.output...)
		if res.stop {
			break
		}
	}
	return events, output
}

func say(s *types.State, defs *state.Defs, p params) applied {
	text := p.str("text")
	text = strings.NewReplacer(
		"{object.name}", entityName(s, defs, p.ctx.ObjectID),
		"{target.name}", entityName(s, defs, p.ctx.TargetID),
		"{player.location}", s.Player.Location,
	).Replace(text)
	return applied{output: []string{text}}
}

func giveItem(s *types.State, _ *state.Defs, p params) applied {
	item := p.str("item")
	s.Player.Inventory = append(s.Player.Inventory, item)
	setLocation(s, item, state.Nowhere)
	return applied{events: []types.Event{{Type: "item_taken", Data: map[string]any{"item": item}}}}
}

func removeItem(s *types.State, _ *state.Defs, p params) applied {
	item := p.str("item")
	s.Player.Inventory = removeFromSlice(s.Player.Inventory, item)
	return applied{events: []types.Event{{Type: "item_dropped", Data: map[string]any{"item": item}}}}
}

func moveEntity(s *types.State, _ *state.Defs, p params) applied {
	entity, room := p.str("entity"), p.str("room")
	setLocation(s, entity, room)
	return applied{events: []types.Event{{Type: "entity_moved", Data: map[string]any{"entity": entity, "room": room}}}}
}

func movePlayer(s *types.State, _ *state.Defs, p params) applied {
	room := p.str("room")
	s.Player.Location = room
	return applied{events: []types.Event{{Type: "room_entered", Data: map[string]any{"room": room}}}}
}

func setFlag(s *types.State, _ *state.Defs, p params) applied {
	flag := p.str("flag")
	value, _ := p.raw["value"].(bool)
	s.Flags[flag] = value
	return applied{events: []types.Event{{Type: "flag_changed", Data: map[string]any{"flag": flag, "value": value}}}}
}

// params reads effect parameters, expanding {object} and {target}.
type params struct {
	raw map[string]any
	ctx Context
}

func (p params) str(key string) string {
	v, _ := p.raw[key].(string)
	v = strings.ReplaceAll(v, "{object}", p.ctx.ObjectID)
	return strings.ReplaceAll(v, "{target}", p.ctx.TargetID)
}

func setLocation(s *types.State, entityID, location string) {
	es := s.Entities[entityID]
	es.Location = location
	s.Entities[entityID] = es
}

func entityName(s *types.State, defs *state.Defs, entityID string) string {
	if entityID == "" {
		return ""
	}
	return state.EntityName(s, defs, entityID).Singular()
}

func removeFromSlice(slice []string, item string) []string {
	for i, v := range slice {
		if v == item {
			return append(slice[:i:i], slice[i+1:]...)
		}
	}
	return slice
}

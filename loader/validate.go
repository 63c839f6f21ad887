package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/dungeoncore/engine/effects"
	"github.com/nathoo/dungeoncore/engine/state"
	"github.com/nathoo/dungeoncore/types"
)

// ValidationError collects all validation errors.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// reactionVerbs are the verbs whose success triggers entity reactions.
var reactionVerbs = map[string]bool{
	"take": true, "drop": true, "examine": true,
}

// validate checks the compiled defs for referential integrity. It returns
// warnings for suspicious but playable content and a *ValidationError for
// content that cannot be played. Messages are sorted for stable output.
func validate(defs *state.Defs) ([]string, error) {
	var errs, warnings []string

	if defs.Game.Title == "" {
		errs = append(errs, "Game.title is required")
	}
	if defs.Game.Start == "" {
		errs = append(errs, "Game.start is required")
	} else if _, ok := defs.Rooms[defs.Game.Start]; !ok {
		errs = append(errs, fmt.Sprintf("start room %q not found in defined rooms", defs.Game.Start))
	}
	if defs.Game.Capacity < 0 {
		errs = append(errs, fmt.Sprintf("Game.capacity must not be negative, got %d", defs.Game.Capacity))
	}

	for roomID, room := range defs.Rooms {
		for dir, target := range room.Exits {
			if _, ok := defs.Rooms[target]; !ok {
				errs = append(errs, fmt.Sprintf(
					"room %q exit %q points to undefined room %q", roomID, dir, target))
			}
		}
	}

	for entityID, entity := range defs.Entities {
		if loc, ok := entity.Props["location"].(string); ok && loc != "" {
			if _, ok := defs.Rooms[loc]; !ok {
				warnings = append(warnings, fmt.Sprintf(
					"entity %q location %q does not match any defined room", entityID, loc))
			}
		}
		if w, ok := entity.Props["weight"]; ok {
			if _, isInt := w.(int); !isInt {
				errs = append(errs, fmt.Sprintf("entity %q weight must be a whole number", entityID))
			}
		}
		for verb, effs := range entity.Reactions {
			if !reactionVerbs[verb] {
				warnings = append(warnings, fmt.Sprintf(
					"entity %q reacts to %q, which never triggers reactions", entityID, verb))
			}
			errs = append(errs, validateEffects(entityID, effs, defs)...)
		}
	}

	sort.Strings(errs)
	sort.Strings(warnings)
	if len(errs) > 0 {
		return warnings, &ValidationError{Errors: errs}
	}
	return warnings, nil
}

func validateEffects(owner string, effs []types.Effect, defs *state.Defs) []string {
	var errs []string
	checkRef := func(eff types.Effect, param string, exists func(string) bool, what string) {
		v, ok := eff.Params[param].(string)
		if !ok || isTemplate(v) || exists(v) {
			return
		}
		errs = append(errs, fmt.Sprintf(
			"entity %q effect %s references undefined %s %q", owner, eff.Type, what, v))
	}
	isEntity := func(id string) bool { _, ok := defs.Entities[id]; return ok }
	isRoom := func(id string) bool { _, ok := defs.Rooms[id]; return ok }

	for _, eff := range effs {
		if !effects.Known(eff.Type) {
			errs = append(errs, fmt.Sprintf("entity %q uses unknown effect type %q", owner, eff.Type))
			continue
		}
		switch eff.Type {
		case "give_item", "remove_item":
			checkRef(eff, "item", isEntity, "entity")
		case "move_entity":
			checkRef(eff, "entity", isEntity, "entity")
			checkRef(eff, "room", func(id string) bool { return id == state.Nowhere || isRoom(id) }, "room")
		case "move_player":
			checkRef(eff, "room", isRoom, "room")
		}
	}
	return errs
}

// isTemplate returns true if the string contains a template variable.
func isTemplate(s string) bool {
	return strings.Contains(s, "{") && strings.Contains(s, "}")
}

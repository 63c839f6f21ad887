// Package loader loads Lua game content into Go structs.
// The Lua VM is discarded after loading; nothing runs Lua at play time.
package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/dungeoncore/engine/state"
	"github.com/nathoo/dungeoncore/types"
)

type rawRoom struct {
	id    string
	table *lua.LTable
}

type rawEntity struct {
	id    string
	kind  string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getInt returns a numeric field from a Lua table as an int, or 0.
func getInt(tbl *lua.LTable, key string) int {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively. Whole numbers
// become int, sequences become []any and other tables map[string]any.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(val)
	case *lua.LTable:
		if maxN := val.MaxN(); maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

func tableToStringMap(tbl *lua.LTable) map[string]string {
	if tbl == nil {
		return nil
	}
	m := map[string]string{}
	tbl.ForEach(func(k, v lua.LValue) {
		ks, ok1 := k.(lua.LString)
		vs, ok2 := v.(lua.LString)
		if ok1 && ok2 {
			m[string(ks)] = string(vs)
		}
	})
	return m
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs := &state.Defs{
		Game:     compileGame(coll.game),
		Rooms:    map[string]types.RoomDef{},
		Entities: map[string]types.EntityDef{},
	}

	for _, raw := range coll.rooms {
		if _, dup := defs.Rooms[raw.id]; dup {
			return nil, fmt.Errorf("room %q defined twice", raw.id)
		}
		defs.Rooms[raw.id] = types.RoomDef{
			ID:          raw.id,
			Description: getString(raw.table, "description"),
			Exits:       tableToStringMap(getTable(raw.table, "exits")),
		}
	}

	for _, raw := range coll.entities {
		if _, dup := defs.Entities[raw.id]; dup {
			return nil, fmt.Errorf("entity %q defined twice", raw.id)
		}
		entity, err := compileEntity(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling entity %s: %w", raw.id, err)
		}
		defs.Entities[entity.ID] = entity
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:    getString(tbl, "title"),
		Author:   getString(tbl, "author"),
		Version:  getString(tbl, "version"),
		Start:    getString(tbl, "start"),
		Intro:    getString(tbl, "intro"),
		Capacity: getInt(tbl, "capacity"),
	}
}

// compileEntity copies every field except "on" into Props. Items are
// takeable unless they say otherwise.
func compileEntity(raw rawEntity) (types.EntityDef, error) {
	entity := types.EntityDef{
		ID:    raw.id,
		Kind:  raw.kind,
		Props: map[string]any{},
	}

	raw.table.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok && string(ks) != "on" {
			entity.Props[string(ks)] = toGoValue(v)
		}
	})

	if raw.kind == "item" {
		if _, ok := entity.Props["takeable"]; !ok {
			entity.Props["takeable"] = true
		}
	}

	if onTbl := getTable(raw.table, "on"); onTbl != nil {
		reactions, err := compileReactions(onTbl)
		if err != nil {
			return entity, err
		}
		entity.Reactions = reactions
	}
	return entity, nil
}

// compileReactions reads on = { take = { Say("..."), ... }, ... }.
func compileReactions(tbl *lua.LTable) (map[string][]types.Effect, error) {
	reactions := map[string][]types.Effect{}
	var err error
	tbl.ForEach(func(k, v lua.LValue) {
		verb, ok := k.(lua.LString)
		if !ok {
			err = fmt.Errorf("reaction keys must be verbs, got %s", k.Type())
			return
		}
		effTbl, ok := v.(*lua.LTable)
		if !ok {
			err = fmt.Errorf("reactions for %q must be a list of effects", string(verb))
			return
		}
		reactions[string(verb)] = compileEffects(effTbl)
	})
	return reactions, err
}

func compileEffects(tbl *lua.LTable) []types.Effect {
	var effects []types.Effect
	for i := 1; i <= tbl.MaxN(); i++ {
		if effTbl, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			effects = append(effects, compileEffect(effTbl))
		}
	}
	return effects
}

func compileEffect(tbl *lua.LTable) types.Effect {
	params := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok && string(ks) != "type" {
			params[string(ks)] = toGoValue(v)
		}
	})
	return types.Effect{
		Type:   getString(tbl, "type"),
		Params: params,
	}
}

// sortedLuaFiles puts game.lua first and sorts the rest.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}

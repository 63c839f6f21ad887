package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the content constructors and effect helpers as
// globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Room "id" { ... }
	L.SetGlobal("Room", curried(L, func(id string, tbl *lua.LTable) {
		coll.rooms = append(coll.rooms, rawRoom{id: id, table: tbl})
	}))

	// Item "id" { ... } and Entity "id" { ... } differ only in kind.
	for global, kind := range map[string]string{"Item": "item", "Entity": "entity"} {
		L.SetGlobal(global, curried(L, func(id string, tbl *lua.LTable) {
			coll.entities = append(coll.entities, rawEntity{id: id, kind: kind, table: tbl})
		}))
	}

	registerEffectHelpers(L)
}

// curried builds a constructor called as Ctor "id" { ... }: the first call
// takes the ID and returns a function that takes the table.
func curried(L *lua.LState, add func(id string, tbl *lua.LTable)) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			add(id, L.CheckTable(1))
			return 0
		}))
		return 1
	})
}

// effectHelper describes a Lua function that builds an effect table from
// its string arguments, e.g. MoveEntity("sword", "vault").
type effectHelper struct {
	effType string
	args    []string
}

var effectHelpers = map[string]effectHelper{
	"Say":        {"say", []string{"text"}},
	"GiveItem":   {"give_item", []string{"item"}},
	"RemoveItem": {"remove_item", []string{"item"}},
	"MoveEntity": {"move_entity", []string{"entity", "room"}},
	"MovePlayer": {"move_player", []string{"room"}},
	"Stop":       {"stop", nil},
}

func registerEffectHelpers(L *lua.LState) {
	for global, h := range effectHelpers {
		L.SetGlobal(global, L.NewFunction(func(L *lua.LState) int {
			tbl := L.NewTable()
			tbl.RawSetString("type", lua.LString(h.effType))
			for i, name := range h.args {
				tbl.RawSetString(name, lua.LString(L.CheckString(i+1)))
			}
			L.Push(tbl)
			return 1
		}))
	}

	// SetFlag("flag", value)
	L.SetGlobal("SetFlag", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("set_flag"))
		tbl.RawSetString("flag", lua.LString(L.CheckString(1)))
		tbl.RawSetString("value", lua.LBool(L.OptBool(2, true)))
		L.Push(tbl)
		return 1
	}))
}

package effects

import (
	"testing"

	"github.com/nathoo/dungeoncore/engine/state"
	"github.com/nathoo/dungeoncore/types"
)

func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{Start: "hall"},
		Rooms: map[string]types.RoomDef{
			"hall":   {ID: "hall"},
			"garden": {ID: "garden"},
		},
		Entities: map[string]types.EntityDef{
			"lamp": {ID: "lamp", Kind: "item", Props: map[string]any{"name": "brass lamp", "location": "hall"}},
			"coin": {ID: "coin", Kind: "item", Props: map[string]any{"name": "coin", "location": "hall"}},
		},
	}
}

func eff(typ string, kv ...any) types.Effect {
	p := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		p[kv[i].(string)] = kv[i+1]
	}
	return types.Effect{Type: typ, Params: p}
}

func TestApply_GiveItem(t *testing.T) {
	defs := testDefs()
	s := state.NewState(defs)

	events, _ := Apply(s, defs, []types.Effect{eff("give_item", "item", "{object}")}, Context{ObjectID: "lamp"})

	if !state.HasItem(s, "lamp") {
		t.Fatal("lamp should be in inventory")
	}
	if loc := state.EntityLocation(s, defs, "lamp"); loc != state.Nowhere {
		t.Errorf("lamp location = %q, want nowhere", loc)
	}
	if len(events) != 1 || events[0].Type != "item_taken" || events[0].Data["item"] != "lamp" {
		t.Errorf("events = %+v", events)
	}
}

func TestApply_RemoveItemDoesNotAlias(t *testing.T) {
	defs := testDefs()
	s := state.NewState(defs)
	inv := []string{"lamp", "coin"}
	s.Player.Inventory = inv

	Apply(s, defs, []types.Effect{eff("remove_item", "item", "lamp")}, Context{})

	if len(s.Player.Inventory) != 1 || s.Player.Inventory[0] != "coin" {
		t.Errorf("inventory = %v", s.Player.Inventory)
	}
	if inv[0] != "lamp" {
		t.Errorf("original slice was modified: %v", inv)
	}
}

func TestApply_MoveEntityAndPlayer(t *testing.T) {
	defs := testDefs()
	s := state.NewState(defs)

	events, _ := Apply(s, defs, []types.Effect{
		eff("move_entity", "entity", "coin", "room", "garden"),
		eff("move_player", "room", "garden"),
	}, Context{})

	if loc := state.EntityLocation(s, defs, "coin"); loc != "garden" {
		t.Errorf("coin location = %q", loc)
	}
	if s.Player.Location != "garden" {
		t.Errorf("player location = %q", s.Player.Location)
	}
	if len(events) != 2 || events[1].Type != "room_entered" {
		t.Errorf("events = %+v", events)
	}
}

func TestApply_SayInterpolates(t *testing.T) {
	defs := testDefs()
	s := state.NewState(defs)

	_, out := Apply(s, defs, []types.Effect{
		eff("say", "text", "You polish the {object.name} in the {player.location}."),
	}, Context{ObjectID: "lamp"})

	if len(out) != 1 || out[0] != "You polish the brass lamp in the hall." {
		t.Errorf("output = %v", out)
	}
}

func TestApply_StopAndUnknown(t *testing.T) {
	defs := testDefs()
	s := state.NewState(defs)

	_, out := Apply(s, defs, []types.Effect{
		eff("explode"),
		eff("set_flag", "flag", "lit", "value", true),
		eff("stop"),
		eff("say", "text", "unreachable"),
	}, Context{})

	if !s.Flags["lit"] {
		t.Error("flag should be set")
	}
	if len(out) != 0 {
		t.Errorf("output after stop = %v", out)
	}
	if Known("explode") || !Known("say") {
		t.Error("Known mismatch")
	}
}

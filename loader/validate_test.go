package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/dungeoncore/engine/state"
	"github.com/nathoo/dungeoncore/types"
)

func validDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{Title: "Test", Start: "hall"},
		Rooms: map[string]types.RoomDef{
			"hall":   {ID: "hall", Exits: map[string]string{"north": "garden"}},
			"garden": {ID: "garden", Exits: map[string]string{"south": "hall"}},
		},
		Entities: map[string]types.EntityDef{
			"key": {ID: "key", Kind: "item", Props: map[string]any{"location": "hall", "weight": 1}},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	warnings, err := validate(validDefs())
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestValidate_MissingTitleAndStart(t *testing.T) {
	defs := validDefs()
	defs.Game = types.GameDef{}
	_, err := validate(defs)
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(ve.Errors) != 2 {
		t.Errorf("errors = %v", ve.Errors)
	}
}

func TestValidate_NegativeCapacity(t *testing.T) {
	defs := validDefs()
	defs.Game.Capacity = -1
	if _, err := validate(defs); err == nil || !strings.Contains(err.Error(), "capacity") {
		t.Errorf("got %v", err)
	}
}

func TestValidate_FractionalWeight(t *testing.T) {
	defs := validDefs()
	defs.Entities["key"].Props["weight"] = 0.5
	if _, err := validate(defs); err == nil || !strings.Contains(err.Error(), "whole number") {
		t.Errorf("got %v", err)
	}
}

func TestValidate_DanglingLocationWarns(t *testing.T) {
	defs := validDefs()
	defs.Entities["key"].Props["location"] = "attic"
	warnings, err := validate(defs)
	if err != nil {
		t.Fatalf("dangling location should only warn: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], `"attic"`) {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestValidate_Reactions(t *testing.T) {
	defs := validDefs()
	key := defs.Entities["key"]
	key.Reactions = map[string][]types.Effect{
		"take": {
			{Type: "give_item", Params: map[string]any{"item": "{object}"}},
			{Type: "move_entity", Params: map[string]any{"entity": "key", "room": state.Nowhere}},
			{Type: "teleport", Params: map[string]any{}},
			{Type: "remove_item", Params: map[string]any{"item": "ghost"}},
		},
		"sing": {{Type: "say", Params: map[string]any{"text": "La."}}},
	}
	defs.Entities["key"] = key

	warnings, err := validate(defs)
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(ve.Errors) != 2 {
		t.Errorf("errors = %v", ve.Errors)
	}
	joined := strings.Join(ve.Errors, "\n")
	if !strings.Contains(joined, `unknown effect type "teleport"`) {
		t.Errorf("missing unknown effect error: %v", ve.Errors)
	}
	if !strings.Contains(joined, `undefined entity "ghost"`) {
		t.Errorf("missing undefined entity error: %v", ve.Errors)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], `"sing"`) {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestIsTemplate(t *testing.T) {
	if !isTemplate("{object}") {
		t.Error("expected {object} to be a template")
	}
	if isTemplate("key") {
		t.Error("expected key not to be a template")
	}
}

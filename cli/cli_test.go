package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/nathoo/dungeoncore/engine"
	"github.com/nathoo/dungeoncore/engine/save"
	"github.com/nathoo/dungeoncore/engine/state"
	"github.com/nathoo/dungeoncore/logging"
	"github.com/nathoo/dungeoncore/types"
)

// testDefs returns minimal game definitions for CLI testing.
func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{
			Title:   "Test Game",
			Author:  "Test",
			Version: "1.0",
			Start:   "hall",
			Intro:   "Welcome to the test.",
		},
		Rooms: map[string]types.RoomDef{
			"hall": {
				ID:          "hall",
				Description: "A grand hall.",
				Exits:       map[string]string{"north": "garden"},
			},
			"garden": {
				ID:          "garden",
				Description: "A peaceful garden.",
				Exits:       map[string]string{"south": "hall"},
			},
		},
		Entities: map[string]types.EntityDef{
			"key_1": {ID: "key_1", Kind: "item", Props: map[string]any{
				"name": "rusty key", "description": "An old key.", "location": "hall", "takeable": true,
			}},
			"key_2": {ID: "key_2", Kind: "item", Props: map[string]any{
				"name": "rusty key", "description": "An old key.", "location": "hall", "takeable": true,
			}},
		},
	}
}

func openStore(t *testing.T) *save.Store {
	t.Helper()
	st, err := save.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func newCLI(defs *state.Defs, store *save.Store, input string) (*CLI, *bytes.Buffer) {
	eng := engine.New(defs)
	eng.Logger = logging.Discard()
	var out bytes.Buffer
	c := New(eng, defs, store)
	c.In = strings.NewReader(input)
	c.Out = &out
	return c, &out
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	return newCLI(testDefs(), openStore(t), input)
}

func run(c *CLI) {
	c.Run(context.Background())
}

func TestCLI_IntroAndStartingRoom(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	run(c)

	output := out.String()
	if !strings.Contains(output, "Welcome to the test.") {
		t.Error("expected intro text in output")
	}
	if !strings.Contains(output, "A grand hall.") {
		t.Error("expected starting room description in output")
	}
	if c.Engine.State.TurnCount != 0 {
		t.Errorf("describing the start room should not take a turn, got %d", c.Engine.State.TurnCount)
	}
}

func TestCLI_Navigation(t *testing.T) {
	c, out := newTestCLI(t, "go north\n/quit\n")
	run(c)

	if !strings.Contains(out.String(), "A peaceful garden.") {
		t.Error("expected garden description after going north")
	}
}

func TestCLI_BulkTake(t *testing.T) {
	c, out := newTestCLI(t, "take all keys\ni\n/quit\n")
	run(c)

	output := out.String()
	if !strings.Contains(output, "You take 2 rusty keys.") {
		t.Errorf("expected bulk take message, got:\n%s", output)
	}
	if !strings.Contains(output, "You are carrying 2 rusty keys.") {
		t.Errorf("expected grouped inventory, got:\n%s", output)
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/quit\n")
	run(c)

	output := out.String()
	for _, want := range []string{"/save", "/load", "/saves", "/quit", "take all"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in help output", want)
		}
	}
}

func TestCLI_SaveAndLoad(t *testing.T) {
	defs := testDefs()
	store := openStore(t)

	c, out := newCLI(defs, store, "go north\n/save test\n/quit\n")
	run(c)
	if !strings.Contains(out.String(), "Game saved to test.") {
		t.Errorf("expected save confirmation, got:\n%s", out.String())
	}

	c2, out2 := newCLI(defs, store, "/load test\n/saves\n/quit\n")
	run(c2)

	loadOutput := out2.String()
	if !strings.Contains(loadOutput, "Game loaded from test (turn 1).") {
		t.Errorf("expected load confirmation, got:\n%s", loadOutput)
	}
	if !strings.Contains(loadOutput, "A peaceful garden.") {
		t.Error("expected garden description after loading save")
	}
	if !strings.Contains(loadOutput, "[test: turn 1,") {
		t.Errorf("expected slot listing, got:\n%s", loadOutput)
	}
	if c2.Engine.State.Player.Location != "garden" {
		t.Errorf("location = %q", c2.Engine.State.Player.Location)
	}
}

func TestCLI_LoadRejectsOtherGame(t *testing.T) {
	store := openStore(t)
	c, _ := newCLI(testDefs(), store, "/save\n/quit\n")
	run(c)

	other := testDefs()
	other.Game.Title = "Another Game"
	c2, out := newCLI(other, store, "/load\n/quit\n")
	run(c2)
	if !strings.Contains(out.String(), "Load failed") {
		t.Errorf("expected load failure, got:\n%s", out.String())
	}
}

func TestCLI_LoadNonexistent(t *testing.T) {
	c, out := newTestCLI(t, "/load nonexistent\n/quit\n")
	run(c)

	if !strings.Contains(out.String(), "Load failed: save slot not found") {
		t.Errorf("expected load failure message, got:\n%s", out.String())
	}
}

func TestCLI_NoStore(t *testing.T) {
	c, out := newCLI(testDefs(), nil, "/save\n/load\n/saves\n/quit\n")
	run(c)

	output := out.String()
	if !strings.Contains(output, "Saving is not available.") || !strings.Contains(output, "Loading is not available.") {
		t.Errorf("got:\n%s", output)
	}
}

func TestCLI_SavesEmpty(t *testing.T) {
	c, out := newTestCLI(t, "/saves\n/quit\n")
	run(c)
	if !strings.Contains(out.String(), "No saved games.") {
		t.Errorf("got:\n%s", out.String())
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/bogus\n/quit\n")
	run(c)

	if !strings.Contains(out.String(), "Unknown command") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\ntake all\n/trace\n/quit\n")
	run(c)

	output := out.String()
	if !strings.Contains(output, "Trace output enabled") {
		t.Error("expected trace enabled message")
	}
	if !strings.Contains(output, "[trace]   give_item") {
		t.Errorf("expected effect trace, got:\n%s", output)
	}
	if !strings.Contains(output, "Trace output disabled") {
		t.Error("expected trace disabled message")
	}
}

func TestCLI_StateCommand(t *testing.T) {
	c, out := newTestCLI(t, "/state\n/quit\n")
	run(c)

	output := out.String()
	if !strings.Contains(output, `"hall"`) {
		t.Error("expected location in state dump")
	}
	if !strings.Contains(output, "TurnCount") {
		t.Error("expected turn count in state dump")
	}
}

func TestCLI_EmptyInputAndComments(t *testing.T) {
	c, out := newTestCLI(t, "\n# a comment\n\n/quit\n")
	run(c)

	if strings.Contains(out.String(), "What do you want to do?") {
		t.Error("empty lines should be silently skipped by CLI")
	}
	if len(c.Engine.State.CommandLog) != 0 {
		t.Errorf("command log = %v", c.Engine.State.CommandLog)
	}
}

func TestCLI_EchoInput(t *testing.T) {
	c, out := newTestCLI(t, "wait\n")
	c.EchoInput = true
	run(c)
	if !strings.Contains(out.String(), "> wait\nTime passes.") {
		t.Errorf("got:\n%s", out.String())
	}
}

func TestCLI_Again_RepeatsLastCommand(t *testing.T) {
	for _, again := range []string{"again", "g"} {
		t.Run(again, func(t *testing.T) {
			c, out := newTestCLI(t, "look\n"+again+"\n/quit\n")
			run(c)

			// Start room + look + repeat.
			if count := strings.Count(out.String(), "A grand hall."); count != 3 {
				t.Errorf("expected 'A grand hall.' 3 times, got %d", count)
			}
		})
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, "again\n/quit\n")
	run(c)

	if !strings.Contains(out.String(), "Nothing to repeat") {
		t.Error("expected 'Nothing to repeat' when no prior command")
	}
}

func TestCLI_StopsOnCancelledContext(t *testing.T) {
	c, _ := newTestCLI(t, "wait\nwait\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Run(ctx)
	if c.Engine.State.TurnCount != 0 {
		t.Errorf("turns = %d", c.Engine.State.TurnCount)
	}
}

// Package cli provides the plain line-based front end: terminal I/O,
// output formatting, and meta-command dispatch.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/nathoo/dungeoncore/engine"
	"github.com/nathoo/dungeoncore/engine/save"
	"github.com/nathoo/dungeoncore/engine/state"
	"github.com/nathoo/dungeoncore/types"
)

const defaultSlot = "quicksave"

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Defs      *state.Defs
	Store     *save.Store // nil disables /save, /load and /saves
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine and save store.
func New(eng *engine.Engine, defs *state.Defs, store *save.Store) *CLI {
	return &CLI{
		Engine: eng,
		Defs:   defs,
		Store:  store,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run shows the intro and the starting room, then loops over input lines
// until /quit, end of input, or ctx is cancelled.
func (c *CLI) Run(ctx context.Context) {
	if c.Defs.Game.Intro != "" {
		c.printLine(c.Defs.Game.Intro)
		c.printLine("")
	}
	c.printLines(c.Engine.Look())

	scanner := bufio.NewScanner(c.In)
	for ctx.Err() == nil {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		// Blank lines and # comments are skipped so scripts can be annotated.
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(ctx, input) {
				return
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(ctx, input)
		c.printLines(result.Output)
		if c.Trace {
			c.printTrace(result)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true
	case "/save":
		c.cmdSave(ctx, arg)
	case "/load":
		c.cmdLoad(ctx, arg)
	case "/saves":
		c.cmdSaves(ctx)
	case "/help":
		c.cmdHelp()
	case "/state":
		c.printLine(spew.Sdump(c.Engine.State))
	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}
	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
	return false
}

func (c *CLI) cmdSave(ctx context.Context, slot string) {
	if c.Store == nil {
		c.printSystem("Saving is not available.")
		return
	}
	if slot == "" {
		slot = defaultSlot
	}
	data, err := save.Save(c.Engine.State, c.Defs)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	if _, err := c.Store.Put(ctx, slot, data); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Game saved to %s.", slot))
}

func (c *CLI) cmdLoad(ctx context.Context, slot string) {
	if c.Store == nil {
		c.printSystem("Loading is not available.")
		return
	}
	if slot == "" {
		slot = defaultSlot
	}
	sd, err := LoadSlot(ctx, c.Store, c.Defs, slot)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	save.ApplySave(c.Engine.State, sd)
	c.printSystem(fmt.Sprintf("Game loaded from %s (turn %d).", slot, sd.Turn))
	c.printLines(c.Engine.Look())
}

func (c *CLI) cmdSaves(ctx context.Context) {
	if c.Store == nil {
		c.printSystem("Saving is not available.")
		return
	}
	slots, err := c.Store.List(ctx)
	if err != nil {
		c.printSystem(fmt.Sprintf("Listing saves failed: %v", err))
		return
	}
	if len(slots) == 0 {
		c.printSystem("No saved games.")
		return
	}
	for _, s := range slots {
		c.printSystem(fmt.Sprintf("%s: turn %d, %s", s.Name, s.Turn, s.SavedAt.Local().Format("2006-01-02 15:04")))
	}
}

// LoadSlot reads a slot and checks it belongs to the running game.
func LoadSlot(ctx context.Context, store *save.Store, defs *state.Defs, slot string) (*save.SaveData, error) {
	data, err := store.Get(ctx, slot)
	if err != nil {
		return nil, err
	}
	sd, err := save.Load(data)
	if err != nil {
		return nil, err
	}
	if err := sd.CheckGame(defs); err != nil {
		return nil, err
	}
	return sd, nil
}

// HelpLines is the text shown by /help.
var HelpLines = []string{
	"System:",
	"  /save [slot]  Save game (default: quicksave)",
	"  /load [slot]  Load game (default: quicksave)",
	"  /saves        List saved games",
	"  /quit         Exit game",
	"  /help         Show this help",
	"  /state        Debug: dump current state",
	"  /trace        Toggle debug trace output",
	"",
	"Game commands:",
	"  look (l)               Describe the room",
	"  examine <thing> (x)    Look closely at something",
	"  go <dir>               Move (or just type n/s/e/w/u/d)",
	"  take <item>            Pick something up",
	"  take all [<items>]     Pick up everything, or everything of a kind",
	"  drop <item> / drop all Put things down",
	"  inventory (i)          Check what you're carrying",
	"  fibonacci <n>          Compute a Fibonacci number",
	"  wait (z)               Let time pass",
	"  again (g)              Repeat your last command",
}

func (c *CLI) cmdHelp() {
	c.printLines(HelpLines)
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Effects) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Effects: %d", len(result.Effects)))
		for _, e := range result.Effects {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Params))
		}
	}
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s", e.Type))
		}
	}
}

func (c *CLI) printLines(lines []string) {
	for _, line := range lines {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

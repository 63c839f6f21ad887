// Package engine provides the Step() orchestrator that wires together
// parsing, resolution and effects into a single turn.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nathoo/dungeoncore/engine/effects"
	"github.com/nathoo/dungeoncore/engine/numeric"
	"github.com/nathoo/dungeoncore/engine/parser"
	"github.com/nathoo/dungeoncore/engine/resolve"
	"github.com/nathoo/dungeoncore/engine/state"
	"github.com/nathoo/dungeoncore/metrics"
	"github.com/nathoo/dungeoncore/types"
)

// Engine holds the game definitions and mutable state.
type Engine struct {
	Defs   *state.Defs
	State  *types.State
	Logger *slog.Logger
	Tracer trace.Tracer

	// FibonacciTimeout bounds the fibonacci command.
	FibonacciTimeout time.Duration
	// Columns is the width long computed output is broken at.
	Columns int
}

// New creates a new engine from definitions.
func New(defs *state.Defs) *Engine {
	return &Engine{
		Defs:             defs,
		State:            state.NewState(defs),
		Logger:           slog.Default(),
		Tracer:           noop.NewTracerProvider().Tracer("engine"),
		FibonacciTimeout: time.Second,
		Columns:          80,
	}
}

var knownVerbs = map[string]bool{
	"look": true, "go": true, "inventory": true, "examine": true,
	"take": true, "drop": true, "wait": true, "fibonacci": true,
}

// Step processes one player command and returns the result.
func (e *Engine) Step(ctx context.Context, input string) types.Result {
	var result types.Result

	intent := parser.Parse(input)
	e.State.CommandLog = append(e.State.CommandLog, input)

	ctx, span := e.Tracer.Start(ctx, "engine.step", trace.WithAttributes(
		attribute.String("input", input),
		attribute.String("verb", intent.Verb),
		attribute.Bool("all", intent.All),
		attribute.Int("turn", e.State.TurnCount),
	))
	defer span.End()

	if intent.Verb == "" {
		result.Output = append(result.Output, "What do you want to do?")
		return result
	}

	verbLabel := intent.Verb
	if !knownVerbs[verbLabel] {
		verbLabel = "other"
	}
	metrics.EngineSteps.WithLabelValues(verbLabel).Inc()

	// Resolve per verb. Directions and numbers are not entities.
	var res resolve.Result
	var resolveErr error
	switch intent.Verb {
	case "go", "fibonacci", "inventory", "wait":
	case "look":
		if intent.Object != "" {
			intent.Verb = "examine"
			res, resolveErr = resolve.Resolve(e.State, e.Defs, intent)
		}
	case "take":
		scope := resolve.Visible
		if intent.All {
			scope = resolve.Room
		}
		res, resolveErr = resolve.ResolveIn(e.State, e.Defs, intent, scope)
	case "drop":
		res, resolveErr = resolve.ResolveIn(e.State, e.Defs, intent, resolve.Inventory)
	default:
		res, resolveErr = resolve.Resolve(e.State, e.Defs, intent)
	}
	span.SetAttributes(attribute.String("outcome", res.Outcome.String()))

	if resolveErr != nil {
		e.Logger.Debug("resolution failed", "input", input, "error", resolveErr)
		if msg := e.sceneryFallback(intent, resolveErr); msg != "" {
			result.Output = append(result.Output, msg)
		} else {
			result.Output = append(result.Output, resolveErr.Error())
		}
		e.State.TurnCount++
		return result
	}

	effs, out := e.builtinBehavior(ctx, intent, res)
	result.Output = append(result.Output, out...)

	ectx := effects.Context{Verb: intent.Verb, ObjectID: res.ObjectID, TargetID: res.TargetID}
	evts, output := effects.Apply(e.State, e.Defs, effs, ectx)
	result.Effects = append(result.Effects, effs...)
	result.Events = append(result.Events, evts...)
	result.Output = append(result.Output, output...)

	for _, id := range reactors(intent.Verb, res, effs) {
		reaction := e.Defs.Entities[id].Reactions[intent.Verb]
		if len(reaction) == 0 {
			continue
		}
		rctx := effects.Context{Verb: intent.Verb, ObjectID: id, TargetID: res.TargetID}
		evts, output := effects.Apply(e.State, e.Defs, reaction, rctx)
		result.Effects = append(result.Effects, reaction...)
		result.Events = append(result.Events, evts...)
		result.Output = append(result.Output, output...)
	}

	e.State.TurnCount++
	e.Logger.Debug("step", "input", input, "verb", intent.Verb, "objects", res.Objects,
		"effects", len(result.Effects), "turn", e.State.TurnCount)
	return result
}

// builtinBehavior provides the default verb handling.
// Returns effects to apply and direct output text.
func (e *Engine) builtinBehavior(ctx context.Context, intent types.Intent, res resolve.Result) ([]types.Effect, []string) {
	switch intent.Verb {
	case "go":
		return e.builtinGo(intent.Object)
	case "look":
		return nil, e.describeRoom(e.State.Player.Location)
	case "inventory":
		return nil, e.builtinInventory()
	case "examine":
		return nil, e.builtinExamine(res.Objects)
	case "take":
		return e.builtinTake(res)
	case "drop":
		return e.builtinDrop(res)
	case "wait":
		return nil, []string{"Time passes."}
	case "fibonacci":
		return nil, e.builtinFibonacci(ctx, intent.Object)
	default:
		return nil, []string{fmt.Sprintf("I don't know how to %s.", intent.Verb)}
	}
}

func (e *Engine) builtinGo(direction string) ([]types.Effect, []string) {
	if direction == "" {
		return nil, []string{"Go where?"}
	}
	target, ok := state.RoomExits(e.Defs, e.State.Player.Location)[direction]
	if !ok {
		return nil, []string{"You can't go that way."}
	}
	effs := []types.Effect{
		{Type: "move_player", Params: map[string]any{"room": target}},
	}
	return effs, e.describeRoom(target)
}

func (e *Engine) builtinInventory() []string {
	inv := e.State.Player.Inventory
	if len(inv) == 0 {
		return []string{"You are carrying nothing."}
	}
	return []string{"You are carrying " + e.describeGroup(inv) + "."}
}

func (e *Engine) builtinExamine(ids []string) []string {
	if len(ids) == 0 {
		return []string{"Examine what?"}
	}
	var out []string
	for _, id := range ids {
		desc, ok := state.GetEntityString(e.State, e.Defs, id, "description")
		if !ok || desc == "" {
			desc = "You see nothing special about it."
		}
		if len(ids) > 1 {
			desc = e.entityName(id) + ": " + desc
		}
		out = append(out, desc)
	}
	return out
}

// builtinTake picks up the resolved objects. A bulk take skips what cannot
// be carried instead of failing the whole command.
func (e *Engine) builtinTake(res resolve.Result) ([]types.Effect, []string) {
	if len(res.Objects) == 0 {
		return nil, []string{"Take what?"}
	}
	bulk := res.Outcome == resolve.Bulk
	weight := state.CarriedWeight(e.State, e.Defs)

	var effs []types.Effect
	var taken, skipped []string
	var out []string
	for _, id := range res.Objects {
		reason := ""
		w := state.GetEntityInt(e.State, e.Defs, id, "weight")
		switch {
		case state.HasItem(e.State, id):
			reason = "You already have that."
		case !e.takeable(id):
			reason = "You can't take that."
		case e.Defs.Game.Capacity > 0 && weight+w > e.Defs.Game.Capacity:
			reason = "You can't carry any more."
		}
		if reason != "" {
			if !bulk {
				return nil, []string{reason}
			}
			skipped = append(skipped, id)
			continue
		}
		weight += w
		taken = append(taken, id)
		effs = append(effs, types.Effect{Type: "give_item", Params: map[string]any{"item": id}})
	}

	if len(taken) > 0 {
		out = append(out, "You take "+e.describeGroup(taken)+".")
	}
	if len(skipped) > 0 {
		out = append(out, "You leave "+e.describeGroup(skipped)+".")
	}
	return effs, out
}

func (e *Engine) builtinDrop(res resolve.Result) ([]types.Effect, []string) {
	if len(res.Objects) == 0 {
		return nil, []string{"Drop what?"}
	}
	var effs []types.Effect
	for _, id := range res.Objects {
		effs = append(effs,
			types.Effect{Type: "remove_item", Params: map[string]any{"item": id}},
			types.Effect{Type: "move_entity", Params: map[string]any{"entity": id, "room": e.State.Player.Location}},
		)
	}
	return effs, []string{"You drop " + e.describeGroup(res.Objects) + "."}
}

func (e *Engine) builtinFibonacci(ctx context.Context, arg string) []string {
	if arg == "" {
		return []string{"Fibonacci of what?"}
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return []string{"Invalid number format or value."}
	}

	ctx, cancel := context.WithTimeout(ctx, e.FibonacciTimeout)
	defer cancel()
	v, err := numeric.Fibonacci(ctx, n)
	if errors.Is(err, numeric.ErrTimeout) {
		return []string{"Calculation exceeded the time limit."}
	}
	if err != nil {
		return []string{err.Error()}
	}
	return []string{numeric.BreakColumns(fmt.Sprintf("fibonacci(%d) = %s", n, v), e.Columns)}
}

// reactors lists the objects a verb succeeded on, whose reactions run
// after the built-in behaviour.
func reactors(verb string, res resolve.Result, effs []types.Effect) []string {
	var marker string
	switch verb {
	case "examine":
		return res.Objects
	case "take":
		marker = "give_item"
	case "drop":
		marker = "remove_item"
	default:
		return nil
	}
	var ids []string
	for _, eff := range effs {
		if id, ok := eff.Params["item"].(string); ok && eff.Type == marker {
			ids = append(ids, id)
		}
	}
	return ids
}

func (e *Engine) takeable(id string) bool {
	v, _ := state.GetEntityProp(e.State, e.Defs, id, "takeable")
	return v == true
}

// sceneryFallback answers for nouns that are not entities but appear in the
// room description, instead of "you don't see that here".
func (e *Engine) sceneryFallback(intent types.Intent, err error) string {
	var nf *resolve.NotFoundError
	if !errors.As(err, &nf) || nf.Known || intent.Object == "" {
		return ""
	}
	room, ok := e.Defs.Rooms[e.State.Player.Location]
	if !ok {
		return ""
	}
	desc := strings.ToLower(room.Description)
	obj := strings.ToLower(intent.Object)
	if !strings.Contains(desc, obj) {
		return ""
	}
	switch intent.Verb {
	case "examine":
		return fmt.Sprintf("You see nothing special about the %s.", intent.Object)
	case "take":
		return fmt.Sprintf("You can't take the %s.", intent.Object)
	default:
		return fmt.Sprintf("You can't do anything useful with the %s.", intent.Object)
	}
}

// Look describes the player's room without taking a turn.
func (e *Engine) Look() []string {
	return e.describeRoom(e.State.Player.Location)
}

// describeRoom produces the standard room description output.
func (e *Engine) describeRoom(roomID string) []string {
	room, ok := e.Defs.Rooms[roomID]
	if !ok {
		return []string{"You are somewhere unknown."}
	}

	output := []string{room.Description}

	if entities := state.EntitiesInRoom(e.State, e.Defs, roomID); len(entities) > 0 {
		output = append(output, "You see "+e.describeGroup(entities)+".")
	}

	exits := state.RoomExits(e.Defs, roomID)
	if len(exits) > 0 {
		dirs := make([]string, 0, len(exits))
		for dir := range exits {
			dirs = append(dirs, dir)
		}
		sort.Strings(dirs)
		output = append(output, "Exits: "+strings.Join(dirs, ", ")+".")
	}

	return output
}

func (e *Engine) entityName(entityID string) string {
	return state.EntityName(e.State, e.Defs, entityID).Singular()
}

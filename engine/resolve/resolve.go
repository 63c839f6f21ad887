// Package resolve maps the nouns of a parsed intent to entity IDs.
//
// Every candidate the noun could refer to is collected into a match.Set;
// the set's mode and distinct-name count then decide between no match, a
// unique match, an ambiguous match, and a bulk match over all candidates.
package resolve

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/nathoo/dungeoncore/engine/match"
	"github.com/nathoo/dungeoncore/engine/state"
	"github.com/nathoo/dungeoncore/metrics"
	"github.com/nathoo/dungeoncore/types"
)

// Entity is a visible entity as a match candidate.
type Entity struct {
	ID   string
	name match.Name
}

// NewEntity pairs an entity ID with the name it is selected by.
func NewEntity(id string, name match.Name) Entity {
	return Entity{ID: id, name: name}
}

func (e Entity) Name() match.Name { return e.name }

// Outcome classifies a resolution.
type Outcome int

const (
	NoMatch Outcome = iota
	Unique
	Ambiguous
	Bulk
)

func (o Outcome) String() string {
	switch o {
	case Unique:
		return "unique"
	case Ambiguous:
		return "ambiguous"
	case Bulk:
		return "bulk"
	default:
		return "none"
	}
}

// Scope selects where candidates are looked for.
type Scope int

const (
	Visible   Scope = iota // current room, then inventory
	Room                   // current room only
	Inventory              // carried items only
)

// Result holds the resolved entity IDs for an intent.
type Result struct {
	Objects  []string // every resolved object, in match order
	ObjectID string   // first of Objects, "" if none
	TargetID string
	Outcome  Outcome // outcome of the object noun
}

// NotFoundError indicates no entity matched a name.
type NotFoundError struct {
	Name  string
	Known bool // the name belongs to some entity elsewhere in the world
}

func (e *NotFoundError) Error() string {
	switch {
	case e.Name == "":
		return "There is nothing here."
	case e.Known:
		return fmt.Sprintf("You don't see any %s here.", e.Name)
	default:
		return fmt.Sprintf("You don't see %q here.", e.Name)
	}
}

// AmbiguityError indicates a disjoint query matched entities with
// different names.
type AmbiguityError struct {
	Query string
	Names []match.Name
}

func (e *AmbiguityError) Error() string {
	names := make([]string, len(e.Names))
	for i, n := range e.Names {
		names[i] = n.Singular()
	}
	return fmt.Sprintf("Which %s? There are %d different ones here: %s.",
		e.Query, len(e.Names), strings.Join(names, ", "))
}

// Resolve maps object/target names from an intent to entity IDs, looking
// in the current room and the inventory.
func Resolve(s *types.State, defs *state.Defs, intent types.Intent) (Result, error) {
	return ResolveIn(s, defs, intent, Visible)
}

// ResolveIn is Resolve restricted to a scope. The target noun is always
// resolved as a single disjoint match.
func ResolveIn(s *types.State, defs *state.Defs, intent types.Intent, scope Scope) (Result, error) {
	var res Result

	if intent.Object != "" || intent.All {
		set := Candidates(s, defs, intent.Object, intent.All, scope)
		outcome, picked, err := Decide(set, KnownName(s, defs, intent.Object))
		record(intent, set, outcome)
		res.Outcome = outcome
		if err != nil {
			return res, annotate(err, s, defs, intent.Object)
		}
		for _, e := range picked {
			res.Objects = append(res.Objects, e.ID)
		}
		res.ObjectID = res.Objects[0]
	}

	if intent.Target != "" {
		set := Candidates(s, defs, intent.Target, false, Visible)
		_, picked, err := Decide(set, KnownName(s, defs, intent.Target))
		if err != nil {
			return res, annotate(err, s, defs, intent.Target)
		}
		res.TargetID = picked[0].ID
	}

	return res, nil
}

// Candidates collects, in insertion order, every entity in scope whose name
// matches query. With all set the result is conjunctive, and an empty query
// matches everything in scope.
func Candidates(s *types.State, defs *state.Defs, query string, all bool, scope Scope) *match.Set[Entity] {
	set := match.New[Entity](!all)
	q := strings.ToLower(strings.TrimSpace(query))

	for _, id := range scopeIDs(s, defs, scope) {
		if (all && q == "") || matchesName(s, defs, id, q) {
			set.Add(NewEntity(id, state.EntityName(s, defs, id)))
		}
	}
	return set
}

// Decide classifies a candidate set. When a disjoint set spans several
// names and one of them is exactly the name the player typed, only the
// candidates carrying that name are kept.
func Decide(set *match.Set[Entity], exact *match.Name) (Outcome, []Entity, error) {
	switch {
	case set.Len() == 0:
		return NoMatch, nil, &NotFoundError{}
	case !set.Disjoint():
		return Bulk, set.ToSlice(), nil
	case set.DistinctNames() == 1:
		// Same-named entities are interchangeable; take the first.
		first, _ := set.At(0)
		return Unique, []Entity{first}, nil
	}

	if exact != nil && set.HasMatchWithName(*exact) {
		n := *exact
		return Decide(set.Filter(func(e Entity) bool { return e.Name() == n }), nil)
	}
	return Ambiguous, nil, &AmbiguityError{Names: set.Names()}
}

// KnownName returns the name of the first defined entity, by ID, whose
// singular form is query, wherever that entity is.
func KnownName(s *types.State, defs *state.Defs, query string) *match.Name {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	for _, id := range slices.Sorted(maps.Keys(defs.Entities)) {
		n := state.EntityName(s, defs, id)
		if strings.ToLower(n.Singular()) == q {
			return &n
		}
	}
	return nil
}

// annotate fills the query into errors returned by Decide.
func annotate(err error, s *types.State, defs *state.Defs, query string) error {
	switch e := err.(type) {
	case *NotFoundError:
		e.Name = query
		e.Known = KnownName(s, defs, query) != nil
	case *AmbiguityError:
		e.Query = query
	}
	return err
}

func record(intent types.Intent, set *match.Set[Entity], outcome Outcome) {
	metrics.ResolveOutcomes.WithLabelValues(outcome.String()).Inc()
	metrics.ResolveDistinctNames.Observe(float64(set.DistinctNames()))
	slog.Debug("resolved noun",
		"verb", intent.Verb,
		"query", intent.Object,
		"all", intent.All,
		"candidates", set.Len(),
		"distinct_names", set.DistinctNames(),
		"outcome", outcome.String(),
	)
}

func scopeIDs(s *types.State, defs *state.Defs, scope Scope) []string {
	var ids []string
	if scope != Inventory {
		ids = append(ids, state.EntitiesInRoom(s, defs, s.Player.Location)...)
	}
	if scope != Room {
		for _, id := range s.Player.Inventory {
			if !containsStr(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// matchesName checks a lowercased query against an entity's singular and
// plural names, the words of those names, and the entity ID.
// e.g. "sword", "swords", "iron sword" and "iron_sword" all match an
// entity named "Iron Sword".
func matchesName(s *types.State, defs *state.Defs, id string, q string) bool {
	if q == "" {
		return false
	}
	n := state.EntityName(s, defs, id)
	for _, form := range []string{n.Singular(), n.Plural()} {
		form = strings.ToLower(form)
		if form == q {
			return true
		}
		for _, word := range strings.Fields(form) {
			if word == q {
				return true
			}
		}
	}
	idLower := strings.ToLower(id)
	return idLower == q || strings.ReplaceAll(q, " ", "_") == idLower
}

func containsStr(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

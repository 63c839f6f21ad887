package engine

import (
	"strings"

	"github.com/nathoo/dungeoncore/engine/match"
	"github.com/nathoo/dungeoncore/engine/resolve"
	"github.com/nathoo/dungeoncore/engine/state"
)

// describeGroup names a list of entities, folding same-named ones into a
// count: "2 iron swords, a steel sword and a shield".
func (e *Engine) describeGroup(ids []string) string {
	set := match.New[resolve.Entity](false)
	for _, id := range ids {
		set.Add(resolve.NewEntity(id, state.EntityName(e.State, e.Defs, id)))
	}

	counts := make(map[match.Name]int, set.DistinctNames())
	for _, ent := range set.All() {
		counts[ent.Name()]++
	}

	parts := make([]string, 0, set.DistinctNames())
	for _, n := range set.Names() {
		parts = append(parts, n.Quantified(counts[n]))
	}
	return joinAnd(parts)
}

func joinAnd(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}

package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/dungeoncore/engine/numeric"
	"github.com/nathoo/dungeoncore/engine/state"
)

const gaugeWidth = 10

// roomDisplayName derives a human-readable name from a room ID.
// "great_hall" -> "Great Hall".
func roomDisplayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// weightGauge renders carried weight against capacity as a bar, e.g.
// "[######----] 6/10". Without a capacity only the weight is shown.
func weightGauge(carried, capacity int) string {
	if capacity <= 0 {
		return fmt.Sprintf("Load %d", carried)
	}
	fraction := min(float64(carried)/float64(capacity), 1)
	filled := int(numeric.WeightedAverage(0, gaugeWidth, fraction) + 0.5)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", gaugeWidth-filled)

	style := styleGaugeOK
	switch {
	case numeric.FuzzyCompare(fraction, 1) >= 0:
		style = styleGaugeFull
	case numeric.FuzzyCompare(fraction, 0.75) >= 0:
		style = styleGaugeHeavy
	}
	return style.Render("["+bar+"]") + fmt.Sprintf(" %d/%d", carried, capacity)
}

// renderStatusBar produces a full-width status line: room and exits on the
// left, carried weight and turn count on the right.
func (m Model) renderStatusBar() string {
	s := m.engine.State

	exits := slices.Sorted(maps.Keys(state.RoomExits(m.defs, s.Player.Location)))
	left := fmt.Sprintf(" %s | Exits: %s", roomDisplayName(s.Player.Location), strings.Join(exits, ","))

	gauge := weightGauge(state.CarriedWeight(s, m.defs), m.defs.Game.Capacity)
	right := fmt.Sprintf("%s | T:%d ", gauge, s.TurnCount)
	if lipgloss.Width(left)+lipgloss.Width(right)+2 > m.width {
		right = fmt.Sprintf("T:%d ", s.TurnCount)
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return styleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

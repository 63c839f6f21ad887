package parser

import (
	"testing"

	"github.com/nathoo/dungeoncore/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Intent
	}{
		// Empty / whitespace
		{name: "empty string", input: "", want: types.Intent{}},
		{name: "whitespace only", input: "   ", want: types.Intent{}},

		// Bare verbs
		{name: "look", input: "look", want: types.Intent{Verb: "look"}},
		{name: "inventory alias", input: "i", want: types.Intent{Verb: "inventory"}},
		{name: "wait alias", input: "z", want: types.Intent{Verb: "wait"}},

		// Directions
		{name: "short direction", input: "n", want: types.Intent{Verb: "go", Object: "north"}},
		{name: "full direction", input: "South", want: types.Intent{Verb: "go", Object: "south"}},
		{name: "go direction", input: "go east", want: types.Intent{Verb: "go", Object: "east"}},
		{name: "walk alias", input: "walk west", want: types.Intent{Verb: "go", Object: "west"}},

		// Objects
		{name: "take object", input: "take sword", want: types.Intent{Verb: "take", Object: "sword"}},
		{name: "article stripped", input: "take the iron sword", want: types.Intent{Verb: "take", Object: "iron sword"}},
		{name: "get alias", input: "GET A Lamp", want: types.Intent{Verb: "take", Object: "lamp"}},
		{name: "pick up", input: "pick up the coin", want: types.Intent{Verb: "take", Object: "coin"}},
		{name: "look at", input: "look at the statue", want: types.Intent{Verb: "examine", Object: "statue"}},
		{name: "put down", input: "put down lamp", want: types.Intent{Verb: "drop", Object: "lamp"}},
		{name: "x alias", input: "x rack", want: types.Intent{Verb: "examine", Object: "rack"}},

		// Quantifiers
		{name: "take all swords", input: "take all swords", want: types.Intent{Verb: "take", Object: "swords", All: true}},
		{name: "all of the", input: "take all of the coins", want: types.Intent{Verb: "take", Object: "coins", All: true}},
		{name: "bare all", input: "take all", want: types.Intent{Verb: "take", All: true}},
		{name: "every", input: "drop every knife", want: types.Intent{Verb: "drop", Object: "knife", All: true}},
		{name: "quantifier only at head", input: "take sword of all", want: types.Intent{Verb: "take", Object: "sword of all"}},

		// Prepositions
		{name: "object and target", input: "put coin in box", want: types.Intent{Verb: "put", Object: "coin", Target: "box"}},
		{name: "all with target", input: "put all coins into the chest", want: types.Intent{Verb: "put", Object: "coins", Target: "chest", All: true}},

		// Numbers pass through as the object
		{name: "fibonacci", input: "fibonacci 30", want: types.Intent{Verb: "fibonacci", Object: "30"}},
		{name: "fib alias", input: "fib 5", want: types.Intent{Verb: "fibonacci", Object: "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

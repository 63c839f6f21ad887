// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strings"

	"github.com/nathoo/dungeoncore/types"
)

var directionExpansions = map[string]string{
	"n": "north", "s": "south", "e": "east", "w": "west",
	"ne": "northeast", "nw": "northwest", "se": "southeast", "sw": "southwest",
	"u": "up", "d": "down",
}

var directionNames = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
	"northeast": true, "northwest": true, "southeast": true, "southwest": true,
	"up": true, "down": true,
}

var verbAliases = map[string]string{
	"l":        "look",
	"x":        "examine",
	"inspect":  "examine",
	"check":    "examine",
	"read":     "examine",
	"walk":     "go",
	"run":      "go",
	"move":     "go",
	"get":      "take",
	"grab":     "take",
	"collect":  "take",
	"discard":  "drop",
	"inv":      "inventory",
	"i":        "inventory",
	"z":        "wait",
	"fib":      "fibonacci",
	"rest":     "wait",
	"describe": "examine",
}

var prepositions = map[string]bool{
	"on": true, "at": true, "to": true,
	"with": true, "in": true, "from": true,
	"into": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// quantifiers turn the object into a conjunctive query.
var quantifiers = map[string]bool{
	"all": true, "every": true, "each": true, "both": true,
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	words := strings.Fields(strings.ToLower(input))
	if len(words) == 0 {
		return types.Intent{}
	}

	if len(words) == 1 {
		if dir, ok := directionExpansions[words[0]]; ok {
			return types.Intent{Verb: "go", Object: dir}
		}
		if directionNames[words[0]] {
			return types.Intent{Verb: "go", Object: words[0]}
		}
	}

	words = expandMultiWordVerbs(words)
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	intent := types.Intent{Verb: words[0]}
	object, target := splitOnPreposition(stripArticles(words[1:]))
	intent.All, object = stripQuantifier(object)
	intent.Object = strings.Join(object, " ")
	intent.Target = strings.Join(target, " ")
	return intent
}

// expandMultiWordVerbs handles "look at", "pick up", "put down".
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] + " " + words[1] {
	case "look at", "look in":
		return append([]string{"examine"}, words[2:]...)
	case "pick up":
		return append([]string{"take"}, words[2:]...)
	case "put down":
		return append([]string{"drop"}, words[2:]...)
	}
	return words
}

func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

// stripQuantifier removes a leading quantifier ("all swords", "all of the
// swords") and reports whether one was present.
func stripQuantifier(words []string) (bool, []string) {
	if len(words) == 0 || !quantifiers[words[0]] {
		return false, words
	}
	words = words[1:]
	if len(words) > 0 && words[0] == "of" {
		words = words[1:]
	}
	return true, words
}

// splitOnPreposition splits words on the first preposition.
// Words before it are the object, words after it the target.
func splitOnPreposition(words []string) (object, target []string) {
	for i, w := range words {
		if prepositions[w] {
			return words[:i], words[i+1:]
		}
	}
	return words, nil
}

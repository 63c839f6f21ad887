package match

import "fmt"

// Name is the identity an entity is selected by. Values compare with ==
// and can be used as map keys; two entities share a name iff their Name
// values are equal.
type Name struct {
	singular string
	plural   string
}

// NewName creates a name whose plural is the singular with an "s" appended.
func NewName(singular string) Name {
	return Name{singular: singular, plural: singular + "s"}
}

// NewNameWithPlural creates a name with an irregular plural form.
func NewNameWithPlural(singular, plural string) Name {
	return Name{singular: singular, plural: plural}
}

func (n Name) Singular() string { return n.singular }
func (n Name) Plural() string   { return n.plural }
func (n Name) String() string   { return n.singular }

// Quantified renders the name for a count: "a sword", "an axe", "3 swords".
func (n Name) Quantified(count int) string {
	switch {
	case count == 1:
		return article(n.singular) + " " + n.singular
	case count <= 0:
		return "no " + n.plural
	default:
		return fmt.Sprintf("%d %s", count, n.plural)
	}
}

func article(word string) string {
	if word == "" {
		return "a"
	}
	switch word[0] {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return "an"
	}
	return "a"
}

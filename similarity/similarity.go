// Package similarity provides string similarity functions scored in [0,1].
package similarity

import (
	"sort"
	"strings"

	"github.com/teranos/erbench/errors"
)

// Func scores the similarity of two strings in [0,1]; 1 means identical.
type Func func(a, b string) float64

// Registered function names, as used in configuration.
const (
	NameLevenshtein = "levenshtein"
	NameDice        = "dice"
	NameMongeElkan  = "monge_elkan"
)

var registry = map[string]Func{
	NameLevenshtein: Levenshtein,
	NameDice:        Dice,
	NameMongeElkan:  MongeElkan,
}

// Lookup resolves a configured function name.
func Lookup(name string) (Func, error) {
	fn, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.WithHintf(
			errors.NewInvalidConfig("unknown similarity function %q", name),
			"available: %s", strings.Join(Names(), ", "))
	}
	return fn, nil
}

// Names lists the registered function names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

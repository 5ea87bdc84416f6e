// Package phase is the closed catalogue of tournament phases: eight groups and five knockout rounds.
package phase

import "strings"

// Coarse selections.
const (
	All      = "all"
	Group    = "group"
	Knockout = "knockout"
)

// Class is the coarse classification of a category label.
type Class int

const (
	Unknown Class = iota
	GroupStage
	KnockoutStage
)

func (c Class) String() string {
	switch c {
	case GroupStage:
		return Group
	case KnockoutStage:
		return Knockout
	default:
		return "unknown"
	}
}

// Groups and KnockoutRounds are listed in tournament order.
var (
	Groups         = []string{"Group A", "Group B", "Group C", "Group D", "Group E", "Group F", "Group G", "Group H"}
	KnockoutRounds = []string{"Round of 16", "Quarter-final", "Semi-final", "Play-off for third place", "Final"}
)

var catalogue = func() map[string]string {
	m := make(map[string]string, len(Groups)+len(KnockoutRounds))
	for _, g := range Groups {
		m[fold(g)] = g
	}
	for _, k := range KnockoutRounds {
		m[fold(k)] = k
	}
	return m
}()

func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Canonical maps a free-text label onto its catalogue spelling ("group a" -> "Group A").
// ok is false for labels outside the catalogue.
func Canonical(category string) (string, bool) {
	c, ok := catalogue[fold(category)]
	return c, ok
}

// Classify places a category in the group or knockout stage. Labels outside the
// catalogue are Unknown rather than guessed from a prefix.
func Classify(category string) Class {
	c, ok := Canonical(category)
	if !ok {
		return Unknown
	}
	if strings.HasPrefix(c, "Group ") {
		return GroupStage
	}
	return KnockoutStage
}

// IsGroup reports whether the label is one of the eight groups.
func IsGroup(category string) bool { return Classify(category) == GroupStage }

// Letter returns "A".."H" for a group label, "" otherwise.
func Letter(category string) string {
	c, ok := Canonical(category)
	if !ok || !strings.HasPrefix(c, "Group ") {
		return ""
	}
	return strings.TrimPrefix(c, "Group ")
}

// MainOptions are the coarse selector values.
func MainOptions() []string { return []string{All, Group, Knockout} }

// ValidMain reports whether main is one of All, Group, Knockout.
func ValidMain(main string) bool {
	return main == All || main == Group || main == Knockout
}

// DetailOptions rebuilds the fine option list for a coarse selection. The first entry is
// always All; for All itself that is the only entry.
func DetailOptions(main string) []string {
	out := []string{All}
	switch main {
	case Group:
		out = append(out, Groups...)
	case Knockout:
		out = append(out, KnockoutRounds...)
	}
	return out
}

// ReconcileDetail keeps detail when it is still offered under main and resets it to All otherwise.
func ReconcileDetail(main, detail string) string {
	if detail == All {
		return All
	}
	c, ok := Canonical(detail)
	if !ok {
		return All
	}
	for _, o := range DetailOptions(main) {
		if o == c {
			return c
		}
	}
	return All
}

// Matches reports whether category passes the two-level phase selection.
func Matches(category, main, detail string) bool {
	if main == All || main == "" {
		return true
	}
	cls := Classify(category)
	if cls.String() != main {
		return false
	}
	if detail == All || detail == "" {
		return true
	}
	c, _ := Canonical(category)
	d, ok := Canonical(detail)
	return ok && c == d
}

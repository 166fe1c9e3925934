// Package rules computes the duplicate-selection conflict set for a sheet's
// mote slots. The conflict set is authoritative; the presentation layer maps
// it to disabled dropdown options. Conflicts are advisory: a selection that
// already violates a rule (reachable through import) stays in place, the
// rules only block new conflicting picks.
package rules

import (
	"sort"
	"strings"

	"github.com/yui-dot/apollyon-sheet/internal/sheet"
)

// castingMarker exempts repeatable spell-school abilities from the
// within-slot uniqueness rule, matched case-insensitively on the name.
const castingMarker = "casting"

// Conflicts is the set of options that must be disabled across the mote
// selectors. Slot and row keys are zero-based; option lists are sorted.
// The empty option is never present.
type Conflicts struct {
	// Categories maps slot index to the mote names disabled in that
	// slot's category dropdown.
	Categories map[int][]string `json:"categories,omitempty"`

	// Abilities maps slot index, then row index, to the ability names
	// disabled in that row's picker.
	Abilities map[int]map[int][]string `json:"abilities,omitempty"`
}

// CategoryDisabled reports whether a mote name is disabled in a slot's
// category dropdown.
func (c *Conflicts) CategoryDisabled(slot int, name string) bool {
	for _, disabled := range c.Categories[slot] {
		if disabled == name {
			return true
		}
	}
	return false
}

// AbilityDisabled reports whether an ability name is disabled in a slot
// row's picker.
func (c *Conflicts) AbilityDisabled(slot, row int, name string) bool {
	for _, disabled := range c.Abilities[slot][row] {
		if disabled == name {
			return true
		}
	}
	return false
}

// Empty reports whether no option is disabled anywhere.
func (c *Conflicts) Empty() bool {
	return len(c.Categories) == 0 && len(c.Abilities) == 0
}

// Validate computes the conflict set for the given mote slots.
//
// Rule 1: a non-empty mote held by one slot is disabled in every other
// slot's category dropdown. The slot holding a value keeps it enabled.
//
// Rule 2: within one slot, a non-empty ability held by any row is disabled
// in every other row, except that the second-to-last row is exempt entirely
// and abilities whose name contains "casting" (case-insensitive) are always
// exempt.
func Validate(slots []*sheet.MoteSlot) *Conflicts {
	c := &Conflicts{
		Categories: make(map[int][]string),
		Abilities:  make(map[int]map[int][]string),
	}

	for i := range slots {
		if disabled := categoryConflicts(slots, i); len(disabled) > 0 {
			c.Categories[i] = disabled
		}
		if rows := abilityConflicts(slots[i]); len(rows) > 0 {
			c.Abilities[i] = rows
		}
	}

	if len(c.Categories) == 0 {
		c.Categories = nil
	}
	if len(c.Abilities) == 0 {
		c.Abilities = nil
	}
	return c
}

func categoryConflicts(slots []*sheet.MoteSlot, slot int) []string {
	seen := make(map[string]struct{})
	var disabled []string

	for j, other := range slots {
		if j == slot || other.Category == "" {
			continue
		}
		// The holder keeps its own value enabled, including the case
		// where an import duplicated it into this slot.
		if other.Category == slots[slot].Category {
			continue
		}
		if _, ok := seen[other.Category]; ok {
			continue
		}
		seen[other.Category] = struct{}{}
		disabled = append(disabled, other.Category)
	}

	sort.Strings(disabled)
	return disabled
}

func abilityConflicts(slot *sheet.MoteSlot) map[int][]string {
	selected := make(map[string]struct{})
	for _, row := range slot.Rows {
		if row.Ability == "" || exemptAbility(row.Ability) {
			continue
		}
		selected[row.Ability] = struct{}{}
	}
	if len(selected) == 0 {
		return nil
	}

	rows := make(map[int][]string)
	secondToLast := len(slot.Rows) - 2

	for i, row := range slot.Rows {
		if i == secondToLast {
			continue
		}

		var disabled []string
		for name := range selected {
			if name == row.Ability {
				continue
			}
			disabled = append(disabled, name)
		}
		if len(disabled) == 0 {
			continue
		}
		sort.Strings(disabled)
		rows[i] = disabled
	}

	if len(rows) == 0 {
		return nil
	}
	return rows
}

func exemptAbility(name string) bool {
	return strings.Contains(strings.ToLower(name), castingMarker)
}

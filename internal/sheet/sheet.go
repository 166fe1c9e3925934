// Package sheet holds the in-memory character sheet model. The sheet is the
// single source of truth: every UI affordance edits it through an explicit
// operation and re-renders from it, never from rendered markup.
package sheet

import (
	apperr "github.com/yui-dot/apollyon-sheet/internal/errors"
)

// Sheet is the full character sheet state: identity fields, the five core
// attributes, the six calculated attributes, three mote slots, the five
// collections and the free-text mastery value. It is the unit of
// export/import.
//
// Level and Exp stay string-typed: the form treats them as uninterpreted
// text and nothing computes from them.
type Sheet struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
	Exp   string `json:"exp"`
	Race  string `json:"race"`

	Core []*CoreAttribute    `json:"core"`
	Calc []*DerivedAttribute `json:"calc"`

	Motes []*MoteSlot `json:"motes"`

	Inventory       *Collection `json:"inventory"`
	Enhancements    *Collection `json:"enhancements"`
	Masteries       *Collection `json:"masteries"`
	MasteryValue    string      `json:"masteryValue"`
	MindAlterations *Collection `json:"mindAlterations"`
	MindBreaks      *Collection `json:"mindBreaks"`
}

// New builds a sheet at its floor configuration: zeroed attributes,
// multiplier 1 on every calculated row, three empty mote slots with one row
// each, and one blank item per collection. newID supplies collection item
// IDs.
func New(id string, newID func() string) *Sheet {
	s := &Sheet{
		ID:              id,
		Core:            make([]*CoreAttribute, 0, len(CoreNames)),
		Calc:            make([]*DerivedAttribute, 0, len(CalcNames)),
		Motes:           make([]*MoteSlot, 0, MoteSlotCount),
		Inventory:       newCollection(KindInventory, newID),
		Enhancements:    newCollection(KindEnhancements, newID),
		Masteries:       newCollection(KindMasteries, newID),
		MindAlterations: newCollection(KindMindAlterations, newID),
		MindBreaks:      newCollection(KindMindBreaks, newID),
	}

	for _, name := range CoreNames {
		s.Core = append(s.Core, &CoreAttribute{Name: name})
	}
	for _, name := range CalcNames {
		s.Calc = append(s.Calc, &DerivedAttribute{Name: name, Multiplier: 1})
	}
	for i := 0; i < MoteSlotCount; i++ {
		s.Motes = append(s.Motes, newMoteSlot())
	}

	s.Recompute()
	return s
}

// CoreAttr returns the core attribute with the given name, or nil.
func (s *Sheet) CoreAttr(name string) *CoreAttribute {
	for _, a := range s.Core {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// CalcAttr returns the calculated attribute with the given name, or nil.
func (s *Sheet) CalcAttr(name string) *DerivedAttribute {
	for _, d := range s.Calc {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// CoreTotal returns the named core attribute's total, or zero when the name
// is unknown.
func (s *Sheet) CoreTotal(name string) int {
	if a := s.CoreAttr(name); a != nil {
		return a.Total
	}
	return 0
}

// SetCore writes one field of a core attribute.
func (s *Sheet) SetCore(name string, field CoreField, value int) error {
	a := s.CoreAttr(name)
	if a == nil {
		return apperr.InvalidArgumentf("unknown core attribute %q", name)
	}

	switch field {
	case CoreFieldBase:
		a.Base = value
	case CoreFieldModifier:
		a.Modifier = value
	case CoreFieldTemporary:
		a.Temporary = value
	case CoreFieldLevelBonus:
		a.LevelBonus = value
	default:
		return apperr.InvalidArgumentf("unknown core attribute field %q", field)
	}
	return nil
}

// SetCalc writes one integer field of a calculated attribute. Writing the
// base of a computed-base row is accepted; the next recompute overwrites it.
func (s *Sheet) SetCalc(name string, field CalcField, value int) error {
	d := s.CalcAttr(name)
	if d == nil {
		return apperr.InvalidArgumentf("unknown calculated attribute %q", name)
	}

	switch field {
	case CalcFieldBase:
		d.Base = value
	case CalcFieldModifier:
		d.Modifier = value
	case CalcFieldTemporary:
		d.Temporary = value
	default:
		return apperr.InvalidArgumentf("unknown calculated attribute field %q", field)
	}
	return nil
}

// SetMultiplier writes a calculated attribute's multiplier. Range clamping
// is an input-affordance concern; out-of-range values are accepted here.
func (s *Sheet) SetMultiplier(name string, value float64) error {
	d := s.CalcAttr(name)
	if d == nil {
		return apperr.InvalidArgumentf("unknown calculated attribute %q", name)
	}
	d.Multiplier = value
	return nil
}

// SetExtra writes a calculated attribute's current-value field.
func (s *Sheet) SetExtra(name, value string) error {
	d := s.CalcAttr(name)
	if d == nil {
		return apperr.InvalidArgumentf("unknown calculated attribute %q", name)
	}
	d.Extra = value
	return nil
}

// Slot returns the mote slot at index.
func (s *Sheet) Slot(index int) (*MoteSlot, error) {
	if index < 0 || index >= len(s.Motes) {
		return nil, apperr.InvalidArgumentf("mote slot %d does not exist", index)
	}
	return s.Motes[index], nil
}

// Collection returns the collection for a kind.
func (s *Sheet) Collection(kind Kind) (*Collection, error) {
	switch kind {
	case KindInventory:
		return s.Inventory, nil
	case KindEnhancements:
		return s.Enhancements, nil
	case KindMasteries:
		return s.Masteries, nil
	case KindMindAlterations:
		return s.MindAlterations, nil
	case KindMindBreaks:
		return s.MindBreaks, nil
	}
	return nil, apperr.InvalidArgumentf("unknown collection kind %q", kind)
}

// Recompute runs the full derivation graph: core totals first, then the
// computed bases, then every end value.
//
// Computed bases:
//
//	Max HP = 6×Grit total + 30
//	BP     = 2×Spirit total + 2
//	AC     = 10 + Agility total
//	Speed  = Speed total
//
// DR and Mana keep their user-entered base.
func (s *Sheet) Recompute() {
	for _, a := range s.Core {
		a.recalc()
	}

	for _, d := range s.Calc {
		switch d.Name {
		case CalcMaxHP:
			d.Base = 6*s.CoreTotal(CoreGrit) + 30
		case CalcBP:
			d.Base = 2*s.CoreTotal(CoreSpirit) + 2
		case CalcAC:
			d.Base = 10 + s.CoreTotal(CoreAgility)
		case CalcSpeed:
			d.Base = s.CoreTotal(CoreSpeed)
		}
		d.recalc()
	}
}

// Clone returns a deep copy of the sheet.
func (s *Sheet) Clone() *Sheet {
	out := &Sheet{
		ID:           s.ID,
		Name:         s.Name,
		Level:        s.Level,
		Exp:          s.Exp,
		Race:         s.Race,
		MasteryValue: s.MasteryValue,
	}

	out.Core = make([]*CoreAttribute, len(s.Core))
	for i, a := range s.Core {
		attrCopy := *a
		out.Core[i] = &attrCopy
	}

	out.Calc = make([]*DerivedAttribute, len(s.Calc))
	for i, d := range s.Calc {
		attrCopy := *d
		out.Calc[i] = &attrCopy
	}

	out.Motes = make([]*MoteSlot, len(s.Motes))
	for i, m := range s.Motes {
		out.Motes[i] = m.clone()
	}

	out.Inventory = s.Inventory.clone()
	out.Enhancements = s.Enhancements.clone()
	out.Masteries = s.Masteries.clone()
	out.MindAlterations = s.MindAlterations.clone()
	out.MindBreaks = s.MindBreaks.clone()

	return out
}

package sheet

import (
	"github.com/yui-dot/apollyon-sheet/internal/catalog"
	apperr "github.com/yui-dot/apollyon-sheet/internal/errors"
)

// MoteSlotCount is the fixed number of mote slots on a sheet.
const MoteSlotCount = 3

// AbilityRow is one ability picker row within a mote slot. Desc carries the
// short description; Detailed tracks the presentational long-description
// toggle and is never exported or validated.
type AbilityRow struct {
	Ability  string `json:"ability"`
	Desc     string `json:"desc"`
	Detailed bool   `json:"detailed"`
}

// MoteSlot binds a mote category to its ability rows. A slot always has at
// least one row.
type MoteSlot struct {
	Category string        `json:"mote"`
	Rows     []*AbilityRow `json:"abilities"`
}

func newMoteSlot() *MoteSlot {
	return &MoteSlot{
		Rows: []*AbilityRow{{}},
	}
}

// SetCategory switches the slot's mote. Every row resets to the first entry
// of the new category's ability list, back in short-description mode.
func (m *MoteSlot) SetCategory(cat *catalog.Catalog, category string) {
	m.Category = category

	first := cat.First(category)
	for _, row := range m.Rows {
		row.Ability = first.Name
		row.Desc = first.Desc
		row.Detailed = false
	}
}

// AddRow appends one row initialized to the current category's first ability.
func (m *MoteSlot) AddRow(cat *catalog.Catalog) *AbilityRow {
	first := cat.First(m.Category)
	row := &AbilityRow{
		Ability: first.Name,
		Desc:    first.Desc,
	}
	m.Rows = append(m.Rows, row)
	return row
}

// RemoveRow removes the row at index. Removing the slot's only remaining row
// is refused silently, as is an out-of-range index.
func (m *MoteSlot) RemoveRow(index int) {
	if len(m.Rows) <= 1 || index < 0 || index >= len(m.Rows) {
		return
	}
	m.Rows = append(m.Rows[:index], m.Rows[index+1:]...)
}

// SelectAbility sets a row's chosen ability and its short description. The
// long-description toggle resets to short.
func (m *MoteSlot) SelectAbility(cat *catalog.Catalog, index int, name string) error {
	if index < 0 || index >= len(m.Rows) {
		return apperr.InvalidArgumentf("ability row %d does not exist", index)
	}

	rec, ok := cat.Lookup(m.Category, name)
	if !ok && name != "" {
		return apperr.InvalidArgumentf("ability %q is not in mote %q", name, m.Category)
	}

	row := m.Rows[index]
	row.Ability = rec.Name
	row.Desc = rec.Desc
	row.Detailed = false
	return nil
}

// ToggleDetail flips a row between short and long description display.
// Purely presentational.
func (m *MoteSlot) ToggleDetail(index int) error {
	if index < 0 || index >= len(m.Rows) {
		return apperr.InvalidArgumentf("ability row %d does not exist", index)
	}
	m.Rows[index].Detailed = !m.Rows[index].Detailed
	return nil
}

// DisplayedDesc resolves the description text a row currently shows: the
// long details when toggled, the stored short description otherwise.
func (m *MoteSlot) DisplayedDesc(cat *catalog.Catalog, index int) string {
	if index < 0 || index >= len(m.Rows) {
		return ""
	}
	row := m.Rows[index]
	if row.Detailed {
		if rec, ok := cat.Lookup(m.Category, row.Ability); ok {
			return rec.Details
		}
	}
	return row.Desc
}

func (m *MoteSlot) clone() *MoteSlot {
	out := &MoteSlot{
		Category: m.Category,
		Rows:     make([]*AbilityRow, len(m.Rows)),
	}
	for i, row := range m.Rows {
		rowCopy := *row
		out.Rows[i] = &rowCopy
	}
	return out
}

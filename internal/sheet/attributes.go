package sheet

import "math"

// Core attribute names, display order.
const (
	CoreStrength = "Strength"
	CoreAgility  = "Agility"
	CoreGrit     = "Grit"
	CoreSpirit   = "Spirit"
	CoreSpeed    = "Speed"
)

// CoreNames lists the five core attributes in display order.
var CoreNames = []string{CoreStrength, CoreAgility, CoreGrit, CoreSpirit, CoreSpeed}

// Calculated attribute names, display order.
const (
	CalcMaxHP = "Max HP"
	CalcDR    = "DR"
	CalcAC    = "AC"
	CalcBP    = "BP"
	CalcSpeed = "Speed"
	CalcMana  = "Mana"
)

// CalcNames lists the six calculated attributes in display order.
var CalcNames = []string{CalcMaxHP, CalcDR, CalcAC, CalcBP, CalcSpeed, CalcMana}

// CoreField identifies an editable field of a core attribute.
type CoreField string

const (
	CoreFieldBase       CoreField = "base"
	CoreFieldModifier   CoreField = "mod"
	CoreFieldTemporary  CoreField = "temp"
	CoreFieldLevelBonus CoreField = "level"
)

// CalcField identifies an editable integer field of a calculated attribute.
type CalcField string

const (
	CalcFieldBase      CalcField = "base"
	CalcFieldModifier  CalcField = "mod"
	CalcFieldTemporary CalcField = "temp"
)

// CoreAttribute is one of the five primary character statistics. Total is
// derived and rewritten on every recompute.
type CoreAttribute struct {
	Name       string `json:"name"`
	Base       int    `json:"base"`
	Modifier   int    `json:"mod"`
	Temporary  int    `json:"temp"`
	LevelBonus int    `json:"level"`
	Total      int    `json:"total"`
}

func (a *CoreAttribute) recalc() {
	a.Total = a.Base + a.Modifier + a.Temporary + a.LevelBonus
}

// DerivedAttribute is a secondary statistic. Four of the six rows have their
// Base computed from a core attribute total; End is always derived. Extra is
// the free-form "current value" field (current HP vs max HP and the like).
type DerivedAttribute struct {
	Name       string  `json:"name"`
	Base       int     `json:"base"`
	Modifier   int     `json:"mod"`
	Temporary  int     `json:"temp"`
	Multiplier float64 `json:"mult"`
	End        int     `json:"end"`
	Extra      string  `json:"extra"`
}

// recalc applies end = ceil((base+mod+temp) × multiplier). Rounding is
// toward +∞, never toward zero or nearest.
func (d *DerivedAttribute) recalc() {
	sum := d.Base + d.Modifier + d.Temporary
	d.End = int(math.Ceil(float64(sum) * d.Multiplier))
}

// ComputedBase reports whether the attribute's base field is derived from a
// core attribute total rather than user-entered.
func ComputedBase(name string) bool {
	switch name {
	case CalcMaxHP, CalcAC, CalcBP, CalcSpeed:
		return true
	}
	return false
}

// Package export converts a sheet to and from the portable text payload the
// form hands to users. Numbers travel string-encoded for parity with the
// original sheet format, and imports are tolerant field-by-field: anything
// absent or oddly typed degrades to its default instead of failing.
package export

import (
	"encoding/json"
	"strconv"

	apperr "github.com/yui-dot/apollyon-sheet/internal/errors"
	"github.com/yui-dot/apollyon-sheet/internal/sheet"
)

// CoreData is the payload form of one core attribute row.
type CoreData struct {
	Base  string `json:"base"`
	Mod   string `json:"mod"`
	Temp  string `json:"temp"`
	Level string `json:"level"`
	Total string `json:"total"`
}

// CalcData is the payload form of one calculated attribute row.
type CalcData struct {
	Base  string `json:"base"`
	Mod   string `json:"mod"`
	Temp  string `json:"temp"`
	Mult  string `json:"mult"`
	End   string `json:"end"`
	Extra string `json:"extra"`
}

// AbilityData is one ability row inside a mote entry.
type AbilityData struct {
	Ability string `json:"ability"`
	Desc    string `json:"desc"`
}

// MoteData is the payload form of one mote slot.
type MoteData struct {
	Mote      string        `json:"mote"`
	Abilities []AbilityData `json:"abilities"`
}

// NamedData is a name+description collection entry (inventory, mind
// alterations, mind breaks).
type NamedData struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// EnhancementData is one known-enhancement entry.
type EnhancementData struct {
	Name   string `json:"name"`
	Cost   string `json:"cost"`
	Item   string `json:"item"`
	Effect string `json:"effect"`
}

// MasteryData is one mastery entry.
type MasteryData struct {
	Name   string `json:"name"`
	Effect string `json:"effect"`
}

// SheetData is the complete export payload.
type SheetData struct {
	Name            string            `json:"name"`
	Level           string            `json:"level"`
	Exp             string            `json:"exp"`
	Race            string            `json:"race"`
	Core            []CoreData        `json:"core"`
	Calc            []CalcData        `json:"calc"`
	Inventory       []NamedData       `json:"inventory"`
	Motes           []MoteData        `json:"motes"`
	Enhancements    []EnhancementData `json:"enhancements"`
	Masteries       []MasteryData     `json:"masteries"`
	MasteryValue    string            `json:"masteryValue"`
	MindAlterations []NamedData       `json:"mindAlterations"`
	MindBreaks      []NamedData       `json:"mindBreaks"`
}

// Marshal serializes the sheet into the portable payload.
func Marshal(s *sheet.Sheet) (string, error) {
	data := SheetData{
		Name:            s.Name,
		Level:           s.Level,
		Exp:             s.Exp,
		Race:            s.Race,
		Core:            make([]CoreData, 0, len(s.Core)),
		Calc:            make([]CalcData, 0, len(s.Calc)),
		Inventory:       make([]NamedData, 0, len(s.Inventory.Items)),
		Motes:           make([]MoteData, 0, len(s.Motes)),
		Enhancements:    make([]EnhancementData, 0, len(s.Enhancements.Items)),
		Masteries:       make([]MasteryData, 0, len(s.Masteries.Items)),
		MasteryValue:    s.MasteryValue,
		MindAlterations: make([]NamedData, 0, len(s.MindAlterations.Items)),
		MindBreaks:      make([]NamedData, 0, len(s.MindBreaks.Items)),
	}

	for _, a := range s.Core {
		data.Core = append(data.Core, CoreData{
			Base:  strconv.Itoa(a.Base),
			Mod:   strconv.Itoa(a.Modifier),
			Temp:  strconv.Itoa(a.Temporary),
			Level: strconv.Itoa(a.LevelBonus),
			Total: strconv.Itoa(a.Total),
		})
	}

	for _, d := range s.Calc {
		data.Calc = append(data.Calc, CalcData{
			Base:  strconv.Itoa(d.Base),
			Mod:   strconv.Itoa(d.Modifier),
			Temp:  strconv.Itoa(d.Temporary),
			Mult:  strconv.FormatFloat(d.Multiplier, 'f', -1, 64),
			End:   strconv.Itoa(d.End),
			Extra: d.Extra,
		})
	}

	for _, m := range s.Motes {
		md := MoteData{
			Mote:      m.Category,
			Abilities: make([]AbilityData, 0, len(m.Rows)),
		}
		for _, row := range m.Rows {
			md.Abilities = append(md.Abilities, AbilityData{
				Ability: row.Ability,
				Desc:    row.Desc,
			})
		}
		data.Motes = append(data.Motes, md)
	}

	for _, item := range s.Inventory.Items {
		data.Inventory = append(data.Inventory, NamedData{Name: item.Name, Desc: item.Desc})
	}
	for _, item := range s.Enhancements.Items {
		data.Enhancements = append(data.Enhancements, EnhancementData{
			Name:   item.Name,
			Cost:   item.Cost,
			Item:   item.Item,
			Effect: item.Effect,
		})
	}
	for _, item := range s.Masteries.Items {
		data.Masteries = append(data.Masteries, MasteryData{Name: item.Name, Effect: item.Effect})
	}
	for _, item := range s.MindAlterations.Items {
		data.MindAlterations = append(data.MindAlterations, NamedData{Name: item.Name, Desc: item.Desc})
	}
	for _, item := range s.MindBreaks.Items {
		data.MindBreaks = append(data.MindBreaks, NamedData{Name: item.Name, Desc: item.Desc})
	}

	out, err := json.Marshal(data)
	if err != nil {
		return "", apperr.Wrap(err, "failed to marshal sheet payload")
	}
	return string(out), nil
}

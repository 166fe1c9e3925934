package export

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/yui-dot/apollyon-sheet/internal/catalog"
	apperr "github.com/yui-dot/apollyon-sheet/internal/errors"
	"github.com/yui-dot/apollyon-sheet/internal/sheet"
)

// Unmarshal builds a fresh sheet from the payload. The payload must be a
// well-formed JSON object or a CodeImport error is returned; past that gate
// every field is read tolerantly and absent or malformed values fall back to
// their defaults. Mote ability names are re-resolved against the catalog, so
// names the catalog no longer knows leave the row at its category default.
func Unmarshal(payload string, cat *catalog.Catalog, id string, newID func() string) (*sheet.Sheet, error) {
	if !gjson.Valid(payload) {
		return nil, apperr.Import("sheet code is not valid JSON")
	}
	root := gjson.Parse(payload)
	if !root.IsObject() {
		return nil, apperr.Import("sheet code is not a JSON object")
	}

	s := sheet.New(id, newID)
	s.Name = root.Get("name").String()
	s.Level = root.Get("level").String()
	s.Exp = root.Get("exp").String()
	s.Race = root.Get("race").String()
	s.MasteryValue = root.Get("masteryValue").String()

	importCore(s, root.Get("core"))
	importCalc(s, root.Get("calc"))
	importMotes(s, cat, root.Get("motes"))

	importNamed(s.Inventory, root.Get("inventory"), newID)
	importEnhancements(s.Enhancements, root.Get("enhancements"), newID)
	importMasteries(s.Masteries, root.Get("masteries"), newID)
	importNamed(s.MindAlterations, root.Get("mindAlterations"), newID)
	importNamed(s.MindBreaks, root.Get("mindBreaks"), newID)

	s.Recompute()
	return s, nil
}

func importCore(s *sheet.Sheet, rows gjson.Result) {
	if !rows.IsArray() {
		return
	}
	entries := rows.Array()
	for i, name := range sheet.CoreNames {
		if i >= len(entries) {
			break
		}
		attr := s.CoreAttr(name)
		if attr == nil {
			continue
		}
		attr.Base = atoi(entries[i].Get("base"))
		attr.Modifier = atoi(entries[i].Get("mod"))
		attr.Temporary = atoi(entries[i].Get("temp"))
		attr.LevelBonus = atoi(entries[i].Get("level"))
	}
}

func importCalc(s *sheet.Sheet, rows gjson.Result) {
	if !rows.IsArray() {
		return
	}
	entries := rows.Array()
	for i, name := range sheet.CalcNames {
		if i >= len(entries) {
			break
		}
		attr := s.CalcAttr(name)
		if attr == nil {
			continue
		}
		attr.Base = atoi(entries[i].Get("base"))
		attr.Modifier = atoi(entries[i].Get("mod"))
		attr.Temporary = atoi(entries[i].Get("temp"))
		attr.Multiplier = atof(entries[i].Get("mult"))
		attr.Extra = entries[i].Get("extra").String()
	}
}

func importMotes(s *sheet.Sheet, cat *catalog.Catalog, motes gjson.Result) {
	if !motes.IsArray() {
		return
	}
	entries := motes.Array()
	for i := 0; i < sheet.MoteSlotCount && i < len(entries); i++ {
		slot, err := s.Slot(i)
		if err != nil {
			return
		}
		category := entries[i].Get("mote").String()
		if cat.HasCategory(category) {
			slot.SetCategory(cat, category)
		}

		abilities := entries[i].Get("abilities")
		if !abilities.IsArray() {
			continue
		}
		for j, entry := range abilities.Array() {
			if j > 0 {
				slot.AddRow(cat)
			}
			if j >= len(slot.Rows) {
				break
			}
			row := slot.Rows[j]
			name := entry.Get("ability").String()
			if name == "" {
				row.Ability = ""
				row.Desc = entry.Get("desc").String()
				continue
			}
			if _, ok := cat.Lookup(slot.Category, name); !ok {
				// Name unknown to the catalog: keep the category default.
				continue
			}
			row.Ability = name
			row.Desc = entry.Get("desc").String()
		}
	}
}

func importNamed(c *sheet.Collection, rows gjson.Result, newID func() string) {
	if !rows.IsArray() {
		return
	}
	items := make([]*sheet.Item, 0, len(rows.Array()))
	for _, entry := range rows.Array() {
		items = append(items, &sheet.Item{
			ID:   newID(),
			Name: entry.Get("name").String(),
			Desc: entry.Get("desc").String(),
		})
	}
	c.Replace(items, newID)
}

func importEnhancements(c *sheet.Collection, rows gjson.Result, newID func() string) {
	if !rows.IsArray() {
		return
	}
	items := make([]*sheet.Item, 0, len(rows.Array()))
	for _, entry := range rows.Array() {
		items = append(items, &sheet.Item{
			ID:     newID(),
			Name:   entry.Get("name").String(),
			Cost:   entry.Get("cost").String(),
			Item:   entry.Get("item").String(),
			Effect: entry.Get("effect").String(),
		})
	}
	c.Replace(items, newID)
}

func importMasteries(c *sheet.Collection, rows gjson.Result, newID func() string) {
	if !rows.IsArray() {
		return
	}
	items := make([]*sheet.Item, 0, len(rows.Array()))
	for _, entry := range rows.Array() {
		items = append(items, &sheet.Item{
			ID:     newID(),
			Name:   entry.Get("name").String(),
			Effect: entry.Get("effect").String(),
		})
	}
	c.Replace(items, newID)
}

// atoi reads a payload number that may arrive as a string or a bare number.
// Anything unreadable counts as zero.
func atoi(r gjson.Result) int {
	switch r.Type {
	case gjson.Number:
		return int(r.Int())
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(r.String()))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// atof reads a multiplier; absent or unreadable values fall back to 1.
func atof(r gjson.Result) float64 {
	switch r.Type {
	case gjson.Number:
		return r.Float()
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.String()), 64)
		if err != nil {
			return 1
		}
		return f
	default:
		return 1
	}
}

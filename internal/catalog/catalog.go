// Package catalog holds the static mote ability table. The catalog is built
// once at startup and is read-only afterwards; components that need lookups
// receive a *Catalog rather than reaching for shared state.
package catalog

import (
	"encoding/json"
	"os"
	"sort"

	_ "embed"

	apperr "github.com/yui-dot/apollyon-sheet/internal/errors"
)

//go:embed data/abilities.json
var defaultData []byte

// Record is a single ability as supplied by the catalog source.
type Record struct {
	Mote    string `json:"mote"`
	Name    string `json:"name"`
	Desc    string `json:"desc"`
	Details string `json:"details"`
}

// sentinel is the one-element list served for an unset or unknown mote.
var sentinel = []Record{{}}

// Catalog is an immutable lookup table from mote name to its ordered
// ability records.
type Catalog struct {
	byMote map[string][]Record
	motes  []string
}

// New builds a catalog from an ordered record list. Records keep their
// source order within each mote.
func New(records []Record) *Catalog {
	c := &Catalog{
		byMote: make(map[string][]Record),
	}

	for _, rec := range records {
		if rec.Mote == "" {
			continue
		}
		c.byMote[rec.Mote] = append(c.byMote[rec.Mote], rec)
	}

	names := make([]string, 0, len(c.byMote))
	for mote := range c.byMote {
		names = append(names, mote)
	}
	sort.Strings(names)

	// The empty option leads so selectors can render "no mote chosen".
	c.motes = append([]string{""}, names...)

	return c
}

// Default builds the catalog from the embedded ability table.
func Default() (*Catalog, error) {
	return parse(defaultData)
}

// LoadFile builds the catalog from an external JSON file with the same
// shape as the embedded table.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrapf(err, "failed to read catalog file %q", path)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperr.Wrap(err, "failed to parse catalog data")
	}
	return New(records), nil
}

// Categories returns all distinct mote names in ascending lexical order,
// prefixed with the empty string.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.motes))
	copy(out, c.motes)
	return out
}

// HasCategory reports whether the mote name exists in the catalog. The
// empty name is always valid (it is the unset option).
func (c *Catalog) HasCategory(mote string) bool {
	if mote == "" {
		return true
	}
	_, ok := c.byMote[mote]
	return ok
}

// AbilitiesFor returns the ordered ability records for a mote, or the
// one-element empty sentinel when the mote is unset or unknown.
func (c *Catalog) AbilitiesFor(mote string) []Record {
	records, ok := c.byMote[mote]
	if !ok {
		out := make([]Record, len(sentinel))
		copy(out, sentinel)
		return out
	}

	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// First returns the default record for a mote: the first entry of its
// ability list, which is the empty sentinel record for an unset mote.
func (c *Catalog) First(mote string) Record {
	records, ok := c.byMote[mote]
	if !ok || len(records) == 0 {
		return Record{}
	}
	return records[0]
}

// Lookup finds an ability by name within a mote's list.
func (c *Catalog) Lookup(mote, name string) (Record, bool) {
	for _, rec := range c.byMote[mote] {
		if rec.Name == name {
			return rec, true
		}
	}
	return Record{}, false
}

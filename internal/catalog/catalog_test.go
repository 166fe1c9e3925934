package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yui-dot/apollyon-sheet/internal/catalog"
)

func smallCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Record{
		{Mote: "Shrail", Name: "I Hit Back", Desc: "Counter.", Details: "Counter rules."},
		{Mote: "Shrail", Name: "Vitality of Rage", Desc: "+3 Grit.", Details: "Grit rules."},
		{Mote: "Anavani", Name: "I Shine", Desc: "Glow.", Details: "Glow rules."},
	})
}

func TestCategories_SortedWithLeadingEmptyOption(t *testing.T) {
	cat := smallCatalog()
	assert.Equal(t, []string{"", "Anavani", "Shrail"}, cat.Categories())
}

func TestHasCategory(t *testing.T) {
	cat := smallCatalog()
	assert.True(t, cat.HasCategory("Shrail"))
	assert.True(t, cat.HasCategory(""), "the unset option is always valid")
	assert.False(t, cat.HasCategory("Zzyzx"))
}

func TestAbilitiesFor_KeepsSourceOrder(t *testing.T) {
	cat := smallCatalog()

	records := cat.AbilitiesFor("Shrail")
	require.Len(t, records, 2)
	assert.Equal(t, "I Hit Back", records[0].Name)
	assert.Equal(t, "Vitality of Rage", records[1].Name)
}

func TestAbilitiesFor_UnknownMoteYieldsBlankSentinel(t *testing.T) {
	cat := smallCatalog()

	records := cat.AbilitiesFor("Zzyzx")
	require.Len(t, records, 1)
	assert.Equal(t, catalog.Record{}, records[0])
}

func TestFirst(t *testing.T) {
	cat := smallCatalog()
	assert.Equal(t, "I Hit Back", cat.First("Shrail").Name)
	assert.Equal(t, catalog.Record{}, cat.First(""))
}

func TestLookup(t *testing.T) {
	cat := smallCatalog()

	rec, ok := cat.Lookup("Shrail", "Vitality of Rage")
	require.True(t, ok)
	assert.Equal(t, "+3 Grit.", rec.Desc)
	assert.Equal(t, "Grit rules.", rec.Details)

	_, ok = cat.Lookup("Shrail", "I Shine")
	assert.False(t, ok, "abilities do not leak across motes")

	_, ok = cat.Lookup("", "I Hit Back")
	assert.False(t, ok)
}

func TestDefault_EmbeddedTable(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	categories := cat.Categories()
	require.NotEmpty(t, categories)
	assert.Equal(t, "", categories[0])
	assert.Contains(t, categories, "Shrail")
	assert.Contains(t, categories, "Anavani")

	rec, ok := cat.Lookup("Shrail", "Vitality of Rage")
	require.True(t, ok)
	assert.NotEmpty(t, rec.Desc)
}

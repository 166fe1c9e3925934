package export_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/yui-dot/apollyon-sheet/internal/catalog"
	apperr "github.com/yui-dot/apollyon-sheet/internal/errors"
	"github.com/yui-dot/apollyon-sheet/internal/export"
	"github.com/yui-dot/apollyon-sheet/internal/sheet"
	"github.com/yui-dot/apollyon-sheet/internal/uuid"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

func TestMarshal_NumbersAreStringEncoded(t *testing.T) {
	gen := uuid.NewMockGenerator()
	sh := sheet.New("sheet-1", gen.New)
	sh.Name = "Verity"
	require.NoError(t, sh.SetCore(sheet.CoreGrit, sheet.CoreFieldBase, 3))
	require.NoError(t, sh.SetMultiplier(sheet.CalcDR, 1.5))
	sh.Recompute()

	payload, err := export.Marshal(sh)
	require.NoError(t, err)

	assert.Equal(t, "Verity", gjson.Get(payload, "name").String())
	assert.Equal(t, gjson.String, gjson.Get(payload, "core.2.base").Type)
	assert.Equal(t, "3", gjson.Get(payload, "core.2.base").String())
	assert.Equal(t, "3", gjson.Get(payload, "core.2.total").String())
	assert.Equal(t, "48", gjson.Get(payload, "calc.0.base").String())
	assert.Equal(t, "1.5", gjson.Get(payload, "calc.1.mult").String())
	assert.Equal(t, int64(3), gjson.Get(payload, "motes.#").Int())
	assert.Equal(t, int64(1), gjson.Get(payload, "inventory.#").Int())
}

func TestUnmarshal_InvalidJSON(t *testing.T) {
	gen := uuid.NewMockGenerator()
	_, err := export.Unmarshal("{broken", testCatalog(t), "sheet-1", gen.New)
	require.Error(t, err)
	assert.True(t, apperr.IsImport(err))
}

func TestUnmarshal_NonObject(t *testing.T) {
	gen := uuid.NewMockGenerator()
	_, err := export.Unmarshal(`"just a string"`, testCatalog(t), "sheet-1", gen.New)
	require.Error(t, err)
	assert.True(t, apperr.IsImport(err))
}

func TestUnmarshal_AcceptsBareNumbers(t *testing.T) {
	// Hand-edited payloads sometimes carry numbers without quotes
	gen := uuid.NewMockGenerator()
	payload := `{"core":[{"base":2,"mod":"1","temp":"","level":"x"}]}`

	sh, err := export.Unmarshal(payload, testCatalog(t), "sheet-1", gen.New)
	require.NoError(t, err)

	attr := sh.CoreAttr(sheet.CoreStrength)
	assert.Equal(t, 2, attr.Base)
	assert.Equal(t, 1, attr.Modifier)
	assert.Equal(t, 0, attr.Temporary)
	assert.Equal(t, 0, attr.LevelBonus)
	assert.Equal(t, 3, attr.Total)
}

func TestUnmarshal_MultiplierDefaultsToOne(t *testing.T) {
	gen := uuid.NewMockGenerator()
	payload := `{"calc":[{"base":"10","mult":""},{"base":"10","mult":"bogus"},{"base":"10"}]}`

	sh, err := export.Unmarshal(payload, testCatalog(t), "sheet-1", gen.New)
	require.NoError(t, err)

	assert.Equal(t, 1.0, sh.CalcAttr(sheet.CalcMaxHP).Multiplier)
	assert.Equal(t, 1.0, sh.CalcAttr(sheet.CalcDR).Multiplier)
	assert.Equal(t, 1.0, sh.CalcAttr(sheet.CalcAC).Multiplier)
}

func TestUnmarshal_ShortCoreArray(t *testing.T) {
	gen := uuid.NewMockGenerator()
	payload := `{"core":[{"base":"5"}]}`

	sh, err := export.Unmarshal(payload, testCatalog(t), "sheet-1", gen.New)
	require.NoError(t, err)

	assert.Equal(t, 5, sh.CoreAttr(sheet.CoreStrength).Base)
	assert.Equal(t, 0, sh.CoreAttr(sheet.CoreAgility).Base)
}

func TestUnmarshal_ExtraMoteEntriesIgnored(t *testing.T) {
	gen := uuid.NewMockGenerator()
	payload := `{"motes":[{"mote":"Shrail"},{"mote":"Ursa"},{"mote":"Dawel"},{"mote":"Numo"}]}`

	sh, err := export.Unmarshal(payload, testCatalog(t), "sheet-1", gen.New)
	require.NoError(t, err)

	require.Len(t, sh.Motes, sheet.MoteSlotCount)
	assert.Equal(t, "Shrail", sh.Motes[0].Category)
	assert.Equal(t, "Ursa", sh.Motes[1].Category)
	assert.Equal(t, "Dawel", sh.Motes[2].Category)
}

func TestUnmarshal_UnknownMoteKeepsSlotUnset(t *testing.T) {
	gen := uuid.NewMockGenerator()
	payload := `{"motes":[{"mote":"Zzyzx","abilities":[{"ability":"I Hit Back","desc":"d"}]}]}`

	sh, err := export.Unmarshal(payload, testCatalog(t), "sheet-1", gen.New)
	require.NoError(t, err)

	slot := sh.Motes[0]
	assert.Equal(t, "", slot.Category)
	// The ability name cannot resolve without a category, so the row stays blank
	assert.Equal(t, "", slot.Rows[0].Ability)
}

func TestUnmarshal_CollectionsKeepFloorOfOne(t *testing.T) {
	gen := uuid.NewMockGenerator()
	payload := `{"inventory":[]}`

	sh, err := export.Unmarshal(payload, testCatalog(t), "sheet-1", gen.New)
	require.NoError(t, err)

	assert.Len(t, sh.Inventory.Items, 1)
	assert.Equal(t, "", sh.Inventory.Items[0].Name)
}

func TestUnmarshal_EnhancementFields(t *testing.T) {
	gen := uuid.NewMockGenerator()
	payload := `{"enhancements":[{"name":"Keen Edge","cost":"2","item":"Blade","effect":"+1"}]}`

	sh, err := export.Unmarshal(payload, testCatalog(t), "sheet-1", gen.New)
	require.NoError(t, err)

	require.Len(t, sh.Enhancements.Items, 1)
	item := sh.Enhancements.Items[0]
	assert.Equal(t, "Keen Edge", item.Name)
	assert.Equal(t, "2", item.Cost)
	assert.Equal(t, "Blade", item.Item)
	assert.Equal(t, "+1", item.Effect)
	assert.NotEmpty(t, item.ID)
}

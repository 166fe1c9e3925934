package sheet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yui-dot/apollyon-sheet/internal/sheet"
	"github.com/yui-dot/apollyon-sheet/internal/uuid"
)

func newTestSheet(t *testing.T) *sheet.Sheet {
	t.Helper()
	gen := uuid.NewMockGenerator()
	return sheet.New("sheet-1", gen.New)
}

func TestNew_Defaults(t *testing.T) {
	sh := newTestSheet(t)

	assert.Equal(t, "sheet-1", sh.ID)
	require.Len(t, sh.Core, len(sheet.CoreNames))
	require.Len(t, sh.Calc, len(sheet.CalcNames))
	require.Len(t, sh.Motes, sheet.MoteSlotCount)

	for _, attr := range sh.Core {
		assert.Equal(t, 0, attr.Total, attr.Name)
	}
	for _, attr := range sh.Calc {
		assert.Equal(t, 1.0, attr.Multiplier, attr.Name)
	}

	// Computed bases at zeroed cores
	assert.Equal(t, 30, sh.CalcAttr(sheet.CalcMaxHP).Base)
	assert.Equal(t, 2, sh.CalcAttr(sheet.CalcBP).Base)
	assert.Equal(t, 10, sh.CalcAttr(sheet.CalcAC).Base)
	assert.Equal(t, 0, sh.CalcAttr(sheet.CalcSpeed).Base)
	assert.Equal(t, 0, sh.CalcAttr(sheet.CalcDR).Base)
	assert.Equal(t, 0, sh.CalcAttr(sheet.CalcMana).Base)
}

func TestCoreTotal_SumsAllFields(t *testing.T) {
	sh := newTestSheet(t)

	require.NoError(t, sh.SetCore(sheet.CoreStrength, sheet.CoreFieldBase, 2))
	require.NoError(t, sh.SetCore(sheet.CoreStrength, sheet.CoreFieldModifier, 3))
	require.NoError(t, sh.SetCore(sheet.CoreStrength, sheet.CoreFieldTemporary, -1))
	require.NoError(t, sh.SetCore(sheet.CoreStrength, sheet.CoreFieldLevelBonus, 1))
	sh.Recompute()

	assert.Equal(t, 5, sh.CoreTotal(sheet.CoreStrength))
}

func TestCoreTotal_NegativeAllowed(t *testing.T) {
	sh := newTestSheet(t)

	require.NoError(t, sh.SetCore(sheet.CoreSpeed, sheet.CoreFieldModifier, -7))
	sh.Recompute()
	assert.Equal(t, -7, sh.CoreTotal(sheet.CoreSpeed))
}

func TestRecompute_DerivedBasesTrackCoreTotals(t *testing.T) {
	tests := []struct {
		name      string
		core      string
		coreValue int
		calc      string
		wantBase  int
	}{
		{name: "max hp from grit", core: sheet.CoreGrit, coreValue: 3, calc: sheet.CalcMaxHP, wantBase: 48},
		{name: "bp from spirit", core: sheet.CoreSpirit, coreValue: 4, calc: sheet.CalcBP, wantBase: 10},
		{name: "ac from agility", core: sheet.CoreAgility, coreValue: 2, calc: sheet.CalcAC, wantBase: 12},
		{name: "speed from speed", core: sheet.CoreSpeed, coreValue: 6, calc: sheet.CalcSpeed, wantBase: 6},
		{name: "negative grit drags max hp below 30", core: sheet.CoreGrit, coreValue: -2, calc: sheet.CalcMaxHP, wantBase: 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh := newTestSheet(t)
			require.NoError(t, sh.SetCore(tt.core, sheet.CoreFieldBase, tt.coreValue))
			sh.Recompute()
			assert.Equal(t, tt.wantBase, sh.CalcAttr(tt.calc).Base)
		})
	}
}

func TestSetCalc_ComputedBaseIsOverwritten(t *testing.T) {
	sh := newTestSheet(t)

	// The write is accepted, then the recompute reasserts the derived value
	require.NoError(t, sh.SetCalc(sheet.CalcMaxHP, sheet.CalcFieldBase, 999))
	sh.Recompute()
	assert.Equal(t, 30, sh.CalcAttr(sheet.CalcMaxHP).Base)
}

func TestSetCalc_UserEnteredBaseSticks(t *testing.T) {
	sh := newTestSheet(t)

	require.NoError(t, sh.SetCalc(sheet.CalcDR, sheet.CalcFieldBase, 12))
	require.NoError(t, sh.SetCalc(sheet.CalcMana, sheet.CalcFieldBase, 5))
	sh.Recompute()
	assert.Equal(t, 12, sh.CalcAttr(sheet.CalcDR).Base)
	assert.Equal(t, 5, sh.CalcAttr(sheet.CalcMana).Base)
}

func TestMultiplier_EndRoundsUp(t *testing.T) {
	tests := []struct {
		name    string
		base    int
		mod     int
		temp    int
		mult    float64
		wantEnd int
	}{
		{name: "identity", base: 12, mult: 1, wantEnd: 12},
		{name: "half up", base: 12, mult: 1.5, wantEnd: 18},
		{name: "fraction rounds up", base: 5, mult: 1.1, wantEnd: 6},
		{name: "tiny multiplier keeps one", base: 1, mult: 0.01, wantEnd: 1},
		{name: "zero multiplier zeroes", base: 7, mult: 0, wantEnd: 0},
		{name: "mods count before scaling", base: 4, mod: 3, temp: 1, mult: 1.5, wantEnd: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh := newTestSheet(t)
			require.NoError(t, sh.SetCalc(sheet.CalcDR, sheet.CalcFieldBase, tt.base))
			require.NoError(t, sh.SetCalc(sheet.CalcDR, sheet.CalcFieldModifier, tt.mod))
			require.NoError(t, sh.SetCalc(sheet.CalcDR, sheet.CalcFieldTemporary, tt.temp))
			require.NoError(t, sh.SetMultiplier(sheet.CalcDR, tt.mult))
			sh.Recompute()
			assert.Equal(t, tt.wantEnd, sh.CalcAttr(sheet.CalcDR).End)
		})
	}
}

func TestSetCore_UnknownName(t *testing.T) {
	sh := newTestSheet(t)
	assert.Error(t, sh.SetCore("Luck", sheet.CoreFieldBase, 1))
}

func TestSetCalc_UnknownName(t *testing.T) {
	sh := newTestSheet(t)
	assert.Error(t, sh.SetCalc("Sanity", sheet.CalcFieldBase, 1))
}

func TestCollection_ByKind(t *testing.T) {
	sh := newTestSheet(t)

	for _, kind := range sheet.Kinds {
		c, err := sh.Collection(kind)
		require.NoError(t, err, string(kind))
		assert.Equal(t, kind, c.Kind)
		assert.Len(t, c.Items, 1)
	}

	_, err := sh.Collection(sheet.Kind("socks"))
	assert.Error(t, err)
}

func TestClone_IsDeep(t *testing.T) {
	sh := newTestSheet(t)
	require.NoError(t, sh.SetCore(sheet.CoreGrit, sheet.CoreFieldBase, 3))
	sh.Inventory.Items[0].Name = "Rope"
	sh.Motes[0].Rows[0].Ability = "I Hit Back"

	clone := sh.Clone()
	clone.Name = "Copy"
	require.NoError(t, clone.SetCore(sheet.CoreGrit, sheet.CoreFieldBase, 9))
	clone.Recompute()
	clone.Inventory.Items[0].Name = "Torch"
	clone.Motes[0].Rows[0].Ability = "Gush"

	assert.Equal(t, "", sh.Name)
	assert.Equal(t, 3, sh.CoreAttr(sheet.CoreGrit).Base)
	assert.Equal(t, "Rope", sh.Inventory.Items[0].Name)
	assert.Equal(t, "I Hit Back", sh.Motes[0].Rows[0].Ability)
}

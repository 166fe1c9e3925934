package sheet_test

import (
	apperr "github.com/yui-dot/apollyon-sheet/internal/errors"
	sheetdata "github.com/yui-dot/apollyon-sheet/internal/sheet"
	sheetsvc "github.com/yui-dot/apollyon-sheet/internal/services/sheet"
)

func (s *ServiceTestSuite) buildPopulatedSheet() {
	_, err := s.svc.UpdateIdentity(s.ctx, s.sheetID, &sheetsvc.IdentityInput{
		Name:  strptr("Verity"),
		Level: strptr("4"),
		Exp:   strptr("120"),
		Race:  strptr("Hollow"),
	})
	s.Require().NoError(err)

	_, err = s.svc.SetCoreAttribute(s.ctx, s.sheetID, &sheetsvc.CoreAttributeInput{
		Name:  sheetdata.CoreGrit,
		Field: sheetdata.CoreFieldBase,
		Value: "3",
	})
	s.Require().NoError(err)

	_, err = s.svc.SetDerivedAttribute(s.ctx, s.sheetID, &sheetsvc.DerivedAttributeInput{
		Name:  sheetdata.CalcDR,
		Field: "base",
		Value: "12",
	})
	s.Require().NoError(err)
	_, err = s.svc.SetDerivedAttribute(s.ctx, s.sheetID, &sheetsvc.DerivedAttributeInput{
		Name:  sheetdata.CalcDR,
		Field: "mult",
		Value: "1.5",
	})
	s.Require().NoError(err)

	_, err = s.svc.SetMoteCategory(s.ctx, s.sheetID, 0, "Shrail")
	s.Require().NoError(err)
	_, err = s.svc.SelectAbility(s.ctx, s.sheetID, 0, 0, "Vitality of Rage")
	s.Require().NoError(err)
	_, err = s.svc.AddAbilityRow(s.ctx, s.sheetID, 0)
	s.Require().NoError(err)

	out, err := s.svc.GetSheet(s.ctx, s.sheetID)
	s.Require().NoError(err)
	itemID := out.Sheet.Inventory.Items[0].ID
	_, err = s.svc.UpdateItem(s.ctx, s.sheetID, sheetdata.KindInventory, itemID, &sheetsvc.ItemInput{
		Name: strptr("Rope"),
		Desc: strptr("50 feet"),
	})
	s.Require().NoError(err)

	_, err = s.svc.SetMasteryValue(s.ctx, s.sheetID, "7")
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TestExportImport_RoundTrip() {
	s.buildPopulatedSheet()

	payload, err := s.svc.Export(s.ctx, s.sheetID)
	s.Require().NoError(err)

	// Import into a second sheet and compare
	created, err := s.svc.CreateSheet(s.ctx)
	s.Require().NoError(err)

	out, err := s.svc.Import(s.ctx, created.Sheet.ID, payload)
	s.Require().NoError(err)
	sh := out.Sheet

	s.Equal(created.Sheet.ID, sh.ID)
	s.Equal("Verity", sh.Name)
	s.Equal("4", sh.Level)
	s.Equal("120", sh.Exp)
	s.Equal("Hollow", sh.Race)
	s.Equal(3, sh.CoreTotal(sheetdata.CoreGrit))
	s.Equal(48, sh.CalcAttr(sheetdata.CalcMaxHP).Base)
	s.Equal(18, sh.CalcAttr(sheetdata.CalcDR).End)
	s.Equal("Shrail", sh.Motes[0].Category)
	s.Require().Len(sh.Motes[0].Rows, 2)
	s.Equal("Vitality of Rage", sh.Motes[0].Rows[0].Ability)
	s.Equal("Rope", sh.Inventory.Items[0].Name)
	s.Equal("50 feet", sh.Inventory.Items[0].Desc)
	s.Equal("7", sh.MasteryValue)
}

func (s *ServiceTestSuite) TestImport_MalformedPayloadLeavesSheetUntouched() {
	s.buildPopulatedSheet()

	before, err := s.svc.Export(s.ctx, s.sheetID)
	s.Require().NoError(err)

	_, err = s.svc.Import(s.ctx, s.sheetID, "{not json")
	s.Error(err)
	s.True(apperr.IsImport(err))

	after, err := s.svc.Export(s.ctx, s.sheetID)
	s.Require().NoError(err)
	s.Equal(before, after)
}

func (s *ServiceTestSuite) TestImport_NonObjectPayloadRejected() {
	_, err := s.svc.Import(s.ctx, s.sheetID, `[1, 2, 3]`)
	s.Error(err)
	s.True(apperr.IsImport(err))
}

func (s *ServiceTestSuite) TestImport_EmptyObjectYieldsDefaults() {
	s.buildPopulatedSheet()

	out, err := s.svc.Import(s.ctx, s.sheetID, `{}`)
	s.Require().NoError(err)
	sh := out.Sheet

	s.Equal("", sh.Name)
	s.Equal(0, sh.CoreTotal(sheetdata.CoreGrit))
	s.Equal(30, sh.CalcAttr(sheetdata.CalcMaxHP).Base)
	s.Equal("", sh.Motes[0].Category)
	s.Len(sh.Inventory.Items, 1)
}

func (s *ServiceTestSuite) TestImport_UnknownAbilityFallsBackToDefault() {
	payload := `{"motes":[{"mote":"Shrail","abilities":[{"ability":"Not An Ability","desc":"stale"}]}]}`

	out, err := s.svc.Import(s.ctx, s.sheetID, payload)
	s.Require().NoError(err)

	row := out.Sheet.Motes[0].Rows[0]
	s.Equal("I Hit Back", row.Ability)
	s.NotEqual("stale", row.Desc)
}

func (s *ServiceTestSuite) TestImport_ConflictingSelectionsAreKeptAndReported() {
	payload := `{"motes":[{"mote":"Shrail"},{"mote":"Shrail"}]}`

	out, err := s.svc.Import(s.ctx, s.sheetID, payload)
	s.Require().NoError(err)

	s.Equal("Shrail", out.Sheet.Motes[0].Category)
	s.Equal("Shrail", out.Sheet.Motes[1].Category)
	// Both slots hold the value, so neither dropdown disables it
	s.False(out.Conflicts.CategoryDisabled(0, "Shrail"))
	s.False(out.Conflicts.CategoryDisabled(1, "Shrail"))
	// The third slot cannot pick it
	s.True(out.Conflicts.CategoryDisabled(2, "Shrail"))
}

package workbook

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

const fixtureSheet = "G703"

// buildTemplate returns the bytes of a small AIA-style template:
//
//	row 1-3  scalar tokens next to a number, a formula and a boolean
//	row 10   the SOV template row
//	row 12   a totals row below the SOV section
func buildTemplate(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", fixtureSheet); err != nil {
		t.Fatalf("SetSheetName failed: %v", err)
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 4, Font: &excelize.Font{Bold: true}})
	if err != nil {
		t.Fatalf("NewStyle failed: %v", err)
	}

	set := func(axis string, v interface{}) {
		t.Helper()
		if err := f.SetCellValue(fixtureSheet, axis, v); err != nil {
			t.Fatalf("SetCellValue(%s) failed: %v", axis, err)
		}
	}
	formula := func(axis, expr string) {
		t.Helper()
		if err := f.SetCellFormula(fixtureSheet, axis, expr); err != nil {
			t.Fatalf("SetCellFormula(%s) failed: %v", axis, err)
		}
	}

	set("A1", "{company_name}")
	set("B1", 42)
	set("C1", "{unknown_token}")
	set("A2", "Project: {project_name}")
	formula("B2", "SUM(B1,1)")
	set("C2", "end")
	set("A3", "Application #{application_number}")
	set("B3", true)

	set("A10", "{sov_item_no}")
	set("B10", "{sov_description}")
	set("C10", "{sov_this_period}")
	formula("D10", "LEN(B10)")
	set("E10", "{company_name}")
	if err := f.SetCellStyle(fixtureSheet, "C10", "C10", money); err != nil {
		t.Fatalf("SetCellStyle failed: %v", err)
	}

	set("A12", "Total")
	formula("C12", "SUM(C10:C10)")
	set("D12", "end")

	if err := f.SetDefinedName(&excelize.DefinedName{
		Name:     "_xlnm.Print_Area",
		RefersTo: "'" + fixtureSheet + "'!$A$1:$E$20",
		Scope:    fixtureSheet,
	}); err != nil {
		t.Fatalf("SetDefinedName failed: %v", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}

func loadFixture(t *testing.T) *excelize.File {
	t.Helper()
	f, err := Load(buildTemplate(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func cellValue(t *testing.T, f *excelize.File, axis string) string {
	t.Helper()
	v, err := f.GetCellValue(fixtureSheet, axis, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue(%s) failed: %v", axis, err)
	}
	return v
}

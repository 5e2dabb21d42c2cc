package workbook

import (
	"fmt"
	"strings"

	"github.com/ukaji3/aiafill-go/pkg/aiafill/tokens"
	"github.com/xuri/excelize/v2"
)

// ScalarReport summarizes a scalar substitution pass.
type ScalarReport struct {
	// Cells is the number of cells rewritten.
	Cells int
	// Unknown lists token names outside the dictionary, replaced by "".
	Unknown []string
	// SkippedSheets lists sheets whose cells could not be read (chart sheets).
	SkippedSheets []string
}

// SubstituteScalars resolves {name} tokens in every string cell of every
// sheet. Cells carrying a {sov_*} token are left for ExpandSOV; numbers,
// booleans, dates and formulas are never touched.
func SubstituteScalars(f *excelize.File, d tokens.Dict) (ScalarReport, error) {
	var report ScalarReport
	var edits []cellEdit

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, rawValue)
		if err != nil {
			report.SkippedSheets = append(report.SkippedSheets, sheet)
			continue
		}
		for rowIdx, row := range rows {
			for colIdx, value := range row {
				if !strings.Contains(value, "{") || tokens.HasSOVToken(value) {
					continue
				}
				axis, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
				if err != nil {
					return report, err
				}
				edit, unknown, changed, err := planScalar(f, sheet, axis, d)
				if err != nil {
					return report, fmt.Errorf("plan %s!%s: %w", sheet, axis, err)
				}
				if !changed {
					continue
				}
				report.Unknown = mergeUnique(report.Unknown, unknown)
				edits = append(edits, edit)
			}
		}
	}

	if err := applyEdits(f, edits); err != nil {
		return report, err
	}
	report.Cells = len(edits)
	return report, nil
}

func planScalar(f *excelize.File, sheet, axis string, d tokens.Dict) (cellEdit, []string, bool, error) {
	cell, err := ReadCell(f, sheet, axis)
	if err != nil {
		return cellEdit{}, nil, false, err
	}
	if !cell.IsString() {
		return cellEdit{}, nil, false, nil
	}
	runs, err := f.GetCellRichText(sheet, axis)
	if err != nil {
		return cellEdit{}, nil, false, err
	}
	edit, unknown, changed := rewriteText(sheet, axis, cell.Value, runs, d)
	return edit, unknown, changed, nil
}

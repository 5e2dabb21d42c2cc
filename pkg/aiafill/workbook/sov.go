package workbook

import (
	"fmt"
	"strings"

	"github.com/tiendc/go-deepcopy"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/tokens"
	"github.com/xuri/excelize/v2"
)

// ZeroItemPolicy decides what happens to the template row when there are no line items.
type ZeroItemPolicy string

const (
	// ZeroItemsClear resolves the row's SOV tokens to "" and keeps its formatting.
	ZeroItemsClear ZeroItemPolicy = "clear"
	// ZeroItemsRemove deletes the template row.
	ZeroItemsRemove ZeroItemPolicy = "remove"
	// ZeroItemsKeep leaves the row untouched, tokens included.
	ZeroItemsKeep ZeroItemPolicy = "keep"
)

// Valid reports whether p is a known policy.
func (p ZeroItemPolicy) Valid() bool {
	switch p {
	case ZeroItemsClear, ZeroItemsRemove, ZeroItemsKeep:
		return true
	}
	return false
}

// ExpandOptions configures ExpandSOV.
type ExpandOptions struct {
	// ZeroItems applies when the item list is empty. Empty means ZeroItemsClear.
	ZeroItems ZeroItemPolicy
	// RebaseFormulas shifts relative row references in cloned formulas onto the clone's row.
	RebaseFormulas bool
	// NumericCells writes a number instead of text into cells holding exactly
	// one numeric SOV token, so the template's number format applies.
	NumericCells bool
}

// TemplateCell is one cell of the schedule-of-values template row as found
// in the pristine template.
type TemplateCell struct {
	Col     int
	Raw     string
	Runs    []excelize.RichTextRun
	Formula string
	// SOV marks string cells carrying at least one {sov_*} token.
	SOV bool
}

// SOVRow is the located template row together with its captured cells. It is
// the arena every materialized line-item row is cloned from.
type SOVRow struct {
	Sheet string
	Row   int
	Cells []TemplateCell
}

// SOVReport summarizes an expansion.
type SOVReport struct {
	Sheet       string
	TemplateRow int
	// Rows is the number of line-item rows materialized.
	Rows int
	// Unknown lists non-vocabulary tokens replaced by "" inside SOV cells.
	Unknown []string
	// Removed is set when the template row was deleted for an empty item list.
	Removed bool
}

// LocateSOVRow scans sheets in order, rows top to bottom, and returns the
// first row holding a string cell with a {sov_*} token. It returns nil when
// the template has no repeating section.
func LocateSOVRow(f *excelize.File) (*SOVRow, error) {
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, rawValue)
		if err != nil {
			continue
		}
		for rowIdx, row := range rows {
			for colIdx, value := range row {
				if !tokens.HasSOVToken(value) {
					continue
				}
				axis, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
				if err != nil {
					return nil, err
				}
				cell, err := ReadCell(f, sheet, axis)
				if err != nil {
					return nil, err
				}
				if !cell.IsString() {
					continue
				}
				return captureRow(f, sheet, rowIdx+1, row)
			}
		}
	}
	return nil, nil
}

func captureRow(f *excelize.File, sheet string, rowNum int, values []string) (*SOVRow, error) {
	sov := &SOVRow{Sheet: sheet, Row: rowNum}
	for colIdx, value := range values {
		axis, err := excelize.CoordinatesToCellName(colIdx+1, rowNum)
		if err != nil {
			return nil, err
		}
		cell, err := ReadCell(f, sheet, axis)
		if err != nil {
			return nil, err
		}
		switch {
		case cell.Type == models.CellFormula:
			sov.Cells = append(sov.Cells, TemplateCell{Col: cell.Col, Formula: cell.Formula})
		case cell.IsString() && tokens.HasSOVToken(value):
			runs, err := f.GetCellRichText(sheet, axis)
			if err != nil {
				return nil, err
			}
			sov.Cells = append(sov.Cells, TemplateCell{Col: cell.Col, Raw: cell.Value, Runs: runs, SOV: true})
		}
	}
	return sov, nil
}

// cloneWith returns an independent copy of c resolved against d for row.
func (c TemplateCell) cloneWith(sheet string, row int, item models.LineItem, d tokens.Dict, numeric bool) (cellEdit, []string, error) {
	var clone TemplateCell
	if err := deepcopy.Copy(&clone, &c); err != nil {
		return cellEdit{}, nil, fmt.Errorf("clone template cell: %w", err)
	}
	axis, err := excelize.CoordinatesToCellName(clone.Col, row)
	if err != nil {
		return cellEdit{}, nil, err
	}
	if numeric {
		if v, ok := singleNumericToken(clone.Raw, item); ok {
			return cellEdit{sheet: sheet, axis: axis, number: &v}, nil, nil
		}
	}
	edit, unknown, _ := rewriteText(sheet, axis, clone.Raw, clone.Runs, d)
	return edit, unknown, nil
}

// singleNumericToken returns the value for a cell consisting of exactly one
// numeric SOV token. Percentages are returned as fractions.
func singleNumericToken(raw string, item models.LineItem) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	names := tokens.Find(trimmed)
	if len(names) != 1 || tokens.Count(trimmed) != 1 || !strings.EqualFold(trimmed, "{"+names[0]+"}") {
		return 0, false
	}
	v, ok := tokens.LineItemNumber(item, names[0])
	if !ok {
		return 0, false
	}
	if names[0] == tokens.SOVPercentComplete {
		v /= 100
	}
	return v, true
}

// ExpandSOV materializes one row per line item from the template row: it
// inserts len(items)-1 structural copies directly below the template row, then
// writes each row from the captured arena with that item's values. base
// supplies scalar tokens that may also appear inside SOV cells.
func ExpandSOV(f *excelize.File, row *SOVRow, items []models.LineItem, base tokens.Dict, opts ExpandOptions) (SOVReport, error) {
	var report SOVReport
	if row == nil {
		return report, nil
	}
	report.Sheet, report.TemplateRow = row.Sheet, row.Row

	if len(items) == 0 {
		return expandEmpty(f, row, base, opts, report)
	}

	printAreas := sheetPrintAreaNames(f, row.Sheet)
	for i := 1; i < len(items); i++ {
		if err := f.DuplicateRowTo(row.Sheet, row.Row, row.Row+1); err != nil {
			return report, fmt.Errorf("duplicate row %d: %w", row.Row, err)
		}
	}

	var edits []cellEdit
	for i, item := range items {
		target := row.Row + i
		d := base.With(tokens.LineItemMap(item))
		for _, cell := range row.Cells {
			if cell.SOV {
				edit, unknown, err := cell.cloneWith(row.Sheet, target, item, d, opts.NumericCells)
				if err != nil {
					return report, err
				}
				report.Unknown = mergeUnique(report.Unknown, unknown)
				edits = append(edits, edit)
				continue
			}
			if cell.Formula == "" || i == 0 || !opts.RebaseFormulas {
				continue
			}
			edit, ok, err := rebaseClone(f, row, cell, target)
			if err != nil {
				return report, err
			}
			if ok {
				edits = append(edits, edit)
			}
		}
	}
	if err := applyEdits(f, edits); err != nil {
		return report, err
	}
	if err := extendPrintAreas(f, row.Sheet, printAreas, row.Row, len(items)-1); err != nil {
		return report, err
	}

	report.Rows = len(items)
	return report, nil
}

// rebaseClone plans a formula rewrite for a clone whose formula still reads
// exactly like the template's.
func rebaseClone(f *excelize.File, row *SOVRow, cell TemplateCell, target int) (cellEdit, bool, error) {
	axis, err := excelize.CoordinatesToCellName(cell.Col, target)
	if err != nil {
		return cellEdit{}, false, err
	}
	current, err := f.GetCellFormula(row.Sheet, axis)
	if err != nil {
		return cellEdit{}, false, err
	}
	if current != cell.Formula {
		return cellEdit{}, false, nil
	}
	rebased := RebaseRowFormula(cell.Formula, row.Sheet, row.Row, target)
	if rebased == current {
		return cellEdit{}, false, nil
	}
	return cellEdit{sheet: row.Sheet, axis: axis, formula: rebased}, true, nil
}

func expandEmpty(f *excelize.File, row *SOVRow, base tokens.Dict, opts ExpandOptions, report SOVReport) (SOVReport, error) {
	switch opts.ZeroItems {
	case ZeroItemsKeep:
		return report, nil
	case ZeroItemsRemove:
		if err := f.RemoveRow(row.Sheet, row.Row); err != nil {
			return report, fmt.Errorf("remove row %d: %w", row.Row, err)
		}
		report.Removed = true
		return report, nil
	}

	blank := make(tokens.Dict)
	for _, name := range tokens.SOVVocabulary() {
		blank[name] = ""
	}
	d := base.With(blank)

	var edits []cellEdit
	for _, cell := range row.Cells {
		if !cell.SOV {
			continue
		}
		axis, err := excelize.CoordinatesToCellName(cell.Col, row.Row)
		if err != nil {
			return report, err
		}
		edit, unknown, _ := rewriteText(row.Sheet, axis, cell.Raw, cell.Runs, d)
		report.Unknown = mergeUnique(report.Unknown, unknown)
		edits = append(edits, edit)
	}
	return report, applyEdits(f, edits)
}

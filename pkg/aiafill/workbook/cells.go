package workbook

import (
	"fmt"

	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
	"github.com/xuri/excelize/v2"
)

// rawValue reads stored values without applying number formats.
var rawValue = excelize.Options{RawCellValue: true}

// ReadCell classifies a single cell. Formula cells are reported as
// CellFormula whatever their cached result type.
func ReadCell(f *excelize.File, sheet, axis string) (models.Cell, error) {
	col, _, err := excelize.CellNameToCoordinates(axis)
	if err != nil {
		return models.Cell{}, err
	}
	formula, err := f.GetCellFormula(sheet, axis)
	if err != nil {
		return models.Cell{}, err
	}
	value, err := f.GetCellValue(sheet, axis, rawValue)
	if err != nil {
		return models.Cell{}, err
	}
	styleID, err := f.GetCellStyle(sheet, axis)
	if err != nil {
		return models.Cell{}, err
	}
	cell := models.Cell{Col: col, Axis: axis, Value: value, Formula: formula, StyleID: styleID}
	if formula != "" {
		cell.Type = models.CellFormula
		return cell, nil
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return models.Cell{}, err
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		cell.Type = models.CellString
	case excelize.CellTypeBool:
		cell.Type = models.CellBool
	case excelize.CellTypeError:
		cell.Type = models.CellError
	case excelize.CellTypeFormula:
		// Cached string result of a formula we could not read back.
		cell.Type = models.CellFormula
	default:
		cell.Type = models.CellNumber
	}
	return cell, nil
}

// ExtractCells returns the non-empty rows of a sheet, including formula
// cells that have no cached value yet.
func ExtractCells(f *excelize.File, sheetName string) ([]models.Row, error) {
	rows, err := f.GetRows(sheetName, rawValue)
	if err != nil {
		return nil, err
	}

	var result []models.Row
	for rowIdx, row := range rows {
		rowNum := rowIdx + 1
		var cells []models.Cell

		for colIdx, cellValue := range row {
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowNum)
			if err != nil {
				return nil, err
			}
			if cellValue == "" {
				formula, err := f.GetCellFormula(sheetName, cellName)
				if err != nil || formula == "" {
					continue
				}
			}
			cell, err := ReadCell(f, sheetName, cellName)
			if err != nil {
				return nil, fmt.Errorf("read %s!%s: %w", sheetName, cellName, err)
			}
			cells = append(cells, cell)
		}

		if len(cells) > 0 {
			result = append(result, models.Row{R: rowNum, Cells: cells})
		}
	}

	return result, nil
}

// Snapshot captures every sheet of f as an immutable WorkbookModel.
func Snapshot(f *excelize.File, bookName string) (*models.WorkbookModel, error) {
	printAreas, err := ExtractPrintAreas(f)
	if err != nil {
		return nil, err
	}

	wb := &models.WorkbookModel{BookName: bookName}
	for _, sheetName := range f.GetSheetList() {
		rows, err := ExtractCells(f, sheetName)
		if err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, models.Sheet{
			Name:       sheetName,
			Rows:       rows,
			PrintAreas: printAreas[sheetName],
		})
	}
	return wb, nil
}

package workbook

import (
	"fmt"
	"strings"

	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
	"github.com/xuri/excelize/v2"
)

const printAreaName = "_xlnm.Print_Area"

// ExtractPrintAreas extracts print areas from a workbook.
// Returns a map of sheet name to list of print areas.
func ExtractPrintAreas(f *excelize.File) (map[string][]models.PrintArea, error) {
	result := make(map[string][]models.PrintArea)

	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, printAreaName) {
			continue
		}
		sheetName, areas := parsePrintAreaReference(dn.RefersTo)
		if sheetName != "" && len(areas) > 0 {
			result[sheetName] = append(result[sheetName], areas...)
		}
	}

	return result, nil
}

// sheetPrintAreaNames returns the print-area defined names scoped to sheet.
func sheetPrintAreaNames(f *excelize.File, sheet string) []excelize.DefinedName {
	var names []excelize.DefinedName
	for _, dn := range f.GetDefinedName() {
		if strings.EqualFold(dn.Name, printAreaName) && dn.Scope == sheet {
			names = append(names, dn)
		}
	}
	return names
}

// extendPrintAreas grows print areas that covered templateRow by added rows.
// Names the workbook library already adjusted during row insertion are left alone.
func extendPrintAreas(f *excelize.File, sheet string, before []excelize.DefinedName, templateRow, added int) error {
	if added <= 0 {
		return nil
	}
	current := make(map[string]string)
	for _, dn := range sheetPrintAreaNames(f, sheet) {
		current[dn.Name] = dn.RefersTo
	}

	for _, dn := range before {
		if ref, ok := current[dn.Name]; !ok || ref != dn.RefersTo {
			continue
		}
		areaSheet, areas := parsePrintAreaReference(dn.RefersTo)
		if areaSheet == "" || len(areas) == 0 {
			continue
		}
		covered := false
		for i := range areas {
			switch {
			case areas[i].ContainsRow(templateRow):
				areas[i].R2 += added
				covered = true
			case areas[i].R1 > templateRow:
				areas[i].R1 += added
				areas[i].R2 += added
			}
		}
		if !covered {
			continue
		}
		refersTo, err := formatPrintAreaReference(areaSheet, areas)
		if err != nil {
			return err
		}
		if err := f.DeleteDefinedName(&excelize.DefinedName{Name: dn.Name, Scope: dn.Scope}); err != nil {
			return fmt.Errorf("delete print area: %w", err)
		}
		if err := f.SetDefinedName(&excelize.DefinedName{
			Name:     dn.Name,
			Comment:  dn.Comment,
			RefersTo: refersTo,
			Scope:    dn.Scope,
		}); err != nil {
			return fmt.Errorf("set print area: %w", err)
		}
	}
	return nil
}

// parsePrintAreaReference parses a print area reference string.
// Format: 'SheetName'!$A$1:$D$10 or SheetName!$A$1:$D$10
func parsePrintAreaReference(ref string) (string, []models.PrintArea) {
	var areas []models.PrintArea

	var sheetName string
	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			continue
		}
		sheet := strings.Trim(part[:idx], "'")
		sheet = strings.ReplaceAll(sheet, "''", "'")
		if sheetName == "" {
			sheetName = sheet
		}
		if area := parseRangeToArea(part[idx+1:]); area != nil {
			areas = append(areas, *area)
		}
	}

	return sheetName, areas
}

// parseRangeToArea parses a range string like $A$1:$D$10 to PrintArea.
func parseRangeToArea(rangeStr string) *models.PrintArea {
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")

	parts := strings.Split(rangeStr, ":")
	if len(parts) != 2 {
		return nil
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return nil
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return nil
	}

	return &models.PrintArea{R1: startRow, C1: startCol, R2: endRow, C2: endCol}
}

func formatPrintAreaReference(sheet string, areas []models.PrintArea) (string, error) {
	quoted := "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	parts := make([]string, 0, len(areas))
	for _, a := range areas {
		start, err := excelize.CoordinatesToCellName(a.C1, a.R1, true)
		if err != nil {
			return "", err
		}
		end, err := excelize.CoordinatesToCellName(a.C2, a.R2, true)
		if err != nil {
			return "", err
		}
		parts = append(parts, quoted+"!"+start+":"+end)
	}
	return strings.Join(parts, ","), nil
}

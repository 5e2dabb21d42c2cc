package aiafill

import (
	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/tokens"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/workbook"
)

// SheetTokens lists the placeholders found on one sheet.
type SheetTokens struct {
	Name string `json:"name"`
	// Tokens are scalar placeholders in order of appearance.
	Tokens []string `json:"tokens,omitempty"`
	// SOVTokens are schedule-of-values placeholders.
	SOVTokens []string `json:"sov_tokens,omitempty"`
	// Unknown are placeholders outside both vocabularies.
	Unknown    []string           `json:"unknown,omitempty"`
	PrintAreas []models.PrintArea `json:"print_areas,omitempty"`
}

// TemplateReport describes what a template asks the generator for.
type TemplateReport struct {
	Name   string        `json:"name"`
	Sheets []SheetTokens `json:"sheets"`
	// SOVSheet and SOVRow locate the repeating row; empty when the template has none.
	SOVSheet string `json:"sov_sheet,omitempty"`
	SOVRow   int    `json:"sov_row,omitempty"`
	// Snapshot is the full cell model, set when requested.
	Snapshot *models.WorkbookModel `json:"snapshot,omitempty"`
}

// Inspect reports the placeholders and SOV row of a template without
// modifying it.
func Inspect(template []byte, name string, withSnapshot bool) (*TemplateReport, error) {
	f, err := workbook.Load(template)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb, err := workbook.Snapshot(f, name)
	if err != nil {
		return nil, err
	}
	sov, err := workbook.LocateSOVRow(f)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool)
	for _, n := range tokens.Vocabulary() {
		known[n] = true
	}
	for _, n := range tokens.SOVVocabulary() {
		known[n] = true
	}

	report := &TemplateReport{Name: name}
	if sov != nil {
		report.SOVSheet, report.SOVRow = sov.Sheet, sov.Row
	}
	for _, sheet := range wb.Sheets {
		st := SheetTokens{Name: sheet.Name, PrintAreas: sheet.PrintAreas}
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				if !cell.IsString() {
					continue
				}
				for _, n := range tokens.Find(cell.Value) {
					switch {
					case !known[n]:
						st.Unknown = appendName(st.Unknown, n)
					case tokens.IsSOVName(n):
						st.SOVTokens = appendName(st.SOVTokens, n)
					default:
						st.Tokens = appendName(st.Tokens, n)
					}
				}
			}
		}
		report.Sheets = append(report.Sheets, st)
	}
	if withSnapshot {
		report.Snapshot = wb
	}
	return report, nil
}

func appendName(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

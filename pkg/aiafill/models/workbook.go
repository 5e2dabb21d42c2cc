package models

// WorkbookModel is an immutable snapshot of a loaded workbook: ordered sheets,
// each an ordered collection of rows, each a set of cells.
type WorkbookModel struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheets lists worksheets in workbook order.
	Sheets []Sheet `json:"sheets"`
}

// Sheet returns the sheet with the given name.
func (w *WorkbookModel) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

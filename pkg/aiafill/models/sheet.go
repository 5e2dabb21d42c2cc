package models

// Row represents a single non-empty row of cells.
type Row struct {
	// R is the row index (1-based).
	R int `json:"r"`
	// Cells holds the non-empty cells ordered by column.
	Cells []Cell `json:"cells"`
}

// Sheet represents a snapshot of one worksheet.
type Sheet struct {
	// Name is the worksheet name.
	Name string `json:"name"`
	// Rows contains non-empty rows ordered top to bottom.
	Rows []Row `json:"rows,omitempty"`
	// PrintAreas contains user-defined print areas.
	PrintAreas []PrintArea `json:"print_areas,omitempty"`
}

// Cell returns the cell at the given A1 reference, if present.
func (s Sheet) Cell(axis string) (Cell, bool) {
	for _, row := range s.Rows {
		for _, c := range row.Cells {
			if c.Axis == axis {
				return c, true
			}
		}
	}
	return Cell{}, false
}

// Package models defines the data structures shared by the billing-document generator.
package models

// CellType classifies the stored value of a worksheet cell.
type CellType string

const (
	// CellString is a shared or inline string cell. Only these cells carry placeholder tokens.
	CellString CellType = "string"
	// CellNumber is a numeric literal, including dates stored as serial numbers.
	CellNumber CellType = "number"
	// CellBool is a boolean literal.
	CellBool CellType = "bool"
	// CellFormula is any cell with a formula, regardless of its cached result.
	CellFormula CellType = "formula"
	// CellError is an error literal such as #REF!.
	CellError CellType = "error"
)

// Cell is a read-only view of one worksheet cell.
type Cell struct {
	// Col is the column index (1-based).
	Col int `json:"col"`
	// Axis is the A1-style reference, e.g. "C12".
	Axis string `json:"axis"`
	// Value is the raw stored value without number formatting.
	Value string `json:"value"`
	// Type classifies the stored value.
	Type CellType `json:"type"`
	// Formula is the formula text without the leading "=" (empty if none).
	Formula string `json:"formula,omitempty"`
	// StyleID is the index into the workbook's cell formats.
	StyleID int `json:"style_id"`
}

// IsString reports whether the cell may carry placeholder tokens.
func (c Cell) IsString() bool {
	return c.Type == CellString
}

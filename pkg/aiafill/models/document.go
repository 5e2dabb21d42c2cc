package models

// Format is the output document format.
type Format string

const (
	// FormatXLSX is an Open XML spreadsheet document.
	FormatXLSX Format = "xlsx"
)

// XLSXContentType is the MIME type of an Open XML spreadsheet document.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Diagnostics reports what a generation run did to the template.
type Diagnostics struct {
	// GenerationID correlates log lines for one run.
	GenerationID string `json:"generation_id"`
	// TemplateName is the display name of the template used.
	TemplateName string `json:"template_name,omitempty"`
	// ScalarCells is the number of cells rewritten by scalar substitution.
	ScalarCells int `json:"scalar_cells"`
	// UnknownTokens lists token names replaced by "" because they are not in the vocabulary.
	UnknownTokens []string `json:"unknown_tokens,omitempty"`
	// SOVSheet and SOVTemplateRow locate the schedule-of-values row (empty/0 if none).
	SOVSheet       string `json:"sov_sheet,omitempty"`
	SOVTemplateRow int    `json:"sov_template_row,omitempty"`
	// SOVRows is the number of rows materialized for line items.
	SOVRows int `json:"sov_rows"`
}

// Document is the packaged output of one generation call.
type Document struct {
	Blob        []byte      `json:"-"`
	FileName    string      `json:"file_name"`
	ContentType string      `json:"content_type"`
	Format      Format      `json:"format"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

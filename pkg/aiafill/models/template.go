package models

import "time"

// TemplateDescriptor identifies a company's uploaded spreadsheet template.
// Descriptors are owned by template management; the generator only reads them.
type TemplateDescriptor struct {
	ID        string `json:"id" yaml:"id" firestore:"id"`
	CompanyID string `json:"company_id" yaml:"company_id" firestore:"company_id" validate:"required"`
	// Locator addresses the binary content: a file path, an http(s) URL or a gs:// URI.
	Locator   string    `json:"locator" yaml:"locator" firestore:"locator" validate:"required"`
	Name      string    `json:"name" yaml:"name" firestore:"name"`
	IsDefault bool      `json:"is_default" yaml:"is_default" firestore:"is_default"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty" firestore:"updated_at,omitempty"`
}

// DisplayName returns Name, or the locator when the template is unnamed.
func (d TemplateDescriptor) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Locator
}

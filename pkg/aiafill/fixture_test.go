package aiafill

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"
)

const templateSheet = "G702"

// buildTemplate returns a minimal pay application template whose title
// cell reads heading.
func buildTemplate(t *testing.T, heading string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		t.Fatalf("SetSheetName failed: %v", err)
	}
	values := map[string]interface{}{
		"A1": "{company_name}",
		"B1": 100,
		"A2": "{project_name}",
		"A3": "{application_number}",
		"B3": true,
		"C3": "{review_label}",
		"D1": heading,
		"A5": "{sov_item_no}",
		"B5": "{sov_description}",
		"C5": "{sov_this_period}",
		"A7": "Total",
		"D7": "end",
	}
	for axis, v := range values {
		if err := f.SetCellValue(templateSheet, axis, v); err != nil {
			t.Fatalf("SetCellValue(%s) failed: %v", axis, err)
		}
	}
	if err := f.SetCellFormula(templateSheet, "B2", "B1*2"); err != nil {
		t.Fatalf("SetCellFormula failed: %v", err)
	}
	if err := f.SetCellFormula(templateSheet, "C7", "SUM(C5:C5)"); err != nil {
		t.Fatalf("SetCellFormula failed: %v", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}

func exampleData() models.InvoiceApplicationData {
	return models.InvoiceApplicationData{
		Company:     models.Party{Name: "Acme Builders"},
		Project:     models.Project{Name: "Riverside Tower"},
		Application: models.Application{Number: "7"},
		LineItems: []models.LineItem{
			{ItemNumber: "1", Description: "Framing", ThisPeriod: 15000},
			{ItemNumber: "2", Description: "Electrical", ThisPeriod: 8250.5},
		},
	}
}

// memorySource serves templates from memory, keyed by company.
type memorySource struct {
	mu         sync.Mutex
	templates  map[string][]byte
	resolveErr error
	fetchErr   error
	fetches    int
}

func (m *memorySource) ResolveDefaultTemplate(_ context.Context, companyID string) (*models.TemplateDescriptor, error) {
	if m.resolveErr != nil {
		return nil, m.resolveErr
	}
	if _, ok := m.templates[companyID]; !ok {
		return nil, nil
	}
	return &models.TemplateDescriptor{
		ID:        companyID + "-default",
		CompanyID: companyID,
		Locator:   "mem://" + companyID,
		Name:      companyID + " G702",
		IsDefault: true,
	}, nil
}

func (m *memorySource) FetchTemplateBytes(_ context.Context, d models.TemplateDescriptor) ([]byte, error) {
	m.mu.Lock()
	m.fetches++
	m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.templates[d.CompanyID], nil
}

func newTestGenerator(t *testing.T, src TemplateSource, opts Options) *Generator {
	t.Helper()
	opts.Logger = zaptest.NewLogger(t)
	g, err := NewGenerator(src, opts)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	return g
}

func openDocument(t *testing.T, doc *models.Document) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(doc.Blob))
	if err != nil {
		t.Fatalf("output is not a valid workbook: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func readCell(t *testing.T, f *excelize.File, axis string) string {
	t.Helper()
	v, err := f.GetCellValue(templateSheet, axis, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue(%s) failed: %v", axis, err)
	}
	return v
}

// sovRows returns the (item, description, amount) triples found from row 5 down
// to the first empty item cell.
func sovRows(t *testing.T, f *excelize.File) []string {
	t.Helper()
	var rows []string
	for r := 5; ; r++ {
		item := readCell(t, f, fmt.Sprintf("A%d", r))
		if item == "" || strings.EqualFold(item, "Total") {
			return rows
		}
		rows = append(rows, strings.Join([]string{
			item,
			readCell(t, f, fmt.Sprintf("B%d", r)),
			readCell(t, f, fmt.Sprintf("C%d", r)),
		}, "|"))
	}
}

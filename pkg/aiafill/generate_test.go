package aiafill

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/tokens"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/workbook"
	"github.com/xuri/excelize/v2"
)

func TestGenerateExampleScenario(t *testing.T) {
	src := &memorySource{templates: map[string][]byte{"acme": buildTemplate(t, "acme")}}
	g := newTestGenerator(t, src, DefaultOptions())

	doc, err := g.Generate(context.Background(), "acme", exampleData(), Request{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if doc == nil {
		t.Fatal("Generate returned no document")
	}

	if doc.FileName != "AIA_Invoice_7.xlsx" {
		t.Errorf("FileName = %q, expected AIA_Invoice_7.xlsx", doc.FileName)
	}
	if doc.ContentType != models.XLSXContentType || doc.Format != models.FormatXLSX {
		t.Errorf("ContentType, Format = %q, %q", doc.ContentType, doc.Format)
	}

	f := openDocument(t, doc)
	for axis, want := range map[string]string{
		"A1": "Acme Builders",
		"A2": "Riverside Tower",
		"A3": "7",
		"C3": "",
	} {
		if got := readCell(t, f, axis); got != want {
			t.Errorf("%s = %q, expected %q", axis, got, want)
		}
	}

	want := []string{"1|Framing|$15,000.00", "2|Electrical|$8,250.50"}
	if got := sovRows(t, f); !reflect.DeepEqual(got, want) {
		t.Errorf("SOV rows = %v, expected %v", got, want)
	}
	if got := readCell(t, f, "A8"); got != "Total" {
		t.Errorf("A8 = %q, expected totals row below the SOV section", got)
	}

	d := doc.Diagnostics
	if d.GenerationID == "" || d.TemplateName != "acme G702" {
		t.Errorf("Diagnostics = %+v", d)
	}
	if d.SOVSheet != templateSheet || d.SOVTemplateRow != 5 || d.SOVRows != 2 {
		t.Errorf("SOV diagnostics = %+v", d)
	}
	if len(d.UnknownTokens) != 0 {
		t.Errorf("UnknownTokens = %v, expected none", d.UnknownTokens)
	}
}

func TestGenerateReviewCopy(t *testing.T) {
	src := &memorySource{templates: map[string][]byte{"acme": buildTemplate(t, "acme")}}
	g := newTestGenerator(t, src, DefaultOptions())

	doc, err := g.Generate(context.Background(), "acme", exampleData(), Request{ForReview: true})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if doc.FileName != "AIA_Invoice_7_REVIEW.xlsx" {
		t.Errorf("FileName = %q", doc.FileName)
	}
	if got := readCell(t, openDocument(t, doc), "C3"); got != tokens.ReviewLabel {
		t.Errorf("C3 = %q, expected %q", got, tokens.ReviewLabel)
	}
}

func TestGenerateWithoutTemplate(t *testing.T) {
	src := &memorySource{templates: map[string][]byte{}}
	g := newTestGenerator(t, src, DefaultOptions())

	doc, err := g.Generate(context.Background(), "acme", exampleData(), Request{})
	if err != nil || doc != nil {
		t.Errorf("Generate = %+v, %v; expected nil, nil", doc, err)
	}
	if src.fetches != 0 {
		t.Errorf("fetched %d times, expected no fetch", src.fetches)
	}
}

func TestGenerateFetchFailure(t *testing.T) {
	cause := errors.New("status 503")
	src := &memorySource{
		templates: map[string][]byte{"acme": buildTemplate(t, "acme")},
		fetchErr:  cause,
	}
	g := newTestGenerator(t, src, DefaultOptions())

	doc, err := g.Generate(context.Background(), "acme", exampleData(), Request{})
	if doc != nil {
		t.Errorf("expected no document on failure")
	}
	if !errors.Is(err, ErrTemplateFetch) || !errors.Is(err, cause) {
		t.Fatalf("error = %v, expected ErrTemplateFetch wrapping the cause", err)
	}
	var genErr *GenerationError
	if !errors.As(err, &genErr) || genErr.Stage != StageFetch || genErr.CompanyID != "acme" {
		t.Errorf("error = %#v", err)
	}
}

func TestGenerateInvalidDescriptor(t *testing.T) {
	src := &memorySource{resolveErr: fmt.Errorf("%w \"acme-default\": Locator required", ErrInvalidDescriptor)}
	g := newTestGenerator(t, src, DefaultOptions())

	_, err := g.Generate(context.Background(), "acme", exampleData(), Request{})
	if !errors.Is(err, ErrInvalidDescriptor) || errors.Is(err, ErrTemplateFetch) {
		t.Fatalf("error = %v, expected ErrInvalidDescriptor only", err)
	}
	var genErr *GenerationError
	if !errors.As(err, &genErr) || genErr.Stage != StageResolve {
		t.Errorf("error = %#v", err)
	}
}

func TestGenerateParseFailure(t *testing.T) {
	src := &memorySource{templates: map[string][]byte{"acme": []byte("not a spreadsheet")}}
	g := newTestGenerator(t, src, DefaultOptions())

	_, err := g.Generate(context.Background(), "acme", exampleData(), Request{})
	if !errors.Is(err, ErrTemplateParse) {
		t.Fatalf("error = %v, expected ErrTemplateParse", err)
	}
	var genErr *GenerationError
	if !errors.As(err, &genErr) || genErr.Stage != StageParse || genErr.CompanyID != "acme" {
		t.Errorf("error = %#v", err)
	}
}

func TestGenerateUnsupportedFormat(t *testing.T) {
	src := &memorySource{templates: map[string][]byte{"acme": buildTemplate(t, "acme")}}
	g := newTestGenerator(t, src, DefaultOptions())

	_, err := g.Generate(context.Background(), "acme", exampleData(), Request{Format: "pdf"})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, expected ErrUnsupportedFormat", err)
	}
}

func TestRenderLeavesNonStringCells(t *testing.T) {
	g := newTestGenerator(t, &memorySource{}, DefaultOptions())

	doc, err := g.Render(buildTemplate(t, "x"), "local", exampleData(), Request{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	f := openDocument(t, doc)

	if got := readCell(t, f, "B1"); got != "100" {
		t.Errorf("B1 = %q, expected 100", got)
	}
	if got, _ := f.GetCellFormula(templateSheet, "B2"); got != "B1*2" {
		t.Errorf("B2 formula = %q", got)
	}
	if typ, _ := f.GetCellType(templateSheet, "B3"); typ != excelize.CellTypeBool {
		t.Errorf("B3 type = %v, expected bool", typ)
	}
}

func TestRenderResolvesEveryVocabularyToken(t *testing.T) {
	f := excelize.NewFile()
	names := tokens.Vocabulary()
	for i, name := range names {
		axis, _ := excelize.CoordinatesToCellName(1, i+1)
		_ = f.SetCellValue("Sheet1", axis, "{"+strings.ToUpper(name)+"}")
	}
	buf, err := f.WriteToBuffer()
	f.Close()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}

	g := newTestGenerator(t, &memorySource{}, DefaultOptions())
	doc, err := g.Render(buf.Bytes(), "vocabulary", models.InvoiceApplicationData{}, Request{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(doc.Diagnostics.UnknownTokens) != 0 {
		t.Errorf("UnknownTokens = %v, expected none", doc.Diagnostics.UnknownTokens)
	}
	if doc.Diagnostics.ScalarCells != len(names) {
		t.Errorf("ScalarCells = %d, expected %d", doc.Diagnostics.ScalarCells, len(names))
	}
}

func TestRenderZeroItemsPolicy(t *testing.T) {
	data := exampleData()
	data.LineItems = nil

	remove := DefaultOptions()
	remove.ZeroItems = workbook.ZeroItemsRemove
	g := newTestGenerator(t, &memorySource{}, remove)

	doc, err := g.Render(buildTemplate(t, "x"), "local", data, Request{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := readCell(t, openDocument(t, doc), "A6"); got != "Total" {
		t.Errorf("A6 = %q, expected totals row moved up", got)
	}
}

func TestNewGeneratorRejectsInvalidOptions(t *testing.T) {
	if _, err := NewGenerator(&memorySource{}, Options{ZeroItems: "drop"}); err == nil {
		t.Error("expected error for unknown zero-items policy")
	}
	if _, err := NewGenerator(nil, DefaultOptions()); err == nil {
		t.Error("expected error for missing template source")
	}
}

func TestGenerateBatchIndependence(t *testing.T) {
	companies := []string{"acme", "globex", "initech", "umbrella"}
	src := &memorySource{templates: map[string][]byte{}}
	for _, c := range companies {
		src.templates[c] = buildTemplate(t, "template of "+c)
	}
	g := newTestGenerator(t, src, Options{Concurrency: 3})

	var jobs []Job
	for i := 0; i < 12; i++ {
		c := companies[i%len(companies)]
		data := exampleData()
		data.Company.Name = c
		data.Application.Number = fmt.Sprint(i)
		jobs = append(jobs, Job{CompanyID: c, Data: data})
	}
	jobs = append(jobs, Job{CompanyID: "unknown", Data: exampleData()})

	results := g.GenerateBatch(context.Background(), jobs)
	if len(results) != len(jobs) {
		t.Fatalf("results = %d, expected %d", len(results), len(jobs))
	}
	for i, res := range results[:len(results)-1] {
		if res.Err != nil {
			t.Fatalf("job %d failed: %v", i, res.Err)
		}
		f := openDocument(t, res.Document)
		c := jobs[i].CompanyID
		if got := readCell(t, f, "A1"); got != c {
			t.Errorf("job %d: A1 = %q, expected %q", i, got, c)
		}
		if got := readCell(t, f, "D1"); got != "template of "+c {
			t.Errorf("job %d: D1 = %q, expected the %s template", i, got, c)
		}
		if want := fmt.Sprintf("AIA_Invoice_%d.xlsx", i); res.Document.FileName != want {
			t.Errorf("job %d: FileName = %q, expected %q", i, res.Document.FileName, want)
		}
	}
	if last := results[len(results)-1]; last.Document != nil || last.Err != nil {
		t.Errorf("unknown company: %+v, expected no document and no error", last)
	}
}

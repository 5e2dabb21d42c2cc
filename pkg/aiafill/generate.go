package aiafill

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/tokens"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/workbook"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TemplateSource resolves and fetches company templates.
type TemplateSource interface {
	// ResolveDefaultTemplate returns nil, nil when the company has no default template.
	ResolveDefaultTemplate(ctx context.Context, companyID string) (*models.TemplateDescriptor, error)
	FetchTemplateBytes(ctx context.Context, d models.TemplateDescriptor) ([]byte, error)
}

// FallbackRenderer produces a document without a company template. It is
// implemented outside this module.
type FallbackRenderer interface {
	RenderFallback(ctx context.Context, data models.InvoiceApplicationData, req Request) (*models.Document, error)
}

// Generator runs the template pipeline. It holds no per-call state and is
// safe for concurrent use.
type Generator struct {
	templates TemplateSource
	opts      Options
	log       *zap.Logger
}

// NewGenerator creates a Generator reading templates from templates.
func NewGenerator(templates TemplateSource, opts Options) (*Generator, error) {
	if templates == nil {
		return nil, errors.New("template source is required")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{templates: templates, opts: opts, log: log}, nil
}

// Generate fills the company's default template with data. It returns
// nil, nil when the company has no default template; the caller is expected
// to fall back to a FallbackRenderer.
func (g *Generator) Generate(ctx context.Context, companyID string, data models.InvoiceApplicationData, req Request) (*models.Document, error) {
	id := uuid.NewString()
	log := g.log.With(zap.String("generation_id", id), zap.String("company_id", companyID))

	if err := req.validate(); err != nil {
		return nil, NewGenerationError(companyID, StageRequest, err)
	}

	desc, err := g.templates.ResolveDefaultTemplate(ctx, companyID)
	if err != nil {
		log.Error("resolve template", zap.Error(err))
		return nil, NewGenerationError(companyID, StageResolve, err)
	}
	if desc == nil {
		log.Info("no default template")
		return nil, nil
	}
	log = log.With(zap.String("template", desc.DisplayName()))

	blob, err := g.templates.FetchTemplateBytes(ctx, *desc)
	if err != nil {
		log.Error("fetch template", zap.Error(err))
		return nil, NewGenerationError(companyID, StageFetch, err)
	}

	doc, err := g.render(log, id, blob, desc.DisplayName(), data, req)
	if err != nil {
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			genErr.CompanyID = companyID
		}
		return nil, err
	}
	return doc, nil
}

// Render fills template bytes that the caller already holds.
func (g *Generator) Render(template []byte, templateName string, data models.InvoiceApplicationData, req Request) (*models.Document, error) {
	if err := req.validate(); err != nil {
		return nil, NewGenerationError("", StageRequest, err)
	}
	id := uuid.NewString()
	return g.render(g.log.With(zap.String("generation_id", id)), id, template, templateName, data, req)
}

func (g *Generator) render(log *zap.Logger, id string, template []byte, templateName string, data models.InvoiceApplicationData, req Request) (*models.Document, error) {
	f, err := workbook.Load(template)
	if err != nil {
		log.Error("load template", zap.Error(err))
		return nil, NewGenerationError("", StageParse, err)
	}
	defer f.Close()

	// The SOV row is located before any substitution so that inserted
	// values can never be taken for the marker row.
	sovRow, err := workbook.LocateSOVRow(f)
	if err != nil {
		return nil, NewGenerationError("", StageParse, err)
	}

	dict := tokens.Map(data, req.ForReview)
	scalar, err := workbook.SubstituteScalars(f, dict)
	if err != nil {
		log.Error("substitute scalars", zap.Error(err))
		return nil, NewGenerationError("", StageSubstitute, err)
	}

	sov, err := workbook.ExpandSOV(f, sovRow, data.LineItems, dict, g.opts.expandOptions())
	if err != nil {
		log.Error("expand schedule of values", zap.Error(err))
		return nil, NewGenerationError("", StageExpand, err)
	}

	out, err := workbook.Serialize(f)
	if err != nil {
		log.Error("serialize workbook", zap.Error(err))
		return nil, NewGenerationError("", StageWrite, err)
	}

	doc := Package(out, data.Application.Number, req.ForReview)
	doc.Diagnostics = models.Diagnostics{
		GenerationID:   id,
		TemplateName:   templateName,
		ScalarCells:    scalar.Cells,
		UnknownTokens:  mergeNames(scalar.Unknown, sov.Unknown),
		SOVSheet:       sov.Sheet,
		SOVTemplateRow: sov.TemplateRow,
		SOVRows:        sov.Rows,
	}

	if len(doc.Diagnostics.UnknownTokens) > 0 {
		log.Warn("unknown tokens replaced with empty text", zap.Strings("tokens", doc.Diagnostics.UnknownTokens))
	}
	if len(scalar.SkippedSheets) > 0 {
		log.Debug("sheets skipped", zap.Strings("sheets", scalar.SkippedSheets))
	}
	log.Info("generated document",
		zap.String("file_name", doc.FileName),
		zap.Int("scalar_cells", scalar.Cells),
		zap.Int("sov_rows", sov.Rows),
		zap.Int("bytes", len(out)),
	)
	return doc, nil
}

func mergeNames(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// Job is one entry of a batch.
type Job struct {
	CompanyID string
	Data      models.InvoiceApplicationData
	Request   Request
}

// Result is the outcome of one Job. Document is nil with a nil Err when the
// company has no default template.
type Result struct {
	Job      Job
	Document *models.Document
	Err      error
}

// GenerateBatch runs jobs concurrently, at most Options.Concurrency at a
// time. A failing job does not affect the others; results keep job order.
func (g *Generator) GenerateBatch(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	limit := g.opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var eg errgroup.Group
	eg.SetLimit(limit)
	for i, job := range jobs {
		eg.Go(func() error {
			doc, err := g.Generate(ctx, job.CompanyID, job.Data, job.Request)
			results[i] = Result{Job: job, Document: doc, Err: err}
			return nil
		})
	}
	_ = eg.Wait()
	return results
}

// Package aiafill fills company spreadsheet templates with AIA pay
// application data and packages the result as an xlsx document.
package aiafill

import (
	"fmt"

	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/workbook"
	"go.uber.org/zap"
)

// DefaultConcurrency bounds GenerateBatch when Options.Concurrency is unset.
const DefaultConcurrency = 4

// Options configures a Generator.
type Options struct {
	// Logger receives one entry per generation. If nil, nothing is logged.
	Logger *zap.Logger
	// ZeroItems decides what happens to the SOV row when there are no line items.
	ZeroItems workbook.ZeroItemPolicy
	// RebaseFormulas specifies whether relative references in cloned SOV rows
	// follow the clone. If nil, defaults to true.
	RebaseFormulas *bool
	// NumericSOVCells writes numbers into cells that hold a single numeric SOV token.
	NumericSOVCells bool
	// Concurrency bounds the number of jobs GenerateBatch runs at once.
	Concurrency int
}

// DefaultOptions returns default generation options.
func DefaultOptions() Options {
	return Options{
		ZeroItems:   workbook.ZeroItemsClear,
		Concurrency: DefaultConcurrency,
	}
}

// ShouldRebaseFormulas returns whether cloned formulas are rebased.
func (o Options) ShouldRebaseFormulas() bool {
	if o.RebaseFormulas != nil {
		return *o.RebaseFormulas
	}
	return true
}

func (o Options) validate() error {
	if o.ZeroItems != "" && !o.ZeroItems.Valid() {
		return fmt.Errorf("invalid zero-items policy %q (must be clear, remove or keep)", o.ZeroItems)
	}
	if o.Concurrency < 0 {
		return fmt.Errorf("invalid concurrency %d", o.Concurrency)
	}
	return nil
}

func (o Options) expandOptions() workbook.ExpandOptions {
	return workbook.ExpandOptions{
		ZeroItems:      o.ZeroItems,
		RebaseFormulas: o.ShouldRebaseFormulas(),
		NumericCells:   o.NumericSOVCells,
	}
}

// Request carries the per-call rendering choices.
type Request struct {
	// ForReview marks the output as a review copy: {review_label} is filled
	// and the file name gets a _REVIEW suffix.
	ForReview bool
	// Format is the requested output format. Empty means xlsx.
	Format models.Format
}

func (r Request) validate() error {
	switch r.Format {
	case "", models.FormatXLSX:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, r.Format)
}

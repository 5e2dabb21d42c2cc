package aiafill

import (
	"errors"
	"fmt"

	"github.com/ukaji3/aiafill-go/pkg/aiafill/repository"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/workbook"
)

// ErrTemplateFetch indicates the template bytes could not be retrieved.
var ErrTemplateFetch = repository.ErrFetch

// ErrTemplateParse indicates the template is not a well-formed spreadsheet.
var ErrTemplateParse = workbook.ErrParse

// ErrTemplateWrite indicates the workbook could not be rewritten or serialized.
var ErrTemplateWrite = workbook.ErrWrite

// ErrInvalidDescriptor indicates a template descriptor is missing required fields.
var ErrInvalidDescriptor = repository.ErrInvalidDescriptor

// ErrUnsupportedFormat indicates the requested output format is not produced by this generator.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Stage names the pipeline step a generation failed in.
type Stage string

const (
	StageRequest    Stage = "request"
	StageResolve    Stage = "resolve"
	StageFetch      Stage = "fetch"
	StageParse      Stage = "parse"
	StageSubstitute Stage = "substitute"
	StageExpand     Stage = "expand"
	StageWrite      Stage = "write"
)

// sentinel is the error a failure in the stage wraps. A descriptor rejected
// while resolving keeps ErrInvalidDescriptor and is not reported as a fetch failure.
func (s Stage) sentinel(err error) error {
	switch s {
	case StageRequest:
		return ErrUnsupportedFormat
	case StageResolve:
		if errors.Is(err, ErrInvalidDescriptor) {
			return ErrInvalidDescriptor
		}
		return ErrTemplateFetch
	case StageFetch:
		return ErrTemplateFetch
	case StageParse:
		return ErrTemplateParse
	default:
		return ErrTemplateWrite
	}
}

// GenerationError represents a failed generation call.
type GenerationError struct {
	CompanyID string
	Stage     Stage
	Err       error
}

func (e *GenerationError) Error() string {
	if e.CompanyID == "" {
		return fmt.Sprintf("generation error (%s): %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("generation error for company %q (%s): %v", e.CompanyID, e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError creates a new GenerationError. err is wrapped with the
// stage's sentinel unless it already carries it.
func NewGenerationError(companyID string, stage Stage, err error) *GenerationError {
	if sentinel := stage.sentinel(err); !errors.Is(err, sentinel) {
		err = fmt.Errorf("%w: %w", sentinel, err)
	}
	return &GenerationError{
		CompanyID: companyID,
		Stage:     stage,
		Err:       err,
	}
}

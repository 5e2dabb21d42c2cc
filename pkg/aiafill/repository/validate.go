package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateDescriptor checks the fields the generator relies on.
func ValidateDescriptor(d models.TemplateDescriptor) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+" "+fe.Tag())
	}
	return fmt.Errorf("%w %q: %s", ErrInvalidDescriptor, d.ID, strings.Join(fields, ", "))
}

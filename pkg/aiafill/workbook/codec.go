// Package workbook loads, rewrites and serializes spreadsheet templates.
package workbook

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ErrParse indicates the template bytes are not a well-formed spreadsheet.
var ErrParse = errors.New("template parse failed")

// ErrWrite indicates the mutated workbook could not be serialized.
var ErrWrite = errors.New("template write failed")

// Load parses xlsx bytes into an in-memory workbook owned by the caller,
// who must Close it.
func Load(b []byte, opts ...excelize.Options) (*excelize.File, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty template", ErrParse)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b), opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if len(f.GetSheetList()) == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrParse)
	}
	return f, nil
}

// Serialize writes f to a new buffer. On failure no bytes are returned.
func Serialize(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return buf.Bytes(), nil
}

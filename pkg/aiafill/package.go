package aiafill

import (
	"regexp"
	"strings"

	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
)

const (
	fileNamePrefix = "AIA_Invoice_"
	reviewSuffix   = "_REVIEW"
)

// rxUnsafeFileChars matches path separators and characters most file systems reject.
var rxUnsafeFileChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]`)

// FileName returns AIA_Invoice_{applicationNumber}[_REVIEW].xlsx.
func FileName(applicationNumber string, review bool) string {
	number := rxUnsafeFileChars.ReplaceAllString(strings.TrimSpace(applicationNumber), "_")
	name := fileNamePrefix + number
	if review {
		name += reviewSuffix
	}
	return name + "." + string(models.FormatXLSX)
}

// Package wraps a serialized workbook as a downloadable document.
func Package(blob []byte, applicationNumber string, review bool) *models.Document {
	return &models.Document{
		Blob:        blob,
		FileName:    FileName(applicationNumber, review),
		ContentType: models.XLSXContentType,
		Format:      models.FormatXLSX,
	}
}

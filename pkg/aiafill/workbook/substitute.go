package workbook

import (
	"strings"

	"github.com/ukaji3/aiafill-go/pkg/aiafill/tokens"
	"github.com/xuri/excelize/v2"
)

// cellEdit is one planned write. Edits are collected during a read pass and
// applied afterwards so that no write ever feeds a later read.
type cellEdit struct {
	sheet   string
	axis    string
	text    string
	runs    []excelize.RichTextRun
	number  *float64
	formula string
}

func (e cellEdit) apply(f *excelize.File) error {
	switch {
	case e.formula != "":
		return f.SetCellFormula(e.sheet, e.axis, e.formula)
	case e.number != nil:
		return f.SetCellFloat(e.sheet, e.axis, *e.number, -1, 64)
	case len(e.runs) > 0:
		return f.SetCellRichText(e.sheet, e.axis, e.runs)
	default:
		return f.SetCellStr(e.sheet, e.axis, e.text)
	}
}

func applyEdits(f *excelize.File, edits []cellEdit) error {
	for _, e := range edits {
		if err := e.apply(f); err != nil {
			return err
		}
	}
	return nil
}

// isRich reports whether runs carry formatting worth keeping.
func isRich(runs []excelize.RichTextRun) bool {
	if len(runs) > 1 {
		return true
	}
	return len(runs) == 1 && runs[0].Font != nil
}

// tokensWithinRuns reports whether no token is split across run boundaries.
func tokensWithinRuns(runs []excelize.RichTextRun) bool {
	var joined strings.Builder
	perRun := 0
	for _, r := range runs {
		joined.WriteString(r.Text)
		perRun += tokens.Count(r.Text)
	}
	return tokens.Count(joined.String()) == perRun
}

// rewriteText plans the substitution of raw (or its rich-text runs) using d.
// changed is false when the text has nothing to resolve.
func rewriteText(sheet, axis, raw string, runs []excelize.RichTextRun, d tokens.Dict) (edit cellEdit, unknown []string, changed bool) {
	edit = cellEdit{sheet: sheet, axis: axis}
	if tokens.Count(raw) == 0 {
		return edit, nil, false
	}

	if isRich(runs) && tokensWithinRuns(runs) {
		out := make([]excelize.RichTextRun, len(runs))
		copy(out, runs)
		for i := range out {
			text, u := tokens.Replace(out[i].Text, d)
			out[i].Text = text
			unknown = mergeUnique(unknown, u)
		}
		edit.runs = out
		return edit, unknown, true
	}

	edit.text, unknown = tokens.Replace(raw, d)
	return edit, unknown, true
}

func mergeUnique(dst, src []string) []string {
	for _, s := range src {
		found := false
		for _, d := range dst {
			if d == s {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, s)
		}
	}
	return dst
}

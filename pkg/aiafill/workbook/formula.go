package workbook

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

var (
	// rxCellRef matches one A1-style reference, capturing the column and row
	// absolute markers separately.
	rxCellRef = regexp.MustCompile(`^(\$?)([A-Za-z]{1,3})(\$?)([0-9]+)$`)
	// rxPlainSheet matches sheet names usable without quotes.
	rxPlainSheet = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
	// rxR1C1 matches names Excel would read as R1C1 references.
	rxR1C1 = regexp.MustCompile(`^[Rr]([0-9]*)([Cc][0-9]*)?$|^[Cc][0-9]*$`)
)

// RebaseRowFormula shifts every relative row reference by toRow-fromRow, as
// Excel does when a row is copied from fromRow to toRow. Absolute rows and
// references qualified with a different sheet are left as they are.
func RebaseRowFormula(formula, sheet string, fromRow, toRow int) string {
	if formula == "" || fromRow == toRow {
		return formula
	}
	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)
	changed := false
	for i := range tokens {
		t := &tokens[i]
		if t.TType != efp.TokenTypeOperand || t.TSubType != efp.TokenSubTypeRange {
			continue
		}
		if v, ok := rebaseOperand(t.TValue, sheet, fromRow, toRow); ok {
			t.TValue = v
			changed = true
		}
	}
	if !changed {
		return formula
	}
	return renderFormula(tokens)
}

func rebaseOperand(operand, sheet string, fromRow, toRow int) (string, bool) {
	ref := operand
	prefix := ""
	if idx := strings.LastIndex(operand, "!"); idx >= 0 {
		if !strings.EqualFold(unquoteSheet(operand[:idx]), sheet) {
			return operand, false
		}
		prefix, ref = operand[:idx+1], operand[idx+1:]
	}

	changed := false
	ends := strings.Split(ref, ":")
	for i, end := range ends {
		parts := rxCellRef.FindStringSubmatch(end)
		if parts == nil || parts[3] == "$" {
			continue
		}
		row, err := strconv.Atoi(parts[4])
		if err != nil {
			continue
		}
		ends[i] = parts[1] + parts[2] + strconv.Itoa(row+toRow-fromRow)
		changed = true
	}
	return prefix + strings.Join(ends, ":"), changed
}

// renderFormula writes tokens back as formula text. The tokenizer drops the
// quotes around sheet names and string literals, so both are restored here.
func renderFormula(tokens []efp.Token) string {
	var b strings.Builder
	var stack []string
	for _, t := range tokens {
		switch {
		case t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStart:
			stack = append(stack, t.TValue)
			switch t.TValue {
			case "ARRAY":
				b.WriteString("{")
			case "ARRAYROW":
			default:
				b.WriteString(t.TValue + "(")
			}
		case t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStop:
			name := ""
			if n := len(stack); n > 0 {
				name, stack = stack[n-1], stack[:n-1]
			}
			switch name {
			case "ARRAY":
				b.WriteString("}")
			case "ARRAYROW":
			default:
				b.WriteString(")")
			}
		case t.TType == efp.TokenTypeSubexpression && t.TSubType == efp.TokenSubTypeStart:
			stack = append(stack, "")
			b.WriteString("(")
		case t.TType == efp.TokenTypeSubexpression && t.TSubType == efp.TokenSubTypeStop:
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
			b.WriteString(")")
		case t.TType == efp.TokenTypeArgument:
			if n := len(stack); n > 0 && stack[n-1] == "ARRAY" {
				b.WriteString(";")
			} else {
				b.WriteString(",")
			}
		case t.TType == efp.TokenTypeOperand && t.TSubType == efp.TokenSubTypeText:
			b.WriteString(`"` + strings.ReplaceAll(t.TValue, `"`, `""`) + `"`)
		case t.TType == efp.TokenTypeOperand && t.TSubType == efp.TokenSubTypeRange:
			b.WriteString(quoteRangeOperand(t.TValue))
		case t.TType == efp.TokenTypeOperatorInfix && t.TSubType == efp.TokenSubTypeIntersection:
			b.WriteString(" ")
		default:
			b.WriteString(t.TValue)
		}
	}
	return b.String()
}

// quoteRangeOperand re-quotes the sheet qualifier of a range operand when
// Excel requires it.
func quoteRangeOperand(operand string) string {
	idx := strings.LastIndex(operand, "!")
	if idx < 0 {
		return operand
	}
	return quoteSheet(unquoteSheet(operand[:idx])) + operand[idx:]
}

func unquoteSheet(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return s
}

func quoteSheet(name string) string {
	if rxPlainSheet.MatchString(name) && !rxCellRef.MatchString(name) && !rxR1C1.MatchString(name) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

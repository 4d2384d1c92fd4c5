// Package csvtext splits and joins comma-separated ledger text.
//
// The same quoting rules are used for reading uploads and for writing exports,
// so anything written by JoinFields is read back unchanged by SplitFields.
package csvtext

import (
	"strings"
)

const (
	Delimiter = ','
	quote     = '"'
)

// SplitLines splits text into records, one per line. A trailing CR is
// dropped and lines that are blank after trimming are skipped. Quotes never
// join lines, so a stray quote can only affect the record it appears in.
func SplitLines(text string) []string {
	var lines []string

	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		lines = append(lines, line)
	}

	return lines
}

// SplitFields tokenizes one record. A quote opens a quoted span only at the
// start of a field; inside it commas do not split and a doubled quote is a
// literal quote. A quote anywhere else is an ordinary character. Each field
// is trimmed and one layer of surrounding quotes is removed.
func SplitFields(line string) []string {
	var (
		fields     []string
		start      int
		inQuotes   bool
		fieldStart = true
	)

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch {
		case inQuotes:
			if c != quote {
				continue
			}

			if i+1 < len(line) && line[i+1] == quote {
				i++
				continue
			}

			inQuotes = false
		case c == quote && fieldStart:
			inQuotes = true
			fieldStart = false
		case c == Delimiter:
			fields = append(fields, cleanField(line[start:i]))
			start = i + 1
			fieldStart = true
		case c == ' ' || c == '\t':
		default:
			fieldStart = false
		}
	}

	return append(fields, cleanField(line[start:]))
}

func cleanField(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) >= 2 && s[0] == quote && s[len(s)-1] == quote {
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	}

	return s
}

// Quote returns the field as it must appear in a record.
func Quote(field string) string {
	if !needsQuotes(field) {
		return field
	}

	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func needsQuotes(field string) bool {
	if field == "" {
		return false
	}

	if strings.ContainsAny(field, `,"`+"\r\n") {
		return true
	}

	return strings.TrimSpace(field) != field
}

// JoinFields is the inverse of SplitFields.
func JoinFields(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = Quote(f)
	}

	return strings.Join(quoted, string(Delimiter))
}

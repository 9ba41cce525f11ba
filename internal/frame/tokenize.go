package frame

import "strings"

// Tokenize splits one line of delimited text into trimmed fields.
//
// A double quote toggles quoted mode and is not copied into the field; while
// quoted, the delimiter is literal. The last field is always emitted, so a
// line with n delimiters yields n+1 fields. Every quote character is
// consumed, so an embedded "" disappears rather than becoming one quote.
func Tokenize(line string, delim rune) []string {
	var (
		fields   []string
		cur      strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(cur.String()))
	return fields
}

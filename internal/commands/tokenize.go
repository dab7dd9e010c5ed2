package commands

import "strings"

// Tokenize splits an invocation remainder into argument tokens. Tokens are
// separated by whitespace; double-quoted runs keep their spaces and may be
// empty, so a user can skip a slot with "".
func Tokenize(s string) []string {
	var out []string
	var cur strings.Builder
	inQuote := false
	quoted := false

	flush := func() {
		if cur.Len() > 0 || quoted {
			out = append(out, cur.String())
		}
		cur.Reset()
		quoted = false
	}

	for _, r := range s {
		switch {
		case r == '"':
			if inQuote {
				inQuote = false
			} else {
				inQuote = true
				quoted = true
			}
		case !inQuote && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

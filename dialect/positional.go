package dialect

import (
	"strings"

	"github.com/Konsultn-Engineering/edgesql/query"
)

// Positional rewrites @name references into the dialect's positional
// placeholders, numbered in order of appearance, and returns the matching
// arguments. References inside string literals, quoted identifiers and
// comments are left alone, as are @@system variables and @names without a
// supplied value (session variables).
func Positional(d Positioned, text string, params query.Params) (string, []any) {
	if len(params) == 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	var args []any
	n := 0

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			j := skipQuoted(text, i, c)
			b.WriteString(text[i:j])
			i = j
		case c == '#' || (c == '-' && strings.HasPrefix(text[i:], "--")):
			j := strings.IndexByte(text[i:], '\n')
			if j < 0 {
				j = len(text)
			} else {
				j += i
			}
			b.WriteString(text[i:j])
			i = j
		case c == '/' && strings.HasPrefix(text[i:], "/*"):
			j := strings.Index(text[i+2:], "*/")
			if j < 0 {
				j = len(text)
			} else {
				j += i + 4
			}
			b.WriteString(text[i:j])
			i = j
		case c == '@':
			if strings.HasPrefix(text[i:], "@@") {
				j := scanIdent(text, i+2)
				b.WriteString(text[i:j])
				i = j
				continue
			}
			j := scanIdent(text, i+1)
			name := text[i+1 : j]
			if v, ok := params[name]; ok && name != "" {
				n++
				b.WriteString(d.Placeholder(n))
				args = append(args, v)
			} else {
				b.WriteString(text[i:j])
			}
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), args
}

func scanIdent(s string, i int) int {
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	return i
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// skipQuoted returns the index just past the literal opened at s[i].
// Doubled quotes and backslash escapes stay inside the literal.
func skipQuoted(s string, i int, q byte) int {
	j := i + 1
	for j < len(s) {
		switch {
		case s[j] == q:
			if j+1 < len(s) && s[j+1] == q {
				j += 2
				continue
			}
			return j + 1
		case s[j] == '\\' && q != '`':
			j += 2
		default:
			j++
		}
	}
	return len(s)
}

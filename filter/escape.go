package filter

import "unicode/utf8"

// EscapeLiteral returns an RE2 pattern that matches literal and nothing else.
//
// Every ASCII byte other than letters, digits and '_' is prefixed with a
// backslash. NUL is written as `\x00` so that a following digit cannot be
// read as part of an octal escape. Bytes at or above 0x80 are copied as is,
// which keeps UTF-8 and Latin-1 content intact.
func EscapeLiteral(literal []byte) []byte {
	out := make([]byte, 0, len(literal)*2)
	for _, c := range literal {
		switch {
		case c == 0:
			out = append(out, `\x00`...)
		case needsEscape(c):
			out = append(out, '\\', c)
		default:
			out = append(out, c)
		}
	}
	return out
}

// EscapeLiteralString is EscapeLiteral for string literals.
func EscapeLiteralString(literal string) string {
	return string(EscapeLiteral([]byte(literal)))
}

func needsEscape(c byte) bool {
	return c < utf8.RuneSelf && !isLetter(c) && !isDigit(c) && c != '_'
}

// isLetter returns true if c is an ASCII letter.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isDigit returns true if c is an ASCII digit.
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

package edgepat

import "unicode"

// Character classes of the pattern language. Each function looks at a
// single code point and has no side effects.

// isWhitespace reports whether r has the Unicode White_Space property.
func isWhitespace(r rune) bool {
	return unicode.Is(unicode.White_Space, r)
}

// isIdentStart reports whether r may begin an unescaped identifier:
// Unicode ID_Start, extended with connector punctuation such as '_'.
func isIdentStart(r rune) bool {
	return isIDStart(r) || unicode.Is(unicode.Pc, r)
}

// isIdentContinue reports whether r may follow the first character of an
// unescaped identifier: Unicode ID_Continue, extended with currency symbols
// such as '$'.
func isIdentContinue(r rune) bool {
	return isIDContinue(r) || unicode.Is(unicode.Sc, r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNonZeroDigit(r rune) bool {
	return r >= '1' && r <= '9'
}

// isHexLetter reports whether r is one of A-F, case-insensitive.
func isHexLetter(r rune) bool {
	return (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isHexDigit(r rune) bool {
	return isDigit(r) || isHexLetter(r)
}

// ID_Start = L + Nl + Other_ID_Start - Pattern_Syntax - Pattern_White_Space (UAX #31).
func isIDStart(r rune) bool {
	if unicode.Is(unicode.Pattern_Syntax, r) || unicode.Is(unicode.Pattern_White_Space, r) {
		return false
	}

	return unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) || unicode.Is(unicode.Other_ID_Start, r)
}

// ID_Continue = ID_Start + Mn + Mc + Nd + Pc + Other_ID_Continue - Pattern_Syntax - Pattern_White_Space.
func isIDContinue(r rune) bool {
	if isIDStart(r) {
		return true
	}

	if unicode.Is(unicode.Pattern_Syntax, r) || unicode.Is(unicode.Pattern_White_Space, r) {
		return false
	}

	return unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}

// asciiFold lowers ASCII letters only; keyword matching is ASCII
// case-insensitive.
func asciiFold(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}

	return r
}

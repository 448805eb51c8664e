package lexer

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// identifierStartExtra and identifierPartExtra extend Go's stdlib
// Unicode categories with the two characters ECMA-262-3 §7.6 adds
// beyond the Unicode Letter/Mn/Mc/Nd/Pc/Cf categories: '$' and '_'.
// rangetable.Merge composes them with unicode.Cf (format-control,
// needed for the zero-width joiner/non-joiner IdentifierPart allows)
// into single tables checked once per rune, resolving the "ASCII-only
// Unicode category stubs" Open Question with real Unicode data instead
// of hand-rolled ASCII ranges.
var (
	dollarUnderscore = rangetable.New('$', '_')
	identifierStart  = rangetable.Merge(unicode.L, unicode.Nl, dollarUnderscore)
	identifierPart   = rangetable.Merge(identifierStart, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Cf)
)

// isIdentifierStart implements ECMA-262-3 §7.6's IdentifierStart:
// UnicodeLetter | '$' | '_' | UnicodeEscapeSequence (the escape case is
// handled by the caller, readIdentifier, not here).
func isIdentifierStart(r rune) bool {
	return unicode.Is(identifierStart, r)
}

// isIdentifierPart implements IdentifierPart: IdentifierStart plus
// combining marks, decimal digits, connector punctuation, and the
// zero-width joiner/non-joiner (Cf).
func isIdentifierPart(r rune) bool {
	return unicode.Is(identifierPart, r)
}

// isWhiteSpace implements ECMA-262-3 §7.2's WhiteSpace production:
// Unicode category Zs plus the explicitly named control characters.
func isWhiteSpace(r rune) bool {
	switch r {
	case '\t', '\v', '\f', ' ', 0x00A0, 0xFEFF:
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// isLineTerminator implements ECMA-262-3 §7.3's LineTerminator set.
func isLineTerminator(r rune) bool {
	switch r {
	case '\n', '\r', 0x2028, 0x2029:
		return true
	}
	return false
}

func isDigit(r rune) bool      { return r >= '0' && r <= '9' }
func isHexDigit(r rune) bool   { return hexVal(r) >= 0 }
func isOctalDigit(r rune) bool { return r >= '0' && r <= '7' }

package lexer

import "testing"

func tokenTypes(src string) []TokenType {
	l := NewFromString(src)
	var out []TokenType
	for {
		tok := l.NextToken()
		out = append(out, tok.Type)
		if tok.Type == EOF {
			return out
		}
	}
}

func TestPunctuatorGreedyMatching(t *testing.T) {
	cases := map[string][]TokenType{
		"a >>>= b": {IDENT, URSHIFT_ASSIGN, IDENT, EOF},
		"a >>> b":  {IDENT, URSHIFT, IDENT, EOF},
		"a >> b":   {IDENT, RSHIFT, IDENT, EOF},
		"a > b":    {IDENT, GT, IDENT, EOF},
		"a === b":  {IDENT, SEQ, IDENT, EOF},
		"a !== b":  {IDENT, SNE, IDENT, EOF},
		"a == b":   {IDENT, EQ, IDENT, EOF},
	}
	for src, want := range cases {
		got := tokenTypes(src)
		if len(got) != len(want) {
			t.Fatalf("%q: got %v, want %v", src, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%q: token %d got %v, want %v", src, i, got[i], want[i])
			}
		}
	}
}

func TestKeywordsVsIdentifiers(t *testing.T) {
	l := NewFromString("var undefined x = typeof y;")
	want := []TokenType{VAR, IDENT, IDENT, ASSIGN, TYPEOF, IDENT, SEMICOLON, EOF}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w {
			t.Fatalf("token %d: got %v, want %v", i, tok.Type, w)
		}
	}
}

func TestFollowsNewlineBit(t *testing.T) {
	l := NewFromString("a\nb")
	first := l.NextToken()
	if first.FollowsNewline {
		t.Fatalf("first token should not follow a newline")
	}
	second := l.NextToken()
	if !second.FollowsNewline {
		t.Fatalf("second token should follow a newline")
	}
}

func TestStringEscapes(t *testing.T) {
	l := NewFromString(`"a\nbA\\c"`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("got %v, want STRING", tok.Type)
	}
	want := "a\nbA\\c"
	if tok.Literal != want {
		t.Fatalf("got %q, want %q", tok.Literal, want)
	}
}

func TestOctalEscapeRequiresFlag(t *testing.T) {
	withoutFlag := NewFromString(`"\101"`)
	tok := withoutFlag.NextToken()
	if tok.Literal != "101" {
		t.Fatalf("without FLAG_262_3B: got %q, want the digits preserved literally", tok.Literal)
	}

	withFlag := NewFromString(`"\101"`, WithFlags(FLAG_262_3B))
	tok = withFlag.NextToken()
	if tok.Literal != "A" {
		t.Fatalf("with FLAG_262_3B: got %q, want %q (octal 101 == 'A')", tok.Literal, "A")
	}
}

func TestNumericLiterals(t *testing.T) {
	cases := map[string]string{
		"123":     "123",
		"0xFF":    "0xFF",
		"3.14":    "3.14",
		"1e10":    "1e10",
		"1.5e-3":  "1.5e-3",
		".5":      ".5",
	}
	for src, want := range cases {
		l := NewFromString(src)
		tok := l.NextToken()
		if tok.Type != NUMBER {
			t.Fatalf("%q: got %v, want NUMBER", src, tok.Type)
		}
		if tok.Literal != want {
			t.Fatalf("%q: got literal %q, want %q", src, tok.Literal, want)
		}
	}
}

func TestUnicodeIdentifier(t *testing.T) {
	l := NewFromString("var Δ = 1;")
	want := []TokenType{VAR, IDENT, ASSIGN, NUMBER, SEMICOLON, EOF}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w {
			t.Fatalf("token %d: got %v, want %v", i, tok.Type, w)
		}
	}
}

func TestBOMStripped(t *testing.T) {
	l := NewFromString("﻿var x")
	tok := l.NextToken()
	if tok.Type != VAR {
		t.Fatalf("got %v, want VAR (BOM should have been stripped)", tok.Type)
	}
}

func TestLexRegexpAfterSlashToken(t *testing.T) {
	l := NewFromString("/abc\\/def/gi")
	tok := l.LexRegexp()
	if tok.Type != REGEXP {
		t.Fatalf("got %v, want REGEXP", tok.Type)
	}
	want := `/abc\/def/gi`
	if tok.Literal != want {
		t.Fatalf("got %q, want %q", tok.Literal, want)
	}
}

func TestLineCommentAndBlockComment(t *testing.T) {
	l := NewFromString("a // comment\nb /* block\ncomment */ c")
	want := []TokenType{IDENT, IDENT, IDENT, EOF}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w {
			t.Fatalf("token %d: got %v, want %v", i, tok.Type, w)
		}
	}
}

func TestSGMLCommentSkippedWithFlag(t *testing.T) {
	l := NewFromString("<!-- comment\nb", WithFlags(SGMLCOM))
	tok := l.NextToken()
	if tok.Type != IDENT || tok.Literal != "b" {
		t.Fatalf("got %v %q, want IDENT b", tok.Type, tok.Literal)
	}
}

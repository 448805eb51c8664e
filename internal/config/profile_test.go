package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/es3lang/es3/internal/lexer"
)

func TestDefaultHasNoCompatibilityFlagsButAFiniteCallDepth(t *testing.T) {
	p := Default()
	if p.LexerFlags() != 0 {
		t.Fatalf("Default().LexerFlags() = %v, want 0", p.LexerFlags())
	}
	if p.MaxCallDepth <= 0 {
		t.Fatalf("Default().MaxCallDepth = %d, want > 0", p.MaxCallDepth)
	}
}

func TestLexerFlagsTranslatesEachField(t *testing.T) {
	tests := []struct {
		name string
		set  func(*Profile)
		want lexer.Flags
	}{
		{"js11", func(p *Profile) { p.JS11 = true }, lexer.JS11},
		{"js15", func(p *Profile) { p.JS15 = true }, lexer.JS15},
		{"annexb", func(p *Profile) { p.AnnexB = true }, lexer.FLAG_262_3B},
		{"ext1", func(p *Profile) { p.Ext1 = true }, lexer.EXT1},
		{"undefdef", func(p *Profile) { p.UndefDef = true }, lexer.UNDEFDEF},
		{"sgmlcom", func(p *Profile) { p.SgmlComments = true }, lexer.SGMLCOM},
	}
	for _, tt := range tests {
		var p Profile
		tt.set(&p)
		if got := p.LexerFlags(); got != tt.want {
			t.Errorf("%s: LexerFlags() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLexerFlagsCombinesMultipleFields(t *testing.T) {
	p := Profile{JS11: true, Ext1: true}
	got := p.LexerFlags()
	if !got.Has(lexer.JS11) || !got.Has(lexer.EXT1) {
		t.Fatalf("LexerFlags() = %v, want JS11|EXT1", got)
	}
	if got.Has(lexer.SGMLCOM) {
		t.Fatalf("LexerFlags() = %v, should not have SGMLCOM", got)
	}
}

func TestLoadReadsYAMLAndKeepsDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compat.yaml")
	yamlText := "ext1: true\nundefdef: true\nmax_call_depth: 50\n"
	if err := os.WriteFile(path, []byte(yamlText), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !p.Ext1 || !p.UndefDef {
		t.Fatalf("Load() = %+v, want Ext1 and UndefDef set", p)
	}
	if p.MaxCallDepth != 50 {
		t.Fatalf("MaxCallDepth = %d, want 50", p.MaxCallDepth)
	}
	if p.JS11 {
		t.Fatalf("JS11 should remain false, an omitted YAML field")
	}
}

func TestLoadReturnsErrorForMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("Load(missing file): expected an error, got nil")
	}
}

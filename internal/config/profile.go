// Package config loads the compatibility-flag and interpreter-limit
// settings into a Profile, the runtime counterpart of the CLI's own
// cobra persistent flags: where a bare interpreter CLI is config-free (a
// pure interpreter plus flags), this port's interpreter has a real
// per-edition compatibility surface (the JS11..JS15/262_3B/EXT1/
// UNDEFDEF/SGMLCOM flags) worth saving to a file and sharing across
// runs, loaded from YAML via goccy/go-yaml.
package config

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/es3lang/es3/internal/lexer"
)

// Profile is the compatibility-flag set plus interpreter limits a host
// selects for one run: `es3 run --profile compat.yaml script.js`. The CLI
// has no per-field flags; a Profile comes from a file or from Default.
type Profile struct {
	JS11 bool `yaml:"js11"`
	JS12 bool `yaml:"js12"`
	JS13 bool `yaml:"js13"`
	JS14 bool `yaml:"js14"`
	JS15 bool `yaml:"js15"`
	// AnnexB enables ECMA-262-3 Annex B in the lexer: octal escapes/`\x`
	// hex escapes in string literals and octal numeric literals. Date is
	// a stub with an empty prototype, so there is no getYear/setYear/
	// toGMTString with or without this flag.
	AnnexB bool `yaml:"annex_b"`
	// Ext1 enables SEE's signed-hex-string ToNumber extension; it has no
	// effect on how numeric literals are lexed.
	Ext1 bool `yaml:"ext1"`
	// UndefDef makes reading an undeclared identifier yield undefined
	// instead of throwing ReferenceError.
	UndefDef bool `yaml:"undefdef"`
	// SgmlComments treats a line starting with "<!--" as a line comment.
	SgmlComments bool `yaml:"sgml_comments"`

	// MaxCallDepth caps nested function activations before the
	// interpreter throws RangeError instead of overflowing the host Go
	// stack. Zero means unlimited; Default sets a finite guard.
	MaxCallDepth int `yaml:"max_call_depth"`
}

// Default returns the profile es3 run uses when no --profile file is
// given: every language-extension
// flag off (strict ECMA-262-3), a finite call-depth guard.
func Default() Profile {
	return Profile{MaxCallDepth: 1000}
}

// Load reads a Profile from a YAML file at path, starting from Default
// so an omitted field keeps its default rather than zeroing out
// MaxCallDepth.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, err
	}
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// LexerFlags translates every flag field, UndefDef included, into the
// internal/lexer.Flags bitset. The lexer and parser are constructed with
// it, and the CLI also hands it to internal/eval and internal/bytecode,
// which read UNDEFDEF and EXT1 from it. MaxCallDepth is not part of the
// bitset; callers pass it to the engines separately.
func (p Profile) LexerFlags() lexer.Flags {
	var f lexer.Flags
	if p.JS11 {
		f |= lexer.JS11
	}
	if p.JS12 {
		f |= lexer.JS12
	}
	if p.JS13 {
		f |= lexer.JS13
	}
	if p.JS14 {
		f |= lexer.JS14
	}
	if p.JS15 {
		f |= lexer.JS15
	}
	if p.AnnexB {
		f |= lexer.FLAG_262_3B
	}
	if p.Ext1 {
		f |= lexer.EXT1
	}
	if p.UndefDef {
		f |= lexer.UNDEFDEF
	}
	if p.SgmlComments {
		f |= lexer.SGMLCOM
	}
	return f
}

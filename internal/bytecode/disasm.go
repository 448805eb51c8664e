package bytecode

import (
	"fmt"
	"io"
	"strings"
)

// Disassembler renders a Chunk (and, recursively, every FuncProto it owns)
// as a human-readable instruction listing.
type Disassembler struct {
	writer io.Writer
}

// NewDisassembler creates a disassembler writing to w.
func NewDisassembler(w io.Writer) *Disassembler {
	return &Disassembler{writer: w}
}

// Disassemble prints chunk under name, followed by each of its nested
// function chunks under their own header.
func (d *Disassembler) Disassemble(chunk *Chunk, name string) {
	fmt.Fprintf(d.writer, "== %s ==\n", name)
	pc := 0
	for pc < len(chunk.Code) {
		pc = d.DisassembleInstruction(chunk, pc)
	}
	for i, proto := range chunk.Funcs {
		fmt.Fprintln(d.writer)
		d.Disassemble(proto.Chunk, fmt.Sprintf("%s/func%d<%s>", name, i, proto.Name))
	}
}

// DisassembleInstruction prints the single instruction at pc and returns
// the offset of the next one.
func (d *Disassembler) DisassembleInstruction(chunk *Chunk, pc int) int {
	op := OpCode(chunk.Code[pc])
	fmt.Fprintf(d.writer, "%04d  %-10s", pc, op.String())
	next := pc + 1

	switch op.width() {
	case widthByte:
		arg := int(chunk.Code[next])
		fmt.Fprintf(d.writer, " %d", arg)
		d.annotate(chunk, op, arg)
		next++
	case widthWord:
		arg := int(chunk.readWord(next))
		fmt.Fprintf(d.writer, " %d", arg)
		d.annotate(chunk, op, arg)
		next += 4
	}
	fmt.Fprintln(d.writer)
	return next
}

// annotate prints the resolved pool entry (or branch target) a numeric
// operand refers to, so a LITERAL/FUNC/LOC line is readable without
// cross-referencing the pool by hand.
func (d *Disassembler) annotate(chunk *Chunk, op OpCode, arg int) {
	switch op {
	case OpLiteralByte, OpLiteralWord:
		if arg >= 0 && arg < len(chunk.Literals) {
			fmt.Fprintf(d.writer, "  ; %v", chunk.Literals[arg])
		}
	case OpFuncByte, OpFuncWord:
		if arg >= 0 && arg < len(chunk.Funcs) {
			fmt.Fprintf(d.writer, "  ; %s", chunk.Funcs[arg].Name)
		}
	case OpLoc:
		if arg >= 0 && arg < len(chunk.Locs) {
			fmt.Fprintf(d.writer, "  ; %s", chunk.Locs[arg])
		}
	case OpBAlways, OpBTrue, OpBEnum, OpSTryC, OpSTryF:
		fmt.Fprintf(d.writer, "  -> %04d", arg)
	}
}

// DisassembleToString returns chunk's disassembly as a string, for tests
// and an `es3 dump bytecode` CLI command alike.
func DisassembleToString(chunk *Chunk, name string) string {
	var sb strings.Builder
	NewDisassembler(&sb).Disassemble(chunk, name)
	return sb.String()
}

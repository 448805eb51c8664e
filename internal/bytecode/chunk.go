package bytecode

import (
	"encoding/binary"

	"github.com/es3lang/es3/internal/ast"
	"github.com/es3lang/es3/internal/lexer"
	"github.com/es3lang/es3/internal/value"
)

// FuncProto is the compiled shape of one function literal: its own Chunk
// plus enough metadata (name, formal parameter names) for the VM's FUNC
// opcode to build a value.Object closure over it via
// object.NewUserFunction, mirroring eval/function.go's makeFunction.
type FuncProto struct {
	Name   string
	Params []string
	Chunk  *Chunk
}

// Chunk is one compiled unit of code: a program body, or a function
// body. Code is the flat instruction stream; Literals, Funcs and Locs are
// the pools LITERAL/FUNC/LOC operands index into.
type Chunk struct {
	Code []byte

	Literals []value.Value
	Funcs    []*FuncProto
	Locs     []lexer.Position

	MaxStack int
	MaxBlock int
}

// NewChunk returns an empty Chunk ready for emission.
func NewChunk() *Chunk {
	return &Chunk{}
}

// here returns the byte offset the next emitted instruction will land at
// — used by the compiler as a branch target or the start of a backpatch.
func (c *Chunk) here() int { return len(c.Code) }

// emit appends op with no operand.
func (c *Chunk) emit(op OpCode) int {
	pos := c.here()
	c.Code = append(c.Code, byte(op))
	return pos
}

// emitByte appends op followed by a one-byte unsigned operand.
func (c *Chunk) emitByte(op OpCode, arg byte) int {
	pos := c.here()
	c.Code = append(c.Code, byte(op), arg)
	return pos
}

// emitWord appends op followed by a four-byte signed operand, returning
// the offset of the operand itself (for a later patch via patchWord).
func (c *Chunk) emitWord(op OpCode, arg int32) int {
	c.Code = append(c.Code, byte(op))
	operand := c.here()
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(arg))
	c.Code = append(c.Code, buf[:]...)
	return operand
}

// patchWord overwrites the four-byte operand at offset (as returned by
// emitWord) with target — used once a branch's destination is known,
// e.g. the end of a loop body or an if's alternate.
func (c *Chunk) patchWord(offset int, target int32) {
	binary.BigEndian.PutUint32(c.Code[offset:offset+4], uint32(target))
}

func (c *Chunk) readWord(pc int) int32 {
	return int32(binary.BigEndian.Uint32(c.Code[pc : pc+4]))
}

// addLiteral interns v into the literal pool (primitive values only —
// Number/String/Boolean/Null/Undefined — object literals are built at
// runtime via OBJECT/ARRAY + NEW + PUTVALUE sequences, not pooled
// constants) and returns its index.
func (c *Chunk) addLiteral(v value.Value) int {
	for i, lit := range c.Literals {
		if lit == v {
			return i
		}
	}
	c.Literals = append(c.Literals, v)
	return len(c.Literals) - 1
}

func (c *Chunk) addFunc(p *FuncProto) int {
	c.Funcs = append(c.Funcs, p)
	return len(c.Funcs) - 1
}

func (c *Chunk) addLoc(pos lexer.Position) int {
	c.Locs = append(c.Locs, pos)
	return len(c.Locs) - 1
}

// emitLiteral picks the Byte or Word LITERAL form depending on how large
// the pool index is, per the package doc's dual-width rule.
func (c *Chunk) emitLiteral(v value.Value) {
	idx := c.addLiteral(v)
	if idx <= 0xff {
		c.emitByte(OpLiteralByte, byte(idx))
		return
	}
	c.emitWord(OpLiteralWord, int32(idx))
}

// emitIntOperand picks the Byte or Word form of a dual-width opcode pair
// (opByte for Byte, opWord for Word) based on n.
func (c *Chunk) emitIntOperand(opByte, opWord OpCode, n int) {
	if n >= 0 && n <= 0xff {
		c.emitByte(opByte, byte(n))
		return
	}
	c.emitWord(opWord, int32(n))
}

// astPos is a small seam so the compiler can stamp LOC opcodes from any
// node carrying a position, without importing ast into every compiler
// file that needs one.
func astPos(n ast.Node) lexer.Position { return n.Pos() }

// emitLoc records pos in the Locs pool and emits LOC referencing it — one
// per compiled statement is enough for the VM to report a reasonably
// precise position on a thrown or uncaught error without the overhead of
// stamping every instruction.
func (c *Chunk) emitLoc(pos lexer.Position) {
	idx := c.addLoc(pos)
	c.emitWord(OpLoc, int32(idx))
}

package bytecode

import (
	"github.com/es3lang/es3/internal/ast"
	"github.com/es3lang/es3/internal/value"
)

// loopCtx tracks one enclosing iteration statement's break/continue
// targets while its body compiles, and the block-stack depth active when
// the loop was entered (so a break/continue that exits through any
// S_ENUM/S_WITH/S_TRYC/S_TRYF frames opened inside the loop body can emit
// the matching END before jumping out, keeping the VM's block stack
// consistent — per original_source/libsee/code1.c's exec(), END's job is
// simply to unwind to a given depth regardless of why control left).
type loopCtx struct {
	label           string
	continueTarget  int   // byte offset continue jumps to directly; -1 if not yet known.
	continuePatches []int // operand offsets of forward continue jumps, patched once continueTarget is known.
	breakPatches    []int // operand offsets of forward jumps to the loop's end, patched once known.
	blockLevel      int
}

// finallyCtx records one enclosing try's finally block, so compileReturn/
// compileBreak/compileContinue can duplicate its body inline before
// jumping out — the bytecode VM has no opcode representing "pending
// completion through a finally" (the opcode set has none), so the
// compiler resolves it the same way a naive tree-walk source-to-source
// transform would.
type finallyCtx struct {
	body       *ast.BlockStatement
	blockLevel int
}

// Compiler lowers one function body (or a whole program, treated as the
// outermost function) to a Chunk.
type Compiler struct {
	chunk *Chunk

	blockLevel   int
	maxBlockSeen int
	loops        []*loopCtx
	finallies    []*finallyCtx
	labels       map[string]int // label name -> index into plainLabelBreaks, for a label on a non-loop statement.

	// plainLabelBreaks collects break-statement patch offsets per label
	// index, for a `label: { ... }`-style statement that isn't itself a
	// loop or switch (the only case findLoop can't resolve by label).
	plainLabelBreaks [][]int
}

// Compile lowers prog's top-level statement list into a fresh Chunk.
// Hoisting is emitted as bytecode at the chunk's start (VAR for every
// var-declared name, FUNC+PUTVAR for every function declaration) rather
// than performed by a separate Go-side pass, matching SEE's own
// VAR/PUTVAR opcode design more directly than internal/eval's hoist.
func Compile(prog *ast.Program) *Chunk {
	c := &Compiler{chunk: NewChunk(), labels: make(map[string]int)}
	c.compileHoisting(prog.Body)
	c.compileStatementList(prog.Body)
	c.chunk.MaxBlock = c.maxBlockSeen
	return c.chunk
}

// compileFunction lowers a function literal's own body into its own
// Chunk, used by compileFunctionLiteral (compiler_expressions.go) to fill
// in a FuncProto for the FUNC opcode.
func compileFunction(fnLit *ast.FunctionLiteral) *Chunk {
	c := &Compiler{chunk: NewChunk(), labels: make(map[string]int)}
	c.compileHoisting(fnLit.Body.Body)
	c.compileStatementList(fnLit.Body.Body)
	// A function whose body runs off the end without an explicit return
	// produces undefined (ECMA-262-3 §13.2.1): the body's expression
	// statements may have left a value in the completion register, so it
	// is reset to Undefined before the chunk ends.
	c.chunk.emitLiteral(value.Undefined)
	c.chunk.emit(OpSetC)
	c.chunk.emit(OpPop)
	c.chunk.MaxBlock = c.maxBlockSeen
	return c.chunk
}

func (c *Compiler) pushBlock() {
	c.blockLevel++
	if c.blockLevel > c.maxBlockSeen {
		c.maxBlockSeen = c.blockLevel
	}
}

func (c *Compiler) popBlock() { c.blockLevel-- }

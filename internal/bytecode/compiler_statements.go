package bytecode

import (
	"github.com/es3lang/es3/internal/ast"
	"github.com/es3lang/es3/internal/value"
)

// collectVarNames and collectFunctionDecls mirror internal/eval/function.go's
// helpers of the same purpose, duplicated here rather than imported since
// the bytecode compiler hoists by emitting VAR/PUTVAR bytecode instead of
// installing bindings directly on a runtime Object — a genuinely separate
// operation on the same AST shape, not reusable code (see DESIGN.md: the
// bytecode package is an independent execution engine, the way SEE's own
// eval.c and code1.c each walk statements for hoisting separately).
func collectVarNames(stmts []ast.Statement) []string {
	var names []string
	var walk func(ast.Statement)
	walkList := func(list []ast.Statement) {
		for _, s := range list {
			walk(s)
		}
	}
	walk = func(s ast.Statement) {
		switch n := s.(type) {
		case *ast.VariableStatement:
			for _, d := range n.Declarations {
				names = append(names, d.Name.Name)
			}
		case *ast.BlockStatement:
			walkList(n.Body)
		case *ast.IfStatement:
			walk(n.Consequent)
			if n.Alternate != nil {
				walk(n.Alternate)
			}
		case *ast.DoWhileStatement:
			walk(n.Body)
		case *ast.WhileStatement:
			walk(n.Body)
		case *ast.ForStatement:
			if vs, ok := n.Init.(*ast.VariableStatement); ok {
				walk(vs)
			}
			walk(n.Body)
		case *ast.ForInStatement:
			if vs, ok := n.Left.(*ast.VariableStatement); ok {
				walk(vs)
			}
			walk(n.Body)
		case *ast.WithStatement:
			walk(n.Body)
		case *ast.SwitchStatement:
			for _, c := range n.Cases {
				walkList(c.Body)
			}
		case *ast.LabeledStatement:
			walk(n.Body)
		case *ast.TryStatement:
			walkList(n.Block.Body)
			if n.Catch != nil {
				walkList(n.Catch.Body.Body)
			}
			if n.Finally != nil {
				walkList(n.Finally.Body)
			}
		}
	}
	walkList(stmts)
	return names
}

func collectFunctionDecls(stmts []ast.Statement) []*ast.FunctionLiteral {
	var decls []*ast.FunctionLiteral
	var walk func(ast.Statement)
	walkList := func(list []ast.Statement) {
		for _, s := range list {
			walk(s)
		}
	}
	walk = func(s ast.Statement) {
		switch n := s.(type) {
		case *ast.FunctionLiteral:
			if n.Name != nil {
				decls = append(decls, n)
			}
		case *ast.BlockStatement:
			walkList(n.Body)
		case *ast.IfStatement:
			walk(n.Consequent)
			if n.Alternate != nil {
				walk(n.Alternate)
			}
		case *ast.DoWhileStatement:
			walk(n.Body)
		case *ast.WhileStatement:
			walk(n.Body)
		case *ast.ForStatement:
			walk(n.Body)
		case *ast.ForInStatement:
			walk(n.Body)
		case *ast.WithStatement:
			walk(n.Body)
		case *ast.SwitchStatement:
			for _, c := range n.Cases {
				walkList(c.Body)
			}
		case *ast.LabeledStatement:
			walk(n.Body)
		case *ast.TryStatement:
			walkList(n.Block.Body)
			if n.Catch != nil {
				walkList(n.Catch.Body.Body)
			}
			if n.Finally != nil {
				walkList(n.Finally.Body)
			}
		}
	}
	walkList(stmts)
	return decls
}

// compileHoisting emits VAR for every var-declared name not already
// covered by a function declaration of the same name, and FUNC+PUTVAR
// for every function declaration, in that order — matching
// internal/eval/function.go's hoist (vars first so a later function
// declaration of the same name still wins, since PUTVAR unconditionally
// overwrites where VAR only defines-if-absent).
func (c *Compiler) compileHoisting(body []ast.Statement) {
	for _, name := range collectVarNames(body) {
		c.chunk.emitLiteral(value.NewString(name))
		c.chunk.emit(OpVar)
	}
	for _, fn := range collectFunctionDecls(body) {
		c.chunk.emitLiteral(value.NewString(fn.Name.Name))
		c.compileFunctionLiteral(fn)
		c.chunk.emit(OpPutVar)
	}
}

func (c *Compiler) compileStatementList(stmts []ast.Statement) {
	for _, s := range stmts {
		c.compileStatement(s)
	}
}

func (c *Compiler) compileStatement(s ast.Statement) {
	c.chunk.emitLoc(s.Pos())
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		c.compileExpr(n.Expression)
		c.chunk.emit(OpSetC)
		c.chunk.emit(OpPop)
	case *ast.VariableStatement:
		c.compileVariableStatement(n)
	case *ast.EmptyStatement:
		// nothing to emit.
	case *ast.BlockStatement:
		c.compileStatementList(n.Body)
	case *ast.IfStatement:
		c.compileIf(n)
	case *ast.DoWhileStatement:
		c.compileDoWhile(n, "")
	case *ast.WhileStatement:
		c.compileWhile(n, "")
	case *ast.ForStatement:
		c.compileFor(n, "")
	case *ast.ForInStatement:
		c.compileForIn(n, "")
	case *ast.ContinueStatement:
		c.compileContinue(n.Label)
	case *ast.BreakStatement:
		c.compileBreak(n.Label)
	case *ast.ReturnStatement:
		c.compileReturn(n)
	case *ast.WithStatement:
		c.compileWith(n)
	case *ast.SwitchStatement:
		c.compileSwitch(n, "")
	case *ast.LabeledStatement:
		c.compileLabeled(n)
	case *ast.ThrowStatement:
		c.compileExpr(n.Argument)
		c.chunk.emit(OpThrow)
	case *ast.TryStatement:
		c.compileTry(n)
	case *ast.FunctionLiteral:
		// Already installed by compileHoisting; a function declaration
		// reached as a statement carries no completion (ECMA-262-3 §13).
	}
}

func (c *Compiler) compileVariableStatement(n *ast.VariableStatement) {
	for _, d := range n.Declarations {
		if d.Init == nil {
			continue
		}
		c.chunk.emitLiteral(value.NewString(d.Name.Name))
		c.chunk.emit(OpLookup)
		c.compileExpr(d.Init)
		c.chunk.emit(OpPutValue)
	}
}

func (c *Compiler) compileIf(n *ast.IfStatement) {
	c.compileExpr(n.Test)
	c.chunk.emit(OpToBoolean)
	truePatch := c.chunk.emitWord(OpBTrue, 0)
	if n.Alternate != nil {
		c.compileStatement(n.Alternate)
	}
	endPatch := c.chunk.emitWord(OpBAlways, 0)
	c.chunk.patchWord(truePatch, int32(c.chunk.here()))
	c.compileStatement(n.Consequent)
	c.chunk.patchWord(endPatch, int32(c.chunk.here()))
}

// pushLoop registers a new enclosing loop. continueTarget may be -1 if
// it isn't known until after the body compiles (a do-while's test, or a
// for-loop's update clause) — compileContinue then records a forward
// patch instead of emitting a direct jump.
func (c *Compiler) pushLoop(label string, continueTarget int) *loopCtx {
	lc := &loopCtx{label: label, continueTarget: continueTarget, blockLevel: c.blockLevel}
	c.loops = append(c.loops, lc)
	return lc
}

func (c *Compiler) popLoop() {
	c.loops = c.loops[:len(c.loops)-1]
}

func (c *Compiler) findLoop(label string) *loopCtx {
	if label == "" {
		if len(c.loops) == 0 {
			return nil
		}
		return c.loops[len(c.loops)-1]
	}
	for i := len(c.loops) - 1; i >= 0; i-- {
		if c.loops[i].label == label {
			return c.loops[i]
		}
	}
	return nil
}

// emitUnwindTo emits END down to target if any block frames are
// currently open above it, so a jump leaving one or more ENUM/WITH/TRY
// scopes keeps the VM's runtime block stack consistent regardless of why
// control is leaving (break, continue, return, or falling off the end of
// the construct), per original_source/libsee/code1.c's exec() END case.
func (c *Compiler) emitUnwindTo(target int) {
	if c.blockLevel > target {
		c.chunk.emitIntOperand(OpEndByte, OpEndWord, target)
	}
}

func (c *Compiler) compileWhile(n *ast.WhileStatement, label string) {
	loopStart := c.chunk.here()
	c.compileExpr(n.Test)
	c.chunk.emit(OpToBoolean)
	bodyPatch := c.chunk.emitWord(OpBTrue, 0)
	endPatch := c.chunk.emitWord(OpBAlways, 0)
	c.chunk.patchWord(bodyPatch, int32(c.chunk.here()))
	lc := c.pushLoop(label, loopStart)
	lc.breakPatches = append(lc.breakPatches, endPatch)
	c.compileStatement(n.Body)
	c.chunk.emitWord(OpBAlways, int32(loopStart))
	c.finishLoop(lc)
}

func (c *Compiler) compileDoWhile(n *ast.DoWhileStatement, label string) {
	bodyStart := c.chunk.here()
	lc := c.pushLoop(label, -1)
	c.compileStatement(n.Body)
	testStart := c.chunk.here()
	for _, p := range lc.continuePatches {
		c.chunk.patchWord(p, int32(testStart))
	}
	c.compileExpr(n.Test)
	c.chunk.emit(OpToBoolean)
	c.chunk.emit(OpNot)
	endPatch := c.chunk.emitWord(OpBTrue, 0)
	c.chunk.emitWord(OpBAlways, int32(bodyStart))
	lc.breakPatches = append(lc.breakPatches, endPatch)
	c.finishLoop(lc)
}

func (c *Compiler) compileFor(n *ast.ForStatement, label string) {
	switch init := n.Init.(type) {
	case *ast.VariableStatement:
		c.compileVariableStatement(init)
	case ast.Expression:
		c.compileExpr(init)
		c.chunk.emit(OpPop)
	}
	testStart := c.chunk.here()
	var bodyPatch, endPatch int
	hasTest := n.Test != nil
	if hasTest {
		c.compileExpr(n.Test)
		c.chunk.emit(OpToBoolean)
		bodyPatch = c.chunk.emitWord(OpBTrue, 0)
		endPatch = c.chunk.emitWord(OpBAlways, 0)
		c.chunk.patchWord(bodyPatch, int32(c.chunk.here()))
	}
	lc := c.pushLoop(label, -1)
	if hasTest {
		lc.breakPatches = append(lc.breakPatches, endPatch)
	}
	c.compileStatement(n.Body)
	updateStart := c.chunk.here()
	for _, p := range lc.continuePatches {
		c.chunk.patchWord(p, int32(updateStart))
	}
	if n.Update != nil {
		c.compileExpr(n.Update)
		c.chunk.emit(OpPop)
	}
	c.chunk.emitWord(OpBAlways, int32(testStart))
	c.finishLoop(lc)
}

// compileForInTarget assigns the enumerated name (already pushed by
// B_ENUM) to Left's binding: stack is [name] on entry, [] on exit.
func (c *Compiler) compileForInTarget(left ast.Node) {
	var name string
	switch l := left.(type) {
	case *ast.VariableStatement:
		name = l.Declarations[0].Name.Name
	case *ast.Identifier:
		name = l.Name
	default:
		c.chunk.emit(OpPop)
		return
	}
	c.chunk.emitLiteral(value.NewString(name))
	c.chunk.emit(OpLookup)
	// Stack: [name, ref]
	c.chunk.emit(OpExch)
	// Stack: [ref, name]
	c.chunk.emit(OpPutValue)
}

func (c *Compiler) compileForIn(n *ast.ForInStatement, label string) {
	enterLevel := c.blockLevel
	c.compileExpr(n.Right)
	c.chunk.emit(OpSEnum)
	c.pushBlock()
	loopStart := c.chunk.here()
	bodyPatch := c.chunk.emitWord(OpBEnum, 0)
	exhaustedPatch := c.chunk.emitWord(OpBAlways, 0)
	c.chunk.patchWord(bodyPatch, int32(c.chunk.here()))
	c.compileForInTarget(n.Left)
	// lc.blockLevel is the level inside the ENUM frame, so a continue
	// keeps the frame open for the next B_ENUM.
	lc := c.pushLoop(label, loopStart)
	c.compileStatement(n.Body)
	c.chunk.emitWord(OpBAlways, int32(loopStart))
	c.popBlock()
	c.popLoop()
	// A break lands here with the ENUM frame still open and pops it; the
	// exhausted path skips this, B_ENUM having already dropped the frame.
	if len(lc.breakPatches) > 0 {
		breakLanding := c.chunk.here()
		for _, p := range lc.breakPatches {
			c.chunk.patchWord(p, int32(breakLanding))
		}
		c.chunk.emitIntOperand(OpEndByte, OpEndWord, enterLevel)
	}
	c.chunk.patchWord(exhaustedPatch, int32(c.chunk.here()))
	c.emitUnwindTo(enterLevel)
}

// finishLoop patches every collected break target to here() (used when
// the loop's continue target was already known at push time).
func (c *Compiler) finishLoop(lc *loopCtx) {
	c.popLoop()
	end := c.chunk.here()
	for _, p := range lc.breakPatches {
		c.chunk.patchWord(p, int32(end))
	}
}

// emitFinalliesDownTo inlines, innermost first, the body of every
// enclosing finally whose try was entered at block level `level` or
// deeper, for a break/continue leaving those try statements.
func (c *Compiler) emitFinalliesDownTo(level int) {
	saved := c.finallies
	for i := len(saved) - 1; i >= 0 && saved[i].blockLevel >= level; i-- {
		c.finallies = saved[:i]
		c.compileStatementList(saved[i].body.Body)
	}
	c.finallies = saved
}

func (c *Compiler) compileContinue(label string) {
	lc := c.findLoop(label)
	if lc == nil {
		return
	}
	c.emitFinalliesDownTo(lc.blockLevel)
	c.emitUnwindTo(lc.blockLevel)
	if lc.continueTarget >= 0 {
		c.chunk.emitWord(OpBAlways, int32(lc.continueTarget))
		return
	}
	p := c.chunk.emitWord(OpBAlways, 0)
	lc.continuePatches = append(lc.continuePatches, p)
}

func (c *Compiler) compileBreak(label string) {
	lc := c.findLoop(label)
	if lc == nil {
		if label != "" {
			if lbl, ok := c.labels[label]; ok {
				c.emitUnwindTo(0)
				p := c.chunk.emitWord(OpBAlways, 0)
				c.plainLabelBreaks[lbl] = append(c.plainLabelBreaks[lbl], p)
			}
		}
		return
	}
	c.emitFinalliesDownTo(lc.blockLevel)
	c.emitUnwindTo(lc.blockLevel)
	p := c.chunk.emitWord(OpBAlways, 0)
	lc.breakPatches = append(lc.breakPatches, p)
}

// compileReturn duplicates every enclosing finally block's bytecode
// before the actual exit jump, since the compiler's opcode set has
// no mechanism for a pending completion to flow through a FINALLY
// handler automatically (see DESIGN.md's module H entry) — the same
// transform a naive source-to-source compiler would apply.
func (c *Compiler) compileReturn(n *ast.ReturnStatement) {
	if n.Argument != nil {
		c.compileExpr(n.Argument)
	} else {
		c.chunk.emitLiteral(value.Undefined)
	}
	c.chunk.emit(OpSetC)
	c.chunk.emit(OpPop)
	for i := len(c.finallies) - 1; i >= 0; i-- {
		c.compileStatementList(c.finallies[i].body.Body)
	}
	c.emitUnwindTo(0)
	c.chunk.emitIntOperand(OpEndByte, OpEndWord, 0)
}

func (c *Compiler) compileWith(n *ast.WithStatement) {
	enterLevel := c.blockLevel
	c.compileExpr(n.Object)
	c.chunk.emit(OpToObject)
	c.chunk.emit(OpSWith)
	c.pushBlock()
	c.compileStatement(n.Body)
	// A WITH frame has no exhaustion signal of its own (unlike S_ENUM on
	// B_ENUM), so the normal fall-through path must pop it explicitly
	// before popBlock's bookkeeping catches up.
	c.emitUnwindTo(enterLevel)
	c.popBlock()
}

// compileSwitch lowers to a sequential strict-equality if-chain against
// the discriminant (ECMA-262-3 §12.11): the discriminant value is kept
// on the data stack under repeated DUP+SEQ probes until one matches (or
// none do, falling to the default clause or the end), then popped once
// before the matched clause's statements run — clauses fall through into
// the next one exactly as the AST's flat CaseClause list already implies,
// since compileStatementList for each clause simply runs on into the
// next without an intervening jump.
func (c *Compiler) compileSwitch(n *ast.SwitchStatement, label string) {
	enterLevel := c.blockLevel
	c.compileExpr(n.Discriminant)

	var bodyPatches []int
	for _, cl := range n.Cases {
		if cl.Test == nil {
			continue
		}
		c.chunk.emit(OpDup)
		c.compileExpr(cl.Test)
		c.chunk.emit(OpSEq)
		p := c.chunk.emitWord(OpBTrue, 0)
		bodyPatches = append(bodyPatches, p)
	}
	// No case matched: discard the discriminant, then jump to default if
	// present, else to the end.
	c.chunk.emit(OpPop)
	fallThroughPatch := c.chunk.emitWord(OpBAlways, 0)

	// Each matching probe lands on a pad that discards the discriminant
	// before jumping into its clause's body.
	padPatches := make([]int, len(bodyPatches))
	for i, p := range bodyPatches {
		c.chunk.patchWord(p, int32(c.chunk.here()))
		c.chunk.emit(OpPop)
		padPatches[i] = c.chunk.emitWord(OpBAlways, 0)
	}
	bodyStarts := make([]int, len(n.Cases))
	matchIdx := 0
	swLoop := &loopCtx{label: label, blockLevel: enterLevel}
	c.loops = append(c.loops, swLoop)
	defaultBodyStart := -1
	for i, cl := range n.Cases {
		bodyStarts[i] = c.chunk.here()
		if cl.Test != nil {
			c.chunk.patchWord(padPatches[matchIdx], int32(bodyStarts[i]))
			matchIdx++
		} else {
			defaultBodyStart = bodyStarts[i]
		}
		c.compileStatementList(cl.Body)
	}
	end := c.chunk.here()
	if defaultBodyStart >= 0 {
		c.chunk.patchWord(fallThroughPatch, int32(defaultBodyStart))
	} else {
		c.chunk.patchWord(fallThroughPatch, int32(end))
	}
	for _, p := range swLoop.breakPatches {
		c.chunk.patchWord(p, int32(end))
	}
	c.loops = c.loops[:len(c.loops)-1]
}

func (c *Compiler) compileLabeled(n *ast.LabeledStatement) {
	switch body := n.Body.(type) {
	case *ast.WhileStatement:
		c.compileWhile(body, n.Label)
	case *ast.DoWhileStatement:
		c.compileDoWhile(body, n.Label)
	case *ast.ForStatement:
		c.compileFor(body, n.Label)
	case *ast.ForInStatement:
		c.compileForIn(body, n.Label)
	case *ast.SwitchStatement:
		c.compileSwitch(body, n.Label)
	default:
		idx := len(c.plainLabelBreaks)
		c.labels[n.Label] = idx
		c.plainLabelBreaks = append(c.plainLabelBreaks, nil)
		c.compileStatement(body)
		end := c.chunk.here()
		for _, p := range c.plainLabelBreaks[idx] {
			c.chunk.patchWord(p, int32(end))
		}
		delete(c.labels, n.Label)
	}
}

// compileTry lowers try/catch/finally. Both S_TRYC and S_TRYF push a
// frame the VM pops by itself the instant it dispatches to that frame's
// handler (the same way S_ENUM's B_ENUM silently drops its frame on
// exhaustion) — so a handler body never needs its own unwind, only the
// normal (non-throwing) fall-through path does, via the ordinary
// emitUnwindTo/END sequence every other block construct uses.
//
// A finally clause wraps the whole construct (try body AND catch body,
// when both are present) in its own outer S_TRYF frame, so finally still
// runs when an exception propagates past a try with no catch at all, or
// out of the catch body itself — not only when the try body throws
// directly into a catch. Finally's body is compiled twice (once for the
// handler path, once for the normal fall-through), the same duplication
// compileReturn/compileBreak/compileContinue already use to thread a
// finally past an early exit, since the opcode set has no
// "pending completion through a handler" primitive to do this in one
// copy.
func (c *Compiler) compileTry(n *ast.TryStatement) {
	enterLevel := c.blockLevel
	hasFinally := n.Finally != nil

	var finallyEntry *finallyCtx
	if hasFinally {
		finallyEntry = &finallyCtx{body: n.Finally, blockLevel: enterLevel}
		c.finallies = append(c.finallies, finallyEntry)
	}

	var tryfPatch int
	if hasFinally {
		tryfPatch = c.chunk.emitWord(OpSTryF, 0)
		c.pushBlock()
	}
	protectedLevel := c.blockLevel

	if n.Catch != nil {
		tryPatch := c.chunk.emitWord(OpSTryC, 0)
		c.pushBlock()
		c.compileStatementList(n.Block.Body)
		c.emitUnwindTo(protectedLevel)
		c.popBlock()
		endPatch := c.chunk.emitWord(OpBAlways, 0)
		c.chunk.patchWord(tryPatch, int32(c.chunk.here()))
		// Handler entry: the thrown value is on top of stack and the
		// TRYC frame is already gone; bind it to the catch parameter via
		// the same PUTVAR convention compileHoisting uses.
		c.chunk.emitLiteral(value.NewString(n.Catch.Param.Name))
		c.chunk.emit(OpExch)
		c.chunk.emit(OpPutVar)
		c.compileStatementList(n.Catch.Body.Body)
		c.chunk.patchWord(endPatch, int32(c.chunk.here()))
	} else {
		c.compileStatementList(n.Block.Body)
	}

	if hasFinally {
		c.finallies = c.finallies[:len(c.finallies)-1]
		c.emitUnwindTo(enterLevel)
		c.popBlock()
		skipHandler := c.chunk.emitWord(OpBAlways, 0)
		c.chunk.patchWord(tryfPatch, int32(c.chunk.here()))
		// Handler entry: the TRYF frame is already gone and the thrown
		// value sits on top of stack; run finally then let it continue
		// propagating — nothing here bound the value to a name, so there
		// is no completion to resume but the rethrow.
		c.compileStatementList(finallyEntry.body.Body)
		c.chunk.emit(OpThrow)
		c.chunk.patchWord(skipHandler, int32(c.chunk.here()))
		c.compileStatementList(finallyEntry.body.Body)
	}
}

package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/es3lang/es3/internal/config"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it, the same technique the cobra commands here
// need since they print via fmt.Println rather than cmd.OutOrStdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func resetFlags(t *testing.T) {
	t.Helper()
	profile = config.Default()
	runEvalExpr, runDumpAST, runEngine, runJSONResult, runErrorFormat, runEnumOrder = "", false, "", false, "", ""
	lexEvalExpr, lexShowPos, lexShowType, lexOnlyError = "", false, false, false
	parseEvalExpr, parseDumpAST = "", false
	dumpEvalExpr = ""
}

func TestRunEvaluatesExpressionAndPrintsJSONResult(t *testing.T) {
	resetFlags(t)
	runEvalExpr = "2 + 3 * 4"
	runJSONResult = true

	out := captureStdout(t, func() {
		if err := runScript(runCmd, nil); err != nil {
			t.Fatalf("runScript: %v", err)
		}
	})
	snaps.MatchSnapshot(t, out)
}

func TestRunWithBytecodeEngineMatchesTreeEngine(t *testing.T) {
	resetFlags(t)
	runEvalExpr = "var x = 10; var y = 20; x + y"
	runJSONResult = true

	treeOut := captureStdout(t, func() {
		runEngine = "tree"
		if err := runScript(runCmd, nil); err != nil {
			t.Fatalf("runScript(tree): %v", err)
		}
	})
	bcOut := captureStdout(t, func() {
		runEngine = "bytecode"
		if err := runScript(runCmd, nil); err != nil {
			t.Fatalf("runScript(bytecode): %v", err)
		}
	})
	if treeOut != bcOut {
		t.Fatalf("engine mismatch: tree=%q bytecode=%q", treeOut, bcOut)
	}
}

func TestRunReportsUncaughtException(t *testing.T) {
	resetFlags(t)
	runEvalExpr = "throw new TypeError('boom');"

	err := runScript(runCmd, nil)
	if err == nil {
		t.Fatalf("runScript: expected an error for an uncaught throw")
	}
}

func TestEvalShorthandPrintsResult(t *testing.T) {
	resetFlags(t)
	out := captureStdout(t, func() {
		if err := evalCmd.RunE(evalCmd, []string{"1 + 2"}); err != nil {
			t.Fatalf("eval: %v", err)
		}
	})
	snaps.MatchSnapshot(t, out)
}

func TestLexPrintsTokenTypesAndLiterals(t *testing.T) {
	resetFlags(t)
	lexEvalExpr = "var x = 1;"
	lexShowType = true

	out := captureStdout(t, func() {
		if err := lexScript(lexCmd, nil); err != nil {
			t.Fatalf("lexScript: %v", err)
		}
	})
	snaps.MatchSnapshot(t, out)
}

func TestParsePrintsProgramString(t *testing.T) {
	resetFlags(t)
	parseEvalExpr = "1 + 2"

	out := captureStdout(t, func() {
		if err := runParse(parseCmd, nil); err != nil {
			t.Fatalf("runParse: %v", err)
		}
	})
	snaps.MatchSnapshot(t, out)
}

func TestDumpBytecodeDisassemblesAnExpression(t *testing.T) {
	resetFlags(t)
	dumpEvalExpr = "1 + 2"

	out := captureStdout(t, func() {
		if err := runDump(dumpCmd, []string{"bytecode"}); err != nil {
			t.Fatalf("runDump: %v", err)
		}
	})
	if out == "" {
		t.Fatalf("runDump(bytecode): expected disassembly output")
	}
}

func TestDumpRejectsUnknownTarget(t *testing.T) {
	resetFlags(t)
	dumpEvalExpr = "1"

	if err := runDump(dumpCmd, []string{"nonsense"}); err == nil {
		t.Fatalf("runDump(nonsense): expected an error")
	}
}

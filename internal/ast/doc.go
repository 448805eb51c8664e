// Package ast defines the ECMA-262-3 syntax tree produced by
// internal/parser and consumed by internal/eval and internal/bytecode.
//
// Node categories:
//   - Expressions: literals, Identifier, the member/call/new forms, the
//     unary/binary/logical/conditional/assignment operators, and the
//     shared FunctionLiteral used by both function expressions and
//     declarations.
//   - Statements: every §12 statement form (block, var, if, the four
//     loop forms, continue/break/return, with, switch, labeled, throw,
//     try/catch/finally) plus a function declaration wrapping a
//     FunctionLiteral.
//
// Every node implements Node (TokenLiteral/String/Pos); Expression and
// Statement each add one unexported marker method so the two families
// cannot be confused at compile time.
package ast

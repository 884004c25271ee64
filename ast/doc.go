// Package ast defines the query AST for the quarry graph-query DSL.
//
// This package contains type definitions and pure tree operations only.
// The parser and wire packages both import ast; ast imports nothing
// internal. This keeps the AST the foundational layer with no circular
// dependencies.
//
// Three sealed interfaces model the language:
//
//   - Query - one query operation (triple patterns, logical composition,
//     control flow, comparisons, string ops, arithmetic, document CRUD,
//     aggregation, path queries)
//   - Value - leaf expressions (variables, strings, numbers, booleans, lists)
//   - PathPattern - graph-traversal patterns (predicate steps, inversion,
//     repetition, sequencing, alternation)
//
// Arithmetic expressions used inside Eval form a fourth sealed union, Arith.
//
// All interfaces use the marker method pattern: only types in this package
// implement them, so backends can type-switch exhaustively.
//
// Nodes are immutable after construction. The tree is strictly owned: each
// child belongs to exactly one parent, there is no sharing and no cycles.
// Variables carry no registry or scope object - identity is the name string,
// and the first occurrence anywhere in a query implicitly binds the name.
// Use Vars to collect the distinct names of a finished tree.
package ast

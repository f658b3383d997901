// Package ast names the AST contract the compiler consumes. Per the design
// ("AST input"), the compiler's input is not a bespoke tree type: it is
// ordinary Lists, Pairs, Symbols, and literal values from internal/value —
// "indistinguishable from runtime values," which is what lets a quoted
// program fragment be evaluated as data. This package therefore has no
// types of its own; it is a set of constructor and walking helpers over
// value.SmileArg so the (out-of-scope) lexer/parser/macro system, and the
// tests and reader in this repo, have one place to build and inspect the
// shapes the compiler expects, instead of every caller hand-rolling
// value.Cons chains.
package ast

import (
	"smile/internal/symbol"
	"smile/internal/value"
)

// Sym builds a Symbol leaf for id.
func Sym(id symbol.ID) value.SmileArg { return value.FromSymbol(id) }

// Str builds a String leaf.
func Str(s string) value.SmileArg { return value.FromObject(value.NewString(s)) }

// Int builds an Integer32 literal leaf (the common case for small
// integers in test programs and the reader).
func Int(v int32) value.SmileArg { return value.FromInt32(v) }

// Bool builds a Bool literal leaf.
func Bool(v bool) value.SmileArg { return value.FromBool(v) }

// Form builds a proper list `(head arg1 arg2 ...)` — the shape every
// special-form and call expression takes. head is typically a Sym leaf for
// a special form (e.g. symbol.SIf), or any expression for a call's callee.
func Form(head value.SmileArg, args ...value.SmileArg) value.SmileArg {
	items := make([]value.SmileArg, 0, len(args)+1)
	items = append(items, head)
	items = append(items, args...)
	return value.ListFromSlice(items)
}

// List builds a proper list from items directly (no implied head).
func List(items ...value.SmileArg) value.SmileArg { return value.ListFromSlice(items) }

// Dot builds the `(obj . method-symbol)` pair the compiler recognizes as a
// method-call callee (the design, "Method call").
func Dot(obj value.SmileArg, method symbol.ID) value.SmileArg {
	l := obj
	if l.Kind.IsUnboxed() {
		l = value.Box(l)
	}
	m := Sym(method)
	if m.Kind.IsUnboxed() {
		m = value.Box(m)
	}
	return value.FromObject(&value.Pair{
		Header: value.Header{Kind: value.KindPair, VTable: value.VTableFor(value.KindPair)},
		Left:   l.Obj,
		Right:  m.Obj,
	})
}

// IsList reports whether v is a non-null List cons cell.
func IsList(v value.SmileArg) bool { return v.Kind == value.KindList }

// IsNull reports whether v is the Null singleton (the empty list).
func IsNull(v value.SmileArg) bool { return v.Kind == value.KindNull }

// IsSymbol reports whether v is a Symbol leaf.
func IsSymbol(v value.SmileArg) bool { return v.IsSymbol() }

// IsPair reports whether v is a `(left . right)` Pair, as opposed to a
// proper List cons cell.
func IsPair(v value.SmileArg) bool { return v.Kind == value.KindPair }

// Head returns a list's first element (its `a` slot). Panics if v is not a
// List cell; callers should check IsList first.
func Head(v value.SmileArg) value.SmileArg {
	l := v.Obj.(*value.List)
	return value.FromObject(l.A)
}

// Tail returns a list's rest (its `d` slot).
func Tail(v value.SmileArg) value.SmileArg {
	l := v.Obj.(*value.List)
	return value.FromObject(l.D)
}

// PairLeft/PairRight split a `(obj . method)` Pair into its two halves.
func PairLeft(v value.SmileArg) value.SmileArg {
	p := v.Obj.(*value.Pair)
	return value.FromObject(p.Left)
}

func PairRight(v value.SmileArg) value.SmileArg {
	p := v.Obj.(*value.Pair)
	return value.FromObject(p.Right)
}

// Items flattens a proper list into a Go slice, in order. See
// value.ListToSlice for the stopping rule at an improper tail.
func Items(v value.SmileArg) []value.SmileArg { return value.ListToSlice(v) }

// Len reports how many cons cells v has before reaching Null.
func Len(v value.SmileArg) int { return len(Items(v)) }

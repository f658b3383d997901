package value

import "smile/internal/symbol"

// Object is the capability every heap-resident value implements: enough to
// recover its Header (kind, flags, vtable, prototype). This is the Go
// stand-in for the source's "every boxed object begins with a common
// header" rule — rather than a C struct whose first field is the header,
// each Go type embeds Header and satisfies this interface for free.
type Object interface {
	Head() *Header
}

// Header is the common prefix the design gives every boxed object:
// { kind+flags, assigned_symbol, vtable, base }. base is a prototype
// pointer, not a class: property lookup falls through base chains (see
// UserObject.GetProperty) until it reaches the shared Primitive root.
type Header struct {
	Kind           Kind
	Flags          Flags
	AssignedSymbol symbol.ID
	VTable         *VTable
	Base           Object
}

// Head implements Object for embedders of Header.
func (h *Header) Head() *Header { return h }

// SourceLocation is a resolved (file, line, column) triple: the source
// position a Pair or a ParseMessage carries. Bytecode instructions do not
// carry one; they hold a plain line number (bytecode.ByteCode).
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

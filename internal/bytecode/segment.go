package bytecode

import "smile/internal/symbol"

// Operand is the translation of the design's ByteCode operand union
// ("i64/i32/i16/byte/f32/f64/r32/r64/symbol/index/delta/ch/uni/bool, and a
// pair (i32,i32)"). Go has no untagged unions (the Design Notes call this
// out explicitly), so rather than a byte array reinterpreted per opcode,
// this is a small struct with one field per operand *shape* — every opcode
// uses exactly one of them, decided by the opcode itself, the same way the
// source's union is interpreted "per-opcode" rather than self-describing.
type Operand struct {
	Int64   int64   // int16/32/64, byte, bool, ch, uni, relative branch delta, Call argc, NewObj/NewList count
	Float64 float64 // float32/64, real32/64 (real64 bits for both widths)
	Symbol  symbol.ID
	A, B    int32 // A alone: CompiledTables index (LdStr/LdObj/NewFn/LdInclude) or MetN argc; A+B: depth+slot
}

// ByteCode is a single flat instruction: the design, "(opcode: i32, operand:
// 8 bytes)". SourceLocation holds the source line number the compiler was
// at when it emitted the instruction (0 when none is known); it is not an
// index into CompiledTables.SourceLocations, which the compiler never fills.
type ByteCode struct {
	Op             OpCode
	Operand        Operand
	SourceLocation int
}

// ByteCodeSegment is the flat instruction array the interpreter executes
// (the design: "Vec<ByteCode>").
type ByteCodeSegment struct {
	Code []ByteCode
}

func NewSegment() *ByteCodeSegment { return &ByteCodeSegment{} }

// Append adds one instruction and returns its address (index).
func (s *ByteCodeSegment) Append(bc ByteCode) int {
	s.Code = append(s.Code, bc)
	return len(s.Code) - 1
}

func (s *ByteCodeSegment) Len() int { return len(s.Code) }

// Delta computes the signed relative offset a branch at fromAddr must carry
// to reach toAddr, per the design's invariant: "Bytecode branch operands are
// always relative deltas from the instruction following the branch."
func Delta(fromAddr, toAddr int) int64 { return int64(toAddr - (fromAddr + 1)) }

// ClosureInfo is the immutable per-function descriptor the design describes:
// "{ kind: LOCAL|GLOBAL, num_args, num_variables, temp_size, variable_names,
// global_dict }". A GLOBAL closure backs its variables by name (GlobalDict)
// instead of a dense array; LOCAL closures are indexed arrays.
type ClosureKind uint8

const (
	ClosureLocal ClosureKind = iota
	ClosureGlobal
)

type ClosureInfo struct {
	Kind          ClosureKind
	NumArgs       int
	NumVariables  int
	TempSize      int
	VariableNames []symbol.ID

	// GlobalDict backs a GLOBAL closure's variables by name; only populated
	// when Kind == ClosureGlobal. LdX/StX walk parent closures until they
	// find one of these (the design).
	GlobalDict map[symbol.ID]int
}

// ArgInfo describes one declared parameter of a user function: the design's
// "args: [{name, type_check, default}]".
type ArgInfo struct {
	Name        symbol.ID
	HasTypeCheck bool
	TypeCheck   byte // kind byte, high bit 0x80 permits null (matches ExternalFunctionInfo's convention)
	HasDefault  bool
	Default     int // index into CompiledTables.Objects, if HasDefault
}

// UserFunctionInfo is the design's per-function compiled record: "{ parent,
// source_position, args_list, body_ast, closure_info, byte_code, num_args,
// args, compiled_tables }".
type UserFunctionInfo struct {
	Parent         *UserFunctionInfo
	Name           string
	SourcePosition int
	ArgsAST        any // concrete type: value.SmileArg (the unparsed args form, kept for introspection)
	BodyAST        any // concrete type: value.SmileArg
	ClosureInfo    *ClosureInfo
	ByteCode       *ByteCodeSegment
	NumArgs        int
	Args           []ArgInfo
	CompiledTables *CompiledTables
}

// CompiledTables is the per-program literal/descriptor pool the design
// describes: "{ objects, user_functions, strings, source_locations }". The
// Operand.A of LdStr, LdObj, NewFn and LdInclude indexes into one of these;
// Call-family operands are argument counts, not indices.
//
// Objects holds `any` (concrete element type value.Object) rather than a
// concrete value.Object slice to avoid internal/bytecode importing
// internal/value: value.Function/Closure already hold `any` fields pointing
// back at *bytecode.UserFunctionInfo/*bytecode.ClosureInfo, and a two-way
// concrete import would cycle. internal/compiler and internal/interp, which
// import both packages, do the type assertions.
type CompiledTables struct {
	Objects         []any // value.Object
	UserFunctions   []*UserFunctionInfo
	Strings         []string
	SourceLocations []SourceLocation
}

// SourceLocation is a resolved (file, line, column) triple. compiler.go
// tracks its current source location as a plain line number while it walks
// the AST and does not append entries to this table.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func NewCompiledTables() *CompiledTables {
	return &CompiledTables{}
}

// AddObject interns obj into the Objects pool and returns its index,
// without deduplication (the design doesn't require object pool dedup, and
// quoted lists are frequently distinct even when structurally equal).
func (t *CompiledTables) AddObject(obj any) int {
	t.Objects = append(t.Objects, obj)
	return len(t.Objects) - 1
}

func (t *CompiledTables) AddString(s string) int {
	t.Strings = append(t.Strings, s)
	return len(t.Strings) - 1
}

func (t *CompiledTables) AddUserFunction(fn *UserFunctionInfo) int {
	t.UserFunctions = append(t.UserFunctions, fn)
	return len(t.UserFunctions) - 1
}

func (t *CompiledTables) AddSourceLocation(loc SourceLocation) int {
	t.SourceLocations = append(t.SourceLocations, loc)
	return len(t.SourceLocations) - 1
}

package compiler

import "smile/internal/symbol"

// VarKind distinguishes how a resolved symbol is stored, mirroring the
// parse-declaration kinds the design names: an ARGUMENT or VARIABLE lives
// in the current (or an enclosing) LOCAL closure's dense slot array;
// anything else is treated as global and addressed by name.
type VarKind uint8

const (
	VarArgument VarKind = iota
	VarLocal
)

// VarDecl is one resolved local binding. WasRead/WasWritten (same frame) vs
// WasReadDeep/WasWrittenDeep (read/written from a nested function, i.e.
// captured across a closure boundary) let later passes do the escape
// analysis the design calls out, without needing a second tree walk.
type VarDecl struct {
	Name    symbol.ID
	Kind    VarKind
	Slot    int
	FuncDepth int

	WasRead         bool
	WasWritten      bool
	WasReadDeep     bool
	WasWrittenDeep  bool
}

// funcFrame is the compiler's per-$fn-nesting bookkeeping: one is pushed on
// entry to $fn (and one exists for the outermost program, acting as its
// own LOCAL function frame), and popped when that function's body finishes
// compiling. scopes is a stack of lexical blocks ($scope) within this
// function; innermost last. Declaring a $scope variable assigns it the
// next free slot in nextLocalSlot, which is never reused even after that
// scope closes (matching the source's "fresh local slot index assigned
// sequentially from the function's current local count").
type funcFrame struct {
	parent        *funcFrame
	depth         int
	numArgs       int
	nextLocalSlot int
	scopes        []map[symbol.ID]*VarDecl

	// slotNames is indexed by Slot, filled in as declareArg/declareLocal
	// hand out slots, so the finished ClosureInfo.VariableNames (the design's
	// per-slot debug name list) doesn't need a second pass over the
	// scope maps to reconstruct slot order.
	slotNames []symbol.ID
}

func newFuncFrame(parent *funcFrame) *funcFrame {
	depth := 0
	if parent != nil {
		depth = parent.depth + 1
	}
	f := &funcFrame{parent: parent, depth: depth}
	f.pushScope()
	return f
}

func (f *funcFrame) pushScope() {
	f.scopes = append(f.scopes, make(map[symbol.ID]*VarDecl))
}

func (f *funcFrame) popScope() {
	f.scopes = f.scopes[:len(f.scopes)-1]
}

// declareArg registers argument i (0-based) of this function.
func (f *funcFrame) declareArg(name symbol.ID, slot int) *VarDecl {
	d := &VarDecl{Name: name, Kind: VarArgument, Slot: slot, FuncDepth: f.depth}
	f.scopes[0][name] = d
	if slot+1 > f.numArgs {
		f.numArgs = slot + 1
	}
	if slot+1 > f.nextLocalSlot {
		f.nextLocalSlot = slot + 1
	}
	f.setSlotName(slot, name)
	return d
}

func (f *funcFrame) setSlotName(slot int, name symbol.ID) {
	for len(f.slotNames) <= slot {
		f.slotNames = append(f.slotNames, 0)
	}
	f.slotNames[slot] = name
}

// declareLocal assigns name a fresh slot in the innermost open $scope.
func (f *funcFrame) declareLocal(name symbol.ID) *VarDecl {
	slot := f.nextLocalSlot
	f.nextLocalSlot++
	d := &VarDecl{Name: name, Kind: VarLocal, Slot: slot, FuncDepth: f.depth}
	f.scopes[len(f.scopes)-1][name] = d
	f.setSlotName(slot, name)
	return d
}

// lookupLocal searches this function's scope stack (innermost first), not
// any enclosing function.
func (f *funcFrame) lookupLocal(name symbol.ID) (*VarDecl, bool) {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		if d, ok := f.scopes[i][name]; ok {
			return d, true
		}
	}
	return nil, false
}

// resolve searches this function and every enclosing function, in order,
// reporting the declaration and how many function-nesting levels away it
// was found (0 = this function). found=false means the symbol is not a
// local anywhere in the chain and should be treated as global (LdX/StX).
func (f *funcFrame) resolve(name symbol.ID) (decl *VarDecl, funcDistance int, found bool) {
	for frame, dist := f, 0; frame != nil; frame, dist = frame.parent, dist+1 {
		if d, ok := frame.lookupLocal(name); ok {
			return d, dist, true
		}
	}
	return nil, 0, false
}

package value

// Macro wraps a quoted AST fragment (List/Pair/Symbol values, per the design's
// "AST input... quoted program fragments are live values usable for
// macro expansion") together with the transformer function that rewrites a
// call site's argument list into replacement AST before compilation. The
// macro system itself (pattern matching, hygiene) is out of scope; this
// kind only needs to exist and be opaquely callable from compiled code that
// was produced by the (out-of-scope) macro expander.
type Macro struct {
	Header
	Name      string
	Transform func(args []SmileArg) (SmileArg, error)
}

func NewMacro(name string, transform func(args []SmileArg) (SmileArg, error)) *Macro {
	return &Macro{
		Header:    Header{Kind: KindMacro, VTable: registry[KindMacro]},
		Name:      name,
		Transform: transform,
	}
}

func buildMacroVTable() {
	registry[KindMacro] = &VTable{
		Kind:         KindMacro,
		Name:         "Macro",
		CompareEqual: func(self, other SmileArg) bool { return self.Obj == other.Obj },
		DeepEqual:    func(self, other SmileArg, visited *VisitedSet) bool { return self.Obj == other.Obj },
		Hash:         hashIdentity,
		GetSecurity:  NoSecurity,
		SetSecurity:  UnsupportedSetSecurity,
		GetProperty:  UnsupportedGetProperty,
		SetProperty:  UnsupportedSetProperty,
		HasProperty:  UnsupportedHasProperty,
		GetPropertyNames: UnsupportedGetPropertyNames,
		ToBool:       func(self SmileArg) bool { return true },
		ToInteger32:  func(self SmileArg) int32 { return 0 },
		ToFloat64:    func(self SmileArg) float64 { return 0 },
		ToString: func(self SmileArg) string {
			m, _ := self.Obj.(*Macro)
			if m == nil || m.Name == "" {
				return "(macro)"
			}
			return "(macro " + m.Name + ")"
		},
		Call: func(self SmileArg, args []SmileArg) (SmileArg, error) {
			m, ok := self.Obj.(*Macro)
			if !ok || m.Transform == nil {
				return SmileArg{}, &KindError{Op: "call", Kind: self.Kind}
			}
			return m.Transform(args)
		},
		GetSourceLocation: UnsupportedGetSourceLocation,
		Box:               IdentityBox,
		Unbox:              IdentityUnbox,
	}
}

package value

import (
	"smile/internal/errors"
	"smile/internal/symbol"
)

// UserObject is the design's "{ header, security_key, name, dict:
// Int32Dict<SymbolId, *HeapObject> }". base (on Header) gives prototype
// inheritance; writable/appendable/frozen live in Header.Flags rather than
// as separate bool fields, matching how the source packs them alongside the
// kind tag. Dict holds SmileArg rather than Object so an unboxed scalar
// property doesn't need to be boxed just to live in a dict slot.
type UserObject struct {
	Header
	SecurityKey Object
	Name        symbol.ID
	Dict        map[symbol.ID]SmileArg
}

// NewUserObject creates an empty, writable UserObject with base as its
// prototype-chain parent (nil for none but Primitive).
func NewUserObject(base Object) *UserObject {
	return &UserObject{
		Header: Header{Kind: KindUserObject, VTable: registry[KindUserObject], Base: base, Flags: FlagWritable},
		Dict:   make(map[symbol.ID]SmileArg),
	}
}

func buildUserObjectVTable() {
	registry[KindUserObject] = &VTable{
		Kind:              KindUserObject,
		Name:              "UserObject",
		CompareEqual:      func(self, other SmileArg) bool { return self.Obj == other.Obj },
		DeepEqual:         deepEqualUserObject,
		Hash:              hashIdentity,
		GetSecurity:       userObjectGetSecurity,
		SetSecurity:       userObjectSetSecurity,
		GetProperty:       userObjectGetProperty,
		SetProperty:       userObjectSetProperty,
		HasProperty:       userObjectHasProperty,
		GetPropertyNames:  userObjectPropertyNames,
		ToBool:            func(self SmileArg) bool { return true },
		ToInteger32:       func(self SmileArg) int32 { return 0 },
		ToFloat64:         func(self SmileArg) float64 { return 0 },
		ToString:          func(self SmileArg) string { return "(object)" },
		Call:              UnsupportedCall,
		GetSourceLocation: UnsupportedGetSourceLocation,
		Box:               IdentityBox,
		Unbox:             IdentityUnbox,
	}
}

func deepEqualUserObject(self, other SmileArg, visited *VisitedSet) bool {
	// the design only commits UserObject to identity-style compareEqual;
	// structural deepEqual here falls back to the same identity check so
	// two distinct objects are never mistaken for equal just because their
	// dicts happen to match (prototype objects are nominal, not value types).
	return self.Obj == other.Obj
}

func userObjectGetSecurity(self SmileArg) Object {
	u, ok := self.Obj.(*UserObject)
	if !ok {
		return nil
	}
	return u.SecurityKey
}

func userObjectSetSecurity(self SmileArg, key Object) error {
	u, ok := self.Obj.(*UserObject)
	if !ok {
		return &KindError{Op: "setSecurity", Kind: self.Kind}
	}
	u.SecurityKey = key
	u.Flags |= FlagSecurity
	return nil
}

func userObjectGetProperty(self SmileArg, prop symbol.ID) (SmileArg, bool) {
	for obj := self.Obj; ; {
		uo, ok := obj.(*UserObject)
		if !ok {
			return SmileArg{}, false
		}
		if v, found := uo.Dict[prop]; found {
			return v, true
		}
		if uo.Base == nil {
			return SmileArg{}, false
		}
		obj = uo.Base
	}
}

// userObjectSetProperty enforces, in order: a frozen object is read-only
// outright; an object carrying a security key (FlagSecurity, set by a prior
// SetSecurity call) only accepts writes from a caller presenting that exact
// key object — since ordinary property writes have no key to present, any
// secured object rejects them; and a property name absent from Dict is only
// accepted if the object is appendable or generally writable.
func userObjectSetProperty(self SmileArg, prop symbol.ID, val SmileArg) error {
	u, ok := self.Obj.(*UserObject)
	if !ok {
		return &KindError{Op: "setProperty", Kind: self.Kind}
	}
	if u.Flags&FlagFrozen != 0 {
		return &KindError{Op: "setProperty", Kind: self.Kind, ErrKind: errors.ObjectSecurityError}
	}
	if u.Flags&FlagSecurity != 0 && u.SecurityKey != nil {
		return &KindError{Op: "setProperty", Kind: self.Kind, ErrKind: errors.ObjectSecurityError}
	}
	_, exists := u.Dict[prop]
	if !exists && u.Flags&FlagAppendable == 0 && u.Flags&FlagWritable == 0 {
		return &KindError{Op: "setProperty", Kind: self.Kind, ErrKind: errors.PropertyError}
	}
	u.Dict[prop] = val
	return nil
}

func userObjectHasProperty(self SmileArg, prop symbol.ID) bool {
	for obj := self.Obj; ; {
		uo, ok := obj.(*UserObject)
		if !ok {
			return false
		}
		if _, found := uo.Dict[prop]; found {
			return true
		}
		if uo.Base == nil {
			return false
		}
		obj = uo.Base
	}
}

func userObjectPropertyNames(self SmileArg) []symbol.ID {
	u, ok := self.Obj.(*UserObject)
	if !ok {
		return nil
	}
	names := make([]symbol.ID, 0, len(u.Dict))
	for k := range u.Dict {
		names = append(names, k)
	}
	return names
}

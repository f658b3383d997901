package value

import (
	"sync"

	"github.com/google/uuid"
)

// Handle owns an external resource (file, OS descriptor, etc). The design
// requires "a finalizer that runs at most once; explicit close is
// idempotent." ID is a process-unique identifier used in ToString and Hash,
// so handles that wrap unrelated resources never print the same way;
// CompareEqual uses object identity, not ID. github.com/google/uuid is the pack's dependency for this
// (see SPEC_FULL.md DOMAIN STACK).
type Handle struct {
	Header
	ID     uuid.UUID
	Kind2  string // e.g. "file", "socket" — descriptive, not the value.Kind tag
	Closer func() error

	closeOnce sync.Once
	closeErr  error
}

// NewHandle wraps closer (nil-safe) as a Handle with a fresh UUID.
func NewHandle(kind string, closer func() error) *Handle {
	return &Handle{
		Header: Header{Kind: KindHandle, VTable: registry[KindHandle]},
		ID:     uuid.New(),
		Kind2:  kind,
		Closer: closer,
	}
}

// Close runs the underlying closer exactly once, matching the design's
// idempotent-close requirement.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		if h.Closer != nil {
			h.closeErr = h.Closer()
		}
	})
	return h.closeErr
}

func buildHandleVTable() {
	registry[KindHandle] = &VTable{
		Kind:         KindHandle,
		Name:         "Handle",
		CompareEqual: func(self, other SmileArg) bool { return self.Obj == other.Obj },
		DeepEqual:    func(self, other SmileArg, visited *VisitedSet) bool { return self.Obj == other.Obj },
		Hash: func(self SmileArg, oracle *HashOracle) uint64 {
			h, _ := self.Obj.(*Handle)
			if h == nil {
				return oracle.Mix(0)
			}
			return oracle.HashBytes(h.ID[:])
		},
		GetSecurity:       NoSecurity,
		SetSecurity:       UnsupportedSetSecurity,
		GetProperty:       UnsupportedGetProperty,
		SetProperty:       UnsupportedSetProperty,
		HasProperty:       UnsupportedHasProperty,
		GetPropertyNames:  UnsupportedGetPropertyNames,
		ToBool:            func(self SmileArg) bool { return true },
		ToInteger32:       func(self SmileArg) int32 { return 0 },
		ToFloat64:         func(self SmileArg) float64 { return 0 },
		ToString: func(self SmileArg) string {
			h, _ := self.Obj.(*Handle)
			if h == nil {
				return "(handle)"
			}
			return "(handle " + h.Kind2 + " " + h.ID.String() + ")"
		},
		Call:              UnsupportedCall,
		GetSourceLocation: UnsupportedGetSourceLocation,
		Box:               IdentityBox,
		Unbox:             IdentityUnbox,
	}
}

package value

// registry holds every kind's vtable, boxed and unboxed, keyed by Kind.
// Populated once by Init(); VTableFor, the top-level dispatch functions in
// dispatch.go, and each kind's constructor (to set Header.VTable) read it.
var registry = map[Kind]*VTable{}

// Oracle is the process-wide hash perturbation value (oracle.go); Init()
// seeds it once from OS entropy, per the design's shared-resource policy.
var Oracle *HashOracle

var initialized bool

// Init builds every kind's vtable and the known-objects table. It must run
// exactly once before any value is constructed or any interpreter executes;
// calling it twice is a programming error, not a recoverable one.
func Init() {
	if initialized {
		panic("value: Init called more than once")
	}
	initialized = true

	buildScalarVTables()
	buildListVTables()
	buildPairVTable()
	buildUserObjectVTable()
	buildStringVTable()
	buildByteArrayVTable()
	buildHandleVTable()
	buildRangeVTable()
	buildFunctionVTable()
	buildClosureVTable()
	buildTillContinuationVTable()
	buildMacroVTable()
	buildBigNumericVTables()
	buildTimestampVTable()
	buildParseTimeVTables()

	for k := Kind(0); ; k++ {
		if _, ok := kindNames[k]; ok {
			if registry[k] == nil {
				panic("value: kind " + kindName(k) + " has no registered vtable")
			}
		}
		if k == 0xff {
			break
		}
	}

	Oracle = NewHashOracle()
	Known = buildKnownObjects()
}

// EnsureInit calls Init the first time it's invoked and is a no-op on every
// later call, for an embedder (the CLI, the REPL, a test binary) whose
// setup path may run more than once in the same process — Init itself
// stays strict (panics on a direct double call) since that almost always
// means two independent setups raced each other.
func EnsureInit() {
	if !initialized {
		Init()
	}
}

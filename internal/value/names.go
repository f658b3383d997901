package value

var kindNames = map[Kind]string{
	KindByte:    "Byte",
	KindInt16:   "Integer16",
	KindInt32:   "Integer32",
	KindInt64:   "Integer64",
	KindBool:    "Bool",
	KindFloat32: "Float32",
	KindFloat64: "Float64",
	KindSymbol:  "Symbol",
	KindReal32:  "Real32",
	KindReal64:  "Real64",
	KindChar:    "Char",
	KindUni:     "UniChar",

	KindBoxedByte:    "Byte",
	KindBoxedInt16:   "Integer16",
	KindBoxedInt32:   "Integer32",
	KindBoxedInt64:   "Integer64",
	KindBoxedBool:    "Bool",
	KindBoxedFloat32: "Float32",
	KindBoxedFloat64: "Float64",
	KindBoxedSymbol:  "Symbol",
	KindBoxedReal32:  "Real32",
	KindBoxedReal64:  "Real64",
	KindBoxedChar:    "Char",
	KindBoxedUni:     "UniChar",

	KindNull:             "Null",
	KindList:              "List",
	KindUserObject:        "UserObject",
	KindString:            "String",
	KindPair:              "Pair",
	KindRange:             "Range",
	KindByteArray:         "ByteArray",
	KindHandle:            "Handle",
	KindFunction:          "Function",
	KindClosure:           "Closure",
	KindTillContinuation:  "TillContinuation",
	KindMacro:             "Macro",
	KindInt128:            "Integer128",
	KindFloat128:          "Float128",
	KindReal128:           "Real128",
	KindBigInt:            "BigInt",
	KindBigFloat:          "BigFloat",
	KindBigReal:           "BigReal",
	KindTimestamp:         "Timestamp",
	KindSyntax:            "Syntax",
	KindNonterminal:       "Nonterminal",
	KindLoanword:          "Loanword",
	KindParseDecl:         "ParseDecl",
	KindParseMessage:      "ParseMessage",
	KindFacade:            "Facade",
}

// KindName returns the diagnostic name for k ("unknown" if unregistered),
// used in error messages and the disassembler.
func KindName(k Kind) string { return kindName(k) }

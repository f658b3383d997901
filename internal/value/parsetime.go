package value

// Syntax, Nonterminal, Loanword, ParseDecl, ParseMessage and Facade are all
// produced by the parser/macro system, which is explicitly out of scope
// (the design: "the full reader/parser, grammar extension via syntax
// objects... are not modeled"). The core still needs these as recognizable,
// opaquely-carriable kinds so a ParseMessage list can flow out of
// internal/module's resolver and a quoted AST fragment can mention a
// Syntax/Nonterminal/Loanword node without the core caring about its
// internals.

// ParseMessageSeverity mirrors the design's INFO/WARNING/ERROR/FATAL levels
// for diagnostics produced while resolving a module or compiling a form.
type ParseMessageSeverity int

const (
	SeverityInfo ParseMessageSeverity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

// ParseMessage is a single diagnostic with its source position.
type ParseMessage struct {
	Header
	Severity ParseMessageSeverity
	Text     string
	Position SourceLocation
}

func NewParseMessage(severity ParseMessageSeverity, text string, pos SourceLocation) *ParseMessage {
	return &ParseMessage{
		Header:   Header{Kind: KindParseMessage, VTable: registry[KindParseMessage], Flags: FlagHasSourcePosition},
		Severity: severity,
		Text:     text,
		Position: pos,
	}
}

// Syntax, Nonterminal, Loanword and ParseDecl are opaque payload carriers;
// the grammar-extension machinery that would populate their fields in full
// lives outside this engine's scope.
type Syntax struct {
	Header
	Payload any
}

type Nonterminal struct {
	Header
	Payload any
}

type Loanword struct {
	Header
	Payload any
}

type ParseDecl struct {
	Header
	Payload any
}

// Facade is reserved per the design's Open Questions: enumerated but
// unexercised by any current operation.
type Facade struct {
	Header
	Payload any
}

func buildParseTimeVTables() {
	registry[KindParseMessage] = buildOpaqueVTable(KindParseMessage, "ParseMessage", func(self SmileArg) string {
		m, ok := self.Obj.(*ParseMessage)
		if !ok {
			return "(parse-message)"
		}
		return m.Text
	})
	registry[KindSyntax] = buildOpaqueVTable(KindSyntax, "Syntax", nil)
	registry[KindNonterminal] = buildOpaqueVTable(KindNonterminal, "Nonterminal", nil)
	registry[KindLoanword] = buildOpaqueVTable(KindLoanword, "Loanword", nil)
	registry[KindParseDecl] = buildOpaqueVTable(KindParseDecl, "ParseDecl", nil)
	registry[KindFacade] = buildOpaqueVTable(KindFacade, "Facade", nil)
}

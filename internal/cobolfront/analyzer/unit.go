package analyzer

import (
	"fmt"

	"github.com/cobolfront/cobolfront/internal/cobolfront/diagnostic"
	"github.com/cobolfront/cobolfront/internal/cobolfront/symbols"
	"github.com/cobolfront/cobolfront/internal/cobolfront/token"
)

// parseSourceUnit is the top-level rule: IDENTIFICATION DIVISION (header
// optional), the mandatory -ID paragraph for one of PROGRAM-ID /
// FUNCTION-ID / CLASS-ID / INTERFACE-ID, then the divisions or
// OO-specific bodies appropriate to that kind, then the matching END
// marker.
func (a *Analyzer) parseSourceUnit() {
	a.consumeOptionalIdentificationHeader()

	kind, ok := a.expectIdKeyword("PROGRAM-ID", "FUNCTION-ID", "CLASS-ID", "INTERFACE-ID")
	if !ok {
		a.AnchorPoint("PROGRAM-ID", "FUNCTION-ID", "CLASS-ID", "INTERFACE-ID", token.ContextIsStatement)
		return
	}

	name, sig := a.parseIdParagraphBody(kind)
	a.pushUnit(name, kind, sig)
	defer a.popUnit()

	a.parseUnitBody(kind)
	a.parseEndMarker(kind, name)
}

func (a *Analyzer) consumeOptionalIdentificationHeader() {
	if a.CurrentEquals("IDENTIFICATION") {
		a.Expected("IDENTIFICATION")
		a.Expected("DIVISION")
		a.Optional(".")
	}
}

// expectIdKeyword matches the current token against one of the given
// -ID keywords (or the bare FACTORY/OBJECT paragraph names), mapping it
// to a UnitKind, without the structured multi-alternative error Choice
// would produce when the call site wants a quieter "not found" signal.
func (a *Analyzer) expectIdKeyword(alts ...string) (symbols.UnitKind, bool) {
	for _, alt := range alts {
		if a.CurrentEquals(alt) {
			a.advance()
			return idKeywordKind(alt), true
		}
	}
	return 0, false
}

func idKeywordKind(keyword string) symbols.UnitKind {
	switch keyword {
	case "PROGRAM-ID":
		return symbols.UnitProgram
	case "FUNCTION-ID":
		return symbols.UnitFunction
	case "CLASS-ID":
		return symbols.UnitClass
	case "INTERFACE-ID":
		return symbols.UnitInterface
	case "METHOD-ID":
		return symbols.UnitMethod
	case "FACTORY":
		return symbols.UnitFactory
	case "OBJECT":
		return symbols.UnitObject
	default:
		return symbols.UnitProgram
	}
}

// parseIdParagraphBody parses the identifier and optional modifiers
// following an -ID keyword, registers the signature, and returns the
// declared name together with the new signature.
func (a *Analyzer) parseIdParagraphBody(kind symbols.UnitKind) (string, *symbols.SourceUnitSignature) {
	a.Optional(".")
	nameTok := a.Current()
	name := nameTok.Lexeme
	if nameTok.Kind == token.KindIdentifier || nameTok.Kind == token.KindReserved {
		a.advance()
	} else {
		a.reportError(nameTok, "expected an identifier naming this source unit")
	}
	a.Optional(".")

	qualified := name
	if kind == symbols.UnitMethod || kind == symbols.UnitMethodGetter || kind == symbols.UnitMethodSetter {
		qualified = symbols.QualifyMethod(a.currentUnitName(), name)
	}

	sig := symbols.NewSourceUnitSignature(name, kind, nameTok)
	if !a.ResolutionMode {
		if !a.symtab.AddGlobal(qualified, sig) {
			a.diagDuplicateGlobal(nameTok, qualified)
		}
	}

	a.parseIdModifiers(sig)
	return name, sig
}

// diagDuplicateGlobal reports the duplicate-root-level-definition
// diagnostic (spec.md §7/§8, code 30-class).
func (a *Analyzer) diagDuplicateGlobal(tok token.Token, name string) {
	a.diag(diagnostic.Error, diagnostic.CodeDuplicateRootLevel, tok, symbols.DuplicateGlobalError(name))
}

// parseIdModifiers parses the optional AS/IS PROTOTYPE/IS
// COMMON|INITIAL|RECURSIVE/INHERITS FROM/USING/IS FINAL modifiers, with
// the mutual-exclusion checks spec.md §4.6 names.
func (a *Analyzer) parseIdModifiers(sig *symbols.SourceUnitSignature) {
	for {
		switch {
		case a.CurrentEquals("AS"):
			a.advance()
			if a.CurrentEquals(token.KindString) {
				sig.ExternalAs = a.advance().Lexeme
			} else {
				a.reportError(a.Current(), "expected a string literal after AS")
			}
		case a.CurrentEquals("IS") && a.Lookahead(1).EqualsLiteral("PROTOTYPE"):
			a.advance()
			a.advance()
			sig.Flags.Prototype = true
			a.checkPrototypeExclusion(sig)
		case a.CurrentEquals("IS") && a.Lookahead(1).EqualsLiteral("FINAL"):
			a.advance()
			a.advance()
			sig.Flags.Final = true
		case a.CurrentEquals("IS") && (a.Lookahead(1).EqualsLiteral("COMMON") || a.Lookahead(1).EqualsLiteral("INITIAL") || a.Lookahead(1).EqualsLiteral("RECURSIVE")):
			a.advance()
			a.applyUnitModifierFlag(sig)
		case a.CurrentEquals("COMMON") || a.CurrentEquals("INITIAL") || a.CurrentEquals("RECURSIVE"):
			a.applyUnitModifierFlag(sig)
		case a.CurrentEquals("INHERITS"):
			a.advance()
			a.Optional("FROM")
			for a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
				sig.Inherits = append(sig.Inherits, a.advance().Lexeme)
				if !a.Optional(",") {
					break
				}
			}
		case a.CurrentEquals("USING"):
			a.advance()
			for a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
				sig.Using = append(sig.Using, a.advance().Lexeme)
				if !a.Optional(",") {
					break
				}
			}
		case a.CurrentEquals("."):
			a.advance()
			return
		default:
			return
		}
	}
}

func (a *Analyzer) applyUnitModifierFlag(sig *symbols.SourceUnitSignature) {
	switch {
	case a.CurrentEquals("COMMON"):
		a.advance()
		sig.Flags.Common = true
		a.checkPrototypeExclusion(sig)
	case a.CurrentEquals("INITIAL"):
		a.advance()
		sig.Flags.Initial = true
		a.checkPrototypeExclusion(sig)
		a.checkInitialRecursiveExclusion(sig)
	case a.CurrentEquals("RECURSIVE"):
		a.advance()
		sig.Flags.Recursive = true
		a.checkPrototypeExclusion(sig)
		a.checkInitialRecursiveExclusion(sig)
	}
}

func (a *Analyzer) checkPrototypeExclusion(sig *symbols.SourceUnitSignature) {
	if sig.Flags.Prototype && (sig.Flags.Common || sig.Flags.Initial || sig.Flags.Recursive) {
		a.reportError(sig.Declaration, "PROTOTYPE is mutually exclusive with COMMON, INITIAL, and RECURSIVE")
	}
}

func (a *Analyzer) checkInitialRecursiveExclusion(sig *symbols.SourceUnitSignature) {
	if sig.Flags.Initial && sig.Flags.Recursive {
		a.reportError(sig.Declaration, "INITIAL is mutually exclusive with RECURSIVE")
	}
}

// parseUnitBody dispatches to the body appropriate for kind: ENVIRONMENT
// and DATA divisions are common to every unit kind; what follows depends
// on whether the unit is a plain program/function/method, a prototype
// kind (no body at all), a class (FACTORY/OBJECT paragraphs), or an
// interface (METHOD-ID prototypes only). The -ID keywords never yield a
// prototype kind: IS PROTOTYPE only sets sig.Flags.Prototype, so a unit
// declared that way has its body parsed like any other unit of its kind
// and is not checked for being empty.
func (a *Analyzer) parseUnitBody(kind symbols.UnitKind) {
	a.parseEnvironmentDivision()
	a.parseDataDivision()

	switch {
	case kind.IsPrototype():
		a.requireEmptyPrototypeBody()
	case kind == symbols.UnitClass:
		a.parseFactoryObjectSections()
	case kind == symbols.UnitInterface:
		a.parseInterfaceProcedures()
	default:
		a.parseProcedureDivision(kind)
	}
}

// requireEmptyPrototypeBody enforces that a prototype unit contains no
// statements, sections, or paragraphs.
func (a *Analyzer) requireEmptyPrototypeBody() {
	if a.CurrentEquals("END") {
		return
	}
	a.reportError(a.Current(), "a PROTOTYPE source unit may not contain statements, sections, or paragraphs")
	a.AnchorPoint("END")
}

// parseFactoryObjectSections loops over the FACTORY. and OBJECT.
// paragraphs a CLASS-ID body may contain, each itself a nested unit with
// its own DATA DIVISION and METHOD-ID paragraphs.
func (a *Analyzer) parseFactoryObjectSections() {
	for a.CurrentEquals("FACTORY") || a.CurrentEquals("OBJECT") {
		kind, _ := a.expectIdKeyword("FACTORY", "OBJECT")
		tok := a.Lookahead(-1)
		a.Optional(".")

		name := a.currentUnitName() + "." + kind.String()
		sig := symbols.NewSourceUnitSignature(name, kind, tok)
		a.pushUnit(name, kind, sig)

		a.parseEnvironmentDivision()
		a.parseDataDivision()
		a.parseMethodIdParagraphs()

		a.parseEndMarker(kind, name)
		a.popUnit()
	}
}

// parseInterfaceProcedures loops over the METHOD-ID prototypes an
// INTERFACE-ID body declares.
func (a *Analyzer) parseInterfaceProcedures() {
	a.parseMethodIdParagraphs()
}

// parseMethodIdParagraphs loops over METHOD-ID paragraphs until a
// terminating END token is seen.
func (a *Analyzer) parseMethodIdParagraphs() {
	for a.CurrentEquals("METHOD-ID") {
		a.advance()
		name, sig := a.parseIdParagraphBody(symbols.UnitMethod)
		a.pushUnit(name, symbols.UnitMethod, sig)
		a.parseUnitBody(symbols.UnitMethod)
		a.parseEndMarker(symbols.UnitMethod, name)
		a.popUnit()
	}
}

// parseEndMarker requires "END <KIND> <identifier>." for any non-program
// unit; for an outermost program it also accepts EOF itself (no later
// units exist) as a terminator (spec.md §4.6). FACTORY and OBJECT
// paragraphs are the one exception: "END FACTORY."/"END OBJECT." name
// nothing, since a class has at most one of each.
func (a *Analyzer) parseEndMarker(kind symbols.UnitKind, name string) {
	if kind == symbols.UnitProgram && len(a.unitNames) == 1 && a.Current().IsEOF() {
		return
	}
	if !a.Expected("END") {
		a.AnchorPoint("END", token.ContextIsStatement)
		a.Optional("END")
	}
	kindWord := endMarkerKeyword(kind)
	if !a.CurrentEquals(kindWord) {
		a.reportError(a.Current(), fmt.Sprintf("expected END %s %s", kindWord, name))
		a.AnchorPoint(".")
		a.Optional(".")
		return
	}
	a.advance()
	if kind == symbols.UnitFactory || kind == symbols.UnitObject {
		a.Optional(".")
		return
	}
	if !a.CurrentEquals(name) {
		a.reportError(a.Current(), fmt.Sprintf("END %s names %q, expected %q", kindWord, a.Current().Lexeme, name))
	} else {
		a.advance()
	}
	a.Optional(".")
}

func endMarkerKeyword(kind symbols.UnitKind) string {
	switch kind {
	case symbols.UnitProgram, symbols.UnitProgramPrototype:
		return "PROGRAM"
	case symbols.UnitFunction, symbols.UnitFunctionPrototype:
		return "FUNCTION"
	case symbols.UnitClass:
		return "CLASS"
	case symbols.UnitInterface:
		return "INTERFACE"
	case symbols.UnitFactory:
		return "FACTORY"
	case symbols.UnitObject:
		return "OBJECT"
	case symbols.UnitMethod, symbols.UnitMethodPrototype, symbols.UnitMethodGetter, symbols.UnitMethodSetter:
		return "METHOD"
	default:
		return "PROGRAM"
	}
}

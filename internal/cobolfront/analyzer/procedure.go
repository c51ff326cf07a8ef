package analyzer

import (
	"github.com/cobolfront/cobolfront/internal/cobolfront/diagnostic"
	"github.com/cobolfront/cobolfront/internal/cobolfront/symbols"
	"github.com/cobolfront/cobolfront/internal/cobolfront/token"
)

// parseProcedureDivision parses the optional PROCEDURE DIVISION header
// (USING/RETURNING parameter list, DECLARATIVES), registers parameters
// against the enclosing unit's signature, then parses the section and
// paragraph bodies until a unit-ending keyword is reached.
func (a *Analyzer) parseProcedureDivision(kind symbols.UnitKind) {
	if !a.CurrentEquals("PROCEDURE") {
		return
	}
	a.Expected("PROCEDURE")
	a.Expected("DIVISION")
	a.scope = ScopeProcedureDivision

	sig := a.currentSignature()

	if a.CurrentEquals("USING") {
		a.advance()
		a.parseUsingParameters(sig)
	}
	if a.CurrentEquals("RETURNING") {
		a.advance()
		if a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
			sig.Returning = a.advance().Lexeme
		} else {
			a.reportError(a.Current(), "expected an identifier after RETURNING")
		}
	} else if kind == symbols.UnitFunction {
		a.diag(diagnostic.Error, diagnostic.CodeMissingUsingName, a.Lookahead(-1), "FUNCTION-ID requires a RETURNING phrase")
	}
	a.Optional(".")

	if a.CurrentEquals("DECLARATIVES") {
		a.parseDeclaratives()
	}

	a.parseProcedureBody()
}

func (a *Analyzer) parseUsingParameters(sig *symbols.SourceUnitSignature) {
	for {
		p := symbols.Parameter{}
		switch {
		case a.CurrentEquals("BY") && a.Lookahead(1).EqualsLiteral("VALUE"):
			a.advance()
			a.advance()
			p.ByValue = true
		case a.CurrentEquals("BY") && a.Lookahead(1).EqualsLiteral("REFERENCE"):
			a.advance()
			a.advance()
		case a.CurrentEquals("OPTIONAL"):
			a.advance()
			p.Optional = true
		}
		if a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
			p.Identifier = a.advance().Lexeme
		} else {
			break
		}
		if sig != nil {
			sig.AddParameter(p)
			if !a.ResolutionMode {
				a.symtab.AddLocal(p.Identifier, symbols.Reference{Token: a.Lookahead(-1), Unit: a.currentUnitName()})
			}
		}
		if a.CurrentEquals("RETURNING") || a.CurrentEquals(".") {
			break
		}
	}
}

// parseDeclaratives parses the DECLARATIVES ... END DECLARATIVES. block,
// a sequence of USE-statement-headed sections handled like any other
// PROCEDURE DIVISION section.
func (a *Analyzer) parseDeclaratives() {
	a.Expected("DECLARATIVES")
	a.Optional(".")
	for !a.CurrentEquals("END") && !a.Current().IsEOF() {
		a.parseProcedureSectionOrParagraph()
	}
	a.Expected("END")
	a.Expected("DECLARATIVES")
	a.Optional(".")
}

// parseProcedureBody loops over PROCEDURE DIVISION sections and
// paragraphs until a unit-terminating keyword is reached.
func (a *Analyzer) parseProcedureBody() {
	for !a.isUnitTerminator() {
		before := a.pos
		a.parseProcedureSectionOrParagraph()
		if a.pos == before {
			a.advance()
		}
	}
}

func (a *Analyzer) isUnitTerminator() bool {
	if a.Current().IsEOF() {
		return true
	}
	return a.CurrentEquals("END") && (a.Lookahead(1).EqualsLiteral("PROGRAM") ||
		a.Lookahead(1).EqualsLiteral("FUNCTION") || a.Lookahead(1).EqualsLiteral("METHOD") ||
		a.Lookahead(1).EqualsLiteral("CLASS") || a.Lookahead(1).EqualsLiteral("INTERFACE") ||
		a.Lookahead(1).EqualsLiteral("FACTORY") || a.Lookahead(1).EqualsLiteral("OBJECT"))
}

// parseProcedureSectionOrParagraph parses one SECTION header (optionally
// followed by a USE statement), or one bare paragraph name, then the
// statement sentences belonging to it.
func (a *Analyzer) parseProcedureSectionOrParagraph() {
	if a.isUnitTerminator() {
		return
	}
	if (a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved)) && a.Lookahead(1).EqualsLiteral("SECTION") {
		a.advance()
		a.advance()
		a.Optional(".")
		if a.CurrentEquals("USE") {
			a.parseUseStatement()
		}
	} else if a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
		a.advance()
		a.Optional(".")
	}

	for !a.isUnitTerminator() && !a.isParagraphOrSectionStart() {
		before := a.pos
		a.parseStatement()
		if a.pos == before {
			a.advance()
		}
	}
}

// isParagraphOrSectionStart reports whether the current position begins
// a new paragraph or section name, the boundary that ends the current
// paragraph's statement list.
func (a *Analyzer) isParagraphOrSectionStart() bool {
	if !(a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved)) {
		return false
	}
	next := a.Lookahead(1)
	return next.EqualsLiteral(".") || next.EqualsLiteral("SECTION")
}

func (a *Analyzer) parseUseStatement() {
	a.Expected("USE")
	for !a.CurrentEquals(".") && !a.Current().IsEOF() {
		a.advance()
	}
	a.Optional(".")
}

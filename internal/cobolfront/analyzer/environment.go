package analyzer

import (
	"github.com/cobolfront/cobolfront/internal/cobolfront/symbols"
	"github.com/cobolfront/cobolfront/internal/cobolfront/token"
)

// parseEnvironmentDivision parses the optional ENVIRONMENT DIVISION:
// CONFIGURATION SECTION (SOURCE-COMPUTER, OBJECT-COMPUTER, REPOSITORY)
// and INPUT-OUTPUT SECTION (FILE-CONTROL/SELECT, I-O-CONTROL), registering
// one FileEntry per SELECT against the enclosing unit's signature.
func (a *Analyzer) parseEnvironmentDivision() {
	if !a.CurrentEquals("ENVIRONMENT") {
		return
	}
	a.Expected("ENVIRONMENT")
	a.Expected("DIVISION")
	a.Optional(".")

	for {
		switch {
		case a.CurrentEquals("CONFIGURATION"):
			a.parseConfigurationSection()
		case a.CurrentEquals("INPUT-OUTPUT"):
			a.parseInputOutputSection()
		default:
			return
		}
	}
}

func (a *Analyzer) parseConfigurationSection() {
	a.Expected("CONFIGURATION")
	a.Expected("SECTION")
	a.Optional(".")

	a.scope = ScopeEnvironmentDivision
	for {
		switch {
		case a.CurrentEquals("SOURCE-COMPUTER"):
			a.skipToNextClauseOrParagraph()
		case a.CurrentEquals("OBJECT-COMPUTER"):
			a.skipToNextClauseOrParagraph()
		case a.CurrentEquals("SPECIAL-NAMES"):
			a.skipToNextClauseOrParagraph()
		case a.CurrentEquals("REPOSITORY"):
			a.parseRepositoryParagraph()
		default:
			return
		}
	}
}

// parseRepositoryParagraph parses the CLASS/INTERFACE/FUNCTION entries of
// the REPOSITORY paragraph; names, AS targets and EXPANDS lists are all
// consumed without being recorded anywhere.
func (a *Analyzer) parseRepositoryParagraph() {
	a.Expected("REPOSITORY")
	a.Optional(".")
	a.scope = ScopeRepository

	for a.CurrentEquals("CLASS", "INTERFACE", "FUNCTION") {
		a.advance()
		if a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
			a.advance()
		}
		if a.CurrentEquals("AS") {
			a.advance()
			if a.CurrentEquals(token.KindString) {
				a.advance()
			}
		}
		if a.CurrentEquals("EXPANDS") {
			a.advance()
			if a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
				a.advance()
			}
			a.Optional("USING")
			for a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
				a.advance()
				if !a.Optional(",") {
					break
				}
			}
		}
	}
	a.Optional(".")
}

func (a *Analyzer) parseInputOutputSection() {
	a.Expected("INPUT-OUTPUT")
	a.Expected("SECTION")
	a.Optional(".")

	for {
		switch {
		case a.CurrentEquals("FILE-CONTROL"):
			a.parseFileControlParagraph()
		case a.CurrentEquals("I-O-CONTROL"):
			a.skipToNextClauseOrParagraph()
		default:
			return
		}
	}
}

func (a *Analyzer) parseFileControlParagraph() {
	a.Expected("FILE-CONTROL")
	a.Optional(".")
	a.scope = ScopeFileControl

	for a.CurrentEquals("SELECT") {
		a.parseSelectEntry()
	}
}

// parseSelectEntry parses one SELECT ... ASSIGN entry, recording its
// remaining clauses by token index (opened-at) rather than fully parsing
// them; ORGANIZATION/ACCESS MODE/FILE STATUS are not validated here or
// by the READ/WRITE statement parsers.
func (a *Analyzer) parseSelectEntry() {
	a.Expected("SELECT")
	a.Optional("OPTIONAL")

	nameTok := a.Current()
	if a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
		a.advance()
	} else {
		a.reportError(nameTok, "expected a file name after SELECT")
	}

	entry := &symbols.FileEntry{Name: nameTok, ClauseRaw: make(map[string]int)}

	for !a.CurrentEquals(".") && !a.Current().IsEOF() && !a.CurrentEquals("SELECT") && !a.CurrentEquals("DATA") {
		switch {
		case a.CurrentEquals("ASSIGN"):
			a.advance()
			a.Optional("TO")
			if a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindString) || a.CurrentEquals(token.KindDevice) {
				entry.AssignTo = a.advance().Lexeme
			}
		case a.CurrentEquals(token.ContextIsClause):
			entry.ClauseRaw[a.Current().Lexeme] = a.pos
			a.advance()
		default:
			a.advance()
		}
	}
	a.Optional(".")

	if sig := a.currentSignature(); sig != nil {
		if !sig.AddFile(entry) {
			a.reportError(nameTok, "duplicate SELECT of file "+nameTok.Lexeme)
		}
	}
}

// skipToNextClauseOrParagraph is used for CONFIGURATION paragraphs whose
// internal structure has no bearing on spec.md's symbol model
// (SOURCE-COMPUTER, OBJECT-COMPUTER, SPECIAL-NAMES, I-O-CONTROL): it
// consumes tokens up to the next paragraph-starting keyword or period.
func (a *Analyzer) skipToNextClauseOrParagraph() {
	a.advance()
	for !a.Current().IsEOF() {
		if a.CurrentEquals("SOURCE-COMPUTER", "OBJECT-COMPUTER", "SPECIAL-NAMES", "REPOSITORY",
			"INPUT-OUTPUT", "DATA", "PROCEDURE", "END") {
			return
		}
		a.advance()
	}
}

package analyzer

import (
	"strconv"
	"strings"

	"github.com/cobolfront/cobolfront/internal/cobolfront/symbols"
	"github.com/cobolfront/cobolfront/internal/cobolfront/token"
)

// clauseKeywordToBit maps the clause keyword lexeme to its ClauseBit; a
// keyword that introduces a clause but whose lexeme differs from the bit
// name (e.g. "OCCURS" vs ClauseOccurs) is listed explicitly.
var clauseKeywordToBit = map[string]symbols.ClauseBit{
	"REDEFINES":    symbols.ClauseRedefines,
	"RENAMES":      symbols.ClauseRenames,
	"VALUE":        symbols.ClauseValue,
	"OCCURS":       symbols.ClauseOccurs,
	"PICTURE":      symbols.ClausePicture,
	"PIC":          symbols.ClausePicture,
	"BLANK":        symbols.ClauseBlank,
	"SYNCHRONIZED": symbols.ClauseSynchronized,
	"SYNC":         symbols.ClauseSynchronized,
	"JUSTIFIED":    symbols.ClauseJustified,
	"JUST":         symbols.ClauseJustified,
	"GLOBAL":       symbols.ClauseGlobal,
	"EXTERNAL":     symbols.ClauseExternal,
	"DYNAMIC":      symbols.ClauseDynamic,
	"PROPERTY":     symbols.ClauseProperty,
	"USAGE":        symbols.ClauseUsage,
	"ALIGNED":      symbols.ClauseAligned,
	"ANY":          symbols.ClauseAnyLength,
	"BASED":        symbols.ClauseBased,
	"SAME":         symbols.ClauseSameAs,
	"TYPE":         symbols.ClauseType,
	"TYPEDEF":      symbols.ClauseTypedef,
}

var usageKeywordToUsage = map[string]symbols.Usage{
	"DISPLAY":         symbols.UsageDisplay,
	"BINARY":          symbols.UsageBinary,
	"BINARY-CHAR":     symbols.UsageBinaryChar,
	"BINARY-SHORT":    symbols.UsageBinaryShort,
	"BINARY-LONG":     symbols.UsageBinaryLong,
	"BINARY-DOUBLE":   symbols.UsageBinaryDouble,
	"COMP":            symbols.UsageComp,
	"COMPUTATIONAL":   symbols.UsageComp,
	"COMP-1":          symbols.UsageComp1,
	"COMP-2":          symbols.UsageComp2,
	"COMP-3":          symbols.UsageComp3,
	"COMP-4":          symbols.UsageComp4,
	"COMP-5":          symbols.UsageComp5,
	"PACKED-DECIMAL":  symbols.UsagePackedDecimal,
	"FLOAT-SHORT":     symbols.UsageFloatShort,
	"FLOAT-LONG":      symbols.UsageFloatLong,
	"FLOAT-EXTENDED":  symbols.UsageFloatExtended,
	"INDEX":           symbols.UsageIndex,
	"POINTER":         symbols.UsageDataPointer,
	"PROGRAM-POINTER": symbols.UsageProgramPointer,
	"FUNCTION-POINTER": symbols.UsageFunctionPointer,
	"OBJECT":          symbols.UsageObjectReference,
	"MESSAGE-TAG":     symbols.UsageMessageTag,
	"NATIONAL":        symbols.UsageNational,
}

// parseDataDivision parses the optional DATA DIVISION, dispatching each of
// WORKING-STORAGE/LOCAL-STORAGE/LINKAGE/FILE/SCREEN sections to the level-
// numbered entry loop shared by all of them.
func (a *Analyzer) parseDataDivision() {
	if !a.CurrentEquals("DATA") {
		return
	}
	a.Expected("DATA")
	a.Expected("DIVISION")
	a.Optional(".")
	a.scope = ScopeDataDivision

	for {
		switch {
		case a.CurrentEquals("FILE") && a.Lookahead(1).EqualsLiteral("SECTION"):
			a.advance()
			a.Expected("SECTION")
			a.Optional(".")
			a.parseFileDescriptionEntries()
		case a.CurrentEquals("WORKING-STORAGE"):
			a.advance()
			a.Expected("SECTION")
			a.Optional(".")
			a.scope = ScopeWorkingStorage
			a.parseDataEntryLoop(symbols.SectionWorkingStorage)
		case a.CurrentEquals("LOCAL-STORAGE"):
			a.advance()
			a.Expected("SECTION")
			a.Optional(".")
			a.scope = ScopeLocalStorage
			a.parseDataEntryLoop(symbols.SectionLocalStorage)
		case a.CurrentEquals("LINKAGE"):
			a.advance()
			a.Expected("SECTION")
			a.Optional(".")
			a.scope = ScopeLinkageSection
			a.parseDataEntryLoop(symbols.SectionLinkage)
		case a.CurrentEquals("SCREEN"):
			a.advance()
			a.Expected("SECTION")
			a.Optional(".")
			a.parseDataEntryLoop(symbols.SectionScreen)
		default:
			return
		}
	}
}

// parseFileDescriptionEntries loops over FD/SD record descriptions; each
// one is itself a level-numbered entry group feeding into the same
// record-layout rule as WORKING-STORAGE.
func (a *Analyzer) parseFileDescriptionEntries() {
	for a.CurrentEquals("FD", "SD") {
		a.advance()
		if a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
			a.advance()
		}
		for !a.CurrentEquals(".") && !a.Current().IsEOF() {
			a.advance()
		}
		a.Optional(".")
		a.parseDataEntryLoop(symbols.SectionFile)
	}
}

// parseDataEntryLoop consumes the level-numbered record entries of one
// DATA DIVISION section, enforcing the level stack discipline of spec.md
// §4.6 and resetting the stack once the section's entries are exhausted.
func (a *Analyzer) parseDataEntryLoop(section symbols.Section) {
	for a.isLevelNumber(a.Current()) {
		a.parseDataEntry(section)
	}
	a.ClearLevelStack()
}

func (a *Analyzer) isLevelNumber(tok token.Token) bool {
	if tok.Kind != token.KindNumeric {
		return false
	}
	n, err := strconv.Atoi(tok.Lexeme)
	if err != nil {
		return false
	}
	return (n >= 1 && n <= 49) || n == 66 || n == 77 || n == 78 || n == 88
}

// parseDataEntry parses one level-numbered entry: the level number, the
// data-name (or FILLER), its clauses, and the terminating period. Level
// 66 (RENAMES) and 88 (condition-name) entries are dispatched to their own
// grammars; every other level, 78 included, goes through the general
// clause loop.
func (a *Analyzer) parseDataEntry(section symbols.Section) {
	levelTok := a.advance()
	level, _ := strconv.Atoi(levelTok.Lexeme)
	a.CheckLevelNumber(level, levelTok)

	var nameTok token.Token
	if a.CurrentEquals("FILLER") {
		nameTok = a.advance()
	} else if a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
		nameTok = a.advance()
	} else {
		nameTok = a.Current()
		a.reportError(nameTok, "expected a data name or FILLER")
	}

	entry := symbols.NewDataEntry(nameTok, level, section)

	switch level {
	case 66:
		a.parseRenamesClause(entry)
	case 88:
		a.parseConditionNameClause(entry)
	default:
		a.parseGeneralClauses(entry)
	}

	a.Optional(".")

	if !a.ResolutionMode {
		if (level == 1 || level == 77) && !strings.EqualFold(nameTok.Lexeme, "FILLER") {
			if !a.registerRootLevelName(nameTok.Lexeme) {
				a.diagDuplicateGlobal(nameTok, nameTok.Lexeme)
			}
		}
		a.symtab.AddLocal(nameTok.Lexeme, symbols.Reference{Token: nameTok, Unit: a.currentUnitName()})
	}
}

func (a *Analyzer) parseRenamesClause(entry *symbols.DataEntry) {
	a.Expected("RENAMES")
	entry.DeclareClause(symbols.ClauseRenames, a.pos)
	if a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
		a.advance()
	}
	if a.CurrentEquals("THROUGH", "THRU") {
		a.advance()
		if a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
			a.advance()
		}
	}
}

func (a *Analyzer) parseConditionNameClause(entry *symbols.DataEntry) {
	a.Expected("VALUE")
	entry.DeclareClause(symbols.ClauseValue, a.pos)
	for !a.CurrentEquals(".") && !a.Current().IsEOF() {
		a.advance()
	}
}

// parseGeneralClauses parses the clause list of a 01-49/77 entry,
// recording each clause's opening token index, enforcing
// PICTURE/VALUE-forbidding USAGE combinations, and dispatching to OCCURS'
// own sub-grammar (which nests indices and key lists).
func (a *Analyzer) parseGeneralClauses(entry *symbols.DataEntry) {
	for !a.CurrentEquals(".") && !a.Current().IsEOF() && !a.isLevelNumber(a.Current()) {
		switch {
		case a.CurrentEquals("IS") && a.Lookahead(1).EqualsLiteral("EXTERNAL"):
			a.advance()
			a.parseUsageOrFlagClause(entry, "EXTERNAL")
		case a.CurrentEquals("IS") && a.Lookahead(1).EqualsLiteral("GLOBAL"):
			a.advance()
			a.parseUsageOrFlagClause(entry, "GLOBAL")
		case a.CurrentEquals("AS"):
			a.advance()
			if a.CurrentEquals(token.KindString) {
				entry.ExternalName = a.advance().Lexeme
			}
		case a.CurrentEquals("USAGE"):
			a.advance()
			a.Optional("IS")
			a.parseUsageKeyword(entry)
		case a.CurrentEquals("OCCURS"):
			a.parseOccursClause(entry)
		case a.CurrentEquals("PICTURE", "PIC"):
			a.parsePictureClause(entry)
		case a.CurrentEquals("VALUE"):
			a.parseValueClause(entry)
		case a.CurrentEquals(token.ContextIsClause):
			a.recordGenericClause(entry, a.Current().Lexeme)
			a.advance()
		case usageKeywordToUsage[strings.ToUpper(a.Current().Lexeme)] != symbols.UsageUnspecified || a.CurrentEquals(
			"DISPLAY", "BINARY", "COMP", "COMPUTATIONAL", "COMP-1", "COMP-2", "COMP-3", "COMP-4", "COMP-5",
			"PACKED-DECIMAL", "POINTER", "INDEX", "OBJECT", "NATIONAL"):
			a.parseUsageKeyword(entry)
		default:
			a.advance()
		}
	}

	if entry.Usage.ForbidsPicture() && entry.Clauses.Has(symbols.ClausePicture) {
		a.reportError(entry.Token, "PICTURE is not permitted with USAGE "+usageName(entry.Usage))
	}
	if entry.Usage.ForbidsValue() && entry.Clauses.Has(symbols.ClauseValue) {
		a.reportError(entry.Token, "VALUE is not permitted with USAGE "+usageName(entry.Usage))
	}
	a.checkPictureValueWidth(entry)
}

func (a *Analyzer) parseUsageOrFlagClause(entry *symbols.DataEntry, keyword string) {
	a.advance()
	bit := clauseKeywordToBit[keyword]
	entry.DeclareClause(bit, a.pos)
}

func (a *Analyzer) parseUsageKeyword(entry *symbols.DataEntry) {
	tok := a.Current()
	key := strings.ToUpper(tok.Lexeme)
	if u, ok := usageKeywordToUsage[key]; ok {
		entry.Usage = u
		entry.DeclareClause(symbols.ClauseUsage, a.pos)
	}
	a.advance()
	if a.CurrentEquals("POINTER") {
		a.advance()
	}
}

// parseOccursClause parses OCCURS n [TO m] TIMES [DEPENDING ON id]
// [indexed-by]; table dimensions, key lists and index names are not part
// of the symbol model, so the whole payload is consumed without being
// recorded.
func (a *Analyzer) parseOccursClause(entry *symbols.DataEntry) {
	a.Expected("OCCURS")
	entry.IsGroup = true
	entry.DeclareClause(symbols.ClauseOccurs, a.pos)

	if a.CurrentEquals(token.KindNumeric) {
		a.advance()
	}
	if a.CurrentEquals("TO") {
		a.advance()
		if a.CurrentEquals(token.KindNumeric) {
			a.advance()
		}
	}
	a.Optional("TIMES")

	for a.CurrentEquals("ASCENDING", "DESCENDING", "KEY", "DEPENDING", "INDEXED", "ON", "BY", "IS", "ARE") {
		a.advance()
	}
	for a.CurrentEquals(token.KindIdentifier) {
		a.advance()
		if !a.Optional(",") {
			break
		}
	}
}

// parsePictureClause parses PICTURE/PIC's payload, reassembling it from
// the several tokens the lexer splits it into (e.g. "9(5)V99" lexes as
// "9", "(", "5", ")", "V99") into the single string PictureDigits expects.
func (a *Analyzer) parsePictureClause(entry *symbols.DataEntry) {
	a.advance()
	a.Optional("IS")
	entry.DeclareClause(symbols.ClausePicture, a.pos)
	var sb strings.Builder
	for a.isPictureToken() {
		sb.WriteString(a.Current().Lexeme)
		a.advance()
	}
	entry.PictureText = sb.String()
}

// isPictureToken reports whether the current token can be part of a
// PICTURE payload: any literal/symbol token except the clause-terminating
// period (itself lexed as a KindSymbol).
func (a *Analyzer) isPictureToken() bool {
	if a.CurrentEquals(".") {
		return false
	}
	return a.CurrentEquals(token.KindIdentifier, token.KindNumeric, token.KindSymbol, token.KindString)
}

func (a *Analyzer) parseValueClause(entry *symbols.DataEntry) {
	a.Expected("VALUE")
	a.Optional("IS")
	entry.DeclareClause(symbols.ClauseValue, a.pos)
	if a.CurrentEquals(token.KindNumeric) {
		entry.ValueText = a.Current().Lexeme
		entry.ValueIsNumeric = true
	} else if a.CurrentEquals(token.KindString) {
		entry.ValueText = a.Current().Lexeme
	}
	for !a.CurrentEquals(".") && !a.Current().IsEOF() && !a.CurrentEquals(token.ContextIsClause) && !a.isLevelNumber(a.Current()) {
		a.advance()
		if !a.Optional(",") && !a.CurrentEquals("THROUGH", "THRU") {
			break
		}
	}
}

// checkPictureValueWidth reports a VALUE literal that provably cannot fit
// in its sibling PICTURE clause's digit positions, adapted from the
// teacher's PIC-width arithmetic helper.
func (a *Analyzer) checkPictureValueWidth(entry *symbols.DataEntry) {
	if !entry.ValueIsNumeric || entry.PictureText == "" {
		return
	}
	digits, ok := symbols.PictureDigits(entry.PictureText)
	if !ok {
		return
	}
	if !symbols.ValueFitsPicture(digits, entry.ValueText) {
		a.reportError(entry.Token, "VALUE "+entry.ValueText+" does not fit PICTURE "+entry.PictureText)
	}
}

func (a *Analyzer) recordGenericClause(entry *symbols.DataEntry, keyword string) {
	if bit, ok := clauseKeywordToBit[strings.ToUpper(keyword)]; ok {
		entry.DeclareClause(bit, a.pos)
	}
}

func usageName(u symbols.Usage) string {
	for k, v := range usageKeywordToUsage {
		if v == u {
			return k
		}
	}
	return "UNSPECIFIED"
}

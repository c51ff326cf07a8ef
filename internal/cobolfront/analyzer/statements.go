package analyzer

import (
	"github.com/cobolfront/cobolfront/internal/cobolfront/symbols"
	"github.com/cobolfront/cobolfront/internal/cobolfront/token"
)

// parseStatement dispatches on the current token's lexeme to the rule
// for one COBOL statement. Statements this front end does not need to
// understand structurally (their operands carry no symbol-table or
// division-structure information) are consumed generically up to their
// terminating period or an explicit scope terminator.
func (a *Analyzer) parseStatement() {
	switch {
	case a.CurrentEquals("DISPLAY"):
		a.parseDisplayStatement()
	case a.CurrentEquals("ACCEPT"):
		a.parseAcceptStatement()
	case a.CurrentEquals("MOVE"):
		a.parseMoveStatement()
	case a.CurrentEquals("ADD"):
		a.parseArithmeticStatement("ADD", "TO", "GIVING")
	case a.CurrentEquals("SUBTRACT"):
		a.parseArithmeticStatement("SUBTRACT", "FROM", "GIVING")
	case a.CurrentEquals("MULTIPLY"):
		a.parseArithmeticStatement("MULTIPLY", "BY", "GIVING")
	case a.CurrentEquals("DIVIDE"):
		a.parseArithmeticStatement("DIVIDE", "BY", "GIVING")
	case a.CurrentEquals("COMPUTE"):
		a.parseComputeStatement()
	case a.CurrentEquals("IF"):
		a.parseIfStatement()
	case a.CurrentEquals("EVALUATE"):
		a.parseEvaluateStatement()
	case a.CurrentEquals("PERFORM"):
		a.parsePerformStatement()
	case a.CurrentEquals("CALL"):
		a.parseCallStatement()
	case a.CurrentEquals("INVOKE"):
		a.parseInvokeStatement()
	case a.CurrentEquals("READ"):
		a.parseReadStatement()
	case a.CurrentEquals("WRITE"):
		a.parseWriteStatement()
	case a.CurrentEquals("OPEN"):
		a.parseOpenStatement()
	case a.CurrentEquals("CLOSE"):
		a.parseCloseStatement()
	case a.CurrentEquals("STOP"):
		a.parseStopStatement()
	case a.CurrentEquals("EXIT"):
		a.parseExitStatement()
	case a.CurrentEquals("GOBACK"):
		a.advance()
		a.parseOptionalScopeTerminator("GOBACK")
	case a.CurrentEquals("INITIALIZE", "SET", "STRING", "UNSTRING", "INSPECT", "SORT", "MERGE",
		"DELETE", "REWRITE", "START", "CANCEL", "RAISE", "RESUME", "ALLOCATE", "FREE", "VALIDATE",
		"CONTINUE", "XML", "JSON"):
		a.parseGenericStatement()
	case a.CurrentEquals("."):
		a.advance()
	default:
		a.advance()
	}
	a.Optional(".")
}

// parseStatementList parses zero or more statements until one of the
// given terminator keywords (or a unit/paragraph boundary) is reached,
// used by every statement with an imperative-statement-list body
// (IF/ELSE, PERFORM, EVALUATE/WHEN).
func (a *Analyzer) parseStatementList(terminators ...string) {
	for {
		if a.isUnitTerminator() || a.isParagraphOrSectionStart() {
			return
		}
		if a.CurrentEquals(anySlice(terminators)...) {
			return
		}
		before := a.pos
		a.parseStatement()
		if a.pos == before {
			a.advance()
		}
	}
}

func anySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// parseOptionalScopeTerminator consumes the explicit scope terminator
// END-<verb> if present, otherwise leaves the implicit-period ending to
// the caller.
func (a *Analyzer) parseOptionalScopeTerminator(verb string) {
	a.Optional("END-" + verb)
}

func (a *Analyzer) parseDisplayStatement() {
	a.Expected("DISPLAY")
	for a.isOperand() {
		a.advance()
	}
	if a.CurrentEquals("UPON") {
		a.advance()
		if a.CurrentEquals(token.KindDevice) || a.CurrentEquals(token.KindIdentifier) {
			a.advance()
		}
	}
	a.Optional("WITH")
	a.Optional("NO")
	a.Optional("ADVANCING")
	a.parseOptionalScopeTerminator("DISPLAY")
}

func (a *Analyzer) parseAcceptStatement() {
	a.Expected("ACCEPT")
	if a.CurrentEquals(token.KindIdentifier) {
		a.advance()
	}
	if a.CurrentEquals("FROM") {
		a.advance()
		if a.CurrentEquals(token.KindDevice) || a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
			a.advance()
		}
	}
	a.parseOptionalScopeTerminator("ACCEPT")
}

func (a *Analyzer) parseMoveStatement() {
	a.Expected("MOVE")
	a.Optional("CORRESPONDING")
	if a.isOperand() {
		a.advance()
	}
	a.Optional("TO")
	for a.isOperand() {
		a.advance()
		if !a.Optional(",") {
			continue
		}
	}
}

// parseArithmeticStatement handles ADD/SUBTRACT/MULTIPLY/DIVIDE, whose
// shapes differ only in the preposition before the target operand and
// in whether GIVING is legal.
func (a *Analyzer) parseArithmeticStatement(verb, preposition, giving string) {
	a.Expected(verb)
	for a.isOperand() {
		a.advance()
		if !a.Optional(",") {
			break
		}
	}
	a.Optional(preposition)
	for a.isOperand() {
		a.advance()
		if a.CurrentEquals(giving) {
			a.advance()
			for a.isOperand() {
				a.advance()
				if !a.Optional(",") {
					break
				}
			}
			break
		}
		if !a.Optional(",") {
			break
		}
	}
	a.parseOnSizeError()
	a.parseOptionalScopeTerminator(verb)
}

func (a *Analyzer) parseOnSizeError() {
	if a.CurrentEquals("ON") && a.Lookahead(1).EqualsLiteral("SIZE") {
		a.advance()
		a.advance()
		a.Optional("ERROR")
		a.parseStatementList("NOT", "END-ADD", "END-SUBTRACT", "END-MULTIPLY", "END-DIVIDE", "END-COMPUTE")
	}
	if a.CurrentEquals("NOT") {
		a.advance()
		a.Optional("ON")
		a.Optional("SIZE")
		a.Optional("ERROR")
		a.parseStatementList("END-ADD", "END-SUBTRACT", "END-MULTIPLY", "END-DIVIDE", "END-COMPUTE")
	}
}

func (a *Analyzer) parseComputeStatement() {
	a.Expected("COMPUTE")
	for a.isOperand() {
		a.advance()
		if !a.Optional(",") {
			break
		}
	}
	a.Optional("=")
	for !a.CurrentEquals(".") && !a.CurrentEquals("ON") && !a.CurrentEquals("NOT") &&
		!a.Current().IsEOF() && !a.isUnitTerminator() {
		a.advance()
	}
	a.parseOnSizeError()
	a.parseOptionalScopeTerminator("COMPUTE")
}

// parseIfStatement parses IF condition THEN? stmts [ELSE stmts] END-IF,
// consuming the condition expression generically (condition grammar is
// out of scope; only statement/division structure is analyzed) but
// recursing properly into both branches so nested IFs balance correctly.
func (a *Analyzer) parseIfStatement() {
	a.Expected("IF")
	a.parseConditionExpression()
	a.Optional("THEN")

	a.parseStatementList("ELSE", "END-IF")
	if a.CurrentEquals("ELSE") {
		a.advance()
		a.parseStatementList("END-IF")
	}
	a.Optional("END-IF")
}

// parseConditionExpression consumes a condition up to THEN or the start
// of a statement list; COBOL condition grammar (relational/class/sign
// tests, NOT, AND/OR) is not part of this front end's symbol model.
func (a *Analyzer) parseConditionExpression() {
	depth := 0
	for !a.Current().IsEOF() {
		if a.CurrentEquals("(") {
			depth++
		}
		if a.CurrentEquals(")") {
			depth--
		}
		if depth <= 0 && (a.CurrentEquals("THEN") || a.isStatementStart()) {
			return
		}
		a.advance()
	}
}

// isStatementStart reports whether the current token begins a statement
// keyword, the heuristic parseConditionExpression uses to find the end
// of an IF's condition when no THEN is written.
func (a *Analyzer) isStatementStart() bool {
	return a.CurrentEquals(
		"DISPLAY", "ACCEPT", "MOVE", "ADD", "SUBTRACT", "MULTIPLY", "DIVIDE", "COMPUTE",
		"IF", "EVALUATE", "PERFORM", "CALL", "INVOKE", "READ", "WRITE", "OPEN", "CLOSE",
		"STOP", "EXIT", "GOBACK", "INITIALIZE", "SET", "STRING", "UNSTRING", "CONTINUE")
}

// parseEvaluateStatement parses EVALUATE subject [ALSO subject]...
// WHEN condition-set stmts ... [WHEN OTHER stmts] END-EVALUATE.
func (a *Analyzer) parseEvaluateStatement() {
	a.Expected("EVALUATE")
	for !a.CurrentEquals("WHEN") && !a.Current().IsEOF() && !a.CurrentEquals(".") {
		a.advance()
	}
	for a.CurrentEquals("WHEN") {
		a.advance()
		for !a.Current().IsEOF() && !a.isStatementStart() && !a.CurrentEquals("WHEN", "END-EVALUATE") {
			a.advance()
		}
		a.parseStatementList("WHEN", "END-EVALUATE")
	}
	a.Optional("END-EVALUATE")
}

// parsePerformStatement handles both in-line PERFORM ... END-PERFORM and
// out-of-line PERFORM paragraph-name [THROUGH paragraph-name]
// [iteration-phrase], distinguished by whether the next token opens an
// iteration phrase or a statement.
func (a *Analyzer) parsePerformStatement() {
	a.Expected("PERFORM")

	if (a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved)) &&
		!a.isStatementStart() && !a.CurrentEquals("VARYING", "UNTIL", "WITH", "TEST", "FOREVER") {
		nameTok := a.Current()
		a.advance()
		if !a.ResolutionMode {
			a.symtab.AddLocal(nameTok.Lexeme, symbols.Reference{Token: nameTok, Unit: a.currentUnitName()})
		}
		if a.CurrentEquals("THROUGH", "THRU") {
			a.advance()
			if a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
				a.advance()
			}
		}
		a.parsePerformIterationPhrase()
		return
	}

	a.parsePerformIterationPhrase()
	a.parseStatementList("END-PERFORM")
	a.Optional("END-PERFORM")
}

func (a *Analyzer) parsePerformIterationPhrase() {
	switch {
	case a.CurrentEquals("TIMES"):
		a.advance()
	case a.CurrentEquals("VARYING") || a.CurrentEquals("UNTIL") || a.CurrentEquals("WITH") || a.CurrentEquals("TEST") ||
		a.CurrentEquals("FOREVER"):
		for !a.Current().IsEOF() && !a.CurrentEquals(".") && !a.isStatementStart() && !a.CurrentEquals("END-PERFORM") {
			a.advance()
		}
	default:
		if a.Current().Kind == token.KindNumeric || a.CurrentEquals(token.KindIdentifier) {
			a.advance()
			a.Optional("TIMES")
		}
	}
}

// parseCallStatement parses CALL target [USING args] [RETURNING id]
// [ON EXCEPTION stmts] [END-CALL]. The target is consumed without being
// looked up in the symbol table.
func (a *Analyzer) parseCallStatement() {
	a.Expected("CALL")
	if a.CurrentEquals(token.KindString) || a.CurrentEquals(token.KindIdentifier) {
		a.advance()
	}
	if a.CurrentEquals("USING") {
		a.advance()
		for !a.CurrentEquals("RETURNING") && !a.CurrentEquals("ON") && !a.CurrentEquals(".") &&
			!a.Current().IsEOF() && !a.isStatementStart() {
			a.advance()
		}
	}
	if a.CurrentEquals("RETURNING") {
		a.advance()
		if a.CurrentEquals(token.KindIdentifier) {
			a.advance()
		}
	}
	if a.CurrentEquals("ON") && a.Lookahead(1).EqualsLiteral("EXCEPTION") {
		a.advance()
		a.advance()
		a.parseStatementList("NOT", "END-CALL")
	}
	if a.CurrentEquals("NOT") {
		a.advance()
		a.Optional("ON")
		a.Optional("EXCEPTION")
		a.parseStatementList("END-CALL")
	}
	a.Optional("END-CALL")
}

// parseInvokeStatement parses INVOKE object "method" [USING args]
// [RETURNING id], the OO message-send statement.
func (a *Analyzer) parseInvokeStatement() {
	a.Expected("INVOKE")
	if a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
		a.advance()
	}
	if a.CurrentEquals(token.KindString) || a.CurrentEquals(token.KindIdentifier) {
		a.advance()
	}
	if a.CurrentEquals("USING") {
		a.advance()
		for !a.CurrentEquals("RETURNING") && !a.CurrentEquals(".") && !a.Current().IsEOF() && !a.isStatementStart() {
			a.advance()
		}
	}
	if a.CurrentEquals("RETURNING") {
		a.advance()
		if a.CurrentEquals(token.KindIdentifier) {
			a.advance()
		}
	}
}

func (a *Analyzer) parseReadStatement() {
	a.Expected("READ")
	if a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
		a.advance()
	}
	a.Optional("NEXT")
	a.Optional("RECORD")
	if a.CurrentEquals("INTO") {
		a.advance()
		if a.CurrentEquals(token.KindIdentifier) {
			a.advance()
		}
	}
	if a.CurrentEquals("AT") && a.Lookahead(1).EqualsLiteral("END") {
		a.advance()
		a.advance()
		a.parseStatementList("NOT", "END-READ")
	}
	if a.CurrentEquals("NOT") {
		a.advance()
		a.Optional("AT")
		a.Optional("END")
		a.parseStatementList("END-READ")
	}
	a.Optional("END-READ")
}

func (a *Analyzer) parseWriteStatement() {
	a.Expected("WRITE")
	if a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
		a.advance()
	}
	if a.CurrentEquals("FROM") {
		a.advance()
		if a.CurrentEquals(token.KindIdentifier) {
			a.advance()
		}
	}
	for !a.CurrentEquals(".") && !a.Current().IsEOF() && !a.isStatementStart() {
		a.advance()
	}
	a.Optional("END-WRITE")
}

func (a *Analyzer) parseOpenStatement() {
	a.Expected("OPEN")
	for a.CurrentEquals("INPUT", "OUTPUT", "I-O", "EXTEND") || a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
		a.advance()
	}
}

func (a *Analyzer) parseCloseStatement() {
	a.Expected("CLOSE")
	for a.CurrentEquals(token.KindIdentifier) || a.CurrentEquals(token.KindReserved) {
		a.advance()
		a.Optional("WITH")
		a.Optional("NO")
		a.Optional("REWIND")
		a.Optional("LOCK")
	}
}

func (a *Analyzer) parseStopStatement() {
	a.Expected("STOP")
	a.Optional("RUN")
	if a.isOperand() {
		a.advance()
	}
}

func (a *Analyzer) parseExitStatement() {
	a.Expected("EXIT")
	a.Optional("PROGRAM")
	a.Optional("METHOD")
	a.Optional("FUNCTION")
	a.Optional("PERFORM")
	a.Optional("SECTION")
	a.Optional("CYCLE")
}

// parseGenericStatement consumes statements whose operands carry no
// structural information this front end tracks, up to the terminating
// period or an explicit scope terminator matching the verb.
func (a *Analyzer) parseGenericStatement() {
	verb := a.advance().Lexeme
	for !a.CurrentEquals(".") && !a.Current().IsEOF() && !a.isStatementStart() && !a.isUnitTerminator() {
		a.advance()
	}
	a.parseOptionalScopeTerminator(verb)
}

// isOperand reports whether the current token can start an identifier,
// literal, or arithmetic-expression operand.
func (a *Analyzer) isOperand() bool {
	return a.CurrentEquals(token.KindIdentifier, token.KindNumeric, token.KindString, token.KindNational,
		token.KindHexString, token.KindBoolean, token.KindFigurativeLiteral, token.KindIntrinsicFunction) ||
		a.CurrentEquals("(", ")", "+", "-", "*", "/")
}

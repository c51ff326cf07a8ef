package analyzer

import (
	"testing"

	"github.com/cobolfront/cobolfront/internal/cobolfront/diagnostic"
	"github.com/cobolfront/cobolfront/internal/cobolfront/lexer"
	"github.com/cobolfront/cobolfront/internal/cobolfront/source"
	"github.com/cobolfront/cobolfront/internal/cobolfront/symbols"
	"github.com/cobolfront/cobolfront/internal/cobolfront/token"
)

// compileFixed runs src (written as fixed-format lines, leading 7 spaces
// to clear the sequence area and indicator column) through the same
// reader -> normalizer -> directive -> lexer pipeline the driver uses,
// then through one Analyzer pass.
func compileFixed(t *testing.T, src string) (*Analyzer, *symbols.SymbolTable, *diagnostic.Collector) {
	t.Helper()
	opts := source.NewOptions("test.cob")
	opts.Format = source.FormatFixed
	rep := diagnostic.NewCollector()

	var tokens []token.Token
	reader := source.NewLineReader([]byte(src))
	norm := source.NewNormalizer(opts)
	for {
		line, lineNo, ok := reader.Next()
		if !ok {
			break
		}
		normalized := norm.Normalize(line)
		source.ProcessDirectives(normalized, opts)
		tokens = lexer.LexLine(tokens, normalized, lineNo, 0, rep)
	}
	tokens = append(tokens, token.EOF(0))

	symtab := symbols.NewSymbolTable()
	an := New(tokens, symtab, rep, opts)
	an.Run()
	return an, symtab, rep
}

func TestMinimalProgramCompilesCleanly(t *testing.T) {
	src := "" +
		"       IDENTIFICATION DIVISION.\n" +
		"       PROGRAM-ID. HELLO-WORLD.\n" +
		"       PROCEDURE DIVISION.\n" +
		"       MAIN-PARA.\n" +
		"           DISPLAY \"HELLO\".\n" +
		"           STOP RUN.\n" +
		"       END PROGRAM HELLO-WORLD.\n"

	an, symtab, rep := compileFixed(t, src)

	if an.ErrorCount() != 0 {
		t.Fatalf("expected no errors, got %d: %#v", an.ErrorCount(), rep.Diagnostics())
	}
	if !symtab.GlobalExists("HELLO-WORLD") {
		t.Errorf("expected HELLO-WORLD to be registered as a global")
	}
}

func TestFunctionIdWithoutReturningReportsMissingUsingName(t *testing.T) {
	src := "" +
		"       IDENTIFICATION DIVISION.\n" +
		"       FUNCTION-ID. ADDER.\n" +
		"       PROCEDURE DIVISION USING X.\n" +
		"       MAIN-PARA.\n" +
		"           CONTINUE.\n" +
		"       END FUNCTION ADDER.\n"

	_, _, rep := compileFixed(t, src)

	found := false
	for _, d := range rep.Diagnostics() {
		if d.Code == diagnostic.CodeMissingUsingName {
			found = true
		}
	}
	if !found {
		t.Errorf("expected CodeMissingUsingName diagnostic for a RETURNING-less FUNCTION-ID, got %#v", rep.Diagnostics())
	}
}

func TestDuplicateProgramIdReportsDuplicateRootLevel(t *testing.T) {
	src := "" +
		"       IDENTIFICATION DIVISION.\n" +
		"       PROGRAM-ID. SAMENAME.\n" +
		"       PROCEDURE DIVISION.\n" +
		"       END PROGRAM SAMENAME.\n" +
		"       IDENTIFICATION DIVISION.\n" +
		"       PROGRAM-ID. SAMENAME.\n" +
		"       PROCEDURE DIVISION.\n" +
		"       END PROGRAM SAMENAME.\n"

	_, _, rep := compileFixed(t, src)

	found := false
	for _, d := range rep.Diagnostics() {
		if d.Code == diagnostic.CodeDuplicateRootLevel {
			found = true
		}
	}
	if !found {
		t.Errorf("expected CodeDuplicateRootLevel diagnostic for the second PROGRAM-ID SAMENAME, got %#v", rep.Diagnostics())
	}
}

func TestDuplicateRootLevelDataNameReportsDuplicateRootLevel(t *testing.T) {
	src := "" +
		"       IDENTIFICATION DIVISION.\n" +
		"       PROGRAM-ID. TWOX.\n" +
		"       DATA DIVISION.\n" +
		"       WORKING-STORAGE SECTION.\n" +
		"       01  X PIC 9(4).\n" +
		"       01  X PIC 9(4).\n" +
		"       PROCEDURE DIVISION.\n" +
		"       END PROGRAM TWOX.\n"

	an, _, rep := compileFixed(t, src)

	if an.ErrorCount() == 0 {
		t.Fatalf("expected an error for the second 01 X entry, got none: %#v", rep.Diagnostics())
	}
	found := false
	for _, d := range rep.Diagnostics() {
		if d.Code == diagnostic.CodeDuplicateRootLevel {
			found = true
		}
	}
	if !found {
		t.Errorf("expected CodeDuplicateRootLevel diagnostic for the second 01 X, got %#v", rep.Diagnostics())
	}
}

func TestRepeatedFillerAtRootLevelIsNotFlaggedDuplicate(t *testing.T) {
	src := "" +
		"       IDENTIFICATION DIVISION.\n" +
		"       PROGRAM-ID. FILLERS.\n" +
		"       DATA DIVISION.\n" +
		"       WORKING-STORAGE SECTION.\n" +
		"       01  FILLER PIC X.\n" +
		"       01  FILLER PIC X.\n" +
		"       PROCEDURE DIVISION.\n" +
		"       END PROGRAM FILLERS.\n"

	an, _, rep := compileFixed(t, src)

	if an.ErrorCount() != 0 {
		t.Errorf("FILLER entries should never be flagged as duplicate root-level names, got %d errors: %#v", an.ErrorCount(), rep.Diagnostics())
	}
}

func TestFigurativeLiteralAndDeviceMnemonicOperandsParse(t *testing.T) {
	src := "" +
		"       IDENTIFICATION DIVISION.\n" +
		"       PROGRAM-ID. FIGS.\n" +
		"       ENVIRONMENT DIVISION.\n" +
		"       INPUT-OUTPUT SECTION.\n" +
		"       FILE-CONTROL.\n" +
		"           SELECT PRINT-FILE ASSIGN TO PRINTER.\n" +
		"       DATA DIVISION.\n" +
		"       WORKING-STORAGE SECTION.\n" +
		"       01  WS-FLAG PIC X.\n" +
		"       PROCEDURE DIVISION.\n" +
		"       MAIN-PARA.\n" +
		"           MOVE ZERO TO WS-FLAG.\n" +
		"           DISPLAY HIGH-VALUES.\n" +
		"           DISPLAY WS-FLAG UPON CONSOLE.\n" +
		"           STOP RUN.\n" +
		"       END PROGRAM FIGS.\n"

	an, _, rep := compileFixed(t, src)

	if an.ErrorCount() != 0 {
		t.Fatalf("expected no errors parsing figurative-literal/device operands, got %d: %#v", an.ErrorCount(), rep.Diagnostics())
	}
}

func TestPrototypeMutuallyExclusiveWithCommon(t *testing.T) {
	src := "" +
		"       IDENTIFICATION DIVISION.\n" +
		"       PROGRAM-ID. HELPER IS COMMON IS PROTOTYPE.\n" +
		"       END PROGRAM HELPER.\n"

	an, _, _ := compileFixed(t, src)

	if an.ErrorCount() == 0 {
		t.Errorf("expected an error for PROTOTYPE combined with COMMON")
	}
}

func TestLevelNumberDisciplineAcceptsNestedGroups(t *testing.T) {
	src := "" +
		"       IDENTIFICATION DIVISION.\n" +
		"       PROGRAM-ID. REC.\n" +
		"       DATA DIVISION.\n" +
		"       WORKING-STORAGE SECTION.\n" +
		"       01  WS-RECORD.\n" +
		"           05  WS-NAME PIC X(20).\n" +
		"           05  WS-AMOUNT PIC 9(5)V99.\n" +
		"       01  WS-FLAG PIC X.\n" +
		"       PROCEDURE DIVISION.\n" +
		"       END PROGRAM REC.\n"

	an, symtab, rep := compileFixed(t, src)

	if an.ErrorCount() != 0 {
		t.Fatalf("expected no errors, got %d: %#v", an.ErrorCount(), rep.Diagnostics())
	}
	if !symtab.LocalExists("WS-NAME") || !symtab.LocalExists("WS-AMOUNT") || !symtab.LocalExists("WS-FLAG") {
		t.Errorf("expected every data-name to be registered as a local reference")
	}
}

func TestLevelNumberOutOfOrderReportsError(t *testing.T) {
	src := "" +
		"       IDENTIFICATION DIVISION.\n" +
		"       PROGRAM-ID. BAD.\n" +
		"       DATA DIVISION.\n" +
		"       WORKING-STORAGE SECTION.\n" +
		"       05  WS-ORPHAN PIC X.\n" +
		"       PROCEDURE DIVISION.\n" +
		"       END PROGRAM BAD.\n"

	an, _, _ := compileFixed(t, src)

	if an.ErrorCount() == 0 {
		t.Errorf("expected an error for a level-05 entry with no enclosing level")
	}
}

func TestValueClauseTooWideForPictureReportsError(t *testing.T) {
	src := "" +
		"       IDENTIFICATION DIVISION.\n" +
		"       PROGRAM-ID. WIDE.\n" +
		"       DATA DIVISION.\n" +
		"       WORKING-STORAGE SECTION.\n" +
		"       01  WS-CODE PIC 9(2) VALUE 123.\n" +
		"       PROCEDURE DIVISION.\n" +
		"       END PROGRAM WIDE.\n"

	an, _, rep := compileFixed(t, src)

	if an.ErrorCount() == 0 {
		t.Errorf("expected VALUE 123 to be reported as too wide for PICTURE 9(2), got %#v", rep.Diagnostics())
	}
}

func TestUsageIndexForbidsPictureClause(t *testing.T) {
	src := "" +
		"       IDENTIFICATION DIVISION.\n" +
		"       PROGRAM-ID. IDX.\n" +
		"       DATA DIVISION.\n" +
		"       WORKING-STORAGE SECTION.\n" +
		"       01  WS-IDX USAGE INDEX PIC 9(3).\n" +
		"       PROCEDURE DIVISION.\n" +
		"       END PROGRAM IDX.\n"

	an, _, _ := compileFixed(t, src)

	if an.ErrorCount() == 0 {
		t.Errorf("expected PICTURE with USAGE INDEX to be rejected")
	}
}

func TestClassWithFactoryAndObjectSections(t *testing.T) {
	src := "" +
		"       IDENTIFICATION DIVISION.\n" +
		"       CLASS-ID. ACCOUNT.\n" +
		"       FACTORY.\n" +
		"       METHOD-ID. NEW-ACCOUNT.\n" +
		"       PROCEDURE DIVISION.\n" +
		"       END METHOD NEW-ACCOUNT.\n" +
		"       END FACTORY.\n" +
		"       OBJECT.\n" +
		"       END OBJECT.\n" +
		"       END CLASS ACCOUNT.\n"

	an, symtab, rep := compileFixed(t, src)

	if an.ErrorCount() != 0 {
		t.Fatalf("expected no errors, got %d: %#v", an.ErrorCount(), rep.Diagnostics())
	}
	if !symtab.GlobalExists("ACCOUNT") {
		t.Errorf("expected ACCOUNT to be registered as a global")
	}
}

func TestSelectFileEntryRegistersOnUnitSignature(t *testing.T) {
	src := "" +
		"       IDENTIFICATION DIVISION.\n" +
		"       PROGRAM-ID. READER.\n" +
		"       ENVIRONMENT DIVISION.\n" +
		"       INPUT-OUTPUT SECTION.\n" +
		"       FILE-CONTROL.\n" +
		"           SELECT CUST-FILE ASSIGN TO \"CUST.DAT\".\n" +
		"       PROCEDURE DIVISION.\n" +
		"       END PROGRAM READER.\n"

	an, _, rep := compileFixed(t, src)

	if an.ErrorCount() != 0 {
		t.Fatalf("expected no errors, got %d: %#v", an.ErrorCount(), rep.Diagnostics())
	}
}

func TestIfPerformAndEvaluateStatementsParseWithoutErrors(t *testing.T) {
	src := "" +
		"       IDENTIFICATION DIVISION.\n" +
		"       PROGRAM-ID. CTRL.\n" +
		"       DATA DIVISION.\n" +
		"       WORKING-STORAGE SECTION.\n" +
		"       01  WS-X PIC 9(3).\n" +
		"       PROCEDURE DIVISION.\n" +
		"       MAIN-PARA.\n" +
		"           IF WS-X > 0\n" +
		"               DISPLAY \"POSITIVE\"\n" +
		"           ELSE\n" +
		"               DISPLAY \"NON-POSITIVE\"\n" +
		"           END-IF.\n" +
		"           PERFORM HELPER-PARA.\n" +
		"           EVALUATE WS-X\n" +
		"               WHEN 1\n" +
		"                   DISPLAY \"ONE\"\n" +
		"               WHEN OTHER\n" +
		"                   DISPLAY \"OTHER\"\n" +
		"           END-EVALUATE.\n" +
		"           STOP RUN.\n" +
		"       HELPER-PARA.\n" +
		"           CONTINUE.\n" +
		"       END PROGRAM CTRL.\n"

	an, _, rep := compileFixed(t, src)

	if an.ErrorCount() != 0 {
		t.Fatalf("expected no errors, got %d: %#v", an.ErrorCount(), rep.Diagnostics())
	}
}

package copybook

import (
	"errors"
	"testing"

	"github.com/cobolfront/cobolfront/internal/cobolfront/diagnostic"
	"github.com/cobolfront/cobolfront/internal/cobolfront/lexer"
	"github.com/cobolfront/cobolfront/internal/cobolfront/source"
	"github.com/cobolfront/cobolfront/internal/cobolfront/token"
)

type fakeProvider map[string][]byte

func (f fakeProvider) Open(path string) ([]byte, error) {
	if content, ok := f[path]; ok {
		return content, nil
	}
	return nil, errors.New("not found: " + path)
}

func lexOneLine(s string, rep diagnostic.Reporter) []token.Token {
	toks := lexer.LexLine(nil, []byte(s), 1, 0, rep)
	return append(toks, token.EOF(0))
}

func TestExpandSplicesCopybookInPlace(t *testing.T) {
	rep := diagnostic.NewCollector()
	opts := source.NewOptions("main.cob")
	provider := fakeProvider{"CUSTREC.cob": []byte("       01 CUST-NAME PIC X(20).")}

	tokens := lexOneLine("COPY CUSTREC.", rep)
	expanded := Expand(tokens, opts, provider, rep)

	found := false
	for _, tk := range expanded {
		if tk.Lexeme == "CUST-NAME" {
			found = true
		}
		if tk.EqualsLiteral("COPY") {
			t.Errorf("expanded stream must not retain the COPY token")
		}
	}
	if !found {
		t.Errorf("expected the copybook's CUST-NAME token to appear in the expanded stream")
	}
}

func TestExpandResolvesNameWithoutExtensionFirst(t *testing.T) {
	rep := diagnostic.NewCollector()
	opts := source.NewOptions("main.cob")
	provider := fakeProvider{
		"CUSTREC":     []byte("       01 CUST-ID PIC 9(5)."),
		"CUSTREC.cob": []byte("       01 OTHER-ID PIC 9(5)."),
	}

	tokens := lexOneLine("COPY CUSTREC.", rep)
	expanded := Expand(tokens, opts, provider, rep)

	found := false
	for _, tk := range expanded {
		if tk.Lexeme == "CUST-ID" {
			found = true
		}
		if tk.Lexeme == "OTHER-ID" {
			t.Errorf("expected the verbatim name to win over the .cob variant")
		}
	}
	if !found {
		t.Errorf("expected verbatim-name lookup to succeed before trying .cob extension")
	}
}

func TestExpandReportsFatalOnMissingCopybook(t *testing.T) {
	rep := diagnostic.NewCollector()
	opts := source.NewOptions("main.cob")
	provider := fakeProvider{}

	tokens := lexOneLine("COPY NOPE.", rep)
	Expand(tokens, opts, provider, rep)

	foundFatal := false
	for _, d := range rep.Diagnostics() {
		if d.Severity == diagnostic.Fatal {
			foundFatal = true
		}
	}
	if !foundFatal {
		t.Errorf("expected a Fatal diagnostic for an unreadable copybook")
	}
}

func TestExpandHandlesNestedCopy(t *testing.T) {
	rep := diagnostic.NewCollector()
	opts := source.NewOptions("main.cob")
	provider := fakeProvider{
		"OUTER.cob": []byte("       COPY INNER."),
		"INNER.cob": []byte("       01 INNER-FIELD PIC X."),
	}

	tokens := lexOneLine("COPY OUTER.", rep)
	expanded := Expand(tokens, opts, provider, rep)

	for _, tk := range expanded {
		if tk.EqualsLiteral("COPY") {
			t.Errorf("nested COPY token should also be expanded away")
		}
	}
	found := false
	for _, tk := range expanded {
		if tk.Lexeme == "INNER-FIELD" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the nested copybook's token to appear after double expansion")
	}
}

package token

import "testing"

func TestEOFIsSingletonShaped(t *testing.T) {
	a := EOF(0)
	b := EOF(0)
	if !a.IsEOF() || !b.IsEOF() {
		t.Fatalf("EOF() tokens must report IsEOF() true")
	}
	if a.Line != EOFLine || a.Column != EOFColumn {
		t.Errorf("EOF() token has unexpected position: line=%d col=%d", a.Line, a.Column)
	}
	if a.Context != ContextIsEOF {
		t.Errorf("EOF() token context = %v, want ContextIsEOF", a.Context)
	}
}

func TestEqualCaseInsensitiveForReservedWords(t *testing.T) {
	a := Token{Lexeme: "MOVE", Kind: KindReserved}
	b := Token{Lexeme: "move", Kind: KindReserved}
	if !a.Equal(b) {
		t.Errorf("expected reserved-word tokens to compare equal case-insensitively")
	}
}

func TestEqualCaseSensitiveForStringLiterals(t *testing.T) {
	a := Token{Lexeme: "Hello", Kind: KindString}
	b := Token{Lexeme: "hello", Kind: KindString}
	if a.Equal(b) {
		t.Errorf("expected string literal tokens to compare case-sensitively")
	}
}

func TestEqualsLiteralFoldsCaseRegardlessOfKind(t *testing.T) {
	tok := Token{Lexeme: "display", Kind: KindIdentifier}
	if !tok.EqualsLiteral("DISPLAY") {
		t.Errorf("EqualsLiteral should fold case")
	}
}

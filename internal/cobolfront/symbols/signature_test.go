package symbols

import "testing"

func TestIsPrototypeOnlyForPrototypeKinds(t *testing.T) {
	prototypes := []UnitKind{UnitProgramPrototype, UnitFunctionPrototype, UnitMethodPrototype}
	for _, k := range prototypes {
		if !k.IsPrototype() {
			t.Errorf("%v.IsPrototype() = false, want true", k)
		}
	}

	nonPrototypes := []UnitKind{UnitProgram, UnitFunction, UnitClass, UnitMethod}
	for _, k := range nonPrototypes {
		if k.IsPrototype() {
			t.Errorf("%v.IsPrototype() = true, want false", k)
		}
	}
}

func TestAddParameterAppendsInOrder(t *testing.T) {
	sig := NewSourceUnitSignature("ADDER", UnitFunction, tok("ADDER"))
	sig.AddParameter(Parameter{Identifier: "X"})
	sig.AddParameter(Parameter{Identifier: "Y", ByValue: true})

	if len(sig.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(sig.Parameters))
	}
	if sig.Parameters[0].Identifier != "X" || sig.Parameters[1].Identifier != "Y" {
		t.Errorf("parameters out of order: %#v", sig.Parameters)
	}
	if !sig.Parameters[1].ByValue {
		t.Errorf("expected Y to be ByValue")
	}
}

func TestAddFileRejectsDuplicateNameCaseInsensitively(t *testing.T) {
	sig := NewSourceUnitSignature("MAIN", UnitProgram, tok("MAIN"))

	if !sig.AddFile(&FileEntry{Name: tok("CUST-FILE")}) {
		t.Fatalf("first SELECT registration should succeed")
	}
	if sig.AddFile(&FileEntry{Name: tok("cust-file")}) {
		t.Errorf("expected duplicate SELECT to be rejected regardless of case")
	}
}

func TestUnitKindStringNames(t *testing.T) {
	cases := map[UnitKind]string{
		UnitProgram:   "Program",
		UnitClass:     "Class",
		UnitInterface: "Interface",
		UnitMethod:    "Method",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("UnitKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

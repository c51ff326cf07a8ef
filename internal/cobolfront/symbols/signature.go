package symbols

import "github.com/cobolfront/cobolfront/internal/cobolfront/token"

// UnitKind enumerates every kind of compilable entity spec.md's grammar
// recognizes, including the object-oriented variants.
type UnitKind int

const (
	UnitProgram UnitKind = iota
	UnitProgramPrototype
	UnitFunction
	UnitFunctionPrototype
	UnitClass
	UnitInterface
	UnitFactory
	UnitObject
	UnitMethod
	UnitMethodPrototype
	UnitMethodGetter
	UnitMethodSetter
)

func (k UnitKind) String() string {
	switch k {
	case UnitProgram:
		return "Program"
	case UnitProgramPrototype:
		return "ProgramPrototype"
	case UnitFunction:
		return "Function"
	case UnitFunctionPrototype:
		return "FunctionPrototype"
	case UnitClass:
		return "Class"
	case UnitInterface:
		return "Interface"
	case UnitFactory:
		return "Factory"
	case UnitObject:
		return "Object"
	case UnitMethod:
		return "Method"
	case UnitMethodPrototype:
		return "MethodPrototype"
	case UnitMethodGetter:
		return "MethodGetter"
	case UnitMethodSetter:
		return "MethodSetter"
	default:
		return "Unknown"
	}
}

// IsPrototype reports whether a unit of this kind must contain no
// statements, sections, or paragraphs (spec.md §4.6).
func (k UnitKind) IsPrototype() bool {
	return k == UnitProgramPrototype || k == UnitFunctionPrototype || k == UnitMethodPrototype
}

// Parameter is one entry of a PROCEDURE DIVISION USING clause.
type Parameter struct {
	Identifier string
	ByValue    bool // false means by-reference, the COBOL default
	Optional   bool
}

// FileEntry is one FILE-CONTROL SELECT registration.
type FileEntry struct {
	Name      token.Token
	AssignTo  string
	ClauseRaw map[string]int // clause keyword -> token index, for lazy re-scan
}

// Flags bundles the IDENTIFICATION-paragraph modifiers that are mutually
// exclusive in various combinations (spec.md §4.6).
type Flags struct {
	Common    bool
	Initial   bool
	Recursive bool
	Final     bool
	Prototype bool
}

// SourceUnitSignature is the registered shape of one source unit: a
// program, function, class, interface, factory, object, or method.
type SourceUnitSignature struct {
	Name        string
	Kind        UnitKind
	ExternalAs  string
	Parameters  []Parameter
	Returning   string
	Flags       Flags
	Inherits    []string
	Using       []string
	Files       map[string]*FileEntry
	Declaration token.Token
}

// NewSourceUnitSignature builds a signature for name/kind, identified by
// the token that introduced it (the -ID paragraph's identifier token).
func NewSourceUnitSignature(name string, kind UnitKind, decl token.Token) *SourceUnitSignature {
	return &SourceUnitSignature{
		Name:        name,
		Kind:        kind,
		Files:       make(map[string]*FileEntry),
		Declaration: decl,
	}
}

// AddParameter appends a USING parameter to the signature.
func (s *SourceUnitSignature) AddParameter(p Parameter) {
	s.Parameters = append(s.Parameters, p)
}

// AddFile registers a FILE-CONTROL SELECT entry, returning false if the
// name is already registered for this unit (a duplicate SELECT inside one
// unit is an error per spec.md §4.6).
func (s *SourceUnitSignature) AddFile(f *FileEntry) bool {
	key := foldKey(f.Name.Lexeme)
	if _, exists := s.Files[key]; exists {
		return false
	}
	s.Files[key] = f
	return true
}

package symbols

import (
	"fmt"
	"strings"

	"github.com/cobolfront/cobolfront/internal/cobolfront/token"
)

func foldKey(name string) string { return strings.ToUpper(name) }

// Reference is one occurrence of a local (unqualified) name; COBOL
// permits the same simple name to appear more than once across different
// source units, disambiguated later via qualification (OF).
type Reference struct {
	Token token.Token
	Unit  string // declared (unqualified) name of the owning unit at the time of reference
}

// SymbolTable is the compile-time symbol registry: Globals holds one
// signature per fully-qualified unit name (method names are qualified as
// "unit->method"); Locals holds, per simple name, the ordered list of
// every reference seen so a later resolution pass can disambiguate.
type SymbolTable struct {
	globals map[string]*SourceUnitSignature
	locals  map[string][]Reference
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		globals: make(map[string]*SourceUnitSignature),
		locals:  make(map[string][]Reference),
	}
}

// QualifyMethod builds the "unit->method" fully-qualified name a method
// signature is registered under.
func QualifyMethod(unit, method string) string {
	return unit + "->" + method
}

// AddGlobal registers sig under name, enforcing uniqueness: a duplicate
// registration returns false rather than silently overwriting (spec.md
// §3 invariant, §8 property 6).
func (t *SymbolTable) AddGlobal(name string, sig *SourceUnitSignature) bool {
	key := foldKey(name)
	if _, exists := t.globals[key]; exists {
		return false
	}
	t.globals[key] = sig
	return true
}

// GlobalExists reports whether name is already registered.
func (t *SymbolTable) GlobalExists(name string) bool {
	_, ok := t.globals[foldKey(name)]
	return ok
}

// Global fetches the signature registered under name.
func (t *SymbolTable) Global(name string) (*SourceUnitSignature, bool) {
	sig, ok := t.globals[foldKey(name)]
	return sig, ok
}

// Globals returns every registered signature; iteration order is not
// meaningful, callers that need determinism should sort by name.
func (t *SymbolTable) Globals() map[string]*SourceUnitSignature {
	return t.globals
}

// AddLocal appends a reference to name's ordered list. Unlike AddGlobal
// this never fails: COBOL permits the same simple name to recur under
// different qualification.
func (t *SymbolTable) AddLocal(name string, ref Reference) {
	key := foldKey(name)
	t.locals[key] = append(t.locals[key], ref)
}

// LocalExists reports whether any reference has been recorded for name.
func (t *SymbolTable) LocalExists(name string) bool {
	refs, ok := t.locals[foldKey(name)]
	return ok && len(refs) > 0
}

// LocalUnique reports whether exactly one reference has been recorded for
// name — the common case a resolver checks before accepting an
// unqualified reference without disambiguation.
func (t *SymbolTable) LocalUnique(name string) bool {
	return len(t.locals[foldKey(name)]) == 1
}

// FetchFirstLocal returns the first recorded reference for name.
func (t *SymbolTable) FetchFirstLocal(name string) (Reference, bool) {
	refs := t.locals[foldKey(name)]
	if len(refs) == 0 {
		return Reference{}, false
	}
	return refs[0], true
}

// FetchAllLocal returns every recorded reference for name, in the order
// they were added.
func (t *SymbolTable) FetchAllLocal(name string) []Reference {
	return t.locals[foldKey(name)]
}

// ClearLocals discards every local reference, e.g. between compilation
// units in a test harness that reuses one table.
func (t *SymbolTable) ClearLocals() {
	t.locals = make(map[string][]Reference)
}

// DuplicateGlobalError formats the spec.md §7 duplicate-definition
// diagnostic headline for a failed AddGlobal call.
func DuplicateGlobalError(name string) string {
	return fmt.Sprintf("duplicate definition of %q", name)
}

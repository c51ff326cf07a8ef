// Package symbols holds the compile-time symbol table: per-data-item
// signatures (DataEntry), per-source-unit signatures
// (SourceUnitSignature), and the SymbolTable that ties fully-qualified
// names to one or the other.
package symbols

import "github.com/cobolfront/cobolfront/internal/cobolfront/token"

// Section names the DATA DIVISION section (or FILE/REPORT/SCREEN area) a
// DataEntry was declared in.
type Section int

const (
	SectionNone Section = iota
	SectionWorkingStorage
	SectionLocalStorage
	SectionLinkage
	SectionFile
	SectionReport
	SectionScreen
)

func (s Section) String() string {
	switch s {
	case SectionWorkingStorage:
		return "WORKING-STORAGE"
	case SectionLocalStorage:
		return "LOCAL-STORAGE"
	case SectionLinkage:
		return "LINKAGE"
	case SectionFile:
		return "FILE"
	case SectionReport:
		return "REPORT"
	case SectionScreen:
		return "SCREEN"
	default:
		return "NONE"
	}
}

// Usage enumerates the COBOL USAGE variants a data item may declare.
type Usage int

const (
	UsageUnspecified Usage = iota
	UsageDisplay
	UsageBinary
	UsageBinaryChar
	UsageBinaryShort
	UsageBinaryLong
	UsageBinaryDouble
	UsageComp
	UsageComp1
	UsageComp2
	UsageComp3
	UsageComp4
	UsageComp5
	UsagePackedDecimal
	UsageFloatShort
	UsageFloatLong
	UsageFloatExtended
	UsageIndex
	UsagePointer
	UsageDataPointer
	UsageFunctionPointer
	UsageProgramPointer
	UsageObjectReference
	UsageMessageTag
	UsageNational
)

// pictureForbiddenUsages is the USAGE set for which PICTURE is forbidden;
// valueForbiddenUsages below is the stricter subset for which VALUE is
// forbidden too (spec.md §4.6).
var pictureForbiddenUsages = map[Usage]bool{
	UsageIndex: true, UsageMessageTag: true, UsageObjectReference: true,
	UsageDataPointer: true, UsageFunctionPointer: true, UsageProgramPointer: true,
	UsageBinaryChar: true, UsageBinaryShort: true, UsageBinaryLong: true, UsageBinaryDouble: true,
	UsageFloatShort: true, UsageFloatLong: true, UsageFloatExtended: true,
}

var valueForbiddenUsages = map[Usage]bool{
	UsageIndex: true, UsageMessageTag: true, UsageObjectReference: true,
	UsageDataPointer: true, UsageFunctionPointer: true, UsageProgramPointer: true,
}

// ForbidsPicture reports whether a data item with this usage may not
// also carry a PICTURE clause.
func (u Usage) ForbidsPicture() bool { return pictureForbiddenUsages[u] }

// ForbidsValue reports whether a data item with this usage may not also
// carry a VALUE clause.
func (u Usage) ForbidsValue() bool { return valueForbiddenUsages[u] }

// ClauseBit identifies one DATA DIVISION clause in DataEntry's bitset.
// Each clause owns exactly one bit position; the set fits in 64 bits.
type ClauseBit uint

const (
	ClauseRedefines ClauseBit = iota
	ClauseRenames
	ClauseTypedef
	ClauseValue
	ClauseOccurs
	ClausePicture
	ClauseBlank
	ClauseSynchronized
	ClauseJustified
	ClauseGlobal
	ClauseExternal
	ClauseDynamic
	ClauseProperty
	ClauseUsage
	ClauseAligned
	ClauseAnyLength
	ClauseBased
	ClauseGroupUsage
	ClauseConstantRecord
	ClauseSameAs
	ClauseType
	clauseBitCount
)

func (c ClauseBit) mask() uint64 { return 1 << uint(c) }

// ClauseSet is the compact 64-bit bitset of which clauses a DataEntry
// declared.
type ClauseSet uint64

func (s ClauseSet) Has(c ClauseBit) bool { return uint64(s)&c.mask() != 0 }

func (s *ClauseSet) Set(c ClauseBit) { *s |= ClauseSet(c.mask()) }

func (s ClauseSet) Count() int {
	n := 0
	for b := ClauseBit(0); b < clauseBitCount; b++ {
		if s.Has(b) {
			n++
		}
	}
	return n
}

// DataEntry is the symbol-table record for one DATA DIVISION data item.
type DataEntry struct {
	Token        token.Token // identifying token (the data-name)
	ExternalName string      // optional AS "external-name"
	Level        int         // 1, 2-49, 66, 77, 78, 88
	Section      Section
	Usage        Usage
	IsGroup      bool
	IsConstant   bool
	Parent       *DataEntry // weak back-reference; nil for a root 01/77 entry

	Clauses      ClauseSet
	ClauseTokens map[ClauseBit]int // clause -> token index where it opened, for lazy payload re-scan

	PictureText string // raw PICTURE payload, e.g. "9(5)V99", set when ClausePicture is declared
	ValueText   string // raw first VALUE token, set when ClauseValue is declared
	ValueIsNumeric bool
}

// NewDataEntry builds an entry for tok at the given level/section.
func NewDataEntry(tok token.Token, level int, section Section) *DataEntry {
	return &DataEntry{
		Token:        tok,
		Level:        level,
		Section:      section,
		ClauseTokens: make(map[ClauseBit]int),
	}
}

// DeclareClause records that clause c was seen, opening at token index
// openedAt, so the analyzer can re-scan its payload lazily later.
func (e *DataEntry) DeclareClause(c ClauseBit, openedAt int) {
	e.Clauses.Set(c)
	e.ClauseTokens[c] = openedAt
}

// Name returns the data item's declared name.
func (e *DataEntry) Name() string { return e.Token.Lexeme }

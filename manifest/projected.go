package manifest

import (
	"github.com/gear6io/floe/pkg/errors"
)

// ProjectedStruct stores record values positionally while bridging two
// layouts of the same logical schema: the base layout the code is compiled
// against, and the actual layout the data was (or will be) persisted with.
// Fields are matched by stable field ID, never by position, which is what
// lets a newer reader handle older data and vice versa.
//
// Both mappings are resolved once at construction; Get and Set are O(1).
type ProjectedStruct struct {
	baseIDs   []int
	actualIDs []int
	// base position -> actual position, or -1 when the field does not
	// exist in the actual layout
	posMap []int
	// values are stored in actual-layout order, wire-typed
	values []interface{}
}

// NewProjectedStruct builds a projection from the compiled base field-ID
// list onto the actual (on-disk or target) field-ID list.
func NewProjectedStruct(baseIDs, actualIDs []int) *ProjectedStruct {
	actualPos := make(map[int]int, len(actualIDs))
	for i, id := range actualIDs {
		actualPos[id] = i
	}

	posMap := make([]int, len(baseIDs))
	for i, id := range baseIDs {
		if ap, ok := actualPos[id]; ok {
			posMap[i] = ap
		} else {
			posMap[i] = -1
		}
	}

	return &ProjectedStruct{
		baseIDs:   append([]int(nil), baseIDs...),
		actualIDs: append([]int(nil), actualIDs...),
		posMap:    posMap,
		values:    make([]interface{}, len(actualIDs)),
	}
}

// Get returns the value at a base-layout position. A position whose field
// is absent from the actual layout reads as nil; a position outside the
// base layout is a hard failure.
func (p *ProjectedStruct) Get(pos int) (interface{}, error) {
	if pos < 0 || pos >= len(p.posMap) {
		return nil, errors.Newf(ErrUnknownOrdinal, "unknown field ordinal: %d", pos)
	}

	ap := p.posMap[pos]
	if ap < 0 {
		return nil, nil
	}
	return p.values[ap], nil
}

// Set writes the value at a base-layout position. Writes to positions the
// actual layout does not know, including positions beyond the base layout,
// are dropped silently; the data belongs to a schema version the target
// cannot represent.
func (p *ProjectedStruct) Set(pos int, value interface{}) {
	if pos < 0 || pos >= len(p.posMap) {
		return
	}

	ap := p.posMap[pos]
	if ap < 0 {
		return
	}
	p.values[ap] = value
}

// LoadActual fills the store from values given in actual-layout order
func (p *ProjectedStruct) LoadActual(values []interface{}) error {
	if len(values) != len(p.actualIDs) {
		return errors.Newf(ErrFieldCountMismatch, "expected %d positional values, got %d", len(p.actualIDs), len(values))
	}
	copy(p.values, values)
	return nil
}

// ActualValues returns the stored values in actual-layout order. The
// returned slice is a copy; summaries and byte slices inside it still
// alias the store.
func (p *ProjectedStruct) ActualValues() []interface{} {
	return append([]interface{}(nil), p.values...)
}

// BaseLen returns the number of fields in the base layout
func (p *ProjectedStruct) BaseLen() int {
	return len(p.baseIDs)
}

// ActualLen returns the number of fields in the actual layout
func (p *ProjectedStruct) ActualLen() int {
	return len(p.actualIDs)
}

// Copy duplicates the projection without re-deriving the cached mappings.
// Values are copied shallowly; deep-copy of mutable fields is the caller's
// concern.
func (p *ProjectedStruct) Copy() *ProjectedStruct {
	return &ProjectedStruct{
		baseIDs:   append([]int(nil), p.baseIDs...),
		actualIDs: append([]int(nil), p.actualIDs...),
		posMap:    append([]int(nil), p.posMap...),
		values:    append([]interface{}(nil), p.values...),
	}
}

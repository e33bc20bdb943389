package manifest

import (
	"testing"

	"github.com/gear6io/floe/pkg/errors"
)

func TestProjectionIdentity(t *testing.T) {
	p := NewProjectedStruct(baseFieldIDs, baseFieldIDs)

	p.Set(posPath, "s3://bucket/metadata/m0.avro")
	p.Set(posSpecID, int32(3))

	v, err := p.Get(posPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "s3://bucket/metadata/m0.avro" {
		t.Errorf("unexpected path value: %v", v)
	}

	v, err = p.Get(posSpecID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != int32(3) {
		t.Errorf("unexpected spec id value: %v", v)
	}

	// Unset fields read as nil
	v, err = p.Get(posKeyMetadata)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Errorf("expected nil for unset field, got %v", v)
	}
}

func TestProjectionOntoOlderLayout(t *testing.T) {
	// Actual layout predates first_row_id
	older := baseFieldIDs[:NumFields-1]
	p := NewProjectedStruct(baseFieldIDs, older)

	// Reading a field the older layout lacks is nil, not an error
	v, err := p.Get(posFirstRowID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Errorf("expected nil for absent field, got %v", v)
	}

	// Writing it is dropped silently
	p.Set(posFirstRowID, int64(1000))
	v, _ = p.Get(posFirstRowID)
	if v != nil {
		t.Errorf("expected write to absent field to be dropped, got %v", v)
	}

	// Fields both layouts share still work
	p.Set(posKeyMetadata, []byte{0xde, 0xad})
	v, _ = p.Get(posKeyMetadata)
	if string(v.([]byte)) != string([]byte{0xde, 0xad}) {
		t.Errorf("unexpected key metadata: %v", v)
	}

	if p.ActualLen() != NumFields-1 {
		t.Errorf("expected actual width %d, got %d", NumFields-1, p.ActualLen())
	}
	if p.BaseLen() != NumFields {
		t.Errorf("expected base width %d, got %d", NumFields, p.BaseLen())
	}
}

func TestProjectionMatchesByIDNotPosition(t *testing.T) {
	// Shuffled actual order: matching must go through field IDs
	base := []int{500, 501, 502}
	actual := []int{502, 500}
	p := NewProjectedStruct(base, actual)

	p.Set(0, "path-value") // id 500, actual position 1
	p.Set(2, int32(7))     // id 502, actual position 0

	v, _ := p.Get(0)
	if v != "path-value" {
		t.Errorf("expected id 500 to read back, got %v", v)
	}
	v, _ = p.Get(2)
	if v != int32(7) {
		t.Errorf("expected id 502 to read back, got %v", v)
	}
	// id 501 is absent from actual
	v, _ = p.Get(1)
	if v != nil {
		t.Errorf("expected nil for absent id 501, got %v", v)
	}

	vals := p.ActualValues()
	if vals[0] != int32(7) || vals[1] != "path-value" {
		t.Errorf("actual-order values wrong: %v", vals)
	}
}

func TestProjectionOutOfRange(t *testing.T) {
	p := NewProjectedStruct(baseFieldIDs, baseFieldIDs)

	for _, pos := range []int{-1, NumFields, NumFields + 10} {
		_, err := p.Get(pos)
		if err == nil {
			t.Fatalf("expected error for position %d", pos)
		}
		if !errors.HasCode(err, ErrUnknownOrdinal) {
			t.Errorf("position %d: expected code %s, got %v", pos, ErrUnknownOrdinal, err)
		}
	}

	// Out-of-range writes are dropped, not panics
	p.Set(-1, "x")
	p.Set(NumFields+10, "x")
}

func TestLoadActualWidthMismatch(t *testing.T) {
	p := NewProjectedStruct(baseFieldIDs, baseFieldIDs)

	err := p.LoadActual(make([]interface{}, NumFields-2))
	if err == nil {
		t.Fatal("expected error for short value slice")
	}
	if !errors.HasCode(err, ErrFieldCountMismatch) {
		t.Errorf("expected code %s, got %v", ErrFieldCountMismatch, err)
	}
}

func TestProjectionCopyIndependence(t *testing.T) {
	p := NewProjectedStruct(baseFieldIDs, baseFieldIDs)
	p.Set(posPath, "original")

	cp := p.Copy()
	cp.Set(posPath, "changed")

	v, _ := p.Get(posPath)
	if v != "original" {
		t.Errorf("source mutated through copy: %v", v)
	}
	v, _ = cp.Get(posPath)
	if v != "changed" {
		t.Errorf("copy did not take the write: %v", v)
	}
}

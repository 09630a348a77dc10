package sparse

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestMatrixSetValue(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	M := NewIntMatrix(10, 10, DefaultNullValue)
	M.Set(2, 3, 4711)
	M.Set(0, 9, 1)
	M.Set(2, 1, 7)
	M.Set(9, 0, 9)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("expected M(2,3) = 4711, is %d", v)
	}
	if v := M.Value(3, 2); v != M.NullValue() {
		t.Errorf("expected M(3,2) to be empty, is %d", v)
	}
	M.Set(2, 3, 42)
	if M.ValueCount() != 4 {
		t.Errorf("expected 4 values, have %d", M.ValueCount())
	}
	if v := M.Value(2, 3); v != 42 {
		t.Errorf("expected M(2,3) to be overwritten with 42, is %d", v)
	}
}

func TestMatrixRowMajorOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	M := NewIntMatrix(5, 5, -1)
	M.Set(4, 4, 1).Set(0, 0, 2).Set(2, 2, 3).Set(2, 0, 4)
	var last Triplet
	first := true
	M.Each(func(i, j int, v int32) {
		if !first && (i < last.Row || i == last.Row && j < last.Col) {
			t.Errorf("triplets out of order: %v before (%d,%d)", last, i, j)
		}
		last = Triplet{Row: i, Col: j, Value: v}
		first = false
	})
	if len(M.Triplets()) != 4 {
		t.Errorf("expected 4 triplets, have %d", len(M.Triplets()))
	}
}

func TestMatrixOutOfRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected Set out of range to panic")
		}
	}()
	NewIntMatrix(2, 2, -1).Set(2, 0, 1)
}

package iteratable

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestSetAddContains(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	S := NewSet(0)
	S.Add(1, 2, 3, 2)
	if S.Size() != 3 {
		t.Errorf("expected set of size 3, is %d", S.Size())
	}
	if !S.Contains(2) || S.Contains(4) {
		t.Errorf("set membership broken for %v", S.Values())
	}
	if S.First() != 1 {
		t.Errorf("expected insertion order to be kept, first is %v", S.First())
	}
}

func TestSetOperations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	A := NewSet(0).Add("a", "b", "c")
	B := NewSet(0).Add("b", "d")
	U := A.Copy().Union(B)
	if U.Size() != 4 {
		t.Errorf("expected union of size 4, is %v", U.Values())
	}
	D := A.Copy().Difference(B)
	if D.Size() != 2 || D.Contains("b") {
		t.Errorf("expected difference {a c}, is %v", D.Values())
	}
	I := A.Copy().Intersection(B)
	if I.Size() != 1 || !I.Contains("b") {
		t.Errorf("expected intersection {b}, is %v", I.Values())
	}
	if A.Size() != 3 {
		t.Errorf("copies should protect the original, A is %v", A.Values())
	}
	if !NewSet(0).Add("c", "a", "b").Equals(A) {
		t.Errorf("expected sets to be equal irrespective of order")
	}
	A.Remove("a")
	if A.Contains("a") || A.First() != "b" {
		t.Errorf("remove broken: %v", A.Values())
	}
}

func TestSetIterationWhileGrowing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	S := NewSet(0).Add(1)
	S.IterateOnce()
	visited := 0
	for S.Next() {
		x := S.Item().(int)
		visited++
		if x < 5 {
			S.Add(x + 1)
		}
	}
	if visited != 5 {
		t.Errorf("expected elements added during iteration to be visited, visited %d", visited)
	}
}

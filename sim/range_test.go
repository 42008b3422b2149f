package sim

import "testing"

func TestSingleRange1(t *testing.T) {
	r := Single{ID: 3}
	if !r.InRange(3) {
		t.Error("expected ID 3 in range")
	}
	if r.InRange(4) {
		t.Error("expected ID 4 out of range")
	}
}

func TestListRange1(t *testing.T) {
	r := NewListRange1([]int{1, 2, 5})
	for _, id := range []int{1, 2, 5} {
		if !r.InRange(id) {
			t.Errorf("expected %d in range", id)
		}
	}
	if r.InRange(3) {
		t.Error("expected 3 out of range")
	}
}

func TestInterval(t *testing.T) {
	r := Interval{Start: 2, End: 5}
	if r.InRange(1) || r.InRange(6) {
		t.Error("boundary miss")
	}
	if !r.InRange(2) || !r.InRange(5) {
		t.Error("boundary hit")
	}
}

func TestPairList(t *testing.T) {
	r := NewPairList([][2]int{{1, 2}, {3, 4}})
	if !r.InRange(1, 2) || !r.InRange(2, 1) {
		t.Error("expected order-independent match")
	}
	if r.InRange(1, 3) {
		t.Error("unexpected match")
	}
}

// TestIntraChains reproduces the worked example: Range1ID=0, Range2ID=9,
// Interval=5 -- (2,4) in range, (4,5) and (3,5) not, (5,9) in range.
func TestIntraChains(t *testing.T) {
	c := IntraChains{Range1ID: 0, Range2ID: 9, Interval: 5}

	cases := []struct {
		a, b int
		want bool
	}{
		{2, 4, true},
		{4, 5, false},
		{5, 9, true},
		{3, 5, false},
		{10, 2, false}, // out of [Range1ID, Range2ID]
	}
	for _, c2 := range cases {
		if got := c.InRange(c2.a, c2.b); got != c2.want {
			t.Errorf("InRange(%d,%d) = %v, want %v", c2.a, c2.b, got, c2.want)
		}
	}
}

func TestAllAndNoneRanges(t *testing.T) {
	if !(AllRange1{}).InRange(42) {
		t.Error("AllRange1 must select everything")
	}
	if (NoneRange1{}).InRange(42) {
		t.Error("NoneRange1 must select nothing")
	}
	if !(AllPairs{}).InRange(1, 2) {
		t.Error("AllPairs must select everything")
	}
	if (NonePairs{}).InRange(1, 2) {
		t.Error("NonePairs must select nothing")
	}
}

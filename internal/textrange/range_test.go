package textrange

import "testing"

func TestNewClampsNegatives(t *testing.T) {
	r := New(-3, -1)
	if r.Index != 0 || r.Length != 0 {
		t.Errorf("New(-3, -1) = %v, want Range(0+0)", r)
	}
}

func TestRangeEnd(t *testing.T) {
	r := New(4, 6)
	if r.End() != 10 {
		t.Errorf("End() = %d, want 10", r.End())
	}
	if r.Collapsed() {
		t.Error("range with length should not be collapsed")
	}
	if !New(4, 0).Collapsed() {
		t.Error("zero-length range should be collapsed")
	}
}

func TestEqual(t *testing.T) {
	a := &Range{Index: 1, Length: 2}
	b := &Range{Index: 1, Length: 2}
	c := &Range{Index: 1, Length: 3}

	tests := []struct {
		name string
		x, y *Range
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil and value", nil, a, false},
		{"value and nil", a, nil, false},
		{"same values", a, b, true},
		{"different length", a, c, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.x, tt.y); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClone(t *testing.T) {
	var nilRange *Range
	if nilRange.Clone() != nil {
		t.Error("clone of nil should be nil")
	}

	r := &Range{Index: 2, Length: 5}
	c := r.Clone()
	c.Index = 9
	if r.Index != 2 {
		t.Error("clone should not alias the original")
	}
}

func TestString(t *testing.T) {
	if got := New(3, 4).String(); got != "Range(3+4)" {
		t.Errorf("String() = %q", got)
	}
}

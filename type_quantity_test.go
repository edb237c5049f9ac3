package sharestax

import "testing"

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want Quantity
	}{
		{"15", Q(15)},
		{"-10", Q(-10)},
		{"0.5", Q(0.5)},
		{"1,500", Q(1500)},
		{"12,345.25", Q(12345.25)},
	}
	for _, c := range cases {
		got, err := ParseQuantity(c.in)
		if err != nil {
			t.Errorf("ParseQuantity(%q) error: %v", c.in, err)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("ParseQuantity(%q) = %s, want %s", c.in, got, c.want)
		}
	}
	if _, err := ParseQuantity("ten"); err == nil {
		t.Error("ParseQuantity(\"ten\") = nil error, want parse failure")
	}
}

func TestQuantityArithmetic(t *testing.T) {
	if got := Q(15).Sub(Q(10)); !got.Equal(Q(5)) {
		t.Errorf("15-10 = %s, want 5", got)
	}
	if got := Q(-10).Abs(); !got.Equal(Q(10)) {
		t.Errorf("abs(-10) = %s, want 10", got)
	}
	if got := Min(Q(15), Q(10)); !got.Equal(Q(10)) {
		t.Errorf("Min(15, 10) = %s, want 10", got)
	}
	if got := Min(Q(3), Q(7)); !got.Equal(Q(3)) {
		t.Errorf("Min(3, 7) = %s, want 3", got)
	}
	// Exact decimal arithmetic, no float drift.
	if got := Q(0.1).Add(Q(0.2)); !got.Equal(Q(0.3)) {
		t.Errorf("0.1+0.2 = %s, want 0.3", got)
	}
}

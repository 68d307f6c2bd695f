package loader

import "testing"

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"integer gains .0", "3", "3.0"},
		{"already float", "3.0", "3.0"},
		{"trailing zeros dropped", "3.000", "3.0"},
		{"exponent form", "3e0", "3.0"},
		{"leading zeros", "007", "7.0"},
		{"fraction", "0.1", "0.1"},
		{"negative", "-12", "-12.0"},
		{"negative zero", "-0", "-0.0"},
		{"small fixed", "0.0001", "0.0001"},
		{"small exponent", "0.00001", "1e-05"},
		{"large fixed", "1000000000000000", "1000000000000000.0"},
		{"large exponent", "10000000000000000", "1e+16"},
		{"large exponent with digits", "12345678901234567890", "1.2345678901234567e+19"},
		{"infinity", "inf", "inf"},
		{"negative infinity", "-Infinity", "-inf"},
		{"nan", "NaN", "nan"},
		{"overflow saturates", "1e400", "inf"},
		{"negative overflow saturates", "-1e400", "-inf"},
		{"underflow to zero", "1e-400", "0.0"},
		{"digit underscores", "1_000", "1000.0"},
		{"underscores in exponent", "1e1_0", "10000000000.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeID(tt.input)
			if err != nil {
				t.Fatalf("NormalizeID(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Distinct textual ids that parse to the same float share one key. This is
// how neuron and spike files are joined, so the merge is kept on purpose.
func TestNormalizeID_MergesEqualValues(t *testing.T) {
	a, _ := NormalizeID("3")
	b, _ := NormalizeID("3.0")
	c, _ := NormalizeID("30e-1")
	if a != b || b != c {
		t.Errorf("expected one key, got %q %q %q", a, b, c)
	}

	// Ids that differ only beyond float64 precision merge as well.
	d, _ := NormalizeID("9007199254740993")
	e, _ := NormalizeID("9007199254740992")
	if d != e {
		t.Errorf("expected precision merge, got %q and %q", d, e)
	}
}

func TestNormalizeID_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "3,0", "0x", "0x1p4", "-0X10", "1__0", "_1", "1_", "1_.5"} {
		if _, err := NormalizeID(in); err == nil {
			t.Errorf("NormalizeID(%q) expected error", in)
		}
	}
}

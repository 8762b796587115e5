package isbn

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "hyphenated with quote artifact",
			in:   "978-0-13-468599'9",
			want: "9780134685999",
		},
		{
			name: "leading apostrophe from sheet cell",
			in:   "'9780134685999",
			want: "9780134685999",
		},
		{
			name: "already normalized",
			in:   "9780134685999",
			want: "9780134685999",
		},
		{
			name: "whitespace and hyphens",
			in:   " 978 0 13 468599 9 ",
			want: "9780134685999",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "no digits at all",
			in:   "n/a",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"978-0-13-468599'9", "'12345", "", "abc", "0-306-40615-2"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"9780134685991", true},
		{"978-0-13-468599-1", true},
		{"0306406152", true},
		{"9780134685999", false},
		{"12345", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := Valid(tt.in); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

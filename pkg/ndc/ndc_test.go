package ndc

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"already canonical", "00093-0058-01", "00093-0058-01"},
		{"bare digits", "00093005801", "00093-0058-01"},
		{"dotted separators", "00093.0058.01", "00093-0058-01"},
		{"spaces and hyphens", " 00093-0058 01 ", "00093-0058-01"},
		{"too few digits", "0093005801", ""},
		{"too many digits", "000930058011", ""},
		{"letters mixed in", "0009300580a", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsValidFormat(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"00093-0058-01", true},
		{"12345-6789-00", true},
		{"00093005801", false},
		{"0009-30058-01", false},
		{"00093-0058-0a", false},
		{"00093-0058-011", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidFormat(tt.s); got != tt.want {
			t.Errorf("IsValidFormat(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

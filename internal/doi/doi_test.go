package doi

import "testing"

func TestCanonical(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"plain doi", "10.1000/xyz123", "10.1000/xyz123"},
		{"uppercase", "10.1000/XYZ123", "10.1000/xyz123"},
		{"surrounding whitespace", "  10.1000/xyz123\n", "10.1000/xyz123"},
		{"https doi.org", "https://doi.org/10.1000/xyz123", "10.1000/xyz123"},
		{"http doi.org", "http://doi.org/10.1000/xyz123", "10.1000/xyz123"},
		{"https dx.doi.org", "https://dx.doi.org/10.1000/xyz123", "10.1000/xyz123"},
		{"http dx.doi.org", "http://dx.doi.org/10.1000/xyz123", "10.1000/xyz123"},
		{"doi scheme", "doi:10.1000/xyz123", "10.1000/xyz123"},
		{"uppercase doi scheme", "DOI:10.1000/xyz123", "10.1000/xyz123"},
		{"uppercase url prefix", "HTTPS://DOI.ORG/10.1000/xyz123", "10.1000/xyz123"},
		{"no slash is not a doi", "10.1000", ""},
		{"prefix but no slash after", "https://doi.org/nonsense", ""},
		{"remainder casing preserved then lowered", "doi:10.1000/MixedCase", "10.1000/mixedcase"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Canonical(tt.raw); got != tt.want {
				t.Errorf("Canonical(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCanonicalIdempotent(t *testing.T) {
	inputs := []string{
		"https://doi.org/10.1000/xyz123",
		"doi:10.1000/XYZ",
		"10.1000/already.canonical",
		"not a doi",
		"",
	}
	for _, in := range inputs {
		once := Canonical(in)
		twice := Canonical(once)
		if once != twice {
			t.Errorf("Canonical not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("10.1/abc") {
		t.Error("IsValid(10.1/abc) = false, want true")
	}
	if IsValid("no-separator") {
		t.Error("IsValid(no-separator) = true, want false")
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		canonical string
		want      string
	}{
		{"10.1000/xyz123", "10.1000_xyz123"},
		{"10.1000/a/b:c", "10.1000_a_b_c"},
	}
	for _, tt := range tests {
		if got := Filename(tt.canonical); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.canonical, got, tt.want)
		}
	}
}

package octfield

import "testing"

func TestValidCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"", true},
		{"tlf", true},
		{"tlfbrbtbr", true},
		{"tl", false},
		{"xyz", false},
		{"tlfxyz", false},
	}
	for _, tc := range tests {
		if got := ValidCode(tc.code); got != tc.want {
			t.Errorf("ValidCode(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestSymbols(t *testing.T) {
	got := Symbols("tlfbrbtbr")
	want := []string{"tlf", "brb", "tbr"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("symbol %d = %q, want %q", i, got[i], want[i])
		}
	}
	if Depth("tlfbrbtbr") != 3 {
		t.Error("depth of three symbols should be 3")
	}
}

func TestAllCodes(t *testing.T) {
	codes := allCodes(2)
	if len(codes) != 64 {
		t.Fatalf("len = %d, want 64", len(codes))
	}
	seen := make(map[string]bool)
	for _, c := range codes {
		if !ValidCode(c) || Depth(c) != 2 {
			t.Fatalf("bad code %q", c)
		}
		if seen[c] {
			t.Fatalf("duplicate code %q", c)
		}
		seen[c] = true
	}
	if allCodes(0) != nil {
		t.Error("depth 0 should produce no codes")
	}
}

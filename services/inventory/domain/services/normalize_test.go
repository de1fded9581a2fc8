package services

import "testing"

func ptr(s string) *string { return &s }

func TestNormalizeOptional(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want *string
	}{
		{"nil", nil, nil},
		{"empty", ptr(""), nil},
		{"whitespace", ptr(" \t\n "), nil},
		{"trimmed", ptr("  Shelf A "), ptr("Shelf A")},
		{"inner whitespace kept", ptr("Shelf  A"), ptr("Shelf  A")},
		{"dash kept", ptr("-"), ptr("-")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeOptional(tt.in)
			switch {
			case tt.want == nil && got != nil:
				t.Fatalf("expected nil, got %q", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Fatalf("expected %q, got %v", *tt.want, got)
			}
		})
	}
}

func TestNormalizeOptional_DoesNotAliasInput(t *testing.T) {
	in := "  garage  "
	got := NormalizeOptional(&in)
	*got = "changed"
	if in != "  garage  " {
		t.Fatal("input was modified")
	}
}

func TestNormalizeSelection(t *testing.T) {
	if got := NormalizeSelection(ptr(" - ")); got != nil {
		t.Fatalf("placeholder must normalize to nil, got %q", *got)
	}
	if got := NormalizeSelection(ptr(" abc ")); got == nil || *got != "abc" {
		t.Fatalf("expected %q, got %v", "abc", got)
	}
}

func TestStripControl(t *testing.T) {
	tests := map[string]string{
		"plain":            "plain",
		"bell\a":           "bell ",
		"a\x00b\x1bc":      "a b c",
		"keeps\nlines\r\n": "keeps\nlines\r\n",
		"tab\tstays":       "tab\tstays",
		"del\x7f":          "del ",
	}
	for in, want := range tests {
		if got := StripControl(in); got != want {
			t.Errorf("StripControl(%q) = %q, want %q", in, got, want)
		}
	}
}

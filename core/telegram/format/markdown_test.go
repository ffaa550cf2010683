package format

import "testing"

func TestEscapeMarkdown(t *testing.T) {
	cases := []struct {
		in      string
		version int
		want    string
	}{
		{"plain", MarkdownV1, "plain"},
		{"a_b*c", MarkdownV1, `a\_b\*c`},
		{"code `x`", MarkdownV1, "code \\`x\\`"},
		{"+7 (912) 345-67-89", MarkdownV1, "+7 (912) 345-67-89"},
		{"a_b.c!", MarkdownV2, `a\_b\.c\!`},
		{"(x)", MarkdownV2, `\(x\)`},
	}
	for _, tc := range cases {
		got, err := EscapeMarkdown(tc.in, tc.version, "")
		if err != nil {
			t.Fatalf("EscapeMarkdown(%q, v%d): %v", tc.in, tc.version, err)
		}
		if got != tc.want {
			t.Errorf("EscapeMarkdown(%q, v%d) = %q, want %q", tc.in, tc.version, got, tc.want)
		}
	}

	if _, err := EscapeMarkdown("x", 3, ""); err == nil {
		t.Error("unsupported version accepted")
	}
}

package domain

import "testing"

func TestParseAction(t *testing.T) {
	cases := []struct {
		payload string
		want    Action
		ok      bool
	}{
		{"sell", ActionSell, true},
		{"buy", ActionBuy, true},
		{"bay", ActionBuy, true},
		{"", ActionUnknown, false},
		{"Sell", ActionUnknown, false},
		{"rent", ActionUnknown, false},
	}
	for _, tc := range cases {
		got, ok := ParseAction(tc.payload)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseAction(%q) = %v/%v, want %v/%v", tc.payload, got, ok, tc.want, tc.ok)
		}
	}
}

func TestActionString(t *testing.T) {
	if ActionSell.String() != "sell" || ActionBuy.String() != "buy" || ActionUnknown.String() != "unknown" {
		t.Error("action names drifted from wire payloads")
	}
}

func TestMediaKindString(t *testing.T) {
	cases := map[MediaKind]string{
		MediaPhoto:    "photo",
		MediaVideo:    "video",
		MediaDocument: "document",
		MediaKind(0):  "unknown",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("MediaKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

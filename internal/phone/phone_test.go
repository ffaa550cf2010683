package phone

import "testing"

func TestValid(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"+79123456789", true},
		{"79123456789", true},
		{"89123456789", true},
		{"9123456789", true},
		{"+7 912 345 67 89", true},
		{"8 (912) 345-67-89", true},
		{"7-912-345-67-89", true},
		{"  +7 912 345 67 89  ", true},
		{"+7 (495) 123 45 67", true},

		{"", false},
		{"abc", false},
		{"+7 912 345 67 8", false},
		{"+7 912 345 67 891", false},
		{"12345", false},
		{"+7 912 34a 67 89", false},
		{"+1 912 345 67 89", false},
		{"+7 112 345 67 89", false},
		{"телефон", false},
		{"8912345678 9", false},
	}

	for _, tc := range cases {
		if got := Valid(tc.in); got != tc.want {
			t.Errorf("Valid(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

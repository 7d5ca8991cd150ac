package logger

import "testing"

func TestMaskSecret(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"a", "***"},
		{"correct horse battery staple", "***"},
	}

	for _, tc := range cases {
		if got := MaskSecret(tc.in); got != tc.want {
			t.Fatalf("MaskSecret(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskSeed(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"a", "***"},
		{"ab", "***"},
		{"alice@example.com", "al***"},
	}

	for _, tc := range cases {
		if got := MaskSeed(tc.in); got != tc.want {
			t.Fatalf("MaskSeed(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskIP(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"192.0.2.17", "192.0.2.x"},
		{"2001:db8::1", "2001:db8::x"},
		{"localhost", "***"},
	}

	for _, tc := range cases {
		if got := MaskIP(tc.in); got != tc.want {
			t.Fatalf("MaskIP(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

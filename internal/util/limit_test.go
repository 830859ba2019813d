package util

import "testing"

func TestSanitizeLimit(t *testing.T) {
	cases := map[int]int{-1: 50, 0: 50, 1: 1, 200: 200, 500: 200}
	for in, want := range cases {
		if got := SanitizeLimit(in); got != want {
			t.Errorf("SanitizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

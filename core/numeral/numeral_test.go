package numeral

import "testing"

func TestParseChapter(t *testing.T) {
	tests := []struct {
		token  string
		want   int
		wantOK bool
	}{
		{"XIII", 13, true},
		{"viii", 8, true},
		{"CL", 150, true},
		{"ABC", 0, false},
		{"", 0, false},
		{"IV", 4, true},
		{"ix", 9, true},
		{"XlIx", 49, true},
		{"MCMXCIV", 1994, true},
		{"1", 1, true},
		{"150", 150, true},
		{"007", 7, true},
		{"12a", 0, false},
		{"99999999999999999999999", 0, false},
		{"I V", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseChapter(tt.token)
			if ok != tt.wantOK {
				t.Fatalf("ParseChapter(%q) ok = %v, want %v", tt.token, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseChapter(%q) = %d, want %d", tt.token, got, tt.want)
			}
		})
	}
}

func TestRomanRoundTrip(t *testing.T) {
	for n := 1; n <= 3999; n++ {
		s, ok := ToRoman(n)
		if !ok {
			t.Fatalf("ToRoman(%d) failed", n)
		}
		got, ok := ParseChapter(s)
		if !ok || got != n {
			t.Fatalf("ParseChapter(ToRoman(%d) = %q) = %d, %v", n, s, got, ok)
		}
	}
}

func TestToRomanBounds(t *testing.T) {
	for _, n := range []int{0, -1, 4000} {
		if s, ok := ToRoman(n); ok {
			t.Errorf("ToRoman(%d) = %q, want failure", n, s)
		}
	}
	if s, _ := ToRoman(3999); s != "MMMCMXCIX" {
		t.Errorf("ToRoman(3999) = %q", s)
	}
}

func TestIsRoman(t *testing.T) {
	tests := map[string]bool{
		"xiv": true,
		"MDC": true,
		"":    false,
		"12":  false,
		"Job": false,
	}
	for token, want := range tests {
		if got := IsRoman(token); got != want {
			t.Errorf("IsRoman(%q) = %v, want %v", token, got, want)
		}
	}
}

package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"plain", "  cupón 123 ", 0, "cupón 123"},
		{"markup stripped", "<b>VISA</b>", 0, "VISA"},
		{"capped", "abcdefgh", 5, "abcde"},
		{"multibyte cap", "ñandú", 3, "ñan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.in, tt.max); got != tt.want {
				t.Errorf("Text(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestLast4(t *testing.T) {
	if got := Last4("123456"); got != "1234" {
		t.Errorf("Last4 = %q", got)
	}
}

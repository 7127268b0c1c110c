package textutil

import "testing"

func TestMaskTokens(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hello", "h•••o"},
		{"hi", "h•"},
		{"a", "a•"},
		{"hello world", "h•••o w•••d"},
	}
	for _, c := range cases {
		got := Mask(c.in)
		if got != c.want {
			t.Errorf("Mask(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMaskWordMatches(t *testing.T) {
	out, matched := MaskWordMatches("my password is secret123", []string{"password"})
	if !matched {
		t.Fatalf("expected a match")
	}
	if out == "my password is secret123" {
		t.Errorf("expected the matched word to be masked, got unchanged string")
	}
}

func TestHasMaskWordMatchCaseInsensitive(t *testing.T) {
	if !HasMaskWordMatch("My SECRET token", []string{"secret"}) {
		t.Errorf("expected case-insensitive match")
	}
	if HasMaskWordMatch("nothing here", []string{"secret"}) {
		t.Errorf("expected no match")
	}
}

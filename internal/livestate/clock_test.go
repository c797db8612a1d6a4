package livestate

import "testing"

func TestActiveSideNeverTicksWhenHalted(t *testing.T) {
	cases := []struct {
		name    string
		running bool
		paused  bool
		result  string
	}{
		{"not running", false, false, ""},
		{"paused", true, true, ""},
		{"finished", true, false, "1-0"},
		{"paused and finished", true, true, "0-1"},
	}
	for _, c := range cases {
		if got := ActiveSide(c.running, c.paused, c.result, startFEN); got != SideNone {
			t.Fatalf("%s: expected no active side, got %q", c.name, got)
		}
	}
}

func TestActiveSideFollowsTurnIndicator(t *testing.T) {
	if got := ActiveSide(true, false, "", startFEN); got != SideWhite {
		t.Fatalf("expected white to tick, got %q", got)
	}
	if got := ActiveSide(true, false, "", fenAfterE4); got != SideBlack {
		t.Fatalf("expected black to tick, got %q", got)
	}
}

func TestActiveSideUnparseableFEN(t *testing.T) {
	if got := ActiveSide(true, false, "", "garbage"); got != SideNone {
		t.Fatalf("expected no side for bad fen, got %q", got)
	}
}

package livestate

import (
	"errors"
	"testing"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestReplayMoveProducesSAN(t *testing.T) {
	res, err := replayMove(startFEN, "e2e4")
	if err != nil {
		t.Fatalf("replayMove: %v", err)
	}
	if res.SAN != "e4" {
		t.Fatalf("expected SAN e4, got %q", res.SAN)
	}
	if res.NewFEN == startFEN || res.NewFEN == "" {
		t.Fatalf("cursor did not advance: %q", res.NewFEN)
	}

	// Continue from the advanced cursor.
	res2, err := replayMove(res.NewFEN, "e7e5")
	if err != nil {
		t.Fatalf("replayMove second: %v", err)
	}
	if res2.SAN != "e5" {
		t.Fatalf("expected SAN e5, got %q", res2.SAN)
	}
}

func TestReplayMovePromotion(t *testing.T) {
	fen := "8/P7/8/8/7k/8/8/6K1 w - - 0 1"
	res, err := replayMove(fen, "a7a8q")
	if err != nil {
		t.Fatalf("replayMove promotion: %v", err)
	}
	if res.SAN != "a8=Q" {
		t.Fatalf("expected SAN a8=Q, got %q", res.SAN)
	}
}

func TestReplayMoveIllegalIsDesync(t *testing.T) {
	for _, tok := range []string{"e2e5", "e7e5", "0000", "zz99", ""} {
		if _, err := replayMove(startFEN, tok); !errors.Is(err, ErrDesync) {
			t.Fatalf("token %q: expected ErrDesync, got %v", tok, err)
		}
	}
}

func TestReplayMoveBadCursorIsDesync(t *testing.T) {
	if _, err := replayMove("not a fen", "e2e4"); !errors.Is(err, ErrDesync) {
		t.Fatalf("expected ErrDesync for bad cursor, got %v", err)
	}
}

func TestMoveSquares(t *testing.T) {
	from, to := moveSquares("e2e4")
	if from != "e2" || to != "e4" {
		t.Fatalf("unexpected squares: %s %s", from, to)
	}
	from, to = moveSquares("a7a8q")
	if from != "a7" || to != "a8" {
		t.Fatalf("unexpected promotion squares: %s %s", from, to)
	}
	if from, to = moveSquares("0000"); from != "" || to != "" {
		t.Fatalf("null move should yield empty squares, got %s %s", from, to)
	}
}

package livestate

import (
	"errors"
	"strings"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/arena-sync/internal/event"
)

// ErrDesync reports that a coordinate move could not be replayed against
// the local cursor. It is recoverable: the caller re-seeds the cursor
// from the event's authoritative FEN and moves on.
var ErrDesync = errors.New("replay desync")

type replayResult struct {
	SAN    string
	NewFEN string
}

// replayMove validates token against the position in cursorFEN and
// returns the SAN name plus the advanced position. The event's own FEN
// is deliberately not used here: SAN encoding needs the position before
// the move, which only the local cursor holds.
func replayMove(cursorFEN, token string) (replayResult, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if !event.IsMoveToken(token) {
		return replayResult{}, ErrDesync
	}

	option, err := nchess.FEN(cursorFEN)
	if err != nil {
		return replayResult{}, ErrDesync
	}
	game := nchess.NewGame(option)
	pos := game.Position()

	mv, err := nchess.UCINotation{}.Decode(pos, token)
	if err != nil {
		// Illegal per the local cursor: missed or reordered deliveries.
		return replayResult{}, ErrDesync
	}
	san := nchess.AlgebraicNotation{}.Encode(pos, mv)
	if err := game.Move(mv, nil); err != nil {
		return replayResult{}, ErrDesync
	}
	return replayResult{SAN: san, NewFEN: game.FEN()}, nil
}

// moveSquares splits a coordinate token into its from/to squares. Works
// on the raw token so highlighting survives desync; returns empty
// strings for anything that is not a move token.
func moveSquares(token string) (from, to string) {
	token = strings.ToLower(strings.TrimSpace(token))
	if !event.IsMoveToken(token) {
		return "", ""
	}
	return token[0:2], token[2:4]
}

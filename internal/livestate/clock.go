package livestate

import (
	nchess "github.com/corentings/chess/v2"
)

// ActiveSide derives which clock face should animate as ticking. It
// governs presentation only; the clock values themselves are always the
// backend's. A paused, stopped or finished game never shows motion.
func ActiveSide(matchRunning, paused bool, result, fen string) Side {
	if !matchRunning || paused || result != "" {
		return SideNone
	}
	return sideToMove(fen)
}

// sideToMove reads the turn indicator from a FEN via the chess library,
// returning SideNone for unparseable input.
func sideToMove(fen string) Side {
	option, err := nchess.FEN(fen)
	if err != nil {
		return SideNone
	}
	game := nchess.NewGame(option)
	if game.Position().Turn() == nchess.White {
		return SideWhite
	}
	return SideBlack
}

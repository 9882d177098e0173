//go:build !rp2040 && !rp2350

package main

import (
	"github.com/alexpivovarov/microbit-project/platform"
	"github.com/alexpivovarov/microbit-project/services/display"
)

// openScreen returns the framed text screen; host builds have no panel.
func openScreen(board platform.Board) (display.Screen, error) {
	return display.NewConsoleScreen(board.Serial), nil
}

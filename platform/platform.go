// Package platform supplies the board-dependent pieces: the serial
// link to the desktop client, the operator input stream, and the
// accelerometer. Host builds get simulated implementations so the
// whole system runs in a normal process.
package platform

import "io"

// Board bundles the hardware handles a node needs.
type Board struct {
	Serial  io.Writer // line output toward the desktop client
	Console io.Reader // operator command input
}

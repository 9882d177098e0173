//go:build !rp2040 && !rp2350

package platform

import "os"

// Open returns the host board: stdout and stdin stand in for the
// serial link.
func Open() Board {
	return Board{Serial: os.Stdout, Console: os.Stdin}
}

// Package radio defines the narrow surface the services need from a
// packet radio: fire-and-forget send and non-blocking receive. Real
// hardware and the in-process simulator both sit behind Driver.
package radio

// Config holds radio tuning shared by every node on a network.
type Config struct {
	Group  int // channel group; all nodes must match
	Power  int // transmit power, 0..7
	MaxLen int // largest frame the radio will carry
}

func (c Config) WithDefaults() Config {
	if c.Group == 0 {
		c.Group = 42
	}
	if c.Power == 0 {
		c.Power = 7
	}
	if c.MaxLen == 0 {
		c.MaxLen = 251
	}
	return c
}

// Driver is a broadcast packet radio. Send queues one frame for
// transmission; delivery is best effort and unacknowledged at this
// layer. Receive returns the next pending frame without blocking,
// with ok=false when none is waiting.
type Driver interface {
	Send(frame []byte) error
	Receive() (frame []byte, ok bool)
}

// Package sim provides an in-process broadcast channel standing in for
// the packet radio. Every port hears every other port's frames,
// subject to per-port loss injection, which makes multi-node tests and
// the simulator deterministic.
package sim

import (
	"sync"

	"github.com/alexpivovarov/microbit-project/errcode"
	"github.com/alexpivovarov/microbit-project/radio"
)

const ringSize = 64

// Channel is a shared broadcast medium. Safe for concurrent use.
type Channel struct {
	mu         sync.Mutex
	cfg        radio.Config
	ports      []*Port
	transcript [][]byte
}

func NewChannel(cfg radio.Config) *Channel {
	return &Channel{cfg: cfg.WithDefaults()}
}

// NewPort attaches a node to the channel.
func (c *Channel) NewPort() *Port {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := &Port{ch: c}
	c.ports = append(c.ports, p)
	return p
}

// Transcript returns a copy of every frame ever accepted onto the
// channel, in send order, including frames later dropped by loss.
func (c *Channel) Transcript() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.transcript))
	for i, f := range c.transcript {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

func (c *Channel) broadcast(from *Port, frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(frame) > c.cfg.MaxLen {
		return &errcode.E{C: errcode.MessageTooLong, Op: "sim.Send"}
	}
	cp := append([]byte(nil), frame...)
	c.transcript = append(c.transcript, cp)
	for _, p := range c.ports {
		if p == from {
			continue
		}
		p.push(cp)
	}
	return nil
}

// Port is one node's attachment to the channel. Received frames sit in
// a fixed ring; when it fills the oldest frame is overwritten, the way
// a real radio's buffer drops under backpressure.
type Port struct {
	ch *Channel

	mu    sync.Mutex
	ring  [ringSize][]byte
	head  int
	count int

	lose func(frame []byte) bool
}

// SetLoss installs a predicate deciding whether an inbound frame is
// dropped before it reaches this port. nil hears everything.
func (p *Port) SetLoss(lose func(frame []byte) bool) {
	p.mu.Lock()
	p.lose = lose
	p.mu.Unlock()
}

func (p *Port) Send(frame []byte) error {
	return p.ch.broadcast(p, frame)
}

func (p *Port) Receive() ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.count == 0 {
		return nil, false
	}
	f := p.ring[p.head]
	p.ring[p.head] = nil
	p.head = (p.head + 1) % ringSize
	p.count--
	return f, true
}

func (p *Port) push(frame []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lose != nil && p.lose(frame) {
		return
	}
	tail := (p.head + p.count) % ringSize
	p.ring[tail] = frame
	if p.count < ringSize {
		p.count++
	} else {
		p.head = (p.head + 1) % ringSize
	}
}

// Package mesh decides, per message, between a direct hub transmission
// and a hop-limited relay through peer wearables.
//
// Relay is best-effort: there is no delivery confirmation for relayed
// hops, the hop cap is the sole loop prevention, and nothing
// deduplicates a message forwarded by two peers at once. Acks for
// relayed messages go straight back toward the original sender, not
// along the relay path.
package mesh

import (
	"github.com/alexpivovarov/microbit-project/errcode"
	"github.com/alexpivovarov/microbit-project/protocol"
)

// Config identifies this node and bounds forwarding.
type Config struct {
	SelfID  int
	HubID   int
	MaxHops int
}

func (c Config) withDefaults() Config {
	if c.MaxHops <= 0 {
		c.MaxHops = protocol.DefaultMaxHops
	}
	return c
}

// Engine is stateless apart from configuration; one per node.
type Engine struct {
	cfg Config
}

func New(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

// PlanOutbound prepares a message of this node's own for the air. When
// the hub is reachable it goes out directly; otherwise it is wrapped
// in a relay frame and broadcast for any listening peer to forward.
// Heartbeats are never wrapped: they probe the direct path.
func (e *Engine) PlanOutbound(m *protocol.Message, hubReachable bool) *protocol.Message {
	m.Sender = e.cfg.SelfID
	m.Target = e.cfg.HubID
	m.Hops = 0
	if hubReachable || m.Type() == protocol.Heartbeat || m.Type() == protocol.Relay {
		return m
	}
	return &protocol.Message{
		Sender:  e.cfg.SelfID,
		Target:  e.cfg.HubID,
		Hops:    0,
		Payload: protocol.RelayPayload{Inner: m},
	}
}

// PlanForward inspects an overheard message and returns the frame to
// re-transmit, if any. Only relay frames destined for the hub and not
// involving this node are forwarded, with the hop count incremented;
// when the increment would exceed the hop cap the message is dropped
// with a hop_limit error. The frame is otherwise unmodified.
func (e *Engine) PlanForward(m *protocol.Message) (*protocol.Message, error) {
	relay, ok := m.Payload.(protocol.RelayPayload)
	if !ok {
		return nil, nil
	}
	if m.Target != e.cfg.HubID {
		return nil, nil
	}
	if m.Sender == e.cfg.SelfID || relay.Inner.Sender == e.cfg.SelfID {
		return nil, nil
	}
	if m.Hops+1 > e.cfg.MaxHops {
		return nil, &errcode.E{C: errcode.HopLimit, Op: "mesh.PlanForward"}
	}
	fwd := *m
	fwd.Hops = m.Hops + 1
	return &fwd, nil
}

// AddressedToSelf reports whether a received message is for this node.
func (e *Engine) AddressedToSelf(m *protocol.Message) bool {
	return m.Target == e.cfg.SelfID
}

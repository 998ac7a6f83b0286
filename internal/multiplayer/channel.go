package multiplayer

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPeerClosed is returned when delivering to a closed peer.
var ErrPeerClosed = errors.New("multiplayer: peer closed")

// ChannelPeer is a Peer fed through a Go channel by a transport goroutine.
// Packets are never dropped: a lost packet would stall the match forever.
type ChannelPeer struct {
	slot     int
	packets  chan Packet
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelPeer creates a channel-backed peer for slot.
// bufferSize controls how many packets can wait before Deliver blocks.
func NewChannelPeer(slot, bufferSize int) *ChannelPeer {
	if bufferSize < 1 {
		bufferSize = 64 // Default buffer size
	}
	return &ChannelPeer{
		slot:    slot,
		packets: make(chan Packet, bufferSize),
		done:    make(chan struct{}),
	}
}

// Slot returns the player slot.
func (p *ChannelPeer) Slot() int {
	return p.slot
}

// Deliver queues a packet, blocking while the buffer is full.
func (p *ChannelPeer) Deliver(ctx context.Context, pkt Packet) error {
	if pkt.Slot != p.slot {
		return fmt.Errorf("multiplayer: packet for slot %d delivered to slot %d", pkt.Slot, p.slot)
	}

	select {
	case <-p.done:
		return ErrPeerClosed
	default:
	}

	select {
	case p.packets <- pkt:
		return nil
	case <-p.done:
		return ErrPeerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DeliverEncoded decodes a wire packet and queues it.
func (p *ChannelPeer) DeliverEncoded(ctx context.Context, data []byte) error {
	pkt, err := DecodePacket(data)
	if err != nil {
		return err
	}
	return p.Deliver(ctx, pkt)
}

// Poll drains every packet queued so far without blocking.
func (p *ChannelPeer) Poll(uint64) []Packet {
	var out []Packet
	for {
		select {
		case pkt := <-p.packets:
			out = append(out, pkt)
		default:
			return out
		}
	}
}

// Done returns a channel that closes when the peer is closed.
func (p *ChannelPeer) Done() <-chan struct{} {
	return p.done
}

// Close marks the peer as gone.
// Safe to call multiple times.
func (p *ChannelPeer) Close() {
	p.doneOnce.Do(func() {
		close(p.done)
	})
}

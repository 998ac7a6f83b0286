// Package multiplayer provides the remote side of a lockstep match: peers
// that deliver per-tick command packets for their player slot.
//
// Network transport is outside this package. A transport pushes decoded
// packets into a ChannelPeer; SimulatedPeer stands in for remote players
// when there is no network at all.
package multiplayer

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/fejd/internal/world"
)

// Peer is a source of command packets for one player slot.
type Peer interface {
	// Slot returns the player slot the peer controls.
	Slot() int

	// Poll returns the packets that have arrived since the last call. tick is
	// the simulation tick the caller is waiting on. Poll is called once per
	// frame, including frames that stall, and must never block.
	Poll(tick uint64) []Packet
}

// Packet carries the commands of one slot for one target tick.
type Packet struct {
	Tick     uint64          `msgpack:"tick"`
	Slot     int             `msgpack:"slot"`
	Commands []world.Command `msgpack:"commands"`
}

// Encode serializes a packet for the wire.
func (p Packet) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(&p)
	if err != nil {
		return nil, fmt.Errorf("multiplayer: encode packet: %w", err)
	}
	return data, nil
}

// DecodePacket parses a packet produced by Encode.
func DecodePacket(data []byte) (Packet, error) {
	var p Packet
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return Packet{}, fmt.Errorf("multiplayer: decode packet: %w", err)
	}
	return p, nil
}

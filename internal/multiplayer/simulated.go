package multiplayer

import "github.com/vovakirdan/fejd/internal/world"

// RNG streams of a simulated peer, offset by its slot.
const (
	brainStream uint64 = 0x627261696e000000
	lagStream   uint64 = 0x6c61670000000000
)

// BotConfig configures a SimulatedPeer.
type BotConfig struct {
	Slot   int
	Delay  int    // Command delay of the match, in ticks
	MaxLag int    // Largest arrival lag, in polls
	Seed   uint64 // Match seed
}

type inflight struct {
	arrive uint64
	packet Packet
}

// SimulatedPeer is a seeded bot standing in for a remote player. The
// commands it sends depend only on the seed and its slot; arrival lag is
// drawn from a separate stream, so lag changes when packets show up but
// never what they contain.
type SimulatedPeer struct {
	cfg   BotConfig
	brain *world.RNG
	lag   *world.RNG

	next     uint64 // Next target tick to generate
	polls    uint64
	inflight []inflight

	turn    world.Command
	turnFor int
}

// NewSimulatedPeer creates a bot peer.
func NewSimulatedPeer(cfg BotConfig) *SimulatedPeer {
	cfg.Delay = max(cfg.Delay, 0)
	cfg.MaxLag = max(cfg.MaxLag, 0)
	slot := uint64(cfg.Slot) //#nosec G115 -- slots are small and non-negative
	return &SimulatedPeer{
		cfg:   cfg,
		brain: world.NewRNG(cfg.Seed, brainStream+slot),
		lag:   world.NewRNG(cfg.Seed, lagStream+slot),
		next:  uint64(cfg.Delay), //#nosec G115 -- clamped above
	}
}

// Slot returns the player slot.
func (p *SimulatedPeer) Slot() int {
	return p.cfg.Slot
}

// Poll captures the bot's input for every tick up to tick+Delay and returns
// the packets whose lag has elapsed, in arrival order.
func (p *SimulatedPeer) Poll(tick uint64) []Packet {
	p.polls++

	horizon := tick + uint64(p.cfg.Delay) //#nosec G115 -- clamped in constructor
	for ; p.next <= horizon; p.next++ {
		p.inflight = append(p.inflight, inflight{
			arrive: p.polls + uint64(p.lag.Intn(p.cfg.MaxLag+1)), //#nosec G115 -- Intn is never negative
			packet: Packet{Tick: p.next, Slot: p.cfg.Slot, Commands: p.decide()},
		})
	}

	var out []Packet
	kept := p.inflight[:0]
	for _, f := range p.inflight {
		if f.arrive <= p.polls {
			out = append(out, f.packet)
			continue
		}
		kept = append(kept, f)
	}
	p.inflight = kept
	return out
}

// InFlight returns the number of generated packets that have not arrived.
func (p *SimulatedPeer) InFlight() int {
	return len(p.inflight)
}

// decide picks the commands for one tick: bursts of turning, mostly
// thrusting, firing now and then.
func (p *SimulatedPeer) decide() []world.Command {
	var cmds []world.Command

	if p.turnFor == 0 && p.brain.Intn(6) == 0 {
		p.turn = world.RotateLeft
		if p.brain.Bool() {
			p.turn = world.RotateRight
		}
		p.turnFor = p.brain.Range(2, 9)
	}
	if p.turnFor > 0 {
		cmds = append(cmds, p.turn)
		p.turnFor--
	}

	switch p.brain.Intn(10) {
	case 0:
		cmds = append(cmds, world.Decelerate)
	case 1, 2, 3, 4, 5:
		cmds = append(cmds, world.Accelerate)
	}

	if p.brain.Intn(4) == 0 {
		cmds = append(cmds, world.Fire)
	}
	return cmds
}

// Bots returns a simulated peer for every slot of a match except local.
// Pass a negative local to fill every slot.
func Bots(players, local, delay, maxLag int, seed uint64) []Peer {
	peers := make([]Peer, 0, players)
	for slot := range players {
		if slot == local {
			continue
		}
		peers = append(peers, NewSimulatedPeer(BotConfig{
			Slot:   slot,
			Delay:  delay,
			MaxLag: maxLag,
			Seed:   seed,
		}))
	}
	return peers
}

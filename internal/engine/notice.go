package engine

// Notice reports an engine-level change to handlers.
type Notice interface {
	notice()
}

// TickRateChanged is sent after a tick rate request was applied.
type TickRateChanged struct {
	TicksPerSecond int
}

func (TickRateChanged) notice() {}

// DebugChanged is sent after a debug request was applied.
type DebugChanged struct {
	On bool
}

func (DebugChanged) notice() {}

// Stalled is sent once when a tick cannot run because commands are missing.
type Stalled struct {
	Tick    uint64
	Missing []int // Slots that have not contributed yet
}

func (Stalled) notice() {}

// Exited is sent once when the match ends.
type Exited struct {
	Result Result
}

func (Exited) notice() {}

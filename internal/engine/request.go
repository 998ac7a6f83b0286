package engine

import "sync"

// RequestKind identifies an engine request. Pending requests are applied
// in RequestKind order at the start of a frame.
type RequestKind uint8

const (
	RequestTicksPerSecond RequestKind = iota
	RequestDebug
	RequestExit

	requestCount
)

// String returns a human-readable name for the request kind.
func (k RequestKind) String() string {
	switch k {
	case RequestTicksPerSecond:
		return "TicksPerSecond"
	case RequestDebug:
		return "Debug"
	case RequestExit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// Request is one coalesced engine request.
type Request struct {
	Kind           RequestKind
	TicksPerSecond int
	Debug          bool
}

// requests holds at most one pending request per kind; the last writer wins.
// Safe for concurrent use.
type requests struct {
	mu      sync.Mutex
	pending [requestCount]bool
	values  [requestCount]Request
}

func (r *requests) put(req Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[req.Kind] = true
	r.values[req.Kind] = req
}

// drain returns the pending requests in kind order and clears them.
func (r *requests) drain() []Request {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Request
	for k := range requestCount {
		if r.pending[k] {
			out = append(out, r.values[k])
			r.pending[k] = false
		}
	}
	return out
}

package rpc

import (
	"errors"
	"time"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm names an endpoint selection strategy (config key rpc_algorithm).
type Algorithm string

const (
	AlgorithmFastest    Algorithm = "fastest"
	AlgorithmRoundRobin Algorithm = "round-robin"
	AlgorithmFailover   Algorithm = "failover"

	// Endpoints more than this many blocks behind the best are skipped.
	staleBlockThreshold = 3
)

// Endpoint is one RPC URL with the measurements of its last health check.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Healthy     bool // meaningful only when Checked
	Checked     bool
}

// Picker chooses one endpoint per invocation. The round-robin position is
// owned by the caller: each w3lottery run is a new process, so the cursor
// lives in the config file between runs.
type Picker struct {
	algo   Algorithm
	cursor uint32
}

// NewPicker returns a picker for algo starting at the round-robin cursor.
func NewPicker(algo Algorithm, cursor uint32) *Picker {
	return &Picker{algo: algo, cursor: cursor}
}

// Cursor is the round-robin position to persist after Pick.
func (p *Picker) Cursor() uint32 { return p.cursor }

// Pick selects an endpoint according to the algorithm.
func (p *Picker) Pick(endpoints []Endpoint) (*Endpoint, error) {
	if len(endpoints) == 0 {
		return nil, ErrNoHealthyRPC
	}

	switch p.algo {
	case AlgorithmRoundRobin:
		return p.pickRoundRobin(endpoints)
	case AlgorithmFailover:
		return pickFailover(endpoints)
	default:
		return pickFastest(endpoints)
	}
}

// pickFastest scores healthy, non-stale endpoints by latency and freshness.
func pickFastest(endpoints []Endpoint) (*Endpoint, error) {
	bestBlock := highestBlock(endpoints)

	var winner *Endpoint
	var bestScore float64
	for _, e := range healthyEndpoints(endpoints) {
		if bestBlock > 0 && bestBlock-e.BlockNumber > staleBlockThreshold {
			continue
		}
		s := score(e, bestBlock)
		if winner == nil || s > bestScore {
			winner = e
			bestScore = s
		}
	}
	if winner == nil {
		return nil, ErrNoHealthyRPC
	}
	return winner, nil
}

// pickRoundRobin returns the healthy endpoint under the cursor and advances it.
func (p *Picker) pickRoundRobin(endpoints []Endpoint) (*Endpoint, error) {
	healthy := healthyEndpoints(endpoints)
	if len(healthy) == 0 {
		return nil, ErrNoHealthyRPC
	}
	idx := int(p.cursor % uint32(len(healthy)))
	p.cursor = uint32((idx + 1) % len(healthy))
	return healthy[idx], nil
}

// pickFailover returns the first endpoint not known to be down.
func pickFailover(endpoints []Endpoint) (*Endpoint, error) {
	for i := range endpoints {
		e := &endpoints[i]
		if e.Checked && !e.Healthy {
			continue
		}
		return e, nil
	}
	return nil, ErrNoHealthyRPC
}

// --- scoring ---

func score(e *Endpoint, bestBlock uint64) float64 {
	var s float64
	if us := e.Latency.Microseconds(); us > 0 {
		s += 1e6 / float64(us)
	}
	// One point lost per block behind the head.
	if bestBlock > 0 {
		s += float64(10 - int64(bestBlock-e.BlockNumber))
	}
	return s
}

func highestBlock(endpoints []Endpoint) uint64 {
	var best uint64
	for _, e := range endpoints {
		if e.BlockNumber > best {
			best = e.BlockNumber
		}
	}
	return best
}

// healthyEndpoints drops endpoints a health check found down. With no checks at
// all every endpoint is a candidate.
func healthyEndpoints(endpoints []Endpoint) []*Endpoint {
	out := make([]*Endpoint, 0, len(endpoints))
	for i := range endpoints {
		e := &endpoints[i]
		if !e.Checked || e.Healthy {
			out = append(out, e)
		}
	}
	return out
}

package rpc

import (
	"context"
	"fmt"
)

// SelectBest picks one URL from urls using the named algorithm ("fastest",
// "round-robin" or "failover"; empty means fastest). cursor is the persisted
// round-robin position; the returned Selection carries its successor.
//
// Returns ErrNoHealthyRPC when the list is empty or all endpoints fail.
func SelectBest(ctx context.Context, urls []string, algorithm string, cursor uint32) (Selection, error) {
	if len(urls) == 0 {
		return Selection{}, ErrNoHealthyRPC
	}
	algo := Algorithm(algorithm)
	switch algo {
	case "":
		algo = AlgorithmFastest
	case AlgorithmFastest, AlgorithmRoundRobin, AlgorithmFailover:
	default:
		return Selection{}, fmt.Errorf("unknown RPC algorithm %q — choose: fastest, round-robin, failover", algorithm)
	}
	return Best(ctx, urls, algo, cursor)
}

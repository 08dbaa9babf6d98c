package rpc

import "context"

// HealthCheck pings a single RPC and reports whether it is usable. A node is
// healthy when it answers and its head is within staleBlockThreshold of
// bestBlock (pass 0 to skip the recency check).
func HealthCheck(ctx context.Context, url string, bestBlock uint64) (Endpoint, error) {
	latency, blockNum, err := ping(ctx, url)

	ep := Endpoint{
		URL:         url,
		Latency:     latency,
		BlockNumber: blockNum,
		Healthy:     err == nil,
		Checked:     true,
	}
	if err == nil && bestBlock > blockNum && bestBlock-blockNum > staleBlockThreshold {
		ep.Healthy = false
	}
	return ep, err
}

package rpc_test

import (
	"testing"
	"time"

	"github.com/Mohsinsiddi/w3lottery/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func measured(url string, latency time.Duration, block uint64, up bool) rpc.Endpoint {
	return rpc.Endpoint{URL: url, Latency: latency, BlockNumber: block, Healthy: up, Checked: true}
}

func unmeasured(url string, latency time.Duration, block uint64) rpc.Endpoint {
	return rpc.Endpoint{URL: url, Latency: latency, BlockNumber: block}
}

func pick(t *testing.T, algo rpc.Algorithm, cursor uint32, endpoints ...rpc.Endpoint) (string, uint32) {
	t.Helper()
	p := rpc.NewPicker(algo, cursor)
	e, err := p.Pick(endpoints)
	require.NoError(t, err)
	return e.URL, p.Cursor()
}

// ---------------------------------------------------------------------------
// fastest
// ---------------------------------------------------------------------------

func TestFastestPrefersLowLatency(t *testing.T) {
	url, _ := pick(t, rpc.AlgorithmFastest, 0,
		measured("http://127.0.0.1:8545", 40*time.Millisecond, 500, true),
		measured("https://rpc.sepolia.org", 180*time.Millisecond, 500, true),
		measured("https://ethereum-sepolia-rpc.publicnode.com", 9*time.Millisecond, 500, true),
	)
	assert.Equal(t, "https://ethereum-sepolia-rpc.publicnode.com", url)
}

func TestFastestSkipsLaggingNode(t *testing.T) {
	url, _ := pick(t, rpc.AlgorithmFastest, 0,
		measured("https://head", 60*time.Millisecond, 7_000_010, true),
		measured("https://lagging", 5*time.Millisecond, 7_000_000, true),
	)
	assert.Equal(t, "https://head", url)
}

func TestFastestIgnoresDownNodes(t *testing.T) {
	url, _ := pick(t, rpc.AlgorithmFastest, 0,
		measured("https://down", 0, 0, false),
		measured("https://up", 300*time.Millisecond, 12, true),
	)
	assert.Equal(t, "https://up", url)
}

func TestFastestSubMillisecondLatency(t *testing.T) {
	url, _ := pick(t, rpc.AlgorithmFastest, 0,
		measured("http://127.0.0.1:8545", 200*time.Microsecond, 3, true),
		measured("http://127.0.0.1:7545", 2*time.Millisecond, 3, true),
	)
	assert.Equal(t, "http://127.0.0.1:8545", url)
}

func TestFastestWithoutHealthData(t *testing.T) {
	url, _ := pick(t, rpc.AlgorithmFastest, 0,
		unmeasured("https://a", 90*time.Millisecond, 40),
		unmeasured("https://b", 30*time.Millisecond, 40),
	)
	assert.Equal(t, "https://b", url)
}

// ---------------------------------------------------------------------------
// round-robin
// ---------------------------------------------------------------------------

func TestRoundRobinFollowsCursor(t *testing.T) {
	eps := []rpc.Endpoint{
		measured("https://a", time.Millisecond, 1, true),
		measured("https://b", time.Millisecond, 1, true),
		measured("https://c", time.Millisecond, 1, true),
	}

	url, next := pick(t, rpc.AlgorithmRoundRobin, 0, eps...)
	assert.Equal(t, "https://a", url)
	assert.Equal(t, uint32(1), next)

	url, next = pick(t, rpc.AlgorithmRoundRobin, next, eps...)
	assert.Equal(t, "https://b", url)
	assert.Equal(t, uint32(2), next)

	url, next = pick(t, rpc.AlgorithmRoundRobin, next, eps...)
	assert.Equal(t, "https://c", url)
	assert.Equal(t, uint32(0), next)
}

func TestRoundRobinCursorBeyondList(t *testing.T) {
	// The list can shrink between runs (remove-rpc).
	url, next := pick(t, rpc.AlgorithmRoundRobin, 5,
		measured("https://a", time.Millisecond, 1, true),
		measured("https://b", time.Millisecond, 1, true),
	)
	assert.Equal(t, "https://b", url)
	assert.Equal(t, uint32(0), next)
}

func TestRoundRobinSkipsDownNodes(t *testing.T) {
	url, _ := pick(t, rpc.AlgorithmRoundRobin, 1,
		measured("https://a", time.Millisecond, 1, true),
		measured("https://down", 0, 0, false),
		measured("https://c", time.Millisecond, 1, true),
	)
	assert.Equal(t, "https://c", url)
}

// ---------------------------------------------------------------------------
// failover
// ---------------------------------------------------------------------------

func TestFailoverTakesFirstUp(t *testing.T) {
	url, next := pick(t, rpc.AlgorithmFailover, 3,
		measured("https://primary", 0, 0, false),
		measured("https://secondary", 250*time.Millisecond, 9, true),
		measured("https://tertiary", 5*time.Millisecond, 9, true),
	)
	assert.Equal(t, "https://secondary", url)
	assert.Equal(t, uint32(3), next, "only round-robin moves the cursor")
}

// ---------------------------------------------------------------------------
// errors
// ---------------------------------------------------------------------------

func TestPickNoEndpoints(t *testing.T) {
	for _, algo := range []rpc.Algorithm{rpc.AlgorithmFastest, rpc.AlgorithmRoundRobin, rpc.AlgorithmFailover} {
		_, err := rpc.NewPicker(algo, 0).Pick(nil)
		assert.ErrorIs(t, err, rpc.ErrNoHealthyRPC, string(algo))
	}
}

func TestPickAllDown(t *testing.T) {
	eps := []rpc.Endpoint{measured("https://a", 0, 0, false), measured("https://b", 0, 0, false)}
	for _, algo := range []rpc.Algorithm{rpc.AlgorithmFastest, rpc.AlgorithmRoundRobin, rpc.AlgorithmFailover} {
		_, err := rpc.NewPicker(algo, 0).Pick(eps)
		assert.ErrorIs(t, err, rpc.ErrNoHealthyRPC, string(algo))
	}
}

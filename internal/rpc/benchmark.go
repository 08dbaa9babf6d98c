package rpc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Mohsinsiddi/w3lottery/internal/chain"
	"github.com/ethereum/go-ethereum/ethclient"
)

// pingTimeout bounds a single endpoint ping.
const pingTimeout = 5 * time.Second

// BenchmarkResult holds the result of a single endpoint benchmark.
type BenchmarkResult struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Err         error
}

// ping dials url and reads its head block. Replaced in tests.
var ping = func(ctx context.Context, url string) (time.Duration, uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	ec, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return 0, 0, fmt.Errorf("connecting to %s: %w", url, err)
	}
	defer ec.Close()
	return chain.Ping(ctx, ec)
}

// Benchmark pings all RPC URLs in parallel and returns results in input order.
func Benchmark(ctx context.Context, urls []string) []BenchmarkResult {
	results := make([]BenchmarkResult, len(urls))
	var wg sync.WaitGroup

	for i, url := range urls {
		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()
			latency, block, err := ping(ctx, u)
			results[idx] = BenchmarkResult{
				URL:         u,
				Latency:     latency,
				BlockNumber: block,
				Err:         err,
			}
		}(i, url)
	}

	wg.Wait()
	return results
}

// ResultsToEndpoints converts benchmark results to picker Endpoints.
// All returned endpoints have Checked: true since they have been actively tested.
func ResultsToEndpoints(results []BenchmarkResult) []Endpoint {
	endpoints := make([]Endpoint, 0, len(results))
	for _, r := range results {
		endpoints = append(endpoints, Endpoint{
			URL:         r.URL,
			Latency:     r.Latency,
			BlockNumber: r.BlockNumber,
			Healthy:     r.Err == nil,
			Checked:     true,
		})
	}
	return endpoints
}

// Selection is the endpoint chosen by Best together with the round-robin
// cursor to persist for the next run.
type Selection struct {
	URL    string
	Cursor uint32
}

// Best benchmarks urls and returns the winner under algo. A single URL is
// returned without probing it.
func Best(ctx context.Context, urls []string, algo Algorithm, cursor uint32) (Selection, error) {
	if len(urls) == 0 {
		return Selection{}, ErrNoHealthyRPC
	}
	if len(urls) == 1 {
		return Selection{URL: urls[0], Cursor: cursor}, nil
	}

	picker := NewPicker(algo, cursor)
	winner, err := picker.Pick(ResultsToEndpoints(Benchmark(ctx, urls)))
	if err != nil {
		return Selection{}, err
	}
	return Selection{URL: winner.URL, Cursor: picker.Cursor()}, nil
}

package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
)

// Client is an ethclient connection that remembers the remote chain ID.
type Client struct {
	*ethclient.Client
	url     string
	chainID *big.Int
}

// Dial connects to url and queries its chain ID.
func Dial(ctx context.Context, url string) (*Client, error) {
	ec, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	id, err := ec.ChainID(ctx)
	if err != nil {
		ec.Close()
		return nil, fmt.Errorf("querying chain id: %w", err)
	}
	log.Debug("Connected to network", "url", url, "chainid", id)
	return &Client{Client: ec, url: url, chainID: id}, nil
}

// URL returns the endpoint the client is connected to.
func (c *Client) URL() string { return c.url }

// ChainIDValue returns the chain ID fetched at dial time.
func (c *Client) ChainIDValue() *big.Int { return new(big.Int).Set(c.chainID) }

// BalanceReader is the subset of a backend needed to read balances.
type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Balance returns the latest balance of addr.
func Balance(ctx context.Context, b BalanceReader, addr common.Address) (*big.Int, error) {
	bal, err := b.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading balance of %s: %w", addr.Hex(), err)
	}
	return bal, nil
}

// BlockNumberReader is the subset of a backend needed by Ping.
type BlockNumberReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// Ping measures a round trip to the node and returns the head block number.
func Ping(ctx context.Context, b BlockNumberReader) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	blockNum, err = b.BlockNumber(ctx)
	latency = time.Since(start)
	if err != nil {
		return latency, 0, fmt.Errorf("reading block number: %w", err)
	}
	return latency, blockNum, nil
}

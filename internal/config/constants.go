package config

import "time"

// GasLimitDeploy is the default gas limit for the Lottery deployment.
const GasLimitDeploy = uint64(1_000_000)

// Timeout constants used across cmd.
const (
	DialTimeout      = 15 * time.Second // connecting and reading the chain id
	TxConfirmTimeout = 3 * time.Minute  // standard transaction confirmation wait
	TxDeployTimeout  = 5 * time.Minute  // contract deployment confirmation wait
)

package chain_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/Mohsinsiddi/w3lottery/internal/chain"
	"github.com/Mohsinsiddi/w3lottery/internal/testchain"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sendTransfer(t *testing.T, env *testchain.Env, from, to int, value *big.Int, gas uint64, data []byte) *types.Transaction {
	t.Helper()
	ctx := context.Background()
	client := env.Client()
	opts := env.Transactor(from, nil)

	nonce, err := client.PendingNonceAt(ctx, opts.From)
	require.NoError(t, err)
	info, err := chain.GetGasInfo(ctx, client)
	require.NoError(t, err)

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   env.ChainID,
		Nonce:     nonce,
		GasTipCap: info.TipCap,
		GasFeeCap: info.MaxFeePerGas(),
		Gas:       gas,
		To:        &env.Accounts[to],
		Value:     value,
		Data:      data,
	})
	signed, err := opts.Signer(opts.From, tx)
	require.NoError(t, err)
	require.NoError(t, client.SendTransaction(ctx, signed))
	return signed
}

func TestWaitMinedSuccess(t *testing.T) {
	env := testchain.New(t, testchain.WithAccounts(2))
	tx := sendTransfer(t, env, 0, 1, big.NewInt(1), 21_000, nil)

	receipt, err := chain.WaitMined(context.Background(), env.Client(), tx, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	assert.Equal(t, uint64(21_000), receipt.GasUsed)
}

func TestWaitMinedTimeout(t *testing.T) {
	env := testchain.New(t, testchain.WithAccounts(2))
	// Never submitted, so it can never be mined.
	tx := types.NewTx(&types.DynamicFeeTx{ChainID: env.ChainID, Gas: 21_000, To: &env.Accounts[1]})

	_, err := chain.WaitMined(context.Background(), env.Client(), tx, 50*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not mined within")
}

func TestBalanceAfterTransfer(t *testing.T) {
	env := testchain.New(t, testchain.WithAccounts(2))
	sendTransfer(t, env, 0, 1, chain.MustEther("1.5"), 21_000, nil)

	bal, err := chain.Balance(context.Background(), env.Client(), env.Accounts[1])
	require.NoError(t, err)
	assert.Equal(t, "1001.5", chain.WeiToETH(bal))
}

func TestPingSimulatedChain(t *testing.T) {
	env := testchain.New(t, testchain.WithAccounts(1))
	env.Commit()
	_, n, err := chain.Ping(context.Background(), env.Client())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, uint64(1))
}

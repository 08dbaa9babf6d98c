package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGasReader struct {
	gasPrice *big.Int
	tip      *big.Int
	baseFee  *big.Int
	err      error
	block    uint64
}

func (f *fakeGasReader) SuggestGasPrice(context.Context) (*big.Int, error) { return f.gasPrice, f.err }
func (f *fakeGasReader) SuggestGasTipCap(context.Context) (*big.Int, error) { return f.tip, nil }
func (f *fakeGasReader) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: f.baseFee}, nil
}
func (f *fakeGasReader) BlockNumber(context.Context) (uint64, error) { return f.block, f.err }

// ---------------------------------------------------------------------------
// WeiToGwei
// ---------------------------------------------------------------------------

func TestWeiToGweiNil(t *testing.T) {
	assert.Equal(t, float64(0), WeiToGwei(nil))
}

func TestWeiToGweiZero(t *testing.T) {
	assert.Equal(t, float64(0), WeiToGwei(big.NewInt(0)))
}

func TestWeiToGweiOneGwei(t *testing.T) {
	assert.InDelta(t, 1.0, WeiToGwei(big.NewInt(1_000_000_000)), 0.0001)
}

func TestWeiToGwei100Gwei(t *testing.T) {
	wei := new(big.Int).Mul(big.NewInt(100), big.NewInt(1_000_000_000))
	assert.InDelta(t, 100.0, WeiToGwei(wei), 0.0001)
}

// ---------------------------------------------------------------------------
// GasInfo
// ---------------------------------------------------------------------------

func TestGasPriceDisplayLegacy(t *testing.T) {
	info := &GasInfo{GasPrice: big.NewInt(1_000_000_000), GasPriceGwei: 1.0}
	gwei, isEIP1559 := info.GasPriceDisplay()
	assert.InDelta(t, 1.0, gwei, 0.001)
	assert.False(t, isEIP1559)
}

func TestGasPriceDisplayEIP1559(t *testing.T) {
	info := &GasInfo{
		GasPrice:     big.NewInt(2_000_000_000),
		GasPriceGwei: 2.0,
		BaseFee:      big.NewInt(3_000_000_000),
		BaseFeeGwei:  3.0,
	}
	gwei, isEIP1559 := info.GasPriceDisplay()
	assert.InDelta(t, 3.0, gwei, 0.001)
	assert.True(t, isEIP1559)
}

func TestMaxCostLegacy(t *testing.T) {
	info := &GasInfo{GasPrice: big.NewInt(10)}
	assert.Equal(t, int64(10_000_000), info.MaxCost(1_000_000).Int64())
}

func TestMaxCostDynamicFee(t *testing.T) {
	info := &GasInfo{GasPrice: big.NewInt(99), BaseFee: big.NewInt(10), TipCap: big.NewInt(2)}
	assert.Equal(t, int64(22), info.MaxFeePerGas().Int64())
	assert.Equal(t, int64(22_000_000), info.MaxCost(1_000_000).Int64())
}

func TestGetGasInfoLegacyChain(t *testing.T) {
	info, err := GetGasInfo(context.Background(), &fakeGasReader{gasPrice: big.NewInt(5_000_000_000)})
	require.NoError(t, err)
	assert.Nil(t, info.BaseFee)
	assert.Nil(t, info.TipCap)
	assert.InDelta(t, 5.0, info.GasPriceGwei, 0.001)
}

func TestGetGasInfoEIP1559Chain(t *testing.T) {
	info, err := GetGasInfo(context.Background(), &fakeGasReader{
		gasPrice: big.NewInt(3_000_000_000),
		tip:      big.NewInt(1_000_000_000),
		baseFee:  big.NewInt(2_000_000_000),
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, info.BaseFeeGwei, 0.001)
	assert.Equal(t, int64(1_000_000_000), info.TipCap.Int64())
}

func TestGetGasInfoGasPriceError(t *testing.T) {
	_, err := GetGasInfo(context.Background(), &fakeGasReader{err: errors.New("boom")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

// ---------------------------------------------------------------------------
// Ping
// ---------------------------------------------------------------------------

func TestPing(t *testing.T) {
	_, n, err := Ping(context.Background(), &fakeGasReader{block: 42})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), n)
}

func TestPingError(t *testing.T) {
	_, _, err := Ping(context.Background(), &fakeGasReader{err: errors.New("dial tcp: refused")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
}

// ---------------------------------------------------------------------------
// RevertReason / IsRevert
// ---------------------------------------------------------------------------

func TestRevertReasonExecutionReverted(t *testing.T) {
	err := errors.New("enter: estimating gas: execution reverted")
	assert.Equal(t, "execution reverted", RevertReason(err))
	assert.True(t, IsRevert(err))
}

func TestRevertReasonWithMessage(t *testing.T) {
	err := errors.New("rpc: execution reverted: only manager")
	assert.Equal(t, "execution reverted: only manager", RevertReason(err))
}

func TestRevertReasonMinedRevert(t *testing.T) {
	err := fmt.Errorf("pickWinner: %w", fmt.Errorf("%w (hash: 0x1)", ErrReverted))
	assert.Equal(t, "transaction reverted", RevertReason(err))
	assert.True(t, IsRevert(err))
}

func TestRevertReasonOtherError(t *testing.T) {
	err := errors.New("insufficient funds for gas * price + value")
	assert.Equal(t, err.Error(), RevertReason(err))
	assert.False(t, IsRevert(err))
	assert.Equal(t, "", RevertReason(nil))
	assert.False(t, IsRevert(nil))
}

package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ---------------------------------------------------------------------------
// normalizeSignature
// ---------------------------------------------------------------------------

func TestNormalizeSignature_AlreadyCanonical(t *testing.T) {
	assert.Equal(t, "transfer(address,uint256)", normalizeSignature("transfer(address,uint256)"))
}

func TestNormalizeSignature_WithNames(t *testing.T) {
	assert.Equal(t, "transfer(address,uint256)", normalizeSignature("transfer(address to, uint256 amount)"))
}

func TestNormalizeSignature_NoParams(t *testing.T) {
	assert.Equal(t, "enter()", normalizeSignature("enter()"))
	assert.Equal(t, "enter()", normalizeSignature("enter( )"))
}

func TestNormalizeSignature_SingleParam(t *testing.T) {
	assert.Equal(t, "players(uint256)", normalizeSignature("players(uint256 index)"))
}

func TestNormalizeSignature_NoParens(t *testing.T) {
	// Edge case: no parentheses.
	assert.Equal(t, "noop", normalizeSignature("noop"))
}

func TestNormalizeSignature_ExtraSpaces(t *testing.T) {
	assert.Equal(t, "approve(address,uint256)", normalizeSignature("  approve(  address  spender ,  uint256  amount  ) "))
}

func TestNormalizeSignature_Unclosed(t *testing.T) {
	assert.Equal(t, "broken(uint256", normalizeSignature("broken(uint256"))
}

// ---------------------------------------------------------------------------
// printLotterySelectors
// ---------------------------------------------------------------------------

func TestPrintLotterySelectors(t *testing.T) {
	assert.NoError(t, printLotterySelectors())
}

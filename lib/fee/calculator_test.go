package fee

import (
	"testing"

	"github.com/stretchr/testify/require"

	"remitnet.io/remit/lib/common"
)

const testTreasury = "GDTREASURYADDRESS"

func TestCalculateFee(t *testing.T) {
	c := NewCalculator(testTreasury, 50)

	require.Equal(t, common.Amount(5), c.Calculate(common.Amount(1000)))
}

func TestCalculateFeeInactive(t *testing.T) {
	{ // no treasury configured
		c := NewCalculator("", 50)
		require.Equal(t, common.Amount(0), c.Calculate(common.Amount(1000)))
		require.False(t, c.Active())
	}

	{ // zero rate
		c := NewCalculator(testTreasury, 0)
		require.Equal(t, common.Amount(0), c.Calculate(common.Amount(1000)))
		require.False(t, c.Active())
	}
}

func TestCalculateFeeRoundsDown(t *testing.T) {
	c := NewCalculator(testTreasury, 50)

	// 999 * 50 / 10000 == 4.995, truncated to 4
	require.Equal(t, common.Amount(4), c.Calculate(common.Amount(999)))

	// amounts below the smallest chargeable unit pay nothing
	require.Equal(t, common.Amount(0), c.Calculate(common.Amount(199)))
}

func TestCalculateFeeNoOverflow(t *testing.T) {
	c := NewCalculator(testTreasury, MaxBasisPoints)

	fee := c.Calculate(common.MaximumBalance)
	expected := common.Amount(uint64(common.MaximumBalance) / 10000 * MaxBasisPoints)
	require.Equal(t, expected, fee)
}

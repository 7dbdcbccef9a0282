package fee

import (
	"remitnet.io/remit/lib/common"
)

// The fee rate is expressed in basis points and is capped well below the
// rate where remittances stop making sense.
const MaxBasisPoints uint64 = 500

// Calculator derives the treasury fee of a transfer. It is pure: the
// same amount and configuration always give the same fee.
type Calculator struct {
	TreasuryAddress string
	BasisPoints     uint64
}

func NewCalculator(treasuryAddress string, basisPoints uint64) Calculator {
	return Calculator{
		TreasuryAddress: treasuryAddress,
		BasisPoints:     basisPoints,
	}
}

// Active reports whether fees are collected at all: a treasury must be
// configured and the rate must be non-zero.
func (c Calculator) Active() bool {
	return len(c.TreasuryAddress) > 0 && c.BasisPoints > 0
}

// Calculate returns `floor(amount * BasisPoints / 10000)`, or 0 when the
// calculator is not active.
//
// The multiplication is split around the denominator so that the largest
// representable `Amount` cannot overflow uint64.
func (c Calculator) Calculate(amount common.Amount) common.Amount {
	if !c.Active() {
		return common.Amount(0)
	}

	q := uint64(amount) / common.BasisPointDenominator
	r := uint64(amount) % common.BasisPointDenominator

	return common.Amount(q*c.BasisPoints + r*c.BasisPoints/common.BasisPointDenominator)
}

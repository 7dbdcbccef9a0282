package governance

import (
	"time"

	"remitnet.io/remit/lib/errors"
	"remitnet.io/remit/lib/fee"
)

const (
	// Bounds of the voting period a proposal stays open for.
	MinVotingPeriod time.Duration = 24 * time.Hour
	MaxVotingPeriod time.Duration = 30 * 24 * time.Hour

	DefaultVotingPeriod   time.Duration = 7 * 24 * time.Hour
	DefaultQuorumPercent  uint64        = 50
	DefaultFeeBasisPoints uint64        = 30
)

// Config carries the governance parameters. It is owned by the engine
// and mutated only through the admin-gated setters; nothing reads these
// values from ambient globals.
type Config struct {
	VotingPeriod    time.Duration
	QuorumPercent   uint64
	FeeBasisPoints  uint64
	TreasuryAddress string
}

func NewConfig(treasuryAddress string) *Config {
	return &Config{
		VotingPeriod:    DefaultVotingPeriod,
		QuorumPercent:   DefaultQuorumPercent,
		FeeBasisPoints:  DefaultFeeBasisPoints,
		TreasuryAddress: treasuryAddress,
	}
}

func (c *Config) SetVotingPeriod(d time.Duration) error {
	if d < MinVotingPeriod || d > MaxVotingPeriod {
		return errors.InvalidVotingPeriod.Clone().SetData("voting_period", d.String())
	}

	c.VotingPeriod = d
	return nil
}

func (c *Config) SetQuorumPercent(pct uint64) error {
	if pct < 1 || pct > 100 {
		return errors.InvalidQuorum.Clone().SetData("quorum_percent", pct)
	}

	c.QuorumPercent = pct
	return nil
}

func (c *Config) SetFeeBasisPoints(bp uint64) error {
	if bp > fee.MaxBasisPoints {
		return errors.InvalidFeeRate.Clone().SetData("fee_basis_points", bp)
	}

	c.FeeBasisPoints = bp
	return nil
}

// FeeCalculator returns the fee configuration currently in force.
func (c *Config) FeeCalculator() fee.Calculator {
	return fee.NewCalculator(c.TreasuryAddress, c.FeeBasisPoints)
}

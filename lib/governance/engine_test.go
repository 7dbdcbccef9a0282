package governance

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"remitnet.io/remit/lib/access"
	"remitnet.io/remit/lib/common"
	"remitnet.io/remit/lib/errors"
	"remitnet.io/remit/lib/ledger"
	"remitnet.io/remit/lib/storage"
)

func TestProposeDistribution(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	engine, validators, _ := TestMakeEngine(st, common.Amount(10000), 4)
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))

	p, err := engine.ProposeDistribution(validators[0], recipient.Address, common.Amount(600), "relief corridor budget")
	require.Nil(t, err)
	require.Equal(t, uint64(0), p.ID)
	require.Equal(t, uint64(4), p.ValidatorCount)
	require.False(t, p.Executed)

	deadline := p.DeadlineTime()
	created, err := common.ParseISO8601(p.Created)
	require.Nil(t, err)
	require.Equal(t, engine.Conf().VotingPeriod, deadline.Sub(created))

	// ids are sequential and never reused
	p1, err := engine.ProposeDistribution(validators[1], recipient.Address, common.Amount(100), "second")
	require.Nil(t, err)
	require.Equal(t, uint64(1), p1.ID)
}

func TestProposeDistributionPreconditions(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	engine, validators, _ := TestMakeEngine(st, common.Amount(1000), 4)
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))

	{ // caller must hold the validator role
		outsider := TestMakeAddress()
		_, err := engine.ProposeDistribution(outsider, recipient.Address, common.Amount(100), "")
		require.True(t, errors.NotCommitteeMember.Equal(err))
	}

	{ // recipient must be a parseable address
		_, err := engine.ProposeDistribution(validators[0], "", common.Amount(100), "")
		require.True(t, errors.InvalidRecipient.Equal(err))

		_, err = engine.ProposeDistribution(validators[0], "not-an-address", common.Amount(100), "")
		require.True(t, errors.InvalidRecipient.Equal(err))
	}

	{ // amount must be positive
		_, err := engine.ProposeDistribution(validators[0], recipient.Address, common.Amount(0), "")
		require.True(t, errors.InvalidAmount.Equal(err))
	}

	{ // treasury must currently cover the amount
		_, err := engine.ProposeDistribution(validators[0], recipient.Address, common.Amount(1001), "")
		require.True(t, errors.InsufficientTreasuryBalance.Equal(err))
	}

	{ // nothing was stored by the failed attempts
		exists, err := ExistsProposal(st, 0)
		require.Nil(t, err)
		require.False(t, exists)
	}
}

func TestVoteOncePerValidator(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	engine, validators, _ := TestMakeEngine(st, common.Amount(10000), 4)
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))

	p, err := engine.ProposeDistribution(validators[0], recipient.Address, common.Amount(600), "")
	require.Nil(t, err)

	require.Nil(t, engine.Vote(validators[0], p.ID, true))
	require.Nil(t, engine.Vote(validators[1], p.ID, false))

	err = engine.Vote(validators[0], p.ID, true)
	require.True(t, errors.AlreadyVoted.Equal(err))

	// flipping sides does not help
	err = engine.Vote(validators[0], p.ID, false)
	require.True(t, errors.AlreadyVoted.Equal(err))

	fetched, err := GetProposal(st, p.ID)
	require.Nil(t, err)
	require.Equal(t, uint64(1), fetched.VotesFor)
	require.Equal(t, uint64(1), fetched.VotesAgainst)
}

func TestVoteRequiresValidator(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	engine, validators, _ := TestMakeEngine(st, common.Amount(10000), 4)
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))

	p, err := engine.ProposeDistribution(validators[0], recipient.Address, common.Amount(600), "")
	require.Nil(t, err)

	err = engine.Vote(TestMakeAddress(), p.ID, true)
	require.True(t, errors.NotCommitteeMember.Equal(err))

	err = engine.Vote(validators[0], p.ID+99, true)
	require.True(t, errors.ProposalNotFound.Equal(err))
}

func TestVoteAfterDeadline(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	engine, validators, _ := TestMakeEngine(st, common.Amount(10000), 4)
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))

	p, err := engine.ProposeDistribution(validators[0], recipient.Address, common.Amount(600), "")
	require.Nil(t, err)

	// a vote cast exactly at the deadline is already too late
	engine.nowFunc = func() time.Time { return p.DeadlineTime() }
	err = engine.Vote(validators[0], p.ID, true)
	require.True(t, errors.VotingPeriodEnded.Equal(err))

	engine.nowFunc = func() time.Time { return p.DeadlineTime().Add(time.Hour) }
	err = engine.Vote(validators[1], p.ID, true)
	require.True(t, errors.VotingPeriodEnded.Equal(err))
}

func TestVoteOnExecutedProposal(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	engine, validators, _ := TestMakeEngine(st, common.Amount(10000), 4)
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))

	p, err := engine.ProposeDistribution(validators[0], recipient.Address, common.Amount(600), "")
	require.Nil(t, err)

	require.Nil(t, engine.Vote(validators[0], p.ID, true))
	require.Nil(t, engine.Vote(validators[1], p.ID, true))

	engine.nowFunc = func() time.Time { return p.DeadlineTime() }
	require.Nil(t, engine.ExecuteDistribution(p.ID))

	// the executed gate wins over the deadline gate
	err = engine.Vote(validators[2], p.ID, true)
	require.True(t, errors.AlreadyExecuted.Equal(err))
}

func TestExecuteDistribution(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	engine, validators, _ := TestMakeEngine(st, common.Amount(10000), 4)
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))
	treasury := engine.Conf().TreasuryAddress

	p, err := engine.ProposeDistribution(validators[0], recipient.Address, common.Amount(600), "")
	require.Nil(t, err)

	require.Nil(t, engine.Vote(validators[0], p.ID, true))
	require.Nil(t, engine.Vote(validators[1], p.ID, true))
	require.Nil(t, engine.Vote(validators[2], p.ID, false))

	// too early
	err = engine.ExecuteDistribution(p.ID)
	require.True(t, errors.VotingPeriodNotEnded.Equal(err))

	engine.nowFunc = func() time.Time { return p.DeadlineTime() }

	// anyone may trigger execution, no validator needed
	require.Nil(t, engine.ExecuteDistribution(p.ID))

	treasuryBalance, _ := ledger.BalanceOf(st, treasury)
	recipientBalance, _ := ledger.BalanceOf(st, recipient.Address)
	require.Equal(t, common.Amount(9400), treasuryBalance)
	require.Equal(t, common.Amount(600), recipientBalance)

	fetched, err := GetProposal(st, p.ID)
	require.Nil(t, err)
	require.True(t, fetched.Executed)

	// exactly-once
	err = engine.ExecuteDistribution(p.ID)
	require.True(t, errors.AlreadyExecuted.Equal(err))
}

func TestExecuteDistributionTieFails(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	engine, validators, _ := TestMakeEngine(st, common.Amount(10000), 4)
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))

	p, err := engine.ProposeDistribution(validators[0], recipient.Address, common.Amount(600), "")
	require.Nil(t, err)

	// 2 vs 2: quorum is met but a tie is not a strict majority
	require.Nil(t, engine.Vote(validators[0], p.ID, true))
	require.Nil(t, engine.Vote(validators[1], p.ID, true))
	require.Nil(t, engine.Vote(validators[2], p.ID, false))
	require.Nil(t, engine.Vote(validators[3], p.ID, false))

	engine.nowFunc = func() time.Time { return p.DeadlineTime() }

	err = engine.ExecuteDistribution(p.ID)
	require.True(t, errors.ProposalNotApproved.Equal(err))
}

func TestExecuteDistributionQuorum(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	engine, validators, _ := TestMakeEngine(st, common.Amount(10000), 4)
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))

	p, err := engine.ProposeDistribution(validators[0], recipient.Address, common.Amount(600), "")
	require.Nil(t, err)

	// one yes out of four validators: approved, but 25% < 50% quorum
	require.Nil(t, engine.Vote(validators[0], p.ID, true))

	engine.nowFunc = func() time.Time { return p.DeadlineTime() }

	err = engine.ExecuteDistribution(p.ID)
	require.True(t, errors.QuorumNotReached.Equal(err))
}

func TestQuorumUsesSnapshot(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	engine, validators, admin := TestMakeEngine(st, common.Amount(10000), 4)
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))

	p, err := engine.ProposeDistribution(validators[0], recipient.Address, common.Amount(600), "")
	require.Nil(t, err)
	require.Equal(t, uint64(4), p.ValidatorCount)

	require.Nil(t, engine.Vote(validators[0], p.ID, true))
	require.Nil(t, engine.Vote(validators[1], p.ID, true))
	require.Nil(t, engine.Vote(validators[2], p.ID, true))

	// membership changes after creation do not move the quorum anchor
	require.Nil(t, engine.RevokeValidator(admin, validators[3]))

	engine.nowFunc = func() time.Time { return p.DeadlineTime() }
	require.Nil(t, engine.ExecuteDistribution(p.ID))
}

func TestExecuteDistributionBalanceRace(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	engine, validators, _ := TestMakeEngine(st, common.Amount(1000), 4)
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))
	treasury := engine.Conf().TreasuryAddress

	// both proposals pass the advisory balance check independently
	first, err := engine.ProposeDistribution(validators[0], recipient.Address, common.Amount(600), "")
	require.Nil(t, err)
	second, err := engine.ProposeDistribution(validators[0], recipient.Address, common.Amount(600), "")
	require.Nil(t, err)

	for _, id := range []uint64{first.ID, second.ID} {
		require.Nil(t, engine.Vote(validators[0], id, true))
		require.Nil(t, engine.Vote(validators[1], id, true))
	}

	engine.nowFunc = func() time.Time { return second.DeadlineTime() }

	require.Nil(t, engine.ExecuteDistribution(first.ID))

	treasuryBalance, _ := ledger.BalanceOf(st, treasury)
	require.Equal(t, common.Amount(400), treasuryBalance)

	// funds are first-execute-first-served
	err = engine.ExecuteDistribution(second.ID)
	require.True(t, errors.InsufficientTreasuryBalance.Equal(err))

	fetched, _ := GetProposal(st, second.ID)
	require.False(t, fetched.Executed)
}

func TestExecuteDistributionPausedLedger(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	engine, validators, admin := TestMakeEngine(st, common.Amount(10000), 4)
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))

	p, err := engine.ProposeDistribution(validators[0], recipient.Address, common.Amount(600), "")
	require.Nil(t, err)

	require.Nil(t, engine.Vote(validators[0], p.ID, true))
	require.Nil(t, engine.Vote(validators[1], p.ID, true))

	require.Nil(t, engine.SetPaused(admin, true))

	engine.nowFunc = func() time.Time { return p.DeadlineTime() }

	err = engine.ExecuteDistribution(p.ID)
	require.True(t, errors.LedgerPaused.Equal(err))

	// pause aborted the whole execution, the flag was not committed
	fetched, _ := GetProposal(st, p.ID)
	require.False(t, fetched.Executed)

	require.Nil(t, engine.SetPaused(admin, false))
	require.Nil(t, engine.ExecuteDistribution(p.ID))
}

func TestVotesNeverExceedSnapshot(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	rnd := rand.New(rand.NewSource(1))

	engine, validators, _ := TestMakeEngine(st, common.Amount(100000), 7)
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))

	p, err := engine.ProposeDistribution(validators[0], recipient.Address, common.Amount(100), "")
	require.Nil(t, err)

	// every validator tries to vote a random number of times in random
	// order; only the first attempt may ever count
	var attempts []string
	for _, v := range validators {
		for i := 0; i < 1+rnd.Intn(3); i++ {
			attempts = append(attempts, v)
		}
	}
	rnd.Shuffle(len(attempts), func(i, j int) {
		attempts[i], attempts[j] = attempts[j], attempts[i]
	})

	seen := map[string]bool{}
	for _, v := range attempts {
		err := engine.Vote(v, p.ID, rnd.Intn(2) == 0)
		if seen[v] {
			require.True(t, errors.AlreadyVoted.Equal(err))
		} else {
			require.Nil(t, err)
			seen[v] = true
		}
	}

	fetched, err := GetProposal(st, p.ID)
	require.Nil(t, err)
	require.True(t, fetched.VotesFor+fetched.VotesAgainst <= fetched.ValidatorCount)
	require.Equal(t, uint64(len(seen)), fetched.VotesFor+fetched.VotesAgainst)
}

func TestEngineAdminSetters(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	engine, validators, admin := TestMakeEngine(st, common.Amount(1000), 2)

	{ // validators are not admins
		err := engine.SetQuorumPercent(validators[0], 60)
		require.True(t, errors.NotAdmin.Equal(err))
	}

	require.Nil(t, engine.SetQuorumPercent(admin, 60))
	require.Equal(t, uint64(60), engine.Conf().QuorumPercent)

	require.Nil(t, engine.SetVotingPeriod(admin, 48*time.Hour))
	require.Equal(t, 48*time.Hour, engine.Conf().VotingPeriod)

	require.Nil(t, engine.SetFeeBasisPoints(admin, 50))
	require.Equal(t, uint64(50), engine.Conf().FeeBasisPoints)

	{ // out-of-bound values are rejected even for admins
		err := engine.SetVotingPeriod(admin, time.Hour)
		require.True(t, errors.InvalidVotingPeriod.Equal(err))

		err = engine.SetQuorumPercent(admin, 0)
		require.True(t, errors.InvalidQuorum.Equal(err))

		err = engine.SetFeeBasisPoints(admin, 501)
		require.True(t, errors.InvalidFeeRate.Equal(err))
	}
}

func TestGrantRevokeValidator(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	engine, validators, admin := TestMakeEngine(st, common.Amount(1000), 2)

	address := TestMakeAddress()
	require.Nil(t, engine.GrantValidator(admin, address))

	ok, err := access.NewRegistry(access.NewStore(st)).IsValidator(address)
	require.Nil(t, err)
	require.True(t, ok)

	err = engine.GrantValidator(validators[0], TestMakeAddress())
	require.True(t, errors.NotAdmin.Equal(err))

	require.Nil(t, engine.RevokeValidator(admin, address))
}

package governance

import (
	"fmt"
	"time"

	"github.com/stellar/go/keypair"

	"remitnet.io/remit/lib/access"
	"remitnet.io/remit/lib/common"
	"remitnet.io/remit/lib/common/observer"
	"remitnet.io/remit/lib/errors"
	"remitnet.io/remit/lib/ledger"
	"remitnet.io/remit/lib/storage"
)

// Engine drives the propose → vote → execute lifecycle of treasury
// distributions. Proposals are authorized independently; treasury funds
// are only claimed when a proposal executes, first-execute-first-served.
type Engine struct {
	st       *storage.LevelDBBackend
	conf     *Config
	ctrl     access.Control
	registry *access.Registry

	nowFunc func() time.Time
}

func NewEngine(st *storage.LevelDBBackend, conf *Config, ctrl access.Control) *Engine {
	return &Engine{
		st:       st,
		conf:     conf,
		ctrl:     ctrl,
		registry: access.NewRegistry(ctrl),
		nowFunc:  time.Now,
	}
}

func (e *Engine) Conf() *Config {
	return e.conf
}

func (e *Engine) now() time.Time {
	return e.nowFunc()
}

func (e *Engine) requireValidator(caller string) error {
	has, err := e.registry.IsValidator(caller)
	if err != nil {
		return err
	}
	if !has {
		return errors.NotCommitteeMember.Clone().SetData("address", caller)
	}
	return nil
}

func (e *Engine) requireAdmin(caller string) error {
	has, err := e.ctrl.HasRole(access.RoleAdmin, caller)
	if err != nil {
		return err
	}
	if !has {
		return errors.NotAdmin.Clone().SetData("address", caller)
	}
	return nil
}

// ProposeDistribution checks every precondition before touching storage;
// a failed proposal leaves no trace.
//
// The treasury balance check here is advisory: it keeps obviously-doomed
// proposals out, and is re-verified at execution because other proposals
// may drain the treasury in between.
func (e *Engine) ProposeDistribution(caller, recipient string, amount common.Amount, description string) (p *Proposal, err error) {
	if err = e.requireValidator(caller); err != nil {
		return
	}

	if len(recipient) < 1 {
		err = errors.InvalidRecipient
		return
	}
	if _, err = keypair.Parse(recipient); err != nil {
		err = errors.InvalidRecipient.Clone().SetData("recipient", recipient)
		return
	}

	if amount < 1 {
		err = errors.InvalidAmount
		return
	}

	var balance common.Amount
	if balance, err = ledger.BalanceOf(e.st, e.conf.TreasuryAddress); err != nil {
		return
	}
	if balance < amount {
		err = errors.InsufficientTreasuryBalance.Clone().
			SetData("balance", balance).
			SetData("amount", amount)
		return
	}

	var validatorCount uint64
	if validatorCount, err = e.registry.Count(); err != nil {
		return
	}

	now := e.now()
	deadline := now.Add(e.conf.VotingPeriod)

	var ts *storage.LevelDBBackend
	if ts, err = e.st.OpenTransaction(); err != nil {
		return
	}

	if p, err = CreateProposal(ts, recipient, amount, description, now, deadline, validatorCount); err != nil {
		ts.Discard()
		return
	}
	if err = ts.Commit(); err != nil {
		p = nil
		return
	}

	log.Info("proposal created",
		"id", p.ID,
		"recipient", p.Recipient,
		"amount", p.Amount,
		"deadline", p.Deadline,
		"validators", p.ValidatorCount,
	)
	observer.ProposalObserver.Trigger(fmt.Sprintf("created id-%d", p.ID), p)

	return
}

// Vote records a single, final vote. Votes cannot be changed or
// withdrawn once cast.
func (e *Engine) Vote(caller string, proposalID uint64, support bool) (err error) {
	if err = e.requireValidator(caller); err != nil {
		return
	}

	var p *Proposal
	if p, err = GetProposal(e.st, proposalID); err != nil {
		return
	}

	// checked before the deadline; execution implies the deadline passed,
	// so the deadline gate would otherwise shadow this one
	if p.Executed {
		return errors.AlreadyExecuted.Clone().SetData("id", p.ID)
	}

	if !e.now().Before(p.DeadlineTime()) {
		return errors.VotingPeriodEnded.Clone().SetData("id", p.ID)
	}

	var voted bool
	if voted, err = p.HasVoted(e.st, caller); err != nil {
		return
	}
	if voted {
		return errors.AlreadyVoted.Clone().SetData("id", p.ID).SetData("voter", caller)
	}

	var ts *storage.LevelDBBackend
	if ts, err = e.st.OpenTransaction(); err != nil {
		return
	}

	if err = p.RecordVote(ts, caller, support); err != nil {
		ts.Discard()
		return
	}
	if err = ts.Commit(); err != nil {
		return
	}

	log.Info("vote cast", "id", p.ID, "voter", caller, "support", support)
	observer.VoteObserver.Trigger(fmt.Sprintf("voted id-%d", p.ID), p, caller, support)

	return
}

// ExecuteDistribution is callable by anyone once the deadline passed.
//
// The gates run in a fixed order and the first failure wins. The
// executed flag is committed before the funds move: a re-entrant call
// for the same id lands on gate two and dies there, which is what makes
// double-spending through re-entrancy impossible.
func (e *Engine) ExecuteDistribution(proposalID uint64) (err error) {
	var p *Proposal
	if p, err = GetProposal(e.st, proposalID); err != nil {
		return
	}

	if e.now().Before(p.DeadlineTime()) {
		return errors.VotingPeriodNotEnded.Clone().SetData("id", p.ID)
	}

	if p.Executed {
		return errors.AlreadyExecuted.Clone().SetData("id", p.ID)
	}

	if p.VotesFor <= p.VotesAgainst {
		return errors.ProposalNotApproved.Clone().
			SetData("id", p.ID).
			SetData("votes_for", p.VotesFor).
			SetData("votes_against", p.VotesAgainst)
	}

	// participation against the snapshot, so membership changes after
	// creation cannot manufacture or destroy quorum
	if (p.VotesFor+p.VotesAgainst)*100 < p.ValidatorCount*e.conf.QuorumPercent {
		return errors.QuorumNotReached.Clone().
			SetData("id", p.ID).
			SetData("votes_cast", p.VotesFor+p.VotesAgainst).
			SetData("validator_count", p.ValidatorCount)
	}

	var balance common.Amount
	if balance, err = ledger.BalanceOf(e.st, e.conf.TreasuryAddress); err != nil {
		return
	}
	if balance < p.Amount {
		return errors.InsufficientTreasuryBalance.Clone().
			SetData("id", p.ID).
			SetData("balance", balance).
			SetData("amount", p.Amount)
	}

	var ts *storage.LevelDBBackend
	if ts, err = e.st.OpenTransaction(); err != nil {
		return
	}

	// executed flag first, transfer second
	if err = p.MarkExecuted(ts); err != nil {
		ts.Discard()
		return
	}
	if err = ledger.Transfer(ts, e.conf.TreasuryAddress, p.Recipient, p.Amount); err != nil {
		ts.Discard()
		return
	}
	if err = ts.Commit(); err != nil {
		return
	}

	log.Info("proposal executed", "id", p.ID, "recipient", p.Recipient, "amount", p.Amount)
	observer.ProposalObserver.Trigger(fmt.Sprintf("executed id-%d", p.ID), p)

	return
}

func (e *Engine) SetVotingPeriod(caller string, d time.Duration) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if err := e.conf.SetVotingPeriod(d); err != nil {
		return err
	}

	log.Info("voting period updated", "caller", caller, "voting_period", d)
	return nil
}

func (e *Engine) SetQuorumPercent(caller string, pct uint64) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if err := e.conf.SetQuorumPercent(pct); err != nil {
		return err
	}

	log.Info("quorum updated", "caller", caller, "quorum_percent", pct)
	return nil
}

func (e *Engine) SetFeeBasisPoints(caller string, bp uint64) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if err := e.conf.SetFeeBasisPoints(bp); err != nil {
		return err
	}

	log.Info("fee rate updated", "caller", caller, "fee_basis_points", bp)
	return nil
}

func (e *Engine) SetPaused(caller string, paused bool) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if err := ledger.SetPaused(e.st, paused); err != nil {
		return err
	}

	log.Info("ledger pause flag updated", "caller", caller, "paused", paused)
	return nil
}

func (e *Engine) GrantValidator(caller, address string) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if _, err := keypair.Parse(address); err != nil {
		return errors.InvalidRecipient.Clone().SetData("address", address)
	}

	return e.ctrl.GrantRole(access.RoleValidator, address)
}

func (e *Engine) RevokeValidator(caller, address string) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}

	return e.ctrl.RevokeRole(access.RoleValidator, address)
}

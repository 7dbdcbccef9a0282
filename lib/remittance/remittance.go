package remittance

import (
	"fmt"

	"github.com/stellar/go/keypair"

	"remitnet.io/remit/lib/common"
	"remitnet.io/remit/lib/common/observer"
	"remitnet.io/remit/lib/errors"
	"remitnet.io/remit/lib/governance"
	"remitnet.io/remit/lib/ledger"
	"remitnet.io/remit/lib/storage"
)

// MaxBatchRecipients caps one batch transfer.
const MaxBatchRecipients int = 100

// Facade is the value-movement entry point of the system: fee-bearing
// remittances and fee-free batch transfers, both all-or-nothing.
type Facade struct {
	st   *storage.LevelDBBackend
	conf *governance.Config
}

func NewFacade(st *storage.LevelDBBackend, conf *governance.Config) *Facade {
	return &Facade{
		st:   st,
		conf: conf,
	}
}

// SendRemittance debits the sender, credits the treasury with the fee
// and the recipient with the rest. Fee plus net always equal the debited
// amount; rounding dust stays with the recipient.
func (f *Facade) SendRemittance(from, to string, amount common.Amount, corridor string) (r *Record, err error) {
	if len(to) < 1 {
		err = errors.InvalidRecipient
		return
	}
	if _, err = keypair.Parse(to); err != nil {
		err = errors.InvalidRecipient.Clone().SetData("recipient", to)
		return
	}
	if amount < 1 {
		err = errors.InvalidAmount
		return
	}

	calc := f.conf.FeeCalculator()
	feeAmount := calc.Calculate(amount)
	netAmount := amount.MustSub(feeAmount)

	var ts *storage.LevelDBBackend
	if ts, err = f.st.OpenTransaction(); err != nil {
		return
	}

	if feeAmount > 0 && from != calc.TreasuryAddress {
		if err = ledger.Transfer(ts, from, calc.TreasuryAddress, feeAmount); err != nil {
			ts.Discard()
			return
		}
	}
	if err = ledger.Transfer(ts, from, to, netAmount); err != nil {
		ts.Discard()
		return
	}

	r = NewRecord(from, to, netAmount, feeAmount, corridor)
	if err = r.Save(ts); err != nil {
		ts.Discard()
		r = nil
		return
	}

	if err = ts.Commit(); err != nil {
		r = nil
		return
	}

	log.Info("remittance sent",
		"from", from,
		"to", to,
		"net_amount", netAmount,
		"fee", feeAmount,
		"corridor", corridor,
	)
	observer.RemittanceObserver.Trigger(fmt.Sprintf("sent corridor-%s", corridor), r)

	return
}

// BatchTransfer applies plain transfers to up to MaxBatchRecipients
// targets. Every precondition is checked before any movement; one bad
// target aborts the whole batch with no partial transfers.
func (f *Facade) BatchTransfer(from string, targets []string, amounts []common.Amount) (err error) {
	if len(targets) != len(amounts) {
		return errors.ArrayLengthMismatch.Clone().
			SetData("targets", len(targets)).
			SetData("amounts", len(amounts))
	}
	if len(targets) < 1 {
		return errors.InvalidOperation.Clone().SetData("reason", "empty batch")
	}
	if len(targets) > MaxBatchRecipients {
		return errors.TooManyRecipients.Clone().SetData("targets", len(targets))
	}

	for _, target := range targets {
		if _, err = keypair.Parse(target); err != nil {
			return errors.InvalidRecipient.Clone().SetData("recipient", target)
		}
	}
	for _, amount := range amounts {
		if amount < 1 {
			return errors.InvalidAmount
		}
	}

	var ts *storage.LevelDBBackend
	if ts, err = f.st.OpenTransaction(); err != nil {
		return
	}

	for i, target := range targets {
		if err = ledger.Transfer(ts, from, target, amounts[i]); err != nil {
			ts.Discard()
			return
		}
	}

	if err = ts.Commit(); err != nil {
		return
	}

	log.Info("batch transfer applied", "from", from, "targets", len(targets))

	return
}

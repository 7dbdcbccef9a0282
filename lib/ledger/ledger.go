package ledger

import (
	"remitnet.io/remit/lib/common"
	"remitnet.io/remit/lib/errors"
	"remitnet.io/remit/lib/storage"
)

// The pause flag is a single record; while it is set every value
// movement hard-fails with `LedgerPaused` instead of silently skipping.
const pausedKey string = "lg-paused"

func IsPaused(st *storage.LevelDBBackend) (paused bool, err error) {
	var exists bool
	if exists, err = st.Has(pausedKey); err != nil || !exists {
		return
	}

	err = st.Get(pausedKey, &paused)
	return
}

func SetPaused(st *storage.LevelDBBackend, paused bool) (err error) {
	var exists bool
	if exists, err = st.Has(pausedKey); err != nil {
		return
	}

	if exists {
		return st.Set(pausedKey, paused)
	}
	return st.New(pausedKey, paused)
}

func checkNotPaused(st *storage.LevelDBBackend) error {
	paused, err := IsPaused(st)
	if err != nil {
		return err
	}
	if paused {
		return errors.LedgerPaused
	}
	return nil
}

// CreateAccount makes a new account with an opening balance. It fails
// with `AccountAlreadyExists` when the address is already known.
func CreateAccount(st *storage.LevelDBBackend, address string, balance common.Amount) (*Account, error) {
	if exists, err := ExistsAccount(st, address); err != nil {
		return nil, err
	} else if exists {
		return nil, errors.AccountAlreadyExists.Clone().SetData("address", address)
	}

	a := NewAccount(address, balance)
	if err := a.Save(st); err != nil {
		return nil, err
	}

	return a, nil
}

func BalanceOf(st *storage.LevelDBBackend, address string) (common.Amount, error) {
	a, err := GetAccount(st, address)
	if err != nil {
		return common.Amount(0), err
	}

	return a.GetBalance(), nil
}

// Transfer moves `amount` from one existing account to another within
// the given backend. Callers that need multiple movements to be
// all-or-nothing pass a backend obtained from `OpenTransaction`.
func Transfer(st *storage.LevelDBBackend, from, to string, amount common.Amount) (err error) {
	if err = checkNotPaused(st); err != nil {
		return
	}

	if from == to {
		return errors.InvalidOperation.Clone().SetData("reason", "transfer to self")
	}

	var source, target *Account
	if source, err = GetAccount(st, from); err != nil {
		return
	}
	if target, err = GetAccount(st, to); err != nil {
		return
	}

	if err = source.Withdraw(amount); err != nil {
		return
	}
	if err = target.Deposit(amount); err != nil {
		return
	}

	if err = source.Save(st); err != nil {
		return
	}
	err = target.Save(st)

	return
}

func Mint(st *storage.LevelDBBackend, to string, amount common.Amount) (err error) {
	if err = checkNotPaused(st); err != nil {
		return
	}

	var target *Account
	if target, err = GetAccount(st, to); err != nil {
		return
	}

	if err = target.Deposit(amount); err != nil {
		return
	}

	return target.Save(st)
}

func Burn(st *storage.LevelDBBackend, from string, amount common.Amount) (err error) {
	if err = checkNotPaused(st); err != nil {
		return
	}

	var source *Account
	if source, err = GetAccount(st, from); err != nil {
		return
	}

	if err = source.Withdraw(amount); err != nil {
		return
	}

	return source.Save(st)
}

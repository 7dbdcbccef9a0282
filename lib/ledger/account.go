package ledger

import (
	"fmt"

	"remitnet.io/remit/lib/common"
	"remitnet.io/remit/lib/common/observer"
	"remitnet.io/remit/lib/errors"
	"remitnet.io/remit/lib/storage"
)

// Account is the balance record of one address. the storage should support,
//  * find by `Address`:
// 	- key: `Address`: value: `Account`
//  * get list by created order:
//
// models
//  * 'address'
// 	- 'ac-address-<Account.Address>': `Account`
//  * 'created'
// 	- 'ac-created-<sequential uuid1>': `Account.Address`

const AccountPrefixAddress string = "ac-address-"
const AccountPrefixCreated string = "ac-created-"

type Account struct {
	Address string        `json:"address"`
	Balance common.Amount `json:"balance"`
}

func NewAccount(address string, balance common.Amount) *Account {
	return &Account{
		Address: address,
		Balance: balance,
	}
}

func (a *Account) String() string {
	return string(common.MustJSONMarshal(a))
}

func (a *Account) Save(st *storage.LevelDBBackend) (err error) {
	key := GetAccountKey(a.Address)

	var exists bool
	exists, err = st.Has(key)
	if err != nil {
		return
	}

	if exists {
		err = st.Set(key, a)
	} else {
		if err = st.New(key, a); err != nil {
			return
		}
		createdKey := GetAccountCreatedKey(common.GetUniqueIDFromUUID())
		err = st.New(createdKey, a.Address)
	}
	if err == nil {
		observer.AccountObserver.Trigger(fmt.Sprintf("address-%s", a.Address), a)
	}

	return
}

func (a *Account) Serialize() (encoded []byte, err error) {
	encoded, err = common.EncodeJSONValue(a)
	return
}

func GetAccountKey(address string) string {
	return fmt.Sprintf("%s%s", AccountPrefixAddress, address)
}

func GetAccountCreatedKey(created string) string {
	return fmt.Sprintf("%s%s", AccountPrefixCreated, created)
}

func ExistsAccount(st *storage.LevelDBBackend, address string) (bool, error) {
	return st.Has(GetAccountKey(address))
}

func GetAccount(st *storage.LevelDBBackend, address string) (a *Account, err error) {
	if err = st.Get(GetAccountKey(address), &a); err != nil {
		if err == errors.StorageRecordDoesNotExist {
			err = errors.AccountNotFound.Clone().SetData("address", address)
		}
		return
	}

	return
}

func (a *Account) GetBalance() common.Amount {
	return a.Balance
}

// Add fund to an account
//
// If the amount would make the account overflow over the full supply of coin,
// an `error` is returned.
func (a *Account) Deposit(fund common.Amount) error {
	if val, err := a.GetBalance().Add(fund); err != nil {
		return err
	} else {
		a.Balance = val
	}
	return nil
}

// Remove fund from an account
//
// If the amount would make the account go negative, an `error` is returned.
func (a *Account) Withdraw(fund common.Amount) error {
	if val, err := a.GetBalance().Sub(fund); err != nil {
		return err
	} else {
		a.Balance = val
	}
	return nil
}

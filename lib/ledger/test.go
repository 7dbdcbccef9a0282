package ledger

import (
	"github.com/stellar/go/keypair"

	"remitnet.io/remit/lib/common"
	"remitnet.io/remit/lib/storage"
)

func TestMakeAccount(balance common.Amount) *Account {
	kp, _ := keypair.Random()

	return NewAccount(kp.Address(), balance)
}

func TestMakeSavedAccount(st *storage.LevelDBBackend, balance common.Amount) *Account {
	a := TestMakeAccount(balance)
	if err := a.Save(st); err != nil {
		panic(err)
	}

	return a
}

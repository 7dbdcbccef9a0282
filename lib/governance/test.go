package governance

import (
	"github.com/stellar/go/keypair"

	"remitnet.io/remit/lib/access"
	"remitnet.io/remit/lib/common"
	"remitnet.io/remit/lib/ledger"
	"remitnet.io/remit/lib/storage"
)

func TestMakeAddress() string {
	kp, _ := keypair.Random()
	return kp.Address()
}

func TestMakeValidators(ctrl access.Control, n int) []string {
	var addresses []string
	for i := 0; i < n; i++ {
		address := TestMakeAddress()
		if err := ctrl.GrantRole(access.RoleValidator, address); err != nil {
			panic(err)
		}
		addresses = append(addresses, address)
	}

	return addresses
}

func TestMakeEngine(st *storage.LevelDBBackend, treasuryBalance common.Amount, nValidators int) (*Engine, []string, string) {
	treasury := ledger.TestMakeSavedAccount(st, treasuryBalance)

	ctrl := access.NewStore(st)
	validators := TestMakeValidators(ctrl, nValidators)

	admin := TestMakeAddress()
	if err := ctrl.GrantRole(access.RoleAdmin, admin); err != nil {
		panic(err)
	}

	conf := NewConfig(treasury.Address)
	engine := NewEngine(st, conf, ctrl)

	return engine, validators, admin
}

package resource

import (
	"strings"

	"github.com/nvellon/hal"

	"remitnet.io/remit/lib/ledger"
)

type Account struct {
	a *ledger.Account
}

func NewAccount(a *ledger.Account) *Account {
	return &Account{
		a: a,
	}
}

func (a Account) GetMap() hal.Entry {
	return hal.Entry{
		"address": a.a.Address,
		"balance": a.a.Balance,
	}
}

func (a Account) Resource() *hal.Resource {
	return hal.NewResource(a, a.LinkSelf())
}

func (a Account) LinkSelf() string {
	return strings.Replace(URLAccounts, "{id}", a.a.Address, -1)
}

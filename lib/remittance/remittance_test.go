package remittance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"remitnet.io/remit/lib/common"
	"remitnet.io/remit/lib/errors"
	"remitnet.io/remit/lib/governance"
	"remitnet.io/remit/lib/ledger"
	"remitnet.io/remit/lib/storage"
)

func testMakeFacade(st *storage.LevelDBBackend, feeBasisPoints uint64) (*Facade, *ledger.Account) {
	treasury := ledger.TestMakeSavedAccount(st, common.Amount(0))

	conf := governance.NewConfig(treasury.Address)
	conf.FeeBasisPoints = feeBasisPoints

	return NewFacade(st, conf), treasury
}

func TestSendRemittanceConservesValue(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	facade, treasury := testMakeFacade(st, 50)
	sender := ledger.TestMakeSavedAccount(st, common.Amount(1000))
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))

	r, err := facade.SendRemittance(sender.Address, recipient.Address, common.Amount(1000), "PH-KR")
	require.Nil(t, err)
	require.Equal(t, common.Amount(995), r.NetAmount)
	require.Equal(t, common.Amount(5), r.Fee)
	require.Equal(t, "PH-KR", r.Corridor)

	senderBalance, _ := ledger.BalanceOf(st, sender.Address)
	recipientBalance, _ := ledger.BalanceOf(st, recipient.Address)
	treasuryBalance, _ := ledger.BalanceOf(st, treasury.Address)

	require.Equal(t, common.Amount(0), senderBalance)
	require.Equal(t, common.Amount(995), recipientBalance)
	require.Equal(t, common.Amount(5), treasuryBalance)

	// fee + net add up to exactly what the sender paid
	require.Equal(t, common.Amount(1000), r.NetAmount.MustAdd(r.Fee))
}

func TestSendRemittanceZeroFee(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	facade, treasury := testMakeFacade(st, 0)
	sender := ledger.TestMakeSavedAccount(st, common.Amount(1000))
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))

	r, err := facade.SendRemittance(sender.Address, recipient.Address, common.Amount(1000), "")
	require.Nil(t, err)
	require.Equal(t, common.Amount(0), r.Fee)
	require.Equal(t, common.Amount(1000), r.NetAmount)

	treasuryBalance, _ := ledger.BalanceOf(st, treasury.Address)
	require.Equal(t, common.Amount(0), treasuryBalance)
}

func TestSendRemittancePreconditions(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	facade, _ := testMakeFacade(st, 50)
	sender := ledger.TestMakeSavedAccount(st, common.Amount(1000))
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))

	{
		_, err := facade.SendRemittance(sender.Address, "", common.Amount(100), "")
		require.True(t, errors.InvalidRecipient.Equal(err))
	}
	{
		_, err := facade.SendRemittance(sender.Address, "showme", common.Amount(100), "")
		require.True(t, errors.InvalidRecipient.Equal(err))
	}
	{
		_, err := facade.SendRemittance(sender.Address, recipient.Address, common.Amount(0), "")
		require.True(t, errors.InvalidAmount.Equal(err))
	}

	senderBalance, _ := ledger.BalanceOf(st, sender.Address)
	require.Equal(t, common.Amount(1000), senderBalance)
}

func TestSendRemittancePaused(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	facade, _ := testMakeFacade(st, 50)
	sender := ledger.TestMakeSavedAccount(st, common.Amount(1000))
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))

	require.Nil(t, ledger.SetPaused(st, true))

	_, err := facade.SendRemittance(sender.Address, recipient.Address, common.Amount(1000), "")
	require.True(t, errors.LedgerPaused.Equal(err))

	senderBalance, _ := ledger.BalanceOf(st, sender.Address)
	require.Equal(t, common.Amount(1000), senderBalance)
}

func TestSendRemittanceHistory(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	facade, _ := testMakeFacade(st, 50)
	sender := ledger.TestMakeSavedAccount(st, common.Amount(10000))
	recipient := ledger.TestMakeSavedAccount(st, common.Amount(0))

	corridors := []string{"PH-KR", "MX-US", "NP-JP"}
	for _, corridor := range corridors {
		_, err := facade.SendRemittance(sender.Address, recipient.Address, common.Amount(1000), corridor)
		require.Nil(t, err)
	}

	var fetched []string
	iterFunc, closeFunc := GetRecordsBySent(st, nil)
	for {
		r, hasNext := iterFunc()
		if !hasNext {
			break
		}
		fetched = append(fetched, r.Corridor)
	}
	closeFunc()

	require.Equal(t, corridors, fetched)
}

func TestBatchTransfer(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	facade, _ := testMakeFacade(st, 50)
	sender := ledger.TestMakeSavedAccount(st, common.Amount(1000))

	var targets []string
	var amounts []common.Amount
	for i := 0; i < 3; i++ {
		a := ledger.TestMakeSavedAccount(st, common.Amount(0))
		targets = append(targets, a.Address)
		amounts = append(amounts, common.Amount(100))
	}

	require.Nil(t, facade.BatchTransfer(sender.Address, targets, amounts))

	// batch transfers are fee-free
	senderBalance, _ := ledger.BalanceOf(st, sender.Address)
	require.Equal(t, common.Amount(700), senderBalance)

	for _, target := range targets {
		balance, _ := ledger.BalanceOf(st, target)
		require.Equal(t, common.Amount(100), balance)
	}
}

func TestBatchTransferAtomic(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	facade, _ := testMakeFacade(st, 50)
	sender := ledger.TestMakeSavedAccount(st, common.Amount(1000))

	first := ledger.TestMakeSavedAccount(st, common.Amount(0))
	// an address that parses but has no account on the ledger
	missing := ledger.TestMakeAccount(common.Amount(0))

	err := facade.BatchTransfer(
		sender.Address,
		[]string{first.Address, missing.Address},
		[]common.Amount{common.Amount(100), common.Amount(100)},
	)
	require.True(t, errors.AccountNotFound.Equal(err))

	// the first transfer was rolled back with the failed one
	senderBalance, _ := ledger.BalanceOf(st, sender.Address)
	firstBalance, _ := ledger.BalanceOf(st, first.Address)
	require.Equal(t, common.Amount(1000), senderBalance)
	require.Equal(t, common.Amount(0), firstBalance)
}

func TestBatchTransferPreconditions(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	facade, _ := testMakeFacade(st, 50)
	sender := ledger.TestMakeSavedAccount(st, common.Amount(1000))
	target := ledger.TestMakeSavedAccount(st, common.Amount(0))

	{
		err := facade.BatchTransfer(sender.Address, []string{target.Address}, nil)
		require.True(t, errors.ArrayLengthMismatch.Equal(err))
	}

	{
		targets := make([]string, MaxBatchRecipients+1)
		amounts := make([]common.Amount, MaxBatchRecipients+1)
		for i := range targets {
			targets[i] = target.Address
			amounts[i] = common.Amount(1)
		}
		err := facade.BatchTransfer(sender.Address, targets, amounts)
		require.True(t, errors.TooManyRecipients.Equal(err))
	}

	{
		err := facade.BatchTransfer(sender.Address, []string{"showme"}, []common.Amount{common.Amount(1)})
		require.True(t, errors.InvalidRecipient.Equal(err))
	}

	{
		err := facade.BatchTransfer(sender.Address, []string{target.Address}, []common.Amount{common.Amount(0)})
		require.True(t, errors.InvalidAmount.Equal(err))
	}

	senderBalance, _ := ledger.BalanceOf(st, sender.Address)
	require.Equal(t, common.Amount(1000), senderBalance)
}

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/stellar/go/keypair"

	"remitnet.io/remit/lib/access"
	remitcommon "remitnet.io/remit/lib/common"
	"remitnet.io/remit/lib/ledger"
	remitstorage "remitnet.io/remit/lib/storage"

	"remitnet.io/remit/cmd/remit/common"
)

const (
	initialTreasuryBalance = "1,000,000.0000000"
)

var (
	flagBalance string = remitcommon.GetENVValue("REMIT_GENESIS_BALANCE", initialTreasuryBalance)
)

func init() {
	var genesisCmd = &cobra.Command{
		Use:   "genesis <treasury public key>",
		Short: "initialize a new ledger",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			flagName, err := MakeGenesis(args[0], flagBalance, flagStorageConfigString, flagAdmin, flagValidators)
			if len(flagName) != 0 || err != nil {
				common.PrintFlagsError(c, flagName, err)
			}

			fmt.Println("successfully created genesis ledger")
		},
	}

	genesisCmd.Flags().StringVar(&flagBalance, "balance", flagBalance, "initial balance of the treasury account")
	genesisCmd.Flags().StringVar(&flagStorageConfigString, "storage", flagStorageConfigString, "storage uri")
	genesisCmd.Flags().StringVar(&flagAdmin, "admin", flagAdmin, "address granted the admin role")
	genesisCmd.Flags().Var(&flagValidators, "validator", "address granted the validator role; can be used multiple times")

	rootCmd.AddCommand(genesisCmd)
}

// MakeGenesis creates the treasury account and seeds the role registry.
// It is public so `run --genesis` can reuse it with the same defaults and
// error messages.
//
// Returns the name of the offending flag and an error; either one being
// non-empty means failure.
func MakeGenesis(addressStr, balanceStr, storageString, adminStr string, validatorStrs common.ListFlags) (string, error) {
	var err error

	var kp keypair.KP
	if kp, err = keypair.Parse(addressStr); err != nil {
		return "<treasury public key>", err
	}

	if len(balanceStr) == 0 {
		balanceStr = initialTreasuryBalance
	}

	var balance remitcommon.Amount
	if balance, err = common.ParseAmountFromString(balanceStr); err != nil {
		return "--balance", err
	}

	if len(adminStr) > 0 {
		if _, err = keypair.Parse(adminStr); err != nil {
			return "--admin", err
		}
	}
	for _, v := range validatorStrs {
		if _, err = keypair.Parse(v); err != nil {
			return "--validator", err
		}
	}

	// Use the default value
	if len(storageString) == 0 {
		storageString = remitcommon.GetENVValue("REMIT_STORAGE", "")
		if len(storageString) == 0 {
			if currentDirectory, err := os.Getwd(); err == nil {
				if currentDirectory, err = filepath.Abs(currentDirectory); err == nil {
					storageString = fmt.Sprintf("file://%s/db", currentDirectory)
				}
			}
			if len(storageString) == 0 {
				return "--storage", err
			}
		}
	}

	var storageConfig *remitstorage.Config
	if storageConfig, err = remitstorage.NewConfigFromString(storageString); err != nil {
		return "--storage", err
	}

	st, err := remitstorage.NewStorage(storageConfig)
	if err != nil {
		return "--storage", fmt.Errorf("failed to initialize storage: %v", err)
	}
	defer st.Close()

	if exists, err := ledger.ExistsAccount(st, kp.Address()); err != nil {
		return "--storage", err
	} else if exists {
		return "<treasury public key>", errors.New("treasury account is already created")
	}

	if _, err = ledger.CreateAccount(st, kp.Address(), balance); err != nil {
		return "<treasury public key>", err
	}

	ctrl := access.NewStore(st)
	if len(adminStr) > 0 {
		if err = ctrl.GrantRole(access.RoleAdmin, adminStr); err != nil {
			return "--admin", err
		}
	}
	for _, v := range validatorStrs {
		if err = ctrl.GrantRole(access.RoleValidator, v); err != nil {
			return "--validator", err
		}
	}

	return "", nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	logging "github.com/inconshreveable/log15"
	isatty "github.com/mattn/go-isatty"
	"github.com/oklog/run"
	"github.com/spf13/cobra"
	"github.com/ulule/limiter"

	"remitnet.io/remit/lib/access"
	remitcommon "remitnet.io/remit/lib/common"
	"remitnet.io/remit/lib/governance"
	"remitnet.io/remit/lib/ledger"
	"remitnet.io/remit/lib/network"
	"remitnet.io/remit/lib/network/api"
	"remitnet.io/remit/lib/remittance"
	remitstorage "remitnet.io/remit/lib/storage"

	"remitnet.io/remit/cmd/remit/common"
)

const defaultBindAddr string = "0.0.0.0:12345"
const defaultLogLevel logging.Lvl = logging.LvlInfo

var (
	flagBindAddr  string = remitcommon.GetENVValue("REMIT_BIND", defaultBindAddr)
	flagLogLevel  string = remitcommon.GetENVValue("REMIT_LOG_LEVEL", defaultLogLevel.String())
	flagLogOutput string = remitcommon.GetENVValue("REMIT_LOG_OUTPUT", "")
	flagTreasury  string = remitcommon.GetENVValue("REMIT_TREASURY", "")
	flagAdmin     string = remitcommon.GetENVValue("REMIT_ADMIN", "")
	flagGenesis   string

	flagTLSCertFile string = remitcommon.GetENVValue("REMIT_TLS_CERT", "")
	flagTLSKeyFile  string = remitcommon.GetENVValue("REMIT_TLS_KEY", "")

	flagStorageConfigString string = remitcommon.GetENVValue("REMIT_STORAGE", "")
	flagValidators          common.ListFlags
	flagRateLimitAPI        common.ListFlags
)

var (
	runCmd *cobra.Command

	storageConfig *remitstorage.Config
	rateLimitRule remitcommon.RateLimitRule
	logLevel      logging.Lvl
	log           logging.Logger
)

func init() {
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the remit api server",
		Run: func(c *cobra.Command, args []string) {
			parseRunFlags(c)

			// `--genesis` performs `remit genesis` before starting the
			// server, which allows one-step startup from scratch.
			if len(flagGenesis) != 0 {
				var balanceStr string
				csv := strings.Split(flagGenesis, ",")
				if len(csv) > 2 {
					common.PrintFlagsError(c, "--genesis",
						errors.New("--genesis expects address[,balance], but more than 2 commas detected"))
				}
				if len(csv) == 2 {
					balanceStr = csv[1]
				}

				flagName, err := MakeGenesis(csv[0], balanceStr, flagStorageConfigString, flagAdmin, flagValidators)
				if len(flagName) != 0 || err != nil {
					common.PrintFlagsError(c, flagName, err)
				}
				if len(flagTreasury) == 0 {
					flagTreasury = csv[0]
				}
			}

			if err := runServer(); err != nil {
				common.PrintError(c, err)
			}
		},
	}

	runCmd.Flags().StringVar(&flagBindAddr, "bind", flagBindAddr, "address the api server listens on")
	runCmd.Flags().StringVar(&flagStorageConfigString, "storage", flagStorageConfigString, "storage uri")
	runCmd.Flags().StringVar(&flagTreasury, "treasury", flagTreasury, "treasury account address")
	runCmd.Flags().StringVar(&flagAdmin, "admin", flagAdmin, "address granted the admin role")
	runCmd.Flags().Var(&flagValidators, "validator", "address granted the validator role; can be used multiple times")
	runCmd.Flags().StringVar(&flagGenesis, "genesis", flagGenesis, "run genesis before starting: address[,balance]")
	runCmd.Flags().StringVar(&flagTLSCertFile, "tls-cert", flagTLSCertFile, "tls certificate file")
	runCmd.Flags().StringVar(&flagTLSKeyFile, "tls-key", flagTLSKeyFile, "tls key file")
	runCmd.Flags().Var(&flagRateLimitAPI, "rate-limit-api", "rate limit for api: [<ip>=]<limit>-<period>; '100-S' '1.2.3.4=1000-M'")
	runCmd.Flags().StringVar(&flagLogLevel, "log-level", flagLogLevel, "log level, {crit, error, warn, info, debug}")
	runCmd.Flags().StringVar(&flagLogOutput, "log-output", flagLogOutput, "set log output file")

	rootCmd.AddCommand(runCmd)
}

// parseFlagRateLimit turns repeated `--rate-limit-api` values into one
// rule. Entries of the form `<ip>=<rate>` become per-address overrides;
// a bare `<rate>` replaces the default. A zero limit disables limiting.
func parseFlagRateLimit(l common.ListFlags, defaultRate limiter.Rate) (rule remitcommon.RateLimitRule, err error) {
	if len(l) < 1 {
		rule = remitcommon.NewRateLimitRule(defaultRate)
		return
	}

	var givenRate limiter.Rate
	var defaultGiven bool
	byIPAddress := map[string]limiter.Rate{}

	for _, s := range l {
		sl := strings.SplitN(s, "=", 2)

		var ip, r string
		if len(sl) < 2 {
			r = s
		} else {
			ip, r = sl[0], sl[1]
		}

		if len(ip) > 0 && net.ParseIP(ip) == nil {
			err = fmt.Errorf("invalid ip address: '%s'", ip)
			return
		}

		var rate limiter.Rate
		if rate, err = limiter.NewRateFromFormatted(strings.ToUpper(r)); err != nil {
			return
		}

		if len(ip) > 0 {
			byIPAddress[ip] = rate
		} else {
			givenRate = rate
			defaultGiven = true
		}
	}

	if !defaultGiven {
		givenRate = defaultRate
	}

	rule = remitcommon.NewRateLimitRule(givenRate)
	rule.ByIPAddress = byIPAddress

	return
}

func parseRunFlags(c *cobra.Command) {
	var err error

	if len(flagStorageConfigString) == 0 {
		if currentDirectory, err := os.Getwd(); err == nil {
			flagStorageConfigString = fmt.Sprintf("file://%s/db", currentDirectory)
		} else {
			common.PrintFlagsError(c, "--storage", err)
		}
	}
	if storageConfig, err = remitstorage.NewConfigFromString(flagStorageConfigString); err != nil {
		common.PrintFlagsError(c, "--storage", err)
	}

	if len(flagTreasury) == 0 && len(flagGenesis) == 0 {
		common.PrintFlagsError(c, "--treasury", errors.New("--treasury must be given"))
	}

	if rateLimitRule, err = parseFlagRateLimit(flagRateLimitAPI, remitcommon.RateLimitAPI); err != nil {
		common.PrintFlagsError(c, "--rate-limit-api", err)
	}

	// tls is optional; when either file is given both must exist
	if len(flagTLSCertFile) > 0 || len(flagTLSKeyFile) > 0 {
		if _, err = os.Stat(flagTLSCertFile); err != nil {
			common.PrintFlagsError(c, "--tls-cert", err)
		}
		if _, err = os.Stat(flagTLSKeyFile); err != nil {
			common.PrintFlagsError(c, "--tls-key", err)
		}
	}

	if logLevel, err = logging.LvlFromString(flagLogLevel); err != nil {
		common.PrintFlagsError(c, "--log-level", err)
	}

	var logHandler logging.Handler
	var formatter logging.Format
	if isatty.IsTerminal(os.Stdout.Fd()) {
		formatter = logging.TerminalFormat()
	} else {
		formatter = remitcommon.JsonFormatEx(false, true)
	}
	logHandler = logging.StreamHandler(os.Stdout, formatter)

	if len(flagLogOutput) == 0 {
		flagLogOutput = "<stdout>"
	} else {
		if logHandler, err = logging.FileHandler(flagLogOutput, formatter); err != nil {
			common.PrintFlagsError(c, "--log-output", err)
		}
	}

	log = logging.New("module", "main")
	remitcommon.SetLogging(log, logLevel, logHandler)
	ledger.SetLogging(logLevel, logHandler)
	governance.SetLogging(logLevel, logHandler)
	remittance.SetLogging(logLevel, logHandler)
	network.SetLogging(logLevel, logHandler)
	api.SetLogging(logLevel, logHandler)
}

func runServer() error {
	st, err := remitstorage.NewStorage(storageConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %v", err)
	}
	defer st.Close()

	if exists, err := ledger.ExistsAccount(st, flagTreasury); err != nil {
		return err
	} else if !exists {
		return fmt.Errorf("treasury account '%s' does not exist; run `genesis` first", flagTreasury)
	}

	ctrl := access.NewStore(st)
	conf := governance.NewConfig(flagTreasury)
	engine := governance.NewEngine(st, conf, ctrl)
	facade := remittance.NewFacade(st, conf)

	handler := api.NewNetworkHandlerAPI(st, engine, facade, ctrl)

	serverConfig := network.NewServerConfig(flagBindAddr)
	serverConfig.RateLimit = rateLimitRule
	serverConfig.TLSCertFile = flagTLSCertFile
	serverConfig.TLSKeyFile = flagTLSKeyFile
	server := network.NewServer(serverConfig, handler.Router())

	log.Info("starting remit",
		"bind", flagBindAddr,
		"storage", flagStorageConfigString,
		"treasury", flagTreasury,
		"log-level", flagLogLevel,
		"log-output", flagLogOutput,
	)

	// Execution group.
	var g run.Group
	{
		g.Add(func() error {
			if err := server.Start(); err != nil && err != http.ErrServerClosed {
				log.Crit("failed to run api server", "error", err)
				return err
			}
			return nil
		}, func(error) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Stop(ctx); err != nil {
				log.Error("failed to stop api server", "error", err)
			}
		})
	}
	{
		cancel := make(chan struct{})
		g.Add(func() error {
			return common.Interrupt(cancel)
		}, func(error) {
			close(cancel)
		})
	}

	return g.Run()
}

package key

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/stellar/go/keypair"

	"remitnet.io/remit/cmd/remit/common"
)

var (
	GenerateCmd *cobra.Command

	flagPublicKey bool
	flagFormat    string
)

type keyPair struct {
	Seed    string `json:"seed" yaml:"seed"`
	Address string `json:"address" yaml:"address"`
}

var defaultTemplate = template.Must(template.New("").Parse(`   Secret Seed: {{ .Seed }}
Public Address: {{ .Address }}
`))

func defaultEncode(v interface{}, w io.Writer) error {
	return defaultTemplate.Execute(w, v)
}

func onelineEncode(v interface{}, w io.Writer) error {
	kp := v.(keyPair)
	_, err := fmt.Fprintf(w, "%s %s\n", kp.Seed, kp.Address)
	return err
}

func init() {
	GenerateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate keypair",
		Run: func(c *cobra.Command, args []string) {
			input := strings.TrimSpace(strings.Join(args, " "))

			if flagPublicKey && len(input) == 0 {
				common.PrintFlagsError(c, "--parse", errors.New("--parse needs <secret seed>"))
			}

			kp, err := generateKP(input, flagPublicKey)
			if err != nil {
				common.PrintFlagsError(c, "<input>", fmt.Errorf("failed to make keypair: %v", err))
			}

			encoders := map[string]common.Encode{
				"json":       common.DefaultEncodes["json"],
				"prettyjson": common.DefaultEncodes["prettyjson"],
				"yaml":       common.DefaultEncodes["yaml"],
				"default":    defaultEncode,
				"oneline":    onelineEncode,
			}

			encode, ok := encoders[flagFormat]
			if !ok {
				common.PrintFlagsError(c, "--format", fmt.Errorf(`"%s" not recognized`, flagFormat))
			}

			if err := encode(keyPair{Seed: kp.Seed(), Address: kp.Address()}, os.Stdout); err != nil {
				common.PrintError(c, err)
			}
		},
	}

	GenerateCmd.Flags().BoolVar(&flagPublicKey, "parse", false, "parse secret seed")
	GenerateCmd.Flags().StringVar(&flagFormat, "format", "default", "format={default, json, oneline, prettyjson, yaml}")
}

func generateKP(seed string, fromSeed bool) (full *keypair.Full, err error) {
	if len(seed) == 0 {
		return keypair.Random()
	}

	if fromSeed {
		var kp keypair.KP
		if kp, err = keypair.Parse(seed); err != nil {
			return
		}

		kf, ok := kp.(*keypair.Full)
		if !ok {
			return nil, fmt.Errorf("not a secret seed")
		}
		return kf, nil
	}

	return keypair.Master(seed).(*keypair.Full), nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return newRootCmd(viper.New()).ExecuteContext(context.Background())
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	v.SetEnvPrefix("PRIZEPOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "prizepool",
		Short: "Prize pool treasury operator",
		Long: `prizepool - operate token prize pools.

Each pool holds a treasury for one token mint. Only the pool authority can
distribute or withdraw from it.

Setup:
  prizepool init                     Create the operator wallet
  prizepool whoami                   Print the operator identity

Pools:
  prizepool pool create              Create a pool for --mint
  prizepool pool status              Show counters and treasury balance
  prizepool deposit <amount>         Fund the treasury
  prizepool distribute               Pay up to 10 recipients
  prizepool withdraw <amount> <to>   Move funds out of the treasury`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("data-dir", "", "data directory (default ~/.prizepool)")
	flags.String("network", "", "network (mainnet, devnet, localnet)")
	flags.String("program", "", "program identity hex")
	flags.String("mint", "", "token mint identity hex")
	flags.String("operator", "", "operator name (default operator if empty)")
	flags.String("password", "", "wallet password (or PRIZEPOOL_PASSWORD)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")
	flags.StringP("output", "o", "text", "output format (text, json)")
	for _, name := range []string{
		"data-dir", "network", "program", "mint", "operator",
		"password", "log-level", "log-format", "output",
	} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(
		newInitCmd(v),
		newWhoamiCmd(v),
		newPoolCmd(v),
		newDepositCmd(v),
		newDistributeCmd(v),
		newWithdrawCmd(v),
		newAuthorityCmd(v),
		newAccountCmd(v),
		newPlayerCmd(v),
	)
	return rootCmd
}

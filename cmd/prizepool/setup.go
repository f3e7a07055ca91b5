package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/madurogg/libprizepool-go/config"
	"github.com/madurogg/libprizepool-go/wallet"
)

// withEnv opens the command environment, runs fn, and closes it.
func withEnv(v *viper.Viper, cmd *cobra.Command, fn func(e *env) error) (err error) {
	e, err := openEnv(v, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, e.Close())
	}()
	return fn(e)
}

func newInitCmd(v *viper.Viper) *cobra.Command {
	var mnemonic string
	var words int

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the operator wallet",
		Long: `Create the operator wallet in the data directory.

A new mnemonic is generated unless --mnemonic restores an existing one.
The seed is encrypted with --password (or PRIZEPOOL_PASSWORD).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			password := v.GetString("password")
			if password == "" {
				return errors.New("a wallet password is required")
			}
			if _, err := wallet.LoadSeed(cfg.DataDir, password); !errors.Is(err, wallet.ErrSeedNotFound) {
				return fmt.Errorf("wallet already initialized in %s", cfg.DataDir)
			}

			generated := mnemonic == ""
			if generated {
				bits := wallet.Mnemonic12Words
				if words == 24 {
					bits = wallet.Mnemonic24Words
				}
				if mnemonic, err = wallet.GenerateMnemonic(bits); err != nil {
					return err
				}
			}
			seed, err := wallet.SeedFromMnemonic(mnemonic, "")
			if err != nil {
				return err
			}
			if err := wallet.SaveSeed(cfg.DataDir, seed, password); err != nil {
				return err
			}

			state := wallet.NewState()
			if _, err := state.CreateOperator("default"); err != nil {
				return err
			}
			if err := wallet.SaveState(cfg.DataDir, state); err != nil {
				return err
			}

			path := config.ConfigPath(cfg.DataDir)
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				if err := config.SaveConfig(path, cfg); err != nil {
					return err
				}
			}

			kp, err := operatorKey(v, cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if generated {
				fmt.Fprintf(out, "mnemonic: %s\n", mnemonic)
				fmt.Fprintln(out, "write it down; it is the only way to recover the operator key")
			}
			fmt.Fprintf(out, "operator: %s\n", kp.Identity)
			return nil
		},
	}
	cmd.Flags().StringVar(&mnemonic, "mnemonic", "", "restore from an existing mnemonic")
	cmd.Flags().IntVar(&words, "words", 12, "mnemonic length (12 or 24)")
	return cmd
}

func newWhoamiCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the operator identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			kp, err := operatorKey(v, cfg)
			if err != nil {
				return err
			}
			state, err := wallet.LoadState(cfg.DataDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, kp.Identity)
			fmt.Fprintf(out, "  path: %s\n", kp.Path)
			printOperators(out, state)
			return nil
		},
	}
}

func printOperators(w io.Writer, state *wallet.State) {
	for _, op := range state.ListOperators() {
		marker := ""
		if op.Name == state.Default {
			marker = " (default)"
		}
		fmt.Fprintf(w, "  operator %s: account %d%s\n", op.Name, op.Index, marker)
	}
}

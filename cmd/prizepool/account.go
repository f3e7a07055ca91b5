package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/madurogg/libprizepool-go/identity"
	"github.com/madurogg/libprizepool-go/ledger"
	"github.com/madurogg/libprizepool-go/token"
	"github.com/madurogg/libprizepool-go/wallet"
)

// errFaucetDisabled is returned by "account mint" on production networks.
var errFaucetDisabled = errors.New("minting is only available on non-production networks")

func newAccountCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage token accounts",
	}
	cmd.AddCommand(newAccountOpenCmd(v), newAccountMintCmd(v), newAccountBalanceCmd(v))
	return cmd
}

func newAccountOpenCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "open [owner]",
		Short: "Open the associated token account of owner (default: operator)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(v, cmd, func(e *env) error {
				mint, err := e.mint()
				if err != nil {
					return err
				}
				owner, err := e.signedCaller(v, "open_account", map[string]any{"mint": mint.String(), "args": args})
				if err != nil {
					return err
				}
				if len(args) == 1 {
					if owner, err = identity.Parse(args[0]); err != nil {
						return err
					}
				}
				addr, err := token.AssociatedAddress(e.program, owner, mint)
				if err != nil {
					return err
				}
				var acct *ledger.Account
				err = e.store.Update(func(tx ledger.Tx) error {
					var err error
					acct, err = token.OpenAccount(tx, addr, mint, owner)
					return err
				})
				if err != nil {
					return err
				}
				return e.print(acct, func(w io.Writer) { printAccount(w, acct) })
			})
		},
	}
}

func newAccountMintCmd(v *viper.Viper) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "mint <amount>",
		Short: "Credit test tokens to an account (non-production networks only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return withEnv(v, cmd, func(e *env) error {
				network, err := wallet.GetNetwork(e.cfg.Network)
				if err != nil {
					return err
				}
				if network.Production {
					return fmt.Errorf("%w (network %s)", errFaucetDisabled, network.Name)
				}
				mint, err := e.mint()
				if err != nil {
					return err
				}
				caller, err := e.signedCaller(v, "mint", map[string]any{"mint": mint.String(), "amount": amount, "to": to})
				if err != nil {
					return err
				}
				addr, err := accountOrAssociated(e, to, caller, mint)
				if err != nil {
					return err
				}
				err = e.store.Update(func(tx ledger.Tx) error {
					return token.MintTo(tx, addr, amount)
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "minted %d to %s\n", amount, addr.Short())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "destination account (default: operator's associated account)")
	return cmd
}

func newAccountBalanceCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [account]",
		Short: "Show an account balance (default: operator's associated account)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(v, cmd, func(e *env) error {
				var addr identity.Identity
				if len(args) == 1 {
					var err error
					if addr, err = identity.Parse(args[0]); err != nil {
						return err
					}
				} else {
					mint, err := e.mint()
					if err != nil {
						return err
					}
					kp, err := operatorKey(v, e.cfg)
					if err != nil {
						return err
					}
					if addr, err = token.AssociatedAddress(e.program, kp.Identity, mint); err != nil {
						return err
					}
				}
				balance, err := accountBalance(e, addr)
				if err != nil {
					return err
				}
				return e.print(map[string]any{"address": addr, "balance": balance}, func(w io.Writer) {
					fmt.Fprintf(w, "%s  %d\n", addr, balance)
				})
			})
		},
	}
}

func printAccount(w io.Writer, a *ledger.Account) {
	fmt.Fprintf(w, "address:  %s\n", a.Address)
	fmt.Fprintf(w, "mint:     %s\n", a.Mint)
	fmt.Fprintf(w, "owner:    %s\n", a.Owner)
	fmt.Fprintf(w, "balance:  %d\n", a.Amount)
}

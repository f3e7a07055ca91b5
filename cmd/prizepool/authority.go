package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/madurogg/libprizepool-go/identity"
	"github.com/madurogg/libprizepool-go/treasury"
)

func newAuthorityCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authority",
		Short: "Hand pool control to another identity",
		Long: `Hand pool control to another identity.

"transfer" replaces the authority immediately. "propose" followed by
"accept" (run by the candidate) requires the new authority to prove it
holds its key before control moves.`,
	}
	cmd.AddCommand(
		newAuthorityChangeCmd(v, "transfer", "Replace the pool authority immediately", treasury.OpTransferAuthority),
		newAuthorityChangeCmd(v, "propose", "Nominate a new authority (zero identity cancels)", treasury.OpProposeAuthority),
		newAuthorityAcceptCmd(v),
	)
	return cmd
}

func newAuthorityChangeCmd(v *viper.Viper, use, short, op string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <identity>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := identity.Parse(args[0])
			if err != nil {
				return err
			}
			return withEnv(v, cmd, func(e *env) error {
				mint, err := e.mint()
				if err != nil {
					return err
				}
				caller, err := e.signedCaller(v, op, map[string]string{
					"mint": mint.String(), "authority": target.String(),
				})
				if err != nil {
					return err
				}
				if op == treasury.OpTransferAuthority {
					err = e.engine.TransferAuthority(cmd.Context(), caller, mint, target)
				} else {
					err = e.engine.ProposeAuthority(cmd.Context(), caller, mint, target)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "%s: %s\n", op, target)
				return nil
			})
		},
	}
}

func newAuthorityAcceptCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "accept",
		Short: "Accept a pending nomination as the operator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(v, cmd, func(e *env) error {
				mint, err := e.mint()
				if err != nil {
					return err
				}
				caller, err := e.signedCaller(v, treasury.OpAcceptAuthority, map[string]string{"mint": mint.String()})
				if err != nil {
					return err
				}
				if err := e.engine.AcceptAuthority(cmd.Context(), caller, mint); err != nil {
					return err
				}
				fmt.Fprintf(e.out, "authority is now %s\n", caller)
				return nil
			})
		},
	}
}

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/madurogg/libprizepool-go/ledger"
	"github.com/madurogg/libprizepool-go/treasury"
)

func newPoolCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Create and inspect pools",
	}
	cmd.AddCommand(newPoolCreateCmd(v), newPoolStatusCmd(v), newPoolHistoryCmd(v))
	return cmd
}

func newPoolCreateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create the pool for --mint with the operator as authority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(v, cmd, func(e *env) error {
				mint, err := e.mint()
				if err != nil {
					return err
				}
				caller, err := e.signedCaller(v, treasury.OpCreatePool, map[string]string{"mint": mint.String()})
				if err != nil {
					return err
				}
				pool, err := e.engine.CreatePool(cmd.Context(), caller, mint)
				if err != nil {
					return err
				}
				return e.print(pool, func(w io.Writer) { printPool(w, pool, 0) })
			})
		},
	}
}

func newPoolStatusCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the pool for --mint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(v, cmd, func(e *env) error {
				mint, err := e.mint()
				if err != nil {
					return err
				}
				pool, err := e.engine.Pool(cmd.Context(), mint)
				if err != nil {
					return err
				}
				balance, err := e.engine.TreasuryBalance(cmd.Context(), mint)
				if err != nil {
					return err
				}
				poolAddr, err := e.engine.PoolAddress(mint)
				if err != nil {
					return err
				}
				status := struct {
					*ledger.Pool
					Address string
					Balance uint64
				}{pool, poolAddr.String(), balance}
				return e.print(status, func(w io.Writer) {
					fmt.Fprintf(w, "address:            %s\n", poolAddr)
					printPool(w, pool, balance)
				})
			})
		},
	}
}

func newPoolHistoryCmd(v *viper.Viper) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent distributions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(v, cmd, func(e *env) error {
				mint, err := e.mint()
				if err != nil {
					return err
				}
				receipts, err := e.engine.History(cmd.Context(), mint, limit)
				if err != nil {
					return err
				}
				return e.print(receipts, func(w io.Writer) {
					for _, r := range receipts {
						printReceipt(w, r)
					}
				})
			})
		},
	}
	// Matches the snapshot depth the game server keeps.
	cmd.Flags().IntVar(&limit, "limit", 24, "maximum receipts to show (0 for all)")
	return cmd
}

func printPool(w io.Writer, p *ledger.Pool, balance uint64) {
	fmt.Fprintf(w, "mint:               %s\n", p.TokenMint)
	fmt.Fprintf(w, "authority:          %s\n", p.Authority)
	if !p.PendingAuthority.IsZero() {
		fmt.Fprintf(w, "pending authority:  %s\n", p.PendingAuthority)
	}
	fmt.Fprintf(w, "treasury:           %s (bump %d)\n", p.Treasury, p.Bump)
	fmt.Fprintf(w, "balance:            %d\n", balance)
	fmt.Fprintf(w, "total distributed:  %d\n", p.TotalDistributed)
	fmt.Fprintf(w, "distributions:      %d\n", p.DistributionCount)
	if p.LastDistribution != 0 {
		fmt.Fprintf(w, "last distribution:  %s\n", time.Unix(p.LastDistribution, 0).UTC().Format(time.RFC3339))
	}
}

func printReceipt(w io.Writer, r *ledger.Receipt) {
	fmt.Fprintf(w, "#%d %s total=%d at %s\n", r.Sequence, r.ID,
		r.Total, time.Unix(r.Timestamp, 0).UTC().Format(time.RFC3339))
	for _, p := range r.Payouts {
		if p.Amount == 0 {
			continue
		}
		fmt.Fprintf(w, "  %2d  %s  %d\n", p.Index, p.Recipient.Short(), p.Amount)
	}
}

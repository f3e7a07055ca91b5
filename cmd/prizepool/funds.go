package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/madurogg/libprizepool-go/identity"
	"github.com/madurogg/libprizepool-go/ledger"
	"github.com/madurogg/libprizepool-go/payout"
	"github.com/madurogg/libprizepool-go/token"
	"github.com/madurogg/libprizepool-go/treasury"
)

func parseAmount(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return n, nil
}

func newDepositCmd(v *viper.Viper) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "deposit <amount>",
		Short: "Move tokens from an operator account into the treasury",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return withEnv(v, cmd, func(e *env) error {
				mint, err := e.mint()
				if err != nil {
					return err
				}
				caller, err := e.signedCaller(v, treasury.OpDeposit, map[string]any{
					"mint": mint.String(), "amount": amount, "from": from,
				})
				if err != nil {
					return err
				}
				src, err := accountOrAssociated(e, from, caller, mint)
				if err != nil {
					return err
				}
				if err := e.engine.Deposit(cmd.Context(), caller, mint, src, amount); err != nil {
					return err
				}
				fmt.Fprintf(e.out, "deposited %d from %s\n", amount, src.Short())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "source account (default: operator's associated account)")
	return cmd
}

func newWithdrawCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <amount> <destination>",
		Short: "Move tokens out of the treasury (authority only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			dest, err := identity.Parse(args[1])
			if err != nil {
				return err
			}
			return withEnv(v, cmd, func(e *env) error {
				mint, err := e.mint()
				if err != nil {
					return err
				}
				caller, err := e.signedCaller(v, treasury.OpWithdraw, map[string]any{
					"mint": mint.String(), "amount": amount, "destination": dest.String(),
				})
				if err != nil {
					return err
				}
				if err := e.engine.Withdraw(cmd.Context(), caller, mint, amount, dest); err != nil {
					return err
				}
				fmt.Fprintf(e.out, "withdrew %d to %s\n", amount, dest.Short())
				return nil
			})
		},
	}
}

func newDistributeCmd(v *viper.Viper) *cobra.Command {
	var (
		amounts     []string
		recipients  []string
		leaderboard string
		fromPlayers bool
		dryRun      bool
		planFile    string
	)
	cmd := &cobra.Command{
		Use:   "distribute",
		Short: "Pay up to 10 recipients from the treasury (authority only)",
		Long: `Pay up to 10 recipients from the treasury in one all-or-nothing batch.

The batch is given either explicitly:
  prizepool distribute --amount 100 --recipient <acct> --amount 50 --recipient <acct>

or planned from a ranked leaderboard, paying at most maxround basis points
of the treasury (and at most maxroundfixed units) split by the reward tier
for the player count. Players holding less than minholding are skipped:
  prizepool distribute --leaderboard standings.json
  prizepool distribute --from-players

A batch saved from --dry-run -o json can be paid later with --plan; it is
paid only if it still matches what the leaderboard plans now:
  prizepool distribute --from-players --plan batch.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(v, cmd, func(e *env) error {
				mint, err := e.mint()
				if err != nil {
					return err
				}

				var standings []payout.Standing
				switch {
				case leaderboard != "" && fromPlayers:
					return errors.New("--leaderboard and --from-players are exclusive")
				case leaderboard != "":
					if standings, err = readStandings(leaderboard); err != nil {
						return err
					}
				case fromPlayers:
					if standings, err = e.registry.Standings(cmd.Context(), e.program, mint, 0); err != nil {
						return err
					}
				}

				batch := &payout.Batch{}
				if standings != nil {
					if len(amounts) > 0 || len(recipients) > 0 {
						return errors.New("explicit --amount/--recipient cannot be combined with a leaderboard")
					}
					if err := refreshHoldings(e, standings); err != nil {
						return err
					}
					balance, err := e.engine.TreasuryBalance(cmd.Context(), mint)
					if err != nil {
						return err
					}
					policy := e.policy()
					if planFile != "" {
						if batch, err = readBatch(planFile); err != nil {
							return err
						}
						if err := payout.Verify(batch, balance, standings, policy); err != nil {
							return err
						}
					} else if batch, err = payout.Plan(balance, standings, policy); err != nil {
						return err
					}
				} else {
					if planFile != "" {
						return errors.New("--plan needs --leaderboard or --from-players to verify against")
					}
					for _, a := range amounts {
						n, err := parseAmount(a)
						if err != nil {
							return err
						}
						batch.Amounts = append(batch.Amounts, n)
					}
					for _, r := range recipients {
						id, err := identity.Parse(r)
						if err != nil {
							return fmt.Errorf("recipient %q: %w", r, err)
						}
						batch.Recipients = append(batch.Recipients, id)
					}
				}
				if err := payout.ValidateBatch(batch); err != nil {
					return err
				}

				if dryRun {
					return e.print(batch, func(w io.Writer) {
						for i := range batch.Amounts {
							fmt.Fprintf(w, "  %2d  %s  %d\n", i, batch.Recipients[i].Short(), batch.Amounts[i])
						}
						fmt.Fprintf(w, "total %d\n", batch.Total())
					})
				}

				caller, err := e.signedCaller(v, treasury.OpDistribute, map[string]any{
					"mint": mint.String(), "amounts": batch.Amounts, "recipients": batch.Recipients,
				})
				if err != nil {
					return err
				}
				receipt, err := e.engine.Distribute(cmd.Context(), caller, mint, batch.Amounts, batch.Recipients)
				if err != nil {
					if treasury.Retryable(err) {
						return fmt.Errorf("%w (nothing was paid; safe to retry)", err)
					}
					return err
				}

				if fromPlayers {
					creditPlayers(e, cmd, caller, mint, standings, batch)
				}
				return e.print(receipt, func(w io.Writer) { printReceipt(w, receipt) })
			})
		},
	}
	cmd.Flags().StringSliceVar(&amounts, "amount", nil, "amount for the recipient at the same position (repeatable)")
	cmd.Flags().StringSliceVar(&recipients, "recipient", nil, "recipient token account (repeatable)")
	cmd.Flags().StringVar(&leaderboard, "leaderboard", "", "JSON file of ranked standings to plan the batch from")
	cmd.Flags().BoolVar(&fromPlayers, "from-players", false, "plan the batch from registered players")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the batch without paying")
	cmd.Flags().StringVar(&planFile, "plan", "", "pay a batch saved by --dry-run after checking it against a fresh plan")
	return cmd
}

func readStandings(path string) ([]payout.Standing, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: intentional CLI file read
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	var standings []payout.Standing
	if err := json.Unmarshal(data, &standings); err != nil {
		return nil, fmt.Errorf("parse leaderboard: %w", err)
	}
	return standings, nil
}

func readBatch(path string) (*payout.Batch, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: intentional CLI file read
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	var batch payout.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	return &batch, nil
}

// refreshHoldings replaces each standing's Holding with the ledger balance of
// its account, so a leaderboard file cannot claim eligibility.
func refreshHoldings(e *env, standings []payout.Standing) error {
	return e.store.View(func(tx ledger.Tx) error {
		for i := range standings {
			standings[i].Holding = 0
			if standings[i].Account.IsZero() {
				continue
			}
			balance, err := token.Balance(tx, standings[i].Account)
			if errors.Is(err, token.ErrAccountNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			standings[i].Holding = balance
		}
		return nil
	})
}

// creditPlayers records paid rewards on player records. Failures are logged;
// the distribution itself has already committed.
func creditPlayers(e *env, cmd *cobra.Command, caller, mint identity.Identity, standings []payout.Standing, batch *payout.Batch) {
	for i, amount := range batch.Amounts {
		if amount == 0 {
			continue
		}
		if err := e.registry.CreditRewards(cmd.Context(), caller, mint, standings[i].Wallet, amount); err != nil {
			e.log.Warn("credit rewards failed", "wallet", standings[i].Wallet.Short(), "error", err)
		}
	}
}

// accountOrAssociated parses s, or returns owner's associated account for mint
// when s is empty.
func accountOrAssociated(e *env, s string, owner, mint identity.Identity) (identity.Identity, error) {
	if s != "" {
		return identity.Parse(s)
	}
	return token.AssociatedAddress(e.program, owner, mint)
}

// accountBalance reads one account balance.
func accountBalance(e *env, addr identity.Identity) (uint64, error) {
	var balance uint64
	err := e.store.View(func(tx ledger.Tx) error {
		var err error
		balance, err = token.Balance(tx, addr)
		return err
	})
	return balance, err
}

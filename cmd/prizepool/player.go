package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/madurogg/libprizepool-go/identity"
	"github.com/madurogg/libprizepool-go/ledger"
	"github.com/madurogg/libprizepool-go/player"
)

func newPlayerCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player records and the leaderboard",
	}
	cmd.AddCommand(
		newPlayerRegisterCmd(v),
		newPlayerStatsCmd(v),
		newPlayerShowCmd(v),
		newPlayerLeaderboardCmd(v),
	)
	return cmd
}

func newPlayerRegisterCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "register <username>",
		Short: "Register the operator as a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(v, cmd, func(e *env) error {
				caller, err := e.signedCaller(v, "register_player", map[string]string{"username": args[0]})
				if err != nil {
					return err
				}
				p, err := e.registry.Register(cmd.Context(), caller, args[0])
				if err != nil {
					return err
				}
				return e.print(p, func(w io.Writer) { printPlayer(w, p) })
			})
		},
	}
}

func newPlayerStatsCmd(v *viper.Viper) *cobra.Command {
	var stats player.Stats
	cmd := &cobra.Command{
		Use:   "stats <wallet>",
		Short: "Record one finished game for a player (authority only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wallet, err := identity.Parse(args[0])
			if err != nil {
				return err
			}
			return withEnv(v, cmd, func(e *env) error {
				mint, err := e.mint()
				if err != nil {
					return err
				}
				caller, err := e.signedCaller(v, "update_stats", map[string]any{
					"mint": mint.String(), "wallet": wallet.String(), "score": stats.Score, "kills": stats.Kills,
				})
				if err != nil {
					return err
				}
				p, err := e.registry.UpdateStats(cmd.Context(), caller, mint, wallet, stats)
				if err != nil {
					return err
				}
				return e.print(p, func(w io.Writer) { printPlayer(w, p) })
			})
		},
	}
	cmd.Flags().Uint64Var(&stats.Score, "score", 0, "score earned in the game")
	cmd.Flags().Uint64Var(&stats.Kills, "kills", 0, "kills in the game")
	return cmd
}

func newPlayerShowCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "show <wallet>",
		Short: "Show a player record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wallet, err := identity.Parse(args[0])
			if err != nil {
				return err
			}
			return withEnv(v, cmd, func(e *env) error {
				p, err := e.registry.Get(cmd.Context(), wallet)
				if err != nil {
					return err
				}
				return e.print(p, func(w io.Writer) { printPlayer(w, p) })
			})
		},
	}
}

func newPlayerLeaderboardCmd(v *viper.Viper) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "List players by score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(v, cmd, func(e *env) error {
				players, err := e.registry.Leaderboard(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return e.print(players, func(w io.Writer) {
					for i, p := range players {
						fmt.Fprintf(w, "%3d  %-15s  %s  score=%d kills=%d rewards=%d\n",
							i+1, p.Username, p.Wallet.Short(), p.Score, p.Kills, p.TotalRewards)
					}
				})
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum players to show (0 for all)")
	return cmd
}

func printPlayer(w io.Writer, p *ledger.Player) {
	fmt.Fprintf(w, "username:       %s\n", p.Username)
	fmt.Fprintf(w, "wallet:         %s\n", p.Wallet)
	fmt.Fprintf(w, "score:          %d\n", p.Score)
	fmt.Fprintf(w, "kills:          %d\n", p.Kills)
	fmt.Fprintf(w, "games played:   %d\n", p.GamesPlayed)
	fmt.Fprintf(w, "total rewards:  %d\n", p.TotalRewards)
	fmt.Fprintf(w, "registered:     %s\n", time.Unix(p.RegisteredAt, 0).UTC().Format(time.RFC3339))
}

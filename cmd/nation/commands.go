package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/napolitain/nation-builder/internal/actions"
)

func newSimulateCmd() *cobra.Command {
	var (
		seconds    int
		auto       bool
		repeatable bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Advance the saved game by a number of simulated seconds",
		Long: `Advance the saved game offline, one simulated second at a time.
With --auto the cheapest affordable action is bought after every second.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := openSession(ctx, false, -1)
			if err != nil {
				return err
			}
			defer sess.Close()
			g := sess.game

			if !quiet {
				titleColor.Printf("\n⏳ Simulating %d seconds", seconds)
				if auto {
					titleColor.Print(" with greedy purchases")
				}
				fmt.Println()
			}

			bought := 0
			for i := 0; i < seconds; i++ {
				g.Advance(1.0)
				if !auto {
					continue
				}
				for _, res := range g.BuyGreedy(0, !repeatable) {
					bought++
					if !quiet {
						successColor.Printf("   [%4ds] ✓ %s (%s DP)\n", i+1, res.Action, formatAmount(res.Cost))
					}
				}
			}

			if err := g.Save(ctx); err != nil {
				return fmt.Errorf("failed to save: %w", err)
			}
			if auto && !quiet {
				infoColor.Printf("\n🛒 %d purchases\n", bought)
			}
			printStatus(g.Snapshot(), g.Rates(), g.Balance())
			return nil
		},
	}

	cmd.Flags().IntVarP(&seconds, "seconds", "s", 60, "Simulated seconds to run")
	cmd.Flags().BoolVar(&auto, "auto", false, "Buy the cheapest affordable action after every second")
	cmd.Flags().BoolVar(&repeatable, "laws", false, "With --auto, also pass simple laws and sign treaties")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show resources, institutions and elections of the saved game",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(context.Background(), false, -1)
			if err != nil {
				return err
			}
			defer sess.Close()
			g := sess.game
			printStatus(g.Snapshot(), g.Rates(), g.Balance())
			return nil
		},
	}
}

func newCostsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "costs",
		Short: "List the next purchase of every action",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(context.Background(), false, -1)
			if err != nil {
				return err
			}
			defer sess.Close()
			g := sess.game
			printOffers(g.Offers(), g.Snapshot().Resources.DP)
			return nil
		},
	}
}

func newBuyCmd() *cobra.Command {
	var (
		count int
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "buy <action>",
		Short: "Buy the next tier of an action",
		Long: `Buy the next tier of an action. Actions:
  ` + strings.Join(actionNames(), "\n  ") + `

Institutions accept --count and --max to buy several levels at once.
Use "nation elect" to start an election.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := actions.Parse(args[0])
			if err != nil {
				return err
			}
			if count < 1 {
				return errors.New("--count must be at least 1")
			}

			ctx := context.Background()
			sess, err := openSession(ctx, false, -1)
			if err != nil {
				return err
			}
			defer sess.Close()
			g := sess.game

			var res actions.Result
			switch {
			case all:
				res = g.Bulk(a, actions.BulkMax)
			case count > 1:
				res = g.Bulk(a, count)
			default:
				res = g.Do(a)
			}
			if res.Err != nil {
				return fmt.Errorf("%s: %w", res.Action, res.Err)
			}

			if err := g.Save(ctx); err != nil {
				return fmt.Errorf("failed to save: %w", err)
			}
			printResult(res, g.Balance())
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Levels to buy (institutions only)")
	cmd.Flags().BoolVar(&all, "max", false, "Buy as many levels as affordable (institutions only)")
	return cmd
}

func newElectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "elect",
		Short: "Start an election now",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := openSession(ctx, false, -1)
			if err != nil {
				return err
			}
			defer sess.Close()
			g := sess.game

			res := g.ForceElection()
			if err := g.Save(ctx); err != nil {
				return fmt.Errorf("failed to save: %w", err)
			}
			printResult(res, g.Balance())
			printElections(g.Snapshot())
			return nil
		},
	}
}

func newTutorialCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "tutorial [next|skip]",
		Short:     "Show or advance the tutorial",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"next", "skip"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := openSession(ctx, false, -1)
			if err != nil {
				return err
			}
			defer sess.Close()
			g := sess.game

			status := g.Tutorial()
			if len(args) == 1 {
				switch args[0] {
				case "next":
					status = g.TutorialNext()
				case "skip":
					status = g.TutorialSkip()
				}
				if err := g.Save(ctx); err != nil {
					return fmt.Errorf("failed to save: %w", err)
				}
			}
			printTutorial(status)
			return nil
		},
	}
}

func newEventsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the event log, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(context.Background(), false, -1)
			if err != nil {
				return err
			}
			defer sess.Close()

			events := sess.game.Snapshot().Events
			if limit > 0 && limit < len(events) {
				events = events[:limit]
			}
			printEvents(events)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Events to show, 0 for all")
	return cmd
}

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements and which are unlocked",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(context.Background(), false, -1)
			if err != nil {
				return err
			}
			defer sess.Close()
			printAchievements(sess.game.Snapshot(), sess.game.Balance())
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the save and start a new game",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errors.New("reset deletes the current save; pass --force to confirm")
			}
			ctx := context.Background()
			sess, err := openSession(ctx, false, -1)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.game.Reset(ctx); err != nil {
				return fmt.Errorf("failed to delete save: %w", err)
			}
			successColor.Println("✓ New game started")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Confirm the reset")
	return cmd
}

func actionNames() []string {
	catalogue := actions.Catalogue()
	names := make([]string, 0, len(catalogue))
	for _, a := range catalogue {
		names = append(names, a.Name())
	}
	return names
}

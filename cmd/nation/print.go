package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/napolitain/nation-builder/internal/achievements"
	"github.com/napolitain/nation-builder/internal/actions"
	"github.com/napolitain/nation-builder/internal/models"
	"github.com/napolitain/nation-builder/internal/tutorial"
)

var resourceNames = map[models.ResourceType]string{
	models.DP:  "Democracy Points",
	models.ST:  "Stability",
	models.PR:  "Reputation",
	models.II:  "Influence",
	models.Pop: "Population",
}

var tutorialHints = map[int]string{
	0: "Convene a parliament to start producing democracy points",
	1: "Found the presidency or the courts to raise stability",
	2: "Pass a simple law",
}

// formatAmount renders a resource amount with thousands separators and two decimals
func formatAmount(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

func formatRate(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%+.3f/s", v)
}

func printStatus(s *models.GameState, rates models.Resources, b *models.Balance) {
	if !quiet {
		titleColor.Println("\n╭───────────────────────────╮")
		titleColor.Println("│  Republic                 │")
		titleColor.Println("╰───────────────────────────╯")
	}

	infoColor.Println("\n📊 Resources:")
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Resource", "Amount", "Rate"}),
	)
	for _, rt := range models.AllResourceTypes() {
		_ = table.Append([]string{resourceNames[rt], formatAmount(s.Resources.Get(rt)), formatRate(rates.Get(rt))})
	}
	_ = table.Render()

	infoColor.Println("\n🏛️  Institutions:")
	for _, it := range models.AllInstitutions() {
		level := s.Institutions.Get(it)
		fmt.Printf("   • %-12s level %d/%d\n", it.Title(), level, b.MaxLevel(it))
	}
	if len(s.Policies.Ministries) > 0 {
		fmt.Printf("   • Ministries:  %d founded\n", len(s.Policies.Ministries))
	}
	fmt.Printf("   • Rights:      %d/%d adopted\n", len(s.Policies.Rights), len(models.AllRights()))
	fmt.Printf("   • Laws:        %d simple, %d amendments, %d treaties\n",
		s.Meta.SimpleLaws, s.Meta.ConstAmend, s.Meta.IntlTreaties)

	printElections(s)
	if !s.Meta.TutorialDone {
		printTutorial(tutorial.Get(s))
	}
}

func printElections(s *models.GameState) {
	infoColor.Println("\n🗳️  Elections:")
	e := s.Elections
	if !e.Active {
		fmt.Printf("   • Next election in %.1fs\n", e.NextIn)
		return
	}
	switch e.Buff {
	case models.BuffHigh:
		successColor.Printf("   • High turnout, %.1fs left\n", e.TimeLeft)
	case models.BuffLow:
		warnColor.Printf("   • Low turnout, %.1fs left\n", e.TimeLeft)
	default:
		fmt.Printf("   • Running, %.1fs left\n", e.TimeLeft)
	}
}

func printOffers(offers []actions.Offer, dp float64) {
	infoColor.Printf("\n💰 Available: %s DP\n\n", formatAmount(dp))
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Action", "Cost", "Status"}),
	)
	for _, o := range offers {
		cost := formatAmount(o.Cost)
		status := "affordable"
		switch {
		case !o.Available:
			cost = "-"
			status = "unavailable"
		case !o.Affordable:
			status = fmt.Sprintf("need %s", formatAmount(o.Cost-dp))
		}
		_ = table.Append([]string{o.Action, cost, status})
	}
	_ = table.Render()
}

func printResult(res actions.Result, b *models.Balance) {
	switch {
	case res.Count > 1:
		successColor.Printf("✓ %s x%d for %s DP\n", res.Action, res.Count, formatAmount(res.Cost))
	case res.Cost > 0:
		successColor.Printf("✓ %s for %s DP\n", res.Action, formatAmount(res.Cost))
	default:
		successColor.Printf("✓ %s\n", res.Action)
	}
	for _, id := range res.Unlocked {
		titleColor.Printf("🏆 Achievement unlocked: %s\n", b.AchievementTitle(id))
	}
}

func printTutorial(status tutorial.Status) {
	infoColor.Println("\n📖 Tutorial:")
	if status.Done {
		fmt.Println("   • Completed")
		return
	}
	fmt.Printf("   • Step %d/%d: %s\n", status.Step+1, tutorial.LastStep+1, tutorialHints[status.Step])
}

func printEvents(events []models.Event) {
	if len(events) == 0 {
		infoColor.Println("No events yet")
		return
	}
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"When", "Event"}),
	)
	for _, e := range events {
		_ = table.Append([]string{humanize.Time(time.UnixMilli(e.Timestamp)), e.Message})
	}
	_ = table.Render()
}

func printAchievements(s *models.GameState, b *models.Balance) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"", "Achievement", "Description"}),
	)
	unlocked := 0
	for _, def := range achievements.Definitions {
		mark := "  "
		if s.HasAchievement(def.ID) {
			mark = "✅"
			unlocked++
		}
		_ = table.Append([]string{mark, b.AchievementTitle(def.ID), b.Achievements[def.ID].Desc})
	}
	_ = table.Render()
	successColor.Printf("\n%d/%d unlocked\n", unlocked, len(achievements.Definitions))
}

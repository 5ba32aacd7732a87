package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/jonathan/referral-scout/internal/config"
	"github.com/jonathan/referral-scout/internal/observability"
	"github.com/spf13/cobra"
)

var findReferralsCmd = &cobra.Command{
	Use:   "find-referrals",
	Short: "Find three referral profiles for a company and role",
	Long:  "Searches for a same-role employee, a likely hiring manager and a peer at the company. Slots that cannot be filled link to a manual search.",
	RunE:  runFindReferrals,
}

var (
	referralCompany string
	referralTitle   string
)

func init() {
	findReferralsCmd.Flags().StringVarP(&referralCompany, "company", "c", "", "Company name")
	findReferralsCmd.Flags().StringVar(&referralTitle, "title", "", "Job title")
	_ = findReferralsCmd.MarkFlagRequired("company")
	_ = findReferralsCmd.MarkFlagRequired("title")

	rootCmd.AddCommand(findReferralsCmd)
}

func runFindReferrals(cmd *cobra.Command, _ []string) error {
	cfg, err := settingsFor(config.Needs{Search: true})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	locator, err := newLocator(ctx, cfg)
	if err != nil {
		return err
	}

	candidates, err := locator.FindReferrals(ctx, referralCompany, referralTitle)
	if err != nil {
		return fmt.Errorf("referral search interrupted: %w", err)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintReferrals(candidates, nil)
	return nil
}

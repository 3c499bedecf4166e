package main

import (
	"benritz/bonds/internal/config"
	"benritz/bonds/internal/pricing"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd(cfg *config.Config, log *logrus.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "bond-calc",
		Short:         "Fixed-income bond analytics",
		Long:          `bond-calc prices bonds from yield, solves yield from price and measures Macaulay and modified duration.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newPriceCmd(cfg, log),
		newYieldCmd(cfg, log),
		newDurationCmd(cfg, log),
		newMaturityCmd(),
		newBondCmd(cfg, log),
	)

	return root
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return pricing.Now(), nil
	}
	return time.Parse("2006-01-02", s)
}

// termsFlags are the bond terms shared by the price, yield and duration commands.
type termsFlags struct {
	coupon     float64
	years      float64
	maturity   string
	settlement string
	freq       int
	face       float64
	dirty      bool
}

func (f *termsFlags) register(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	flags.Float64Var(&f.coupon, "coupon", 0, "Annual coupon rate (%) of the bond")
	flags.Float64Var(&f.years, "years", 0, "Years to maturity")
	flags.StringVar(&f.maturity, "maturitydate", "", "Maturity date of the bond (YYYY-MM-DD), instead of --years")
	flags.StringVar(&f.settlement, "settlementdate", "", "Settlement date used with --maturitydate (YYYY-MM-DD, default today)")
	flags.IntVar(&f.freq, "freq", cfg.Bond.Frequency, "Coupon payments per year")
	flags.Float64Var(&f.face, "facevalue", cfg.Bond.FaceAmount, "Face value of the bond")
	flags.BoolVar(&f.dirty, "dirty", false, "Include accrued interest in prices")

	_ = cmd.MarkFlagRequired("coupon")
	cmd.MarkFlagsMutuallyExclusive("years", "maturitydate")
}

func (f *termsFlags) terms(cmd *cobra.Command) (pricing.Terms, error) {
	t := pricing.Terms{
		Coupon:     f.coupon,
		Years:      f.years,
		Frequency:  f.freq,
		FaceAmount: f.face,
		Dirty:      f.dirty,
	}

	switch {
	case cmd.Flags().Changed("maturitydate"):
		settlement, err := parseDate(f.settlement)
		if err != nil {
			return pricing.Terms{}, fmt.Errorf("invalid settlement date: %w", err)
		}
		maturity, err := parseDate(f.maturity)
		if err != nil {
			return pricing.Terms{}, fmt.Errorf("invalid maturity date: %w", err)
		}
		t.Years = pricing.YearsToMaturity(settlement, maturity)
	case !cmd.Flags().Changed("years"):
		return pricing.Terms{}, fmt.Errorf("either --years or --maturitydate is required")
	}

	return t, t.Validate()
}

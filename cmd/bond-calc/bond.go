package main

import (
	"benritz/bonds/internal/config"
	"benritz/bonds/internal/types"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newBondCmd(cfg *config.Config, log *logrus.Logger) *cobra.Command {
	var (
		coupon            float64
		faceValue         float64
		freq              int
		cleanPrice        float64
		ytm               float64
		settlementDateStr string
		maturityDateStr   string
	)

	cmd := &cobra.Command{
		Use:   "bond",
		Short: "Complete a gilt from its clean price or yield and print its details",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("cleanprice") && !cmd.Flags().Changed("ytm") {
				return fmt.Errorf("--cleanprice or --ytm flag is required")
			}

			settlementDate, err := parseDate(settlementDateStr)
			if err != nil {
				return fmt.Errorf("invalid settlement date: %w", err)
			}

			maturityDate, err := parseDate(maturityDateStr)
			if err != nil {
				return fmt.Errorf("invalid maturity date: %w", err)
			}

			if maturityDate.Before(settlementDate) {
				return fmt.Errorf("maturity date cannot be before settlement date")
			}

			if coupon < 0.0 || coupon > 100.0 {
				return fmt.Errorf("coupon rate must be between 0.0 and 100.0")
			}

			if faceValue <= 0.0 {
				return fmt.Errorf("face value must be greater than 0.0")
			}

			if cleanPrice < 0.0 {
				return fmt.Errorf("clean price must be greater than or equal to 0.0")
			}

			if ytm <= -100.0*float64(freq) {
				return fmt.Errorf("yield to maturity must be greater than -100%% per period")
			}

			bond := types.Bond{
				Type:            types.UKGilt,
				Source:          "cli",
				FacePrice:       faceValue,
				Coupon:          coupon,
				Frequency:       freq,
				SettlementDate:  settlementDate,
				MaturityDate:    maturityDate,
				CleanPrice:      cleanPrice,
				YieldToMaturity: ytm,
			}

			if err := types.CompleteBond(&bond, cfg.Solver.Options()...); err != nil {
				return fmt.Errorf("completing bond: %w", err)
			}

			log.WithField("maturity_years", bond.MaturityYears).Debug("completed bond")

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Bond Details:\n")
			fmt.Fprintf(out, "\tType: %s\n", bond.Type)
			fmt.Fprintf(out, "\tFace Value: %.3f\n", bond.FacePrice)
			fmt.Fprintf(out, "\tCoupon Rate: %.3f%%\n", bond.Coupon)
			fmt.Fprintf(out, "\tFrequency: %d\n", bond.Frequency)
			fmt.Fprintf(out, "\tSettlement Date: %s\n", bond.SettlementDate.Format("2006-01-02"))
			fmt.Fprintf(out, "\tMaturity Date: %s\n", bond.MaturityDate.Format("2006-01-02"))
			fmt.Fprintf(out, "\tMaturity Years: %.6f\n", bond.MaturityYears)
			fmt.Fprintf(out, "\tClean Price: %.3f\n", bond.CleanPrice)
			fmt.Fprintf(out, "\tDirty Price: %.3f\n", bond.DirtyPrice)
			fmt.Fprintf(out, "\tAccrued Amount: %.3f\n", bond.AccruedAmount)
			fmt.Fprintf(out, "\tYield to Maturity: %.6f%%\n", bond.YieldToMaturity)
			fmt.Fprintf(out, "\tMacaulay Duration: %.6f\n", bond.MacaulayDuration)
			fmt.Fprintf(out, "\tModified Duration: %.6f\n", bond.ModifiedDuration)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&coupon, "coupon", 0.0, "Coupon rate (%) of the bond")
	flags.Float64Var(&faceValue, "facevalue", cfg.Bond.FaceAmount, "Face value of the bond")
	flags.IntVar(&freq, "freq", cfg.Bond.Frequency, "Coupon payments per year")
	flags.Float64Var(&cleanPrice, "cleanprice", 0.0, "Clean price of the bond")
	flags.Float64Var(&ytm, "ytm", 0.0, "Yield to maturity of the bond")
	flags.StringVar(&settlementDateStr, "settlementdate", "", "Settlement date of the bond (YYYY-MM-DD)")
	flags.StringVar(&maturityDateStr, "maturitydate", "", "Maturity date of the bond (YYYY-MM-DD)")

	_ = cmd.MarkFlagRequired("coupon")
	_ = cmd.MarkFlagRequired("maturitydate")

	return cmd
}

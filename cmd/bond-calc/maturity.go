package main

import (
	"benritz/bonds/internal/pricing"
	"fmt"

	"github.com/spf13/cobra"
)

func newMaturityCmd() *cobra.Command {
	var maturity, asOf string

	cmd := &cobra.Command{
		Use:   "maturity",
		Short: "Years to maturity on a 360 day year",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseDate(maturity)
			if err != nil {
				return fmt.Errorf("invalid maturity date: %w", err)
			}

			from, err := parseDate(asOf)
			if err != nil {
				return fmt.Errorf("invalid as-of date: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Years to Maturity: %.6f\n", pricing.YearsToMaturity(from, m))

			return nil
		},
	}

	cmd.Flags().StringVar(&maturity, "maturitydate", "", "Maturity date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&asOf, "asof", "", "As-of date (YYYY-MM-DD, default now)")
	_ = cmd.MarkFlagRequired("maturitydate")

	return cmd
}

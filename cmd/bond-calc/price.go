package main

import (
	"benritz/bonds/internal/config"
	"benritz/bonds/internal/pricing"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newPriceCmd(cfg *config.Config, log *logrus.Logger) *cobra.Command {
	var (
		tf  termsFlags
		ytm float64
	)

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a bond from its yield to maturity",
		RunE: func(cmd *cobra.Command, args []string) error {
			terms, err := tf.terms(cmd)
			if err != nil {
				return err
			}

			log.WithFields(logrus.Fields{"ytm": ytm, "terms": terms}).Debug("pricing bond")

			p, err := pricing.Price(ytm, terms)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Years to Maturity: %.6f\n", terms.Years)
			fmt.Fprintf(out, "Price: %.6f\n", p.Price)
			if terms.Dirty {
				fmt.Fprintf(out, "Clean Price: %.6f\n", p.Clean)
				fmt.Fprintf(out, "Accrued Interest: %.6f\n", p.Accrued)
			}

			return nil
		},
	}

	tf.register(cmd, cfg)
	cmd.Flags().Float64Var(&ytm, "ytm", 0, "Yield to maturity (%)")
	_ = cmd.MarkFlagRequired("ytm")

	return cmd
}

package main

import (
	"benritz/bonds/internal/config"
	"benritz/bonds/internal/pricing"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newDurationCmd(cfg *config.Config, log *logrus.Logger) *cobra.Command {
	var (
		tf       termsFlags
		ytm      float64
		price    float64
		modified bool
	)

	cmd := &cobra.Command{
		Use:   "duration",
		Short: "Macaulay or modified duration of a bond",
		RunE: func(cmd *cobra.Command, args []string) error {
			terms, err := tf.terms(cmd)
			if err != nil {
				return err
			}

			kind := pricing.Macaulay
			if modified {
				kind = pricing.Modified
			}

			var d pricing.DurationResult
			if cmd.Flags().Changed("price") {
				d, err = pricing.DurationAtPrice(ytm, price, terms, kind)
			} else {
				d, err = pricing.Duration(ytm, terms, kind)
			}
			if err != nil {
				return err
			}

			log.WithField("kind", kind).Debug("computed duration")

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Duration (%s): %.6f\n", d.Kind, d.Duration)
			fmt.Fprintf(out, "Price: %.6f\n", d.Price)

			return nil
		},
	}

	tf.register(cmd, cfg)
	cmd.Flags().Float64Var(&ytm, "ytm", 0, "Yield to maturity (%)")
	cmd.Flags().Float64Var(&price, "price", 0, "Known bond price; computed from --ytm when omitted")
	cmd.Flags().BoolVar(&modified, "modified", false, "Report modified instead of Macaulay duration")
	_ = cmd.MarkFlagRequired("ytm")

	return cmd
}

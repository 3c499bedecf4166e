package main

import (
	"benritz/bonds/internal/config"
	"benritz/bonds/internal/pricing"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newYieldCmd(cfg *config.Config, log *logrus.Logger) *cobra.Command {
	var (
		tf       termsFlags
		price    float64
		estimate float64
	)

	cmd := &cobra.Command{
		Use:   "yield",
		Short: "Solve the yield to maturity for an observed price",
		RunE: func(cmd *cobra.Command, args []string) error {
			terms, err := tf.terms(cmd)
			if err != nil {
				return err
			}

			opts := append(cfg.Solver.Options(), pricing.WithInitialGuess(estimate))

			res, err := pricing.Yield(price, terms, opts...)
			if err != nil {
				var serr *pricing.SolverError
				if errors.As(err, &serr) {
					log.WithFields(logrus.Fields{
						"iterations": serr.Iterations,
						"last":       serr.Last,
					}).WithError(serr.Reason).Warn("yield solver failed")
				}
				return err
			}

			log.WithField("iterations", res.Iterations).Debug("yield solver converged")

			fmt.Fprintf(cmd.OutOrStdout(), "Yield to Maturity: %.6f%%\n", res.Yield)

			return nil
		},
	}

	tf.register(cmd, cfg)
	cmd.Flags().Float64Var(&price, "price", 0, "Observed bond price (dirty with --dirty)")
	cmd.Flags().Float64Var(&estimate, "estimate", pricing.DefaultInitialGuess, "Initial yield guess (%)")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

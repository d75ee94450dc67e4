package main

import (
	"errors"
	"fmt"

	"github.com/signorlabs/mysave/audit"
	"github.com/signorlabs/mysave/contracts"
	"github.com/signorlabs/mysave/deploy"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errMissingSources = errors.New("missing contract sources directory, set --contracts or MYSAVE_CONTRACTS")

func newDeployCmd(a *app) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Compile and deploy SignorToken and MySave contracts",
		Long: `Compile SignorToken and MySave contracts from sources found in the
contracts directory and deploy them signed by the wallet account. Already deployed contracts are skipped, so the
command can be repeated after a failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prm := deploy.Prm{Logger: a.logger}

			if owner != "" {
				var err error
				if prm.TokenOwner, err = parseHash160(owner); err != nil {
					return fmt.Errorf("token owner: %w", err)
				}
			}

			if a.cfg.Contracts == "" {
				return errMissingSources
			}

			compiled, err := contracts.CompileAll(a.cfg.Contracts)
			if err != nil {
				return err
			}

			prm.SignorToken, prm.MySave = compiled[0], compiled[1]

			b, err := dialSigningBlockchain(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}

			defer b.close()

			prm.Blockchain = b.rpc
			prm.Actor = b.actor

			res, err := deploy.Deploy(cmd.Context(), prm)
			if err != nil {
				return err
			}

			cmd.Printf("SignorToken: %s\n", res.SignorToken.StringLE())
			cmd.Printf("MySave: %s\n", res.MySave.StringLE())

			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Account receiving initial token supply, wallet account by default")

	return cmd
}

func newAuditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Check that the contract holds enough assets to cover all savings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withReader(cmd, func(r *readers) error {
				src, err := audit.NewSource(r.inv, r.addr)
				if err != nil {
					return err
				}

				report, err := audit.Check(cmd.Context(), src)
				if err != nil {
					return err
				}

				a.logger.Info("audit finished", zap.Stringer("id", report.ID),
					zap.Int("violations", len(report.Violations)))

				cmd.Printf("GAS: %d savers, saved %s, held %s\n", report.GAS.Savers,
					formatAmount(report.GAS.Saved, gasDecimals), formatAmount(report.GAS.Held, gasDecimals))

				decimals, err := r.token.Decimals()
				if err != nil {
					return fmt.Errorf("get token decimals: %w", err)
				}

				cmd.Printf("%s: %d savers, saved %s, held %s\n", audit.AssetToken, report.Token.Savers,
					formatAmount(report.Token.Saved, decimals), formatAmount(report.Token.Held, decimals))

				for _, v := range report.Violations {
					cmd.Println(v.String())
				}

				if !report.OK() {
					return fmt.Errorf("audit %s found %d violations", report.ID, len(report.Violations))
				}

				return nil
			})
		},
	}
}

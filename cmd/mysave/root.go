package main

import (
	"fmt"

	"github.com/signorlabs/mysave/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app carries state shared by all subcommands. It's filled in the root
// command pre-run hook.
type app struct {
	viper  *viper.Viper
	cfg    *Config
	logger *zap.Logger

	configPath string
}

func newRootCmd() *cobra.Command {
	a := &app{viper: viper.New()}

	root := &cobra.Command{
		Use:           "mysave",
		Short:         "Client of the MySave savings contract",
		Long:          "mysave deploys MySave and SignorToken contracts, manages GAS and token savings and audits contract custody.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.load()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to YAML configuration file")
	flags.String("rpc", "", "Neo RPC server endpoint")
	flags.StringP("wallet", "w", "", "Path to NEP-6 wallet")
	flags.StringP("address", "a", "", "Wallet account to sign with, default account if empty")
	flags.String("mysave", "", "MySave contract address")
	flags.String("log-level", "", "Logging level")
	flags.String("contracts", "", "Root directory of contract sources, required by deploy")

	for key, flag := range map[string]string{
		"rpc.endpoint":   "rpc",
		"wallet.path":    "wallet",
		"wallet.address": "address",
		"mysave":         "mysave",
		"log.level":      "log-level",
		"contracts":      "contracts",
	} {
		_ = a.viper.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newVersionCmd(a),
		newDeployCmd(a),
		newDepositEtherCmd(a),
		newWithdrawEtherCmd(a),
		newApproveCmd(a),
		newDepositTokenCmd(a),
		newWithdrawTokenCmd(a),
		newBalanceCmd(a),
		newAuditCmd(a),
	)

	return root
}

func (a *app) load() error {
	cfg, err := loadConfig(a.viper, a.configPath)
	if err != nil {
		return err
	}

	a.cfg = cfg

	a.logger, err = newLogger(cfg.Log.Level)
	if err != nil {
		return err
	}

	return nil
}

func newVersionCmd(a *app) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print client version and, optionally, version of the deployed contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Printf("mysave %s\n", formatVersion(common.Version))

			if !remote {
				return nil
			}

			return a.withReader(cmd, func(r *readers) error {
				v, err := r.vault.Version()
				if err != nil {
					return fmt.Errorf("get contract version: %w", err)
				}

				cmd.Printf("contract %s\n", formatVersion(v.Int64()))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Also request version of the deployed MySave contract")

	return cmd
}

// formatVersion converts contract version number into major.minor.patch
// string.
func formatVersion(v int64) string {
	return fmt.Sprintf("%d.%d.%d", v/1_000_000, v/1_000%1_000, v%1_000)
}

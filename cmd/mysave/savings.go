package main

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/signorlabs/mysave/rpc/mysave"
	"github.com/signorlabs/mysave/rpc/signortoken"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errMissingContract = errors.New("missing MySave contract address, set --mysave or MYSAVE_MYSAVE")

// readers groups read-only bindings of both contracts.
type readers struct {
	inv *invoker.Invoker

	addr      util.Uint160
	vault     *mysave.ContractReader
	tokenAddr util.Uint160
	token     *signortoken.ContractReader
}

func (a *app) contractAddress() (util.Uint160, error) {
	if a.cfg.MySave == "" {
		return util.Uint160{}, errMissingContract
	}

	return parseHash160(a.cfg.MySave)
}

func newReaders(inv *invoker.Invoker, addr util.Uint160) (*readers, error) {
	r := &readers{
		inv:   inv,
		addr:  addr,
		vault: mysave.NewReader(inv, addr),
	}

	var err error
	r.tokenAddr, err = r.vault.Token()
	if err != nil {
		return nil, fmt.Errorf("get token address: %w", err)
	}

	r.token = signortoken.NewReader(inv, r.tokenAddr)

	return r, nil
}

// withReader runs f over read-only connection to the configured contract.
func (a *app) withReader(cmd *cobra.Command, f func(*readers) error) error {
	addr, err := a.contractAddress()
	if err != nil {
		return err
	}

	b, err := dialBlockchain(cmd.Context(), a.cfg.RPC)
	if err != nil {
		return err
	}

	defer b.close()

	r, err := newReaders(b.inv, addr)
	if err != nil {
		return err
	}

	return f(r)
}

// withSigner is like withReader but also provides the signing connection.
func (a *app) withSigner(cmd *cobra.Command, f func(*remoteBlockchain, *readers) error) error {
	addr, err := a.contractAddress()
	if err != nil {
		return err
	}

	b, err := dialSigningBlockchain(cmd.Context(), a.cfg)
	if err != nil {
		return err
	}

	defer b.close()

	r, err := newReaders(b.inv, addr)
	if err != nil {
		return err
	}

	return f(b, r)
}

// await waits for the sent transaction and checks it's executed successfully.
func (a *app) await(b *remoteBlockchain, h util.Uint256, vub uint32, err error) (*state.AppExecResult, error) {
	if err == nil {
		a.logger.Info("transaction sent, waiting for acceptance",
			zap.Stringer("hash", h), zap.Uint32("vub", vub))
	}

	res, err := b.actor.Wait(h, vub, err)
	if err != nil {
		return nil, fmt.Errorf("wait for transaction: %w", err)
	}

	if res.VMState != vmstate.Halt {
		return nil, fmt.Errorf("transaction %s failed: %s", h.StringLE(), res.FaultException)
	}

	return res, nil
}

// printSavingsEvents writes MySave notifications produced by the transaction.
func printSavingsEvents(cmd *cobra.Command, res *state.AppExecResult, decimals int) error {
	log := &result.ApplicationLog{
		Container:     res.Container,
		IsTransaction: true,
		Executions:    []state.Execution{res.Execution},
	}

	saved, err := mysave.SavingSuccessfulEventsFromApplicationLog(log)
	if err != nil {
		return fmt.Errorf("parse SavingSuccessful events: %w", err)
	}

	for _, e := range saved {
		cmd.Printf("saved %s by %s\n", formatAmount(e.Amount, decimals), e.User.StringLE())
	}

	withdrawn, err := mysave.WithdrawSuccessfulEventsFromApplicationLog(log)
	if err != nil {
		return fmt.Errorf("parse WithdrawSuccessful events: %w", err)
	}

	for _, e := range withdrawn {
		cmd.Printf("withdrawn %s to %s\n", formatAmount(e.Amount, decimals), e.User.StringLE())
	}

	return nil
}

func newDepositEtherCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit-ether <amount>",
		Short: "Move GAS from the wallet account into savings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0], gasDecimals)
			if err != nil {
				return err
			}

			return a.withSigner(cmd, func(b *remoteBlockchain, r *readers) error {
				user := b.account.ScriptHash()

				h, vub, err := mysave.New(b.actor, r.addr).DepositEther(user, amount)
				res, err := a.await(b, h, vub, err)
				if err != nil {
					return err
				}

				return printSavingsEvents(cmd, res, gasDecimals)
			})
		},
	}
}

func newWithdrawEtherCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw-ether",
		Short: "Withdraw all saved GAS to the wallet account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSigner(cmd, func(b *remoteBlockchain, r *readers) error {
				user := b.account.ScriptHash()

				h, vub, err := mysave.New(b.actor, r.addr).WithdrawEther(user)
				res, err := a.await(b, h, vub, err)
				if err != nil {
					return err
				}

				return printSavingsEvents(cmd, res, gasDecimals)
			})
		},
	}
}

func newApproveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <amount>",
		Short: "Allow MySave contract to pull the given amount of tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSigner(cmd, func(b *remoteBlockchain, r *readers) error {
				decimals, err := r.token.Decimals()
				if err != nil {
					return fmt.Errorf("get token decimals: %w", err)
				}

				amount, err := parseAmount(args[0], decimals)
				if err != nil {
					return err
				}

				h, vub, err := signortoken.New(b.actor, r.tokenAddr).Approve(b.account.ScriptHash(), r.addr, amount)
				if _, err = a.await(b, h, vub, err); err != nil {
					return err
				}

				cmd.Printf("approved %s for %s\n", formatAmount(amount, decimals), r.addr.StringLE())
				return nil
			})
		},
	}
}

func newDepositTokenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit-token <amount>",
		Short: "Move approved tokens from the wallet account into savings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSigner(cmd, func(b *remoteBlockchain, r *readers) error {
				decimals, err := r.token.Decimals()
				if err != nil {
					return fmt.Errorf("get token decimals: %w", err)
				}

				amount, err := parseAmount(args[0], decimals)
				if err != nil {
					return err
				}

				user := b.account.ScriptHash()

				allowance, err := r.token.Allowance(user, r.addr)
				if err != nil {
					return fmt.Errorf("get allowance: %w", err)
				}

				if allowance.Cmp(amount) < 0 {
					return fmt.Errorf("allowance %s is less than requested amount, run approve first",
						formatAmount(allowance, decimals))
				}

				h, vub, err := mysave.New(b.actor, r.addr).DepositToken(user, amount)
				res, err := a.await(b, h, vub, err)
				if err != nil {
					return err
				}

				return printSavingsEvents(cmd, res, decimals)
			})
		},
	}
}

func newWithdrawTokenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw-token <amount>",
		Short: "Withdraw the given amount of saved tokens to the wallet account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSigner(cmd, func(b *remoteBlockchain, r *readers) error {
				decimals, err := r.token.Decimals()
				if err != nil {
					return fmt.Errorf("get token decimals: %w", err)
				}

				amount, err := parseAmount(args[0], decimals)
				if err != nil {
					return err
				}

				h, vub, err := mysave.New(b.actor, r.addr).WithdrawToken(b.account.ScriptHash(), amount)
				res, err := a.await(b, h, vub, err)
				if err != nil {
					return err
				}

				return printSavingsEvents(cmd, res, decimals)
			})
		},
	}
}

func newBalanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Print savings of the account, wallet account by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var user util.Uint160
			if len(args) > 0 {
				var err error
				if user, err = parseHash160(args[0]); err != nil {
					return err
				}
			} else {
				acc, _, err := findAccount(a.cfg.Wallet)
				if err != nil {
					return fmt.Errorf("no address given and %w", err)
				}
				user = acc.ScriptHash()
			}

			return a.withReader(cmd, func(r *readers) error {
				gasSaved, err := r.vault.CheckUserEtherBalance(user)
				if err != nil {
					return fmt.Errorf("get GAS savings: %w", err)
				}

				tokenSaved, err := r.vault.CheckUserTokenBalance(user)
				if err != nil {
					return fmt.Errorf("get token savings: %w", err)
				}

				return printBalance(cmd, r, user, gasSaved, tokenSaved)
			})
		},
	}
}

func printBalance(cmd *cobra.Command, r *readers, user util.Uint160, gasSaved, tokenSaved *big.Int) error {
	symbol, err := r.token.Symbol()
	if err != nil {
		return fmt.Errorf("get token symbol: %w", err)
	}

	decimals, err := r.token.Decimals()
	if err != nil {
		return fmt.Errorf("get token decimals: %w", err)
	}

	cmd.Printf("account: %s\n", user.StringLE())
	cmd.Printf("GAS: %s\n", formatAmount(gasSaved, gasDecimals))
	cmd.Printf("%s: %s\n", symbol, formatAmount(tokenSaved, decimals))

	return nil
}

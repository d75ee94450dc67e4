package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
)

// remoteBlockchain wraps Neo RPC connection and, when wallet is configured,
// the actor signing MySave transactions.
type remoteBlockchain struct {
	rpc   *rpcclient.Client
	inv   *invoker.Invoker
	actor *actor.Actor

	account *wallet.Account
}

// dialBlockchain connects to the RPC server. Read-only access is enough for
// balance and audit commands.
func dialBlockchain(ctx context.Context, cfg RPCConfig) (*remoteBlockchain, error) {
	c, err := rpcclient.New(ctx, cfg.Endpoint, rpcclient.Options{
		DialTimeout:    cfg.Timeout,
		RequestTimeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	if err = c.Init(); err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	return &remoteBlockchain{
		rpc: c,
		inv: invoker.New(c, nil),
	}, nil
}

// dialSigningBlockchain is like dialBlockchain but also opens the wallet.
// The signer scope covers the GAS contract in addition to the entry call,
// since depositEther makes GAS check the user witness.
func dialSigningBlockchain(ctx context.Context, cfg *Config) (*remoteBlockchain, error) {
	acc, err := openAccount(cfg.Wallet)
	if err != nil {
		return nil, err
	}

	b, err := dialBlockchain(ctx, cfg.RPC)
	if err != nil {
		return nil, err
	}

	b.account = acc
	b.actor, err = actor.New(b.rpc, []actor.SignerAccount{{
		Signer: transaction.Signer{
			Account:          acc.ScriptHash(),
			Scopes:           transaction.CalledByEntry | transaction.CustomContracts,
			AllowedContracts: []util.Uint160{gas.Hash},
		},
		Account: acc,
	}})
	if err != nil {
		b.close()
		return nil, fmt.Errorf("init actor: %w", err)
	}

	b.inv = &b.actor.Invoker

	return b, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

// openAccount reads the wallet file and decrypts the configured account.
func openAccount(cfg WalletConfig) (*wallet.Account, error) {
	acc, scrypt, err := findAccount(cfg)
	if err != nil {
		return nil, err
	}

	if err = acc.Decrypt(cfg.Password, scrypt); err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", acc.Address, err)
	}

	return acc, nil
}

// findAccount returns the configured wallet account without decrypting it.
// The default wallet account is used if no address is set.
func findAccount(cfg WalletConfig) (*wallet.Account, keys.ScryptParams, error) {
	if cfg.Path == "" {
		return nil, keys.ScryptParams{}, errors.New("missing wallet path")
	}

	w, err := wallet.NewWalletFromFile(cfg.Path)
	if err != nil {
		return nil, keys.ScryptParams{}, fmt.Errorf("open wallet: %w", err)
	}

	var acc *wallet.Account
	if cfg.Address != "" {
		h, err := parseHash160(cfg.Address)
		if err != nil {
			return nil, keys.ScryptParams{}, err
		}

		acc = w.GetAccount(h)
		if acc == nil {
			return nil, keys.ScryptParams{}, fmt.Errorf("account %s not found in wallet", cfg.Address)
		}
	} else {
		acc = w.GetAccount(w.GetChangeAddress())
		if acc == nil {
			return nil, keys.ScryptParams{}, errors.New("wallet has no accounts")
		}
	}

	return acc, w.Scrypt, nil
}

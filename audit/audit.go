/*
Package audit verifies MySave custody invariants against the chain state.

Savings recorded by the contract must never exceed the assets it actually
holds, and every stored record must be positive. Check reads all records and
the contract balances and reports every violation found.
*/
package audit

import (
	"context"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep17"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/signorlabs/mysave/rpc/mysave"
	"github.com/signorlabs/mysave/rpc/signortoken"
)

// Asset names used in reports.
const (
	AssetGAS   = "GAS"
	AssetToken = "SIGN"
)

// Source provides the chain state of a particular MySave contract.
type Source interface {
	// EtherSavings returns all GAS savings records.
	EtherSavings(ctx context.Context) ([]mysave.Saving, error)
	// TokenSavings returns all token savings records.
	TokenSavings(ctx context.Context) ([]mysave.Saving, error)
	// Custody returns amounts of GAS and tokens held by the contract.
	Custody(ctx context.Context) (gasHeld *big.Int, tokenHeld *big.Int, err error)
}

// Violation describes a broken invariant.
type Violation struct {
	Asset   string
	User    *util.Uint160
	Message string
}

func (v Violation) String() string {
	if v.User != nil {
		return fmt.Sprintf("%s: %s: %s", v.Asset, v.User.StringLE(), v.Message)
	}
	return v.Asset + ": " + v.Message
}

// AssetReport is a summary for a single asset.
type AssetReport struct {
	Savers int
	Saved  *big.Int
	Held   *big.Int
}

// Report is a result of a single Check run.
type Report struct {
	// ID distinguishes runs in logs.
	ID uuid.UUID

	GAS   AssetReport
	Token AssetReport

	Violations []Violation
}

// OK returns true if no violations are found.
func (r Report) OK() bool {
	return len(r.Violations) == 0
}

// Check reads the state from src and checks custody invariants. Returned
// error means the state can't be read, broken invariants are reported in
// [Report.Violations].
func Check(ctx context.Context, src Source) (Report, error) {
	r := Report{ID: uuid.New()}

	gasHeld, tokenHeld, err := src.Custody(ctx)
	if err != nil {
		return r, fmt.Errorf("read custody balances: %w", err)
	}

	etherSavings, err := src.EtherSavings(ctx)
	if err != nil {
		return r, fmt.Errorf("read GAS savings: %w", err)
	}

	tokenSavings, err := src.TokenSavings(ctx)
	if err != nil {
		return r, fmt.Errorf("read token savings: %w", err)
	}

	r.GAS = checkAsset(&r, AssetGAS, etherSavings, gasHeld)
	r.Token = checkAsset(&r, AssetToken, tokenSavings, tokenHeld)

	return r, nil
}

func checkAsset(r *Report, asset string, savings []mysave.Saving, held *big.Int) AssetReport {
	res := AssetReport{
		Savers: len(savings),
		Saved:  new(big.Int),
		Held:   held,
	}

	seen := make(map[util.Uint160]struct{}, len(savings))
	for i := range savings {
		user := savings[i].User

		if _, ok := seen[user]; ok {
			r.Violations = append(r.Violations, Violation{Asset: asset, User: &user, Message: "duplicated record"})
		}
		seen[user] = struct{}{}

		if savings[i].Amount.Sign() <= 0 {
			r.Violations = append(r.Violations, Violation{
				Asset:   asset,
				User:    &user,
				Message: "non-positive amount " + savings[i].Amount.String(),
			})
		}

		res.Saved.Add(res.Saved, savings[i].Amount)
	}

	if res.Saved.Cmp(held) > 0 {
		r.Violations = append(r.Violations, Violation{
			Asset:   asset,
			Message: fmt.Sprintf("savings %s exceed held amount %s", res.Saved, held),
		})
	}

	return res
}

// rpcSource checks ctx before each RPC request since the bindings don't
// accept it.
type rpcSource struct {
	addr util.Uint160

	vault *mysave.ContractReader
	gas   *nep17.TokenReader
	token *signortoken.ContractReader
}

// NewSource returns Source reading MySave contract state through the RPC
// invoker. SignorToken address is requested from the contract.
func NewSource(inv mysave.Invoker, addr util.Uint160) (Source, error) {
	vault := mysave.NewReader(inv, addr)

	tokenAddr, err := vault.Token()
	if err != nil {
		return nil, fmt.Errorf("get token address: %w", err)
	}

	return &rpcSource{
		addr:  addr,
		vault: vault,
		gas:   gas.NewReader(inv),
		token: signortoken.NewReader(inv, tokenAddr),
	}, nil
}

func (s *rpcSource) EtherSavings(ctx context.Context) ([]mysave.Saving, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.vault.EtherSavings()
}

func (s *rpcSource) TokenSavings(ctx context.Context) ([]mysave.Saving, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.vault.TokenSavings()
}

func (s *rpcSource) Custody(ctx context.Context) (*big.Int, *big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	gasHeld, err := s.gas.BalanceOf(s.addr)
	if err != nil {
		return nil, nil, fmt.Errorf("GAS balance: %w", err)
	}

	if err = ctx.Err(); err != nil {
		return nil, nil, err
	}

	tokenHeld, err := s.token.BalanceOf(s.addr)
	if err != nil {
		return nil, nil, fmt.Errorf("token balance: %w", err)
	}

	return gasHeld, tokenHeld, nil
}

/*
Package chaintest runs MySave contracts on an in-process chain for tests.
*/
package chaintest

import (
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/signorlabs/mysave/contracts"
	"github.com/stretchr/testify/require"
)

// Initial SignorToken supply in token fractions.
const InitialSupply = 1_000_000_0000_0000

// Env is a chain with SignorToken and MySave contracts deployed.
type Env struct {
	*neotest.Executor

	// Owner holds the whole initial token supply.
	Owner neotest.Signer

	GAS    util.Uint160
	NEO    util.Uint160
	Token  util.Uint160
	MySave util.Uint160
}

var (
	compiledMtx sync.Mutex
	compiled    = map[string]contracts.Contract{}
)

// NewExecutor returns executor over a fresh single-node chain.
func NewExecutor(t testing.TB) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// Compile compiles contract sources in dir once per process and returns the
// contract as it's deployed by the sender.
func Compile(t testing.TB, sender util.Uint160, dir string) *neotest.Contract {
	compiledMtx.Lock()
	c, ok := compiled[dir]
	if !ok {
		var err error
		c, err = contracts.Compile(dir)
		if err != nil {
			compiledMtx.Unlock()
			require.NoError(t, err)
		}
		compiled[dir] = c
	}
	compiledMtx.Unlock()

	return &neotest.Contract{
		Hash:     c.Hash(sender),
		NEF:      &c.NEF,
		Manifest: &c.Manifest,
	}
}

// Deploy deploys SignorToken owned by a new account and MySave accepting it.
func Deploy(t testing.TB) *Env {
	e := NewExecutor(t)
	owner := e.NewAccount(t)

	token := Compile(t, e.CommitteeHash, contracts.Path("", contracts.SignorTokenDir))
	e.DeployContract(t, token, owner.ScriptHash())

	mysave := Compile(t, e.CommitteeHash, contracts.Path("", contracts.MySaveDir))
	e.DeployContract(t, mysave, token.Hash)

	return &Env{
		Executor: e,
		Owner:    owner,
		GAS:      e.NativeHash(t, nativenames.Gas),
		NEO:      e.NativeHash(t, nativenames.Neo),
		Token:    token.Hash,
		MySave:   mysave.Hash,
	}
}

// DeploySaver deploys a test contract that keeps savings in MySave on its
// own behalf and can be switched to misbehave on payments.
func (e *Env) DeploySaver(t testing.TB) util.Uint160 {
	_, file, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(file), "..", "testcontracts", "saver")

	c := Compile(t, e.CommitteeHash, dir)
	e.DeployContract(t, c, e.MySave)
	return c.Hash
}

// GiveTokens transfers tokens from the owner to the account.
func (e *Env) GiveTokens(t testing.TB, to util.Uint160, amount int64) {
	e.NewInvoker(e.Token, e.Owner).Invoke(t, true, "transfer", e.Owner.ScriptHash(), to, amount, nil)
}

// GiveGAS transfers GAS from the validator to the account.
func (e *Env) GiveGAS(t testing.TB, to util.Uint160, amount int64) {
	e.NewInvoker(e.GAS, e.Validator).Invoke(t, true, "transfer", e.Validator.ScriptHash(), to, amount, nil)
}

// EtherSavings returns the result of MySave checkUserEtherBalance.
func (e *Env) EtherSavings(t testing.TB, user util.Uint160) int64 {
	return e.invokeInt(t, e.MySave, "checkUserEtherBalance", user)
}

// TokenSavings returns the result of MySave checkUserTokenBalance.
func (e *Env) TokenSavings(t testing.TB, user util.Uint160) int64 {
	return e.invokeInt(t, e.MySave, "checkUserTokenBalance", user)
}

// TokenBalance returns SignorToken balance of the account.
func (e *Env) TokenBalance(t testing.TB, acc util.Uint160) int64 {
	return e.invokeInt(t, e.Token, "balanceOf", acc)
}

// GASBalance returns GAS balance of the account.
func (e *Env) GASBalance(acc util.Uint160) int64 {
	return e.Chain.GetUtilityTokenBalance(acc).Int64()
}

// Savings reads all records returned by the MySave iterator method.
func (e *Env) Savings(t testing.TB, method string) map[util.Uint160]int64 {
	s, err := e.NewInvoker(e.MySave, e.Committee).TestInvoke(t, method)
	require.NoError(t, err)

	res := make(map[util.Uint160]int64)
	for _, kv := range IteratorToArray(s.Pop().Interop().Value().(*storage.Iterator)) {
		pair := kv.Value().([]stackitem.Item)

		k, err := pair[0].TryBytes()
		require.NoError(t, err)
		user, err := util.Uint160DecodeBytesBE(k)
		require.NoError(t, err)

		v, err := pair[1].TryInteger()
		require.NoError(t, err)

		res[user] = v.Int64()
	}
	return res
}

// RequireEvent checks that the transaction emitted the named MySave
// notification with the user and the amount.
func (e *Env) RequireEvent(t testing.TB, h util.Uint256, name string, user util.Uint160, amount int64) {
	aer := e.GetTxExecResult(t, h)
	for _, ev := range aer.Events {
		if ev.ScriptHash != e.MySave || ev.Name != name {
			continue
		}

		args := ev.Item.Value().([]stackitem.Item)
		require.Len(t, args, 2)

		u, err := args[0].TryBytes()
		require.NoError(t, err)
		require.Equal(t, user.BytesBE(), u)

		a, err := args[1].TryInteger()
		require.NoError(t, err)
		require.EqualValues(t, amount, a.Int64())
		return
	}
	require.FailNow(t, "notification not found", name)
}

// IteratorToArray drains the iterator.
func IteratorToArray(iter *storage.Iterator) []stackitem.Item {
	stackItems := make([]stackitem.Item, 0)
	for iter.Next() {
		stackItems = append(stackItems, iter.Value())
	}
	return stackItems
}

func (e *Env) invokeInt(t testing.TB, h util.Uint160, method string, args ...any) int64 {
	s, err := e.NewInvoker(h, e.Committee).TestInvoke(t, method, args...)
	require.NoError(t, err)
	return s.Pop().BigInt().Int64()
}

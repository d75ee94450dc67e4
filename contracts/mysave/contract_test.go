package mysave_test

import (
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/signorlabs/mysave/common"
	"github.com/signorlabs/mysave/contracts"
	"github.com/signorlabs/mysave/contracts/mysave/mysaveconst"
	"github.com/signorlabs/mysave/internal/chaintest"
	"github.com/signorlabs/mysave/internal/testcontracts/saver"
	"github.com/stretchr/testify/require"
)

const (
	oneGAS   = 1_0000_0000
	oneToken = 1_0000_0000
)

func newUser(t *testing.T, env *chaintest.Env) (neotest.Signer, *neotest.ContractInvoker) {
	acc := env.NewAccount(t)
	return acc, env.NewInvoker(env.MySave, acc)
}

func TestMySave_Deploy(t *testing.T) {
	env := chaintest.Deploy(t)
	inv := env.CommitteeInvoker(env.MySave)

	s, err := inv.TestInvoke(t, "token")
	require.NoError(t, err)
	token, err := s.Pop().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, env.Token.BytesBE(), token)

	inv.Invoke(t, common.Version, "version")

	user := env.NewAccount(t)
	require.Zero(t, env.EtherSavings(t, user.ScriptHash()))
	require.Zero(t, env.TokenSavings(t, user.ScriptHash()))
}

func TestMySave_DepositEther(t *testing.T) {
	env := chaintest.Deploy(t)
	acc, inv := newUser(t, env)
	user := acc.ScriptHash()

	t.Run("zero amount", func(t *testing.T) {
		inv.InvokeFail(t, mysaveconst.ErrZeroAmount, "depositEther", user, 0)
		inv.InvokeFail(t, mysaveconst.ErrZeroAmount, "depositEther", user, -1)
		require.Zero(t, env.EtherSavings(t, user))
	})

	t.Run("foreign witness", func(t *testing.T) {
		_, other := newUser(t, env)
		other.InvokeFail(t, common.ErrWitnessFailed, "depositEther", user, oneGAS)
		require.Zero(t, env.EtherSavings(t, user))
	})

	t.Run("not enough GAS", func(t *testing.T) {
		inv.InvokeFail(t, mysaveconst.ErrTransferFailed, "depositEther", user, 1000*oneGAS)
		require.Zero(t, env.EtherSavings(t, user))
	})

	h := inv.Invoke(t, stackitem.Null{}, "depositEther", user, 10*oneGAS)
	env.RequireEvent(t, h, mysaveconst.SavingSuccessfulEvent, user, 10*oneGAS)
	require.EqualValues(t, 10*oneGAS, env.EtherSavings(t, user))
	require.EqualValues(t, 10*oneGAS, env.GASBalance(env.MySave))

	inv.Invoke(t, stackitem.Null{}, "depositEther", user, 5*oneGAS)
	require.EqualValues(t, 15*oneGAS, env.EtherSavings(t, user))
	require.EqualValues(t, 15*oneGAS, env.GASBalance(env.MySave))

	require.Zero(t, env.TokenSavings(t, user), "token savings must not be affected")
}

func TestMySave_EtherRoundTrip(t *testing.T) {
	env := chaintest.Deploy(t)
	acc, inv := newUser(t, env)
	user := acc.ScriptHash()

	inv.Invoke(t, stackitem.Null{}, "depositEther", user, oneGAS)
	inv.Invoke(t, stackitem.Null{}, "depositEther", user, 2*oneGAS)
	inv.Invoke(t, 3*oneGAS, "checkUserEtherBalance", user)

	h := inv.Invoke(t, stackitem.Null{}, "withdrawEther", user)
	env.RequireEvent(t, h, mysaveconst.WithdrawSuccessfulEvent, user, 3*oneGAS)
	inv.Invoke(t, 0, "checkUserEtherBalance", user)
	require.Zero(t, env.GASBalance(env.MySave))

	inv.InvokeFail(t, mysaveconst.ErrNoSavings, "withdrawEther", user)
}

func TestMySave_DirectPayment(t *testing.T) {
	env := chaintest.Deploy(t)
	acc := env.NewAccount(t)
	user := acc.ScriptHash()

	h := env.NewInvoker(env.GAS, acc).Invoke(t, true, "transfer", user, env.MySave, 3*oneGAS, nil)
	env.RequireEvent(t, h, mysaveconst.SavingSuccessfulEvent, user, 3*oneGAS)
	require.EqualValues(t, 3*oneGAS, env.EtherSavings(t, user))

	env.GiveTokens(t, user, 20*oneToken)
	h = env.NewInvoker(env.Token, acc).Invoke(t, true, "transfer", user, env.MySave, 7*oneToken, nil)
	env.RequireEvent(t, h, mysaveconst.SavingSuccessfulEvent, user, 7*oneToken)
	require.EqualValues(t, 7*oneToken, env.TokenSavings(t, user))
	require.EqualValues(t, 3*oneGAS, env.EtherSavings(t, user))

	t.Run("zero amount", func(t *testing.T) {
		env.NewInvoker(env.Token, acc).InvokeFail(t, mysaveconst.ErrZeroAmount, "transfer", user, env.MySave, 0, nil)
	})
}

func TestMySave_UnsupportedAsset(t *testing.T) {
	env := chaintest.Deploy(t)

	neoInv := env.NewInvoker(env.NEO, env.Validator)
	neoInv.InvokeFail(t, "ABORT", "transfer", env.Validator.ScriptHash(), env.MySave, 1, nil)

	require.Empty(t, env.Savings(t, "listEtherSavings"))
	require.Empty(t, env.Savings(t, "listTokenSavings"))
}

func TestMySave_WithdrawEther(t *testing.T) {
	env := chaintest.Deploy(t)
	acc, inv := newUser(t, env)
	user := acc.ScriptHash()

	inv.InvokeFail(t, mysaveconst.ErrNoSavings, "withdrawEther", user)

	inv.Invoke(t, stackitem.Null{}, "depositEther", user, 10*oneGAS)

	_, other := newUser(t, env)
	other.InvokeFail(t, common.ErrWitnessFailed, "withdrawEther", user)

	before := env.GASBalance(user)
	h := inv.Invoke(t, stackitem.Null{}, "withdrawEther", user)
	env.RequireEvent(t, h, mysaveconst.WithdrawSuccessfulEvent, user, 10*oneGAS)

	require.Zero(t, env.EtherSavings(t, user))
	require.Zero(t, env.GASBalance(env.MySave))

	require.EqualValues(t, before+10*oneGAS-txFee(t, env, h), env.GASBalance(user))

	inv.InvokeFail(t, mysaveconst.ErrNoSavings, "withdrawEther", user)
	require.Empty(t, env.Savings(t, "listEtherSavings"))
}

func TestMySave_DepositToken(t *testing.T) {
	env := chaintest.Deploy(t)
	acc, inv := newUser(t, env)
	user := acc.ScriptHash()
	tokenInv := env.NewInvoker(env.Token, acc)

	env.GiveTokens(t, user, 100*oneToken)

	t.Run("zero amount", func(t *testing.T) {
		inv.InvokeFail(t, mysaveconst.ErrZeroAmount, "depositToken", user, 0)
	})

	t.Run("no allowance", func(t *testing.T) {
		inv.InvokeFail(t, mysaveconst.ErrTransferFailed, "depositToken", user, oneToken)
		require.Zero(t, env.TokenSavings(t, user))
		require.EqualValues(t, 100*oneToken, env.TokenBalance(t, user))
	})

	tokenInv.Invoke(t, true, "approve", user, env.MySave, 30*oneToken)

	t.Run("insufficient allowance", func(t *testing.T) {
		inv.InvokeFail(t, mysaveconst.ErrTransferFailed, "depositToken", user, 31*oneToken)
		require.Zero(t, env.TokenSavings(t, user))
	})

	h := inv.Invoke(t, stackitem.Null{}, "depositToken", user, 20*oneToken)
	env.RequireEvent(t, h, mysaveconst.SavingSuccessfulEvent, user, 20*oneToken)

	require.EqualValues(t, 20*oneToken, env.TokenSavings(t, user))
	require.EqualValues(t, 20*oneToken, env.TokenBalance(t, env.MySave))
	require.EqualValues(t, 80*oneToken, env.TokenBalance(t, user))
	tokenInv.Invoke(t, 10*oneToken, "allowance", user, env.MySave)

	require.Zero(t, env.EtherSavings(t, user), "ether savings must not be affected")
}

func TestMySave_WithdrawToken(t *testing.T) {
	env := chaintest.Deploy(t)
	acc, inv := newUser(t, env)
	user := acc.ScriptHash()

	env.GiveTokens(t, user, 100*oneToken)

	inv.InvokeFail(t, mysaveconst.ErrNoSavings, "withdrawToken", user, 0)
	inv.InvokeFail(t, mysaveconst.ErrNoSavings, "withdrawToken", user, oneToken)

	env.NewInvoker(env.Token, acc).Invoke(t, true, "approve", user, env.MySave, 50*oneToken)
	inv.Invoke(t, stackitem.Null{}, "depositToken", user, 50*oneToken)

	inv.InvokeFail(t, mysaveconst.ErrZeroAmount, "withdrawToken", user, 0)
	inv.InvokeFail(t, mysaveconst.ErrInsufficientSavings, "withdrawToken", user, 51*oneToken)

	_, other := newUser(t, env)
	other.InvokeFail(t, common.ErrWitnessFailed, "withdrawToken", user, oneToken)

	h := inv.Invoke(t, stackitem.Null{}, "withdrawToken", user, 20*oneToken)
	env.RequireEvent(t, h, mysaveconst.WithdrawSuccessfulEvent, user, 20*oneToken)
	require.EqualValues(t, 30*oneToken, env.TokenSavings(t, user))
	require.EqualValues(t, 70*oneToken, env.TokenBalance(t, user))
	require.EqualValues(t, 30*oneToken, env.TokenBalance(t, env.MySave))

	inv.Invoke(t, stackitem.Null{}, "withdrawToken", user, 30*oneToken)
	require.Zero(t, env.TokenSavings(t, user))
	require.Zero(t, env.TokenBalance(t, env.MySave))
	require.EqualValues(t, 100*oneToken, env.TokenBalance(t, user))
	require.Empty(t, env.Savings(t, "listTokenSavings"))

	inv.InvokeFail(t, mysaveconst.ErrNoSavings, "withdrawToken", user, oneToken)
}

func TestMySave_ListSavings(t *testing.T) {
	env := chaintest.Deploy(t)

	acc1, inv1 := newUser(t, env)
	acc2, inv2 := newUser(t, env)

	inv1.Invoke(t, stackitem.Null{}, "depositEther", acc1.ScriptHash(), oneGAS)
	inv2.Invoke(t, stackitem.Null{}, "depositEther", acc2.ScriptHash(), 2*oneGAS)

	env.GiveTokens(t, acc2.ScriptHash(), 5*oneToken)
	env.NewInvoker(env.Token, acc2).Invoke(t, true, "transfer", acc2.ScriptHash(), env.MySave, 5*oneToken, nil)

	require.Equal(t, map[util.Uint160]int64{
		acc1.ScriptHash(): oneGAS,
		acc2.ScriptHash(): 2 * oneGAS,
	}, env.Savings(t, "listEtherSavings"))

	require.Equal(t, map[util.Uint160]int64{
		acc2.ScriptHash(): 5 * oneToken,
	}, env.Savings(t, "listTokenSavings"))

	inv1.Invoke(t, stackitem.Null{}, "withdrawEther", acc1.ScriptHash())
	require.Equal(t, map[util.Uint160]int64{
		acc2.ScriptHash(): 2 * oneGAS,
	}, env.Savings(t, "listEtherSavings"))
}

func TestMySave_Reentrancy(t *testing.T) {
	env := chaintest.Deploy(t)
	saverHash := env.DeploySaver(t)
	inv := env.CommitteeInvoker(saverHash)

	env.GiveGAS(t, saverHash, 10*oneGAS)
	env.GiveTokens(t, saverHash, 10*oneToken)

	inv.Invoke(t, stackitem.Null{}, "saveEther", 4*oneGAS)
	inv.Invoke(t, stackitem.Null{}, "saveToken", env.Token, 6*oneToken)
	require.EqualValues(t, 4*oneGAS, env.EtherSavings(t, saverHash))
	require.EqualValues(t, 6*oneToken, env.TokenSavings(t, saverHash))

	t.Run("reenter", func(t *testing.T) {
		inv.Invoke(t, stackitem.Null{}, "setMode", saver.ModeReenter)

		inv.InvokeFail(t, mysaveconst.ErrNoSavings, "withdrawEther")
		inv.InvokeFail(t, mysaveconst.ErrNoSavings, "withdrawToken", 6*oneToken)

		require.EqualValues(t, 4*oneGAS, env.EtherSavings(t, saverHash))
		require.EqualValues(t, 6*oneToken, env.TokenSavings(t, saverHash))
		require.EqualValues(t, 4*oneGAS, env.GASBalance(env.MySave))
		require.EqualValues(t, 6*oneToken, env.TokenBalance(t, env.MySave))
	})

	t.Run("reject", func(t *testing.T) {
		inv.Invoke(t, stackitem.Null{}, "setMode", saver.ModeReject)

		inv.InvokeFail(t, "payment rejected", "withdrawEther")
		inv.InvokeFail(t, "payment rejected", "withdrawToken", oneToken)

		require.EqualValues(t, 4*oneGAS, env.EtherSavings(t, saverHash))
		require.EqualValues(t, 6*oneToken, env.TokenSavings(t, saverHash))
	})

	t.Run("accept", func(t *testing.T) {
		inv.Invoke(t, stackitem.Null{}, "setMode", saver.ModeAccept)

		inv.Invoke(t, stackitem.Null{}, "withdrawEther")
		require.Zero(t, env.EtherSavings(t, saverHash))
		require.Zero(t, env.GASBalance(env.MySave))

		s, err := inv.TestInvoke(t, "lastPayment")
		require.NoError(t, err)
		payment := s.Pop().Array()
		require.Len(t, payment, 3)

		asset, err := payment[0].TryBytes()
		require.NoError(t, err)
		require.Equal(t, env.GAS.BytesBE(), asset)

		from, err := payment[1].TryBytes()
		require.NoError(t, err)
		require.Equal(t, env.MySave.BytesBE(), from)

		amount, err := payment[2].TryInteger()
		require.NoError(t, err)
		require.EqualValues(t, 4*oneGAS, amount.Int64())

		inv.Invoke(t, stackitem.Null{}, "withdrawToken", 6*oneToken)
		require.Zero(t, env.TokenSavings(t, saverHash))
		require.EqualValues(t, 10*oneToken, env.TokenBalance(t, saverHash))
	})
}

func TestMySave_Update(t *testing.T) {
	env := chaintest.Deploy(t)

	c, err := contracts.Compile(contracts.Path("", contracts.MySaveDir))
	require.NoError(t, err)

	rawNEF, err := c.NEF.Bytes()
	require.NoError(t, err)
	rawManifest, err := json.Marshal(c.Manifest)
	require.NoError(t, err)

	_, inv := newUser(t, env)
	inv.InvokeFail(t, common.ErrCommitteeWitnessFailed, "update", rawNEF, rawManifest, nil)

	env.CommitteeInvoker(env.MySave).InvokeFail(t, common.ErrAlreadyUpdated, "update", rawNEF, rawManifest, nil)
}

func txFee(t *testing.T, env *chaintest.Env, h util.Uint256) int64 {
	tx, _, err := env.Chain.GetTransaction(h)
	require.NoError(t, err)
	return tx.SystemFee + tx.NetworkFee
}

package signortoken_test

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/signorlabs/mysave/common"
	"github.com/signorlabs/mysave/internal/chaintest"
	"github.com/stretchr/testify/require"
)

const oneToken = 1_0000_0000

func TestSignorToken_Deploy(t *testing.T) {
	env := chaintest.Deploy(t)
	inv := env.CommitteeInvoker(env.Token)

	inv.Invoke(t, "SIGN", "symbol")
	inv.Invoke(t, 8, "decimals")
	inv.Invoke(t, chaintest.InitialSupply, "totalSupply")
	inv.Invoke(t, chaintest.InitialSupply, "balanceOf", env.Owner.ScriptHash())

	s, err := inv.TestInvoke(t, "owner")
	require.NoError(t, err)
	owner, err := s.Pop().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, env.Owner.ScriptHash().BytesBE(), owner)

	inv.Invoke(t, common.Version, "version")
}

func TestSignorToken_Transfer(t *testing.T) {
	env := chaintest.Deploy(t)
	owner := env.Owner.ScriptHash()
	ownerInv := env.NewInvoker(env.Token, env.Owner)

	acc := env.NewAccount(t)
	to := acc.ScriptHash()

	h := ownerInv.Invoke(t, true, "transfer", owner, to, 5*oneToken, nil)
	env.CheckTxNotificationEvent(t, h, 0, state.NotificationEvent{
		ScriptHash: env.Token,
		Name:       "Transfer",
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.NewByteArray(owner.BytesBE()),
			stackitem.NewByteArray(to.BytesBE()),
			stackitem.Make(5 * oneToken),
		}),
	})
	require.EqualValues(t, 5*oneToken, env.TokenBalance(t, to))
	require.EqualValues(t, chaintest.InitialSupply-5*oneToken, env.TokenBalance(t, owner))

	t.Run("without witness", func(t *testing.T) {
		env.NewInvoker(env.Token, acc).Invoke(t, false, "transfer", owner, to, oneToken, nil)
		require.EqualValues(t, 5*oneToken, env.TokenBalance(t, to))
	})

	t.Run("insufficient funds", func(t *testing.T) {
		env.NewInvoker(env.Token, acc).Invoke(t, false, "transfer", to, owner, 6*oneToken, nil)
	})

	t.Run("negative amount", func(t *testing.T) {
		ownerInv.InvokeFail(t, "negative amount", "transfer", owner, to, -1, nil)
	})

	t.Run("invalid address", func(t *testing.T) {
		ownerInv.InvokeFail(t, "invalid address", "transfer", owner, []byte{1, 2, 3}, 1, nil)
	})

	t.Run("to self", func(t *testing.T) {
		env.NewInvoker(env.Token, acc).Invoke(t, true, "transfer", to, to, 5*oneToken, nil)
		require.EqualValues(t, 5*oneToken, env.TokenBalance(t, to))
	})

	env.NewInvoker(env.Token, acc).Invoke(t, true, "transfer", to, owner, 5*oneToken, nil)
	require.Zero(t, env.TokenBalance(t, to))
	require.EqualValues(t, chaintest.InitialSupply, env.TokenBalance(t, owner))
}

func TestSignorToken_Allowance(t *testing.T) {
	env := chaintest.Deploy(t)
	owner := env.Owner.ScriptHash()
	ownerInv := env.NewInvoker(env.Token, env.Owner)

	spenderAcc := env.NewAccount(t)
	spender := spenderAcc.ScriptHash()
	spenderInv := env.NewInvoker(env.Token, spenderAcc)

	to := env.NewAccount(t).ScriptHash()

	ownerInv.Invoke(t, 0, "allowance", owner, spender)
	spenderInv.Invoke(t, false, "transferFrom", spender, owner, to, oneToken, nil)

	spenderInv.Invoke(t, false, "approve", owner, spender, 10*oneToken)

	h := ownerInv.Invoke(t, true, "approve", owner, spender, 10*oneToken)
	env.CheckTxNotificationEvent(t, h, 0, state.NotificationEvent{
		ScriptHash: env.Token,
		Name:       "Approval",
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.NewByteArray(owner.BytesBE()),
			stackitem.NewByteArray(spender.BytesBE()),
			stackitem.Make(10 * oneToken),
		}),
	})
	ownerInv.Invoke(t, 10*oneToken, "allowance", owner, spender)

	ownerInv.Invoke(t, false, "transferFrom", spender, owner, to, oneToken, nil)
	spenderInv.Invoke(t, false, "transferFrom", spender, owner, to, 11*oneToken, nil)

	spenderInv.Invoke(t, true, "transferFrom", spender, owner, to, 4*oneToken, nil)
	require.EqualValues(t, 4*oneToken, env.TokenBalance(t, to))
	ownerInv.Invoke(t, 6*oneToken, "allowance", owner, spender)

	spenderInv.Invoke(t, true, "transferFrom", spender, owner, to, 6*oneToken, nil)
	ownerInv.Invoke(t, 0, "allowance", owner, spender)

	ownerInv.Invoke(t, true, "approve", owner, spender, oneToken)
	ownerInv.Invoke(t, true, "approve", owner, spender, 0)
	ownerInv.Invoke(t, 0, "allowance", owner, spender)
}

func TestSignorToken_Mint(t *testing.T) {
	env := chaintest.Deploy(t)
	owner := env.Owner.ScriptHash()

	acc := env.NewAccount(t)
	to := acc.ScriptHash()

	env.NewInvoker(env.Token, acc).InvokeFail(t, common.ErrOwnerWitnessFailed, "mint", to, oneToken)

	ownerInv := env.NewInvoker(env.Token, env.Owner)
	ownerInv.InvokeFail(t, "non-positive amount", "mint", to, 0)

	ownerInv.Invoke(t, stackitem.Null{}, "mint", to, 3*oneToken)
	require.EqualValues(t, 3*oneToken, env.TokenBalance(t, to))
	ownerInv.Invoke(t, chaintest.InitialSupply+3*oneToken, "totalSupply")
	require.EqualValues(t, chaintest.InitialSupply, env.TokenBalance(t, owner))
}

package mysave

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/signorlabs/mysave/common"
	"github.com/signorlabs/mysave/contracts/mysave/mysaveconst"
)

const (
	tokenKey = 'k'

	etherPrefix = 'e'
	tokenPrefix = 't'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	token := data.(interop.Hash160)
	if len(token) != interop.Hash160Len {
		panic("incorrect length of token contract script hash")
	}

	storage.Put(ctx, tokenKey, token)

	runtime.Log("mysave contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	common.CheckUpdateAccess()

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("mysave contract updated")
}

// OnNEP17Payment is a callback for NEP-17 compatible contracts. It credits
// the sender's savings with the received amount. Only native GAS and the
// token configured on deployment are accepted, any other asset aborts the
// transfer.
//
// It produces SavingSuccessful notification.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()
	caller := runtime.GetCallingScriptHash()

	var prefix byte
	if caller.Equals(gas.Hash) {
		prefix = etherPrefix
	} else if caller.Equals(getToken(ctx)) {
		prefix = tokenPrefix
	} else {
		common.AbortWithMessage(mysaveconst.ErrUnsupportedAsset)
	}

	if amount <= 0 {
		panic(mysaveconst.ErrZeroAmount)
	}

	if len(from) != interop.Hash160Len {
		common.AbortWithMessage("minting into savings is not allowed")
	}

	key := append([]byte{prefix}, from...)
	storage.Put(ctx, key, getBalance(ctx, key)+amount)

	runtime.Log("savings have been credited")
	runtime.Notify("SavingSuccessful", from, amount)
}

// DepositEther pulls the given amount of GAS from the user account into the
// contract. The user must witness the invocation with a scope that covers the
// GAS contract call. The savings are credited by OnNEP17Payment within the
// same invocation.
//
// A plain GAS transfer to the contract address has the same effect.
func DepositEther(user interop.Hash160, amount int) {
	common.CheckWitness(user)

	if amount <= 0 {
		panic(mysaveconst.ErrZeroAmount)
	}

	transferred := gas.Transfer(user, runtime.GetExecutingScriptHash(), amount, nil)
	if !transferred {
		panic(mysaveconst.ErrTransferFailed)
	}
}

// WithdrawEther transfers all GAS saved by the user back to the user. The
// record is removed before the transfer, so a recipient re-entering the
// contract from its payment callback finds no savings.
//
// It produces WithdrawSuccessful notification.
func WithdrawEther(user interop.Hash160) {
	common.CheckWitness(user)

	ctx := storage.GetContext()
	key := append([]byte{etherPrefix}, user...)

	amount := getBalance(ctx, key)
	if amount == 0 {
		panic(mysaveconst.ErrNoSavings)
	}

	storage.Delete(ctx, key)

	transferred := gas.Transfer(runtime.GetExecutingScriptHash(), user, amount, nil)
	if !transferred {
		panic(mysaveconst.ErrTransferFailed)
	}

	runtime.Log("ether savings have been withdrawn")
	runtime.Notify("WithdrawSuccessful", user, amount)
}

// DepositToken pulls the given amount of tokens from the user account using
// the allowance the user has given to the contract beforehand. The savings
// are credited by OnNEP17Payment within the same invocation.
func DepositToken(user interop.Hash160, amount int) {
	common.CheckWitness(user)

	if amount <= 0 {
		panic(mysaveconst.ErrZeroAmount)
	}

	ctx := storage.GetReadOnlyContext()
	self := runtime.GetExecutingScriptHash()

	transferred := contract.Call(getToken(ctx), "transferFrom", contract.All,
		self, user, self, amount, nil).(bool)
	if !transferred {
		panic(mysaveconst.ErrTransferFailed)
	}
}

// WithdrawToken transfers the given amount of saved tokens back to the user.
// Partial withdrawals are allowed. The record is decreased before the
// transfer.
//
// It produces WithdrawSuccessful notification.
func WithdrawToken(user interop.Hash160, amount int) {
	common.CheckWitness(user)

	ctx := storage.GetContext()
	key := append([]byte{tokenPrefix}, user...)

	balance := getBalance(ctx, key)
	if balance == 0 {
		panic(mysaveconst.ErrNoSavings)
	}

	if amount <= 0 {
		panic(mysaveconst.ErrZeroAmount)
	}

	if amount > balance {
		panic(mysaveconst.ErrInsufficientSavings)
	}

	if amount == balance {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, balance-amount)
	}

	transferred := contract.Call(getToken(ctx), "transfer", contract.All,
		runtime.GetExecutingScriptHash(), user, amount, nil).(bool)
	if !transferred {
		panic(mysaveconst.ErrTransferFailed)
	}

	runtime.Log("token savings have been withdrawn")
	runtime.Notify("WithdrawSuccessful", user, amount)
}

// CheckUserEtherBalance returns amount of GAS saved by the user.
func CheckUserEtherBalance(user interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return getBalance(ctx, append([]byte{etherPrefix}, user...))
}

// CheckUserTokenBalance returns amount of tokens saved by the user.
func CheckUserTokenBalance(user interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return getBalance(ctx, append([]byte{tokenPrefix}, user...))
}

// Token returns script hash of the token contract accepted for savings.
func Token() interop.Hash160 {
	return getToken(storage.GetReadOnlyContext())
}

// ListEtherSavings returns iterator over all non-zero GAS savings. Iteration
// is through key-value pair, where key is user script hash, value is the
// saved amount.
func ListEtherSavings() iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(), []byte{etherPrefix}, storage.RemovePrefix)
}

// ListTokenSavings is like [ListEtherSavings] but for token savings.
func ListTokenSavings() iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(), []byte{tokenPrefix}, storage.RemovePrefix)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getToken(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, tokenKey).(interop.Hash160)
}

func getBalance(ctx storage.Context, key []byte) int {
	data := storage.Get(ctx, key)
	if data != nil {
		return data.(int)
	}

	return 0
}

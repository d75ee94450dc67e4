package signortoken

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/signorlabs/mysave/common"
)

const (
	symbol        = "SIGN"
	decimals      = 8
	initialSupply = 1_000_000_0000_0000 // 1 000 000 SIGN in Fixed8

	ownerKey  = 'o'
	supplyKey = 's'

	balancePrefix   = 'b'
	allowancePrefix = 'a'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	owner := data.(interop.Hash160)
	if len(owner) != interop.Hash160Len {
		panic("incorrect length of owner script hash")
	}

	storage.Put(ctx, ownerKey, owner)
	mint(ctx, owner, initialSupply)

	runtime.Log("signor token contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	common.CheckUpdateAccess()

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("signor token contract updated")
}

// Symbol is a NEP-17 standard method that returns SIGN token symbol.
func Symbol() string {
	return symbol
}

// Decimals is a NEP-17 standard method that returns precision of token
// balances.
func Decimals() int {
	return decimals
}

// TotalSupply is a NEP-17 standard method that returns total amount of tokens.
func TotalSupply() int {
	return getInt(storage.GetReadOnlyContext(), supplyKey)
}

// BalanceOf is a NEP-17 standard method that returns token balance of the
// account.
func BalanceOf(account interop.Hash160) int {
	return getInt(storage.GetReadOnlyContext(), append([]byte{balancePrefix}, account...))
}

// Transfer is a NEP-17 standard method that transfers tokens from one
// account to another. It requires `from` witness. If `to` is a deployed
// contract, its onNEP17Payment method is called with the provided data.
//
// It produces Transfer notification.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	checkAddresses(from, to)
	checkAmount(amount)

	if !runtime.CheckWitness(from) {
		runtime.Log("sender witness check failed")
		return false
	}

	ctx := storage.GetContext()
	if !move(ctx, from, to, amount) {
		runtime.Log("insufficient funds")
		return false
	}

	postTransfer(from, to, amount, data)
	return true
}

// Approve allows spender to transfer up to the amount of tokens from the
// owner account. Zero amount revokes the allowance. It requires owner
// witness.
//
// It produces Approval notification.
func Approve(owner, spender interop.Hash160, amount int) bool {
	checkAddresses(owner, spender)
	checkAmount(amount)

	if !runtime.CheckWitness(owner) {
		runtime.Log("owner witness check failed")
		return false
	}

	ctx := storage.GetContext()
	key := allowanceKey(owner, spender)
	if amount == 0 {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, amount)
	}

	runtime.Notify("Approval", owner, spender, amount)
	return true
}

// Allowance returns amount of tokens spender is still allowed to transfer
// from the owner account.
func Allowance(owner, spender interop.Hash160) int {
	return getInt(storage.GetReadOnlyContext(), allowanceKey(owner, spender))
}

// TransferFrom moves tokens from `from` account to `to` account on behalf of
// spender, decreasing the allowance. It requires spender witness.
//
// It produces Transfer notification.
func TransferFrom(spender, from, to interop.Hash160, amount int, data any) bool {
	checkAddresses(spender, from)
	checkAddresses(from, to)
	checkAmount(amount)

	if !runtime.CheckWitness(spender) {
		runtime.Log("spender witness check failed")
		return false
	}

	ctx := storage.GetContext()
	key := allowanceKey(from, spender)

	allowed := getInt(ctx, key)
	if allowed < amount {
		runtime.Log("insufficient allowance")
		return false
	}

	if !move(ctx, from, to, amount) {
		runtime.Log("insufficient funds")
		return false
	}

	if allowed == amount {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, allowed-amount)
	}

	postTransfer(from, to, amount, data)
	return true
}

// Mint issues new tokens to the account. It can be invoked only by the
// contract owner.
//
// It produces Transfer notification.
func Mint(to interop.Hash160, amount int) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(getOwner(ctx))

	if len(to) != interop.Hash160Len {
		panic("invalid recipient")
	}

	if amount <= 0 {
		panic("non-positive amount")
	}

	mint(ctx, to, amount)
}

// Owner returns script hash of the account allowed to mint tokens.
func Owner() interop.Hash160 {
	return getOwner(storage.GetReadOnlyContext())
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func mint(ctx storage.Context, to interop.Hash160, amount int) {
	key := append([]byte{balancePrefix}, to...)
	storage.Put(ctx, key, getInt(ctx, key)+amount)
	storage.Put(ctx, supplyKey, getInt(ctx, supplyKey)+amount)

	var from interop.Hash160
	postTransfer(from, to, amount, nil)
}

func move(ctx storage.Context, from, to interop.Hash160, amount int) bool {
	fromKey := append([]byte{balancePrefix}, from...)

	fromBalance := getInt(ctx, fromKey)
	if fromBalance < amount {
		return false
	}

	if fromBalance == amount {
		storage.Delete(ctx, fromKey)
	} else {
		storage.Put(ctx, fromKey, fromBalance-amount)
	}

	toKey := append([]byte{balancePrefix}, to...)
	storage.Put(ctx, toKey, getInt(ctx, toKey)+amount)

	return true
}

func postTransfer(from, to interop.Hash160, amount int, data any) {
	runtime.Notify("Transfer", from, to, amount)

	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
}

func allowanceKey(owner, spender interop.Hash160) []byte {
	key := append([]byte{allowancePrefix}, owner...)
	return append(key, spender...)
}

func checkAddresses(a, b interop.Hash160) {
	if len(a) != interop.Hash160Len || len(b) != interop.Hash160Len {
		panic("invalid address")
	}
}

func checkAmount(amount int) {
	if amount < 0 {
		panic("negative amount")
	}
}

func getOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}

func getInt(ctx storage.Context, key any) int {
	data := storage.Get(ctx, key)
	if data != nil {
		return data.(int)
	}

	return 0
}

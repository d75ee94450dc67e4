package saver

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	targetKey  = 't'
	modeKey    = 'm'
	paymentKey = 'p'

	// ModeAccept makes the contract accept payments from the vault.
	ModeAccept = 0
	// ModeReenter makes the contract call withdrawal again from the payment
	// handler.
	ModeReenter = 1
	// ModeReject makes the contract fail on payments from the vault.
	ModeReject = 2
)

type Payment struct {
	Asset  interop.Hash160
	From   interop.Hash160
	Amount int
}

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}
	storage.Put(storage.GetContext(), targetKey, data.(interop.Hash160))
}

func SetMode(mode int) {
	storage.Put(storage.GetContext(), modeKey, mode)
}

func SaveEther(amount int) {
	if !gas.Transfer(runtime.GetExecutingScriptHash(), getTarget(), amount, nil) {
		panic("transfer failed")
	}
}

func SaveToken(token interop.Hash160, amount int) {
	ok := contract.Call(token, "transfer", contract.All,
		runtime.GetExecutingScriptHash(), getTarget(), amount, nil).(bool)
	if !ok {
		panic("transfer failed")
	}
}

func WithdrawEther() {
	contract.Call(getTarget(), "withdrawEther", contract.All, runtime.GetExecutingScriptHash())
}

func WithdrawToken(amount int) {
	contract.Call(getTarget(), "withdrawToken", contract.All, runtime.GetExecutingScriptHash(), amount)
}

func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()
	if !from.Equals(getTarget()) {
		return
	}

	asset := runtime.GetCallingScriptHash()

	switch getMode(ctx) {
	case ModeReenter:
		if asset.Equals(gas.Hash) {
			WithdrawEther()
		} else {
			WithdrawToken(amount)
		}
	case ModeReject:
		panic("payment rejected")
	}

	storage.Put(ctx, paymentKey, std.Serialize(Payment{
		Asset:  asset,
		From:   from,
		Amount: amount,
	}))
}

func LastPayment() Payment {
	val := storage.Get(storage.GetReadOnlyContext(), paymentKey)
	if val == nil {
		return Payment{}
	}
	return std.Deserialize(val.([]byte)).(Payment)
}

func getTarget() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), targetKey).(interop.Hash160)
}

func getMode(ctx storage.Context) int {
	val := storage.Get(ctx, modeKey)
	if val == nil {
		return ModeAccept
	}
	return val.(int)
}

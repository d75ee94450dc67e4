package common

import "github.com/nspcc-dev/neo-go/pkg/interop/runtime"

var (
	// ErrWitnessFailed appears when the method must be called by the
	// account it operates on but was not.
	ErrWitnessFailed = "witness check failed"
	// ErrOwnerWitnessFailed appears when the method must be called
	// by the owner of the contract but was not.
	ErrOwnerWitnessFailed = "owner witness check failed"
	// ErrCommitteeWitnessFailed appears when the method must be called
	// by the chain committee but was not.
	ErrCommitteeWitnessFailed = "committee witness check failed"
)

// CheckWitness checks witness of the passed account. The account may be a
// transaction signer or the contract calling the current one.
// It panics with ErrWitnessFailed message on fail.
func CheckWitness(account []byte) {
	checkWitnessWithPanic(account, ErrWitnessFailed)
}

// CheckOwnerWitness checks witness of the passed contract owner.
// It panics with ErrOwnerWitnessFailed message on fail.
func CheckOwnerWitness(owner []byte) {
	checkWitnessWithPanic(owner, ErrOwnerWitnessFailed)
}

func checkWitnessWithPanic(caller []byte, panicMsg string) {
	if !runtime.CheckWitness(caller) {
		panic(panicMsg)
	}
}

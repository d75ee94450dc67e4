package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// HasUpdateAccess returns true if contract can be updated.
func HasUpdateAccess() bool {
	return runtime.CheckWitness(CommitteeAddress())
}

// CheckUpdateAccess panics with ErrCommitteeWitnessFailed if the current
// invocation is not witnessed by the committee.
func CheckUpdateAccess() {
	if !HasUpdateAccess() {
		panic(ErrCommitteeWitnessFailed)
	}
}

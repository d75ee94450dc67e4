/*
Package mysave implements MySave contract, a personal savings vault.

Users put native GAS or SignorToken tokens into the contract and take them
back later. Every user has two independent records, one per asset. The records
are credited only when the contract receives NEP-17 payment, so both the pull
methods (DepositEther, DepositToken) and plain transfers to the contract
address end up in OnNEP17Payment. Payments in any other asset are rejected.

GAS savings can be withdrawn only in full, token savings can be withdrawn
partially. Savings records are updated before the outgoing transfer, so a
recipient contract calling back into MySave from its payment handler sees the
already updated state.

# Contract notifications

SavingSuccessful notification. This notification is produced when the
contract credits user savings.

	SavingSuccessful:
	  - name: user
	    type: Hash160
	  - name: amount
	    type: Integer

WithdrawSuccessful notification. This notification is produced when saved
assets are transferred back to the user.

	WithdrawSuccessful:
	  - name: user
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package mysave

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'k' -> interop.Hash160
   script hash of the token contract accepted for savings
 - e<interop.Hash160> -> int
   GAS savings of the user
 - t<interop.Hash160> -> int
   token savings of the user

Zero records are removed from the storage.
*/

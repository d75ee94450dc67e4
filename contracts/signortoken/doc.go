/*
Package signortoken implements SignorToken contract, a NEP-17 token accepted
by MySave contract.

The whole initial supply of 1 000 000 SIGN is issued to the owner account
passed on deployment. The owner can mint more tokens later. Besides the
NEP-17 methods the contract implements allowances: an account approves a
spender, and the spender moves tokens with TransferFrom. MySave uses it to
pull deposits.

# Contract notifications

Transfer notification. This is a NEP-17 standard notification. Mint is
reported with null `from`.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Approval notification. This notification is produced when an allowance is
set or revoked.

	Approval:
	  - name: owner
	    type: Hash160
	  - name: spender
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package signortoken

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'o' -> interop.Hash160
   account allowed to mint tokens
 - 's' -> int
   total supply
 - b<interop.Hash160> -> int
   token balance of the account
 - a<interop.Hash160><interop.Hash160> -> int
   amount the spender (second hash) may move from the owner (first hash)
*/

package mysave

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Number of items requested from the iterator session at once.
const iteratorBatch = 100

// Saving is a single savings record of the contract.
type Saving struct {
	User   util.Uint160
	Amount *big.Int
}

// ParseSavings converts key-value pairs produced by `listEtherSavings` and
// `listTokenSavings` iterators.
func ParseSavings(items []stackitem.Item) ([]Saving, error) {
	res := make([]Saving, 0, len(items))
	for i := range items {
		kv, ok := items[i].Value().([]stackitem.Item)
		if !ok || len(kv) != 2 {
			return nil, fmt.Errorf("item %d: not a key-value pair", i)
		}

		k, err := kv[0].TryBytes()
		if err != nil {
			return nil, fmt.Errorf("item %d: key: %w", i, err)
		}
		user, err := util.Uint160DecodeBytesBE(k)
		if err != nil {
			return nil, fmt.Errorf("item %d: user: %w", i, err)
		}

		amount, err := kv[1].TryInteger()
		if err != nil {
			return nil, fmt.Errorf("item %d: amount: %w", i, err)
		}
		res = append(res, Saving{User: user, Amount: amount})
	}
	return res, nil
}

// EtherSavings returns all GAS savings records. Iterator session is used if
// the node supports it.
func (c *ContractReader) EtherSavings() ([]Saving, error) {
	return c.savings(c.ListEtherSavings)
}

// TokenSavings returns all token savings records. Iterator session is used
// if the node supports it.
func (c *ContractReader) TokenSavings() ([]Saving, error) {
	return c.savings(c.ListTokenSavings)
}

func (c *ContractReader) savings(list func() (uuid.UUID, result.Iterator, error)) ([]Saving, error) {
	sessID, iter, err := list()
	if err != nil {
		return nil, err
	}

	if iter.ID == nil {
		if iter.Truncated {
			return nil, errors.New("iterator values are truncated by the node")
		}
		return ParseSavings(iter.Values)
	}

	defer func() {
		_ = c.invoker.TerminateSession(sessID)
	}()

	var res []Saving
	for {
		items, err := c.invoker.TraverseIterator(sessID, &iter, iteratorBatch)
		if err != nil {
			return nil, fmt.Errorf("traverse iterator: %w", err)
		}

		batch, err := ParseSavings(items)
		if err != nil {
			return nil, err
		}
		res = append(res, batch...)

		if len(items) < iteratorBatch {
			return res, nil
		}
	}
}

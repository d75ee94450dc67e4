package mysave

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func TestEventsFromApplicationLog(t *testing.T) {
	user := util.Uint160{1, 2, 3}
	event := func(name string, amount int64) state.NotificationEvent {
		return state.NotificationEvent{
			Name: name,
			Item: stackitem.NewArray([]stackitem.Item{
				stackitem.NewByteArray(user.BytesBE()),
				stackitem.Make(amount),
			}),
		}
	}

	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			Events: []state.NotificationEvent{
				event("Transfer", 1),
				event("SavingSuccessful", 10),
				event("WithdrawSuccessful", 7),
			},
		}},
	}

	saved, err := SavingSuccessfulEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*SavingSuccessfulEvent{{User: user, Amount: big.NewInt(10)}}, saved)

	withdrawn, err := WithdrawSuccessfulEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*WithdrawSuccessfulEvent{{User: user, Amount: big.NewInt(7)}}, withdrawn)

	_, err = SavingSuccessfulEventsFromApplicationLog(nil)
	require.Error(t, err)

	log.Executions[0].Events = append(log.Executions[0].Events, state.NotificationEvent{
		Name: "SavingSuccessful",
		Item: stackitem.NewArray([]stackitem.Item{stackitem.Make(1)}),
	})
	_, err = SavingSuccessfulEventsFromApplicationLog(log)
	require.Error(t, err)
}

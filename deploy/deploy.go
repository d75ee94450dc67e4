/*
Package deploy puts SignorToken and MySave contracts on a Neo chain.
*/
package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/signorlabs/mysave/contracts"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the deployment.
type Blockchain interface {
	// GetContractStateByHash returns network state of the smart contract by
	// its address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Actor sends transactions on behalf of the deploying account and waits for
// their acceptance. [actor.Actor] satisfies it.
//
// [actor.Actor]: https://pkg.go.dev/github.com/nspcc-dev/neo-go/pkg/rpcclient/actor#Actor
type Actor interface {
	Sender() util.Uint160
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error)
}

// Prm groups all parameters of the deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	Blockchain Blockchain

	// Sends deployment transactions. Contract addresses depend on its sender.
	Actor Actor

	// Account receiving the whole initial SignorToken supply. Actor sender
	// is used if zero.
	TokenOwner util.Uint160

	SignorToken contracts.Contract
	MySave      contracts.Contract
}

// Result groups addresses of the deployed contracts.
type Result struct {
	SignorToken util.Uint160
	MySave      util.Uint160
}

// ErrDeployFault is returned when deployment transaction is not executed
// successfully.
var ErrDeployFault = errors.New("deployment transaction failed")

// Deploy deploys SignorToken and then MySave accepting this token. Contracts
// already present on the chain at the expected addresses are left untouched,
// so Deploy can be repeated after a partial failure.
func Deploy(ctx context.Context, prm Prm) (Result, error) {
	var res Result

	owner := prm.TokenOwner
	if owner.Equals(util.Uint160{}) {
		owner = prm.Actor.Sender()
	}

	var err error
	res.SignorToken, err = deployContract(ctx, deployContractPrm{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		actor:      prm.Actor,
		contract:   prm.SignorToken,
		data:       owner,
	})
	if err != nil {
		return res, fmt.Errorf("deploy SignorToken contract: %w", err)
	}

	prm.Logger.Info("SignorToken contract successfully synchronized",
		zap.Stringer("address", res.SignorToken), zap.Stringer("owner", owner))

	res.MySave, err = deployContract(ctx, deployContractPrm{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		actor:      prm.Actor,
		contract:   prm.MySave,
		data:       res.SignorToken,
	})
	if err != nil {
		return res, fmt.Errorf("deploy MySave contract: %w", err)
	}

	prm.Logger.Info("MySave contract successfully synchronized", zap.Stringer("address", res.MySave))

	return res, nil
}

type deployContractPrm struct {
	logger     *zap.Logger
	blockchain Blockchain
	actor      Actor
	contract   contracts.Contract
	data       any
}

func deployContract(ctx context.Context, prm deployContractPrm) (util.Uint160, error) {
	name := prm.contract.Manifest.Name
	addr := prm.contract.Hash(prm.actor.Sender())

	if err := ctx.Err(); err != nil {
		return addr, err
	}
	l := prm.logger.With(zap.String("contract", name), zap.Stringer("address", addr))

	st, err := prm.blockchain.GetContractStateByHash(addr)
	if err == nil {
		if st.Manifest.Name != name {
			return addr, fmt.Errorf("address is occupied by contract '%s'", st.Manifest.Name)
		}
		l.Info("contract is already deployed, skip")
		return addr, nil
	}
	if !isErrContractNotFound(err) {
		return addr, fmt.Errorf("get contract state: %w", err)
	}

	bNEF, err := prm.contract.NEF.Bytes()
	if err != nil {
		return addr, fmt.Errorf("encode NEF: %w", err)
	}

	bManifest, err := json.Marshal(prm.contract.Manifest)
	if err != nil {
		return addr, fmt.Errorf("encode manifest: %w", err)
	}

	l.Info("contract is missing on the chain, sending deployment transaction...")

	h, vub, err := prm.actor.SendCall(management.Hash, "deploy", bNEF, bManifest, prm.data)
	l.Debug("deployment transaction sent", zap.Stringer("tx", h), zap.Uint32("vub", vub))

	res, err := prm.actor.Wait(h, vub, err)
	if err != nil {
		return addr, fmt.Errorf("wait for deployment transaction: %w", err)
	}

	if res.VMState != vmstate.Halt {
		return addr, fmt.Errorf("%w: %s (%s)", ErrDeployFault, res.VMState, res.FaultException)
	}

	l.Info("contract deployed", zap.Stringer("tx", h))

	return addr, nil
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}

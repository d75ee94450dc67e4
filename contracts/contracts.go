/*
Package contracts compiles MySave contracts from their sources and provides
access to them.
*/
package contracts

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/nspcc-dev/neo-go/cli/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/compiler"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

const (
	// SignorTokenDir is a directory of SignorToken contract sources.
	SignorTokenDir = "signortoken"
	// MySaveDir is a directory of MySave contract sources.
	MySaveDir = "mysave"

	configName = "config.yml"
)

// Contract groups information about compiled Neo contract.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

var (
	// ErrInvalidConfig is returned when contract configuration can't be read.
	ErrInvalidConfig = errors.New("invalid contract config")

	// Deployment order, the token goes first since MySave is initialized
	// with its address.
	deployOrder = []string{
		SignorTokenDir,
		MySaveDir,
	}
)

// Hash returns the address of the contract deployed by the sender.
func (c Contract) Hash(sender util.Uint160) util.Uint160 {
	return state.CreateContractHash(sender, c.NEF.Checksum, c.Manifest.Name)
}

// Path returns the path of the named contract sources. If root is empty, the
// directory of the current package sources is used.
func Path(root, name string) string {
	if root == "" {
		_, file, _, _ := runtime.Caller(0)
		root = filepath.Dir(file)
	}
	return filepath.Join(root, name)
}

// Compile compiles Go sources of the contract located in dir. The manifest is
// built from config.yml stored in the same directory.
func Compile(dir string) (Contract, error) {
	var c Contract

	conf, err := smartcontract.ParseContractConfig(filepath.Join(dir, configName))
	if err != nil {
		return c, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	ne, di, err := compiler.CompileWithOptions(dir, nil, nil)
	if err != nil {
		return c, fmt.Errorf("compile %s: %w", dir, err)
	}

	o := &compiler.Options{
		Name:                       conf.Name,
		SourceURL:                  conf.SourceURL,
		ContractEvents:             conf.Events,
		DeclaredNamedTypes:         conf.NamedTypes,
		ContractSupportedStandards: conf.SupportedStandards,
		SafeMethods:                conf.SafeMethods,
		Overloads:                  conf.Overloads,
		Permissions:                make([]manifest.Permission, len(conf.Permissions)),
	}
	for i := range conf.Permissions {
		o.Permissions[i] = manifest.Permission(conf.Permissions[i])
	}

	m, err := compiler.CreateManifest(di, o)
	if err != nil {
		return c, fmt.Errorf("create manifest for %s: %w", dir, err)
	}

	c.NEF = *ne
	c.Manifest = *m

	return c, nil
}

// CompileAll compiles all contracts found under root (see Path). They're
// returned in the order they're supposed to be deployed starting from
// SignorToken.
func CompileAll(root string) ([]Contract, error) {
	var res = make([]Contract, 0, len(deployOrder))

	for i := range deployOrder {
		c, err := Compile(Path(root, deployOrder[i]))
		if err != nil {
			return nil, fmt.Errorf("read contract %s: %w", deployOrder[i], err)
		}

		res = append(res, c)
	}

	return res, nil
}

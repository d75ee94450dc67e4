package contracts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestCompileAll(t *testing.T) {
	c, err := CompileAll("")
	require.NoError(t, err)
	require.Len(t, c, len(deployOrder))

	require.Equal(t, "SignorToken", c[0].Manifest.Name)
	require.Equal(t, []string{manifest.NEP17StandardName}, c[0].Manifest.SupportedStandards)
	require.Equal(t, "MySave", c[1].Manifest.Name)

	for _, name := range []string{
		"depositEther", "withdrawEther", "depositToken", "withdrawToken",
		"checkUserEtherBalance", "checkUserTokenBalance", "onNEP17Payment",
	} {
		require.NotNil(t, c[1].Manifest.ABI.GetMethod(name, -1), name)
	}

	for _, name := range []string{"checkUserEtherBalance", "checkUserTokenBalance"} {
		require.True(t, c[1].Manifest.ABI.GetMethod(name, -1).Safe, name)
	}
	require.False(t, c[1].Manifest.ABI.GetMethod("withdrawEther", -1).Safe)

	require.NotNil(t, c[1].Manifest.ABI.GetEvent("SavingSuccessful"))
	require.NotNil(t, c[1].Manifest.ABI.GetEvent("WithdrawSuccessful"))
}

func TestContractHash(t *testing.T) {
	c, err := Compile(Path("", MySaveDir))
	require.NoError(t, err)

	var sender1, sender2 util.Uint160
	sender2[0] = 1

	require.Equal(t, c.Hash(sender1), c.Hash(sender1))
	require.NotEqual(t, c.Hash(sender1), c.Hash(sender2))
}

func TestCompileMissingConfig(t *testing.T) {
	dir := t.TempDir()

	_, err := Compile(dir)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestCompileInvalidSources(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, configName), []byte("name: broken\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contract.go"), []byte("package broken\n\nfunc Main() int {\n"), 0o600))

	_, err := Compile(dir)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidConfig)
}

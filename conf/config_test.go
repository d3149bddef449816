package conf

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swanchain/go-swan-sdk/constants"
	"github.com/swanchain/go-swan-sdk/models"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, constants.NetworkMainnet, cfg.API.Network)
	assert.Equal(t, constants.SWAN_API_MAINNET, cfg.Endpoint())
	assert.Equal(t, 3*time.Minute, cfg.ConfirmTimeout())
	assert.Equal(t, 10, cfg.RetryPolicy().MaxAttempts)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := `
[API]
ApiKey = "file-key"
Network = "testnet"
Timeout = "10s"

[CHAIN]
ConfirmTimeout = "1m"
PollInterval = "1s"

[GAS]
PriorityFeePercent = 0.25
PriorityFeeCapGwei = 5

[STORAGE]
BucketName = "private-tasks"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0600))
	t.Setenv("ORCHESTRATOR_ENDPOINT", "http://localhost:8090/")
	t.Setenv("API_KEY", "env-key")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.API.ApiKey)
	assert.Equal(t, "http://localhost:8090", cfg.Endpoint())
	assert.Equal(t, constants.CONTRACT_SIGNER_TESTNET, cfg.Signer())
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
	assert.Equal(t, time.Minute, cfg.ConfirmTimeout())
	assert.Equal(t, 0.25, cfg.GAS.PriorityFeePercent)
	assert.Equal(t, "private-tasks", cfg.STORAGE.BucketName)
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.API.Network = "devnet"
	cfg.GAS.PriorityFeePercent = 1.5
	cfg.RETRY.MaxAttempts = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidFeeConfiguration))
	assert.Contains(t, err.Error(), "devnet")
	assert.Contains(t, err.Error(), "max attempts")
}

func TestValidateWalletMatchesKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	other, err := crypto.GenerateKey()
	require.NoError(t, err)

	cfg := Default()
	cfg.WALLET.PrivateKey = "0x" + hex.EncodeToString(crypto.FromECDSA(key))
	assert.NoError(t, cfg.Validate())

	cfg.WALLET.Address = crypto.PubkeyToAddress(key.PublicKey).Hex()
	assert.NoError(t, cfg.Validate())

	cfg.WALLET.Address = crypto.PubkeyToAddress(other.PublicKey).Hex()
	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidParameter))

	cfg.WALLET.Address = "not-an-address"
	assert.Error(t, cfg.Validate())

	cfg.WALLET.PrivateKey = "zz"
	cfg.WALLET.Address = ""
	assert.Error(t, cfg.Validate())
}

package sdk

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swanchain/go-swan-sdk/conf"
	"github.com/swanchain/go-swan-sdk/internal/mockserver"
	"github.com/swanchain/go-swan-sdk/models"
	"github.com/swanchain/go-swan-sdk/task"
)

var detail = models.ContractDetail{
	PaymentContractAddress: "0x1Bd1ea9F3d7D6E1AE1Cd6E8c9D5d0A3E6a1e6A30",
	TokenContractAddress:   "0x91B25A65b295F0405552A4bbB77879ab5e38166c",
	RpcUrl:                 "http://127.0.0.1:8545",
	ChainID:                20241133,
}

func signer(t *testing.T) (string, string) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return hexutil.Encode(crypto.FromECDSA(key))[2:], crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func testConfig(endpoint, signerAddr string) *conf.SwanConfig {
	cfg := conf.Default()
	cfg.API.ApiKey = "test-key"
	cfg.API.EndpointOverride = endpoint
	cfg.API.ContractSigner = signerAddr
	return cfg
}

func TestNewWiresEverything(t *testing.T) {
	gin.SetMode(gin.TestMode)
	key, addr := signer(t)
	srv := httptest.NewServer(mockserver.New(
		mockserver.WithAPIKey("test-key"),
		mockserver.WithContract(detail, key),
	).Handler())
	defer srv.Close()

	client, err := New(context.Background(), testConfig(srv.URL, addr))
	require.NoError(t, err)
	defer client.Close()

	assert.NotEmpty(t, client.API.Token())
	assert.NotNil(t, client.Gateway)
	assert.Equal(t, detail, client.Contract.ContractDetail)
	assert.Len(t, client.Catalog.List(), 3)

	res, err := client.Lifecycle.CreateTask(context.Background(), task.CreateTaskOptions{
		WalletAddress: "0x7791f48931DB81668854921fA70bFf0eB85B8211",
		Duration:      time.Hour,
		RepoURI:       "https://github.com/swanchain/hello_world",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.TaskUuid)
}

func TestNewRejectsForeignContractInfo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	key, _ := signer(t)
	_, other := signer(t)
	srv := httptest.NewServer(mockserver.New(
		mockserver.WithAPIKey("test-key"),
		mockserver.WithContract(detail, key),
	).Handler())
	defer srv.Close()

	_, err := New(context.Background(), testConfig(srv.URL, other))
	assert.True(t, errors.Is(err, models.ErrInvalidSignature))
}

func TestNewWithoutChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(mockserver.New(mockserver.WithAPIKey("test-key")).Handler())
	defer srv.Close()

	client, err := New(context.Background(), testConfig(srv.URL, ""), WithoutChain())
	require.NoError(t, err)
	assert.Nil(t, client.Gateway)

	_, err = New(context.Background(), func() *conf.SwanConfig {
		cfg := testConfig(srv.URL, "")
		cfg.API.ApiKey = "wrong"
		return cfg
	}(), WithoutChain())
	assert.True(t, errors.Is(err, models.ErrUnauthorized))
}

func TestNewUploaderFromConfig(t *testing.T) {
	cfg := conf.Default()
	cfg.STORAGE.McsApiKey = "mcs-key"
	cfg.STORAGE.BucketName = "private-projects"
	cfg.STORAGE.GatewayUrl = "https://gateway.example/"

	uploader := NewUploader(cfg)
	assert.Equal(t, "mcs-key", uploader.McsApiKey)
	assert.Equal(t, "private-projects", uploader.BucketName)
	assert.Equal(t, "https://gateway.example", uploader.GatewayUrl)
}

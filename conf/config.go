package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/swanchain/go-swan-sdk/constants"
	"github.com/swanchain/go-swan-sdk/models"
	"github.com/swanchain/go-swan-sdk/retry"
	"github.com/swanchain/go-swan-sdk/wallet"
)

const ConfigFile = "config.toml"

var config *SwanConfig

type SwanConfig struct {
	API     API
	WALLET  WALLET
	CHAIN   CHAIN
	GAS     GAS
	RETRY   RETRY
	STORAGE STORAGE
}

type API struct {
	ApiKey           string
	Network          string
	EndpointOverride string
	ContractSigner   string
	Timeout          duration
}

type WALLET struct {
	Address    string
	PrivateKey string
}

type CHAIN struct {
	RpcUrl         string
	ConfirmTimeout duration
	PollInterval   duration
}

type GAS struct {
	PriorityFeePercent float64
	PriorityFeeCapGwei float64
}

type RETRY struct {
	MaxAttempts int
	Interval    duration
	Factor      float64
	Jitter      float64
}

type STORAGE struct {
	McsApiKey      string
	McsAccessToken string
	McsNetwork     string
	BucketName     string
	GatewayUrl     string
	TokenStorePath string
}

// duration decodes "30s" style TOML strings.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() *SwanConfig {
	defaultRetry := retry.Default()
	return &SwanConfig{
		API: API{
			Network: constants.NetworkMainnet,
			Timeout: duration{60 * time.Second},
		},
		CHAIN: CHAIN{
			ConfirmTimeout: duration{3 * time.Minute},
			PollInterval:   duration{3 * time.Second},
		},
		GAS: GAS{
			PriorityFeePercent: 0.1,
			PriorityFeeCapGwei: 2,
		},
		RETRY: RETRY{
			MaxAttempts: defaultRetry.MaxAttempts,
			Interval:    duration{defaultRetry.Interval},
			Factor:      defaultRetry.Factor,
			Jitter:      defaultRetry.Jitter,
		},
	}
}

// InitConfig loads <repo>/config.toml when present, then .env and the process environment.
func InitConfig(repoPath string) error {
	cfg, err := Load(repoPath)
	if err != nil {
		return err
	}
	config = cfg
	return nil
}

func GetConfig() *SwanConfig {
	return config
}

func Load(repoPath string) (*SwanConfig, error) {
	cfg := Default()

	configFile := filepath.Join(repoPath, ConfigFile)
	if _, err := os.Stat(configFile); err == nil {
		if _, err := toml.DecodeFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed load config file, path: %s, error: %w", configFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	envFile := filepath.Join(repoPath, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed load env file, path: %s, error: %w", envFile, err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *SwanConfig) applyEnv() {
	override := func(target *string, key string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*target = strings.TrimSpace(v)
		}
	}
	override(&c.API.ApiKey, "API_KEY")
	override(&c.API.Network, "NETWORK")
	override(&c.API.EndpointOverride, "ORCHESTRATOR_ENDPOINT")
	override(&c.WALLET.Address, "WALLET")
	override(&c.WALLET.PrivateKey, "PRIVATE_KEY")
	override(&c.CHAIN.RpcUrl, "RPC_URL")
	override(&c.STORAGE.McsApiKey, "MCS_API_KEY")
	override(&c.STORAGE.McsAccessToken, "MCS_ACCESS_TOKEN")
	override(&c.STORAGE.BucketName, "MCS_BUCKET")
}

func (c *SwanConfig) Validate() error {
	var result *multierror.Error

	switch c.API.Network {
	case constants.NetworkMainnet, constants.NetworkTestnet:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown network %q", c.API.Network))
	}
	if c.GAS.PriorityFeePercent < 0 || c.GAS.PriorityFeePercent > 1 {
		result = multierror.Append(result, fmt.Errorf("priority fee percent %v outside [0,1]: %w",
			c.GAS.PriorityFeePercent, models.ErrInvalidFeeConfiguration))
	}
	if c.GAS.PriorityFeeCapGwei < 0 {
		result = multierror.Append(result, fmt.Errorf("priority fee cap must not be negative: %w",
			models.ErrInvalidFeeConfiguration))
	}
	if c.CHAIN.ConfirmTimeout.Duration <= 0 {
		result = multierror.Append(result, fmt.Errorf("confirm timeout must be positive"))
	}
	if c.CHAIN.PollInterval.Duration <= 0 {
		result = multierror.Append(result, fmt.Errorf("poll interval must be positive"))
	}
	if err := c.RetryPolicy().Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.WALLET.validate(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// validate checks that Address, when given, belongs to PrivateKey.
func (w WALLET) validate() error {
	if w.PrivateKey == "" {
		return nil
	}
	owner, err := wallet.AddressFromPrivateKey(w.PrivateKey)
	if err != nil {
		return fmt.Errorf("wallet private key is invalid: %w", err)
	}
	if w.Address == "" {
		return nil
	}
	if !common.IsHexAddress(w.Address) || common.HexToAddress(w.Address) != owner {
		return fmt.Errorf("wallet address %s does not match private key (owner %s): %w",
			w.Address, owner.Hex(), models.ErrInvalidParameter)
	}
	return nil
}

// Endpoint is the orchestrator base url for the configured network.
func (c *SwanConfig) Endpoint() string {
	if c.API.EndpointOverride != "" {
		return strings.TrimRight(c.API.EndpointOverride, "/")
	}
	if c.API.Network == constants.NetworkTestnet {
		return constants.SWAN_API_TESTNET
	}
	return constants.SWAN_API_MAINNET
}

func (c *SwanConfig) Signer() string {
	if c.API.ContractSigner != "" {
		return c.API.ContractSigner
	}
	if c.API.Network == constants.NetworkTestnet {
		return constants.CONTRACT_SIGNER_TESTNET
	}
	return constants.CONTRACT_SIGNER_MAINNET
}

func (c *SwanConfig) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.RETRY.MaxAttempts,
		Interval:    c.RETRY.Interval.Duration,
		Factor:      c.RETRY.Factor,
		Jitter:      c.RETRY.Jitter,
	}
}

func (c *SwanConfig) ConfirmTimeout() time.Duration {
	return c.CHAIN.ConfirmTimeout.Duration
}

func (c *SwanConfig) PollInterval() time.Duration {
	return c.CHAIN.PollInterval.Duration
}

func (c *SwanConfig) RequestTimeout() time.Duration {
	return c.API.Timeout.Duration
}

// Package sdk wires configuration, the orchestrator client, the hardware catalog,
// the payment gateway and the task lifecycle into one client.
package sdk

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/filswan/go-swan-lib/logs"
	"github.com/swanchain/go-swan-sdk/api"
	"github.com/swanchain/go-swan-sdk/catalog"
	"github.com/swanchain/go-swan-sdk/conf"
	"github.com/swanchain/go-swan-sdk/models"
	"github.com/swanchain/go-swan-sdk/payment"
	"github.com/swanchain/go-swan-sdk/private"
	"github.com/swanchain/go-swan-sdk/retry"
	"github.com/swanchain/go-swan-sdk/task"
	"github.com/swanchain/go-swan-sdk/wallet"
)

type Client struct {
	Config    *conf.SwanConfig
	API       *api.Client
	Catalog   *catalog.Catalog
	Lifecycle *task.Lifecycle
	// Contract and Gateway are set only when the chain is wired.
	Contract *models.ContractInfo
	Gateway  *payment.Gateway

	closeChain func()
}

type options struct {
	httpClient *http.Client
	skipChain  bool
}

type Option func(*options)

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithoutChain skips contract discovery; only caller-paid flows work.
func WithoutChain() Option {
	return func(o *options) {
		o.skipChain = true
	}
}

// getRetry bounds the retries of idempotent orchestrator reads.
var getRetry = retry.Policy{MaxAttempts: 3, Interval: time.Second, Factor: 2, Jitter: 0.1}

// New logs in, loads the hardware catalog and, unless disabled, verifies the
// contract info and dials the chain.
func New(ctx context.Context, cfg *conf.SwanConfig, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, models.ValidationError("sdk.New", err)
	}

	apiOpts := []api.Option{api.WithRetry(getRetry), api.WithTimeout(cfg.RequestTimeout())}
	if o.httpClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(o.httpClient))
	}
	client := &Client{
		Config: cfg,
		API:    api.NewClient(cfg.Endpoint(), cfg.API.ApiKey, apiOpts...),
	}
	if err := client.API.Login(ctx); err != nil {
		logs.GetLogger().Errorf("Failed login to orchestrator, error: %v", err)
		return nil, err
	}

	client.Catalog = catalog.New(client.API)
	if err := client.Catalog.Refresh(ctx); err != nil {
		return nil, err
	}

	var lifecycleOpts []task.Option
	if !o.skipChain {
		if err := client.dialChain(ctx); err != nil {
			return nil, err
		}
		lifecycleOpts = append(lifecycleOpts, task.WithPayer(client.Gateway))
	}
	client.Lifecycle = task.NewLifecycle(client.API, client.Catalog, lifecycleOpts...)
	return client, nil
}

func (c *Client) dialChain(ctx context.Context) error {
	info, err := c.API.ContractInfo(ctx)
	if err != nil {
		return err
	}
	if err = wallet.VerifyContractInfo(info, c.Config.Signer()); err != nil {
		logs.GetLogger().Errorf("Failed verify contract info, error: %v", err)
		return models.TransportError("ContractInfo", models.KindFatal, err)
	}
	c.Contract = info

	fees, err := payment.NewFeePolicy(c.Config.GAS.PriorityFeePercent, c.Config.GAS.PriorityFeeCapGwei)
	if err != nil {
		return err
	}
	gateway, closeFn, err := payment.Dial(ctx, info.ContractDetail, c.Config.CHAIN.RpcUrl,
		payment.WithPriceSource(c.Catalog),
		payment.WithFeePolicy(fees),
		payment.WithConfirmation(c.Config.ConfirmTimeout(), c.Config.PollInterval()))
	if err != nil {
		return err
	}
	c.Gateway = gateway
	c.closeChain = closeFn
	logs.GetLogger().Infof("payment contract %s on chain %d", info.ContractDetail.PaymentContractAddress, info.ContractDetail.ChainID)
	return nil
}

// NewUploader returns the bucket uploader configured for private projects.
func NewUploader(cfg *conf.SwanConfig) *private.McsUploader {
	s := cfg.STORAGE
	return &private.McsUploader{
		McsApiKey:      s.McsApiKey,
		McsAccessToken: s.McsAccessToken,
		NetWork:        s.McsNetwork,
		BucketName:     s.BucketName,
		GatewayUrl:     strings.TrimSuffix(s.GatewayUrl, "/"),
	}
}

func (c *Client) Uploader() *private.McsUploader {
	return NewUploader(c.Config)
}

// WaitPolicy is the configured policy for polling deployment progress.
func (c *Client) WaitPolicy() retry.Policy {
	return c.Config.RetryPolicy()
}

func (c *Client) Close() {
	if c.closeChain != nil {
		c.closeChain()
		c.closeChain = nil
	}
}

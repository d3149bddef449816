package payment

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/filswan/go-swan-lib/logs"
	"github.com/shopspring/decimal"
	"github.com/swanchain/go-swan-sdk/models"
	"github.com/swanchain/go-swan-sdk/wallet/contract/swan_payment"
)

// ChainReader is the subset of an RPC client the gateway needs.
type ChainReader interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type TokenContract interface {
	Address() common.Address
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	Approve(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*types.Transaction, error)
}

type PaymentContract interface {
	Address() common.Address
	HardwareInfo(ctx context.Context, hardwareID int64) (swan_payment.HardwareInfo, error)
	SubmitPayment(opts *bind.TransactOpts, taskUUID string, hardwareID int64, duration int64) (*types.Transaction, error)
	RenewPayment(opts *bind.TransactOpts, taskUUID string, hardwareID int64, duration int64) (*types.Transaction, error)
}

// PriceSource gives the display price per hour of a hardware id.
type PriceSource interface {
	PriceByID(hardwareID int) (decimal.Decimal, error)
}

type Gateway struct {
	chain          ChainReader
	token          TokenContract
	payment        PaymentContract
	prices         PriceSource
	fees           FeePolicy
	confirmTimeout time.Duration
	pollInterval   time.Duration
}

type Option func(*Gateway)

func WithPriceSource(prices PriceSource) Option {
	return func(g *Gateway) {
		g.prices = prices
	}
}

func WithFeePolicy(fees FeePolicy) Option {
	return func(g *Gateway) {
		g.fees = fees
	}
}

// WithConfirmation bounds how long a transaction may take to be mined.
func WithConfirmation(timeout, interval time.Duration) Option {
	return func(g *Gateway) {
		if timeout > 0 {
			g.confirmTimeout = timeout
		}
		if interval > 0 {
			g.pollInterval = interval
		}
	}
}

func NewGateway(chain ChainReader, token TokenContract, payment PaymentContract, options ...Option) (*Gateway, error) {
	g := &Gateway{
		chain:          chain,
		token:          token,
		payment:        payment,
		fees:           DefaultFeePolicy(),
		confirmTimeout: 3 * time.Minute,
		pollInterval:   3 * time.Second,
	}
	for _, option := range options {
		option(g)
	}
	if err := g.fees.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Estimate returns the display amount a payment for duration would cost.
func (g *Gateway) Estimate(hardwareID int, duration time.Duration) (decimal.Decimal, error) {
	if g.prices == nil {
		return decimal.Zero, models.ResolutionError("estimate", models.KindNotFound, fmt.Errorf("no price source"))
	}
	price, err := g.prices.PriceByID(hardwareID)
	if err != nil {
		return decimal.Zero, models.ResolutionError("estimate", models.KindNotFound, err)
	}
	return Cost(price, int64(duration/time.Second)), nil
}

func (g *Gateway) requiredWei(ctx context.Context, hardwareID int, duration time.Duration) (*big.Int, error) {
	info, err := g.payment.HardwareInfo(ctx, int64(hardwareID))
	if err != nil {
		return nil, classify("hardware info", err)
	}
	if info.PricePerHour == nil {
		return nil, models.PaymentError("hardware info", models.KindNotFound,
			fmt.Errorf("hardware id %d has no on-chain price: %w", hardwareID, models.ErrPaymentRejected))
	}
	if !info.Available {
		logs.GetLogger().Warnf("hardware %d (%s) is marked unavailable on chain", hardwareID, info.Name)
	}
	return costWei(info.PricePerHour, int64(duration/time.Second)), nil
}

// EnsureAllowance approves the payment contract when the current allowance is below
// required and waits for the approval to be mined. It returns the approval tx hash, or
// "" when no approval was needed.
func (g *Gateway) EnsureAllowance(ctx context.Context, privateKey string, required decimal.Decimal) (string, error) {
	key, owner, err := parseKey(privateKey)
	if err != nil {
		return "", err
	}
	return g.ensureAllowance(ctx, key, owner, ToWei(required))
}

func (g *Gateway) ensureAllowance(ctx context.Context, key *ecdsa.PrivateKey, owner common.Address, required *big.Int) (string, error) {
	allowance, err := g.token.Allowance(ctx, owner, g.payment.Address())
	if err != nil {
		return "", classify("allowance", err)
	}
	if allowance.Cmp(required) >= 0 {
		logs.GetLogger().Debugf("allowance %s covers %s, no approval needed", FromWei(allowance), FromWei(required))
		return "", nil
	}

	opts, err := g.transactOpts(ctx, key, owner)
	if err != nil {
		return "", err
	}
	tx, err := g.token.Approve(opts, g.payment.Address(), required)
	if err != nil {
		return "", classify("approve", err)
	}
	txHash := tx.Hash().Hex()
	logs.GetLogger().Infof("approve tx submitted, tx: %s, amount: %s", txHash, FromWei(required))
	if err = g.waitForReceipt(ctx, "approve", tx.Hash()); err != nil {
		return "", err
	}
	return txHash, nil
}

// SubmitPayment pays for task creation and blocks until the payment is mined.
func (g *Gateway) SubmitPayment(ctx context.Context, privateKey string, taskUUID string, hardwareID int, duration time.Duration) (*models.PaymentResult, error) {
	return g.pay(ctx, "submit payment", privateKey, taskUUID, hardwareID, duration, g.payment.SubmitPayment)
}

// RenewPayment pays for extending a running task.
func (g *Gateway) RenewPayment(ctx context.Context, privateKey string, taskUUID string, hardwareID int, duration time.Duration) (*models.PaymentResult, error) {
	return g.pay(ctx, "renew payment", privateKey, taskUUID, hardwareID, duration, g.payment.RenewPayment)
}

type payFunc func(opts *bind.TransactOpts, taskUUID string, hardwareID int64, duration int64) (*types.Transaction, error)

func (g *Gateway) pay(ctx context.Context, op, privateKey, taskUUID string, hardwareID int, duration time.Duration, send payFunc) (*models.PaymentResult, error) {
	if strings.TrimSpace(taskUUID) == "" {
		return nil, models.ValidationError(op, fmt.Errorf("task uuid is required: %w", models.ErrInvalidParameter))
	}
	if duration < time.Second {
		return nil, models.ValidationError(op, fmt.Errorf("duration %s: %w", duration, models.ErrInvalidParameter))
	}
	key, owner, err := parseKey(privateKey)
	if err != nil {
		return nil, err
	}

	required, err := g.requiredWei(ctx, hardwareID, duration)
	if err != nil {
		return nil, err
	}
	approveHash, err := g.ensureAllowance(ctx, key, owner, required)
	if err != nil {
		return nil, err
	}

	opts, err := g.transactOpts(ctx, key, owner)
	if err != nil {
		return nil, err
	}
	tx, err := send(opts, taskUUID, int64(hardwareID), int64(duration/time.Second))
	if err != nil {
		return nil, classify(op, err)
	}
	logs.GetLogger().Infof("%s tx submitted, task: %s, tx: %s, amount: %s", op, taskUUID, tx.Hash().Hex(), FromWei(required))
	if err = g.waitForReceipt(ctx, op, tx.Hash()); err != nil {
		return nil, err
	}

	return &models.PaymentResult{
		TxHash:        tx.Hash().Hex(),
		TxHashApprove: approveHash,
		Amount:        FromWei(required),
	}, nil
}

// Balance reads the owner's token balance in display units.
func (g *Gateway) Balance(ctx context.Context, owner string) (decimal.Decimal, error) {
	if !common.IsHexAddress(owner) {
		return decimal.Zero, models.ValidationError("balance", fmt.Errorf("invalid address %q: %w", owner, models.ErrInvalidParameter))
	}
	balance, err := g.token.BalanceOf(ctx, common.HexToAddress(owner))
	if err != nil {
		return decimal.Zero, classify("balance", err)
	}
	return FromWei(balance), nil
}

func (g *Gateway) transactOpts(ctx context.Context, key *ecdsa.PrivateKey, owner common.Address) (*bind.TransactOpts, error) {
	nonce, err := g.chain.PendingNonceAt(ctx, owner)
	if err != nil {
		return nil, classify("nonce", fmt.Errorf("address: %s, get nonce error: %w", owner, err))
	}
	chainID, err := g.chain.ChainID(ctx)
	if err != nil {
		return nil, classify("chain id", fmt.Errorf("address: %s, get chain id error: %w", owner, err))
	}
	gasPrice, err := g.chain.SuggestGasPrice(ctx)
	if err != nil {
		return nil, classify("gas price", fmt.Errorf("address: %s, suggest gas price error: %w", owner, err))
	}
	var baseFee *big.Int
	head, err := g.chain.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, classify("base fee", fmt.Errorf("read latest header error: %w", err))
	}
	if head != nil {
		baseFee = head.BaseFee
	}

	txOptions, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, models.PaymentError("transact opts", models.KindFatal, err)
	}
	tip, feeCap, err := g.fees.Fees(baseFee, gasPrice)
	if err != nil {
		return nil, err
	}
	txOptions.Nonce = new(big.Int).SetUint64(nonce)
	txOptions.GasTipCap = tip
	txOptions.GasFeeCap = feeCap
	txOptions.Context = ctx
	return txOptions, nil
}

func (g *Gateway) waitForReceipt(ctx context.Context, op string, txHash common.Hash) error {
	timeout := time.After(g.confirmTimeout)
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return models.PaymentError(op, models.KindFatal, ctx.Err())
		case <-timeout:
			logs.GetLogger().Errorf("Failed wait for transaction confirmation, tx: %s", txHash.Hex())
			return models.PaymentError(op, models.KindTransient,
				fmt.Errorf("tx %s not mined within %s: %w", txHash.Hex(), g.confirmTimeout, models.ErrPaymentTimeout))
		case <-ticker.C:
			receipt, err := g.chain.TransactionReceipt(ctx, txHash)
			if err != nil {
				if errors.Is(err, ethereum.NotFound) {
					continue
				}
				return classify(op, fmt.Errorf("tx %s receipt, error: %w", txHash.Hex(), err))
			}
			if receipt == nil {
				continue
			}
			if receipt.Status == types.ReceiptStatusSuccessful {
				return nil
			}
			logs.GetLogger().Errorf("Failed %s, transaction reverted, tx: %s", op, txHash.Hex())
			return models.PaymentError(op, models.KindFatal,
				fmt.Errorf("tx %s reverted: %w", txHash.Hex(), models.ErrPaymentFailed))
		}
	}
}

func parseKey(privateKey string) (*ecdsa.PrivateKey, common.Address, error) {
	if strings.TrimSpace(privateKey) == "" {
		return nil, common.Address{}, models.ValidationError("private key", fmt.Errorf("private key is required: %w", models.ErrInvalidParameter))
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKey), "0x"))
	if err != nil {
		return nil, common.Address{}, models.ValidationError("private key", fmt.Errorf("parses private key error: %v: %w", err, models.ErrInvalidParameter))
	}
	return key, crypto.PubkeyToAddress(key.PublicKey), nil
}

var rejections = []string{"insufficient funds", "exceeds balance", "insufficient allowance", "execution reverted"}

// classify maps a chain error into the payment taxonomy. Balance problems are rejections
// and are never retried.
func classify(op string, err error) error {
	var typed *models.Error
	if errors.As(err, &typed) {
		return err
	}
	msg := strings.ToLower(err.Error())
	for _, r := range rejections {
		if strings.Contains(msg, r) {
			logs.GetLogger().Errorf("Failed %s, rejected by chain, error: %v", op, err)
			return models.PaymentError(op, models.KindInvalid, fmt.Errorf("%v: %w", err, models.ErrPaymentRejected))
		}
	}
	logs.GetLogger().Errorf("Failed %s, error: %v", op, err)
	return models.PaymentError(op, models.KindTransient, fmt.Errorf("%v: %w", err, models.ErrPaymentFailed))
}

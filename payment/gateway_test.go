package payment

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swanchain/go-swan-sdk/models"
	"github.com/swanchain/go-swan-sdk/wallet/contract/swan_payment"
)

func eth(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func gweiInt(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e9))
}

type fakeChain struct {
	mu         sync.Mutex
	baseFee    *big.Int
	gasPrice   *big.Int
	notFound   int
	neverMined bool
	status     uint64
	lookups    int
}

func (c *fakeChain) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: c.baseFee}, nil
}

func (c *fakeChain) SuggestGasPrice(context.Context) (*big.Int, error) {
	return c.gasPrice, nil
}

func (c *fakeChain) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return 7, nil
}

func (c *fakeChain) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(2024), nil
}

func (c *fakeChain) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookups++
	if c.neverMined || c.lookups <= c.notFound {
		return nil, ethereum.NotFound
	}
	return &types.Receipt{Status: c.status}, nil
}

type fakeToken struct {
	allowance *big.Int
	balance   *big.Int
	approvals []*big.Int
	opts      []*bind.TransactOpts
}

func (t *fakeToken) Address() common.Address {
	return common.HexToAddress("0x91B25A65b295F0405552A4bbB77879ab5e38166c")
}

func (t *fakeToken) Allowance(context.Context, common.Address, common.Address) (*big.Int, error) {
	return t.allowance, nil
}

func (t *fakeToken) BalanceOf(context.Context, common.Address) (*big.Int, error) {
	return t.balance, nil
}

func (t *fakeToken) Approve(opts *bind.TransactOpts, _ common.Address, amount *big.Int) (*types.Transaction, error) {
	t.approvals = append(t.approvals, amount)
	t.opts = append(t.opts, opts)
	return types.NewTx(&types.DynamicFeeTx{Nonce: opts.Nonce.Uint64(), Data: []byte("approve")}), nil
}

type payCall struct {
	uuid     string
	hardware int64
	duration int64
	renewal  bool
}

type fakePayment struct {
	price *big.Int
	err   error
	calls []payCall
}

func (p *fakePayment) Address() common.Address {
	return common.HexToAddress("0x1Bd1ea9F3d7D6E1AE1Cd6E8c9D5d0A3E6a1e6A30")
}

func (p *fakePayment) HardwareInfo(_ context.Context, id int64) (swan_payment.HardwareInfo, error) {
	return swan_payment.HardwareInfo{Name: "C1ae.small", PricePerHour: p.price, Available: true}, nil
}

func (p *fakePayment) SubmitPayment(opts *bind.TransactOpts, uuid string, hardware int64, duration int64) (*types.Transaction, error) {
	return p.send(opts, payCall{uuid: uuid, hardware: hardware, duration: duration})
}

func (p *fakePayment) RenewPayment(opts *bind.TransactOpts, uuid string, hardware int64, duration int64) (*types.Transaction, error) {
	return p.send(opts, payCall{uuid: uuid, hardware: hardware, duration: duration, renewal: true})
}

func (p *fakePayment) send(opts *bind.TransactOpts, call payCall) (*types.Transaction, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.calls = append(p.calls, call)
	return types.NewTx(&types.DynamicFeeTx{Nonce: opts.Nonce.Uint64(), Data: []byte(call.uuid)}), nil
}

type fixedPrices map[int]decimal.Decimal

func (f fixedPrices) PriceByID(id int) (decimal.Decimal, error) {
	price, ok := f[id]
	if !ok {
		return decimal.Zero, models.ErrUnknownInstanceType
	}
	return price, nil
}

func testKey(t *testing.T) string {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return hexutil.Encode(crypto.FromECDSA(key))[2:]
}

func newTestGateway(t *testing.T, chain *fakeChain, token *fakeToken, pay *fakePayment) *Gateway {
	g, err := NewGateway(chain, token, pay,
		WithConfirmation(200*time.Millisecond, 5*time.Millisecond),
		WithPriceSource(fixedPrices{0: decimal.RequireFromString("1.5")}))
	require.NoError(t, err)
	return g
}

func okChain() *fakeChain {
	return &fakeChain{baseFee: gweiInt(10), gasPrice: gweiInt(12), status: types.ReceiptStatusSuccessful}
}

func TestFees(t *testing.T) {
	policy := DefaultFeePolicy()

	tip, feeCap, err := policy.Fees(gweiInt(10), gweiInt(12))
	require.NoError(t, err)
	assert.Equal(t, gweiInt(1).String(), tip.String())
	assert.Equal(t, gweiInt(13).String(), feeCap.String())

	tip, feeCap, err = policy.Fees(gweiInt(100), gweiInt(50))
	require.NoError(t, err)
	assert.Equal(t, gweiInt(2).String(), tip.String())
	assert.Equal(t, gweiInt(102).String(), feeCap.String())

	tip, feeCap, err = policy.Fees(nil, gweiInt(20))
	require.NoError(t, err)
	assert.Equal(t, gweiInt(2).String(), tip.String())
	assert.Equal(t, gweiInt(22).String(), feeCap.String())

	_, _, err = policy.Fees(nil, nil)
	assert.True(t, errors.Is(err, models.ErrPaymentFailed))
}

func TestPaymentWithoutChainFees(t *testing.T) {
	chain := okChain()
	chain.baseFee = nil
	chain.gasPrice = nil
	pay := &fakePayment{price: eth(1)}
	g := newTestGateway(t, chain, &fakeToken{allowance: eth(10)}, pay)

	_, err := g.SubmitPayment(context.Background(), testKey(t), "task-1", 0, time.Hour)
	assert.True(t, errors.Is(err, models.ErrPaymentFailed))
	c, _ := models.CategoryOf(err)
	assert.Equal(t, models.CategoryPayment, c)
	assert.Empty(t, pay.calls)
}

func TestFeePolicyValidate(t *testing.T) {
	for _, pct := range []float64{-0.1, 1.5} {
		_, err := NewFeePolicy(pct, 2)
		assert.True(t, errors.Is(err, models.ErrInvalidFeeConfiguration), "%v", pct)
		c, _ := models.CategoryOf(err)
		assert.Equal(t, models.CategoryValidation, c)
	}
	for _, pct := range []float64{0, 0.5, 1} {
		_, err := NewFeePolicy(pct, 2)
		assert.NoError(t, err)
	}

	_, err := NewGateway(okChain(), &fakeToken{}, &fakePayment{},
		WithFeePolicy(FeePolicy{PriorityFeePercent: decimal.NewFromInt(2), PriorityFeeCap: big.NewInt(0)}))
	assert.True(t, errors.Is(err, models.ErrInvalidFeeConfiguration))
}

func TestUnits(t *testing.T) {
	wei := ToWei(decimal.RequireFromString("1.5"))
	assert.Equal(t, "1500000000000000000", wei.String())
	assert.True(t, FromWei(wei).Equal(decimal.RequireFromString("1.5")))
	assert.True(t, FromWei(nil).IsZero())
}

func TestEstimate(t *testing.T) {
	g := newTestGateway(t, okChain(), &fakeToken{}, &fakePayment{})

	for _, hours := range []int64{1, 2, 24, 720} {
		got, err := g.Estimate(0, time.Duration(hours)*time.Hour)
		require.NoError(t, err)
		want := decimal.RequireFromString("1.5").Mul(decimal.NewFromInt(hours))
		assert.True(t, got.Equal(want), "%s != %s", got, want)
	}

	_, err := g.Estimate(42, time.Hour)
	c, _ := models.CategoryOf(err)
	assert.Equal(t, models.CategoryResourceResolution, c)
}

func TestEnsureAllowanceSufficient(t *testing.T) {
	token := &fakeToken{allowance: eth(150)}
	g := newTestGateway(t, okChain(), token, &fakePayment{})

	txHash, err := g.EnsureAllowance(context.Background(), testKey(t), decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Empty(t, txHash)
	assert.Empty(t, token.approvals)
}

func TestEnsureAllowanceApproves(t *testing.T) {
	chain := okChain()
	chain.notFound = 2
	token := &fakeToken{allowance: eth(50)}
	g := newTestGateway(t, chain, token, &fakePayment{})

	txHash, err := g.EnsureAllowance(context.Background(), testKey(t), decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.NotEmpty(t, txHash)
	require.Len(t, token.approvals, 1)
	assert.Equal(t, eth(100).String(), token.approvals[0].String())

	opts := token.opts[0]
	assert.Equal(t, uint64(7), opts.Nonce.Uint64())
	assert.Equal(t, gweiInt(1).String(), opts.GasTipCap.String())
	assert.Equal(t, gweiInt(13).String(), opts.GasFeeCap.String())
}

func TestSubmitPayment(t *testing.T) {
	token := &fakeToken{allowance: big.NewInt(0)}
	pay := &fakePayment{price: eth(2)}
	g := newTestGateway(t, okChain(), token, pay)

	res, err := g.SubmitPayment(context.Background(), testKey(t), "00000000-0000-0000-0000-000000000000", 3, 2*time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, res.TxHash)
	assert.NotEmpty(t, res.TxHashApprove)
	assert.NotEqual(t, res.TxHash, res.TxHashApprove)
	assert.True(t, res.Amount.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, []payCall{{uuid: "00000000-0000-0000-0000-000000000000", hardware: 3, duration: 7200}}, pay.calls)
}

func TestRenewPaymentSkipsApproval(t *testing.T) {
	token := &fakeToken{allowance: eth(1000)}
	pay := &fakePayment{price: eth(1)}
	g := newTestGateway(t, okChain(), token, pay)

	res, err := g.RenewPayment(context.Background(), testKey(t), "task-1", 0, time.Hour)
	require.NoError(t, err)
	assert.Empty(t, res.TxHashApprove)
	assert.Empty(t, token.approvals)
	require.Len(t, pay.calls, 1)
	assert.True(t, pay.calls[0].renewal)
}

func TestPaymentTimeout(t *testing.T) {
	chain := okChain()
	chain.neverMined = true
	g := newTestGateway(t, chain, &fakeToken{allowance: eth(10)}, &fakePayment{price: eth(1)})

	_, err := g.SubmitPayment(context.Background(), testKey(t), "task-1", 0, time.Hour)
	assert.True(t, errors.Is(err, models.ErrPaymentTimeout))
	c, _ := models.CategoryOf(err)
	assert.Equal(t, models.CategoryPayment, c)
	assert.False(t, models.IsRetryable(err))
}

func TestPaymentRejected(t *testing.T) {
	pay := &fakePayment{price: eth(1), err: errors.New("insufficient funds for gas * price + value")}
	g := newTestGateway(t, okChain(), &fakeToken{allowance: eth(10)}, pay)

	_, err := g.SubmitPayment(context.Background(), testKey(t), "task-1", 0, time.Hour)
	assert.True(t, errors.Is(err, models.ErrPaymentRejected))
	k, _ := models.KindOf(err)
	assert.Equal(t, models.KindInvalid, k)
}

func TestPaymentReverted(t *testing.T) {
	chain := okChain()
	chain.status = types.ReceiptStatusFailed
	g := newTestGateway(t, chain, &fakeToken{allowance: eth(10)}, &fakePayment{price: eth(1)})

	_, err := g.SubmitPayment(context.Background(), testKey(t), "task-1", 0, time.Hour)
	assert.True(t, errors.Is(err, models.ErrPaymentFailed))
}

func TestPaymentValidation(t *testing.T) {
	g := newTestGateway(t, okChain(), &fakeToken{allowance: eth(10)}, &fakePayment{price: eth(1)})

	_, err := g.SubmitPayment(context.Background(), "", "task-1", 0, time.Hour)
	c, _ := models.CategoryOf(err)
	assert.Equal(t, models.CategoryValidation, c)

	_, err = g.SubmitPayment(context.Background(), testKey(t), "", 0, time.Hour)
	c, _ = models.CategoryOf(err)
	assert.Equal(t, models.CategoryValidation, c)
}

func TestBalance(t *testing.T) {
	g := newTestGateway(t, okChain(), &fakeToken{balance: ToWei(decimal.RequireFromString("12.5"))}, &fakePayment{})

	balance, err := g.Balance(context.Background(), "0x1Bd1ea9F3d7D6E1AE1Cd6E8c9D5d0A3E6a1e6A30")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("12.5")))

	_, err = g.Balance(context.Background(), "nope")
	assert.Error(t, err)
}

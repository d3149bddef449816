package payment

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/swanchain/go-swan-sdk/models"
)

var gwei = decimal.New(1, 9)

// FeePolicy prices EIP-1559 transactions: the tip is a share of the base fee bounded
// by an absolute cap, and the fee cap never falls below the market gas price.
type FeePolicy struct {
	PriorityFeePercent decimal.Decimal
	PriorityFeeCap     *big.Int
}

func DefaultFeePolicy() FeePolicy {
	policy, _ := NewFeePolicy(0.1, 2)
	return policy
}

// NewFeePolicy takes the percentage as a fraction in [0,1] and the cap in gwei.
func NewFeePolicy(percent float64, capGwei float64) (FeePolicy, error) {
	policy := FeePolicy{
		PriorityFeePercent: decimal.NewFromFloat(percent),
		PriorityFeeCap:     decimal.NewFromFloat(capGwei).Mul(gwei).BigInt(),
	}
	return policy, policy.Validate()
}

func (p FeePolicy) Validate() error {
	if p.PriorityFeePercent.IsNegative() || p.PriorityFeePercent.GreaterThan(decimal.NewFromInt(1)) {
		return models.ValidationError("fee policy",
			fmt.Errorf("priority fee percent %s outside [0,1]: %w", p.PriorityFeePercent, models.ErrInvalidFeeConfiguration))
	}
	if p.PriorityFeeCap == nil || p.PriorityFeeCap.Sign() < 0 {
		return models.ValidationError("fee policy",
			fmt.Errorf("priority fee cap must not be negative: %w", models.ErrInvalidFeeConfiguration))
	}
	return nil
}

// Fees returns the priority fee and fee-per-gas for the given base fee and market gas price.
// A nil base fee (pre-London chain) falls back to the gas price; the chain must report at least one.
func (p FeePolicy) Fees(baseFee, gasPrice *big.Int) (tip *big.Int, feeCap *big.Int, err error) {
	if baseFee == nil && gasPrice == nil {
		return nil, nil, models.PaymentError("fees", models.KindTransient,
			fmt.Errorf("chain reported neither base fee nor gas price: %w", models.ErrPaymentFailed))
	}
	if baseFee == nil {
		baseFee = gasPrice
	}
	if gasPrice == nil {
		gasPrice = baseFee
	}
	tip = p.PriorityFeePercent.Mul(decimal.NewFromBigInt(baseFee, 0)).BigInt()
	if tip.Cmp(p.PriorityFeeCap) > 0 {
		tip = new(big.Int).Set(p.PriorityFeeCap)
	}

	market := baseFee
	if gasPrice.Cmp(market) > 0 {
		market = gasPrice
	}
	feeCap = new(big.Int).Add(market, tip)
	return tip, feeCap, nil
}

package payment

import (
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/swanchain/go-swan-sdk/constants"
)

// ToWei converts a display amount to integer minor units, truncating extra precision.
func ToWei(amount decimal.Decimal) *big.Int {
	return amount.Shift(constants.TOKEN_DECIMALS).BigInt()
}

func FromWei(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -constants.TOKEN_DECIMALS)
}

// Cost is price per hour times the fraction of an hour the duration covers.
func Cost(pricePerHour decimal.Decimal, durationSeconds int64) decimal.Decimal {
	return pricePerHour.Mul(decimal.NewFromInt(durationSeconds)).Div(decimal.NewFromInt(3600))
}

func costWei(pricePerHour *big.Int, durationSeconds int64) *big.Int {
	amount := new(big.Int).Mul(pricePerHour, big.NewInt(durationSeconds))
	return amount.Div(amount, big.NewInt(3600))
}

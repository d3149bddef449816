package payment

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/swanchain/go-swan-sdk/models"
	"github.com/swanchain/go-swan-sdk/wallet/contract/swan_payment"
	"github.com/swanchain/go-swan-sdk/wallet/contract/swan_token"
)

// Dial connects to rpcURL and binds the verified contract addresses.
// The returned close func releases the RPC connection.
func Dial(ctx context.Context, detail models.ContractDetail, rpcURL string, options ...Option) (*Gateway, func(), error) {
	if rpcURL == "" {
		rpcURL = detail.RpcUrl
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, models.TransportError("dial rpc", models.KindTransient, fmt.Errorf("dial %s: %w", rpcURL, err))
	}

	token, err := swan_token.NewTokenStub(client, detail.TokenContractAddress)
	if err != nil {
		client.Close()
		return nil, nil, models.ValidationError("dial rpc", err)
	}
	paymentStub, err := swan_payment.NewPaymentStub(client, detail.PaymentContractAddress)
	if err != nil {
		client.Close()
		return nil, nil, models.ValidationError("dial rpc", err)
	}

	gateway, err := NewGateway(client, token, paymentStub, options...)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return gateway, client.Close, nil
}

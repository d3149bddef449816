package swan_token

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Stub adapts the generated binding to context-aware calls.
type Stub struct {
	address common.Address
	token   *Token
	pending bool
}

type Option func(*Stub)

// WithPending makes reads observe the pending state.
func WithPending() Option {
	return func(obj *Stub) {
		obj.pending = true
	}
}

func NewTokenStub(backend bind.ContractBackend, tokenAddr string, options ...Option) (*Stub, error) {
	if !common.IsHexAddress(tokenAddr) {
		return nil, fmt.Errorf("invalid token contract address: %s", tokenAddr)
	}
	stub := &Stub{address: common.HexToAddress(tokenAddr)}
	for _, option := range options {
		option(stub)
	}

	tokenClient, err := NewToken(stub.address, backend)
	if err != nil {
		return nil, fmt.Errorf("create token contract client, error: %+v", err)
	}
	stub.token = tokenClient
	return stub, nil
}

func (s *Stub) Address() common.Address {
	return s.address
}

func (s *Stub) callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx, Pending: s.pending}
}

func (s *Stub) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	allowance, err := s.token.Allowance(s.callOpts(ctx), owner, spender)
	if err != nil {
		return nil, fmt.Errorf("address: %s, read token allowance, error: %+v", owner, err)
	}
	return allowance, nil
}

func (s *Stub) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	balance, err := s.token.BalanceOf(s.callOpts(ctx), owner)
	if err != nil {
		return nil, fmt.Errorf("address: %s, read token contract balance, error: %+v", owner, err)
	}
	return balance, nil
}

func (s *Stub) Approve(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*types.Transaction, error) {
	tx, err := s.token.Approve(opts, spender, amount)
	if err != nil {
		return nil, fmt.Errorf("address: %s, token contract approve, error: %w", opts.From, err)
	}
	return tx, nil
}

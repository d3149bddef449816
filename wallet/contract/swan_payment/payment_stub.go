package swan_payment

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type HardwareInfo struct {
	Name         string
	PricePerHour *big.Int
	Available    bool
}

type Stub struct {
	address common.Address
	payment *Payment
}

func NewPaymentStub(backend bind.ContractBackend, paymentAddr string) (*Stub, error) {
	if !common.IsHexAddress(paymentAddr) {
		return nil, fmt.Errorf("invalid payment contract address: %s", paymentAddr)
	}
	address := common.HexToAddress(paymentAddr)
	paymentClient, err := NewPayment(address, backend)
	if err != nil {
		return nil, fmt.Errorf("create payment contract client, error: %+v", err)
	}
	return &Stub{address: address, payment: paymentClient}, nil
}

// Address is the spender the token allowance must cover.
func (s *Stub) Address() common.Address {
	return s.address
}

func (s *Stub) HardwareInfo(ctx context.Context, hardwareID int64) (HardwareInfo, error) {
	info, err := s.payment.HardwareInfo(&bind.CallOpts{Context: ctx}, big.NewInt(hardwareID))
	if err != nil {
		return HardwareInfo{}, fmt.Errorf("hardware id: %d, read payment contract hardware info, error: %+v", hardwareID, err)
	}
	return HardwareInfo{Name: info.Name, PricePerHour: info.PricePerHour, Available: info.Available}, nil
}

func (s *Stub) SubmitPayment(opts *bind.TransactOpts, taskUUID string, hardwareID int64, duration int64) (*types.Transaction, error) {
	tx, err := s.payment.SubmitPayment(opts, taskUUID, big.NewInt(hardwareID), big.NewInt(duration))
	if err != nil {
		return nil, fmt.Errorf("task: %s, payment contract submitPayment, error: %w", taskUUID, err)
	}
	return tx, nil
}

func (s *Stub) RenewPayment(opts *bind.TransactOpts, taskUUID string, hardwareID int64, duration int64) (*types.Transaction, error) {
	tx, err := s.payment.RenewPayment(opts, taskUUID, big.NewInt(hardwareID), big.NewInt(duration))
	if err != nil {
		return nil, fmt.Errorf("task: %s, payment contract renewPayment, error: %w", taskUUID, err)
	}
	return tx, nil
}

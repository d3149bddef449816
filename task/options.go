package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/swanchain/go-swan-sdk/constants"
	"github.com/swanchain/go-swan-sdk/models"
)

type CreateTaskOptions struct {
	WalletAddress string
	// InstanceType defaults to the baseline tier.
	InstanceType string
	// Region defaults to "global".
	Region   string
	Duration time.Duration
	StartIn  time.Duration

	// Source precedence: JobSourceURI, then AppRepoImage, then RepoURI.
	JobSourceURI string
	AppRepoImage string
	RepoURI      string
	RepoBranch   string

	AutoPay         bool
	PrivateKey      string
	PreferredCpList []string
}

func (o *CreateTaskOptions) normalize() error {
	const op = "CreateTask"
	if strings.TrimSpace(o.WalletAddress) == "" {
		return models.ValidationError(op, fmt.Errorf("wallet address is required: %w", models.ErrInvalidParameter))
	}
	if !common.IsHexAddress(o.WalletAddress) {
		return models.ValidationError(op, fmt.Errorf("invalid wallet address %q: %w", o.WalletAddress, models.ErrInvalidParameter))
	}
	if o.AutoPay && strings.TrimSpace(o.PrivateKey) == "" {
		return models.ValidationError(op, fmt.Errorf("auto pay requires a private key: %w", models.ErrInvalidParameter))
	}
	if o.Duration < constants.MIN_TASK_DURATION {
		return models.ValidationError(op, fmt.Errorf("duration %s, minimum %s: %w", o.Duration, constants.MIN_TASK_DURATION, models.ErrDurationTooShort))
	}
	if o.StartIn < 0 {
		return models.ValidationError(op, fmt.Errorf("start in must not be negative: %w", models.ErrInvalidParameter))
	}
	if o.InstanceType == "" {
		o.InstanceType = constants.DEFAULT_INSTANCE_TYPE
	}
	if o.Region == "" {
		o.Region = constants.DEFAULT_REGION
	}
	return nil
}

type RenewTaskOptions struct {
	TaskUUID string
	Duration time.Duration
	// TxHash is a payment already made by the caller. When empty, AutoPay with
	// PrivateKey pays through the gateway.
	TxHash     string
	AutoPay    bool
	PrivateKey string
	// InstanceType is read from the task when empty.
	InstanceType string
}

func (o *RenewTaskOptions) validate() error {
	const op = "RenewTask"
	if strings.TrimSpace(o.TaskUUID) == "" {
		return models.ValidationError(op, fmt.Errorf("task uuid is required: %w", models.ErrInvalidParameter))
	}
	if o.Duration < time.Second {
		return models.ValidationError(op, fmt.Errorf("duration %s must be positive: %w", o.Duration, models.ErrInvalidParameter))
	}
	if o.TxHash == "" && !(o.AutoPay && strings.TrimSpace(o.PrivateKey) != "") {
		return models.ValidationError(op, fmt.Errorf("provide a tx hash or enable auto pay with a private key: %w", models.ErrMissingPaymentProof))
	}
	return nil
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

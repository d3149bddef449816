package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/filswan/go-swan-lib/logs"
	"github.com/shopspring/decimal"
	"github.com/swanchain/go-swan-sdk/api"
	"github.com/swanchain/go-swan-sdk/constants"
	"github.com/swanchain/go-swan-sdk/models"
	"github.com/swanchain/go-swan-sdk/payment"
	"github.com/swanchain/go-swan-sdk/retry"
)

// Orchestrator is the part of the API client the lifecycle drives.
type Orchestrator interface {
	PremadeImage(ctx context.Context, name string) (string, error)
	SourceURI(ctx context.Context, req api.SourceURIRequest) (string, error)
	CreateTask(ctx context.Context, req api.CreateTaskRequest) (json.RawMessage, error)
	ValidatePayment(ctx context.Context, txHash, taskUUID string) (json.RawMessage, error)
	RenewTask(ctx context.Context, req api.RenewTaskRequest) (json.RawMessage, error)
	TerminateTask(ctx context.Context, taskUUID string) (json.RawMessage, error)
	DeploymentInfo(ctx context.Context, taskUUID string) (json.RawMessage, error)
	TaskList(ctx context.Context, wallet string, page, size int) (json.RawMessage, error)
}

type HardwareResolver interface {
	Resolve(instanceType string) (int, error)
	Price(instanceType string) (decimal.Decimal, error)
	SupportsRegion(instanceType, region string) (bool, error)
}

type Payer interface {
	SubmitPayment(ctx context.Context, privateKey, taskUUID string, hardwareID int, duration time.Duration) (*models.PaymentResult, error)
	RenewPayment(ctx context.Context, privateKey, taskUUID string, hardwareID int, duration time.Duration) (*models.PaymentResult, error)
}

// Lifecycle coordinates task creation, payment, renewal and termination.
type Lifecycle struct {
	orchestrator Orchestrator
	hardware     HardwareResolver
	payer        Payer
	states       *stateTable
}

type Option func(*Lifecycle)

// WithPayer enables auto pay. Without it only caller-paid flows are available.
func WithPayer(payer Payer) Option {
	return func(l *Lifecycle) {
		l.payer = payer
	}
}

func NewLifecycle(orchestrator Orchestrator, hardware HardwareResolver, options ...Option) *Lifecycle {
	l := &Lifecycle{
		orchestrator: orchestrator,
		hardware:     hardware,
		states:       newStateTable(),
	}
	for _, option := range options {
		option(l)
	}
	return l
}

// State reports the last lifecycle state observed for the task by this client.
func (l *Lifecycle) State(taskUUID string) (State, bool) {
	return l.states.get(taskUUID)
}

func (l *Lifecycle) CreateTask(ctx context.Context, opts CreateTaskOptions) (*models.TaskCreationResult, error) {
	const op = "CreateTask"
	if err := opts.normalize(); err != nil {
		logs.GetLogger().Errorf("Failed create task, invalid options, error: %v", err)
		return nil, err
	}
	if opts.AutoPay && l.payer == nil {
		return nil, models.ValidationError(op, fmt.Errorf("auto pay requested without a payment gateway: %w", models.ErrInvalidParameter))
	}

	hardwareID, err := l.hardware.Resolve(opts.InstanceType)
	if err != nil {
		logs.GetLogger().Errorf("Failed resolve instance type %s, error: %v", opts.InstanceType, err)
		return nil, models.ResolutionError(op, models.KindNotFound, fmt.Errorf("%v: %w", err, models.ErrInvalidInstanceType))
	}
	price, err := l.hardware.Price(opts.InstanceType)
	if err != nil {
		return nil, models.ResolutionError(op, models.KindNotFound, fmt.Errorf("%v: %w", err, models.ErrInvalidInstanceType))
	}

	jobSourceURI, err := l.resolveSource(ctx, opts, hardwareID)
	if err != nil {
		logs.GetLogger().Errorf("Failed resolve deployable source, error: %v", err)
		return nil, err
	}

	ok, err := l.hardware.SupportsRegion(opts.InstanceType, opts.Region)
	if err != nil {
		return nil, models.ResolutionError(op, models.KindNotFound, fmt.Errorf("%v: %w", err, models.ErrInvalidInstanceType))
	}
	if !ok {
		logs.GetLogger().Errorf("Failed create task, %s is not offered in region %s", opts.InstanceType, opts.Region)
		return nil, models.ResolutionError(op, models.KindNotFound,
			fmt.Errorf("%s in %s: %w", opts.InstanceType, opts.Region, models.ErrHardwareUnavailableInRegion))
	}

	data, err := l.orchestrator.CreateTask(ctx, api.CreateTaskRequest{
		Duration:     seconds(opts.Duration),
		CfgName:      opts.InstanceType,
		Region:       opts.Region,
		StartIn:      seconds(opts.StartIn),
		Wallet:       opts.WalletAddress,
		JobSourceURI: jobSourceURI,
		PreferredCp:  strings.Join(opts.PreferredCpList, ","),
	})
	if err != nil {
		logs.GetLogger().Errorf("Failed create task, error: %v", err)
		return nil, err
	}
	result, err := models.DictToStruct[models.TaskCreationResult](data)
	if err != nil {
		return nil, models.TransportError(op, models.KindFatal, fmt.Errorf("%v: %w", err, models.ErrTaskCreationFailed))
	}
	if result.TaskUuid == "" {
		result.TaskUuid = result.Task.Uuid
	}
	if result.TaskUuid == "" {
		logs.GetLogger().Errorf("Failed create task, response carries no task uuid")
		return nil, models.TransportError(op, models.KindFatal, fmt.Errorf("response carries no task uuid: %w", models.ErrTaskCreationFailed))
	}
	l.states.advance(result.TaskUuid, StateCreated)
	logs.GetLogger().Infof("task created, uuid: %s, instance type: %s, region: %s", result.TaskUuid, opts.InstanceType, opts.Region)

	result.InstanceType = opts.InstanceType
	result.Price = price.String()

	if !opts.AutoPay {
		return &result, nil
	}

	paid, err := l.payAndValidate(ctx, result.TaskUuid, hardwareID, opts.Duration, opts.PrivateKey)
	if err != nil {
		return nil, err
	}
	result.TxHash = paid.TxHash
	result.TxHashApprove = paid.TxHashApprove
	result.Amount = paid.Amount.String()
	return &result, nil
}

func (l *Lifecycle) resolveSource(ctx context.Context, opts CreateTaskOptions, hardwareID int) (string, error) {
	const op = "ResolveSource"
	if opts.JobSourceURI != "" {
		return opts.JobSourceURI, nil
	}

	repoURI := opts.RepoURI
	if opts.AppRepoImage != "" {
		image, err := l.orchestrator.PremadeImage(ctx, opts.AppRepoImage)
		if err != nil {
			return "", err
		}
		if image == "" {
			return "", models.ResolutionError(op, models.KindNotFound,
				fmt.Errorf("premade image %q not found: %w", opts.AppRepoImage, models.ErrNoDeployableSource))
		}
		repoURI = image
	}
	if repoURI == "" {
		return "", models.ResolutionError(op, models.KindInvalid,
			fmt.Errorf("one of job source uri, app repo image or repo uri is required: %w", models.ErrNoDeployableSource))
	}

	jobSourceURI, err := l.orchestrator.SourceURI(ctx, api.SourceURIRequest{
		RepoURI:       repoURI,
		RepoBranch:    opts.RepoBranch,
		WalletAddress: opts.WalletAddress,
		HardwareID:    hardwareID,
	})
	if err != nil {
		return "", err
	}
	if jobSourceURI == "" {
		return "", models.ResolutionError(op, models.KindNotFound,
			fmt.Errorf("repo %s resolved to an empty source: %w", repoURI, models.ErrNoDeployableSource))
	}
	return jobSourceURI, nil
}

// PayAndValidate pays for a task that already exists and has the orchestrator
// validate the transaction. It is the recovery path for a partial create.
func (l *Lifecycle) PayAndValidate(ctx context.Context, taskUUID, instanceType string, duration time.Duration, privateKey string) (*models.PaymentResult, error) {
	const op = "PayAndValidate"
	if strings.TrimSpace(taskUUID) == "" {
		return nil, models.ValidationError(op, fmt.Errorf("task uuid is required: %w", models.ErrInvalidParameter))
	}
	if strings.TrimSpace(privateKey) == "" {
		return nil, models.ValidationError(op, fmt.Errorf("private key is required: %w", models.ErrInvalidParameter))
	}
	if l.payer == nil {
		return nil, models.ValidationError(op, fmt.Errorf("no payment gateway configured: %w", models.ErrInvalidParameter))
	}
	if instanceType == "" {
		instanceType = constants.DEFAULT_INSTANCE_TYPE
	}
	hardwareID, err := l.hardware.Resolve(instanceType)
	if err != nil {
		return nil, models.ResolutionError(op, models.KindNotFound, fmt.Errorf("%v: %w", err, models.ErrInvalidInstanceType))
	}
	return l.payAndValidate(ctx, taskUUID, hardwareID, duration, privateKey)
}

func (l *Lifecycle) payAndValidate(ctx context.Context, taskUUID string, hardwareID int, duration time.Duration, privateKey string) (*models.PaymentResult, error) {
	const op = "PayAndValidate"
	l.states.advance(taskUUID, StatePaymentPending)
	paid, err := l.payer.SubmitPayment(ctx, privateKey, taskUUID, hardwareID, duration)
	if err != nil {
		logs.GetLogger().Errorf("Failed pay for task %s, the task exists unpaid, error: %v", taskUUID, err)
		return nil, models.PartialStateError(op, taskUUID, err)
	}
	l.states.advance(taskUUID, StatePaymentSubmitted)
	logs.GetLogger().Infof("payment submitted, task: %s, tx: %s, amount: %s", taskUUID, paid.TxHash, paid.Amount)

	if _, err = l.orchestrator.ValidatePayment(ctx, paid.TxHash, taskUUID); err != nil {
		logs.GetLogger().Errorf("Failed validate payment of task %s, tx: %s, error: %v", taskUUID, paid.TxHash, err)
		e := models.PartialStateError(op, taskUUID, err)
		return nil, fmt.Errorf("payment tx %s: %w", paid.TxHash, e)
	}
	l.states.advance(taskUUID, StateValidated)
	return paid, nil
}

func (l *Lifecycle) RenewTask(ctx context.Context, opts RenewTaskOptions) (*models.TaskRenewalResult, error) {
	const op = "RenewTask"
	if err := opts.validate(); err != nil {
		logs.GetLogger().Errorf("Failed renew task, error: %v", err)
		return nil, err
	}
	payNow := opts.TxHash == ""
	if payNow && l.payer == nil {
		return nil, models.ValidationError(op, fmt.Errorf("no payment gateway configured: %w", models.ErrMissingPaymentProof))
	}

	instanceType := opts.InstanceType
	if instanceType == "" {
		info, err := l.GetDeploymentInfo(ctx, opts.TaskUUID)
		if err != nil {
			if payNow {
				return nil, err
			}
			logs.GetLogger().Warnf("could not read task %s for price display, error: %v", opts.TaskUUID, err)
		} else {
			instanceType = info.Task.TaskDetail.Hardware
		}
	}

	var paid *models.PaymentResult
	if payNow {
		hardwareID, err := l.hardware.Resolve(instanceType)
		if err != nil {
			return nil, models.ResolutionError(op, models.KindNotFound, fmt.Errorf("%v: %w", err, models.ErrInvalidInstanceType))
		}
		l.states.advance(opts.TaskUUID, StateRenewing)
		paid, err = l.payer.RenewPayment(ctx, opts.PrivateKey, opts.TaskUUID, hardwareID, opts.Duration)
		if err != nil {
			logs.GetLogger().Errorf("Failed renew payment of task %s, error: %v", opts.TaskUUID, err)
			return nil, err
		}
		logs.GetLogger().Infof("renewal paid, task: %s, tx: %s, amount: %s", opts.TaskUUID, paid.TxHash, paid.Amount)
	} else {
		paid = &models.PaymentResult{TxHash: opts.TxHash}
		if instanceType != "" {
			if price, err := l.hardware.Price(instanceType); err == nil {
				paid.Amount = payment.Cost(price, seconds(opts.Duration))
			}
		}
		l.states.advance(opts.TaskUUID, StateRenewing)
	}

	data, err := l.orchestrator.RenewTask(ctx, api.RenewTaskRequest{
		TaskUuid: opts.TaskUUID,
		Duration: seconds(opts.Duration),
		TxHash:   paid.TxHash,
	})
	if err != nil {
		logs.GetLogger().Errorf("Failed renew task %s, tx: %s, error: %v", opts.TaskUUID, paid.TxHash, err)
		if payNow {
			return nil, fmt.Errorf("renewal tx %s: %w", paid.TxHash, models.PartialStateError(op, opts.TaskUUID, err))
		}
		return nil, err
	}
	result, err := models.DictToStruct[models.TaskRenewalResult](data)
	if err != nil {
		return nil, models.TransportError(op, models.KindFatal, err)
	}
	l.states.advance(opts.TaskUUID, StateValidated)

	result.TaskUuid = opts.TaskUUID
	result.Duration = int(seconds(opts.Duration))
	result.TxHash = paid.TxHash
	result.TxHashApprove = paid.TxHashApprove
	result.Amount = paid.Amount.String()
	return &result, nil
}

// TerminateTask asks the orchestrator to stop the task. Retryable in the reply says
// whether calling again is safe.
func (l *Lifecycle) TerminateTask(ctx context.Context, taskUUID string) (*models.TaskTerminationMessage, error) {
	const op = "TerminateTask"
	if strings.TrimSpace(taskUUID) == "" {
		return nil, models.ValidationError(op, fmt.Errorf("task uuid is required: %w", models.ErrInvalidParameter))
	}
	data, err := l.orchestrator.TerminateTask(ctx, taskUUID)
	if err != nil {
		logs.GetLogger().Errorf("Failed terminate task %s, error: %v", taskUUID, err)
		return nil, err
	}
	msg, err := models.DictToStruct[models.TaskTerminationMessage](data)
	if err != nil {
		return nil, models.TransportError(op, models.KindFatal, err)
	}
	if msg.TaskStatus == constants.TaskTerminated {
		l.states.advance(taskUUID, StateTerminated)
	}
	logs.GetLogger().Infof("terminate task %s, status: %s, retryable: %t", taskUUID, msg.TaskStatus, msg.Retryable)
	return &msg, nil
}

func (l *Lifecycle) GetDeploymentInfo(ctx context.Context, taskUUID string) (*models.TaskDeploymentInfo, error) {
	const op = "GetDeploymentInfo"
	if strings.TrimSpace(taskUUID) == "" {
		return nil, models.ValidationError(op, fmt.Errorf("task uuid is required: %w", models.ErrInvalidParameter))
	}
	data, err := l.orchestrator.DeploymentInfo(ctx, taskUUID)
	if err != nil {
		return nil, err
	}
	info, err := models.DictToStruct[models.TaskDeploymentInfo](data)
	if err != nil {
		return nil, models.TransportError(op, models.KindFatal, err)
	}
	if info.Task.Status == constants.TaskTerminated {
		l.states.advance(taskUUID, StateTerminated)
	}
	return &info, nil
}

// GetRealURL lists the endpoints published so far. An empty list is the normal state
// right after deployment.
func (l *Lifecycle) GetRealURL(ctx context.Context, taskUUID string) ([]string, error) {
	info, err := l.GetDeploymentInfo(ctx, taskUUID)
	if err != nil {
		return nil, err
	}
	urls := []string{}
	for _, job := range info.Jobs {
		if uri, ok := job.RealURI(); ok {
			urls = append(urls, uri)
		}
	}
	if len(urls) > 0 {
		l.states.advance(taskUUID, StateDeployed)
	}
	return urls, nil
}

// WaitForRealURL polls GetRealURL under policy until at least one endpoint appears.
func (l *Lifecycle) WaitForRealURL(ctx context.Context, taskUUID string, policy retry.Policy) ([]string, error) {
	var urls []string
	err := policy.Poll(ctx, func(attempt int) (bool, error) {
		got, err := l.GetRealURL(ctx, taskUUID)
		if err != nil {
			if models.IsRetryable(err) {
				logs.GetLogger().Warnf("task %s deployment info unavailable, attempt %d, error: %v", taskUUID, attempt, err)
				return false, nil
			}
			return false, err
		}
		if len(got) == 0 {
			logs.GetLogger().Debugf("task %s has no endpoint yet, attempt %d", taskUUID, attempt)
			return false, nil
		}
		urls = got
		return true, nil
	})
	if errors.Is(err, retry.ErrExhausted) {
		return nil, models.NewError(models.CategoryTransport, models.KindTransient, "WaitForRealURL",
			fmt.Errorf("task %s: %v: %w", taskUUID, err, models.ErrDeploymentTimeout))
	}
	if err != nil {
		return nil, err
	}
	return urls, nil
}

func (l *Lifecycle) GetTaskList(ctx context.Context, walletAddress string, page, size int) (*models.TaskList, error) {
	const op = "GetTaskList"
	if strings.TrimSpace(walletAddress) == "" {
		return nil, models.ValidationError(op, fmt.Errorf("wallet address is required: %w", models.ErrInvalidParameter))
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = constants.DEFAULT_TASK_PAGE_SIZE
	}
	data, err := l.orchestrator.TaskList(ctx, walletAddress, page, size)
	if err != nil {
		return nil, err
	}
	list, err := models.DictToStruct[models.TaskList](data)
	if err != nil {
		return nil, models.TransportError(op, models.KindFatal, err)
	}
	return &list, nil
}

// EstimatePayment returns the display amount a task of duration would cost.
func (l *Lifecycle) EstimatePayment(instanceType string, duration time.Duration) (decimal.Decimal, error) {
	const op = "EstimatePayment"
	if duration < time.Second {
		return decimal.Zero, models.ValidationError(op, fmt.Errorf("duration %s must be positive: %w", duration, models.ErrInvalidParameter))
	}
	if instanceType == "" {
		instanceType = constants.DEFAULT_INSTANCE_TYPE
	}
	price, err := l.hardware.Price(instanceType)
	if err != nil {
		return decimal.Zero, models.ResolutionError(op, models.KindNotFound, fmt.Errorf("%v: %w", err, models.ErrInvalidInstanceType))
	}
	return payment.Cost(price, seconds(duration)), nil
}

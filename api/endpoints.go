package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/swanchain/go-swan-sdk/constants"
	"github.com/swanchain/go-swan-sdk/models"
)

const loginPath = constants.API_LOGIN_BY_API_KEY

type SourceURIRequest struct {
	RepoURI       string `json:"repo_uri"`
	RepoBranch    string `json:"repo_branch,omitempty"`
	WalletAddress string `json:"wallet_address"`
	HardwareID    int    `json:"hardware_id"`
}

type CreateTaskRequest struct {
	Duration     int64  `json:"duration"`
	CfgName      string `json:"cfg_name"`
	Region       string `json:"region"`
	StartIn      int64  `json:"start_in"`
	Wallet       string `json:"wallet"`
	JobSourceURI string `json:"job_source_uri"`
	PreferredCp  string `json:"preferred_cp,omitempty"`
}

type RenewTaskRequest struct {
	TaskUuid string `json:"task_uuid"`
	Duration int64  `json:"duration"`
	TxHash   string `json:"tx_hash"`
}

type ValidatePaymentRequest struct {
	TxHash   string `json:"tx_hash"`
	TaskUuid string `json:"task_uuid"`
}

func (c *Client) HardwareList(ctx context.Context) ([]models.HardwareConfig, error) {
	data, err := c.request(ctx, "HardwareList", http.MethodGet, constants.API_HARDWARE_LIST, nil, nil)
	if err != nil {
		return nil, err
	}
	list, err := models.DictToStruct[models.HardwareList](data)
	if err != nil {
		return nil, models.TransportError("HardwareList", models.KindFatal, err)
	}
	return list.Hardware, nil
}

// PremadeImage resolves a preset image name to its source repository; "" when unknown.
func (c *Client) PremadeImage(ctx context.Context, name string) (string, error) {
	params := url.Values{}
	params.Set("name", name)
	data, err := c.request(ctx, "PremadeImage", http.MethodGet, constants.API_PREMADE_IMAGE, params, nil)
	if err != nil {
		if kind, _ := models.KindOf(err); kind == models.KindNotFound {
			return "", nil
		}
		return "", err
	}
	image, err := models.DictToStruct[models.PremadeImage](data)
	if err != nil {
		return "", models.TransportError("PremadeImage", models.KindFatal, err)
	}
	return image.URL, nil
}

// SourceURI asks the orchestrator to turn a repository into a job source uri.
func (c *Client) SourceURI(ctx context.Context, req SourceURIRequest) (string, error) {
	data, err := c.request(ctx, "SourceURI", http.MethodPost, constants.API_SOURCE_URI, nil, req)
	if err != nil {
		return "", err
	}
	var resp struct {
		JobSourceURI string `json:"job_source_uri"`
	}
	if len(data) > 0 {
		if err = json.Unmarshal(data, &resp); err != nil {
			return "", models.TransportError("SourceURI", models.KindFatal, err)
		}
	}
	return resp.JobSourceURI, nil
}

func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (json.RawMessage, error) {
	return c.request(ctx, "CreateTask", http.MethodPost, constants.API_CREATE_TASK, nil, req)
}

func (c *Client) ValidatePayment(ctx context.Context, txHash, taskUUID string) (json.RawMessage, error) {
	return c.request(ctx, "ValidatePayment", http.MethodPost, constants.API_PAYMENT_VALIDATE, nil,
		ValidatePaymentRequest{TxHash: txHash, TaskUuid: taskUUID})
}

func (c *Client) RenewTask(ctx context.Context, req RenewTaskRequest) (json.RawMessage, error) {
	return c.request(ctx, "RenewTask", http.MethodPost, constants.API_RENEW_TASK, nil, req)
}

func (c *Client) TerminateTask(ctx context.Context, taskUUID string) (json.RawMessage, error) {
	return c.request(ctx, "TerminateTask", http.MethodPost, constants.API_TERMINATE_TASK, nil,
		map[string]string{"task_uuid": taskUUID})
}

func (c *Client) DeploymentInfo(ctx context.Context, taskUUID string) (json.RawMessage, error) {
	if strings.TrimSpace(taskUUID) == "" {
		return nil, models.ValidationError("DeploymentInfo", fmt.Errorf("task uuid must be not empty: %w", models.ErrInvalidParameter))
	}
	return c.request(ctx, "DeploymentInfo", http.MethodGet,
		constants.API_TASK_DEPLOYMENT_INFO+url.PathEscape(taskUUID), nil, nil)
}

func (c *Client) TaskList(ctx context.Context, wallet string, page, size int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("wallet", wallet)
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	return c.request(ctx, "TaskList", http.MethodGet, constants.API_TASK_LIST, params, nil)
}

func (c *Client) ContractInfo(ctx context.Context) (*models.ContractInfo, error) {
	data, err := c.request(ctx, "ContractInfo", http.MethodGet, constants.API_CONTRACT_INFO, nil, nil)
	if err != nil {
		return nil, err
	}
	info, err := models.DictToStruct[models.ContractInfo](data)
	if err != nil {
		return nil, models.TransportError("ContractInfo", models.KindFatal, err)
	}
	return &info, nil
}

package models

import "github.com/shopspring/decimal"

type TaskRequirements struct {
	HardwareID      int      `json:"hardware_id"`
	HardwareType    string   `json:"hardware_type"`
	Region          string   `json:"region"`
	PreferredCpList []string `json:"preferred_cp_list"`
}

type TaskSpace struct {
	Uuid string `json:"uuid"`
	Name string `json:"name"`
}

type TaskDetail struct {
	Duration     int              `json:"duration"`
	Hardware     string           `json:"hardware"`
	JobSourceURI string           `json:"job_source_uri"`
	PricePerHour string           `json:"price_per_hour"`
	Requirements TaskRequirements `json:"requirements"`
	Space        TaskSpace        `json:"space"`
	StartIn      int              `json:"start_in"`
}

type Task struct {
	Uuid         string     `json:"uuid"`
	Name         string     `json:"name"`
	Status       string     `json:"status"`
	Type         string     `json:"type"`
	RefundWallet string     `json:"refund_wallet"`
	StartAt      int64      `json:"start_at"`
	EndAt        int64      `json:"end_at"`
	CreatedAt    int64      `json:"created_at"`
	UpdatedAt    int64      `json:"updated_at"`
	TaskDetail   TaskDetail `json:"task_detail"`
}

type ConfigOrder struct {
	Uuid      string `json:"uuid"`
	TaskUuid  string `json:"task_uuid"`
	OrderType string `json:"order_type"`
	Status    string `json:"status"`
	TxHash    string `json:"tx_hash"`
	Duration  int    `json:"duration"`
	Region    string `json:"region"`
	ConfigID  int    `json:"config_id"`
	StartIn   int    `json:"start_in"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type TaskCreationResult struct {
	Task          Task        `json:"task"`
	ConfigOrder   ConfigOrder `json:"config_order"`
	TaskUuid      string      `json:"task_uuid"`
	InstanceType  string      `json:"instance_type"`
	Price         string      `json:"price"`
	TxHash        string      `json:"tx_hash"`
	TxHashApprove string      `json:"tx_hash_approve"`
	Amount        string      `json:"amount"`
}

type TaskRenewalResult struct {
	Task          Task        `json:"task"`
	ConfigOrder   ConfigOrder `json:"config_order"`
	TaskUuid      string      `json:"task_uuid"`
	Duration      int         `json:"duration"`
	TxHash        string      `json:"tx_hash"`
	TxHashApprove string      `json:"tx_hash_approve"`
	Amount        string      `json:"amount"`
}

type TaskTerminationMessage struct {
	Retryable  bool   `json:"retryable"`
	TaskStatus string `json:"task_status"`
}

type TaskDeploymentInfo struct {
	Task               Task                `json:"task"`
	Jobs               []Job               `json:"jobs"`
	ComputingProviders []ComputingProvider `json:"computing_providers"`
	ConfigOrders       []ConfigOrder       `json:"config_orders"`
}

type TaskList struct {
	List      []Task `json:"list"`
	Page      int    `json:"page"`
	Size      int    `json:"size"`
	Total     int    `json:"total"`
	TotalPage int    `json:"total_page"`
}

// PaymentResult is produced once per payment event and merged into a creation or renewal result.
type PaymentResult struct {
	TxHash        string
	TxHashApprove string
	Amount        decimal.Decimal
}

package constants

import "time"

const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

const SWAN_API_MAINNET = "https://orchestrator-api.swanchain.io"
const SWAN_API_TESTNET = "https://orchestrator-api-testnet.swanchain.io"

// signer of the contract-info payload, per network
const CONTRACT_SIGNER_MAINNET = "0xE2226c8a5E4C6E8Ba4b1A4D5a4bB0C6Dd5e0f945"
const CONTRACT_SIGNER_TESTNET = "0x4B98086A20f3C19530AF32D21F85Bc6399358e20"

// orchestrator endpoints
const (
	API_LOGIN_BY_API_KEY     = "/login_by_api_key"
	API_HARDWARE_LIST        = "/cp/machines"
	API_PREMADE_IMAGE        = "/v2/images"
	API_SOURCE_URI           = "/v2/get_source_uri"
	API_CREATE_TASK          = "/v2/create_task"
	API_TASK_DEPLOYMENT_INFO = "/v2/task_deployment_info/"
	API_TASK_LIST            = "/v2/tasks"
	API_RENEW_TASK           = "/v2/renew_task"
	API_TERMINATE_TASK       = "/v2/terminate_task"
	API_PAYMENT_VALIDATE     = "/v2/task_payment_validate"
	API_CONTRACT_INFO        = "/contract_info"
)

// private task node endpoints
const (
	NODE_HEALTH_PATH     = "/health"
	NODE_PUBLIC_KEY_PATH = "/.well-known/public-key"
	NODE_DEPLOY_PATH     = "/deploy"
)

const DEFAULT_INSTANCE_TYPE = "C1ae.small"
const DEFAULT_REGION = "global"
const REGION_GLOBAL = "global"
const MIN_TASK_DURATION = time.Hour

const DEFAULT_TASK_PAGE_SIZE = 10

// hardware status
const HardwareAvailable string = "available"
const HardwareUnavailable string = "unavailable"

const HardwareTypeCPU string = "CPU"
const HardwareTypeGPU string = "GPU"

// task status
const TaskInitialized string = "initialized"
const TaskPaid string = "paid"
const TaskBidding string = "bidding"
const TaskRunning string = "running"
const TaskFinished string = "finished"
const TaskTerminated string = "terminated"

// config order
const OrderTypeCreation string = "Creation"
const OrderTypeRenewal string = "Renewal"
const OrderPendingPaymentConfirm string = "pending_payment_confirm"
const OrderPaymentConsumed string = "payment_consumed"

// job status
const JobSubmitted string = "Submitted"
const JobRunning string = "Running"
const JobComplete string = "Complete"
const JobEnded string = "Ended"
const JobCancelled string = "Cancelled"

// token amounts are 18-decimal fixed point
const TOKEN_DECIMALS = 18

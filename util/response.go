package util

import (
	"encoding/json"

	libconstants "github.com/filswan/go-swan-lib/constants"
)

// BasicResponse is the envelope every orchestrator endpoint answers with.
type BasicResponse struct {
	Status  string          `json:"status"`
	Code    int             `json:"code,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

func (r BasicResponse) IsSuccess() bool {
	return r.Status == libconstants.SWAN_API_STATUS_SUCCESS
}

func CreateSuccessResponse(data interface{}) BasicResponse {
	raw, _ := json.Marshal(data)
	return BasicResponse{
		Status: libconstants.SWAN_API_STATUS_SUCCESS,
		Data:   raw,
		Code:   SuccessCode,
	}
}

func CreateErrorResponse(code int, errMsg ...string) BasicResponse {
	var msg string
	if len(errMsg) == 0 {
		msg = codeMsg[code]
	} else {
		msg = errMsg[0]
	}
	return BasicResponse{
		Status:  libconstants.SWAN_API_STATUS_FAIL,
		Code:    code,
		Message: msg,
	}
}

const (
	SuccessCode = 200
	JsonError   = 400
	AuthError   = 401
	NotFound    = 404

	InvalidInstanceType = 4001
	TaskNotFound        = 4002
	PaymentNotFound     = 4003
)

var codeMsg = map[int]string{
	JsonError: "An error occurred while converting to json",
	AuthError: "Invalid or missing token",
	NotFound:  "Resource not found",

	InvalidInstanceType: "Unknown instance type",
	TaskNotFound:        "Task not found",
	PaymentNotFound:     "Payment transaction does not reference an existing task",
}

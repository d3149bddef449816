package models

import (
	"errors"
	"fmt"
)

var (
	// validation
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrDurationTooShort = errors.New("duration below the minimum task duration")

	// resource resolution
	ErrUnknownInstanceType         = errors.New("unknown instance type")
	ErrInvalidInstanceType         = errors.New("invalid instance type")
	ErrNoDeployableSource          = errors.New("no deployable source")
	ErrHardwareUnavailableInRegion = errors.New("hardware unavailable in region")

	// transport
	ErrTransport          = errors.New("orchestrator request failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrRequestRejected    = errors.New("orchestrator rejected the request")
	ErrTaskCreationFailed = errors.New("task creation failed")
	ErrInvalidSignature   = errors.New("invalid signature")

	// payment
	ErrMissingPaymentProof     = errors.New("missing payment proof")
	ErrInvalidFeeConfiguration = errors.New("invalid fee configuration")
	ErrPaymentTimeout          = errors.New("payment transaction not mined in time")
	ErrPaymentRejected         = errors.New("payment rejected")
	ErrPaymentFailed           = errors.New("payment transaction failed")

	ErrDeploymentTimeout = errors.New("deployment timeout")
	ErrFieldNotFound     = errors.New("field not found")
)

type Category string

const (
	CategoryValidation         Category = "ValidationError"
	CategoryResourceResolution Category = "ResourceResolutionError"
	CategoryTransport          Category = "TransportError"
	CategoryPayment            Category = "PaymentError"
	CategoryPartialState       Category = "PartialStateError"
)

type Kind string

const (
	KindNotFound  Kind = "NotFound"
	KindInvalid   Kind = "Invalid"
	KindTransient Kind = "Transient"
	KindFatal     Kind = "Fatal"
)

// Error is the tagged error every SDK operation returns.
type Error struct {
	Category Category
	Kind     Kind
	Op       string
	// TaskUUID is set when a task row already exists server-side.
	TaskUUID string
	// Idempotent marks transport failures of requests that can be repeated safely.
	Idempotent bool
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Category)
	if e.TaskUUID != "" {
		msg += fmt.Sprintf(" (task %s)", e.TaskUUID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(category Category, kind Kind, op string, err error) *Error {
	return &Error{Category: category, Kind: kind, Op: op, Err: err}
}

func ValidationError(op string, err error) *Error {
	return NewError(CategoryValidation, KindInvalid, op, err)
}

func ResolutionError(op string, kind Kind, err error) *Error {
	return NewError(CategoryResourceResolution, kind, op, err)
}

func TransportError(op string, kind Kind, err error) *Error {
	return NewError(CategoryTransport, kind, op, err)
}

func PaymentError(op string, kind Kind, err error) *Error {
	return NewError(CategoryPayment, kind, op, err)
}

// PartialStateError reports a task that exists server-side while a later step failed.
func PartialStateError(op, taskUUID string, err error) *Error {
	e := NewError(CategoryPartialState, KindFatal, op, err)
	e.TaskUUID = taskUUID
	return e
}

func CategoryOf(err error) (Category, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Category, true
	}
	return "", false
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsRetryable reports whether the failed call can be repeated without side effects.
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Category == CategoryTransport && e.Kind == KindTransient && e.Idempotent
}

// TaskUUIDOf returns the task uuid carried by a partial-state error.
func TaskUUIDOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.TaskUUID
	}
	return ""
}

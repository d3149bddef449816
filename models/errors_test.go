package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	err := ValidationError("CreateTask", fmt.Errorf("duration 1800s: %w", ErrDurationTooShort))
	assert.True(t, errors.Is(err, ErrDurationTooShort))
	c, ok := CategoryOf(err)
	assert.True(t, ok)
	assert.Equal(t, CategoryValidation, c)
	assert.False(t, IsRetryable(err))

	timeout := PaymentError("SubmitPayment", KindTransient, ErrPaymentTimeout)
	partial := PartialStateError("CreateTask", "u-1", timeout)
	assert.True(t, errors.Is(partial, ErrPaymentTimeout))
	c, _ = CategoryOf(partial)
	assert.Equal(t, CategoryPartialState, c)
	assert.Equal(t, "u-1", TaskUUIDOf(partial))
	assert.Contains(t, partial.Error(), "u-1")

	get := TransportError("DeploymentInfo", KindTransient, ErrTransport)
	get.Idempotent = true
	assert.True(t, IsRetryable(get))
	post := TransportError("CreateTask", KindTransient, ErrTransport)
	assert.False(t, IsRetryable(post))

	k, ok := KindOf(fmt.Errorf("wrapped: %w", get))
	assert.True(t, ok)
	assert.Equal(t, KindTransient, k)

	_, ok = CategoryOf(errors.New("plain"))
	assert.False(t, ok)
}

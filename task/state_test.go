package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateForwardOnly(t *testing.T) {
	table := newStateTable()
	assert.Equal(t, StateCreated, table.advance("t", StateCreated))
	assert.Equal(t, StateValidated, table.advance("t", StateValidated))
	assert.Equal(t, StateValidated, table.advance("t", StateCreated))
	assert.Equal(t, StateRenewing, table.advance("t", StateRenewing))
	assert.Equal(t, StateValidated, table.advance("t", StateValidated))
	assert.Equal(t, StateDeployed, table.advance("t", StateDeployed))
	assert.Equal(t, StateTerminated, table.advance("t", StateTerminated))
	assert.Equal(t, StateTerminated, table.advance("t", StateDeployed))

	_, ok := table.get("other")
	assert.False(t, ok)
}

func TestCanAdvance(t *testing.T) {
	assert.False(t, canAdvance(StateCreated, StateRenewing))
	assert.True(t, canAdvance(StateDeployed, StateRenewing))
	assert.False(t, canAdvance(StateTerminated, StateRenewing))
	assert.True(t, canAdvance(StatePaymentPending, StateTerminated))
}

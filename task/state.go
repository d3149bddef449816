package task

import "sync"

// State is the client-side view of where a task is in its lifecycle.
type State string

const (
	StateResolving        State = "Resolving"
	StateCreated          State = "Created"
	StatePaymentPending   State = "PaymentPending"
	StatePaymentSubmitted State = "PaymentSubmitted"
	StateValidated        State = "Validated"
	StateDeployed         State = "Deployed"
	StateRenewing         State = "Renewing"
	StateTerminated       State = "Terminated"
)

var stateRank = map[State]int{
	StateResolving:        0,
	StateCreated:          1,
	StatePaymentPending:   2,
	StatePaymentSubmitted: 3,
	StateValidated:        4,
	StateDeployed:         5,
	StateRenewing:         6,
	StateTerminated:       7,
}

// canAdvance only moves forward, except for the renewal loop back to Validated.
func canAdvance(from, to State) bool {
	if from == StateTerminated {
		return false
	}
	if from == StateRenewing && to == StateValidated {
		return true
	}
	if to == StateRenewing {
		return from == StateValidated || from == StateDeployed
	}
	return stateRank[to] > stateRank[from]
}

type stateTable struct {
	lk     sync.Mutex
	states map[string]State
}

func newStateTable() *stateTable {
	return &stateTable{states: map[string]State{}}
}

// advance records to when the transition is legal and reports the resulting state.
func (t *stateTable) advance(taskUUID string, to State) State {
	t.lk.Lock()
	defer t.lk.Unlock()
	cur, ok := t.states[taskUUID]
	if !ok || canAdvance(cur, to) {
		t.states[taskUUID] = to
		return to
	}
	return cur
}

func (t *stateTable) get(taskUUID string) (State, bool) {
	t.lk.Lock()
	defer t.lk.Unlock()
	s, ok := t.states[taskUUID]
	return s, ok
}

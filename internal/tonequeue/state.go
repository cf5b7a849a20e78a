package tonequeue

// queueState is a two-state automaton: a queue is either IDLE
// (guaranteed empty) or BUSY (has been fed at
// least one tone since it last drained). BUSY with len == 0 is a valid,
// transient state: it is the instant after the last tone has been
// dequeued and before the consumer observes EMPTIED and the state rolls
// over to IDLE.
type queueState int

const (
	stateIdle queueState = iota
	stateBusy
)

func (s queueState) String() string {
	switch s {
	case stateIdle:
		return "IDLE"
	case stateBusy:
		return "BUSY"
	default:
		return "UNKNOWN"
	}
}

// DequeueResult is the three-valued outcome of Dequeue, so the consumer
// can distinguish "render this tone" from "I just finished the last tone"
// from "there is nothing and there hasn't been anything; sleep".
type DequeueResult int

const (
	// Dequeued indicates a valid tone was written to the caller's
	// out-parameter.
	Dequeued DequeueResult = iota
	// Emptied indicates nothing to return; the queue has just
	// transitioned to empty on this call.
	Emptied
	// Idle indicates nothing to return; the queue was already drained
	// before this call.
	Idle
)

func (r DequeueResult) String() string {
	switch r {
	case Dequeued:
		return "DEQUEUED"
	case Emptied:
		return "EMPTIED"
	case Idle:
		return "IDLE"
	default:
		return "UNKNOWN"
	}
}

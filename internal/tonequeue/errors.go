package tonequeue

import (
	"github.com/kd9qzo/cwtonequeue/internal/errors"
)

// Component identifier for tonequeue errors.
const component = "tonequeue"

// Sentinel errors for the queue's error kinds. ErrBusyFull and
// ErrWouldDeadlock are deliberately distinct from ErrInvalid: the input
// that triggers them is well-formed, the queue just cannot service it
// right now.
var (
	// ErrInvalid is returned for out-of-range arguments: frequency,
	// duration, capacity, high-water, or callback level.
	ErrInvalid = errors.New(nil).
			Component(component).
			Category(errors.CategoryValidation).
			Build()

	// ErrBusyFull is returned when Enqueue is attempted on a full queue.
	// The caller should retry later; the queue is left unchanged.
	ErrBusyFull = errors.New(nil).
			Component(component).
			Category(errors.CategoryQueueFull).
			Build()

	// ErrWouldDeadlock is returned by a WaitFor* call made while the
	// cancellation gate is closed: no consumer can wake this caller, so
	// the wait short-circuits instead of sleeping forever.
	ErrWouldDeadlock = errors.New(nil).
				Component(component).
				Category(errors.CategoryQueueBlocked).
				Build()

	// ErrClosed is returned by WaitForWork once the queue has been torn
	// down via Close.
	ErrClosed = errors.New(nil).
			Component(component).
			Category(errors.CategoryState).
			Build()
)

// invalidf builds a fresh ErrInvalid-shaped error carrying the supplied
// context, rather than returning the shared sentinel, so validation
// failures in logs/metrics carry the offending values.
func invalidf(format string, args ...any) error {
	return errors.Newf(format, args...).
		Component(component).
		Category(errors.CategoryValidation).
		Build()
}

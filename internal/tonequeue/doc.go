// Package tonequeue implements the bounded, FIFO tone queue that sits
// between a Morse-code producer and the single consumer goroutine that
// renders tones to audio. It is the hard part of a Morse audio library:
// everything downstream of Dequeue (sample synthesis, audio back-ends,
// the keyer state machine, the character table) is an external
// collaborator and is intentionally not implemented here.
//
// # Three-valued dequeue
//
// A two-valued "something/nothing" Dequeue forces the consumer to track
// its own "just emptied" edge to trigger end-of-stream rendering (ramp
// tails, silence). Collapsing this into the queue via DequeueResult
// eliminates a class of races between the consumer's local edge detector
// and concurrent enqueues.
//
// # Forever tone
//
// A tone with IsForever set is retained at the head of the queue across
// repeated Dequeue calls until a successor tone is enqueued. This
// expresses "a tone of unknown-in-advance duration, terminated by the
// arrival of the next committed tone" without a separate control channel.
// The low-water callback never fires while stuck on a forever tone.
//
// # Concurrency
//
// One mutex protects head, tail, len, state, and the low-water
// registration. Enqueue, Dequeue, Length, Flush, Backspace, and Reset
// never block on I/O and never sleep. WaitForTone, WaitForEmpty, and
// WaitForLevel block on a condition variable built on the same mutex,
// gated by a cancellation flag the consumer clears before it stops: a
// closed gate makes each of these waits return ErrWouldDeadlock
// immediately (WaitForLevel only when its level is not already reached)
// instead of sleeping forever with nothing left to wake it.
package tonequeue

package tonequeue

// KeySink is the downstream external collaborator that receives key
// state: on every dequeue cycle the queue reports a binary key state
// derived from the dequeued tone's frequency (non-zero => closed/key
// down, zero => open/key up). The queue never blocks on this call, so
// implementations must return promptly; Notify is invoked while the
// queue's mutex is held.
type KeySink interface {
	Notify(closed bool)
}

// NullKeySink discards key-state notifications. It is the zero-value
// default collaborator when a caller does not register one.
type NullKeySink struct{}

// Notify implements KeySink.
func (NullKeySink) Notify(bool) {}

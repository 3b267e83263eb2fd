package switcher

import "sync"

// Progress is one step of a long-running operation. Within an operation,
// Value never decreases and reaches exactly 1.0 on success.
type Progress struct {
	Value       float64
	Title       string
	Description string
}

// eventBuffer bounds how far the operation may run ahead of its reader
const eventBuffer = 16

// Operation is an install running in its own goroutine.
//
// Events is closed after the last event. The operation blocks when the buffer
// is full, so callers must either read Events or call Wait.
type Operation struct {
	title  string
	events chan Progress
	done   chan struct{}

	mu   sync.Mutex
	last float64
	err  error
}

func newOperation(title string) *Operation {
	return &Operation{
		title:  title,
		events: make(chan Progress, eventBuffer),
		done:   make(chan struct{}),
	}
}

// failedOperation returns an operation that ended before doing any work
func failedOperation(title string, err error) *Operation {
	op := newOperation(title)
	op.finish(err)
	return op
}

// Title describes the operation (e.g. "Installing PHP 8.2...")
func (o *Operation) Title() string {
	return o.title
}

// Events returns the progress stream
func (o *Operation) Events() <-chan Progress {
	return o.events
}

// Done is closed once the operation has finished and Err is set
func (o *Operation) Done() <-chan struct{} {
	return o.done
}

// Err returns the terminal error; only meaningful after Done is closed
func (o *Operation) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Wait discards unread events, blocks until the operation ends and returns its error
func (o *Operation) Wait() error {
	for range o.events {
	}
	<-o.done
	return o.Err()
}

// emit publishes progress, clamping value so the stream never goes backwards
func (o *Operation) emit(value float64, description string) {
	o.mu.Lock()
	if value < o.last {
		value = o.last
	}
	if value > 1 {
		value = 1
	}
	o.last = value
	o.mu.Unlock()

	o.events <- Progress{Value: value, Title: o.title, Description: description}
}

func (o *Operation) finish(err error) {
	o.mu.Lock()
	o.err = err
	o.mu.Unlock()

	close(o.events)
	close(o.done)
}

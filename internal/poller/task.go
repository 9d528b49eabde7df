package poller

import "context"

// Task is a handle to a poller running in the background.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Start runs p in a new goroutine. The poller stops when ctx is cancelled
// or Stop is called.
func (p *Poller) Start(ctx context.Context) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.err = p.Run(ctx)
	}()
	return t
}

// Done is closed once the poller has returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Stop cancels the poller, waits for it and returns the error Run ended with.
func (t *Task) Stop() error {
	t.cancel()
	<-t.done
	return t.err
}

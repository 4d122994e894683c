package affinity

import (
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/spellbridge/spellbridge/errors"
)

// unit is a single submission: the work plus its completion signal.
type unit struct {
	fn       func()
	done     chan struct{}
	panicked error
}

// Dispatcher runs work on one dedicated, OS-thread-pinned worker.
//
// Safe for concurrent use from any number of goroutines. See the package
// documentation for the submission protocol.
type Dispatcher struct {
	mu       sync.Mutex
	wake     *sync.Cond // worker waits here for work
	slotFree *sync.Cond // submitters wait here for the slot
	pending  *unit
	running  bool
	setupErr error

	workerDone chan struct{}
	log        *zap.Logger
}

// Option configures a Dispatcher.
type Option func(*config)

type config struct {
	setup func() error
	log   *zap.Logger
}

// WithSetup registers a hook that runs on the worker thread, after it is
// pinned and before the dispatcher signals readiness. A setup failure is
// recorded (see SetupErr) but is not fatal: the dispatcher still accepts
// and runs work.
func WithSetup(fn func() error) Option {
	return func(c *config) { c.setup = fn }
}

// WithLogger sets the dispatcher's logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.log = l }
}

// NewDispatcher spawns the worker thread and blocks until it has pinned
// itself and finished setup.
func NewDispatcher(opts ...Option) *Dispatcher {
	cfg := config{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Dispatcher{
		workerDone: make(chan struct{}),
		log:        cfg.log,
	}
	d.wake = sync.NewCond(&d.mu)
	d.slotFree = sync.NewCond(&d.mu)

	ready := make(chan struct{})
	go d.worker(ready, cfg.setup)
	<-ready

	return d
}

// Run executes fn on the worker thread and blocks until it has finished.
// If fn panics, the panic is returned as an error and the worker stays
// available for the next submission. Returns a closed-dispatcher error
// after Close.
func (d *Dispatcher) Run(fn func()) error {
	u := &unit{fn: fn, done: make(chan struct{})}

	d.mu.Lock()
	for d.pending != nil && d.running {
		d.slotFree.Wait()
	}
	if !d.running {
		d.mu.Unlock()
		return errors.Closed(errors.PhaseDispatch, "dispatcher")
	}
	d.pending = u
	d.wake.Signal()
	d.mu.Unlock()

	<-u.done
	return u.panicked
}

// Call executes fn on d's worker thread and returns its result to the
// calling goroutine. fn's error, or a panic converted to an error, is
// returned as-is.
func Call[T any](d *Dispatcher, fn func() (T, error)) (T, error) {
	var (
		out T
		err error
	)
	if rerr := d.Run(func() { out, err = fn() }); rerr != nil {
		var zero T
		return zero, rerr
	}
	return out, err
}

// Do executes fn on d's worker thread and returns its error, or the
// dispatch error if submission failed.
func Do(d *Dispatcher, fn func() error) error {
	var err error
	if rerr := d.Run(func() { err = fn() }); rerr != nil {
		return rerr
	}
	return err
}

// Close submits a final unit that clears the run flag, then joins the
// worker thread. All work submitted before Close completes before the
// worker exits. Returns an error if the dispatcher is already closed.
func (d *Dispatcher) Close() error {
	// The stop unit runs on the worker while it holds the mutex, so the
	// flag flip needs no extra locking.
	if err := d.Run(func() { d.running = false }); err != nil {
		return err
	}
	<-d.workerDone
	return nil
}

// Done returns a channel that is closed once the worker thread has
// exited.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.workerDone
}

// SetupErr reports the error from the WithSetup hook, if any. A non-nil
// result does not prevent dispatching; it is surfaced when the resource
// that needed the setup is first used.
func (d *Dispatcher) SetupErr() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setupErr
}

func (d *Dispatcher) worker(ready chan<- struct{}, setup func() error) {
	// The worker owns this OS thread for its whole life. Any resource
	// created inside dispatched work is created, used, and destroyed on
	// this one thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	d.mu.Lock()
	if setup != nil {
		if err := setup(); err != nil {
			d.setupErr = err
			d.log.Warn("worker setup failed; dispatching continues",
				zap.Error(err))
		}
	}
	d.running = true
	close(ready)

	for {
		for d.pending == nil && d.running {
			d.wake.Wait()
		}
		if d.pending == nil {
			// Woken with an empty slot and the run flag cleared.
			break
		}

		u := d.pending
		d.execute(u)
		d.pending = nil
		d.slotFree.Broadcast()
		close(u.done)
	}

	// Wake any submitters still queued behind the lock so they observe
	// the cleared run flag.
	d.slotFree.Broadcast()
	d.mu.Unlock()

	d.log.Debug("affinity worker exited")
	close(d.workerDone)
}

// execute runs one unit with panic recovery. The worker must survive any
// failure in dispatched work; the failure belongs to the submitter.
func (d *Dispatcher) execute(u *unit) {
	defer func() {
		if r := recover(); r != nil {
			u.panicked = errors.DispatchPanic(r)
			d.log.Error("dispatched work panicked", zap.Any("panic", r))
		}
	}()
	u.fn()
}

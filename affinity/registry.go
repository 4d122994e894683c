package affinity

import (
	"sync"

	"go.uber.org/zap"
)

// Registry hands out reference-counted access to a single Dispatcher.
//
// Spinning up the worker thread and its thread-affine subsystem is
// expensive and must happen exactly once no matter how many independent
// users are active, so the dispatcher is created lazily on the first
// Acquire and torn down on the last Release. The dispatcher exists if
// and only if the reference count is positive.
type Registry struct {
	mu   sync.Mutex
	disp *Dispatcher
	refs int

	opts []Option
	log  *zap.Logger
}

// NewRegistry creates an empty registry. The options are applied to
// every dispatcher the registry creates.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		opts: opts,
		log:  zap.NewNop(),
	}
}

// NewRegistryWithLogger is like NewRegistry with a logger for the
// registry's own bookkeeping. The logger is also handed to created
// dispatchers unless the options override it.
func NewRegistryWithLogger(l *zap.Logger, opts ...Option) *Registry {
	return &Registry{
		opts: append([]Option{WithLogger(l)}, opts...),
		log:  l,
	}
}

// Acquire increments the reference count and returns the shared
// dispatcher, creating it if this is the first acquisition. Callers must
// pair every Acquire with exactly one Release.
func (r *Registry) Acquire() *Dispatcher {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refs == 0 {
		r.disp = NewDispatcher(r.opts...)
		r.log.Debug("affinity dispatcher created")
	}
	r.refs++
	return r.disp
}

// Release decrements the reference count. On the 1→0 transition the
// dispatcher is closed and its worker thread joined before Release
// returns, so no worker outlives the registry's users.
func (r *Registry) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refs == 0 {
		r.log.Warn("release without matching acquire")
		return
	}

	r.refs--
	if r.refs > 0 {
		return
	}

	d := r.disp
	r.disp = nil
	if err := d.Close(); err != nil {
		r.log.Error("dispatcher close failed", zap.Error(err))
	}
	r.log.Debug("affinity dispatcher destroyed")
}

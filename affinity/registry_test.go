package affinity

import (
	"sync"
	"testing"
	"time"
)

func workerExited(t *testing.T, d *Dispatcher) bool {
	t.Helper()
	select {
	case <-d.Done():
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

func TestRegistry_ReferenceCounting(t *testing.T) {
	reg := NewRegistry()

	d1 := reg.Acquire()
	d2 := reg.Acquire()
	if d1 != d2 {
		t.Fatal("expected the same dispatcher from both acquisitions")
	}

	reg.Release()

	// One reference is still held; the worker must be alive.
	select {
	case <-d1.Done():
		t.Fatal("worker exited while still referenced")
	default:
	}
	if err := d1.Run(func() {}); err != nil {
		t.Fatalf("dispatcher unusable after partial release: %v", err)
	}

	reg.Release()
	if !workerExited(t, d1) {
		t.Fatal("worker did not exit after final release")
	}
}

func TestRegistry_ReacquireCreatesFreshDispatcher(t *testing.T) {
	reg := NewRegistry()

	d1 := reg.Acquire()
	reg.Release()
	if !workerExited(t, d1) {
		t.Fatal("first worker did not exit")
	}

	d2 := reg.Acquire()
	defer reg.Release()

	if d1 == d2 {
		t.Fatal("expected a fresh dispatcher after teardown")
	}
	if err := d2.Run(func() {}); err != nil {
		t.Fatalf("fresh dispatcher unusable: %v", err)
	}
}

func TestRegistry_ReleaseWithoutAcquire(t *testing.T) {
	reg := NewRegistry()
	// Must not panic or corrupt the count.
	reg.Release()

	d := reg.Acquire()
	defer reg.Release()
	if err := d.Run(func() {}); err != nil {
		t.Fatalf("dispatcher unusable: %v", err)
	}
}

func TestRegistry_ConcurrentAcquireRelease(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				d := reg.Acquire()
				_ = d.Run(func() {})
				reg.Release()
			}
		}()
	}
	wg.Wait()

	// All references released; a final acquire/release cycle must work.
	d := reg.Acquire()
	if err := d.Run(func() {}); err != nil {
		t.Fatalf("dispatcher unusable after stress: %v", err)
	}
	reg.Release()
	if !workerExited(t, d) {
		t.Fatal("worker did not exit after final release")
	}
}

func TestRegistry_OptionsForwarded(t *testing.T) {
	reg := NewRegistry(WithSetup(func() error { return nil }))

	d := reg.Acquire()
	defer reg.Release()

	if d.SetupErr() != nil {
		t.Fatalf("unexpected setup error: %v", d.SetupErr())
	}
}

package console

import (
	"context"
	"sync"
	"time"
)

type SnapshotState[T any] struct {
	Value   T
	Loaded  bool
	Loading bool
}

// SnapshotController holds a single fetched value (status, a detail record) under the
// same sequencing and notice rules as ListController.
type SnapshotController[T any] struct {
	env  Env
	name string
	load LoadFunc[T]

	mu       sync.Mutex
	value    T
	loaded   bool
	inflight int
	issued   uint64
	applied  uint64
	onChange func()
}

func NewSnapshotController[T any](env Env, name string, load LoadFunc[T]) *SnapshotController[T] {
	return &SnapshotController[T]{env: env, name: name, load: load}
}

func (c *SnapshotController[T]) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *SnapshotController[T]) State() SnapshotState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return SnapshotState[T]{Value: c.value, Loaded: c.loaded, Loading: c.inflight > 0}
}

func (c *SnapshotController[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.inflight++
	c.mu.Unlock()
	c.changed()

	v, err := c.load(ctx)

	c.mu.Lock()
	c.inflight--
	if err == nil && seq > c.applied {
		c.value = v
		c.loaded = true
		c.applied = seq
	}
	c.mu.Unlock()
	c.changed()

	if err != nil {
		c.env.fail("failed to load "+c.name, err)
		return err
	}
	return nil
}

// Poll loads now and then every interval until ctx ends. Individual failures are
// notified and polling continues.
func (c *SnapshotController[T]) Poll(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	_ = c.Load(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_ = c.Load(ctx)
		}
	}
}

func (c *SnapshotController[T]) changed() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

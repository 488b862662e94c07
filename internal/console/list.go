package console

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"livewatch-cli/internal/model"
)

// Source supplies a collection. Sources that also implement Deleter support Remove.
type Source[T any] interface {
	List(ctx context.Context) ([]T, error)
}

type Deleter interface {
	Delete(ctx context.Context, id model.ID) error
}

type ListState[T any] struct {
	Items   []T
	Loading bool
	// Fetched is set once any fetch has been applied.
	Fetched bool
}

// ListController owns one collection view: the items last fetched, a loading flag and
// the fetch, mutate, refetch cycle. Items are only ever replaced wholesale by a fetch.
type ListController[T any] struct {
	env  Env
	name string
	src  Source[T]

	mu        sync.Mutex
	items     []T
	inflight  int
	issued    uint64
	applied   uint64
	activated bool
	onChange  func()
}

func NewListController[T any](env Env, name string, src Source[T]) *ListController[T] {
	return &ListController[T]{env: env, name: name, src: src}
}

func (c *ListController[T]) Name() string { return c.name }

// OnChange registers fn to run after every state transition. fn runs without the
// controller lock held.
func (c *ListController[T]) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// State returns a copy of the current state.
func (c *ListController[T]) State() ListState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return ListState[T]{Items: items, Loading: c.inflight > 0, Fetched: c.applied > 0}
}

// Activate runs the first Refresh. Later calls do nothing.
func (c *ListController[T]) Activate(ctx context.Context) error {
	c.mu.Lock()
	if c.activated {
		c.mu.Unlock()
		return nil
	}
	c.activated = true
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Refresh refetches the whole collection. A response is applied only if no later-issued
// call has already been applied; a failure notifies once and leaves items alone.
func (c *ListController[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.inflight++
	c.mu.Unlock()
	c.changed()

	items, err := c.src.List(ctx)

	c.mu.Lock()
	c.inflight--
	stale := false
	if err == nil {
		if seq > c.applied {
			if items == nil {
				items = []T{}
			}
			c.items = items
			c.applied = seq
		} else {
			stale = true
		}
	}
	c.mu.Unlock()
	c.changed()

	if err != nil {
		c.env.fail("failed to load "+c.name, err)
		return err
	}
	if stale {
		c.env.logger().WithFields(logrus.Fields{"list": c.name, "seq": seq}).Debug("discarded superseded list response")
	}
	return nil
}

// Remove deletes id through the source and, on success, refetches once. A failed refetch
// notifies on its own; the delete itself still counts as done.
func (c *ListController[T]) Remove(ctx context.Context, id model.ID) error {
	del, ok := c.src.(Deleter)
	if !ok {
		return ErrReadOnly
	}
	if err := del.Delete(ctx, id); err != nil {
		c.env.Metrics.ObserveMutation("delete", err)
		c.env.fail("failed to delete "+singular(c.name)+" "+id.String(), err)
		return err
	}
	c.env.Metrics.ObserveMutation("delete", nil)
	c.env.info(singular(c.name) + " " + id.String() + " deleted")
	_ = c.Refresh(ctx)
	return nil
}

func (c *ListController[T]) changed() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func singular(name string) string {
	if n := len(name); n > 1 && name[n-1] == 's' {
		return name[:n-1]
	}
	return name
}

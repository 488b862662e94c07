package console

import (
	"context"
	"sync"
)

type Mode int

const (
	ModeClosed Mode = iota
	ModeCreate
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Form binds a modal to one resource: R is the record type, V the editable values.
type Form[R, V any] interface {
	Noun() string
	Defaults() V
	// FromRecord fills the mutable attributes of r; immutable ones stay unset.
	FromRecord(r R) V
	Validate(mode Mode, v V) error
	Create(ctx context.Context, v V) error
	Update(ctx context.Context, r R, v V) error
}

// Refresher is the list a modal refreshes after a successful submit.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// ModalController runs the add/edit form lifecycle: Closed, OpenForCreate and
// OpenForEdit(record). It can be reopened any number of times.
type ModalController[R, V any] struct {
	env  Env
	form Form[R, V]
	list Refresher

	mu       sync.Mutex
	mode     Mode
	record   R
	values   V
	onChange func()
}

func NewModalController[R, V any](env Env, form Form[R, V], list Refresher) *ModalController[R, V] {
	return &ModalController[R, V]{env: env, form: form, list: list}
}

func (c *ModalController[R, V]) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *ModalController[R, V]) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Values returns the current editable values.
func (c *ModalController[R, V]) Values() V {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

// Record returns the record being edited; ok is false unless the modal is OpenForEdit.
func (c *ModalController[R, V]) Record() (r R, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeEdit {
		return r, false
	}
	return c.record, true
}

func (c *ModalController[R, V]) OpenCreate() error {
	c.mu.Lock()
	if c.mode != ModeClosed {
		c.mu.Unlock()
		return ErrModalOpen
	}
	var zero R
	c.mode = ModeCreate
	c.record = zero
	c.values = c.form.Defaults()
	c.mu.Unlock()
	c.changed()
	return nil
}

func (c *ModalController[R, V]) OpenEdit(r R) error {
	c.mu.Lock()
	if c.mode != ModeClosed {
		c.mu.Unlock()
		return ErrModalOpen
	}
	c.mode = ModeEdit
	c.record = r
	c.values = c.form.FromRecord(r)
	c.mu.Unlock()
	c.changed()
	return nil
}

// Cancel discards the form. Closed stays closed.
func (c *ModalController[R, V]) Cancel() {
	c.mu.Lock()
	if c.mode == ModeClosed {
		c.mu.Unlock()
		return
	}
	c.reset()
	c.mu.Unlock()
	c.changed()
}

// Submit validates v and sends it. On success the modal closes and the owning list is
// refreshed once; on any failure the modal stays open with v kept.
func (c *ModalController[R, V]) Submit(ctx context.Context, v V) error {
	c.mu.Lock()
	if c.mode == ModeClosed {
		c.mu.Unlock()
		return ErrModalClosed
	}
	c.values = v
	mode, rec := c.mode, c.record
	c.mu.Unlock()
	c.changed()

	noun := c.form.Noun()
	op, done := "create", "created"
	if mode == ModeEdit {
		op, done = "update", "updated"
	}

	if err := c.form.Validate(mode, v); err != nil {
		c.env.fail("cannot "+op+" "+noun, err)
		return err
	}

	var err error
	if mode == ModeEdit {
		err = c.form.Update(ctx, rec, v)
	} else {
		err = c.form.Create(ctx, v)
	}
	c.env.Metrics.ObserveMutation(op, err)
	if err != nil {
		c.env.fail("failed to "+op+" "+noun, err)
		return err
	}

	c.mu.Lock()
	c.reset()
	c.mu.Unlock()
	c.changed()

	c.env.info(noun + " " + done)
	if c.list != nil {
		_ = c.list.Refresh(ctx)
	}
	return nil
}

func (c *ModalController[R, V]) reset() {
	var (
		zr R
		zv V
	)
	c.mode = ModeClosed
	c.record = zr
	c.values = zv
}

func (c *ModalController[R, V]) changed() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

package store

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"livewatch-cli/internal/gateway"
	"livewatch-cli/internal/model"
)

func openTestJournal(t *testing.T) (*Journal, Store) {
	t.Helper()
	s := Store{Dir: t.TempDir()}
	j, err := s.OpenJournal(context.Background())
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j, s
}

func TestJournal_AppendAndTail(t *testing.T) {
	t.Parallel()

	j, _ := openTestJournal(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	j.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Second) }

	if _, err := j.Append(ctx, OpCreate, "1", map[string]string{"name": "A"}); err != nil {
		t.Fatalf("append 1: %v", err)
	}
	if _, err := j.Append(ctx, OpUpdate, "1", map[string]string{"name": "B"}); err != nil {
		t.Fatalf("append 2: %v", err)
	}
	if _, err := j.Append(ctx, OpDelete, "1", nil); err != nil {
		t.Fatalf("append 3: %v", err)
	}

	all, err := j.Tail(ctx, 0)
	if err != nil {
		t.Fatalf("tail all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	if all[0].Op != OpCreate || all[2].Op != OpDelete {
		t.Fatalf("expected oldest first; got %q .. %q", all[0].Op, all[2].Op)
	}
	if !all[0].At.Equal(base.Add(time.Second)) {
		t.Fatalf("timestamp: %v", all[0].At)
	}
	if string(all[1].Payload) != `{"name":"B"}` || all[2].Payload != nil {
		t.Fatalf("payloads: %s / %s", all[1].Payload, all[2].Payload)
	}
	if all[0].ConsoleID == "" || all[0].ConsoleID != j.ConsoleID() {
		t.Fatalf("console id: %q", all[0].ConsoleID)
	}

	tail, err := j.Tail(ctx, 2)
	if err != nil {
		t.Fatalf("tail 2: %v", err)
	}
	if len(tail) != 2 || tail[0].Op != OpUpdate || tail[1].Op != OpDelete {
		t.Fatalf("unexpected tail: %+v", tail)
	}
}

func TestJournal_ConsoleIDStableAcrossReopen(t *testing.T) {
	t.Parallel()

	j, s := openTestJournal(t)
	first := j.ConsoleID()
	_ = j.Close()

	j2, err := s.OpenJournal(context.Background())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j2.Close()
	if j2.ConsoleID() != first {
		t.Fatalf("console id changed: %q -> %q", first, j2.ConsoleID())
	}
}

type stubAnchors struct {
	err error
}

func (s stubAnchors) List(context.Context, gateway.AnchorFilter) ([]model.Anchor, error) {
	return []model.Anchor{{ID: "1"}}, s.err
}

func (s stubAnchors) Create(_ context.Context, in model.AnchorInput) (model.Anchor, error) {
	if s.err != nil {
		return model.Anchor{}, s.err
	}
	return model.Anchor{ID: "9", Name: in.Name, DouyinID: in.DouyinID}, nil
}

func (s stubAnchors) Update(_ context.Context, id model.ID, p model.AnchorPatch) (model.Anchor, error) {
	if s.err != nil {
		return model.Anchor{}, s.err
	}
	return model.Anchor{ID: id, Name: p.Name}, nil
}

func (s stubAnchors) Delete(context.Context, model.ID) error { return s.err }

func TestJournaledAnchors_RecordsOnlySuccess(t *testing.T) {
	t.Parallel()

	j, _ := openTestJournal(t)
	ctx := context.Background()

	ok := NewJournaledAnchors(stubAnchors{}, j, nil)
	if _, err := ok.Create(ctx, model.AnchorInput{Name: "A", DouyinID: "X"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := ok.Update(ctx, "9", model.AnchorPatch{Name: "B"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := ok.Delete(ctx, "9"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := ok.List(ctx, gateway.AnchorFilter{}); err != nil {
		t.Fatalf("List: %v", err)
	}

	failing := NewJournaledAnchors(stubAnchors{err: errors.New("backend down")}, j, nil)
	if _, err := failing.Create(ctx, model.AnchorInput{Name: "C", DouyinID: "Y"}); err == nil {
		t.Fatalf("expected create error")
	}
	if err := failing.Delete(ctx, "9"); err == nil {
		t.Fatalf("expected delete error")
	}

	entries, err := j.Tail(ctx, 0)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 journaled mutations; got %d", len(entries))
	}
	want := []string{OpCreate, OpUpdate, OpDelete}
	for i, op := range want {
		if entries[i].Op != op || entries[i].AnchorID != "9" {
			t.Fatalf("entry %d: %+v", i, entries[i])
		}
	}
}

func TestJournaledAnchors_JournalFailureDoesNotFailMutation(t *testing.T) {
	t.Parallel()

	j, _ := openTestJournal(t)
	_ = j.Close()

	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	g := NewJournaledAnchors(stubAnchors{}, j, log)
	if _, err := g.Create(context.Background(), model.AnchorInput{Name: "A", DouyinID: "X"}); err != nil {
		t.Fatalf("mutation should succeed despite journal failure: %v", err)
	}
	if !strings.Contains(buf.String(), "journal append failed") {
		t.Fatalf("expected warning log; got %q", buf.String())
	}
}

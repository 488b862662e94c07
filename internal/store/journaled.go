package store

import (
	"context"

	"github.com/sirupsen/logrus"

	"livewatch-cli/internal/console"
	"livewatch-cli/internal/gateway"
	"livewatch-cli/internal/logger"
	"livewatch-cli/internal/model"
)

// JournaledAnchors records every successful anchor mutation in a Journal. A journal
// write failure is logged and never turns a successful mutation into an error.
type JournaledAnchors struct {
	next    console.AnchorGateway
	journal *Journal
	log     *logrus.Logger
}

var _ console.AnchorGateway = (*JournaledAnchors)(nil)

func NewJournaledAnchors(next console.AnchorGateway, j *Journal, log *logrus.Logger) *JournaledAnchors {
	if log == nil {
		log = logger.Discard()
	}
	return &JournaledAnchors{next: next, journal: j, log: log}
}

func (g *JournaledAnchors) List(ctx context.Context, f gateway.AnchorFilter) ([]model.Anchor, error) {
	return g.next.List(ctx, f)
}

func (g *JournaledAnchors) Create(ctx context.Context, in model.AnchorInput) (model.Anchor, error) {
	a, err := g.next.Create(ctx, in)
	if err != nil {
		return a, err
	}
	g.record(ctx, OpCreate, a.ID, in)
	return a, nil
}

func (g *JournaledAnchors) Update(ctx context.Context, id model.ID, patch model.AnchorPatch) (model.Anchor, error) {
	a, err := g.next.Update(ctx, id, patch)
	if err != nil {
		return a, err
	}
	g.record(ctx, OpUpdate, id, patch)
	return a, nil
}

func (g *JournaledAnchors) Delete(ctx context.Context, id model.ID) error {
	if err := g.next.Delete(ctx, id); err != nil {
		return err
	}
	g.record(ctx, OpDelete, id, nil)
	return nil
}

func (g *JournaledAnchors) record(ctx context.Context, op string, id model.ID, payload any) {
	if g.journal == nil {
		return
	}
	if _, err := g.journal.Append(context.WithoutCancel(ctx), op, id, payload); err != nil {
		g.log.WithFields(logrus.Fields{"op": op, "anchor_id": id.String()}).WithError(err).Warn("journal append failed")
	}
}

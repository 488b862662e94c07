package gateway

import (
	"context"
	"net/http"
	"net/url"

	"livewatch-cli/internal/model"
)

const recordingsPath = "/recordings"

type RecordingFilter struct {
	Paging
	AnchorID model.ID
	Status   model.RecordingStatus
}

func (f RecordingFilter) query() url.Values {
	q := url.Values{}
	f.Paging.apply(q)
	if f.AnchorID != "" {
		q.Set("anchor_id", f.AnchorID.String())
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	return q
}

// Recordings is read-only.
type Recordings struct {
	c Client
}

func NewRecordings(c Client) *Recordings { return &Recordings{c: c} }

func (g *Recordings) List(ctx context.Context, f RecordingFilter) ([]model.Recording, error) {
	page, err := g.ListPage(ctx, f)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (g *Recordings) ListPage(ctx context.Context, f RecordingFilter) (Page[model.Recording], error) {
	return list[model.Recording](ctx, g.c, recordingsPath, f.query())
}

func (g *Recordings) Get(ctx context.Context, id model.ID) (model.Recording, error) {
	path, err := itemPath(recordingsPath, id)
	if err != nil {
		return model.Recording{}, err
	}
	var out model.Recording
	if err := g.c.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return model.Recording{}, err
	}
	return out, nil
}

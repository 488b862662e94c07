package gateway

import (
	"context"
	"net/http"
	"net/url"

	"livewatch-cli/internal/model"
)

const summariesPath = "/summaries"

type SummaryFilter struct {
	Paging
	AnchorID model.ID
}

func (f SummaryFilter) query() url.Values {
	q := url.Values{}
	f.Paging.apply(q)
	if f.AnchorID != "" {
		q.Set("anchor_id", f.AnchorID.String())
	}
	return q
}

// Summaries is read-only.
type Summaries struct {
	c Client
}

func NewSummaries(c Client) *Summaries { return &Summaries{c: c} }

func (g *Summaries) List(ctx context.Context, f SummaryFilter) ([]model.Summary, error) {
	page, err := g.ListPage(ctx, f)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (g *Summaries) ListPage(ctx context.Context, f SummaryFilter) (Page[model.Summary], error) {
	return list[model.Summary](ctx, g.c, summariesPath, f.query())
}

func (g *Summaries) Get(ctx context.Context, id model.ID) (model.Summary, error) {
	path, err := itemPath(summariesPath, id)
	if err != nil {
		return model.Summary{}, err
	}
	var out model.Summary
	if err := g.c.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return model.Summary{}, err
	}
	return out, nil
}

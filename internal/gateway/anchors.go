package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"livewatch-cli/internal/model"
)

const anchorsPath = "/anchors"

// ErrNotFound is returned by Find when no page contains the id.
var ErrNotFound = errors.New("not found")

type AnchorFilter struct {
	Paging
	// Followed filters on is_followed when non-nil.
	Followed *bool
}

func (f AnchorFilter) query() url.Values {
	q := url.Values{}
	f.Paging.apply(q)
	if f.Followed != nil {
		q.Set("is_followed", strconv.FormatBool(*f.Followed))
	}
	return q
}

type Anchors struct {
	c Client
}

func NewAnchors(c Client) *Anchors { return &Anchors{c: c} }

func (g *Anchors) List(ctx context.Context, f AnchorFilter) ([]model.Anchor, error) {
	page, err := g.ListPage(ctx, f)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (g *Anchors) ListPage(ctx context.Context, f AnchorFilter) (Page[model.Anchor], error) {
	return list[model.Anchor](ctx, g.c, anchorsPath, f.query())
}

func (g *Anchors) Create(ctx context.Context, in model.AnchorInput) (model.Anchor, error) {
	var out model.Anchor
	if err := g.c.Do(ctx, http.MethodPost, anchorsPath, in, &out); err != nil {
		return model.Anchor{}, err
	}
	return out, nil
}

func (g *Anchors) Update(ctx context.Context, id model.ID, patch model.AnchorPatch) (model.Anchor, error) {
	path, err := itemPath(anchorsPath, id)
	if err != nil {
		return model.Anchor{}, err
	}
	var out model.Anchor
	if err := g.c.Do(ctx, http.MethodPut, path, patch, &out); err != nil {
		return model.Anchor{}, err
	}
	return out, nil
}

func (g *Anchors) Delete(ctx context.Context, id model.ID) error {
	path, err := itemPath(anchorsPath, id)
	if err != nil {
		return err
	}
	return g.c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Find walks the list pages until it sees id. The backend has no single-anchor GET.
func (g *Anchors) Find(ctx context.Context, id model.ID) (model.Anchor, error) {
	f := AnchorFilter{Paging: Paging{Page: 1, PerPage: 100}}
	for {
		page, err := g.ListPage(ctx, f)
		if err != nil {
			return model.Anchor{}, err
		}
		for _, a := range page.Items {
			if a.ID == id {
				return a, nil
			}
		}
		if !page.HasMore() {
			return model.Anchor{}, ErrNotFound
		}
		f.Page++
	}
}

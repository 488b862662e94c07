// Package gateway exposes typed operations over the backend REST resources. Gateways only
// build paths and queries; every result and error is passed through from the transport.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"livewatch-cli/internal/model"
	"livewatch-cli/internal/transport"
)

// Client is the transport contract the gateways need. *transport.Client satisfies it.
type Client interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Page is one page of a list response. Bare-array responses fill only Items.
type Page[T any] struct {
	Items   []T `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Pages   int `json:"pages"`
}

// HasMore reports whether the backend announced pages past this one.
func (p Page[T]) HasMore() bool {
	return p.Pages > 0 && p.Page > 0 && p.Page < p.Pages
}

// UnmarshalJSON accepts a bare array or the paginated items envelope.
func (p *Page[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = Page[T]{}
		return nil
	}
	if b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*p = Page[T]{Items: items}
		return nil
	}
	var env pageEnvelope[T]
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	if env.Items == nil {
		env.Items = []T{}
	}
	*p = Page[T](env)
	return nil
}

// pageEnvelope drops Page's UnmarshalJSON so the envelope decodes field by field.
type pageEnvelope[T any] Page[T]

// Paging is shared by every list filter; zero values are not sent.
type Paging struct {
	Page    int
	PerPage int
}

func (p Paging) apply(q url.Values) {
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
}

func itemPath(collection string, id model.ID) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%s: empty id", collection)
	}
	return collection + "/" + url.PathEscape(id.String()), nil
}

func list[T any](ctx context.Context, c Client, path string, q url.Values) (Page[T], error) {
	path = transport.WithQuery(path, q)
	var page Page[T]
	if err := c.Do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return Page[T]{}, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}

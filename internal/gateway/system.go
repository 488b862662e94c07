package gateway

import (
	"context"
	"net/http"

	"livewatch-cli/internal/model"
)

type System struct {
	c Client
}

func NewSystem(c Client) *System { return &System{c: c} }

func (g *System) Get(ctx context.Context) (model.SystemStatus, error) {
	var out model.SystemStatus
	if err := g.c.Do(ctx, http.MethodGet, "/system/status", nil, &out); err != nil {
		return model.SystemStatus{}, err
	}
	return out, nil
}

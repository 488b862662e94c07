package console

import (
	"context"

	"livewatch-cli/internal/gateway"
	"livewatch-cli/internal/model"
)

// AnchorSource lists anchors with a fixed filter and supports Remove.
type AnchorSource struct {
	Gateway AnchorGateway
	Filter  gateway.AnchorFilter
}

func (s AnchorSource) List(ctx context.Context) ([]model.Anchor, error) {
	return s.Gateway.List(ctx, s.Filter)
}

func (s AnchorSource) Delete(ctx context.Context, id model.ID) error {
	return s.Gateway.Delete(ctx, id)
}

type RecordingGateway interface {
	List(ctx context.Context, f gateway.RecordingFilter) ([]model.Recording, error)
	Get(ctx context.Context, id model.ID) (model.Recording, error)
}

// RecordingSource is read-only.
type RecordingSource struct {
	Gateway RecordingGateway
	Filter  gateway.RecordingFilter
}

func (s RecordingSource) List(ctx context.Context) ([]model.Recording, error) {
	return s.Gateway.List(ctx, s.Filter)
}

type SummaryGateway interface {
	List(ctx context.Context, f gateway.SummaryFilter) ([]model.Summary, error)
	Get(ctx context.Context, id model.ID) (model.Summary, error)
}

// SummarySource is read-only.
type SummarySource struct {
	Gateway SummaryGateway
	Filter  gateway.SummaryFilter
}

func (s SummarySource) List(ctx context.Context) ([]model.Summary, error) {
	return s.Gateway.List(ctx, s.Filter)
}

// ListFunc adapts a plain function to Source.
type ListFunc[T any] func(ctx context.Context) ([]T, error)

func (f ListFunc[T]) List(ctx context.Context) ([]T, error) { return f(ctx) }

// LoadFunc produces one snapshot value.
type LoadFunc[T any] func(ctx context.Context) (T, error)

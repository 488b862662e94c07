package console

import (
	"context"
	"strings"

	"livewatch-cli/internal/gateway"
	"livewatch-cli/internal/model"
)

// AnchorGateway is the anchor resource as the console uses it. *gateway.Anchors and the
// journaling decorator in internal/store both satisfy it.
type AnchorGateway interface {
	List(ctx context.Context, f gateway.AnchorFilter) ([]model.Anchor, error)
	Create(ctx context.Context, in model.AnchorInput) (model.Anchor, error)
	Update(ctx context.Context, id model.ID, patch model.AnchorPatch) (model.Anchor, error)
	Delete(ctx context.Context, id model.ID) error
}

// AnchorValues are the fields of the add/edit anchor form.
type AnchorValues struct {
	Name       string
	PlatformID string
	RoomID     string
	AvatarURL  string
	Followed   bool
}

type AnchorForm struct {
	Gateway AnchorGateway
}

func (AnchorForm) Noun() string { return "anchor" }

func (AnchorForm) Defaults() AnchorValues {
	return AnchorValues{Followed: true}
}

// FromRecord leaves PlatformID empty: it cannot change after creation.
func (AnchorForm) FromRecord(a model.Anchor) AnchorValues {
	return AnchorValues{
		Name:      a.Name,
		RoomID:    a.RoomID,
		AvatarURL: a.AvatarURL,
		Followed:  a.IsFollowed,
	}
}

func (AnchorForm) Validate(mode Mode, v AnchorValues) error {
	var missing []string
	if strings.TrimSpace(v.Name) == "" {
		missing = append(missing, "name")
	}
	if mode == ModeCreate && strings.TrimSpace(v.PlatformID) == "" {
		missing = append(missing, "douyin_id")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

func (f AnchorForm) Create(ctx context.Context, v AnchorValues) error {
	_, err := f.Gateway.Create(ctx, model.AnchorInput{
		Name:       strings.TrimSpace(v.Name),
		DouyinID:   strings.TrimSpace(v.PlatformID),
		RoomID:     strings.TrimSpace(v.RoomID),
		AvatarURL:  strings.TrimSpace(v.AvatarURL),
		IsFollowed: v.Followed,
	})
	return err
}

func (f AnchorForm) Update(ctx context.Context, a model.Anchor, v AnchorValues) error {
	_, err := f.Gateway.Update(ctx, a.ID, model.AnchorPatch{
		Name:       strings.TrimSpace(v.Name),
		RoomID:     strings.TrimSpace(v.RoomID),
		AvatarURL:  strings.TrimSpace(v.AvatarURL),
		IsFollowed: v.Followed,
	})
	return err
}

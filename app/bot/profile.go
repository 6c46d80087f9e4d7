package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Semior001/newsreader/app/profile"
	"github.com/Semior001/newsreader/app/store"
	"github.com/Semior001/newsreader/pkg/botx"
)

func (c *Ctrl) profile(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	arg := argument(req.Text)
	if arg == "" {
		return c.showProfile(ctx, req)
	}

	field, value, _ := strings.Cut(arg, " ")
	value = strings.TrimSpace(value)

	var ch profile.Changes
	switch field {
	case "username":
		ch.Username = &value
	case "first_name":
		ch.FirstName = &value
	case "last_name":
		ch.LastName = &value
	case "role":
		ch.Role = &value
	case "image":
		if err := c.Profiles.SetImage(ctx, req.Chat.ID, value); err != nil {
			return nil, fmt.Errorf("set image: %w", err)
		}
		return text(req, "Profile image updated."), nil
	default:
		return text(req, fmt.Sprintf("Unknown field %q.", escapeMarkdown(field))), nil
	}

	_, written, err := c.Profiles.Update(ctx, req.Chat.ID, ch)
	var verr store.ValidationError
	switch {
	case errors.As(err, &verr):
		return text(req, renderValidation(verr)), nil
	case err != nil:
		return nil, fmt.Errorf("update profile: %w", err)
	case !written:
		return text(req, "Nothing to update."), nil
	}

	return c.showProfile(ctx, req)
}

func (c *Ctrl) showProfile(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	p, err := c.Profiles.Get(ctx, req.Chat.ID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	img, err := c.Profiles.Image(ctx, req.Chat.ID)
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}

	msg, err := render(profileMessageTmpl, struct {
		store.Profile
		Theme string
		Image string
	}{
		Profile: store.Profile{
			Username:   escapeMarkdown(p.Username),
			FirstName:  escapeMarkdown(p.FirstName),
			LastName:   escapeMarkdown(p.LastName),
			Role:       p.Role,
			Subscribed: p.Subscribed,
		},
		Theme: c.Profiles.Theme(ctx, req.Chat.ID),
		Image: img,
	})
	if err != nil {
		return nil, err
	}

	return text(req, msg), nil
}

func (c *Ctrl) theme(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	arg := argument(req.Text)
	if arg == "" {
		theme, err := c.Profiles.ToggleTheme(ctx, req.Chat.ID)
		if err != nil {
			return nil, fmt.Errorf("toggle theme: %w", err)
		}
		return text(req, fmt.Sprintf("Theme switched to %s.", theme)), nil
	}

	err := c.Profiles.SetTheme(ctx, req.Chat.ID, arg)
	switch {
	case errors.Is(err, profile.ErrUnknownTheme):
		return text(req, "Theme must be either light or dark."), nil
	case err != nil:
		return nil, fmt.Errorf("set theme: %w", err)
	}

	return text(req, fmt.Sprintf("Theme switched to %s.", arg)), nil
}

// Package profile manages user profiles and device preferences.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Semior001/newsreader/app/store"
	"github.com/samber/lo"
	"golang.org/x/exp/slog"
)

//go:generate moq -out mock_profile_store.go -pkg profile ../store ProfileStore
//go:generate moq -out mock_kv.go -pkg profile ../store KV

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ErrUnknownTheme is returned when setting a theme other than light or dark.
var ErrUnknownTheme = errors.New("unknown theme")

var roles = []string{store.RoleMedia, store.RoleVisitor}

// Changes describes the profile fields to update, nil fields are left as is.
type Changes struct {
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Role      *string `json:"role,omitempty"`
}

// Validate checks the values of the set fields.
func (c Changes) Validate() error {
	errs := store.ValidationError{}
	if c.Role != nil && !lo.Contains(roles, *c.Role) {
		errs["role"] = fmt.Sprintf("Role must be one of: %s", strings.Join(roles, ", "))
	}
	if c.Username != nil && strings.TrimSpace(*c.Username) == "" {
		errs["username"] = "Username must not be empty"
	}
	return errs.OrNil()
}

// HasChanges reports whether applying the changes modifies the profile.
func HasChanges(p store.Profile, c Changes) bool {
	return apply(p, c) != p
}

func apply(p store.Profile, c Changes) store.Profile {
	if c.Username != nil {
		p.Username = strings.TrimSpace(*c.Username)
	}
	if c.FirstName != nil {
		p.FirstName = strings.TrimSpace(*c.FirstName)
	}
	if c.LastName != nil {
		p.LastName = strings.TrimSpace(*c.LastName)
	}
	if c.Role != nil {
		p.Role = *c.Role
	}
	return p
}

// Service reads and updates profiles and device preferences.
type Service struct {
	log      *slog.Logger
	profiles store.ProfileStore
	kv       store.KV
}

// NewService makes a new Service.
func NewService(lg *slog.Logger, profiles store.ProfileStore, kv store.KV) *Service {
	return &Service{log: lg, profiles: profiles, kv: kv}
}

// Get returns the profile. A missing profile is returned blank with
// the media role.
func (s *Service) Get(ctx context.Context, id string) (store.Profile, error) {
	p, err := s.profiles.GetProfile(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return store.Profile{ID: id, Role: store.RoleMedia}, nil
	case err != nil:
		return store.Profile{}, fmt.Errorf("get profile %s: %w", id, err)
	}
	return p, nil
}

// Update applies the changes to the profile and stores it only if
// something actually changed. Returns the resulting profile and whether it
// was written.
func (s *Service) Update(ctx context.Context, id string, c Changes) (store.Profile, bool, error) {
	if err := c.Validate(); err != nil {
		return store.Profile{}, false, err
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return store.Profile{}, false, err
	}

	if !HasChanges(p, c) {
		return p, false, nil
	}

	p = apply(p, c)
	if err = s.profiles.PutProfile(ctx, p); err != nil {
		return store.Profile{}, false, fmt.Errorf("put profile %s: %w", id, err)
	}

	s.log.InfoCtx(ctx, "profile updated", slog.String("profile_id", id))

	return p, true, nil
}

func themeKey(device string) string { return "theme:" + device }
func imageKey(device string) string { return "profile_image:" + device }

// Theme returns the theme of the device. Defaults to light, read failures
// are logged and fall back to the default too.
func (s *Service) Theme(ctx context.Context, device string) string {
	theme, err := s.kv.GetValue(ctx, themeKey(device))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ThemeLight
	case err != nil:
		s.log.WarnCtx(ctx, "failed to retrieve theme",
			slog.String("device", device),
			slog.Any("err", err))
		return ThemeLight
	case theme == "":
		return ThemeLight
	}
	return theme
}

// SetTheme stores the theme of the device.
func (s *Service) SetTheme(ctx context.Context, device, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("set theme %q: %w", theme, ErrUnknownTheme)
	}
	if err := s.kv.SetValue(ctx, themeKey(device), theme); err != nil {
		return fmt.Errorf("store theme: %w", err)
	}
	return nil
}

// ToggleTheme switches between light and dark themes and returns the new one.
func (s *Service) ToggleTheme(ctx context.Context, device string) (string, error) {
	theme := ThemeDark
	if s.Theme(ctx, device) == ThemeDark {
		theme = ThemeLight
	}
	if err := s.SetTheme(ctx, device, theme); err != nil {
		return "", err
	}
	return theme, nil
}

// Image returns the profile image URI, empty if not set.
func (s *Service) Image(ctx context.Context, device string) (string, error) {
	uri, err := s.kv.GetValue(ctx, imageKey(device))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("get profile image: %w", err)
	}
	return uri, nil
}

// SetImage stores the profile image URI.
func (s *Service) SetImage(ctx context.Context, device, uri string) error {
	if err := s.kv.SetValue(ctx, imageKey(device), uri); err != nil {
		return fmt.Errorf("store profile image: %w", err)
	}
	return nil
}

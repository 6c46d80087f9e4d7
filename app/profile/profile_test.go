package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/Semior001/newsreader/app/store"
	"github.com/Semior001/newsreader/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func strp(s string) *string { return &s }

func prepService(t *testing.T) (*Service, *store.Bolt) {
	t.Helper()
	b, err := store.NewBolt(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, b.Close()) })
	return NewService(slog.New(logx.NoOp()), b, b), b
}

func TestHasChanges(t *testing.T) {
	p := store.Profile{ID: "1", Username: "jdoe", FirstName: "John", Role: store.RoleMedia}

	assert.False(t, HasChanges(p, Changes{}))
	assert.False(t, HasChanges(p, Changes{Username: strp("jdoe"), Role: strp(store.RoleMedia)}))
	assert.False(t, HasChanges(p, Changes{FirstName: strp(" John ")}), "surrounding spaces are trimmed")
	assert.True(t, HasChanges(p, Changes{LastName: strp("Doe")}))
	assert.True(t, HasChanges(p, Changes{Role: strp(store.RoleVisitor)}))
}

func TestService_Update(t *testing.T) {
	svc, _ := prepService(t)
	ctx := context.Background()

	p, err := svc.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, store.Profile{ID: "42", Role: store.RoleMedia}, p)

	p, written, err := svc.Update(ctx, "42", Changes{Username: strp("jdoe"), Role: strp(store.RoleVisitor)})
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, store.Profile{ID: "42", Username: "jdoe", Role: store.RoleVisitor}, p)

	_, written, err = svc.Update(ctx, "42", Changes{Username: strp("jdoe")})
	require.NoError(t, err)
	assert.False(t, written)

	got, err := svc.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, _, err = svc.Update(ctx, "42", Changes{Role: strp("admin"), Username: strp("")})
	var verr store.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, store.ValidationError{
		"role":     "Role must be one of: media, visitor",
		"username": "Username must not be empty",
	}, verr)
}

func TestService_UpdateSkipsUnchanged(t *testing.T) {
	ps := &ProfileStoreMock{
		GetProfileFunc: func(context.Context, string) (store.Profile, error) {
			return store.Profile{ID: "1", Username: "jdoe", Role: store.RoleMedia}, nil
		},
		PutProfileFunc: func(context.Context, store.Profile) error { return errors.New("must not be called") },
	}
	svc := NewService(slog.New(logx.NoOp()), ps, &KVMock{})

	p, written, err := svc.Update(context.Background(), "1", Changes{Username: strp("jdoe")})
	require.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, "jdoe", p.Username)
	assert.Empty(t, ps.PutProfileCalls())
}

func TestService_Theme(t *testing.T) {
	svc, _ := prepService(t)
	ctx := context.Background()

	assert.Equal(t, ThemeLight, svc.Theme(ctx, "dev"))

	theme, err := svc.ToggleTheme(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)
	assert.Equal(t, ThemeDark, svc.Theme(ctx, "dev"))
	assert.Equal(t, ThemeLight, svc.Theme(ctx, "other"), "themes are per device")

	theme, err = svc.ToggleTheme(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	err = svc.SetTheme(ctx, "dev", "sepia")
	assert.ErrorIs(t, err, ErrUnknownTheme)
}

func TestService_ThemeReadFailure(t *testing.T) {
	kv := &KVMock{GetValueFunc: func(context.Context, string) (string, error) {
		return "", errors.New("storage unavailable")
	}}
	svc := NewService(slog.New(logx.NoOp()), &ProfileStoreMock{}, kv)
	assert.Equal(t, ThemeLight, svc.Theme(context.Background(), "dev"))
}

func TestService_Image(t *testing.T) {
	svc, _ := prepService(t)
	ctx := context.Background()

	uri, err := svc.Image(ctx, "dev")
	require.NoError(t, err)
	assert.Empty(t, uri)

	require.NoError(t, svc.SetImage(ctx, "dev", "file:///tmp/me.png"))

	uri, err = svc.Image(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, "file:///tmp/me.png", uri)
}

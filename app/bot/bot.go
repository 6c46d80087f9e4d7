// Package bot contains routers and controllers for bots.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Semior001/newsreader/app/device"
	"github.com/Semior001/newsreader/app/feed"
	"github.com/Semior001/newsreader/app/poll"
	"github.com/Semior001/newsreader/app/post"
	"github.com/Semior001/newsreader/app/profile"
	"github.com/Semior001/newsreader/app/reader"
	"github.com/Semior001/newsreader/app/store"
	"github.com/Semior001/newsreader/pkg/botx"
	"github.com/Semior001/newsreader/pkg/botx/botmw"
	cache "github.com/go-pkgz/expirable-cache/v2"
	"github.com/samber/lo"
	"golang.org/x/exp/slog"
)

//go:generate moq -out mock_api.go -pkg bot ../../pkg/botx API

// Ctrl provides routes and controllers for bot updates.
type Ctrl struct {
	Logger   *slog.Logger
	Store    store.ProfileStore
	Devices  *device.Registry
	Feed     *feed.Aggregator
	Reader   *reader.Service
	Posts    *post.Service
	Polls    *poll.Creator
	Profiles *profile.Service
	// Caches are reported to admins by name.
	Caches         map[string]func() cache.Stats
	API            botx.API
	AdminIDs       []string
	AuthToken      string
	HandlerTimeout time.Duration
}

// Routes returns a multiplexer for bot controllers.
func (c *Ctrl) Routes() *botx.Router {
	rtr := botx.NewRouter()

	rtr.Use(
		botmw.RequestID(),
		withDevice,
		botmw.AppendRequestIDOnError(),
		botmw.Recover(c.Logger),
		botmw.Logger(c.Logger),
		botmw.Timeout(c.HandlerTimeout),
		c.ensureAuthorized,
	)

	rtr.NotFound(c.link)
	rtr.Add("/start", c.start)
	rtr.Add("/stop", c.stop)
	rtr.Add("/category", c.category)
	rtr.Add("/feed", c.feed)
	rtr.Add("/read", c.read)
	rtr.Add("/back", c.back)
	rtr.Add("/poll", c.poll)
	rtr.Add("/vote", c.vote)
	rtr.Add("/post", c.post)
	rtr.Add("/profile", c.profile)
	rtr.Add("/theme", c.theme)

	rtr.Group(func(rtr *botx.Router) {
		rtr.Use(c.ensureAdmin)

		rtr.Add("/newpoll", c.newPoll)
		rtr.Add("/list", c.list)
		rtr.Add("/delete", c.delete)
		rtr.Add("/cache", c.cacheStats)
	})

	return rtr
}

func (c *Ctrl) start(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	p, ok := profileFromContext(ctx)
	if !ok {
		return c.register(ctx, req)
	}

	p.Subscribed = true
	if err := c.Store.PutProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return text(req, "You have been subscribed to news updates.\n"+
		"Send /feed to read the news, /category to pick another category."), nil
}

func (c *Ctrl) stop(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	p, ok := profileFromContext(ctx)
	if !ok {
		return nil, errors.New("no profile in context")
	}

	p.Subscribed = false
	if err := c.Store.PutProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return text(req, "You will no longer receive news updates."), nil
}

func (c *Ctrl) ensureAdmin(h botx.Handler) botx.Handler {
	return func(ctx context.Context, req botx.Request) ([]botx.Response, error) {
		if !lo.Contains(c.AdminIDs, req.Chat.ID) {
			return nil, nil
		}

		return h(ctx, req)
	}
}

func (c *Ctrl) ensureAuthorized(h botx.Handler) botx.Handler {
	return func(ctx context.Context, req botx.Request) ([]botx.Response, error) {
		p, err := c.Store.GetProfile(ctx, req.Chat.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.register(ctx, req)
			}

			return nil, fmt.Errorf("get profile: %w", err)
		}

		if !p.Authorized {
			if req.Text != c.AuthToken {
				return text(req, "You are not authorized, please provide a token."), nil
			}

			p.Authorized = true
			p.Subscribed = true

			if err := c.Store.PutProfile(ctx, p); err != nil {
				return nil, fmt.Errorf("update profile: %w", err)
			}

			return text(req, "You are now authorized.\n"+
				"Send /feed to read the news, /poll to vote in the latest poll, "+
				"or just send me a link to any article."), nil
		}

		return h(contextWithProfile(ctx, p), req)
	}
}

func (c *Ctrl) register(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	p := store.Profile{
		ID:       req.Chat.ID,
		Username: req.Chat.Username,
		Role:     store.RoleMedia,
	}

	if err := c.Store.PutProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("add profile: %w", err)
	}

	if err := c.NotifyAdmins(ctx, fmt.Sprintf("new user: %s", escapeMarkdown(req.Chat.Username))); err != nil {
		c.Logger.WarnCtx(ctx, "notify admins about registered user", slog.Any("err", err))
	}

	return text(req, "Hello! In order to read the news, you need to provide a token,\n"+
		"please ask admin for it and then send it to me."), nil
}

// NotifyAdmins sends a message to all admins.
func (c *Ctrl) NotifyAdmins(ctx context.Context, msg string) error {
	for _, adminID := range c.AdminIDs {
		if err := c.API.SendMessage(ctx, botx.Response{
			ChatID: adminID,
			Text:   msg,
		}); err != nil {
			return fmt.Errorf("send message to admin: %w", err)
		}
	}

	return nil
}

func text(req botx.Request, msg string, buttons ...string) []botx.Response {
	return []botx.Response{{ChatID: req.Chat.ID, Text: msg, Buttons: buttons}}
}

// argument returns the text after the command.
func argument(s string) string {
	idx := strings.IndexAny(s, " \n")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(s[idx+1:])
}

// parts splits the argument by "|" and trims the parts.
func parts(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return lo.Map(strings.Split(s, "|"), func(p string, _ int) string { return strings.TrimSpace(p) })
}

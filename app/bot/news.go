package bot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Semior001/newsreader/app/device"
	"github.com/Semior001/newsreader/app/feed"
	"github.com/Semior001/newsreader/app/post"
	"github.com/Semior001/newsreader/app/store"
	"github.com/Semior001/newsreader/app/ui"
	"github.com/Semior001/newsreader/pkg/botx"
	"github.com/samber/lo"
	"golang.org/x/exp/slog"
)

func categories() []string {
	return append([]string{ui.DefaultCategory}, post.Categories()...)
}

func (c *Ctrl) category(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	d := c.Devices.Get(req.Chat.ID)

	name := argument(req.Text)
	if name == "" {
		buttons := lo.Map(categories(), func(cat string, _ int) string { return "/category " + cat })
		return text(req, fmt.Sprintf("Current category: *%s*\nPick another one or send /category <search query>.",
			escapeMarkdown(d.State.Category())), buttons...), nil
	}

	d.State.SetCategory(name)
	return c.feed(ctx, req)
}

func (c *Ctrl) feed(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	d := c.Devices.Get(req.Chat.ID)
	category := d.State.Category()

	f, err := c.Feed.Load(ctx, d.State, category)
	if err != nil {
		if errors.Is(err, feed.ErrFetch) {
			return text(req, fmt.Sprintf("Failed to load news: %s\nSend /feed to try again.",
				escapeMarkdown(d.State.Error()))), nil
		}
		return nil, fmt.Errorf("load feed: %w", err)
	}

	p, hasPoll, err := d.Tally.Load(ctx)
	if err != nil {
		c.Logger.WarnCtx(ctx, "failed to load poll for the feed", slog.Any("err", err))
		hasPoll = false
	}

	var active *store.Poll
	if hasPoll {
		active = &p
	}

	return text(req, renderFeed(f.Category, f.Articles, active, f.PollIndex)), nil
}

func (c *Ctrl) read(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	d := c.Devices.Get(req.Chat.ID)
	news := d.State.NewsForCategory(d.State.Category())

	n, err := strconv.Atoi(argument(req.Text))
	if err != nil || n < 1 || n > len(news) {
		return text(req, "Send /read N, where N is the number of the article in the /feed."), nil
	}

	article := news[n-1]
	d.State.SetSelectedArticle(article)

	if c.Reader != nil && c.Reader.Expandable(article) {
		if expanded, ok := c.expand(ctx, req, d, article); ok {
			article = expanded
			d.State.SetSelectedArticle(article)
		}
	}

	msg, err := render(articleMessageTmpl, escapeArticle(article))
	if err != nil {
		return nil, err
	}

	return text(req, msg), nil
}

func (c *Ctrl) expand(ctx context.Context, req botx.Request, d *device.Device, a store.Article) (store.Article, bool) {
	if err := c.API.SendMessage(ctx, botx.Response{
		ChatID: req.Chat.ID,
		Text:   "I'm working on it, please wait...",
	}); err != nil {
		c.Logger.WarnCtx(ctx, "failed to send start message", slog.Any("err", err))
	}

	d.State.ShowLoader()
	defer d.State.HideLoader()

	expanded, err := c.Reader.Expand(ctx, a)
	if err != nil {
		c.Logger.WarnCtx(ctx, "failed to expand article, showing the feed version",
			slog.String("url", a.URL),
			slog.Any("err", err))
		return a, false
	}

	return expanded, true
}

func (c *Ctrl) back(_ context.Context, req botx.Request) ([]botx.Response, error) {
	d := c.Devices.Get(req.Chat.ID)
	d.State.ClearSelectedArticle()

	category := d.State.Category()
	news := d.State.NewsForCategory(category)
	if len(news) == 0 {
		return text(req, "Send /feed to load the news."), nil
	}

	return text(req, renderFeed(category, news, nil, 0)), nil
}

// link reads an arbitrary article sent as a bare link.
func (c *Ctrl) link(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	u, err := url.ParseRequestURI(strings.TrimSpace(req.Text))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || c.Reader == nil {
		return text(req, "Unknown command. Send /feed to read the news, /poll to vote, "+
			"/post to submit an article, or just send me a link to any article."), nil
	}

	if err = c.API.SendMessage(ctx, botx.Response{
		ChatID: req.Chat.ID,
		Text:   "I'm working on it, please wait...",
	}); err != nil {
		return nil, fmt.Errorf("send start message: %w", err)
	}

	article, err := c.Reader.Read(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("read article: %w", err)
	}

	msg, err := render(articleMessageTmpl, escapeArticle(article))
	if err != nil {
		return nil, err
	}

	return text(req, msg), nil
}

// renderFeed lists the articles, with the poll shown before the article
// at pollIndex.
func renderFeed(category string, articles []store.Article, p *store.Poll, pollIndex int) string {
	sb := &strings.Builder{}
	_, _ = fmt.Fprintf(sb, "*%s*\n\n", escapeMarkdown(category))

	if len(articles) == 0 {
		_, _ = sb.WriteString("No news in this category yet.\n")
	}

	pollLine := func() {
		if p != nil {
			_, _ = fmt.Fprintf(sb, "📊 *Poll:* %s /poll\n", escapeMarkdown(p.Question))
		}
	}

	for i, a := range articles {
		if i == pollIndex {
			pollLine()
		}

		_, _ = fmt.Fprintf(sb, "%d. %s", i+1, escapeMarkdown(a.Title))
		switch {
		case a.Origin == store.OriginUserSubmitted && a.Author != "":
			_, _ = fmt.Fprintf(sb, " (_%s_)", escapeMarkdown(a.Author))
		case a.SourceName != "":
			_, _ = fmt.Fprintf(sb, " (_%s_)", escapeMarkdown(a.SourceName))
		}
		_, _ = sb.WriteString("\n")
	}

	if pollIndex >= len(articles) {
		pollLine()
	}

	_, _ = sb.WriteString("\nSend /read N to open an article.")
	return sb.String()
}

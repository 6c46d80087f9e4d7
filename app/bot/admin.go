package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Semior001/newsreader/pkg/botx"
	"github.com/samber/lo"
)

func (c *Ctrl) list(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	profiles, err := c.Store.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	sb := &strings.Builder{}
	_, _ = sb.WriteString("Users:\n")
	for _, p := range profiles {
		_, _ = sb.WriteString(fmt.Sprintf("id: %s, username: %s, role: %s, authorized: %t, subscribed: %t\n",
			p.ID, escapeMarkdown(p.Username), p.Role, p.Authorized, p.Subscribed))
	}

	return text(req, sb.String()), nil
}

func (c *Ctrl) delete(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	tokens := strings.Fields(req.Text)
	if len(tokens) != 2 {
		return nil, errors.New("invalid command")
	}

	id := tokens[1]
	if err := c.Store.DeleteProfile(ctx, id); err != nil {
		return nil, fmt.Errorf("delete profile: %w", err)
	}

	return text(req, fmt.Sprintf("User with id %s was deleted.", id)), nil
}

func (c *Ctrl) cacheStats(_ context.Context, req botx.Request) ([]botx.Response, error) {
	names := lo.Keys(c.Caches)
	sort.Strings(names)

	sb := &strings.Builder{}
	for _, name := range names {
		stats := c.Caches[name]()
		_, _ = sb.WriteString(fmt.Sprintf("%s: hits: %d, misses: %d, evictions: %d, added: %d\n",
			name, stats.Hits, stats.Misses, stats.Evicted, stats.Added))
	}

	if sb.Len() == 0 {
		return text(req, "No caches."), nil
	}

	return text(req, sb.String()), nil
}

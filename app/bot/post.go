package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/Semior001/newsreader/app/post"
	"github.com/Semior001/newsreader/app/store"
	"github.com/Semior001/newsreader/pkg/botx"
)

const postUsage = "Send /post heading | tag | category | text, optionally followed by | video link.\n" +
	"Category is one of: General, Technology, Health, Business, Sports, Entertainment, Education."

func (c *Ctrl) post(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	ps := parts(argument(req.Text))
	if len(ps) < 4 {
		return text(req, postUsage), nil
	}

	d := post.Draft{
		Heading:  ps[0],
		Tag:      ps[1],
		Category: ps[2],
		Article:  ps[3],
		Author:   req.Chat.Username,
	}
	if len(ps) > 4 {
		d.VideoLink = ps[4]
	}
	if p, ok := profileFromContext(ctx); ok && p.Username != "" {
		d.Author = p.Username
	}

	_, err := c.Posts.Submit(ctx, d)
	var verr store.ValidationError
	switch {
	case errors.As(err, &verr):
		return text(req, renderValidation(verr)), nil
	case err != nil:
		return nil, fmt.Errorf("submit post: %w", err)
	}

	return text(req, "Post submitted successfully!"), nil
}

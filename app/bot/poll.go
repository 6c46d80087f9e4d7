package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/Semior001/newsreader/app/poll"
	"github.com/Semior001/newsreader/app/store"
	"github.com/Semior001/newsreader/pkg/botx"
	"github.com/samber/lo"
)

func (c *Ctrl) poll(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	d := c.Devices.Get(req.Chat.ID)

	p, ok, err := d.Tally.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load poll: %w", err)
	}
	if !ok {
		return text(req, "There are no polls yet."), nil
	}

	voted, err := d.Tally.Voted(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("check vote: %w", err)
	}

	return c.renderPoll(req, p, voted)
}

func (c *Ctrl) vote(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	d := c.Devices.Get(req.Chat.ID)

	p, ok := d.Tally.Poll()
	if !ok {
		return nil, nil
	}

	voted, err := d.Tally.Voted(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("check vote: %w", err)
	}
	if voted {
		return text(req, "You have already voted in this poll."), nil
	}

	option := argument(req.Text)
	p, err = d.Tally.Vote(ctx, p.ID, option)
	switch {
	case errors.Is(err, poll.ErrInvalidState):
		return nil, nil
	case errors.Is(err, poll.ErrUnknownOption):
		return text(req, fmt.Sprintf("There is no option %q in the poll.", escapeMarkdown(option))), nil
	case err != nil:
		return nil, fmt.Errorf("vote: %w", err)
	}

	return c.renderPoll(req, p, true)
}

func (c *Ctrl) renderPoll(req botx.Request, p store.Poll, voted bool) ([]botx.Response, error) {
	shares := poll.ComputeShares(p.Options)

	view := pollView{Question: escapeMarkdown(p.Question), Total: p.Total(), Voted: voted}
	for _, opt := range p.OptionKeys() {
		view.Options = append(view.Options, pollOption{
			Name:  escapeMarkdown(opt),
			Votes: p.Options[opt],
			Share: shares[opt],
		})
	}

	msg, err := render(pollMessageTmpl, view)
	if err != nil {
		return nil, err
	}

	var buttons []string
	if !voted {
		buttons = lo.Map(p.OptionKeys(), func(opt string, _ int) string { return "/vote " + opt })
	}

	return text(req, msg, buttons...), nil
}

func (c *Ctrl) newPoll(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	ps := parts(argument(req.Text))
	if len(ps) == 0 {
		return text(req, "Send /newpoll question | option | option..."), nil
	}

	p, err := c.Polls.Create(ctx, poll.Draft{Question: ps[0], Options: ps[1:]})
	var verr store.ValidationError
	switch {
	case errors.As(err, &verr):
		return text(req, renderValidation(verr)), nil
	case err != nil:
		return nil, fmt.Errorf("create poll: %w", err)
	}

	return text(req, fmt.Sprintf("Poll %q created with %d options.", escapeMarkdown(p.Question), len(p.Options))), nil
}

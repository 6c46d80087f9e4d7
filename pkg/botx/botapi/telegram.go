// Package botapi contains implementations of bot API interfaces.
package botapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Semior001/newsreader/pkg/botx"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/exp/slog"
)

// Telegram is a controller that handles requests from telegram.
type Telegram struct {
	log     *slog.Logger
	api     *tgbotapi.BotAPI
	updates chan botx.Request
}

// NewTelegram returns a new telegram bot controller.
func NewTelegram(lg *slog.Logger, token string, bufferSize int) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("make new api: %w", err)
	}

	api.Debug = lg.Enabled(context.TODO(), slog.LevelDebug)

	stdlibLogger := slog.NewLogLogger(lg.Handler(), slog.LevelWarn)
	stdlibLogger.SetPrefix("telegram-bot-api: ")

	if err = tgbotapi.SetLogger(stdlibLogger); err != nil {
		return nil, fmt.Errorf("set logger: %w", err)
	}

	return &Telegram{
		log:     lg,
		api:     api,
		updates: make(chan botx.Request, bufferSize),
	}, nil
}

// Run listens for telegram updates until the context is dead.
// Updates channel is closed on return.
func (b *Telegram) Run(ctx context.Context) error {
	defer close(b.updates)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	b.log.InfoCtx(ctx, "started bot listener")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case update, ok := <-updates:
			if !ok {
				return errors.New("telegram updates chan closed")
			}
			if update.Message == nil || update.Message.Chat == nil || update.Message.Text == "" {
				continue
			}

			req := botx.Request{
				MessageID: strconv.Itoa(update.Message.MessageID),
				Chat: botx.Chat{
					ID:       strconv.FormatInt(update.Message.Chat.ID, 10),
					Username: update.Message.Chat.UserName,
				},
				Text: update.Message.Text,
			}

			select {
			case b.updates <- req:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Updates returns updates channel.
func (b *Telegram) Updates() <-chan botx.Request {
	return b.updates
}

// SendMessage sends message to telegram user.
func (b *Telegram) SendMessage(ctx context.Context, resp botx.Response) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	chatID, err := strconv.ParseInt(resp.ChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("parse chat id: %w", err)
	}

	msg := tgbotapi.NewMessage(chatID, resp.Text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if resp.ReplyToMessageID != "" {
		if msg.ReplyToMessageID, err = strconv.Atoi(resp.ReplyToMessageID); err != nil {
			return fmt.Errorf("parse reply to message id: %w", err)
		}
	}

	if len(resp.Buttons) > 0 {
		rows := make([][]tgbotapi.KeyboardButton, 0, len(resp.Buttons))
		for _, btn := range resp.Buttons {
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btn)))
		}
		kb := tgbotapi.NewReplyKeyboard(rows...)
		kb.OneTimeKeyboard = true
		msg.ReplyMarkup = kb
	}

	if _, err = b.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

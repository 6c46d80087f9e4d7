// Package cmd contains commands for the application.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Semior001/newsreader/app/bot"
	"github.com/Semior001/newsreader/app/device"
	"github.com/Semior001/newsreader/app/feed"
	"github.com/Semior001/newsreader/app/newsapi"
	"github.com/Semior001/newsreader/app/poll"
	"github.com/Semior001/newsreader/app/post"
	"github.com/Semior001/newsreader/app/profile"
	"github.com/Semior001/newsreader/app/reader"
	"github.com/Semior001/newsreader/app/rest"
	"github.com/Semior001/newsreader/app/store"
	"github.com/Semior001/newsreader/app/store/redis"
	"github.com/Semior001/newsreader/pkg/botx"
	"github.com/Semior001/newsreader/pkg/botx/botapi"
	"github.com/Semior001/newsreader/pkg/logx"
	cache "github.com/go-pkgz/expirable-cache/v2"
	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

// Run is a command to run the news reader.
type Run struct {
	NewsAPI struct {
		Key      string        `long:"key" env:"KEY" description:"news api key"`
		BaseURL  string        `long:"base-url" env:"BASE_URL" default:"https://newsapi.org/v2" description:"news api base url"`
		PageSize int           `long:"page-size" env:"PAGE_SIZE" default:"20" description:"articles per feed"`
		SortBy   string        `long:"sort-by" env:"SORT_BY" default:"publishedAt" choice:"relevancy" choice:"popularity" choice:"publishedAt" description:"feed order"`
		Timeout  time.Duration `long:"timeout" env:"TIMEOUT" default:"10s" description:"timeout for news api calls"`
	} `group:"newsapi" namespace:"newsapi" env-namespace:"NEWSAPI"`

	Polls struct {
		Backend string `long:"backend" env:"BACKEND" default:"bolt" choice:"bolt" choice:"redis" description:"poll storage backend"`
		Redis   struct {
			URL    string `long:"url" env:"URL" default:"redis://localhost:6379/0" description:"redis url"`
			Prefix string `long:"prefix" env:"PREFIX" default:"newsreader:" description:"prefix for redis keys"`
		} `group:"redis" namespace:"redis" env-namespace:"REDIS"`
	} `group:"polls" namespace:"polls" env-namespace:"POLLS"`

	Bot struct {
		Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"6m" description:"timeout for requests"`
		Workers int           `long:"workers" env:"WORKERS" default:"10" description:"number of update workers"`

		Telegram struct {
			Token string `long:"token" env:"TOKEN" description:"telegram token, bot is off when empty"`
		} `group:"telegram" namespace:"telegram" env-namespace:"TELEGRAM"`

		AdminIDs  []string `long:"admin-ids" env:"ADMIN_IDS" env-delim:"," description:"admin IDs"`
		AuthToken string   `long:"auth-token" env:"AUTH_TOKEN" description:"token for authorizing requests"`
	} `group:"bot" namespace:"bot" env-namespace:"BOT"`

	Reader struct {
		Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"timeout for downloading pages"`

		OpenAI struct {
			Token     string        `long:"token" env:"TOKEN" description:"OpenAI token, bullet points are off when empty"`
			MaxTokens int           `long:"max-tokens" env:"MAX_TOKENS" default:"1000" description:"max tokens for OpenAI"`
			Timeout   time.Duration `long:"timeout" env:"TIMEOUT" default:"5m" description:"timeout for OpenAI calls"`
			CacheSize int           `long:"cache-size" env:"CACHE_SIZE" default:"100" description:"number of cached bullet points"`
		} `group:"openai" namespace:"openai" env-namespace:"OPENAI"`
	} `group:"reader" namespace:"reader" env-namespace:"READER"`

	REST struct {
		Listen     string        `long:"listen" env:"LISTEN" default:":8080" description:"listen address, api is off when empty"`
		Timeout    time.Duration `long:"timeout" env:"TIMEOUT" default:"1m" description:"timeout for requests"`
		AdminToken string        `long:"admin-token" env:"ADMIN_TOKEN" description:"bearer token for creating polls, off when empty"`
	} `group:"rest" namespace:"rest" env-namespace:"REST"`

	Devices struct {
		Max int           `long:"max" env:"MAX" default:"1000" description:"max number of kept device sessions"`
		TTL time.Duration `long:"ttl" env:"TTL" default:"24h" description:"time to keep an idle device session"`
	} `group:"devices" namespace:"devices" env-namespace:"DEVICES"`

	StorePath string `long:"store-path" env:"STORE_PATH" default:"./var" description:"parent dir for bolt files"`
}

// Execute runs the command.
func (r Run) Execute(_ []string) error {
	lg := slog.Default()

	if r.Bot.Telegram.Token == "" && r.REST.Listen == "" {
		return errors.New("neither telegram token nor rest listen address is set, nothing to run")
	}

	s, err := store.NewBolt(r.StorePath)
	if err != nil {
		return fmt.Errorf("make store: %w", err)
	}

	defer func() {
		if err := s.Close(); err != nil {
			lg.Error("close bolt store", slog.Any("err", err))
		}
	}()

	polls, closePolls, err := r.makePolls(s)
	if err != nil {
		return fmt.Errorf("make poll store: %w", err)
	}
	defer closePolls()

	news := newsapi.NewClient(
		lg.With(slog.String("prefix", "newsapi")),
		http.Client{Timeout: r.NewsAPI.Timeout},
		r.NewsAPI.BaseURL,
		r.NewsAPI.Key,
		logx.LoggingRoundTripper(lg.With(slog.String("prefix", "newsapi")), logx.RoundTripperOpts{
			Level:         slog.LevelDebug,
			SecretHeaders: []string{"X-Api-Key"},
		}),
	)

	aggregator := feed.NewAggregator(news, s,
		feed.WithLogger(lg.With(slog.String("prefix", "feed"))),
		feed.WithPageSize(r.NewsAPI.PageSize),
		feed.WithSortBy(newsapi.SortBy(r.NewsAPI.SortBy)),
	)

	devices := device.NewRegistry(lg.With(slog.String("prefix", "device")), polls, s, device.Options{
		MaxDevices: r.Devices.Max,
		TTL:        r.Devices.TTL,
	})

	caches := map[string]func() cache.Stats{
		"devices": devices.Stat,
		"news":    devices.NewsStat,
	}

	var summarizer reader.Summarizer
	if r.Reader.OpenAI.Token != "" {
		chatGPT := reader.NewChatGPT(
			lg.With(slog.String("prefix", "chatgpt")),
			&http.Client{Timeout: r.Reader.OpenAI.Timeout},
			r.Reader.OpenAI.Token,
			r.Reader.OpenAI.MaxTokens,
			r.Reader.OpenAI.CacheSize,
		)
		summarizer = chatGPT
		caches["bullet points"] = chatGPT.CacheStat
	}

	pages := requester.New(
		http.Client{Timeout: r.Reader.Timeout},
		middleware.Header("User-Agent", "newsreader"),
		logx.LoggingRoundTripper(lg.With(slog.String("prefix", "pages")), logx.RoundTripperOpts{Level: slog.LevelDebug}),
	)

	rdr := reader.NewService(lg.With(slog.String("prefix", "reader")), pages.Client(), summarizer)

	posts := post.NewService(lg.With(slog.String("prefix", "post")), s)
	creator := poll.NewCreator(lg.With(slog.String("prefix", "poll")), polls)
	profiles := profile.NewService(lg.With(slog.String("prefix", "profile")), s, s)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	ewg, ctx := errgroup.WithContext(ctx)
	ewg.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		select {
		case sig := <-sig:
			slog.Warn("caught signal, stopping", slog.String("signal", sig.String()))
			stop()
			return ctx.Err()
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	if r.REST.Listen != "" {
		srv := &rest.Server{
			Logger:     lg.With(slog.String("prefix", "rest")),
			Devices:    devices,
			Feed:       aggregator,
			Reader:     rdr,
			Posts:      posts,
			Polls:      creator,
			Profiles:   profiles,
			Timeout:    r.REST.Timeout,
			AdminToken: r.REST.AdminToken,
		}

		ewg.Go(func() error {
			if err := srv.Run(ctx, r.REST.Listen); err != nil {
				return fmt.Errorf("run rest server: %w", err)
			}
			lg.Warn("rest server stopped")
			return nil
		})
	}

	var ctrl *bot.Ctrl
	if r.Bot.Telegram.Token != "" {
		api, err := botapi.NewTelegram(
			lg.With(slog.String("prefix", "telegram")),
			r.Bot.Telegram.Token,
			100,
		)
		if err != nil {
			return fmt.Errorf("make telegram controller: %w", err)
		}

		ctrl = &bot.Ctrl{
			Logger:         lg.With(slog.String("prefix", "bot")),
			Store:          s,
			Devices:        devices,
			Feed:           aggregator,
			Reader:         rdr,
			Posts:          posts,
			Polls:          creator,
			Profiles:       profiles,
			Caches:         caches,
			API:            api,
			AdminIDs:       r.Bot.AdminIDs,
			AuthToken:      r.Bot.AuthToken,
			HandlerTimeout: r.Bot.Timeout,
		}

		b := botx.NewBot(
			ctrl.Routes().Handle,
			api,
			botx.WithLogger(lg.With(slog.String("prefix", "botx"))),
			botx.WithWorkers(r.Bot.Workers),
		)

		if err := ctrl.NotifyAdmins(ctx, "bot started"); err != nil {
			lg.Warn("failed to notify admins about started bot", slog.Any("err", err))
		}

		ewg.Go(func() error {
			lg.Info("starting telegram api")
			err := api.Run(ctx)
			lg.Warn("telegram api stopped listening for updates")
			return err
		})
		ewg.Go(func() error {
			lg.Info("starting bot")
			b.Run(ctx)
			lg.Warn("bot stopped")
			return nil
		})
	}

	err = ewg.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		if ctrl != nil {
			msg := fmt.Sprintf("bot stopped with error: %v", err)
			if sendErr := ctrl.NotifyAdmins(context.Background(), msg); sendErr != nil {
				lg.Warn("failed to notify admins about stopped bot", slog.Any("err", sendErr))
			}
		}
		return err
	}

	if ctrl != nil {
		if err := ctrl.NotifyAdmins(context.Background(), "bot stopped"); err != nil {
			return fmt.Errorf("notify admins about stopped bot: %w", err)
		}
	}

	return nil
}

func (r Run) makePolls(s *store.Bolt) (polls store.PollStore, closeFn func(), err error) {
	if r.Polls.Backend != "redis" {
		return s, func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rp, err := redis.NewPolls(ctx, r.Polls.Redis.URL, r.Polls.Redis.Prefix)
	if err != nil {
		return nil, nil, err
	}

	return rp, func() {
		if err := rp.Close(); err != nil {
			slog.Error("close redis poll store", slog.Any("err", err))
		}
	}, nil
}

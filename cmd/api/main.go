package main

import (
	"CricketScoreApi/internal/cache"
	"CricketScoreApi/internal/cricket"
	"CricketScoreApi/internal/data"
	"CricketScoreApi/internal/jsonlog"
	"CricketScoreApi/internal/mailer"
	"CricketScoreApi/internal/matchhub"
	"CricketScoreApi/internal/publisher"
	"context"
	"database/sql"
	"errors"
	"expvar"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// matchStore is the persistence the handlers need; data.MatchModel implements it.
type matchStore interface {
	Insert(match *data.MatchRecord) error
	Get(pin string) (*data.MatchRecord, error)
	Update(match *data.MatchRecord) error
	Delete(pin string) error
	GetAll(filters data.MatchesFilter) ([]*data.MatchRecord, data.MatchesMetadata, error)
}

type scoreboardCache interface {
	WriteScoreboard(ctx context.Context, pin string, sb cricket.Scoreboard) error
	ReadScoreboard(ctx context.Context, pin string) (*cricket.Scoreboard, error)
	DeleteScoreboard(ctx context.Context, pin string) error
	WriteLiveMatches(ctx context.Context, pins []string) error
}

type updatePublisher interface {
	PublishMatchUpdate(ctx context.Context, pin, kind string, sb cricket.Scoreboard) error
}

type reportMailer interface {
	Send(recipient, templateFile string, data any) error
}

type application struct {
	logger    *jsonlog.Logger
	config    config
	matches   matchStore
	hubs      *matchhub.Registry
	cache     scoreboardCache
	publisher updatePublisher
	mailer    reportMailer
	wg        sync.WaitGroup
}

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if cfg.displayVersion {
		fmt.Printf("Version: %s\n", cfg.version)
		os.Exit(0)
	}

	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	db, err := openDB(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer db.Close()
	logger.PrintInfo("database connection pool established", nil)

	hubCtx, stopHubs := context.WithCancel(context.Background())
	defer stopHubs()

	models := data.NewModels(db)
	app := &application{
		logger:  logger,
		config:  cfg,
		matches: &models.Matches,
		mailer: mailer.New(cfg.smtp.host, cfg.smtp.port, cfg.smtp.username, cfg.smtp.password,
			cfg.smtp.sender),
	}
	app.hubs = matchhub.NewRegistry(hubCtx, matchhub.Config{
		Logger:      logger,
		OnChange:    app.persistChange,
		IdleTimeout: cfg.hub.idleTimeout,
		OnClose:     app.hubClosed,
	})

	if cfg.redis.url != "" {
		rdb, err := openRedis(cfg)
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		defer rdb.Close()
		logger.PrintInfo("redis connection established", nil)

		app.cache = cache.NewRedisWriter(rdb)
		app.publisher = publisher.NewStreamPublisher(rdb, cfg.redis.streamMaxLen)
	}

	expvar.NewString("version").Set(cfg.version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	expvar.Publish("database", expvar.Func(func() any {
		return db.Stats()
	}))
	expvar.Publish("live_matches", expvar.Func(func() any {
		return app.hubs.Len()
	}))
	expvar.Publish("timestamp", expvar.Func(func() any {
		return time.Now().Unix()
	}))

	err = app.serve()
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}

func openDB(cfg config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.db.maxOpenConns)
	db.SetMaxIdleConns(cfg.db.maxIdleConns)
	duration, err := time.ParseDuration(cfg.db.maxIdleTime)
	if err != nil {
		return nil, err
	}
	db.SetConnMaxIdleTime(duration)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func openRedis(cfg config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.redis.url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

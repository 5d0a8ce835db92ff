package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/morshed33/xprs-go/db/migrations"
	"github.com/morshed33/xprs-go/modules"
	"github.com/morshed33/xprs-go/modules/post"
	"github.com/morshed33/xprs-go/modules/user"
	"github.com/morshed33/xprs-go/pkg/config"
	"github.com/morshed33/xprs-go/pkg/environment"
	"github.com/morshed33/xprs-go/pkg/faultmonitor"
	"github.com/morshed33/xprs-go/pkg/httpserver"
	"github.com/morshed33/xprs-go/pkg/logger"
	"github.com/morshed33/xprs-go/pkg/metrics"
	"github.com/morshed33/xprs-go/pkg/pg"
	"github.com/morshed33/xprs-go/pkg/ratelimiter"
	"github.com/morshed33/xprs-go/pkg/redis"
	"github.com/morshed33/xprs-go/pkg/requestid"
)

type appConfig struct {
	Env        string `env:"APP_ENV" envDefault:"development"`
	Name       string `env:"APP_NAME" envDefault:"xprs-go"`
	TrustProxy bool   `env:"HTTP_TRUST_PROXY" envDefault:"false"`
}

const metricsNamespace = "xprs"

func main() {
	os.Exit(run())
}

func run() int {
	a, err := bootstrap()
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		return 1
	}
	defer a.close()

	a.start(context.Background())
	return a.mon.Wait(context.Background())
}

type app struct {
	cfg      appConfig
	httpCfg  httpserver.Config
	pgCfg    pg.Config
	rateCfg  ratelimiter.Config
	redisCfg redis.Config
	env      environment.Environment

	log     *slog.Logger
	metrics *metrics.Metrics
	mon     *faultmonitor.Monitor
	closers []func()
}

// bootstrap loads configuration and builds the logger and the monitor.
// Failures here happen before any log sink exists and go to stderr.
func bootstrap() (*app, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	a := &app{}
	var fileCfg logger.FileConfig
	if err := errors.Join(
		config.Load(&a.cfg),
		config.Load(&a.httpCfg),
		config.Load(&a.pgCfg),
		config.Load(&a.rateCfg),
		config.Load(&a.redisCfg),
		config.Load(&fileCfg),
	); err != nil {
		return nil, err
	}
	a.env = environment.Parse(a.cfg.Env)

	sinks, err := logger.OpenFileSinks(fileCfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = sinks.Close() })

	a.log = logger.New(
		logger.WithEnvironment(a.env, a.cfg.Name),
		logger.WithSinks(sinks.Handlers()...),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(a.log)

	a.metrics = metrics.New(metricsNamespace)
	a.mon = faultmonitor.New(a.log,
		faultmonitor.WithDrainTimeout(a.httpCfg.ShutdownTimeout),
		faultmonitor.WithObserver(a.metrics.ObserveFault),
	)
	return a, nil
}

// start brings the server up. Any failure, including a panic, leaves the
// monitor Stopped with exit code 1.
func (a *app) start(ctx context.Context) {
	defer a.mon.Recover()

	a.log.Info(fmt.Sprintf("Configuring %s server...", a.env))

	pool, err := pg.Connect(ctx, a.pgCfg)
	if err != nil {
		a.log.Error("failed to connect to database", logger.Error(err))
		a.mon.Drain(1)
		return
	}
	a.closers = append(a.closers, pool.Close)

	db := pg.OpenDB(pool)
	a.closers = append(a.closers, func() { _ = db.Close() })

	if a.pgCfg.MigrateOnStart {
		if err := pg.Migrate(ctx, db.DB, migrations.FS, a.pgCfg, a.log); err != nil {
			a.log.Error("failed to apply migrations", logger.Error(err))
			a.mon.Drain(1)
			return
		}
	}

	checks := []func(context.Context) error{pg.Healthcheck(pool)}

	var limiter *ratelimiter.Bucket
	if a.rateCfg.Enabled {
		var store ratelimiter.Store = ratelimiter.NewMemoryStore()
		if a.redisCfg.Enabled() {
			client, err := redis.Connect(ctx, a.redisCfg)
			if err != nil {
				a.log.Error("failed to connect to redis", logger.Error(err))
				a.mon.Drain(1)
				return
			}
			a.closers = append(a.closers, func() { _ = client.Close() })
			checks = append(checks, redis.Healthcheck(client))
			store = ratelimiter.NewRedisStore(client, a.cfg.Name+":ratelimit")
		}

		limiter, err = ratelimiter.NewBucket(store, a.rateCfg)
		if err != nil {
			a.log.Error("invalid rate limit configuration", logger.Error(err))
			a.mon.Drain(1)
			return
		}
	}

	router := modules.Router(modules.RouterOptions{
		Logger:          a.log,
		Environment:     a.env,
		Metrics:         a.metrics,
		TrustProxy:      a.cfg.TrustProxy,
		ReadinessChecks: checks,
		RateLimiter:     limiter,
		Users:           user.NewStore(db),
		Posts:           post.NewStore(db),
	})

	srv := httpserver.NewFromConfig(a.httpCfg, httpserver.WithLogger(a.log))
	addr, err := srv.Listen()
	if err != nil {
		a.mon.ListenerFailed(err)
		return
	}
	if err := a.mon.Attach(srv); err != nil {
		a.mon.Report(err)
		return
	}

	a.log.Info("Server is successfully alive on PORT: " + port(addr))

	go func() {
		defer a.mon.Recover()
		if err := srv.Serve(router); err != nil {
			a.mon.ListenerFailed(err)
		}
	}()
}

// close releases resources in reverse acquisition order.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func port(addr net.Addr) string {
	_, p, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return p
}

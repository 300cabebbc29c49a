package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	claims "github.com/aarogya/claims-api"
	"github.com/aarogya/claims-api/config"
)

type App struct {
	config  *gconfig.Container[*config.BaseConfig]
	bunDB   *bun.DB
	repo    claims.RepositoryManager
	auth    *claims.Auther
	auther  *claims.RouteAuthenticator
	service *claims.ClaimService
	srv     router.Server[*fiber.App]
	logger  *glog.BaseLogger
	metrics *httpMetrics
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("claims"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if app.Config().GetApp().GetDebug() {
		fmt.Println("============")
		fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
		fmt.Println("============")
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPAuth(ctx, app); err != nil {
		panic(err)
	}

	RegisterRoutes(app)

	app.srv.Serve(app.Config().GetServer().GetAddress())

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.Config().GetPersistence().GetDSN())
	if err != nil {
		log.Fatal(err)
		return err
	}

	persistence.RegisterModel((*claims.Account)(nil))
	persistence.RegisterModel((*claims.Claim)(nil))

	cfg := app.Config().GetPersistence()
	dialect := sqlitedialect.New()
	client, err := persistence.New(cfg, db, dialect)
	if err != nil {
		log.Fatal(err)
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(claims.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}

	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)
	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	app.bunDB = client.DB()
	app.repo = claims.NewRepositoryManager(client.DB())

	return app.repo.Validate()
}

func WithHTTPServer(ctx context.Context, app *App) error {
	app.metrics = newHTTPMetrics()
	mcfg := app.Config().GetMetrics()

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		a = router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:       app.Config().GetApp().GetName(),
			UnescapePath:  true,
			StrictRouting: false,
		}))

		if mcfg.GetEnabled() {
			a.Get(mcfg.GetPath(), adaptor.HTTPHandler(promhttp.HandlerFor(
				app.metrics.registry,
				promhttp.HandlerOpts{},
			)))
		}

		return a
	})

	srv.Router().WithLogger(app.GetLogger("router"))
	srv.Router().Use(app.metrics.Middleware())

	app.srv = srv

	return nil
}

func WithHTTPAuth(ctx context.Context, app *App) error {
	cfg := app.Config().GetAuth()

	provider := claims.NewAccountProvider(app.repo.Accounts()).
		WithLogger(app.GetLogger("auth:prv"))

	authenticator := claims.NewAuthenticator(provider, cfg).
		WithLogger(app.GetLogger("auth"))

	auther, err := claims.NewHTTPAuthenticator(authenticator, cfg)
	if err != nil {
		return err
	}
	auther.WithLogger(app.GetLogger("auth:http"))

	app.auth = authenticator
	app.auther = auther
	app.service = claims.NewClaimService(app.repo).
		WithLogger(app.GetLogger("claims"))

	return nil
}

func RegisterRoutes(app *App) {
	cfg := app.Config().GetAuth()

	protected := app.auther.ProtectedRoute(cfg, app.auther.MakeAuthErrorHandler())

	controller := claims.NewAPIController(
		app.repo,
		app.auth,
		app.service,
		protected,
		claims.WithControllerLogger(app.GetLogger("api")),
		claims.WithControllerDebug(app.Config().GetApp().GetDebug()),
	)

	controller.RegisterRoutes(app.srv.Router())
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}

type httpMetrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newHTTPMetrics() *httpMetrics {
	m := &httpMetrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "claims",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, path, and status.",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "claims",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
	)

	return m
}

func (m *httpMetrics) Middleware() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			start := time.Now()
			err := next(ctx)

			status := router.StatusOK
			if err != nil {
				status = router.StatusInternalServerError
				var rich *errors.Error
				if errors.As(err, &rich) && rich.Code != 0 {
					status = rich.Code
				}
			}

			m.requests.WithLabelValues(ctx.Method(), ctx.Path(), strconv.Itoa(status)).Inc()
			m.duration.WithLabelValues(ctx.Method(), ctx.Path()).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Command api serves the seismic monitoring HTTP API.
//
//	@title						Seismic Monitoring API
//	@version					1.0
//	@description				Live earthquake catalog proxy, saved history, news and user administration.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/seismo-watch/seismic-api/internal/api"
	"github.com/seismo-watch/seismic-api/internal/core/ports"
	"github.com/seismo-watch/seismic-api/internal/core/service"
	"github.com/seismo-watch/seismic-api/internal/infrastructure/catalog/usgs"
	"github.com/seismo-watch/seismic-api/internal/infrastructure/config"
	mongostore "github.com/seismo-watch/seismic-api/internal/infrastructure/db/mongo"
	pgstore "github.com/seismo-watch/seismic-api/internal/infrastructure/db/postgres"
	redisstore "github.com/seismo-watch/seismic-api/internal/infrastructure/db/redis"
	"github.com/seismo-watch/seismic-api/internal/infrastructure/http/handlers"
	"github.com/seismo-watch/seismic-api/internal/infrastructure/storage/photos"
	"github.com/seismo-watch/seismic-api/pkg/logger"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seismic-api: %v\n", err)
		os.Exit(1)
	}
}

// repositories is the store-specific half of the dependency graph.
type repositories struct {
	users       ports.UserRepository
	news        ports.NewsRepository
	earthquakes ports.EarthquakeRepository
	check       handlers.Check
	close       func()
}

func run() error {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "seismic-api",
		Version: version,
	})

	repos, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer repos.close()

	checks := map[string]handlers.Check{cfg.StoreDriver: repos.check}

	var eqOpts []service.EarthquakeOption
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, saving without source id cache")
		} else {
			defer func() { _ = rdb.Close() }()
			eqOpts = append(eqOpts, service.WithSourceIDCache(redisstore.NewSourceIDCache(rdb)))
			checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
			log.Info().Str("addr", cfg.Redis.Addr).Msg("redis source id cache enabled")
		}
	}

	if err := os.MkdirAll(cfg.UploadFolder, 0o755); err != nil {
		return fmt.Errorf("create upload folder: %w", err)
	}
	photoStore := photos.NewStore(cfg.UploadFolder, logger.Component("photos"))
	catalog := usgs.NewClient(cfg.USGS.BaseURL, cfg.USGS.Timeout, logger.Component("usgs"))

	e := api.NewRouter(api.Deps{
		Options: api.Options{
			JWTSecret:    cfg.JWTSecret,
			CORSOrigins:  cfg.CORSOrigins,
			RateLimitRPS: cfg.RateLimitRPS,
			MaxBodySize:  cfg.MaxBodySize,
			UploadFolder: photoStore.Root(),
		},
		Log:               log,
		AuthService:       service.NewAuthService(repos.users, photoStore, cfg.JWTSecret, cfg.JWTTTL, logger.Component("auth")),
		EarthquakeService: service.NewEarthquakeService(catalog, repos.earthquakes, logger.Component("earthquakes"), eqOpts...),
		NewsService:       service.NewNewsService(repos.news, repos.users, logger.Component("news")),
		UserService:       service.NewUserService(repos.users, repos.news, photoStore, logger.Component("users")),
		Health:            handlers.NewHealthHandler(version, checks),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
		return &repositories{
			users:       mongostore.NewUserRepository(db),
			news:        mongostore.NewNewsRepository(db),
			earthquakes: mongostore.NewEarthquakeRepository(db),
			check:       func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = client.Disconnect(ctx)
			},
		}, nil

	default:
		pool, err := pgstore.Connect(ctx, pgstore.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns})
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.Migrate {
			if err := pgstore.Migrate(ctx, pool, logger.Component("migrate")); err != nil {
				pool.Close()
				return nil, err
			}
		}
		log.Info().Int32("max_conns", cfg.Postgres.MaxConns).Msg("connected to postgres")
		return &repositories{
			users:       pgstore.NewUserRepository(pool),
			news:        pgstore.NewNewsRepository(pool),
			earthquakes: pgstore.NewEarthquakeRepository(pool),
			check:       pool.Ping,
			close:       pool.Close,
		}, nil
	}
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/cartsync/internal/client/client"
	"github.com/dmitrijs2005/cartsync/internal/client/config"
	"github.com/dmitrijs2005/cartsync/internal/client/coordinator"
	"github.com/dmitrijs2005/cartsync/internal/client/metrics"
	"github.com/dmitrijs2005/cartsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cartsync/internal/client/services"
	"github.com/dmitrijs2005/cartsync/internal/client/session"
	"github.com/dmitrijs2005/cartsync/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// NewApp wires the client from cfg: the session backend, the shop API
// client, metrics and the coordinator. Construction restores the saved
// session and loads its cart. Call Close when done.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	var closers []func() error
	fail := func(err error) (*App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
		return nil, err
	}

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closeRepo)

	api, err := client.NewHTTPClient(cfg.ServerEndpointAddr, cfg.RequestTimeout, log)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, api.Close)

	reg := prometheus.NewRegistry()
	m := metrics.NewSync(reg)
	if cfg.MetricsAddr != "" {
		mctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := metrics.Serve(mctx, cfg.MetricsAddr, reg, log); err != nil {
				log.Error(mctx, "metrics server stopped", "error", err)
			}
		}()
		closers = append(closers, func() error {
			cancel()
			<-done
			return nil
		})
	}

	coord := coordinator.New(ctx,
		session.NewStore(repo, log),
		services.NewAuthService(api, log),
		services.NewCartService(api, m, log),
		log,
	)

	app := newApp(coord, in, out)
	app.closers = closers
	return app, nil
}

// ResetLocalState wipes everything the client keeps in its session store
// without contacting the shop API.
func ResetLocalState(ctx context.Context, cfg *config.Config, log logging.Logger, out io.Writer) error {
	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	n, err := session.NewStore(repo, log).Reset(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed %d local record(s)\n", n)
	return nil
}

func openRepository(ctx context.Context, cfg *config.Config) (metadata.Repository, func() error, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		return metadata.NewRedisRepository(rdb), rdb.Close, nil
	default:
		db, err := client.InitDatabase(ctx, cfg.StoreDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open session store %s: %w", cfg.StoreDSN, err)
		}
		return metadata.NewSQLiteRepository(db), db.Close, nil
	}
}

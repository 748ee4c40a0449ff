package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardpress/cardpress/internal/server"
	"github.com/cardpress/cardpress/pkg/assets"
	"github.com/cardpress/cardpress/pkg/cache"
	"github.com/cardpress/cardpress/pkg/errors"
	"github.com/cardpress/cardpress/pkg/fetch"
	"github.com/cardpress/cardpress/pkg/store"
)

// newServeCmd creates the serve command that runs the HTTP API.
func newServeCmd() *cobra.Command {
	var (
		configPath string
		listen     string
		storeKind  string
		mongoURI   string
		redisAddr  string
		cacheDir   string
		assetsDir  string
		baseURL    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the rendering and template-store HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServerConfig(configPath)
			if err != nil {
				return err
			}
			// Flags override the file.
			if listen != "" {
				cfg.Listen = listen
			}
			if storeKind != "" {
				cfg.Store.Backend = storeKind
			}
			if mongoURI != "" {
				cfg.Store.MongoURI = mongoURI
			}
			if redisAddr != "" {
				cfg.Cache.Backend = "redis"
				cfg.Cache.Addr = redisAddr
			}
			if cacheDir != "" {
				cfg.Cache.Backend = "file"
				cfg.Cache.Dir = cacheDir
			}
			if assetsDir != "" {
				cfg.Assets.Dir = assetsDir
			}
			if baseURL != "" {
				cfg.Assets.BaseURL = baseURL
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&storeKind, "store", "", "store backend: memory (default), mongo")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for the render cache")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "directory for the file-backed render cache")
	cmd.Flags().StringVar(&assetsDir, "assets-dir", "", "directory for uploaded assets")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "public URL prefix for uploaded assets")

	return cmd
}

func runServe(ctx context.Context, cfg serverConfig) error {
	logger := loggerFromContext(ctx)

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	c, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer c.Close()

	fetchOpts := []fetch.Option{}
	if cfg.Images.CacheDir != "" {
		fetchOpts = append(fetchOpts, fetch.WithCacheDir(cfg.Images.CacheDir, cfg.Images.CacheTTL.Duration))
	}
	fetcher, err := fetch.New(fetchOpts...)
	if err != nil {
		return err
	}

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithCache(c, cfg.Cache.TTL.Duration),
		server.WithImageFetcher(fetcher),
	}
	if cfg.Assets.Dir != "" {
		uploader, err := assets.NewDiskUploader(cfg.Assets.Dir, cfg.Assets.BaseURL)
		if err != nil {
			return err
		}
		opts = append(opts, server.WithUploader(uploader))
	}

	srv := server.New(store.NewManager(st, nil), opts...)
	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Shut down cleanly when the context is cancelled (SIGINT/SIGTERM).
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.Listen, "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg storeConfig) (store.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.Database,
		})
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
}

func openCache(ctx context.Context, cfg cacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "", "memory":
		return cache.NewMemoryCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.Addr})
	case "file":
		if cfg.Dir == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "file cache backend requires cache.dir")
		}
		return cache.NewFileCache(cfg.Dir)
	case "none":
		return cache.NewNullCache(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Backend)
}
